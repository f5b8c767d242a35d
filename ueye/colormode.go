package ueye

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ColorMode is the pixel encoding the driver writes into image memory
type ColorMode int

// color modes, values as in ueye.h
const (
	SensorRaw8      ColorMode = 11
	SensorRaw10     ColorMode = 33
	SensorRaw12     ColorMode = 27
	SensorRaw16     ColorMode = 29
	Mono8           ColorMode = 6
	Mono10          ColorMode = 34
	Mono12          ColorMode = 26
	Mono16          ColorMode = 28
	BGR8Packed      ColorMode = 1
	RGB8Packed      ColorMode = 129
	BGRA8Packed     ColorMode = 0
	RGBA8Packed     ColorMode = 128
	BGRY8Packed     ColorMode = 24
	BGR10Packed     ColorMode = 25
	RGB10Packed     ColorMode = 153
	BGR12Unpacked   ColorMode = 30
	BGRA12Unpacked  ColorMode = 31
	BGR5Packed      ColorMode = 3
	BGR565Packed    ColorMode = 2
	UYVYPacked      ColorMode = 12
	UYVYMonoPacked  ColorMode = 13
	UYVYBayerPacked ColorMode = 14
	CbYCrYPacked    ColorMode = 23

	// GetColorMode is passed to is_SetColorMode to read the mode back
	GetColorMode ColorMode = 0x8000
)

var (
	bitsPerPixel = map[ColorMode]int{
		SensorRaw8:      8,
		SensorRaw10:     16,
		SensorRaw12:     16,
		SensorRaw16:     16,
		Mono8:           8,
		Mono10:          16,
		Mono12:          16,
		Mono16:          16,
		RGB8Packed:      24,
		BGR8Packed:      24,
		RGBA8Packed:     32,
		BGRA8Packed:     32,
		BGR10Packed:     32,
		RGB10Packed:     32,
		BGRA12Unpacked:  64,
		BGR12Unpacked:   48,
		BGRY8Packed:     32,
		BGR565Packed:    16,
		BGR5Packed:      16,
		UYVYPacked:      16,
		UYVYMonoPacked:  16,
		UYVYBayerPacked: 16,
		CbYCrYPacked:    16,
	}

	colorModeNames = map[ColorMode]string{
		SensorRaw8:      "SENSOR_RAW8",
		SensorRaw10:     "SENSOR_RAW10",
		SensorRaw12:     "SENSOR_RAW12",
		SensorRaw16:     "SENSOR_RAW16",
		Mono8:           "MONO8",
		Mono10:          "MONO10",
		Mono12:          "MONO12",
		Mono16:          "MONO16",
		BGR8Packed:      "BGR8_PACKED",
		RGB8Packed:      "RGB8_PACKED",
		BGRA8Packed:     "BGRA8_PACKED",
		RGBA8Packed:     "RGBA8_PACKED",
		BGRY8Packed:     "BGRY8_PACKED",
		BGR10Packed:     "BGR10_PACKED",
		RGB10Packed:     "RGB10_PACKED",
		BGR12Unpacked:   "BGR12_UNPACKED",
		BGRA12Unpacked:  "BGRA12_UNPACKED",
		BGR5Packed:      "BGR5_PACKED",
		BGR565Packed:    "BGR565_PACKED",
		UYVYPacked:      "UYVY_PACKED",
		UYVYMonoPacked:  "UYVY_MONO_PACKED",
		UYVYBayerPacked: "UYVY_BAYER_PACKED",
		CbYCrYPacked:    "CBYCRY_PACKED",
	}
)

// ErrUnknownColorMode is generated when a color mode has no known pixel size
type ErrUnknownColorMode struct {
	// Mode is the offending color mode
	Mode ColorMode
}

// Error satisfies the error interface
func (e ErrUnknownColorMode) Error() string {
	return fmt.Sprintf("unknown color mode: %d", int(e.Mode))
}

// BitsPerPixel returns the number of bits per pixel for the given color mode
func BitsPerPixel(m ColorMode) (int, error) {
	bpp, ok := bitsPerPixel[m]
	if !ok {
		return 0, ErrUnknownColorMode{Mode: m}
	}
	return bpp, nil
}

// String returns the SDK name of the mode without its IS_CM_ prefix
func (m ColorMode) String() string {
	if s, ok := colorModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("COLORMODE(%d)", int(m))
}

// ParseColorMode is the inverse of String.  It is case insensitive and
// tolerates the IS_CM_ prefix
func ParseColorMode(s string) (ColorMode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "IS_CM_")
	for m, name := range colorModeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, errors.Errorf("color mode %q not understood, known modes: %s", s, strings.Join(ColorModeNames(), ", "))
}

// ColorModeNames lists the names of all known color modes, sorted
func ColorModeNames() []string {
	out := make([]string, 0, len(colorModeNames))
	for _, name := range colorModeNames {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// sampleLayout returns the bytes per sample and samples per pixel of a mode.
// Modes with more than 8 significant bits per component are stored as
// little endian 16-bit samples; everything else is treated bytewise.
func sampleLayout(m ColorMode) (bytesPerSample, samplesPerPixel int, err error) {
	switch m {
	case SensorRaw10, SensorRaw12, SensorRaw16, Mono10, Mono12, Mono16:
		return 2, 1, nil
	case BGR12Unpacked:
		return 2, 3, nil
	case BGRA12Unpacked:
		return 2, 4, nil
	}
	bpp, err := BitsPerPixel(m)
	if err != nil {
		return 0, 0, err
	}
	return 1, bpp / 8, nil
}

// SignificantBits is the number of meaningful bits in one sample of the mode
func SignificantBits(m ColorMode) int {
	switch m {
	case SensorRaw10, Mono10:
		return 10
	case SensorRaw12, Mono12, BGR12Unpacked, BGRA12Unpacked:
		return 12
	case SensorRaw16, Mono16:
		return 16
	}
	return 8
}
