package ueye

import (
	"time"
	"unsafe"
)

// Handle identifies an open camera to the driver.  The zero value is never
// a valid open camera.
type Handle uint32

// Buffer is a block of image memory allocated by the driver.  Once added to
// the sequence the memory belongs to the driver; Go code only reads it
// between a successful wait and the matching unlock.
type Buffer struct {
	// Mem is the start of the memory, owned by the driver
	Mem unsafe.Pointer

	// ID is the driver's identifier for the memory
	ID int
}

// Rect describes an area of interest on the sensor
type Rect struct {
	// X is the left pixel index.  0-based
	X int `json:"x" yaml:"X"`

	// Y is the top pixel index.  0-based
	Y int `json:"y" yaml:"Y"`

	// Width is the width in pixels
	Width int `json:"width" yaml:"Width"`

	// Height is the height in pixels
	Height int `json:"height" yaml:"Height"`
}

// MemoryInfo describes the layout of a buffer
type MemoryInfo struct {
	// Width and Height come from the AOI
	Width, Height int

	// Bits is the number of bits per pixel the memory was allocated with
	Bits int

	// Pitch is the length of one row in bytes, including padding
	Pitch int
}

// PixelClockRange is the range of the pixel clock in MHz
type PixelClockRange struct {
	Min       int `json:"min"`
	Max       int `json:"max"`
	Increment int `json:"increment"`
}

// ImageFormat is one entry of the camera's list of predefined formats
type ImageFormat struct {
	ID           int    `json:"id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	CaptureModes uint   `json:"captureModes"`
	Name         string `json:"name"`
}

// SensorInfo holds static information about the sensor
type SensorInfo struct {
	// Name is the sensor model
	Name string `json:"name"`

	// MaxWidth and MaxHeight are the full sensor dimensions in pixels
	MaxWidth  int `json:"maxWidth"`
	MaxHeight int `json:"maxHeight"`

	// Color is true for a Bayer sensor
	Color bool `json:"color"`

	// PixelSize is the pixel pitch in microns
	PixelSize float64 `json:"pixelSize"`
}

// AutoParameter selects an automatic control loop of the camera
type AutoParameter int

const (
	// AutoGain is IS_SET_ENABLE_AUTO_GAIN
	AutoGain AutoParameter = 0x8800

	// AutoShutter is IS_SET_ENABLE_AUTO_SHUTTER
	AutoShutter AutoParameter = 0x8802
)

// Driver is the subset of the uEye SDK used by Camera.  Each method maps onto
// one SDK function; errors are the status code run through Check.
type Driver interface {
	// InitCamera opens camera id (0 for the first free camera)
	InitCamera(id int) (Handle, error)
	ExitCamera(h Handle) error

	GetAOI(h Handle) (Rect, error)
	SetAOI(h Handle, r Rect) error

	// GetFrameTimeRange returns the frame time range in seconds
	GetFrameTimeRange(h Handle) (min, max, interval float64, err error)

	// SetFrameRate requests fps and returns the rate actually applied
	SetFrameRate(h Handle, fps float64) (float64, error)
	GetFramesPerSecond(h Handle) (float64, error)

	GetPixelClockRange(h Handle) (PixelClockRange, error)
	GetPixelClock(h Handle) (int, error)
	SetPixelClock(h Handle, mhz int) error

	// GetExposure and SetExposure use milliseconds
	GetExposure(h Handle) (float64, error)
	SetExposure(h Handle, ms float64) (float64, error)

	SetAutoParameter(h Handle, p AutoParameter, v float64) (float64, error)

	AllocImageMem(h Handle, width, height, bitsPerPixel int) (Buffer, error)
	FreeImageMem(h Handle, b Buffer) error
	AddToSequence(h Handle, b Buffer) error
	ClearSequence(h Handle) error
	InitImageQueue(h Handle, mode int) error
	ExitImageQueue(h Handle) error
	InquireImageMem(h Handle, b Buffer) (x, y, bits, pitch int, err error)

	// ImageMemory is a view of size bytes of driver memory, valid until the
	// buffer is unlocked or freed
	ImageMemory(h Handle, b Buffer, size int) ([]byte, error)

	WaitForNextImage(h Handle, timeout time.Duration) (Buffer, error)
	UnlockSeqBuf(h Handle, b Buffer) error

	CaptureVideo(h Handle, wait bool) error
	StopLiveVideo(h Handle, force bool) error
	FreezeVideo(h Handle, wait bool) error

	GetColorMode(h Handle) (ColorMode, error)
	SetColorMode(h Handle, m ColorMode) error

	ImageFormats(h Handle) ([]ImageFormat, error)
	SetImageFormat(h Handle, id int) error

	GetSensorInfo(h Handle) (SensorInfo, error)
}
