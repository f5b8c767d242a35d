package ueye

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// Image is a frame copied out of driver memory.  Pix is row major with the
// row padding removed, so each row is Width*Channels() bytes long.
type Image struct {
	// Width and Height are the frame dimensions in pixels
	Width  int
	Height int

	// BitsPerPixel is the pixel size implied by ColorMode
	BitsPerPixel int

	// ColorMode is the mode the frame was captured in
	ColorMode ColorMode

	// Pix holds the pixel bytes
	Pix []byte
}

// Channels is the number of bytes per pixel
func (im *Image) Channels() int {
	return (im.BitsPerPixel + 7) / 8
}

// Shape is (H, W) for single byte pixels and (H, W, C) otherwise
func (im *Image) Shape() []int {
	c := im.Channels()
	if c > 1 {
		return []int{im.Height, im.Width, c}
	}
	return []int{im.Height, im.Width}
}

// At returns byte ch of the pixel at (row, col)
func (im *Image) At(row, col, ch int) byte {
	c := im.Channels()
	return im.Pix[(row*im.Width+col)*c+ch]
}

// Samples decodes the frame into one uint16 per color component and returns
// the samples with the number of samples per pixel
func (im *Image) Samples() ([]uint16, int, error) {
	bps, spp, err := sampleLayout(im.ColorMode)
	if err != nil {
		return nil, 0, err
	}
	n := im.Width * im.Height * spp
	if len(im.Pix) < n*bps {
		return nil, 0, errors.Errorf("image holds %d bytes, %d needed for %dx%d %s", len(im.Pix), n*bps, im.Width, im.Height, im.ColorMode)
	}
	out := make([]uint16, n)
	if bps == 1 {
		for i := 0; i < n; i++ {
			out[i] = uint16(im.Pix[i])
		}
		return out, spp, nil
	}
	for i := 0; i < n; i++ {
		out[i] = binary.LittleEndian.Uint16(im.Pix[2*i:])
	}
	return out, spp, nil
}

// ToImage converts the frame to an image.Image.  Samples with more than 8
// significant bits are shifted up to fill 16 bits.
func (im *Image) ToImage() (image.Image, error) {
	samples, spp, err := im.Samples()
	if err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, im.Width, im.Height)
	shift := uint(16 - SignificantBits(im.ColorMode))
	bps, _, _ := sampleLayout(im.ColorMode)
	switch {
	case spp == 1 && bps == 1:
		out := image.NewGray(rect)
		copy(out.Pix, im.Pix[:im.Width*im.Height])
		return out, nil
	case spp == 1:
		out := image.NewGray16(rect)
		for i, v := range samples {
			binary.BigEndian.PutUint16(out.Pix[2*i:], v<<shift)
		}
		return out, nil
	}

	// order of the red, green and blue samples within a pixel
	var r, g, b int
	switch im.ColorMode {
	case RGB8Packed, RGBA8Packed:
		r, g, b = 0, 1, 2
	case BGR8Packed, BGRA8Packed, BGRY8Packed, BGR12Unpacked, BGRA12Unpacked:
		r, g, b = 2, 1, 0
	default:
		return nil, errors.Errorf("no image conversion for color mode %s", im.ColorMode)
	}
	if bps == 1 {
		out := image.NewRGBA(rect)
		for p := 0; p < im.Width*im.Height; p++ {
			px := samples[p*spp:]
			out.Pix[4*p] = uint8(px[r])
			out.Pix[4*p+1] = uint8(px[g])
			out.Pix[4*p+2] = uint8(px[b])
			out.Pix[4*p+3] = 0xff
		}
		return out, nil
	}
	out := image.NewRGBA64(rect)
	for p := 0; p < im.Width*im.Height; p++ {
		px := samples[p*spp:]
		out.SetRGBA64(p%im.Width, p/im.Width, color.RGBA64{
			R: px[r] << shift,
			G: px[g] << shift,
			B: px[b] << shift,
			A: 0xffff,
		})
	}
	return out, nil
}

// UnpadBuffer strips the padding at the end of each row of a pitched buffer
func UnpadBuffer(buf []byte, pitch, rowBytes, height int) ([]byte, error) {
	if rowBytes > pitch {
		return nil, errors.Errorf("row of %d bytes does not fit pitch %d", rowBytes, pitch)
	}
	if height > 0 && len(buf) < pitch*(height-1)+rowBytes {
		return nil, errors.Errorf("buffer of %d bytes too small for %d rows with pitch %d", len(buf), height, pitch)
	}
	out := make([]byte, 0, rowBytes*height)
	for row := 0; row < height; row++ {
		start := row * pitch
		out = append(out, buf[start:start+rowBytes]...)
	}
	return out, nil
}

// readImage copies the frame held by b into a new Image
func readImage(d Driver, h Handle, b Buffer) (*Image, MemoryInfo, error) {
	var info MemoryInfo
	aoi, err := d.GetAOI(h)
	if err != nil {
		return nil, info, errors.Wrap(err, "reading AOI")
	}
	x, y, bits, pitch, err := d.InquireImageMem(h, b)
	if err != nil {
		return nil, info, errors.Wrap(err, "inquiring image memory")
	}
	info = MemoryInfo{Width: aoi.Width, Height: aoi.Height, Bits: bits, Pitch: pitch}
	if info.Width > x || info.Height > y {
		return nil, info, errors.Errorf("AOI %dx%d larger than buffer %dx%d, reallocate buffers after changing the AOI", info.Width, info.Height, x, y)
	}
	mode, err := d.GetColorMode(h)
	if err != nil {
		return nil, info, errors.Wrap(err, "reading color mode")
	}
	bpp, err := BitsPerPixel(mode)
	if err != nil {
		return nil, info, err
	}
	if bpp != bits {
		return nil, info, errors.Errorf("buffer holds %d bit pixels but color mode %s is %d bits, reallocate buffers after changing the color mode", bits, mode, bpp)
	}
	raw, err := d.ImageMemory(h, b, pitch*info.Height)
	if err != nil {
		return nil, info, errors.Wrap(err, "mapping image memory")
	}
	pix, err := UnpadBuffer(raw, pitch, info.Width*((bits+7)/8), info.Height)
	if err != nil {
		return nil, info, err
	}
	return &Image{
		Width:        info.Width,
		Height:       info.Height,
		BitsPerPixel: bpp,
		ColorMode:    mode,
		Pix:          pix,
	}, info, nil
}
