package camera

import (
	"fmt"
	"io"
	"time"

	"github.com/astrogo/fitsio"
	"github.com/nasa-jpl/golab-ueye/ueye"
	"github.com/pkg/errors"
)

func fitsCard(name string, value interface{}, comment string) fitsio.Card {
	return fitsio.Card{Name: name, Value: value, Comment: comment}
}

// Metadata produces the FITS cards describing the camera's current state.
// Errors do not stop the collection, the first one is recorded in METAERR.
func Metadata(c Camera) []fitsio.Card {
	var errs []error
	note := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	aoi, err := c.AOI()
	note(err)
	texp, err := c.Exposure()
	note(err)
	fps, err := c.FPS()
	note(err)
	pclk, err := c.PixelClock()
	note(err)
	mode, err := c.ColorMode()
	note(err)
	sensor, err := c.SensorInfo()
	note(err)

	var metaerr string
	if len(errs) > 0 {
		metaerr = errs[0].Error()
	}
	now := time.Now()
	ts := fmt.Sprintf("%d-%02d-%02dT%02d:%02d:%02d",
		now.Year(),
		now.Month(),
		now.Day(),
		now.Hour(),
		now.Minute(),
		now.Second())

	return []fitsio.Card{
		// header to the header
		{Name: "HDRVER", Value: "UEYE-1", Comment: "header version"},
		{Name: "WRAPVER", Value: ueye.WRAPVER, Comment: "server library code version"},
		{Name: "METAERR", Value: metaerr, Comment: "error encountered gathering metadata"},
		{Name: "CAMMODL", Value: sensor.Name, Comment: "camera model"},
		{Name: "BITDEPTH", Value: ueye.SignificantBits(mode), Comment: "2^BITDEPTH is the maximum possible DN"},

		{Name: "DATE", Value: ts},

		// exposure parameters
		{Name: "EXPTIME", Value: texp / 1e3, Comment: "exposure time, seconds"},
		{Name: "FPS", Value: fps, Comment: "frame rate, Hz"},
		{Name: "PIXCLK", Value: pclk, Comment: "pixel clock, MHz"},
		{Name: "COLMODE", Value: mode.String(), Comment: "sensor color mode"},

		// aoi parameters
		{Name: "AOIX", Value: aoi.X, Comment: "0-based left pixel of the AOI"},
		{Name: "AOIY", Value: aoi.Y, Comment: "0-based top pixel of the AOI"},
		{Name: "AOIW", Value: aoi.Width, Comment: "AOI width, px"},
		{Name: "AOIH", Value: aoi.Height, Comment: "AOI height, px"},
	}
}

// writeFits streams a 16-bit fits file holding frames to w.  More than one
// frame makes a cube.  Nil frames are written as zero DN.  Multi-sample
// pixels put the sample axis first.
func writeFits(w io.Writer, cards []fitsio.Card, frames []*ueye.Image) error {
	var ref *ueye.Image
	for _, f := range frames {
		if f != nil {
			ref = f
			break
		}
	}
	if ref == nil {
		return errors.New("no frames to write")
	}
	samples := make([][]uint16, len(frames))
	spp := 1
	for i, f := range frames {
		if f == nil {
			continue
		}
		if f.Width != ref.Width || f.Height != ref.Height || f.ColorMode != ref.ColorMode {
			return errors.Errorf("frame %d is %dx%d %s, frame 0 is %dx%d %s",
				i, f.Width, f.Height, f.ColorMode, ref.Width, ref.Height, ref.ColorMode)
		}
		s, n, err := f.Samples()
		if err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
		samples[i], spp = s, n
	}

	dims := []int{ref.Width, ref.Height}
	if spp > 1 {
		dims = append([]int{spp}, dims...)
	}
	if len(frames) > 1 {
		dims = append(dims, len(frames))
	}
	cards = append(cards, fitsio.Card{Name: "BZERO", Value: 32768}, fitsio.Card{Name: "BSCALE", Value: 1.0})

	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()
	im := fitsio.NewImage(16, dims)
	defer im.Close()
	err = im.Header().Append(cards...)
	if err != nil {
		return err
	}

	per := ref.Width * ref.Height * spp
	ints := make([]int16, per*len(frames))
	for i, s := range samples {
		chunk := ints[i*per : (i+1)*per]
		if s == nil {
			for j := range chunk {
				chunk[j] = -32768
			}
			continue
		}
		for j, v := range s {
			chunk[j] = int16(int(v) - 32768)
		}
	}
	err = im.Write(ints)
	if err != nil {
		return err
	}
	return fits.Write(im)
}
