package ueye

import "github.com/pkg/errors"

// Settings is a set of camera parameters applied together, typically at
// bootup.  Zero values and nil pointers leave the corresponding parameter
// alone.
type Settings struct {
	// ColorMode is a color mode name as accepted by ParseColorMode
	ColorMode string `yaml:"ColorMode" koanf:"ColorMode"`

	// PixelClock in MHz
	PixelClock int `yaml:"PixelClock" koanf:"PixelClock"`

	// AOI, applied when Width and Height are nonzero
	AOI Rect `yaml:"AOI" koanf:"AOI"`

	// FPS is the frame rate in Hz
	FPS float64 `yaml:"FPS" koanf:"FPS"`

	// ExposureMs is the exposure time in milliseconds
	ExposureMs float64 `yaml:"ExposureMs" koanf:"ExposureMs"`

	// AutoExposure and AutoGain switch the automatic loops, nil leaves
	// them as they are
	AutoExposure *bool `yaml:"AutoExposure" koanf:"AutoExposure"`
	AutoGain     *bool `yaml:"AutoGain" koanf:"AutoGain"`
}

// Configure applies s to the camera.  Parameters are applied in dependency
// order: the color mode and pixel clock before the AOI, the AOI before the
// frame rate, and the frame rate before the exposure, since each bounds the
// next.  The first failure stops the sequence.
func (c *Camera) Configure(s Settings) error {
	if s.ColorMode != "" {
		m, err := ParseColorMode(s.ColorMode)
		if err != nil {
			return err
		}
		if err = c.SetColorMode(m); err != nil {
			return err
		}
	}
	if s.PixelClock != 0 {
		if err := c.SetPixelClock(s.PixelClock); err != nil {
			return err
		}
	}
	if s.AOI.Width != 0 && s.AOI.Height != 0 {
		if err := c.SetAOI(s.AOI); err != nil {
			return err
		}
	}
	if s.FPS != 0 {
		if _, err := c.SetFPS(s.FPS); err != nil {
			return err
		}
	}
	if s.ExposureMs != 0 {
		if _, err := c.SetExposure(s.ExposureMs); err != nil {
			return err
		}
	}
	if s.AutoExposure != nil {
		if err := c.SetExposureAuto(*s.AutoExposure); err != nil {
			return errors.Wrap(err, "configuring auto exposure")
		}
	}
	if s.AutoGain != nil {
		if err := c.SetGainAuto(*s.AutoGain); err != nil {
			return errors.Wrap(err, "configuring auto gain")
		}
	}
	return nil
}
