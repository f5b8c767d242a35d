// Package camera provides an HTTP interface to a uEye camera
package camera

import (
	"encoding/json"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/nasa-jpl/golab-ueye/generichttp"
	"github.com/nasa-jpl/golab-ueye/imgrec"
	"github.com/nasa-jpl/golab-ueye/ueye"
	"github.com/nasa-jpl/golab-ueye/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Camera is the part of a uEye camera that is served over HTTP.
// *ueye.Camera satisfies it.
type Camera interface {
	// CaptureImage captures a single frame, zero timeout picks a default
	CaptureImage(time.Duration) (*ueye.Image, error)

	// CaptureImages captures N frames, missed frames are nil
	CaptureImages(int, time.Duration) ([]*ueye.Image, error)

	// SetExposure sets the exposure in ms and returns the applied value
	SetExposure(float64) (float64, error)

	// Exposure returns the exposure in ms
	Exposure() (float64, error)

	SetFPS(float64) (float64, error)
	FPS() (float64, error)
	FPSRange() (float64, float64, error)

	// SetPixelClock and PixelClock work in MHz
	SetPixelClock(int) error
	PixelClock() (int, error)
	PixelClockRange() (ueye.PixelClockRange, error)

	AOI() (ueye.Rect, error)
	SetAOI(ueye.Rect) error

	ColorMode() (ueye.ColorMode, error)
	SetColorMode(ueye.ColorMode) error

	SetExposureAuto(bool) error
	SetGainAuto(bool) error

	ImageFormats() ([]ueye.ImageFormat, error)
	SetImageFormat(int) error

	SensorInfo() (ueye.SensorInfo, error)
}

var _ Camera = (*ueye.Camera)(nil)

// FPSRange is the JSON form of a frame rate range
type FPSRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BurstRequest is the body of a burst request
type BurstRequest struct {
	// FPS is the frame rate to capture at, 0 keeps the current rate
	FPS float64 `json:"fps"`

	// Frames is the number of frames
	Frames int `json:"frames"`
}

// timeoutParam parses the optional timeout query parameter.
// Bare numbers are seconds.
func timeoutParam(r *http.Request) (time.Duration, error) {
	s := r.URL.Query().Get("timeout")
	if s == "" {
		return 0, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return util.SecsToDuration(f), nil
	}
	return time.ParseDuration(s)
}

// tee returns the writer to stream FITS data to, which includes the
// recorder when it is active, and a function to call when the file is done
func tee(w io.Writer, rec *imgrec.Recorder, log *zap.SugaredLogger) (io.Writer, func()) {
	if rec == nil || !rec.Active() {
		return w, func() {}
	}
	return io.MultiWriter(w, rec), func() {
		if err := rec.Incr(); err != nil {
			log.Warnw("recorder could not advance to the next file", "root", rec.Root(), "err", err)
		}
	}
}

// GetFrame takes a picture and returns it on a GET request.
//
// the image format may be specified with the fmt query parameter, one of
// jpg, png, or fits; default to jpg.
//
// the exposure in milliseconds may be given with the exposure query
// parameter; if absent the existing value is used.
//
// the timeout may be given with the timeout query parameter, as seconds or
// anything time.ParseDuration accepts.
func GetFrame(c Camera, rec *imgrec.Recorder, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		format := q.Get("fmt")
		if format == "" {
			format = "jpg"
		}
		if format != "jpg" && format != "png" && format != "fits" {
			http.Error(w, "fmt must be one of jpg, png, fits", http.StatusBadRequest)
			return
		}
		timeout, err := timeoutParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if texp := q.Get("exposure"); texp != "" {
			ms, err := strconv.ParseFloat(texp, 64)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if _, err = c.SetExposure(ms); err != nil {
				generichttp.Error(w, err)
				return
			}
		}
		frame, err := c.CaptureImage(timeout)
		if err != nil {
			generichttp.Error(w, err)
			return
		}

		switch format {
		case "jpg", "png":
			im, err := frame.ToImage()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if format == "jpg" {
				w.Header().Set("Content-Type", "image/jpeg")
				w.WriteHeader(http.StatusOK)
				jpeg.Encode(w, im, nil)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusOK)
			png.Encode(w, im)
		case "fits":
			cards := Metadata(c)
			w2, done := tee(w, rec, log)
			defer done()
			hdr := w.Header()
			hdr.Set("Content-Type", "image/fits")
			hdr.Set("Content-Disposition", "attachment; filename=image.fits")
			err = writeFits(w2, cards, []*ueye.Image{frame})
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// Burst takes a burst of N frames at M fps and returns it as a fits image
// cube.  Missed frames are zero in the cube and counted in the MISSED card.
func Burst(c Camera, rec *imgrec.Recorder, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := BurstRequest{}
		err := json.NewDecoder(r.Body).Decode(&t)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if t.Frames < 1 {
			http.Error(w, "frames must be at least 1", http.StatusBadRequest)
			return
		}
		if t.FPS < 0 {
			http.Error(w, "fps must not be negative", http.StatusBadRequest)
			return
		}
		timeout, err := timeoutParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if t.FPS > 0 {
			if _, err = c.SetFPS(t.FPS); err != nil {
				generichttp.Error(w, err)
				return
			}
		}
		frames, err := c.CaptureImages(t.Frames, timeout)
		if err != nil {
			generichttp.Error(w, err)
			return
		}
		missed := 0
		for _, f := range frames {
			if f == nil {
				missed++
			}
		}
		if missed == len(frames) {
			generichttp.Error(w, errors.Wrapf(ueye.ErrTimedOut, "all %d frames missed", missed))
			return
		}
		cards := Metadata(c)
		// the header version is the first card
		cards[0].Value = cards[0].Value.(string) + "+burst"
		cards = append(cards,
			fitsCard("NFRAMES", t.Frames, "frames requested"),
			fitsCard("MISSED", missed, "frames missed, zero filled"))
		w2, done := tee(w, rec, log)
		defer done()
		hdr := w.Header()
		hdr.Set("Content-Type", "image/fits")
		hdr.Set("Content-Disposition", "attachment; filename=burst.fits")
		err = writeFits(w2, cards, frames)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// GetAOI returns the AOI as JSON
func GetAOI(c Camera) http.HandlerFunc {
	return generichttp.GetJSON(func() (interface{}, error) {
		return c.AOI()
	})
}

// SetAOI sets the AOI from a JSON body
func SetAOI(c Camera) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aoi := ueye.Rect{}
		err := json.NewDecoder(r.Body).Decode(&aoi)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err = c.SetAOI(aoi); err != nil {
			generichttp.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// GetColorMode returns the color mode name as {"str": name}
func GetColorMode(c Camera) http.HandlerFunc {
	return generichttp.GetString(func() (string, error) {
		m, err := c.ColorMode()
		return m.String(), err
	})
}

// SetColorMode sets the color mode from {"str": name}.  Unknown names are
// a bad request.
func SetColorMode(c Camera) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := generichttp.StrT{}
		err := json.NewDecoder(r.Body).Decode(&s)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		m, err := ueye.ParseColorMode(s.Str)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err = c.SetColorMode(m); err != nil {
			generichttp.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// HTTPCamera wraps a camera in an HTTP route table
type HTTPCamera struct {
	// Cam is the underlying camera
	Cam Camera

	// Rec is the recorder FITS frames are teed to, may be nil
	Rec *imgrec.Recorder

	// RouteTable maps URLs to functions
	RouteTable generichttp.RouteTable
}

// NewHTTPCamera returns a new HTTP wrapper around a camera.  If rec is not
// nil the /autowrite routes that control it are included.  Recorder problems
// are logged to log, which may be nil.
func NewHTTPCamera(c Camera, rec *imgrec.Recorder, log *zap.SugaredLogger) HTTPCamera {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := HTTPCamera{Cam: c, Rec: rec}
	rt := generichttp.RouteTable{
		{Method: http.MethodGet, Path: "/image"}: GetFrame(c, rec, log),
		{Method: http.MethodPost, Path: "/burst"}: Burst(c, rec, log),

		{Method: http.MethodGet, Path: "/exposure"}: generichttp.GetFloat(c.Exposure),
		{Method: http.MethodPost, Path: "/exposure"}: generichttp.SetFloat(func(ms float64) error {
			_, err := c.SetExposure(ms)
			return err
		}),

		{Method: http.MethodGet, Path: "/fps"}: generichttp.GetFloat(c.FPS),
		{Method: http.MethodPost, Path: "/fps"}: generichttp.SetFloat(func(fps float64) error {
			_, err := c.SetFPS(fps)
			return err
		}),
		{Method: http.MethodGet, Path: "/fps-range"}: generichttp.GetJSON(func() (interface{}, error) {
			lo, hi, err := c.FPSRange()
			return FPSRange{Min: lo, Max: hi}, err
		}),

		{Method: http.MethodGet, Path: "/pixel-clock"}:  generichttp.GetInt(c.PixelClock),
		{Method: http.MethodPost, Path: "/pixel-clock"}: generichttp.SetInt(c.SetPixelClock),
		{Method: http.MethodGet, Path: "/pixel-clock-range"}: generichttp.GetJSON(func() (interface{}, error) {
			return c.PixelClockRange()
		}),

		{Method: http.MethodGet, Path: "/aoi"}:  GetAOI(c),
		{Method: http.MethodPost, Path: "/aoi"}: SetAOI(c),

		{Method: http.MethodGet, Path: "/color-mode"}:  GetColorMode(c),
		{Method: http.MethodPost, Path: "/color-mode"}: SetColorMode(c),

		{Method: http.MethodPost, Path: "/auto-exposure"}: generichttp.SetBool(c.SetExposureAuto),
		{Method: http.MethodPost, Path: "/auto-gain"}:     generichttp.SetBool(c.SetGainAuto),

		{Method: http.MethodGet, Path: "/formats"}: generichttp.GetJSON(func() (interface{}, error) {
			return c.ImageFormats()
		}),
		{Method: http.MethodPost, Path: "/format"}: generichttp.SetInt(c.SetImageFormat),

		{Method: http.MethodGet, Path: "/sensor"}: generichttp.GetJSON(func() (interface{}, error) {
			return c.SensorInfo()
		}),
	}
	h.RouteTable = rt
	if rec != nil {
		imgrec.NewHTTPWrapper(rec).Inject(h)
	}
	return h
}

// RT satisfies the generichttp.HTTPer interface
func (h HTTPCamera) RT() generichttp.RouteTable {
	return h.RouteTable
}
