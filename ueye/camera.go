/*Package ueye exposes control of IDS uEye industrial cameras in Go.

The vendor SDK is reached through the Driver interface.  Package ueye/sdk
implements it with cgo against libueye_api, and package ueye/sim implements it
in software for tests and for running without hardware.  Camera layers the
ring of image buffers and frame acquisition on top of a Driver.

*/
package ueye

import (
	"strconv"
	"sync"
	"time"

	"github.com/nasa-jpl/golab-ueye/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultBufferCount is the size of the buffer ring when none is configured
	DefaultBufferCount = 3

	// WRAPVER is the wrapper code version.
	// Increment this when pkg ueye is updated.
	WRAPVER = 1
)

var (
	// ErrNotOpen is generated when the camera is used before Open or after Close
	ErrNotOpen = errors.New("camera is not open")

	// ErrNoBuffers is generated when a frame is requested before any image
	// memory has been allocated
	ErrNoBuffers = errors.New("no image buffers allocated, start a capture first")

	// ErrTimedOut matches any error caused by a wait that timed out
	ErrTimedOut error = TimedOut
)

// Config holds the parameters of a Camera that cannot change once it exists
type Config struct {
	// DeviceID is the camera id passed to is_InitCamera; 0 is the first free camera
	DeviceID int

	// BufferCount is the number of buffers in the ring, DefaultBufferCount if 0
	BufferCount int

	// Logger receives warnings; a no-op logger is used if nil
	Logger *zap.SugaredLogger
}

// Camera is a uEye camera and the image buffers registered for it.
// It is safe for concurrent use; calls are serialized.
type Camera struct {
	mu  sync.Mutex
	drv Driver
	log *zap.SugaredLogger

	deviceID    int
	bufferCount int

	// label is the device label used on metrics
	label string

	// handle is zero when the camera is not open
	handle Handle

	// buffers are owned by the driver once added to the sequence
	buffers []Buffer

	// queued is true while the image queue is initialized
	queued bool

	// live is true between CaptureVideo and StopVideo
	live bool

	// currentFPS caches the last frame rate set, 0 when unknown
	currentFPS float64
}

// New returns a Camera which is not yet open
func New(d Driver, cfg Config) *Camera {
	if cfg.BufferCount <= 0 {
		cfg.BufferCount = DefaultBufferCount
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	return &Camera{
		drv:         d,
		log:         cfg.Logger,
		deviceID:    cfg.DeviceID,
		bufferCount: cfg.BufferCount,
		label:       strconv.Itoa(cfg.DeviceID),
	}
}

// DefaultTimeout is the frame wait timeout used when none is given, one and a
// half frame periods plus a second, truncated to whole seconds
func DefaultTimeout(fps float64) time.Duration {
	if fps == 0 {
		fps = 1
	}
	return time.Duration(int(1.5*(1/fps)+1)*1000) * time.Millisecond
}

// Open initializes the connection to the camera
func (c *Camera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, err := c.drv.InitCamera(c.deviceID)
	if err != nil {
		c.handle = 0
		return errors.Wrapf(err, "initializing camera %d", c.deviceID)
	}
	c.handle = h
	return nil
}

// Close stops any capture, releases the image buffers and closes the
// connection to the camera.  Closing a closed camera does nothing.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return nil
	}
	var errs []error
	if c.live {
		errs = append(errs, c.stopVideo())
	}
	errs = append(errs, c.freeBuffers())
	err := c.drv.ExitCamera(c.handle)
	if err == nil {
		c.handle = 0
		c.currentFPS = 0
	}
	errs = append(errs, errors.Wrap(err, "exiting camera"))
	return util.MergeErrors(errs)
}

// Handle returns the driver handle, zero if the camera is not open
func (c *Camera) Handle() Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// Buffers returns the buffers currently registered with the driver
func (c *Camera) Buffers() []Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Buffer, len(c.buffers))
	copy(out, c.buffers)
	return out
}

// Alloc frees any existing image buffers and allocates a new ring sized for
// the current AOI and color mode
func (c *Camera) Alloc() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alloc()
}

func (c *Camera) alloc() error {
	if c.handle == 0 {
		return ErrNotOpen
	}
	aoi, err := c.drv.GetAOI(c.handle)
	if err != nil {
		return errors.Wrap(err, "reading AOI")
	}
	mode, err := c.drv.GetColorMode(c.handle)
	if err != nil {
		return errors.Wrap(err, "reading color mode")
	}
	bpp, err := BitsPerPixel(mode)
	if err != nil {
		return err
	}
	if err = c.freeBuffers(); err != nil {
		return err
	}
	for i := 0; i < c.bufferCount; i++ {
		b, err := c.drv.AllocImageMem(c.handle, aoi.Width, aoi.Height, bpp)
		if err != nil {
			return errors.Wrapf(err, "allocating image buffer %d", i)
		}
		c.buffers = append(c.buffers, b)
		buffersAllocated.WithLabelValues(c.label).Set(float64(len(c.buffers)))
		if err = c.drv.AddToSequence(c.handle, b); err != nil {
			return errors.Wrapf(err, "adding buffer %d to the sequence", b.ID)
		}
	}
	if err = c.drv.InitImageQueue(c.handle, 0); err != nil {
		return errors.Wrap(err, "initializing image queue")
	}
	c.queued = true
	return nil
}

// freeBuffers releases every buffer.  The first failure stops it, leaving
// the remaining buffers registered.
func (c *Camera) freeBuffers() error {
	if c.queued {
		if err := c.drv.ExitImageQueue(c.handle); err != nil {
			return errors.Wrap(err, "exiting image queue")
		}
		c.queued = false
	}
	if len(c.buffers) == 0 {
		return nil
	}
	if err := c.drv.ClearSequence(c.handle); err != nil {
		return errors.Wrap(err, "clearing sequence")
	}
	for len(c.buffers) > 0 {
		b := c.buffers[0]
		if err := c.drv.FreeImageMem(c.handle, b); err != nil {
			return errors.Wrapf(err, "freeing image buffer %d", b.ID)
		}
		c.buffers = c.buffers[1:]
		buffersAllocated.WithLabelValues(c.label).Set(float64(len(c.buffers)))
	}
	c.buffers = nil
	return nil
}

// AOI returns the current area of interest
func (c *Camera) AOI() (Rect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return Rect{}, ErrNotOpen
	}
	r, err := c.drv.GetAOI(c.handle)
	return r, errors.Wrap(err, "reading AOI")
}

// SetAOI sets the area of interest.  The buffers are sized on the next
// capture, or by calling Alloc.
func (c *Camera) SetAOI(r Rect) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return ErrNotOpen
	}
	err := c.drv.SetAOI(c.handle, r)
	if err == nil {
		c.currentFPS = 0
	}
	return errors.Wrapf(err, "setting AOI %+v", r)
}

// FPSRange returns the lowest and highest frame rate available with the
// current settings
func (c *Camera) FPSRange() (float64, float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fpsRange()
}

func (c *Camera) fpsRange() (float64, float64, error) {
	if c.handle == 0 {
		return 0, 0, ErrNotOpen
	}
	min, max, _, err := c.drv.GetFrameTimeRange(c.handle)
	if err != nil {
		return 0, 0, errors.Wrap(err, "reading frame time range")
	}
	return 1 / max, 1 / min, nil
}

// SetFPS sets the frame rate and returns the rate actually applied, which
// may differ slightly from the one asked for.  Requests outside of FPSRange
// are clamped to it with a warning.
func (c *Camera) SetFPS(fps float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lo, hi, err := c.fpsRange()
	if err != nil {
		return 0, err
	}
	clamped := util.Clamp(fps, lo, hi)
	if clamped != fps {
		c.log.Warnw("frame rate not in possible range, clamped",
			"requested", fps, "min", lo, "max", hi, "applied", clamped)
	}
	actual, err := c.drv.SetFrameRate(c.handle, clamped)
	if err != nil {
		return 0, errors.Wrapf(err, "setting frame rate to %.2f", clamped)
	}
	c.currentFPS = actual
	frameRate.WithLabelValues(c.label).Set(actual)
	return actual, nil
}

// FPS returns the frame rate last set, or asks the driver if there is none
func (c *Camera) FPS() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps()
}

func (c *Camera) fps() (float64, error) {
	if c.currentFPS != 0 {
		return c.currentFPS, nil
	}
	if c.handle == 0 {
		return 0, ErrNotOpen
	}
	f, err := c.drv.GetFramesPerSecond(c.handle)
	return f, errors.Wrap(err, "reading frame rate")
}

// PixelClockRange returns the range of the pixel clock in MHz
func (c *Camera) PixelClockRange() (PixelClockRange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return PixelClockRange{}, ErrNotOpen
	}
	r, err := c.drv.GetPixelClockRange(c.handle)
	return r, errors.Wrap(err, "reading pixel clock range")
}

// SetPixelClock sets the pixel clock in MHz.  Requests outside of the range
// reported by the driver are clamped to it with a warning.  The frame rate
// and exposure limits move with the pixel clock, so the cached frame rate is
// dropped.
func (c *Camera) SetPixelClock(mhz int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return ErrNotOpen
	}
	c.log.Warn("pixel clock changed at runtime, the frame rate and exposure may need updating")
	rng, err := c.drv.GetPixelClockRange(c.handle)
	if err != nil {
		return errors.Wrap(err, "reading pixel clock range")
	}
	clamped := util.ClampInt(mhz, rng.Min, rng.Max)
	if clamped != mhz {
		c.log.Warnw("pixel clock out of range, clamped",
			"requested", mhz, "min", rng.Min, "max", rng.Max, "applied", clamped)
	}
	if err = c.drv.SetPixelClock(c.handle, clamped); err != nil {
		return errors.Wrapf(err, "setting pixel clock to %d MHz", clamped)
	}
	c.currentFPS = 0
	return nil
}

// PixelClock returns the pixel clock in MHz
func (c *Camera) PixelClock() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return 0, ErrNotOpen
	}
	p, err := c.drv.GetPixelClock(c.handle)
	return p, errors.Wrap(err, "reading pixel clock")
}

// SetExposure sets the exposure time in milliseconds and returns the
// exposure actually applied
func (c *Camera) SetExposure(ms float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return 0, ErrNotOpen
	}
	actual, err := c.drv.SetExposure(c.handle, ms)
	if err != nil {
		return 0, errors.Wrapf(err, "setting exposure to %g ms", ms)
	}
	exposure.WithLabelValues(c.label).Set(actual)
	return actual, nil
}

// Exposure returns the exposure time in milliseconds
func (c *Camera) Exposure() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return 0, ErrNotOpen
	}
	e, err := c.drv.GetExposure(c.handle)
	return e, errors.Wrap(err, "reading exposure")
}

// SetExposureAuto turns the automatic shutter on or off
func (c *Camera) SetExposureAuto(on bool) error {
	return c.setAuto(AutoShutter, on)
}

// SetGainAuto turns the automatic gain on or off
func (c *Camera) SetGainAuto(on bool) error {
	return c.setAuto(AutoGain, on)
}

func (c *Camera) setAuto(p AutoParameter, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return ErrNotOpen
	}
	v := 0.
	if on {
		v = 1.
	}
	_, err := c.drv.SetAutoParameter(c.handle, p, v)
	return errors.Wrapf(err, "setting auto parameter %#x to %v", int(p), on)
}

// ColorMode returns the current color mode
func (c *Camera) ColorMode() (ColorMode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return 0, ErrNotOpen
	}
	m, err := c.drv.GetColorMode(c.handle)
	return m, errors.Wrap(err, "reading color mode")
}

// SetColorMode sets the color mode.  The buffers are sized for it on the
// next capture, or by calling Alloc.
func (c *Camera) SetColorMode(m ColorMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return ErrNotOpen
	}
	return errors.Wrapf(c.drv.SetColorMode(c.handle, m), "setting color mode %s", m)
}

// ImageFormats lists the predefined image formats of the camera
func (c *Camera) ImageFormats() ([]ImageFormat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return nil, ErrNotOpen
	}
	f, err := c.drv.ImageFormats(c.handle)
	return f, errors.Wrap(err, "listing image formats")
}

// SetImageFormat applies one of the formats listed by ImageFormats
func (c *Camera) SetImageFormat(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return ErrNotOpen
	}
	err := c.drv.SetImageFormat(c.handle, id)
	if err == nil {
		c.currentFPS = 0
	}
	return errors.Wrapf(err, "setting image format %d", id)
}

// SensorInfo returns static information about the sensor
func (c *Camera) SensorInfo() (SensorInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return SensorInfo{}, ErrNotOpen
	}
	s, err := c.drv.GetSensorInfo(c.handle)
	return s, errors.Wrap(err, "reading sensor info")
}
