/*Package sim provides a software uEye driver.

It implements ueye.Driver without hardware: memory is ordinary Go slices,
frames are a moving test pattern, and live capture is paced at the
configured frame rate.  Failures of any driver call can be injected with
Fail, which is how tests exercise timeouts and busy devices.

A wait for a frame that can never arrive, such as one on a stopped capture,
times out immediately instead of blocking for the full timeout.
*/
package sim

import (
	"context"
	"math"
	"sync"
	"time"
	"unsafe"

	"github.com/nasa-jpl/golab-ueye/ueye"
	"golang.org/x/time/rate"
)

const (
	// rowOverhead and colOverhead are the blanking added to the AOI when
	// computing the readout time
	rowOverhead = 36
	colOverhead = 112

	// maxFrameTime is the longest frame period in seconds
	maxFrameTime = 2.

	// frameTimeStep is the resolution of the frame period in seconds
	frameTimeStep = 1e-6

	// pitchAlign is the row alignment of allocated memory in bytes
	pitchAlign = 16
)

// Sensor describes the simulated camera
type Sensor struct {
	Name      string
	Width     int
	Height    int
	Color     bool
	PixelSize float64

	// PixelClock is the range of the pixel clock in MHz
	PixelClock ueye.PixelClockRange
}

// DefaultSensor is a 1.3 MP monochrome sensor
var DefaultSensor = Sensor{
	Name:       "UI-3240CP-M-GL",
	Width:      1280,
	Height:     1024,
	PixelSize:  5.3,
	PixelClock: ueye.PixelClockRange{Min: 5, Max: 86, Increment: 1},
}

type memory struct {
	id     int
	buf    []byte
	width  int
	height int
	bits   int
	pitch  int
}

type camera struct {
	aoi        ueye.Rect
	mode       ueye.ColorMode
	pixelClock int
	frameTime  float64
	exposure   float64
	auto       map[ueye.AutoParameter]float64

	mems   map[int]*memory
	seq    []int
	locked map[int]bool
	next   int
	queued bool
	live   bool
	freeze bool
	frame  int

	limiter *rate.Limiter
}

type failure struct {
	code  ueye.Code
	times int
}

// Driver is a simulated ueye.Driver.  The zero value is not usable; use New.
type Driver struct {
	mu       sync.Mutex
	sensor   Sensor
	cams     map[ueye.Handle]*camera
	nextH    ueye.Handle
	nextMem  int
	failures map[string]*failure
}

var _ ueye.Driver = (*Driver)(nil)

// New returns a driver simulating the given sensor
func New(s Sensor) *Driver {
	return &Driver{
		sensor:   s,
		cams:     make(map[ueye.Handle]*camera),
		failures: make(map[string]*failure),
	}
}

// Fail makes the next n calls of the named Driver method return code.
// n <= 0 clears any pending failure for the method.
func (d *Driver) Fail(method string, code ueye.Code, n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n <= 0 {
		delete(d.failures, method)
		return
	}
	d.failures[method] = &failure{code: code, times: n}
}

// fail consumes one injected failure of method, if any.  d.mu must be held.
func (d *Driver) fail(method string) error {
	f, ok := d.failures[method]
	if !ok {
		return nil
	}
	f.times--
	if f.times <= 0 {
		delete(d.failures, method)
	}
	return f.code
}

// cam looks up an open camera.  d.mu must be held.
func (d *Driver) cam(h ueye.Handle) (*camera, error) {
	c, ok := d.cams[h]
	if !ok {
		return nil, ueye.InvalidCameraHandle
	}
	return c, nil
}

// enter locks the driver and resolves the handle, applying any injected
// failure for method.  On success the caller must unlock d.mu.
func (d *Driver) enter(method string, h ueye.Handle) (*camera, error) {
	d.mu.Lock()
	if err := d.fail(method); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	c, err := d.cam(h)
	if err != nil {
		d.mu.Unlock()
		return nil, err
	}
	return c, nil
}

// Allocated is the number of image memories held by the camera
func (d *Driver) Allocated(h ueye.Handle) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.cams[h]; ok {
		return len(c.mems)
	}
	return 0
}

// Locked is the number of sequence buffers locked by waits and not yet
// unlocked
func (d *Driver) Locked(h ueye.Handle) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.cams[h]; ok {
		return len(c.locked)
	}
	return 0
}

// Sequence is the number of buffers in the camera's sequence
func (d *Driver) Sequence(h ueye.Handle) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.cams[h]; ok {
		return len(c.seq)
	}
	return 0
}

// Live is true while the camera is capturing
func (d *Driver) Live(h ueye.Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.cams[h]; ok {
		return c.live
	}
	return false
}

// Open is the number of open cameras
func (d *Driver) Open() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cams)
}

// InitCamera opens a new simulated camera with the full sensor as its AOI
func (d *Driver) InitCamera(id int) (ueye.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("InitCamera"); err != nil {
		return 0, err
	}
	if id < 0 {
		return 0, ueye.InvalidDeviceID
	}
	d.nextH++
	mode := ueye.Mono8
	if d.sensor.Color {
		mode = ueye.BGR8Packed
	}
	c := &camera{
		aoi:        ueye.Rect{Width: d.sensor.Width, Height: d.sensor.Height},
		mode:       mode,
		pixelClock: d.sensor.PixelClock.Max,
		auto:       make(map[ueye.AutoParameter]float64),
		mems:       make(map[int]*memory),
		locked:     make(map[int]bool),
	}
	c.frameTime = d.minFrameTime(c)
	c.exposure = c.frameTime * 1e3
	d.cams[d.nextH] = c
	return d.nextH, nil
}

// ExitCamera closes the camera and drops all of its memory
func (d *Driver) ExitCamera(h ueye.Handle) error {
	_, err := d.enter("ExitCamera", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	delete(d.cams, h)
	return nil
}

// minFrameTime is the readout time of the AOI at the current pixel clock
func (d *Driver) minFrameTime(c *camera) float64 {
	pixels := float64((c.aoi.Width + colOverhead) * (c.aoi.Height + rowOverhead))
	return pixels / (float64(c.pixelClock) * 1e6)
}

// refit keeps the frame time and exposure valid after the readout time moves
func (d *Driver) refit(c *camera) {
	if min := d.minFrameTime(c); c.frameTime < min {
		c.frameTime = min
	}
	if c.exposure > c.frameTime*1e3 {
		c.exposure = c.frameTime * 1e3
	}
	if c.limiter != nil {
		c.limiter.SetLimit(rate.Limit(1 / c.frameTime))
	}
}

// GetAOI returns the area of interest
func (d *Driver) GetAOI(h ueye.Handle) (ueye.Rect, error) {
	c, err := d.enter("GetAOI", h)
	if err != nil {
		return ueye.Rect{}, err
	}
	defer d.mu.Unlock()
	return c.aoi, nil
}

// SetAOI sets the area of interest, which must lie on the sensor
func (d *Driver) SetAOI(h ueye.Handle, r ueye.Rect) error {
	c, err := d.enter("SetAOI", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	if r.X < 0 || r.Y < 0 || r.Width < 1 || r.Height < 1 ||
		r.X+r.Width > d.sensor.Width || r.Y+r.Height > d.sensor.Height {
		return ueye.InvalidParameter
	}
	c.aoi = r
	d.refit(c)
	return nil
}

// GetFrameTimeRange returns the frame period range in seconds
func (d *Driver) GetFrameTimeRange(h ueye.Handle) (float64, float64, float64, error) {
	c, err := d.enter("GetFrameTimeRange", h)
	if err != nil {
		return 0, 0, 0, err
	}
	defer d.mu.Unlock()
	return d.minFrameTime(c), maxFrameTime, frameTimeStep, nil
}

// SetFrameRate sets the frame rate, rounding the period to the frame time
// step.  Rates outside of the frame time range are rejected.
func (d *Driver) SetFrameRate(h ueye.Handle, fps float64) (float64, error) {
	c, err := d.enter("SetFrameRate", h)
	if err != nil {
		return 0, err
	}
	defer d.mu.Unlock()
	if fps <= 0 {
		return 0, ueye.InvalidParameter
	}
	min := d.minFrameTime(c)
	ft := 1 / fps
	if ft < min*(1-1e-9) || ft > maxFrameTime*(1+1e-9) {
		return 0, ueye.InvalidParameter
	}
	ft = math.Round(ft/frameTimeStep) * frameTimeStep
	c.frameTime = math.Min(math.Max(ft, min), maxFrameTime)
	d.refit(c)
	return 1 / c.frameTime, nil
}

// GetFramesPerSecond returns the current frame rate
func (d *Driver) GetFramesPerSecond(h ueye.Handle) (float64, error) {
	c, err := d.enter("GetFramesPerSecond", h)
	if err != nil {
		return 0, err
	}
	defer d.mu.Unlock()
	return 1 / c.frameTime, nil
}

// GetPixelClockRange returns the sensor's pixel clock range
func (d *Driver) GetPixelClockRange(h ueye.Handle) (ueye.PixelClockRange, error) {
	_, err := d.enter("GetPixelClockRange", h)
	if err != nil {
		return ueye.PixelClockRange{}, err
	}
	defer d.mu.Unlock()
	return d.sensor.PixelClock, nil
}

// GetPixelClock returns the pixel clock in MHz
func (d *Driver) GetPixelClock(h ueye.Handle) (int, error) {
	c, err := d.enter("GetPixelClock", h)
	if err != nil {
		return 0, err
	}
	defer d.mu.Unlock()
	return c.pixelClock, nil
}

// SetPixelClock sets the pixel clock, which must be within range
func (d *Driver) SetPixelClock(h ueye.Handle, mhz int) error {
	c, err := d.enter("SetPixelClock", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	if mhz < d.sensor.PixelClock.Min || mhz > d.sensor.PixelClock.Max {
		return ueye.InvalidParameter
	}
	c.pixelClock = mhz
	d.refit(c)
	return nil
}

// GetExposure returns the exposure in milliseconds
func (d *Driver) GetExposure(h ueye.Handle) (float64, error) {
	c, err := d.enter("GetExposure", h)
	if err != nil {
		return 0, err
	}
	defer d.mu.Unlock()
	return c.exposure, nil
}

// SetExposure sets the exposure in milliseconds.  The exposure is limited to
// the frame period, and zero selects the longest exposure.
func (d *Driver) SetExposure(h ueye.Handle, ms float64) (float64, error) {
	c, err := d.enter("SetExposure", h)
	if err != nil {
		return 0, err
	}
	defer d.mu.Unlock()
	if ms < 0 {
		return 0, ueye.InvalidExposureTime
	}
	max := c.frameTime * 1e3
	if ms == 0 || ms > max {
		ms = max
	}
	c.exposure = ms
	return ms, nil
}

// SetAutoParameter records the state of an automatic control loop
func (d *Driver) SetAutoParameter(h ueye.Handle, p ueye.AutoParameter, v float64) (float64, error) {
	c, err := d.enter("SetAutoParameter", h)
	if err != nil {
		return 0, err
	}
	defer d.mu.Unlock()
	if p != ueye.AutoGain && p != ueye.AutoShutter {
		return 0, ueye.InvalidParameter
	}
	c.auto[p] = v
	return v, nil
}

// Auto returns the value last set for an automatic control loop
func (d *Driver) Auto(h ueye.Handle, p ueye.AutoParameter) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.cams[h]; ok {
		return c.auto[p]
	}
	return 0
}

// AllocImageMem allocates pitched memory for a frame
func (d *Driver) AllocImageMem(h ueye.Handle, width, height, bitsPerPixel int) (ueye.Buffer, error) {
	c, err := d.enter("AllocImageMem", h)
	if err != nil {
		return ueye.Buffer{}, err
	}
	defer d.mu.Unlock()
	if width < 1 || height < 1 || bitsPerPixel < 8 || bitsPerPixel%8 != 0 {
		return ueye.Buffer{}, ueye.InvalidParameter
	}
	row := width * bitsPerPixel / 8
	pitch := (row + pitchAlign - 1) / pitchAlign * pitchAlign
	d.nextMem++
	m := &memory{
		id:     d.nextMem,
		buf:    make([]byte, pitch*height),
		width:  width,
		height: height,
		bits:   bitsPerPixel,
		pitch:  pitch,
	}
	c.mems[m.id] = m
	return ueye.Buffer{Mem: unsafe.Pointer(&m.buf[0]), ID: m.id}, nil
}

// mem finds the memory of b, checking the pointer matches the id
func (c *camera) mem(b ueye.Buffer) (*memory, error) {
	m, ok := c.mems[b.ID]
	if !ok || unsafe.Pointer(&m.buf[0]) != b.Mem {
		return nil, ueye.InvalidMemoryPointer
	}
	return m, nil
}

// FreeImageMem releases memory, taking it out of the sequence.  Locked
// memory cannot be freed.
func (d *Driver) FreeImageMem(h ueye.Handle, b ueye.Buffer) error {
	c, err := d.enter("FreeImageMem", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	if _, err = c.mem(b); err != nil {
		return err
	}
	if c.locked[b.ID] {
		return ueye.SeqBufferIsLocked
	}
	for i, id := range c.seq {
		if id == b.ID {
			c.seq = append(c.seq[:i], c.seq[i+1:]...)
			break
		}
	}
	delete(c.mems, b.ID)
	return nil
}

// AddToSequence appends memory to the capture sequence
func (d *Driver) AddToSequence(h ueye.Handle, b ueye.Buffer) error {
	c, err := d.enter("AddToSequence", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	if _, err = c.mem(b); err != nil {
		return err
	}
	for _, id := range c.seq {
		if id == b.ID {
			return ueye.CantAddToSequence
		}
	}
	c.seq = append(c.seq, b.ID)
	return nil
}

// ClearSequence empties the capture sequence.  It fails while capturing.
func (d *Driver) ClearSequence(h ueye.Handle) error {
	c, err := d.enter("ClearSequence", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	if c.live {
		return ueye.InvalidWhileLive
	}
	c.seq = nil
	c.locked = make(map[int]bool)
	c.next = 0
	return nil
}

// InitImageQueue enables waiting on the sequence
func (d *Driver) InitImageQueue(h ueye.Handle, mode int) error {
	c, err := d.enter("InitImageQueue", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	if len(c.seq) == 0 {
		return ueye.SequenceListEmpty
	}
	c.queued = true
	return nil
}

// ExitImageQueue disables waiting on the sequence
func (d *Driver) ExitImageQueue(h ueye.Handle) error {
	c, err := d.enter("ExitImageQueue", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	c.queued = false
	return nil
}

// InquireImageMem returns the layout of memory
func (d *Driver) InquireImageMem(h ueye.Handle, b ueye.Buffer) (int, int, int, int, error) {
	c, err := d.enter("InquireImageMem", h)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	defer d.mu.Unlock()
	m, err := c.mem(b)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return m.width, m.height, m.bits, m.pitch, nil
}

// ImageMemory returns the first size bytes of memory
func (d *Driver) ImageMemory(h ueye.Handle, b ueye.Buffer, size int) ([]byte, error) {
	c, err := d.enter("ImageMemory", h)
	if err != nil {
		return nil, err
	}
	defer d.mu.Unlock()
	m, err := c.mem(b)
	if err != nil {
		return nil, err
	}
	if size < 0 || size > len(m.buf) {
		return nil, ueye.InvalidParameter
	}
	return m.buf[:size], nil
}

// WaitForNextImage blocks until the next frame is due, fills the next free
// buffer of the sequence and locks it
func (d *Driver) WaitForNextImage(h ueye.Handle, timeout time.Duration) (ueye.Buffer, error) {
	c, err := d.enter("WaitForNextImage", h)
	if err != nil {
		return ueye.Buffer{}, err
	}
	if !c.queued {
		d.mu.Unlock()
		return ueye.Buffer{}, ueye.NoActiveImgMem
	}
	freeze := c.freeze
	if !c.live && !freeze {
		d.mu.Unlock()
		return ueye.Buffer{}, ueye.TimedOut
	}
	lim := c.limiter
	d.mu.Unlock()

	if !freeze {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err = lim.Wait(ctx)
		cancel()
		if err != nil {
			return ueye.Buffer{}, ueye.TimedOut
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	c, err = d.cam(h)
	if err != nil {
		return ueye.Buffer{}, err
	}
	if len(c.seq) == 0 {
		return ueye.Buffer{}, ueye.NoActiveImgMem
	}
	for i := 0; i < len(c.seq); i++ {
		idx := (c.next + i) % len(c.seq)
		id := c.seq[idx]
		if c.locked[id] {
			continue
		}
		m := c.mems[id]
		c.fill(m)
		c.locked[id] = true
		c.next = (idx + 1) % len(c.seq)
		c.freeze = false
		return ueye.Buffer{Mem: unsafe.Pointer(&m.buf[0]), ID: id}, nil
	}
	return ueye.Buffer{}, ueye.SequenceBufAlreadyLocked
}

// fill writes a diagonal ramp that moves by one count per frame
func (c *camera) fill(m *memory) {
	c.frame++
	row := c.aoi.Width * m.bits / 8
	if row > m.pitch {
		row = m.pitch
	}
	rows := c.aoi.Height
	if rows > m.height {
		rows = m.height
	}
	for y := 0; y < rows; y++ {
		line := m.buf[y*m.pitch : y*m.pitch+row]
		for x := range line {
			line[x] = byte(x + y + c.frame)
		}
	}
}

// UnlockSeqBuf returns a locked buffer to the sequence
func (d *Driver) UnlockSeqBuf(h ueye.Handle, b ueye.Buffer) error {
	c, err := d.enter("UnlockSeqBuf", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	if _, err = c.mem(b); err != nil {
		return err
	}
	if !c.locked[b.ID] {
		return ueye.ImgMemNotInSequenceList
	}
	delete(c.locked, b.ID)
	return nil
}

// CaptureVideo starts live capture paced at the current frame rate
func (d *Driver) CaptureVideo(h ueye.Handle, wait bool) error {
	c, err := d.enter("CaptureVideo", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	if len(c.seq) == 0 {
		return ueye.NoActiveImgMem
	}
	c.limiter = rate.NewLimiter(rate.Limit(1/c.frameTime), 1)
	c.live = true
	return nil
}

// StopLiveVideo stops live capture.  Stopping a stopped camera succeeds.
func (d *Driver) StopLiveVideo(h ueye.Handle, force bool) error {
	c, err := d.enter("StopLiveVideo", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	c.live = false
	return nil
}

// FreezeVideo arms a single frame for the next wait
func (d *Driver) FreezeVideo(h ueye.Handle, wait bool) error {
	c, err := d.enter("FreezeVideo", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	if len(c.seq) == 0 {
		return ueye.NoActiveImgMem
	}
	if c.live {
		return ueye.CaptureRunning
	}
	c.freeze = true
	return nil
}

// GetColorMode returns the color mode
func (d *Driver) GetColorMode(h ueye.Handle) (ueye.ColorMode, error) {
	c, err := d.enter("GetColorMode", h)
	if err != nil {
		return 0, err
	}
	defer d.mu.Unlock()
	return c.mode, nil
}

// SetColorMode sets the color mode, which must have a known pixel size
func (d *Driver) SetColorMode(h ueye.Handle, m ueye.ColorMode) error {
	c, err := d.enter("SetColorMode", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	if _, err = ueye.BitsPerPixel(m); err != nil {
		return ueye.InvalidColorMode
	}
	c.mode = m
	return nil
}

// formats are the predefined formats, derived from the sensor size
func (d *Driver) formats() []ueye.ImageFormat {
	w, hgt := d.sensor.Width, d.sensor.Height
	return []ueye.ImageFormat{
		{ID: 1, Width: w, Height: hgt, Name: "full sensor"},
		{ID: 2, Width: w / 2, Height: hgt / 2, X: w / 4, Y: hgt / 4, Name: "center half"},
		{ID: 3, Width: w / 4, Height: hgt / 4, X: 3 * w / 8, Y: 3 * hgt / 8, Name: "center quarter"},
	}
}

// ImageFormats lists the predefined formats
func (d *Driver) ImageFormats(h ueye.Handle) ([]ueye.ImageFormat, error) {
	_, err := d.enter("ImageFormats", h)
	if err != nil {
		return nil, err
	}
	defer d.mu.Unlock()
	return d.formats(), nil
}

// SetImageFormat applies a predefined format to the AOI
func (d *Driver) SetImageFormat(h ueye.Handle, id int) error {
	c, err := d.enter("SetImageFormat", h)
	if err != nil {
		return err
	}
	defer d.mu.Unlock()
	for _, f := range d.formats() {
		if f.ID == id {
			c.aoi = ueye.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
			d.refit(c)
			return nil
		}
	}
	return ueye.InvalidParameter
}

// GetSensorInfo describes the simulated sensor
func (d *Driver) GetSensorInfo(h ueye.Handle) (ueye.SensorInfo, error) {
	_, err := d.enter("GetSensorInfo", h)
	if err != nil {
		return ueye.SensorInfo{}, err
	}
	defer d.mu.Unlock()
	return ueye.SensorInfo{
		Name:      d.sensor.Name,
		MaxWidth:  d.sensor.Width,
		MaxHeight: d.sensor.Height,
		Color:     d.sensor.Color,
		PixelSize: d.sensor.PixelSize,
	}, nil
}
