package ueye_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nasa-jpl/golab-ueye/ueye"
	"github.com/nasa-jpl/golab-ueye/ueye/sim"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// smallAOI has rows of 50 bytes in Mono8, which the simulator pads to 64
var smallAOI = ueye.Rect{X: 8, Y: 4, Width: 50, Height: 20}

func newTestCamera(t *testing.T) (*ueye.Camera, *sim.Driver, *observer.ObservedLogs) {
	t.Helper()
	drv := sim.New(sim.DefaultSensor)
	core, logs := observer.New(zap.WarnLevel)
	cam := ueye.New(drv, ueye.Config{Logger: zap.New(core).Sugar()})
	if err := cam.Open(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cam.Close() })
	if err := cam.SetAOI(smallAOI); err != nil {
		t.Fatal(err)
	}
	return cam, drv, logs
}

func approx(a, b, rtol float64) bool {
	return math.Abs(a-b) <= rtol*math.Abs(b)
}

func TestDefaultTimeout(t *testing.T) {
	cases := []struct {
		fps  float64
		want time.Duration
	}{
		{0, 2 * time.Second},
		{1, 2 * time.Second},
		{10, 1 * time.Second},
		{0.5, 4 * time.Second},
		{0.4, 4 * time.Second},
		{1000, 1 * time.Second},
	}
	for _, c := range cases {
		if got := ueye.DefaultTimeout(c.fps); got != c.want {
			t.Errorf("DefaultTimeout(%v) = %v, expected %v", c.fps, got, c.want)
		}
	}
}

func TestOpenFailureKeepsCode(t *testing.T) {
	drv := sim.New(sim.DefaultSensor)
	drv.Fail("InitCamera", ueye.AllDevicesBusy, 1)
	cam := ueye.New(drv, ueye.Config{})
	err := cam.Open()
	if !errors.Is(err, ueye.AllDevicesBusy) {
		t.Errorf("expected AllDevicesBusy, got %v", err)
	}
	if cam.Handle() != 0 {
		t.Errorf("expected zero handle after failed open, got %d", cam.Handle())
	}
	if err = cam.Open(); err != nil {
		t.Errorf("expected second open to succeed, got %v", err)
	}
	cam.Close()
}

func TestUseBeforeOpen(t *testing.T) {
	cam := ueye.New(sim.New(sim.DefaultSensor), ueye.Config{})
	if _, err := cam.SetFPS(10); err != ueye.ErrNotOpen {
		t.Errorf("expected ErrNotOpen from SetFPS, got %v", err)
	}
	if _, err := cam.CaptureImage(0); err != ueye.ErrNotOpen {
		t.Errorf("expected ErrNotOpen from CaptureImage, got %v", err)
	}
	if err := cam.Alloc(); err != ueye.ErrNotOpen {
		t.Errorf("expected ErrNotOpen from Alloc, got %v", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("expected closing an unopened camera to do nothing, got %v", err)
	}
}

func TestSetFPSClampsHigh(t *testing.T) {
	cam, _, logs := newTestCamera(t)
	_, hi, err := cam.FPSRange()
	if err != nil {
		t.Fatal(err)
	}
	got, err := cam.SetFPS(hi * 10)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got, hi, 0.01) {
		t.Errorf("expected frame rate clamped to %f, got %f", hi, got)
	}
	if n := logs.FilterMessage("frame rate not in possible range, clamped").Len(); n != 1 {
		t.Errorf("expected one clamp warning, got %d", n)
	}
	cached, err := cam.FPS()
	if err != nil {
		t.Fatal(err)
	}
	if cached != got {
		t.Errorf("expected FPS to return the applied rate %f, got %f", got, cached)
	}
}

func TestSetFPSClampsLow(t *testing.T) {
	cam, _, logs := newTestCamera(t)
	lo, _, err := cam.FPSRange()
	if err != nil {
		t.Fatal(err)
	}
	got, err := cam.SetFPS(lo / 10)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got, lo, 0.01) {
		t.Errorf("expected frame rate clamped to %f, got %f", lo, got)
	}
	if logs.Len() != 1 {
		t.Errorf("expected one warning, got %d", logs.Len())
	}
}

func TestSetFPSInRangeDoesNotWarn(t *testing.T) {
	cam, _, logs := newTestCamera(t)
	got, err := cam.SetFPS(20)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got, 20, 1e-3) {
		t.Errorf("expected 20 fps, got %f", got)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no warnings, got %v", logs.All())
	}
}

func TestSetPixelClockClamps(t *testing.T) {
	cam, _, logs := newTestCamera(t)
	if err := cam.SetPixelClock(500); err != nil {
		t.Fatal(err)
	}
	pc, err := cam.PixelClock()
	if err != nil {
		t.Fatal(err)
	}
	if pc != sim.DefaultSensor.PixelClock.Max {
		t.Errorf("expected pixel clock clamped to %d, got %d", sim.DefaultSensor.PixelClock.Max, pc)
	}
	if logs.Len() != 2 {
		t.Errorf("expected a general and a clamp warning, got %d entries", logs.Len())
	}
	if n := logs.FilterMessage("pixel clock out of range, clamped").Len(); n != 1 {
		t.Errorf("expected one clamp warning, got %d", n)
	}
}

func TestSetPixelClockInRange(t *testing.T) {
	cam, _, logs := newTestCamera(t)
	if err := cam.SetPixelClock(30); err != nil {
		t.Fatal(err)
	}
	pc, _ := cam.PixelClock()
	if pc != 30 {
		t.Errorf("expected pixel clock 30, got %d", pc)
	}
	if logs.Len() != 1 {
		t.Errorf("expected only the general warning, got %d entries", logs.Len())
	}
}

func TestPixelClockDropsCachedFPS(t *testing.T) {
	cam, _, _ := newTestCamera(t)
	_, hi, _ := cam.FPSRange()
	if _, err := cam.SetFPS(hi); err != nil {
		t.Fatal(err)
	}
	if err := cam.SetPixelClock(5); err != nil {
		t.Fatal(err)
	}
	fps, err := cam.FPS()
	if err != nil {
		t.Fatal(err)
	}
	_, newHi, _ := cam.FPSRange()
	if fps > newHi*1.0001 {
		t.Errorf("expected frame rate at most %f after lowering the pixel clock, got %f", newHi, fps)
	}
}

func TestCaptureImageRemovesPadding(t *testing.T) {
	cam, drv, _ := newTestCamera(t)
	im, err := cam.CaptureImage(0)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{smallAOI.Height, smallAOI.Width}, im.Shape()); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
	if len(im.Pix) != smallAOI.Width*smallAOI.Height {
		t.Errorf("expected %d bytes, got %d", smallAOI.Width*smallAOI.Height, len(im.Pix))
	}
	// the simulator writes x+y+frame and this is the first frame
	for _, rc := range [][2]int{{0, 0}, {1, 0}, {3, 7}, {19, 49}} {
		want := byte(rc[0] + rc[1] + 1)
		if got := im.At(rc[0], rc[1], 0); got != want {
			t.Errorf("pixel %v = %d, expected %d", rc, got, want)
		}
	}
	h := cam.Handle()
	if drv.Locked(h) != 0 {
		t.Errorf("expected no locked buffers, got %d", drv.Locked(h))
	}
	if drv.Live(h) || cam.Live() {
		t.Error("expected capture stopped after CaptureImage")
	}
	if drv.Allocated(h) != ueye.DefaultBufferCount {
		t.Errorf("expected %d buffers, got %d", ueye.DefaultBufferCount, drv.Allocated(h))
	}
}

func TestCaptureImageColor(t *testing.T) {
	cam, _, _ := newTestCamera(t)
	if err := cam.SetColorMode(ueye.BGR8Packed); err != nil {
		t.Fatal(err)
	}
	im, err := cam.CaptureImage(0)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{smallAOI.Height, smallAOI.Width, 3}, im.Shape()); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
	// byte ch of pixel col sits at offset 3*col+ch of its row
	if got, want := im.At(2, 5, 1), byte(2+3*5+1+1); got != want {
		t.Errorf("expected %d, got %d", want, got)
	}
}

func TestCaptureImageTimeout(t *testing.T) {
	cam, drv, _ := newTestCamera(t)
	drv.Fail("WaitForNextImage", ueye.TimedOut, 1)
	_, err := cam.CaptureImage(10 * time.Millisecond)
	if !errors.Is(err, ueye.TimedOut) {
		t.Errorf("expected TimedOut, got %v", err)
	}
	if drv.Live(cam.Handle()) {
		t.Error("expected capture stopped after a timeout")
	}
}

func TestCaptureImageTimeoutAndStopFailure(t *testing.T) {
	cam, drv, _ := newTestCamera(t)
	drv.Fail("WaitForNextImage", ueye.TimedOut, 1)
	drv.Fail("StopLiveVideo", ueye.NoSuccess, 1)
	_, err := cam.CaptureImage(10 * time.Millisecond)
	if !errors.Is(err, ueye.ErrTimedOut) {
		t.Errorf("expected the timeout to survive the failed stop, got %v", err)
	}
	if !errors.Is(err, ueye.NoSuccess) {
		t.Errorf("expected the stop failure to be reported too, got %v", err)
	}
}

func TestReadFailureStillUnlocks(t *testing.T) {
	cam, drv, _ := newTestCamera(t)
	drv.Fail("InquireImageMem", ueye.InvalidMemoryPointer, 1)
	_, err := cam.CaptureImage(0)
	if !errors.Is(err, ueye.InvalidMemoryPointer) {
		t.Errorf("expected InvalidMemoryPointer, got %v", err)
	}
	if n := drv.Locked(cam.Handle()); n != 0 {
		t.Errorf("expected the buffer to be unlocked after a failed read, %d still locked", n)
	}
}

func TestCaptureImagesMissedFrame(t *testing.T) {
	cam, drv, logs := newTestCamera(t)
	_, hi, _ := cam.FPSRange()
	if _, err := cam.SetFPS(hi); err != nil {
		t.Fatal(err)
	}
	drv.Fail("WaitForNextImage", ueye.TimedOut, 1)
	ims, err := cam.CaptureImages(5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ims) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(ims))
	}
	if ims[0] != nil {
		t.Error("expected the missed frame to be nil")
	}
	for i, im := range ims[1:] {
		if im == nil {
			t.Errorf("frame %d missing", i+1)
		}
	}
	if n := logs.FilterMessage("missed frame").Len(); n != 1 {
		t.Errorf("expected one missed frame warning, got %d", n)
	}
	h := cam.Handle()
	if drv.Locked(h) != 0 || drv.Live(h) {
		t.Errorf("expected idle camera, locked=%d live=%v", drv.Locked(h), drv.Live(h))
	}
}

func TestCaptureImagesDistinctFrames(t *testing.T) {
	cam, _, _ := newTestCamera(t)
	_, hi, _ := cam.FPSRange()
	cam.SetFPS(hi)
	ims, err := cam.CaptureImages(4, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(ims); i++ {
		if ims[i].At(0, 0, 0) == ims[i-1].At(0, 0, 0) {
			t.Errorf("frames %d and %d are identical", i-1, i)
		}
	}
}

func TestNextFrameWithoutBuffers(t *testing.T) {
	cam, _, _ := newTestCamera(t)
	if _, err := cam.NextFrame(0); err != ueye.ErrNoBuffers {
		t.Errorf("expected ErrNoBuffers, got %v", err)
	}
}

func TestLiveNextFrame(t *testing.T) {
	cam, drv, _ := newTestCamera(t)
	_, hi, _ := cam.FPSRange()
	cam.SetFPS(hi)
	if err := cam.CaptureVideo(false); err != nil {
		t.Fatal(err)
	}
	a, err := cam.NextFrame(0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := cam.NextFrame(0)
	if err != nil {
		t.Fatal(err)
	}
	if a.At(0, 0, 0) == b.At(0, 0, 0) {
		t.Error("expected consecutive frames to differ")
	}
	if err = cam.StopVideo(); err != nil {
		t.Fatal(err)
	}
	if _, err = cam.NextFrame(5 * time.Millisecond); !errors.Is(err, ueye.TimedOut) {
		t.Errorf("expected TimedOut on a stopped capture, got %v", err)
	}
	if drv.Locked(cam.Handle()) != 0 {
		t.Error("expected no locked buffers")
	}
}

func TestFreezeVideo(t *testing.T) {
	cam, _, _ := newTestCamera(t)
	if err := cam.FreezeVideo(true); err != ueye.ErrNoBuffers {
		t.Errorf("expected ErrNoBuffers before Alloc, got %v", err)
	}
	if err := cam.Alloc(); err != nil {
		t.Fatal(err)
	}
	if err := cam.FreezeVideo(true); err != nil {
		t.Fatal(err)
	}
	im, err := cam.NextFrame(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if im.Width != smallAOI.Width {
		t.Errorf("expected width %d, got %d", smallAOI.Width, im.Width)
	}
}

func TestStaleBuffersRejected(t *testing.T) {
	cam, drv, _ := newTestCamera(t)
	if err := cam.Alloc(); err != nil {
		t.Fatal(err)
	}
	bigger := smallAOI
	bigger.Width *= 2
	if err := cam.SetAOI(bigger); err != nil {
		t.Fatal(err)
	}
	if err := cam.FreezeVideo(true); err != nil {
		t.Fatal(err)
	}
	if _, err := cam.NextFrame(time.Second); err == nil {
		t.Error("expected an error reading a frame larger than its buffer")
	}
	if drv.Locked(cam.Handle()) != 0 {
		t.Error("expected the buffer unlocked after the failed read")
	}
}

func TestAllocReplacesBuffers(t *testing.T) {
	drv := sim.New(sim.DefaultSensor)
	cam := ueye.New(drv, ueye.Config{BufferCount: 5})
	if err := cam.Open(); err != nil {
		t.Fatal(err)
	}
	defer cam.Close()
	for i := 0; i < 3; i++ {
		if err := cam.Alloc(); err != nil {
			t.Fatal(err)
		}
	}
	h := cam.Handle()
	if n := drv.Allocated(h); n != 5 {
		t.Errorf("expected 5 buffers after repeated Alloc, got %d", n)
	}
	if n := drv.Sequence(h); n != 5 {
		t.Errorf("expected 5 buffers in the sequence, got %d", n)
	}
	if n := len(cam.Buffers()); n != 5 {
		t.Errorf("expected the camera to track 5 buffers, got %d", n)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	cam, drv, _ := newTestCamera(t)
	if err := cam.CaptureVideo(false); err != nil {
		t.Fatal(err)
	}
	if err := cam.Close(); err != nil {
		t.Fatal(err)
	}
	if cam.Handle() != 0 {
		t.Error("expected zero handle after Close")
	}
	if len(cam.Buffers()) != 0 {
		t.Errorf("expected no buffers after Close, got %d", len(cam.Buffers()))
	}
	if drv.Open() != 0 {
		t.Errorf("expected no open cameras in the driver, got %d", drv.Open())
	}
	if err := cam.Close(); err != nil {
		t.Errorf("expected second Close to do nothing, got %v", err)
	}
}

func TestFreeFailureStops(t *testing.T) {
	cam, drv, _ := newTestCamera(t)
	if err := cam.Alloc(); err != nil {
		t.Fatal(err)
	}
	drv.Fail("FreeImageMem", ueye.InvalidMemoryPointer, 1)
	err := cam.Alloc()
	if !errors.Is(err, ueye.InvalidMemoryPointer) {
		t.Errorf("expected InvalidMemoryPointer, got %v", err)
	}
	if n := len(cam.Buffers()); n != ueye.DefaultBufferCount {
		t.Errorf("expected all %d buffers still tracked after the failure, got %d", ueye.DefaultBufferCount, n)
	}
}

func TestAutoParameters(t *testing.T) {
	cam, drv, _ := newTestCamera(t)
	if err := cam.SetExposureAuto(true); err != nil {
		t.Fatal(err)
	}
	if err := cam.SetGainAuto(false); err != nil {
		t.Fatal(err)
	}
	h := cam.Handle()
	if v := drv.Auto(h, ueye.AutoShutter); v != 1 {
		t.Errorf("expected auto shutter enabled, got %v", v)
	}
	if v := drv.Auto(h, ueye.AutoGain); v != 0 {
		t.Errorf("expected auto gain disabled, got %v", v)
	}
}

func TestExposureLimitedByFramePeriod(t *testing.T) {
	cam, _, _ := newTestCamera(t)
	fps, err := cam.SetFPS(10)
	if err != nil {
		t.Fatal(err)
	}
	got, err := cam.SetExposure(1e4)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got, 1e3/fps, 1e-6) {
		t.Errorf("expected exposure limited to %f ms, got %f", 1e3/fps, got)
	}
	read, _ := cam.Exposure()
	if read != got {
		t.Errorf("expected Exposure to return %f, got %f", got, read)
	}
}

func TestImageFormats(t *testing.T) {
	cam, _, _ := newTestCamera(t)
	fmts, err := cam.ImageFormats()
	if err != nil {
		t.Fatal(err)
	}
	if len(fmts) == 0 {
		t.Fatal("expected at least one format")
	}
	last := fmts[len(fmts)-1]
	if err = cam.SetImageFormat(last.ID); err != nil {
		t.Fatal(err)
	}
	aoi, _ := cam.AOI()
	want := ueye.Rect{X: last.X, Y: last.Y, Width: last.Width, Height: last.Height}
	if aoi != want {
		t.Errorf("expected AOI %+v, got %+v", want, aoi)
	}
}

func TestSensorInfo(t *testing.T) {
	cam, _, _ := newTestCamera(t)
	si, err := cam.SensorInfo()
	if err != nil {
		t.Fatal(err)
	}
	if si.MaxWidth != sim.DefaultSensor.Width || si.Name != sim.DefaultSensor.Name {
		t.Errorf("unexpected sensor info %+v", si)
	}
}
