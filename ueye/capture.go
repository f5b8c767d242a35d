package ueye

import (
	"time"

	"github.com/nasa-jpl/golab-ueye/util"
	"github.com/pkg/errors"
)

// CaptureVideo (re)allocates the buffer ring and starts live acquisition
// into it.  If wait is true the call blocks until the first frame arrives.
func (c *Camera) CaptureVideo(wait bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captureVideo(wait)
}

func (c *Camera) captureVideo(wait bool) error {
	if c.live {
		if err := c.stopVideo(); err != nil {
			return err
		}
	}
	if err := c.alloc(); err != nil {
		return err
	}
	if err := c.drv.CaptureVideo(c.handle, wait); err != nil {
		return errors.Wrap(err, "starting live video")
	}
	c.live = true
	return nil
}

// StopVideo stops live acquisition.  The buffers stay allocated.
func (c *Camera) StopVideo() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return ErrNotOpen
	}
	return c.stopVideo()
}

func (c *Camera) stopVideo() error {
	if err := c.drv.StopLiveVideo(c.handle, true); err != nil {
		return errors.Wrap(err, "stopping live video")
	}
	c.live = false
	return nil
}

// FreezeVideo acquires a single frame into the buffer ring.  Buffers must
// already be allocated, see Alloc.
func (c *Camera) FreezeVideo(wait bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return ErrNotOpen
	}
	if len(c.buffers) == 0 {
		return ErrNoBuffers
	}
	return errors.Wrap(c.drv.FreezeVideo(c.handle, wait), "freezing video")
}

// Live is true while a live capture is running
func (c *Camera) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// NextFrame waits for the next filled buffer of a running capture and
// copies it out.  A timeout of zero uses DefaultTimeout of the frame rate.
// The buffer is returned to the driver before NextFrame returns.
func (c *Camera) NextFrame(timeout time.Duration) (*Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return nil, ErrNotOpen
	}
	if len(c.buffers) == 0 {
		return nil, ErrNoBuffers
	}
	t, err := c.timeout(timeout)
	if err != nil {
		return nil, err
	}
	b, err := c.wait(t)
	if err != nil {
		return nil, err
	}
	return c.readAndUnlock(b)
}

// CaptureImage starts a capture, takes one frame and stops the capture
func (c *Camera) CaptureImage(timeout time.Duration) (*Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return nil, ErrNotOpen
	}
	t, err := c.timeout(timeout)
	if err != nil {
		return nil, err
	}
	if err = c.captureVideo(false); err != nil {
		return nil, err
	}
	im, err := c.frame(t)
	serr := c.stopVideo()
	if err != nil {
		return nil, util.MergeErrors([]error{err, serr})
	}
	return im, serr
}

// CaptureImages starts a capture and takes n frames from it.  A frame that
// does not arrive in time is logged and left nil in the output, so the
// result always has length n.  Any other failure aborts the sequence.
func (c *Camera) CaptureImages(n int, timeout time.Duration) ([]*Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == 0 {
		return nil, ErrNotOpen
	}
	if n < 0 {
		return nil, errors.Errorf("cannot capture %d images", n)
	}
	t, err := c.timeout(timeout)
	if err != nil {
		return nil, err
	}
	if err = c.captureVideo(false); err != nil {
		return nil, err
	}
	out := make([]*Image, n)
	for i := range out {
		b, err := c.wait(t)
		if err != nil {
			c.log.Warnw("missed frame", "index", i, "of", n, "err", err)
			continue
		}
		im, err := c.readAndUnlock(b)
		if err != nil {
			return out, util.MergeErrors([]error{err, c.stopVideo()})
		}
		out[i] = im
	}
	return out, c.stopVideo()
}

// frame waits for and reads one frame
func (c *Camera) frame(t time.Duration) (*Image, error) {
	b, err := c.wait(t)
	if err != nil {
		return nil, err
	}
	return c.readAndUnlock(b)
}

func (c *Camera) wait(t time.Duration) (Buffer, error) {
	start := time.Now()
	b, err := c.drv.WaitForNextImage(c.handle, t)
	frameWait.WithLabelValues(c.label).Observe(time.Since(start).Seconds())
	if err != nil {
		framesMissed.WithLabelValues(c.label).Inc()
		return Buffer{}, errors.Wrapf(err, "waiting %v for next image", t)
	}
	return b, nil
}

// readAndUnlock copies b out and returns it to the driver.  The unlock
// happens whether or not the copy succeeded.
func (c *Camera) readAndUnlock(b Buffer) (*Image, error) {
	im, _, err := readImage(c.drv, c.handle, b)
	uerr := c.drv.UnlockSeqBuf(c.handle, b)
	if uerr != nil {
		uerr = errors.Wrapf(uerr, "unlocking buffer %d", b.ID)
	}
	if err != nil {
		return nil, util.MergeErrors([]error{err, uerr})
	}
	if uerr != nil {
		return nil, uerr
	}
	framesAcquired.WithLabelValues(c.label).Inc()
	return im, nil
}

func (c *Camera) timeout(t time.Duration) (time.Duration, error) {
	if t > 0 {
		return t, nil
	}
	fps, err := c.fps()
	if err != nil {
		return 0, err
	}
	return DefaultTimeout(fps), nil
}
