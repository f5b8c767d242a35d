package main

import (
	"testing"

	"github.com/cenkalti/backoff"
	"github.com/nasa-jpl/golab-ueye/ueye"
	"github.com/nasa-jpl/golab-ueye/ueye/sim"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type countingOpener struct {
	errs  []error
	calls int
}

func (o *countingOpener) Open() error {
	o.calls++
	if len(o.errs) == 0 {
		return nil
	}
	err := o.errs[0]
	o.errs = o.errs[1:]
	return err
}

func TestOpenRetriesBusy(t *testing.T) {
	o := &countingOpener{errs: []error{
		errors.Wrap(ueye.AllDevicesBusy, "opening camera"),
		ueye.CantOpenDevice,
	}}
	err := openWithRetry(o, &backoff.ZeroBackOff{}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	if o.calls != 3 {
		t.Errorf("expected 3 calls, got %d", o.calls)
	}
}

func TestOpenPermanentError(t *testing.T) {
	o := &countingOpener{errs: []error{ueye.InvalidDeviceID}}
	err := openWithRetry(o, &backoff.ZeroBackOff{}, zap.NewNop().Sugar())
	if !errors.Is(err, ueye.InvalidDeviceID) {
		t.Errorf("expected InvalidDeviceID, got %v", err)
	}
	if o.calls != 1 {
		t.Errorf("expected a single call, got %d", o.calls)
	}
}

func TestOpenGivesUp(t *testing.T) {
	busy := make([]error, 10)
	for i := range busy {
		busy[i] = ueye.AllDevicesBusy
	}
	o := &countingOpener{errs: busy}
	err := openWithRetry(o, backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2), zap.NewNop().Sugar())
	if !errors.Is(err, ueye.AllDevicesBusy) {
		t.Errorf("expected AllDevicesBusy, got %v", err)
	}
	if o.calls != 3 {
		t.Errorf("expected 3 calls, got %d", o.calls)
	}
}

func TestOpenSimCamera(t *testing.T) {
	drv, err := newDriver("sim")
	if err != nil {
		t.Fatal(err)
	}
	s := drv.(*sim.Driver)
	s.Fail("InitCamera", ueye.AllDevicesBusy, 2)
	c := ueye.New(drv, ueye.Config{})
	if err = openWithRetry(c, &backoff.ZeroBackOff{}, zap.NewNop().Sugar()); err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.Handle() == 0 {
		t.Error("expected an open camera")
	}
}

func TestNewDriverUnknown(t *testing.T) {
	if _, err := newDriver("firewire"); err == nil {
		t.Error("expected an error for an unknown driver")
	}
}
