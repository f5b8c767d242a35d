package main

import (
	"time"

	"github.com/cenkalti/backoff"
	"github.com/nasa-jpl/golab-ueye/ueye"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type opener interface {
	Open() error
}

// openBackOff is the schedule Open is retried on.  Another process holding
// the camera usually lets go within a few seconds.
func openBackOff() backoff.BackOff {
	return &backoff.ExponentialBackOff{
		InitialInterval:     25 * time.Millisecond,
		RandomizationFactor: 0.,
		Multiplier:          2.,
		MaxInterval:         1 * time.Second,
		MaxElapsedTime:      3 * time.Second,
		Clock:               backoff.SystemClock}
}

// retryable is true for the open errors that may clear on their own
func retryable(err error) bool {
	return errors.Is(err, ueye.AllDevicesBusy) || errors.Is(err, ueye.CantOpenDevice)
}

// openWithRetry opens o, retrying on b while the device is busy
func openWithRetry(o opener, b backoff.BackOff, log *zap.SugaredLogger) error {
	op := func() error {
		err := o.Open()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, d time.Duration) {
		log.Infow("camera busy, retrying", "err", err, "in", d)
	}
	return backoff.RetryNotify(op, b, notify)
}
