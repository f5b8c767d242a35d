//go:build !ueye

package main

import (
	"github.com/nasa-jpl/golab-ueye/ueye"
	"github.com/nasa-jpl/golab-ueye/ueye/sim"
	"github.com/pkg/errors"
)

// newDriver returns the named driver.  Only the simulator is available
// without the ueye build tag.
func newDriver(name string) (ueye.Driver, error) {
	switch name {
	case "sim":
		return sim.New(sim.DefaultSensor), nil
	case "sdk":
		return nil, errors.New("sdk driver not available, rebuild with -tags ueye")
	}
	return nil, errors.Errorf("unknown driver %q, must be sdk or sim", name)
}
