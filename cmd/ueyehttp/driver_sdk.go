//go:build ueye

package main

import (
	"github.com/nasa-jpl/golab-ueye/ueye"
	"github.com/nasa-jpl/golab-ueye/ueye/sdk"
	"github.com/nasa-jpl/golab-ueye/ueye/sim"
	"github.com/pkg/errors"
)

// newDriver returns the named driver
func newDriver(name string) (ueye.Driver, error) {
	switch name {
	case "sim":
		return sim.New(sim.DefaultSensor), nil
	case "sdk":
		return sdk.New(), nil
	}
	return nil, errors.Errorf("unknown driver %q, must be sdk or sim", name)
}
