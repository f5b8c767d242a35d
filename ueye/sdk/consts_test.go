//go:build ueye

package sdk

import "testing"

func TestCodesMatchHeader(t *testing.T) {
	for code, c := range headerCodes {
		if int(code) != int(c) {
			t.Errorf("%s: package ueye has %d, ueye.h has %d", code.Name(), int(code), int(c))
		}
	}
}

func TestColorModesMatchHeader(t *testing.T) {
	for m, c := range headerColorModes {
		if int(m) != int(c) {
			t.Errorf("%s: package ueye has %d, ueye.h has %d", m, int(m), int(c))
		}
	}
}

func TestAutoParametersMatchHeader(t *testing.T) {
	for p, c := range headerAuto {
		if int(p) != int(c) {
			t.Errorf("auto parameter: package ueye has %#x, ueye.h has %#x", int(p), int(c))
		}
	}
}
