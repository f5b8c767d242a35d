package ueye_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nasa-jpl/golab-ueye/ueye"
)

func ExampleCode_Error() {
	fmt.Println(ueye.TimedOut)
	fmt.Println(ueye.InvalidCaptureMode)
	fmt.Println(ueye.CaptureRunning)
	// Output:
	// Timed out
	// Err: 32 (IS_INVALID_CAPTURE_MODE ?)
	// Err: 140
}

func TestDescriptions(t *testing.T) {
	cases := map[ueye.Code]string{
		ueye.InvalidExposureTime:  "Invalid exposure time",
		ueye.InvalidCameraHandle:  "Invalid camera handle",
		ueye.InvalidMemoryPointer: "Invalid memory pointer",
		ueye.InvalidParameter:     "Invalid parameter",
		ueye.IORequestFailed:      "IO request failed",
		ueye.NoActiveImgMem:       "No active IMG memory",
		ueye.NoUSB20:              "No USB2",
		ueye.NoSuccess:            "No success",
		ueye.NotCalibrated:        "Not calibrated",
		ueye.NotSupported:         "Not supported",
		ueye.OutOfMemory:          "Out of memory",
		ueye.TimedOut:             "Timed out",
		ueye.Success:              "Success",
		ueye.CantOpenDevice:       "Cannot open device",
		ueye.AllDevicesBusy:       "All device busy",
		ueye.TransferError:        "Transfer error",
	}
	for code, want := range cases {
		if got := code.Error(); got != want {
			t.Errorf("code %d: expected %q, got %q", int(code), want, got)
		}
	}
}

func TestHeuristicName(t *testing.T) {
	cases := []struct {
		code ueye.Code
		want string
	}{
		{ueye.InvalidCaptureMode, "Err: 32 (IS_INVALID_CAPTURE_MODE ?)"},
		{ueye.InvalidColorMode, "Err: 28 (IS_INVALID_COLOR_MODE ?)"},
		{ueye.CantOpenRegistry, "Err: 11"},
		{ueye.CaptureRunning, "Err: 140"},
		{ueye.Code(9999), "Err: 9999"},
	}
	for _, c := range cases {
		if got := c.code.Error(); got != c.want {
			t.Errorf("code %d: expected %q, got %q", int(c.code), c.want, got)
		}
	}
}

func TestCheck(t *testing.T) {
	if err := ueye.Check(0); err != nil {
		t.Errorf("expected nil for IS_SUCCESS, got %v", err)
	}
	err := ueye.Check(122)
	if !errors.Is(err, ueye.ErrTimedOut) {
		t.Errorf("expected Check(122) to be ErrTimedOut, got %v", err)
	}
	var code ueye.Code
	if !errors.As(err, &code) || code != ueye.TimedOut {
		t.Errorf("expected to recover the code, got %v", code)
	}
}

func TestName(t *testing.T) {
	if n := ueye.TimedOut.Name(); n != "IS_TIMED_OUT" {
		t.Errorf("expected IS_TIMED_OUT, got %s", n)
	}
	if n := ueye.Code(9999).Name(); n != "" {
		t.Errorf("expected no name for an unknown code, got %s", n)
	}
}

func TestBadInput(t *testing.T) {
	for _, c := range []ueye.Code{ueye.InvalidParameter, ueye.InvalidColorMode, ueye.InvalidExposureTime} {
		if !c.BadInput() {
			t.Errorf("expected %s to be bad input", c.Name())
		}
	}
	for _, c := range []ueye.Code{ueye.TimedOut, ueye.NoSuccess, ueye.CantOpenDevice} {
		if c.BadInput() {
			t.Errorf("expected %s not to be bad input", c.Name())
		}
	}
}
