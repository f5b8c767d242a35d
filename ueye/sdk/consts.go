//go:build ueye

package sdk

/*
#cgo CFLAGS: -I/usr/include -D__LINUX__
#include <ueye.h>

*/
import "C"

import "github.com/nasa-jpl/golab-ueye/ueye"

// headerCodes pairs status codes declared in package ueye with the values
// compiled from ueye.h
var headerCodes = map[ueye.Code]C.INT{
	ueye.NoSuccess:            C.IS_NO_SUCCESS,
	ueye.Success:              C.IS_SUCCESS,
	ueye.InvalidCameraHandle:  C.IS_INVALID_CAMERA_HANDLE,
	ueye.IORequestFailed:      C.IS_IO_REQUEST_FAILED,
	ueye.CantOpenDevice:       C.IS_CANT_OPEN_DEVICE,
	ueye.InvalidColorMode:     C.IS_INVALID_COLOR_MODE,
	ueye.InvalidCaptureMode:   C.IS_INVALID_CAPTURE_MODE,
	ueye.InvalidMemoryPointer: C.IS_INVALID_MEMORY_POINTER,
	ueye.NoActiveImgMem:       C.IS_NO_ACTIVE_IMG_MEM,
	ueye.SequenceListEmpty:    C.IS_SEQUENCE_LIST_EMPTY,
	ueye.AllDevicesBusy:       C.IS_ALL_DEVICES_BUSY,
	ueye.TimedOut:             C.IS_TIMED_OUT,
	ueye.InvalidParameter:     C.IS_INVALID_PARAMETER,
	ueye.OutOfMemory:          C.IS_OUT_OF_MEMORY,
	ueye.InvalidWhileLive:     C.IS_INVALID_WHILE_LIVE,
	ueye.NoUSB20:              C.IS_NO_USB20,
	ueye.CaptureRunning:       C.IS_CAPTURE_RUNNING,
	ueye.NotCalibrated:        C.IS_NOT_CALIBRATED,
	ueye.NotSupported:         C.IS_NOT_SUPPORTED,
	ueye.InvalidExposureTime:  C.IS_INVALID_EXPOSURE_TIME,
	ueye.TransferError:        C.IS_TRANSFER_ERROR,
	ueye.SeqBufferIsLocked:    C.IS_SEQ_BUFFER_IS_LOCKED,
}

// headerColorModes pairs the color modes of package ueye with ueye.h
var headerColorModes = map[ueye.ColorMode]C.INT{
	ueye.SensorRaw8:      C.IS_CM_SENSOR_RAW8,
	ueye.SensorRaw10:     C.IS_CM_SENSOR_RAW10,
	ueye.SensorRaw12:     C.IS_CM_SENSOR_RAW12,
	ueye.SensorRaw16:     C.IS_CM_SENSOR_RAW16,
	ueye.Mono8:           C.IS_CM_MONO8,
	ueye.Mono10:          C.IS_CM_MONO10,
	ueye.Mono12:          C.IS_CM_MONO12,
	ueye.Mono16:          C.IS_CM_MONO16,
	ueye.BGR8Packed:      C.IS_CM_BGR8_PACKED,
	ueye.RGB8Packed:      C.IS_CM_RGB8_PACKED,
	ueye.BGRA8Packed:     C.IS_CM_BGRA8_PACKED,
	ueye.RGBA8Packed:     C.IS_CM_RGBA8_PACKED,
	ueye.BGRY8Packed:     C.IS_CM_BGRY8_PACKED,
	ueye.BGR10Packed:     C.IS_CM_BGR10_PACKED,
	ueye.RGB10Packed:     C.IS_CM_RGB10_PACKED,
	ueye.BGR12Unpacked:   C.IS_CM_BGR12_UNPACKED,
	ueye.BGRA12Unpacked:  C.IS_CM_BGRA12_UNPACKED,
	ueye.BGR5Packed:      C.IS_CM_BGR5_PACKED,
	ueye.BGR565Packed:    C.IS_CM_BGR565_PACKED,
	ueye.UYVYPacked:      C.IS_CM_UYVY_PACKED,
	ueye.UYVYMonoPacked:  C.IS_CM_UYVY_MONO_PACKED,
	ueye.UYVYBayerPacked: C.IS_CM_UYVY_BAYER_PACKED,
	ueye.CbYCrYPacked:    C.IS_CM_CBYCRY_PACKED,
}

// headerAuto pairs the automatic control parameters with ueye.h
var headerAuto = map[ueye.AutoParameter]C.INT{
	ueye.AutoGain:    C.IS_SET_ENABLE_AUTO_GAIN,
	ueye.AutoShutter: C.IS_SET_ENABLE_AUTO_SHUTTER,
}
