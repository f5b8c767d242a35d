//go:build ueye

/*Package sdk implements ueye.Driver with the IDS uEye SDK.

The package needs libueye_api and ueye.h and is only built with the ueye
build tag.

*/
package sdk

/*
#cgo CFLAGS: -I/usr/include -D__LINUX__
#cgo LDFLAGS: -lueye_api
#include <stdlib.h>
#include <ueye.h>

*/
import "C"
import (
	"time"
	"unsafe"

	"github.com/nasa-jpl/golab-ueye/ueye"
)

// Driver calls into libueye_api.  It holds no state of its own.
type Driver struct{}

var _ ueye.Driver = Driver{}

// New returns a Driver
func New() Driver {
	return Driver{}
}

func check(ret C.INT) error {
	return ueye.Check(int(ret))
}

func hids(h ueye.Handle) C.HIDS {
	return C.HIDS(h)
}

// cString reads a NUL terminated IS_CHAR array
func cString(p unsafe.Pointer) string {
	return C.GoString((*C.char)(p))
}

// InitCamera calls is_InitCamera.  id 0 opens the first free camera.
func (Driver) InitCamera(id int) (ueye.Handle, error) {
	h := C.HIDS(id)
	if err := check(C.is_InitCamera(&h, nil)); err != nil {
		return 0, err
	}
	return ueye.Handle(h), nil
}

// ExitCamera calls is_ExitCamera
func (Driver) ExitCamera(h ueye.Handle) error {
	return check(C.is_ExitCamera(hids(h)))
}

// GetAOI calls is_AOI with IS_AOI_IMAGE_GET_AOI
func (Driver) GetAOI(h ueye.Handle) (ueye.Rect, error) {
	var r C.IS_RECT
	ret := C.is_AOI(hids(h), C.IS_AOI_IMAGE_GET_AOI, unsafe.Pointer(&r), C.UINT(unsafe.Sizeof(r)))
	if err := check(ret); err != nil {
		return ueye.Rect{}, err
	}
	return ueye.Rect{X: int(r.s32X), Y: int(r.s32Y), Width: int(r.s32Width), Height: int(r.s32Height)}, nil
}

// SetAOI calls is_AOI with IS_AOI_IMAGE_SET_AOI
func (Driver) SetAOI(h ueye.Handle, r ueye.Rect) error {
	c := C.IS_RECT{s32X: C.INT(r.X), s32Y: C.INT(r.Y), s32Width: C.INT(r.Width), s32Height: C.INT(r.Height)}
	return check(C.is_AOI(hids(h), C.IS_AOI_IMAGE_SET_AOI, unsafe.Pointer(&c), C.UINT(unsafe.Sizeof(c))))
}

// GetFrameTimeRange calls is_GetFrameTimeRange
func (Driver) GetFrameTimeRange(h ueye.Handle) (float64, float64, float64, error) {
	var min, max, interval C.double
	if err := check(C.is_GetFrameTimeRange(hids(h), &min, &max, &interval)); err != nil {
		return 0, 0, 0, err
	}
	return float64(min), float64(max), float64(interval), nil
}

// SetFrameRate calls is_SetFrameRate
func (Driver) SetFrameRate(h ueye.Handle, fps float64) (float64, error) {
	var actual C.double
	if err := check(C.is_SetFrameRate(hids(h), C.double(fps), &actual)); err != nil {
		return 0, err
	}
	return float64(actual), nil
}

// GetFramesPerSecond calls is_GetFramesPerSecond
func (Driver) GetFramesPerSecond(h ueye.Handle) (float64, error) {
	var fps C.double
	if err := check(C.is_GetFramesPerSecond(hids(h), &fps)); err != nil {
		return 0, err
	}
	return float64(fps), nil
}

// GetPixelClockRange calls is_PixelClock with IS_PIXELCLOCK_CMD_GET_RANGE
func (Driver) GetPixelClockRange(h ueye.Handle) (ueye.PixelClockRange, error) {
	var rng [3]C.UINT
	ret := C.is_PixelClock(hids(h), C.IS_PIXELCLOCK_CMD_GET_RANGE, unsafe.Pointer(&rng[0]), C.UINT(unsafe.Sizeof(rng)))
	if err := check(ret); err != nil {
		return ueye.PixelClockRange{}, err
	}
	return ueye.PixelClockRange{Min: int(rng[0]), Max: int(rng[1]), Increment: int(rng[2])}, nil
}

// GetPixelClock calls is_PixelClock with IS_PIXELCLOCK_CMD_GET
func (Driver) GetPixelClock(h ueye.Handle) (int, error) {
	var mhz C.UINT
	ret := C.is_PixelClock(hids(h), C.IS_PIXELCLOCK_CMD_GET, unsafe.Pointer(&mhz), C.UINT(unsafe.Sizeof(mhz)))
	if err := check(ret); err != nil {
		return 0, err
	}
	return int(mhz), nil
}

// SetPixelClock calls is_PixelClock with IS_PIXELCLOCK_CMD_SET
func (Driver) SetPixelClock(h ueye.Handle, mhz int) error {
	v := C.UINT(mhz)
	return check(C.is_PixelClock(hids(h), C.IS_PIXELCLOCK_CMD_SET, unsafe.Pointer(&v), C.UINT(unsafe.Sizeof(v))))
}

// GetExposure calls is_Exposure with IS_EXPOSURE_CMD_GET_EXPOSURE
func (d Driver) GetExposure(h ueye.Handle) (float64, error) {
	var ms C.double
	ret := C.is_Exposure(hids(h), C.IS_EXPOSURE_CMD_GET_EXPOSURE, unsafe.Pointer(&ms), C.UINT(unsafe.Sizeof(ms)))
	if err := check(ret); err != nil {
		return 0, err
	}
	return float64(ms), nil
}

// SetExposure calls is_Exposure with IS_EXPOSURE_CMD_SET_EXPOSURE and reads
// back the exposure the camera settled on
func (d Driver) SetExposure(h ueye.Handle, ms float64) (float64, error) {
	v := C.double(ms)
	ret := C.is_Exposure(hids(h), C.IS_EXPOSURE_CMD_SET_EXPOSURE, unsafe.Pointer(&v), C.UINT(unsafe.Sizeof(v)))
	if err := check(ret); err != nil {
		return 0, err
	}
	return d.GetExposure(h)
}

// SetAutoParameter calls is_SetAutoParameter
func (Driver) SetAutoParameter(h ueye.Handle, p ueye.AutoParameter, v float64) (float64, error) {
	v1, v2 := C.double(v), C.double(0)
	if err := check(C.is_SetAutoParameter(hids(h), C.INT(p), &v1, &v2)); err != nil {
		return 0, err
	}
	return float64(v1), nil
}

// AllocImageMem calls is_AllocImageMem
func (Driver) AllocImageMem(h ueye.Handle, width, height, bitsPerPixel int) (ueye.Buffer, error) {
	var (
		mem *C.char
		id  C.int
	)
	ret := C.is_AllocImageMem(hids(h), C.INT(width), C.INT(height), C.INT(bitsPerPixel), &mem, &id)
	if err := check(ret); err != nil {
		return ueye.Buffer{}, err
	}
	return ueye.Buffer{Mem: unsafe.Pointer(mem), ID: int(id)}, nil
}

// FreeImageMem calls is_FreeImageMem
func (Driver) FreeImageMem(h ueye.Handle, b ueye.Buffer) error {
	return check(C.is_FreeImageMem(hids(h), (*C.char)(b.Mem), C.int(b.ID)))
}

// AddToSequence calls is_AddToSequence
func (Driver) AddToSequence(h ueye.Handle, b ueye.Buffer) error {
	return check(C.is_AddToSequence(hids(h), (*C.char)(b.Mem), C.INT(b.ID)))
}

// ClearSequence calls is_ClearSequence
func (Driver) ClearSequence(h ueye.Handle) error {
	return check(C.is_ClearSequence(hids(h)))
}

// InitImageQueue calls is_InitImageQueue
func (Driver) InitImageQueue(h ueye.Handle, mode int) error {
	return check(C.is_InitImageQueue(hids(h), C.INT(mode)))
}

// ExitImageQueue calls is_ExitImageQueue
func (Driver) ExitImageQueue(h ueye.Handle) error {
	return check(C.is_ExitImageQueue(hids(h)))
}

// InquireImageMem calls is_InquireImageMem
func (Driver) InquireImageMem(h ueye.Handle, b ueye.Buffer) (int, int, int, int, error) {
	var x, y, bits, pitch C.int
	ret := C.is_InquireImageMem(hids(h), (*C.char)(b.Mem), C.int(b.ID), &x, &y, &bits, &pitch)
	if err := check(ret); err != nil {
		return 0, 0, 0, 0, err
	}
	return int(x), int(y), int(bits), int(pitch), nil
}

// ImageMemory views size bytes of the buffer without copying.  The slice is
// only valid until the buffer is unlocked.
func (Driver) ImageMemory(h ueye.Handle, b ueye.Buffer, size int) ([]byte, error) {
	if b.Mem == nil {
		return nil, ueye.InvalidMemoryPointer
	}
	return unsafe.Slice((*byte)(b.Mem), size), nil
}

// WaitForNextImage calls is_WaitForNextImage
func (Driver) WaitForNextImage(h ueye.Handle, timeout time.Duration) (ueye.Buffer, error) {
	var (
		mem *C.char
		id  C.INT
	)
	ms := C.UINT(timeout / time.Millisecond)
	if err := check(C.is_WaitForNextImage(hids(h), ms, &mem, &id)); err != nil {
		return ueye.Buffer{}, err
	}
	return ueye.Buffer{Mem: unsafe.Pointer(mem), ID: int(id)}, nil
}

// UnlockSeqBuf calls is_UnlockSeqBuf
func (Driver) UnlockSeqBuf(h ueye.Handle, b ueye.Buffer) error {
	return check(C.is_UnlockSeqBuf(hids(h), C.INT(b.ID), (*C.char)(b.Mem)))
}

func waitFlag(wait bool) C.INT {
	if wait {
		return C.IS_WAIT
	}
	return C.IS_DONT_WAIT
}

// CaptureVideo calls is_CaptureVideo
func (Driver) CaptureVideo(h ueye.Handle, wait bool) error {
	return check(C.is_CaptureVideo(hids(h), waitFlag(wait)))
}

// StopLiveVideo calls is_StopLiveVideo
func (Driver) StopLiveVideo(h ueye.Handle, force bool) error {
	flag := C.INT(C.IS_WAIT)
	if force {
		flag = C.IS_FORCE_VIDEO_STOP
	}
	return check(C.is_StopLiveVideo(hids(h), flag))
}

// FreezeVideo calls is_FreezeVideo
func (Driver) FreezeVideo(h ueye.Handle, wait bool) error {
	return check(C.is_FreezeVideo(hids(h), waitFlag(wait)))
}

// GetColorMode calls is_SetColorMode with IS_GET_COLOR_MODE, which returns
// the mode in place of a status
func (Driver) GetColorMode(h ueye.Handle) (ueye.ColorMode, error) {
	return ueye.ColorMode(C.is_SetColorMode(hids(h), C.IS_GET_COLOR_MODE)), nil
}

// SetColorMode calls is_SetColorMode
func (Driver) SetColorMode(h ueye.Handle, m ueye.ColorMode) error {
	return check(C.is_SetColorMode(hids(h), C.INT(m)))
}

// ImageFormats calls is_ImageFormat to count and then list the formats
func (Driver) ImageFormats(h ueye.Handle) ([]ueye.ImageFormat, error) {
	var n C.UINT
	ret := C.is_ImageFormat(hids(h), C.IMGFRMT_CMD_GET_NUM_ENTRIES, unsafe.Pointer(&n), C.UINT(unsafe.Sizeof(n)))
	if err := check(ret); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	var (
		info C.IMAGE_FORMAT_INFO
		list C.IMAGE_FORMAT_LIST
	)
	size := unsafe.Sizeof(list) + uintptr(n-1)*unsafe.Sizeof(info)
	ptr := C.malloc(C.size_t(size))
	defer C.free(ptr)
	lst := (*C.IMAGE_FORMAT_LIST)(ptr)
	lst.nSizeOfListEntry = C.UINT(unsafe.Sizeof(info))
	lst.nNumListElements = n
	if err := check(C.is_ImageFormat(hids(h), C.IMGFRMT_CMD_GET_LIST, ptr, C.UINT(size))); err != nil {
		return nil, err
	}
	entries := unsafe.Slice(&lst.FormatInfo[0], int(n))
	out := make([]ueye.ImageFormat, len(entries))
	for i, e := range entries {
		out[i] = ueye.ImageFormat{
			ID:           int(e.nFormatID),
			Width:        int(e.nWidth),
			Height:       int(e.nHeight),
			X:            int(e.nX0),
			Y:            int(e.nY0),
			CaptureModes: uint(e.nSupportedCaptureModes),
			Name:         cString(unsafe.Pointer(&e.strFormatName[0])),
		}
	}
	return out, nil
}

// SetImageFormat calls is_ImageFormat with IMGFRMT_CMD_SET_FORMAT
func (Driver) SetImageFormat(h ueye.Handle, id int) error {
	v := C.INT(id)
	return check(C.is_ImageFormat(hids(h), C.IMGFRMT_CMD_SET_FORMAT, unsafe.Pointer(&v), C.UINT(unsafe.Sizeof(v))))
}

// GetSensorInfo calls is_GetSensorInfo
func (Driver) GetSensorInfo(h ueye.Handle) (ueye.SensorInfo, error) {
	var si C.SENSORINFO
	if err := check(C.is_GetSensorInfo(hids(h), &si)); err != nil {
		return ueye.SensorInfo{}, err
	}
	return ueye.SensorInfo{
		Name:      cString(unsafe.Pointer(&si.strSensorName[0])),
		MaxWidth:  int(si.nMaxWidth),
		MaxHeight: int(si.nMaxHeight),
		Color:     si.nColorMode == C.IS_COLORMODE_BAYER,
		PixelSize: float64(si.wPixelSize) / 100,
	}, nil
}
