package ueye

import (
	"fmt"
	"strings"
)

// Code is a status code returned by the uEye SDK.  Any Code other than
// Success is an error.
type Code int

// status codes, values as in ueye.h
const (
	NoSuccess                       Code = -1
	Success                         Code = 0
	InvalidCameraHandle             Code = 1
	IORequestFailed                 Code = 2
	CantOpenDevice                  Code = 3
	CantCloseDevice                 Code = 4
	CantSetupMemory                 Code = 5
	NoHWNDForErrorReport            Code = 6
	ErrorMessageNotCreated          Code = 7
	ErrorStringNotFound             Code = 8
	HookNotCreated                  Code = 9
	TimerNotCreated                 Code = 10
	CantOpenRegistry                Code = 11
	CantReadRegistry                Code = 12
	CantValidateBoard               Code = 13
	CantGiveBoardAccess             Code = 14
	NoImageMemAllocated             Code = 15
	CantCleanupMemory               Code = 16
	CantCommunicateWithDriver       Code = 17
	FunctionNotSupportedYet         Code = 18
	OperatingSystemNotSupported     Code = 19
	InvalidVideoIn                  Code = 20
	InvalidImgSize                  Code = 21
	InvalidAddress                  Code = 22
	InvalidVideoMode                Code = 23
	InvalidAGCMode                  Code = 24
	InvalidGammaMode                Code = 25
	InvalidSyncLevel                Code = 26
	InvalidCBarsMode                Code = 27
	InvalidColorMode                Code = 28
	InvalidScaleFactor              Code = 29
	InvalidImageSize                Code = 30
	InvalidImagePos                 Code = 31
	InvalidCaptureMode              Code = 32
	InvalidRISCProgram              Code = 33
	InvalidBrightness               Code = 34
	InvalidContrast                 Code = 35
	InvalidSaturationU              Code = 36
	InvalidSaturationV              Code = 37
	InvalidHue                      Code = 38
	InvalidHorFilterStep            Code = 39
	InvalidVertFilterStep           Code = 40
	InvalidEEPROMReadAddress        Code = 41
	InvalidEEPROMWriteAddress       Code = 42
	InvalidEEPROMReadLength         Code = 43
	InvalidEEPROMWriteLength        Code = 44
	InvalidBoardInfoPointer         Code = 45
	InvalidDisplayMode              Code = 46
	InvalidErrRepMode               Code = 47
	InvalidBitsPixel                Code = 48
	InvalidMemoryPointer            Code = 49
	FileWriteOpenError              Code = 50
	FileReadOpenError               Code = 51
	FileReadInvalidBMPID            Code = 52
	FileReadInvalidBMPSize          Code = 53
	FileReadInvalidBitCount         Code = 54
	WrongKernelVersion              Code = 55
	InvalidMode                     Code = 101
	CantFindHook                    Code = 102
	CantGetHookProcAddr             Code = 103
	CantChainHookProc               Code = 104
	CantSetupWndProc                Code = 105
	HWNDNull                        Code = 106
	InvalidUpdateMode               Code = 107
	NoActiveImgMem                  Code = 108
	CantInitEvent                   Code = 109
	FuncNotAvailInOS                Code = 110
	CameraNotConnected              Code = 111
	SequenceListEmpty               Code = 112
	CantAddToSequence               Code = 113
	LowOfSequenceRISCMem            Code = 114
	ImgMem2FreeUsedInSeq            Code = 115
	ImgMemNotInSequenceList         Code = 116
	SequenceBufAlreadyLocked        Code = 117
	InvalidDeviceID                 Code = 118
	InvalidBoardID                  Code = 119
	AllDevicesBusy                  Code = 120
	HookBusy                        Code = 121
	TimedOut                        Code = 122
	NullPointer                     Code = 123
	WrongHookVersion                Code = 124
	InvalidParameter                Code = 125
	NotAllowed                      Code = 126
	OutOfMemory                     Code = 127
	InvalidWhileLive                Code = 128
	AccessViolation                 Code = 129
	UnknownROPEffect                Code = 130
	InvalidRenderMode               Code = 131
	InvalidThreadContext            Code = 132
	NoHardwareInstalled             Code = 133
	InvalidWatchdogTime             Code = 134
	InvalidWatchdogMode             Code = 135
	InvalidPassthroughIn            Code = 136
	ErrorSettingPassthroughIn       Code = 137
	FailureOnSettingWatchdog        Code = 138
	NoUSB20                         Code = 139
	CaptureRunning                  Code = 140
	MemoryBoardActivated            Code = 141
	MemoryBoardDeactivated          Code = 142
	NoMemoryBoardConnected          Code = 143
	TooLessMemory                   Code = 144
	ImageNotPresent                 Code = 145
	MemoryModeRunning               Code = 146
	MemoryboardDisabled             Code = 147
	TriggerActivated                Code = 148
	WrongKey                        Code = 150
	CRCError                        Code = 151
	NotYetReleased                  Code = 152
	NotCalibrated                   Code = 153
	WaitingForKernel                Code = 154
	NotSupported                    Code = 155
	TriggerNotActivated             Code = 156
	OperationAborted                Code = 157
	BadStructureSize                Code = 158
	InvalidBufferSize               Code = 159
	InvalidPixelClock               Code = 160
	InvalidExposureTime             Code = 161
	AutoExposureRunning             Code = 162
	CannotCreateBBSurf              Code = 163
	CannotCreateBBMix               Code = 164
	BBOvlmemNull                    Code = 165
	CannotCreateBBOvl               Code = 166
	NotSuppInOvlSurfMode            Code = 167
	InvalidSurface                  Code = 168
	SurfaceLost                     Code = 169
	ReleaseBBOvlDC                  Code = 170
	BBTimerNotCreated               Code = 171
	BBOvlNotEn                      Code = 172
	OnlyInBBMode                    Code = 173
	InvalidColorFormat              Code = 174
	InvalidWBBinningMode            Code = 175
	InvalidI2CDeviceAddress         Code = 176
	CouldNotConvert                 Code = 177
	TransferError                   Code = 178
	ParameterSetNotPresent          Code = 179
	InvalidCameraType               Code = 180
	InvalidHostIPHibyte             Code = 181
	CMNotSuppInCurrDisplaymode      Code = 182
	NoIRFilter                      Code = 183
	StarterFWUploadNeeded           Code = 184
	DRLibraryNotFound               Code = 185
	DRDeviceOutOfMemory             Code = 186
	DRCannotCreateSurface           Code = 187
	DRCannotCreateVertexBuffer      Code = 188
	DRCannotCreateTexture           Code = 189
	DRCannotLockOverlaySurface      Code = 190
	DRCannotUnlockOverlaySurface    Code = 191
	DRCannotGetOverlayDC            Code = 192
	DRCannotReleaseOverlayDC        Code = 193
	DRDeviceCapsInsufficient        Code = 194
	IncompatibleSetting             Code = 195
	DRNotAllowedWhileDCIsActive     Code = 196
	DeviceAlreadyPaired             Code = 197
	SubnetmaskMismatch              Code = 198
	SubnetMismatch                  Code = 199
	InvalidIPConfiguration          Code = 200
	DeviceNotCompatible             Code = 201
	NetworkFrameSizeIncompatible    Code = 202
	NetworkConfigurationInvalid     Code = 203
	ErrorCPUIdleStatesConfiguration Code = 204
	DeviceBusy                      Code = 205
	SensorInitializationFailed      Code = 206
	ImageBufferNotDWORDAligned      Code = 207
	SeqBufferIsLocked               Code = 208
	FilePathDoesNotExist            Code = 209
	InvalidWindowHandle             Code = 210
	InvalidImageParameter           Code = 211
	NoSuchDevice                    Code = 212
	DeviceInUse                     Code = 213
)

// Descriptions maps the status codes seen most often to a readable message
var Descriptions = map[Code]string{
	InvalidExposureTime:  "Invalid exposure time",
	InvalidCameraHandle:  "Invalid camera handle",
	InvalidMemoryPointer: "Invalid memory pointer",
	InvalidParameter:     "Invalid parameter",
	IORequestFailed:      "IO request failed",
	NoActiveImgMem:       "No active IMG memory",
	NoUSB20:              "No USB2",
	NoSuccess:            "No success",
	NotCalibrated:        "Not calibrated",
	NotSupported:         "Not supported",
	OutOfMemory:          "Out of memory",
	TimedOut:             "Timed out",
	Success:              "Success",
	CantOpenDevice:       "Cannot open device",
	AllDevicesBusy:       "All device busy",
	TransferError:        "Transfer error",
}

// NamedCode pairs an SDK status name with its value
type NamedCode struct {
	Name string
	Code Code
}

// Names lists every status code by its SDK name, in header order.
// Several names may share a value.
var Names = []NamedCode{
	{"IS_NO_SUCCESS", NoSuccess},
	{"IS_SUCCESS", Success},
	{"IS_INVALID_CAMERA_HANDLE", InvalidCameraHandle},
	{"IS_INVALID_HANDLE", InvalidCameraHandle},
	{"IS_IO_REQUEST_FAILED", IORequestFailed},
	{"IS_CANT_OPEN_DEVICE", CantOpenDevice},
	{"IS_CANT_CLOSE_DEVICE", CantCloseDevice},
	{"IS_CANT_SETUP_MEMORY", CantSetupMemory},
	{"IS_NO_HWND_FOR_ERROR_REPORT", NoHWNDForErrorReport},
	{"IS_ERROR_MESSAGE_NOT_CREATED", ErrorMessageNotCreated},
	{"IS_ERROR_STRING_NOT_FOUND", ErrorStringNotFound},
	{"IS_HOOK_NOT_CREATED", HookNotCreated},
	{"IS_TIMER_NOT_CREATED", TimerNotCreated},
	{"IS_CANT_OPEN_REGISTRY", CantOpenRegistry},
	{"IS_CANT_READ_REGISTRY", CantReadRegistry},
	{"IS_CANT_VALIDATE_BOARD", CantValidateBoard},
	{"IS_CANT_GIVE_BOARD_ACCESS", CantGiveBoardAccess},
	{"IS_NO_IMAGE_MEM_ALLOCATED", NoImageMemAllocated},
	{"IS_CANT_CLEANUP_MEMORY", CantCleanupMemory},
	{"IS_CANT_COMMUNICATE_WITH_DRIVER", CantCommunicateWithDriver},
	{"IS_FUNCTION_NOT_SUPPORTED_YET", FunctionNotSupportedYet},
	{"IS_OPERATING_SYSTEM_NOT_SUPPORTED", OperatingSystemNotSupported},
	{"IS_INVALID_VIDEO_IN", InvalidVideoIn},
	{"IS_INVALID_IMG_SIZE", InvalidImgSize},
	{"IS_INVALID_ADDRESS", InvalidAddress},
	{"IS_INVALID_VIDEO_MODE", InvalidVideoMode},
	{"IS_INVALID_AGC_MODE", InvalidAGCMode},
	{"IS_INVALID_GAMMA_MODE", InvalidGammaMode},
	{"IS_INVALID_SYNC_LEVEL", InvalidSyncLevel},
	{"IS_INVALID_CBARS_MODE", InvalidCBarsMode},
	{"IS_INVALID_COLOR_MODE", InvalidColorMode},
	{"IS_INVALID_SCALE_FACTOR", InvalidScaleFactor},
	{"IS_INVALID_IMAGE_SIZE", InvalidImageSize},
	{"IS_INVALID_IMAGE_POS", InvalidImagePos},
	{"IS_INVALID_CAPTURE_MODE", InvalidCaptureMode},
	{"IS_INVALID_RISC_PROGRAM", InvalidRISCProgram},
	{"IS_INVALID_BRIGHTNESS", InvalidBrightness},
	{"IS_INVALID_CONTRAST", InvalidContrast},
	{"IS_INVALID_SATURATION_U", InvalidSaturationU},
	{"IS_INVALID_SATURATION_V", InvalidSaturationV},
	{"IS_INVALID_HUE", InvalidHue},
	{"IS_INVALID_HOR_FILTER_STEP", InvalidHorFilterStep},
	{"IS_INVALID_VERT_FILTER_STEP", InvalidVertFilterStep},
	{"IS_INVALID_EEPROM_READ_ADDRESS", InvalidEEPROMReadAddress},
	{"IS_INVALID_EEPROM_WRITE_ADDRESS", InvalidEEPROMWriteAddress},
	{"IS_INVALID_EEPROM_READ_LENGTH", InvalidEEPROMReadLength},
	{"IS_INVALID_EEPROM_WRITE_LENGTH", InvalidEEPROMWriteLength},
	{"IS_INVALID_BOARD_INFO_POINTER", InvalidBoardInfoPointer},
	{"IS_INVALID_DISPLAY_MODE", InvalidDisplayMode},
	{"IS_INVALID_ERR_REP_MODE", InvalidErrRepMode},
	{"IS_INVALID_BITS_PIXEL", InvalidBitsPixel},
	{"IS_INVALID_MEMORY_POINTER", InvalidMemoryPointer},
	{"IS_FILE_WRITE_OPEN_ERROR", FileWriteOpenError},
	{"IS_FILE_READ_OPEN_ERROR", FileReadOpenError},
	{"IS_FILE_READ_INVALID_BMP_ID", FileReadInvalidBMPID},
	{"IS_FILE_READ_INVALID_BMP_SIZE", FileReadInvalidBMPSize},
	{"IS_FILE_READ_INVALID_BIT_COUNT", FileReadInvalidBitCount},
	{"IS_WRONG_KERNEL_VERSION", WrongKernelVersion},
	{"IS_INVALID_MODE", InvalidMode},
	{"IS_CANT_FIND_FALCHOOK", CantFindHook},
	{"IS_CANT_FIND_HOOK", CantFindHook},
	{"IS_CANT_GET_HOOK_PROC_ADDR", CantGetHookProcAddr},
	{"IS_CANT_CHAIN_HOOK_PROC", CantChainHookProc},
	{"IS_CANT_SETUP_WND_PROC", CantSetupWndProc},
	{"IS_HWND_NULL", HWNDNull},
	{"IS_INVALID_UPDATE_MODE", InvalidUpdateMode},
	{"IS_NO_ACTIVE_IMG_MEM", NoActiveImgMem},
	{"IS_CANT_INIT_EVENT", CantInitEvent},
	{"IS_FUNC_NOT_AVAIL_IN_OS", FuncNotAvailInOS},
	{"IS_CAMERA_NOT_CONNECTED", CameraNotConnected},
	{"IS_SEQUENCE_LIST_EMPTY", SequenceListEmpty},
	{"IS_CANT_ADD_TO_SEQUENCE", CantAddToSequence},
	{"IS_LOW_OF_SEQUENCE_RISC_MEM", LowOfSequenceRISCMem},
	{"IS_IMGMEM2FREE_USED_IN_SEQ", ImgMem2FreeUsedInSeq},
	{"IS_IMGMEM_NOT_IN_SEQUENCE_LIST", ImgMemNotInSequenceList},
	{"IS_SEQUENCE_BUF_ALREADY_LOCKED", SequenceBufAlreadyLocked},
	{"IS_INVALID_DEVICE_ID", InvalidDeviceID},
	{"IS_INVALID_BOARD_ID", InvalidBoardID},
	{"IS_ALL_DEVICES_BUSY", AllDevicesBusy},
	{"IS_HOOK_BUSY", HookBusy},
	{"IS_TIMED_OUT", TimedOut},
	{"IS_NULL_POINTER", NullPointer},
	{"IS_WRONG_HOOK_VERSION", WrongHookVersion},
	{"IS_INVALID_PARAMETER", InvalidParameter},
	{"IS_NOT_ALLOWED", NotAllowed},
	{"IS_OUT_OF_MEMORY", OutOfMemory},
	{"IS_INVALID_WHILE_LIVE", InvalidWhileLive},
	{"IS_ACCESS_VIOLATION", AccessViolation},
	{"IS_UNKNOWN_ROP_EFFECT", UnknownROPEffect},
	{"IS_INVALID_RENDER_MODE", InvalidRenderMode},
	{"IS_INVALID_THREAD_CONTEXT", InvalidThreadContext},
	{"IS_NO_HARDWARE_INSTALLED", NoHardwareInstalled},
	{"IS_INVALID_WATCHDOG_TIME", InvalidWatchdogTime},
	{"IS_INVALID_WATCHDOG_MODE", InvalidWatchdogMode},
	{"IS_INVALID_PASSTHROUGH_IN", InvalidPassthroughIn},
	{"IS_ERROR_SETTING_PASSTHROUGH_IN", ErrorSettingPassthroughIn},
	{"IS_FAILURE_ON_SETTING_WATCHDOG", FailureOnSettingWatchdog},
	{"IS_NO_USB20", NoUSB20},
	{"IS_CAPTURE_RUNNING", CaptureRunning},
	{"IS_MEMORY_BOARD_ACTIVATED", MemoryBoardActivated},
	{"IS_MEMORY_BOARD_DEACTIVATED", MemoryBoardDeactivated},
	{"IS_NO_MEMORY_BOARD_CONNECTED", NoMemoryBoardConnected},
	{"IS_TOO_LESS_MEMORY", TooLessMemory},
	{"IS_IMAGE_NOT_PRESENT", ImageNotPresent},
	{"IS_MEMORY_MODE_RUNNING", MemoryModeRunning},
	{"IS_MEMORYBOARD_DISABLED", MemoryboardDisabled},
	{"IS_TRIGGER_ACTIVATED", TriggerActivated},
	{"IS_WRONG_KEY", WrongKey},
	{"IS_CRC_ERROR", CRCError},
	{"IS_NOT_YET_RELEASED", NotYetReleased},
	{"IS_NOT_CALIBRATED", NotCalibrated},
	{"IS_WAITING_FOR_KERNEL", WaitingForKernel},
	{"IS_NOT_SUPPORTED", NotSupported},
	{"IS_TRIGGER_NOT_ACTIVATED", TriggerNotActivated},
	{"IS_OPERATION_ABORTED", OperationAborted},
	{"IS_BAD_STRUCTURE_SIZE", BadStructureSize},
	{"IS_INVALID_BUFFER_SIZE", InvalidBufferSize},
	{"IS_INVALID_PIXEL_CLOCK", InvalidPixelClock},
	{"IS_INVALID_EXPOSURE_TIME", InvalidExposureTime},
	{"IS_AUTO_EXPOSURE_RUNNING", AutoExposureRunning},
	{"IS_CANNOT_CREATE_BB_SURF", CannotCreateBBSurf},
	{"IS_CANNOT_CREATE_BB_MIX", CannotCreateBBMix},
	{"IS_BB_OVLMEM_NULL", BBOvlmemNull},
	{"IS_CANNOT_CREATE_BB_OVL", CannotCreateBBOvl},
	{"IS_NOT_SUPP_IN_OVL_SURF_MODE", NotSuppInOvlSurfMode},
	{"IS_INVALID_SURFACE", InvalidSurface},
	{"IS_SURFACE_LOST", SurfaceLost},
	{"IS_RELEASE_BB_OVL_DC", ReleaseBBOvlDC},
	{"IS_BB_TIMER_NOT_CREATED", BBTimerNotCreated},
	{"IS_BB_OVL_NOT_EN", BBOvlNotEn},
	{"IS_ONLY_IN_BB_MODE", OnlyInBBMode},
	{"IS_INVALID_COLOR_FORMAT", InvalidColorFormat},
	{"IS_INVALID_WB_BINNING_MODE", InvalidWBBinningMode},
	{"IS_INVALID_I2C_DEVICE_ADDRESS", InvalidI2CDeviceAddress},
	{"IS_COULD_NOT_CONVERT", CouldNotConvert},
	{"IS_TRANSFER_ERROR", TransferError},
	{"IS_PARAMETER_SET_NOT_PRESENT", ParameterSetNotPresent},
	{"IS_INVALID_CAMERA_TYPE", InvalidCameraType},
	{"IS_INVALID_HOST_IP_HIBYTE", InvalidHostIPHibyte},
	{"IS_CM_NOT_SUPP_IN_CURR_DISPLAYMODE", CMNotSuppInCurrDisplaymode},
	{"IS_NO_IR_FILTER", NoIRFilter},
	{"IS_STARTER_FW_UPLOAD_NEEDED", StarterFWUploadNeeded},
	{"IS_DR_LIBRARY_NOT_FOUND", DRLibraryNotFound},
	{"IS_DR_DEVICE_OUT_OF_MEMORY", DRDeviceOutOfMemory},
	{"IS_DR_CANNOT_CREATE_SURFACE", DRCannotCreateSurface},
	{"IS_DR_CANNOT_CREATE_VERTEX_BUFFER", DRCannotCreateVertexBuffer},
	{"IS_DR_CANNOT_CREATE_TEXTURE", DRCannotCreateTexture},
	{"IS_DR_CANNOT_LOCK_OVERLAY_SURFACE", DRCannotLockOverlaySurface},
	{"IS_DR_CANNOT_UNLOCK_OVERLAY_SURFACE", DRCannotUnlockOverlaySurface},
	{"IS_DR_CANNOT_GET_OVERLAY_DC", DRCannotGetOverlayDC},
	{"IS_DR_CANNOT_RELEASE_OVERLAY_DC", DRCannotReleaseOverlayDC},
	{"IS_DR_DEVICE_CAPS_INSUFFICIENT", DRDeviceCapsInsufficient},
	{"IS_INCOMPATIBLE_SETTING", IncompatibleSetting},
	{"IS_DR_NOT_ALLOWED_WHILE_DC_IS_ACTIVE", DRNotAllowedWhileDCIsActive},
	{"IS_DEVICE_ALREADY_PAIRED", DeviceAlreadyPaired},
	{"IS_SUBNETMASK_MISMATCH", SubnetmaskMismatch},
	{"IS_SUBNET_MISMATCH", SubnetMismatch},
	{"IS_INVALID_IP_CONFIGURATION", InvalidIPConfiguration},
	{"IS_DEVICE_NOT_COMPATIBLE", DeviceNotCompatible},
	{"IS_NETWORK_FRAME_SIZE_INCOMPATIBLE", NetworkFrameSizeIncompatible},
	{"IS_NETWORK_CONFIGURATION_INVALID", NetworkConfigurationInvalid},
	{"IS_ERROR_CPU_IDLE_STATES_CONFIGURATION", ErrorCPUIdleStatesConfiguration},
	{"IS_DEVICE_BUSY", DeviceBusy},
	{"IS_SENSOR_INITIALIZATION_FAILED", SensorInitializationFailed},
	{"IS_IMAGE_BUFFER_NOT_DWORD_ALIGNED", ImageBufferNotDWORDAligned},
	{"IS_SEQ_BUFFER_IS_LOCKED", SeqBufferIsLocked},
	{"IS_FILE_PATH_DOES_NOT_EXIST", FilePathDoesNotExist},
	{"IS_INVALID_WINDOW_HANDLE", InvalidWindowHandle},
	{"IS_INVALID_IMAGE_PARAMETER", InvalidImageParameter},
	{"IS_NO_SUCH_DEVICE", NoSuchDevice},
	{"IS_DEVICE_IN_USE", DeviceInUse},
}

// failureWords are the fragments of an SDK name that mark it as a failure
var failureWords = []string{"FAILED", "INVALID", "ERROR", "NOT"}

// Name returns the first SDK name carrying the code, or "" if there is none
func (c Code) Name() string {
	for _, nc := range Names {
		if nc.Code == c {
			return nc.Name
		}
	}
	return ""
}

// Error satisfies the error interface.  Codes with a description print it,
// codes whose SDK name looks like a failure print "Err: <code> (<NAME> ?)",
// anything else prints "Err: <code>"
func (c Code) Error() string {
	if s, ok := Descriptions[c]; ok {
		return s
	}
	for _, nc := range Names {
		if nc.Code != c || !strings.HasPrefix(nc.Name, "IS") {
			continue
		}
		for _, w := range failureWords {
			if strings.Contains(nc.Name, w) {
				return fmt.Sprintf("Err: %d (%s ?)", int(c), nc.Name)
			}
		}
	}
	return fmt.Sprintf("Err: %d", int(c))
}

// Timeout is true for IS_TIMED_OUT, which lets HTTP layers tell a slow frame
// from a broken device
func (c Code) Timeout() bool {
	return c == TimedOut
}

// BadInput is true for the codes the SDK returns when a requested value
// is out of range or unknown, which HTTP layers answer with 400
func (c Code) BadInput() bool {
	switch c {
	case InvalidParameter, InvalidColorMode, InvalidExposureTime, InvalidPixelClock,
		InvalidImageSize, InvalidImagePos, InvalidImageParameter:
		return true
	}
	return false
}

// Check returns nil if the code is Success, otherwise the code as an error
func Check(code int) error {
	if Code(code) == Success {
		return nil
	}
	return Code(code)
}
