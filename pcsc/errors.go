package pcsc

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedPlatform = errors.New("pcsc: dynamic loading is not supported on this platform")
	ErrContextReleased     = errors.New("pcsc: context already released")
)

// Error is a PC/SC return code. Values can be compared with errors.Is.
type Error uint32

const (
	ErrInternal           Error = 0x80100001
	ErrCancelled          Error = 0x80100002
	ErrInvalidHandle      Error = 0x80100003
	ErrInvalidParameter   Error = 0x80100004
	ErrInvalidTarget      Error = 0x80100005
	ErrNoMemory           Error = 0x80100006
	ErrWaitedTooLong      Error = 0x80100007
	ErrInsufficientBuffer Error = 0x80100008
	ErrUnknownReader      Error = 0x80100009
	ErrTimeout            Error = 0x8010000A
	ErrSharingViolation   Error = 0x8010000B
	ErrNoSmartcard        Error = 0x8010000C
	ErrUnknownCard        Error = 0x8010000D
	ErrCantDispose        Error = 0x8010000E
	ErrProtoMismatch      Error = 0x8010000F
	ErrNotReady           Error = 0x80100010
	ErrInvalidValue       Error = 0x80100011
	ErrSystemCancelled    Error = 0x80100012
	ErrCommError          Error = 0x80100013
	ErrUnknown            Error = 0x80100014
	ErrInvalidATR         Error = 0x80100015
	ErrNotTransacted      Error = 0x80100016
	ErrReaderUnavailable  Error = 0x80100017
	ErrPCITooSmall        Error = 0x80100019
	ErrReaderUnsupported  Error = 0x8010001A
	ErrDuplicateReader    Error = 0x8010001B
	ErrCardUnsupported    Error = 0x8010001C
	ErrNoService          Error = 0x8010001D
	ErrServiceStopped     Error = 0x8010001E
	ErrUnsupportedFeature Error = 0x8010001F
	ErrNoReaders          Error = 0x8010002E
	ErrUnsupportedCard    Error = 0x80100065
	ErrUnresponsiveCard   Error = 0x80100066
	ErrUnpoweredCard      Error = 0x80100067
	ErrResetCard          Error = 0x80100068
	ErrRemovedCard        Error = 0x80100069
)

var errorMessages = map[Error]string{
	ErrInternal:           "internal error",
	ErrCancelled:          "action cancelled by an SCardCancel request",
	ErrInvalidHandle:      "invalid handle",
	ErrInvalidParameter:   "invalid parameter",
	ErrInvalidTarget:      "invalid target",
	ErrNoMemory:           "not enough memory",
	ErrWaitedTooLong:      "an internal consistency timer has expired",
	ErrInsufficientBuffer: "insufficient buffer",
	ErrUnknownReader:      "unknown reader",
	ErrTimeout:            "user-specified timeout value has expired",
	ErrSharingViolation:   "sharing violation",
	ErrNoSmartcard:        "no smart card in the reader",
	ErrUnknownCard:        "unknown card",
	ErrCantDispose:        "cannot dispose of the card",
	ErrProtoMismatch:      "card does not support the requested protocol",
	ErrNotReady:           "reader or card is not ready",
	ErrInvalidValue:       "invalid value",
	ErrSystemCancelled:    "action cancelled by the system",
	ErrCommError:          "internal communications error",
	ErrUnknown:            "unknown error",
	ErrInvalidATR:         "invalid ATR",
	ErrNotTransacted:      "transaction failed",
	ErrReaderUnavailable:  "reader is unavailable",
	ErrPCITooSmall:        "PCI receive buffer was too small",
	ErrReaderUnsupported:  "reader driver does not meet minimal requirements",
	ErrDuplicateReader:    "reader driver did not produce a unique reader name",
	ErrCardUnsupported:    "card cannot be accessed by this reader",
	ErrNoService:          "smart card resource manager is not running",
	ErrServiceStopped:     "smart card resource manager has shut down",
	ErrUnsupportedFeature: "feature not supported",
	ErrNoReaders:          "no smart card reader available",
	ErrUnsupportedCard:    "card is not supported",
	ErrUnresponsiveCard:   "card is unresponsive",
	ErrUnpoweredCard:      "card is unpowered",
	ErrResetCard:          "card was reset",
	ErrRemovedCard:        "card was removed",
}

func (e Error) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return "pcsc: " + msg
	}
	return fmt.Sprintf("unknown pcsc return code 0x%08x", uint32(e))
}

// returnCode turns the LONG returned by the library into an error. The value is truncated to 32 bits since
// LONG is 64 bits wide on LP64 Linux while the codes themselves are 32 bit.
func returnCode(rv long) error {
	if rv == 0 {
		return nil
	}
	return Error(uint32(rv))
}
