// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package libsmartctl

import (
	"fmt"
)

// ErrorCode is the outcome of a client operation. Only NoError means the response content is
// valid.
type ErrorCode int

const (
	NoError ErrorCode = iota
	PowerModeBelowOption
	FailedDeviceIdRead
	FailedSmartCommand
	GetDeviceError
	DeviceOpenError
	UnsupportedDeviceType
	ClientInitializationFailure
)

var errorCodes = map[ErrorCode]struct {
	name, desc string
}{
	NoError:                     {"NoError", "No errors"},
	PowerModeBelowOption:        {"PowerModeBelowOption", "The power mode is below the configured option"},
	FailedDeviceIdRead:          {"FailedDeviceIdRead", "Device read failure"},
	FailedSmartCommand:          {"FailedSmartCommand", "Test SMART command failed"},
	GetDeviceError:              {"GetDeviceError", "Could not retrieve device information"},
	DeviceOpenError:             {"DeviceOpenError", "Could not open device"},
	UnsupportedDeviceType:       {"UnsupportedDeviceType", "Device type is not supported"},
	ClientInitializationFailure: {"ClientInitializationFailure", "libsmartctl client initialization failure"},
}

// ErrStr returns the description of an error code. It panics if code is not a defined ErrorCode.
func ErrStr(code ErrorCode) string {
	e, ok := errorCodes[code]
	if !ok {
		panic(fmt.Sprintf("libsmartctl: undefined error code %d", int(code)))
	}

	return e.desc
}

func (c ErrorCode) String() string {
	if e, ok := errorCodes[c]; ok {
		return e.name
	}

	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Error makes an ErrorCode usable as an error.
func (c ErrorCode) Error() string {
	return ErrStr(c)
}
