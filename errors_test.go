// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package libsmartctl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrStr(t *testing.T) {
	assert := assert.New(t)

	for code := NoError; code <= ClientInitializationFailure; code++ {
		assert.NotEmpty(ErrStr(code), code.String())
	}

	assert.Equal("No errors", ErrStr(NoError))
	assert.Equal("Could not open device", ErrStr(DeviceOpenError))
	assert.Equal("libsmartctl client initialization failure", ErrStr(ClientInitializationFailure))

	assert.Panics(func() { ErrStr(ClientInitializationFailure + 1) })
	assert.Panics(func() { ErrStr(-1) })
}

func TestErrorCodeString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("UnsupportedDeviceType", UnsupportedDeviceType.String())
	assert.Equal("ErrorCode(99)", ErrorCode(99).String())
}

func TestErrorCodeAsError(t *testing.T) {
	var err error = FailedSmartCommand

	assert.EqualError(t, err, "Test SMART command failed")

	var code ErrorCode
	assert.True(t, errors.As(err, &code))
	assert.Equal(t, FailedSmartCommand, code)
}
