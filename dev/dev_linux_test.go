// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package dev

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dswarbrick/libsmartctl/ata"
)

var (
	_ ATADevice              = (*ataDevice)(nil)
	_ ata.PowerModeChecker   = (*ataDevice)(nil)
	_ ata.ThresholdReader    = (*ataDevice)(nil)
	_ ata.IdentifyPageReader = (*ataDevice)(nil)
	_ Device                 = (*scsiDevice)(nil)
	_ Device                 = (*nvmeDevice)(nil)
)

func TestNewSystem(t *testing.T) {
	assert := assert.New(t)

	s := NewSystem(nil)
	assert.Len(s.openers, 3)
	assert.NotNil(s.logger())

	assert.True(nvmeController.MatchString("/dev/nvme0"))
	assert.False(nvmeController.MatchString("/dev/nvme0n1"))
}

func TestOpenMissingDevice(t *testing.T) {
	name := "/dev/libsmartctl-missing"

	for _, open := range []Opener{openATA, openSCSI, openNVMe} {
		d, err := open(name)
		assert.Error(t, err)
		assert.Nil(t, d)
	}

	_, err := checkPowerMode(name)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ata.ErrPowerModeUnsupported)
}
