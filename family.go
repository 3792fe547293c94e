// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package libsmartctl

import (
	"errors"

	"github.com/dswarbrick/libsmartctl/ata"
	"github.com/dswarbrick/libsmartctl/dev"
)

// familyBackend implements the client operations for one device family. A family without a
// backend is unsupported.
type familyBackend interface {
	cannotIdentify(d dev.Device) (bool, ErrorCode)
	info(d dev.Device) (DeviceInfo, ErrorCode)
	vendorAttributes(d dev.Device) (VendorAttributes, ErrorCode)
}

type ataBackend struct {
	c         ATACollaborators
	skipBelow ata.PowerState
}

func (b ataBackend) cannotIdentify(d dev.Device) (bool, ErrorCode) {
	ad, ok := d.(dev.ATADevice)
	if !ok {
		return false, UnsupportedDeviceType
	}

	return b.c.CannotIdentify(ad.ATA()), NoError
}

func (b ataBackend) info(d dev.Device) (DeviceInfo, ErrorCode) {
	ad, ok := d.(dev.ATADevice)
	if !ok {
		return DeviceInfo{}, UnsupportedDeviceType
	}

	info, err := b.c.FetchInfo(ad.ATA(), ata.Options{DriveInfo: true, SkipBelow: b.skipBelow})
	if err != nil {
		return DeviceInfo{}, classifyATAError(err)
	}

	return info, NoError
}

func (b ataBackend) vendorAttributes(d dev.Device) (VendorAttributes, ErrorCode) {
	ad, ok := d.(dev.ATADevice)
	if !ok {
		return nil, UnsupportedDeviceType
	}

	attrs, err := b.c.FetchVendorAttributes(ad.ATA(), ata.Options{VendorAttributes: true, SkipBelow: b.skipBelow})
	if err != nil {
		return nil, classifyATAError(err)
	}

	return attrs, NoError
}

func classifyATAError(err error) ErrorCode {
	switch {
	case errors.Is(err, ata.ErrPowerMode):
		return PowerModeBelowOption
	case errors.Is(err, ata.ErrSMART):
		return FailedSmartCommand
	}

	return FailedDeviceIdRead
}
