// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package dev resolves device names to device handles, opening them with the driver of the
// device family and autodetecting the family when no type hint is given.
package dev

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dswarbrick/libsmartctl/ata"
)

var (
	ErrUnknownHint = errors.New("unknown device type hint")
	ErrNoDriver    = errors.New("no driver for device type")
)

// Family is the command set family of a device.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyATA
	FamilySCSI
	FamilyNVMe
)

func (f Family) String() string {
	switch f {
	case FamilyATA:
		return "ata"
	case FamilySCSI:
		return "scsi"
	case FamilyNVMe:
		return "nvme"
	}

	return "unknown"
}

// Interface is the device-interface subsystem.
type Interface interface {
	// Initialize brings up the subsystem, reporting whether it is usable.
	Initialize() bool
	// GetDevice resolves a device name and type hint to an unopened device, or nil.
	GetDevice(name, hint string) Device
	// Scan lists the names of devices that may support SMART.
	Scan() []string
}

// Device is a device handle. AutodetectOpen consumes its receiver: the returned Device replaces it
// and is the only one that may be used or closed afterwards.
type Device interface {
	Name() string
	Family() Family
	AutodetectOpen() Device
	IsOpen() bool
	// Err returns the reason an open failed, if any.
	Err() error
	Close() error
}

// ATADevice is an open device speaking the ATA command set.
type ATADevice interface {
	Device
	ATA() ata.Device
}

// ParseHint maps a device type hint to a Family. The empty hint and "auto" select autodetection,
// which is FamilyUnknown.
func ParseHint(hint string) (Family, error) {
	switch strings.ToLower(hint) {
	case "", "auto":
		return FamilyUnknown, nil
	case "ata", "sat":
		return FamilyATA, nil
	case "scsi":
		return FamilySCSI, nil
	case "nvme":
		return FamilyNVMe, nil
	}

	return FamilyUnknown, fmt.Errorf("%w: %q", ErrUnknownHint, hint)
}
