// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package ata extracts drive information and SMART vendor attributes from ATA devices, using the
// SAT command codecs of github.com/anatol/smart.go and the drive database for model quirks.
package ata

import (
	"encoding/binary"
	"errors"
	"fmt"

	smart "github.com/anatol/smart.go"

	"github.com/dswarbrick/libsmartctl/drivedb"
)

var (
	ErrIdentify  = errors.New("ATA IDENTIFY DEVICE failed")
	ErrSMART     = errors.New("SMART command failed")
	ErrPowerMode = errors.New("device power mode is below the configured option")

	// ErrPowerModeUnsupported is returned by a PowerModeChecker whose transport cannot issue
	// CHECK POWER MODE.
	ErrPowerModeUnsupported = errors.New("CHECK POWER MODE not supported")
)

// Device is an open ATA device able to execute the commands used by this package. It is
// implemented by *smart.SataDevice.
type Device interface {
	Identify() (*smart.AtaIdentifyDevice, error)
	ReadSMARTData() (*smart.AtaSmartPage, error)
}

// ThresholdReader is implemented by devices that can read the SMART attribute thresholds page.
// Attributes of other devices have no thresholds.
type ThresholdReader interface {
	ReadSMARTThresholds() (*ThresholdsPage, error)
}

// IdentifyPageReader is implemented by devices that return the complete IDENTIFY DEVICE page,
// which carries the capacity and sector size words.
type IdentifyPageReader interface {
	ReadIdentifyPage() (*IdentifyPage, error)
}

// PowerState is an ATA device power state as reported by CHECK POWER MODE, ordered from the
// deepest power saving state to fully active.
type PowerState int

const (
	PowerStateUnknown PowerState = iota
	PowerStateSleep
	PowerStateStandby
	PowerStateIdle
	PowerStateActive
)

func (s PowerState) String() string {
	switch s {
	case PowerStateSleep:
		return "SLEEP"
	case PowerStateStandby:
		return "STANDBY"
	case PowerStateIdle:
		return "IDLE"
	case PowerStateActive:
		return "ACTIVE or IDLE"
	}

	return "UNKNOWN"
}

// PowerModeChecker is implemented by devices that can report their current power state without
// spinning up. A failed check is taken to mean the device is asleep, unless the error is
// ErrPowerModeUnsupported.
type PowerModeChecker interface {
	CheckPowerMode() (PowerState, error)
}

// Options selects what is read from the device.
type Options struct {
	DriveInfo        bool
	VendorAttributes bool

	// SkipBelow makes extraction fail with ErrPowerMode when the device reports a power state at
	// or below it. PowerStateUnknown disables the check.
	SkipBelow PowerState
}

// Collaborators binds the ATA extractors to a drive database.
type Collaborators struct {
	db *drivedb.DriveDb
}

func New(db *drivedb.DriveDb) *Collaborators {
	if db == nil {
		db = &drivedb.DriveDb{}
	}

	return &Collaborators{db: db}
}

// CheckLayout verifies that the codec structures decode the page sizes defined by ATA8-ACS.
func CheckLayout() error {
	sizes := []struct {
		name string
		v    interface{}
		want int
	}{
		{"IDENTIFY DEVICE", smart.AtaIdentifyDevice{}, 512},
		{"IDENTIFY DEVICE page", IdentifyPage{}, 512},
		{"SMART READ DATA", smart.AtaSmartPage{}, 362},
		{"SMART READ THRESHOLDS", ThresholdsPage{}, 512},
	}

	for _, s := range sizes {
		if n := binary.Size(s.v); n != s.want {
			return fmt.Errorf("%s structure is %d bytes, expected %d", s.name, n, s.want)
		}
	}

	return nil
}

// CannotIdentify reports whether the device fails to return usable IDENTIFY DEVICE data.
func CannotIdentify(d Device) bool {
	_, err := identify(d)
	return err != nil
}

func (c *Collaborators) CannotIdentify(d Device) bool {
	return CannotIdentify(d)
}

// identify reads IDENTIFY DEVICE data, treating an all-zero page as a failure.
func identify(d Device) (*smart.AtaIdentifyDevice, error) {
	id, err := d.Identify()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentify, err)
	}

	if id == nil || *id == (smart.AtaIdentifyDevice{}) {
		return nil, fmt.Errorf("%w: empty IDENTIFY data", ErrIdentify)
	}

	return id, nil
}

func checkPowerMode(d Device, o Options) error {
	if o.SkipBelow == PowerStateUnknown {
		return nil
	}

	pc, ok := d.(PowerModeChecker)
	if !ok {
		return nil
	}

	state, err := pc.CheckPowerMode()
	switch {
	case errors.Is(err, ErrPowerModeUnsupported):
		return nil
	case err != nil:
		// A drive in SLEEP mode does not answer until reset
		state = PowerStateSleep
	case state == PowerStateUnknown:
		return nil
	}

	if state <= o.SkipBelow {
		return fmt.Errorf("%w: device is in %s mode", ErrPowerMode, state)
	}

	return nil
}
