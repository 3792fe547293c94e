// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package dev

import (
	"regexp"

	smart "github.com/anatol/smart.go"
	"github.com/dswarbrick/go-nvme/nvme"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/dswarbrick/libsmartctl/ata"
)

var nvmeController = regexp.MustCompile(`^/dev/nvme[0-9]+$`)

// NewSystem returns the Linux device-interface subsystem, logging to logger. ATA devices are
// reached through the SCSI generic SAT layer, SCSI devices through SG_IO and NVMe controllers
// through the NVMe admin ioctl.
func NewSystem(logger *log.Logger) *System {
	return &System{
		openers: map[Family]Opener{
			FamilyATA:  openATA,
			FamilySCSI: openSCSI,
			FamilyNVMe: openNVMe,
		},
		ready:  devfsReady,
		exists: nodeExists,
		log:    logger,
		patterns: []scanPattern{
			{glob: "/dev/sd*[^0-9]"},
			{glob: "/dev/nvme[0-9]*", keep: nvmeController.MatchString},
		},
	}
}

func devfsReady() bool {
	var st unix.Stat_t

	if err := unix.Stat("/dev", &st); err != nil {
		return false
	}

	return st.Mode&unix.S_IFMT == unix.S_IFDIR
}

func nodeExists(name string) bool {
	var st unix.Stat_t

	if err := unix.Stat(name, &st); err != nil {
		return false
	}

	switch st.Mode & unix.S_IFMT {
	case unix.S_IFBLK, unix.S_IFCHR:
		return true
	}

	return false
}

// ataDevice is a SATA device behind a SCSI-ATA translation layer.
type ataDevice struct {
	*smart.SataDevice
	name   string
	closed bool
}

func openATA(name string) (Device, error) {
	d, err := smart.OpenSata(name)
	if err != nil {
		return nil, err
	}

	return &ataDevice{SataDevice: d, name: name}, nil
}

func (d *ataDevice) Name() string           { return d.name }
func (d *ataDevice) Family() Family         { return FamilyATA }
func (d *ataDevice) AutodetectOpen() Device { return d }
func (d *ataDevice) IsOpen() bool           { return !d.closed }
func (d *ataDevice) Err() error             { return nil }
func (d *ataDevice) ATA() ata.Device        { return d }

func (d *ataDevice) Close() error {
	if d.closed {
		return nil
	}

	d.closed = true

	return d.SataDevice.Close()
}

// CheckPowerMode implements ata.PowerModeChecker.
func (d *ataDevice) CheckPowerMode() (ata.PowerState, error) {
	return checkPowerMode(d.name)
}

// ReadSMARTThresholds implements ata.ThresholdReader.
func (d *ataDevice) ReadSMARTThresholds() (*ata.ThresholdsPage, error) {
	return readSMARTThresholds(d.name)
}

// ReadIdentifyPage implements ata.IdentifyPageReader.
func (d *ataDevice) ReadIdentifyPage() (*ata.IdentifyPage, error) {
	return readIdentifyPage(d.name)
}

type scsiDevice struct {
	*smart.ScsiDevice
	name   string
	closed bool
}

func openSCSI(name string) (Device, error) {
	d, err := smart.OpenScsi(name)
	if err != nil {
		return nil, err
	}

	return &scsiDevice{ScsiDevice: d, name: name}, nil
}

func (d *scsiDevice) Name() string           { return d.name }
func (d *scsiDevice) Family() Family         { return FamilySCSI }
func (d *scsiDevice) AutodetectOpen() Device { return d }
func (d *scsiDevice) IsOpen() bool           { return !d.closed }
func (d *scsiDevice) Err() error             { return nil }

func (d *scsiDevice) Close() error {
	if d.closed {
		return nil
	}

	d.closed = true

	return d.ScsiDevice.Close()
}

type nvmeDevice struct {
	*nvme.NVMeDevice
	name   string
	closed bool
}

func openNVMe(name string) (Device, error) {
	d := nvme.NewNVMeDevice(name)
	if err := d.Open(); err != nil {
		return nil, err
	}

	return &nvmeDevice{NVMeDevice: d, name: name}, nil
}

func (d *nvmeDevice) Name() string           { return d.name }
func (d *nvmeDevice) Family() Family         { return FamilyNVMe }
func (d *nvmeDevice) AutodetectOpen() Device { return d }
func (d *nvmeDevice) IsOpen() bool           { return !d.closed }
func (d *nvmeDevice) Err() error             { return nil }

func (d *nvmeDevice) Close() error {
	if d.closed {
		return nil
	}

	d.closed = true

	return d.NVMeDevice.Close()
}
