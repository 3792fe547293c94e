// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Drive information, as printed by smartctl --info.

package ata

import (
	"fmt"

	smart "github.com/anatol/smart.go"

	"github.com/dswarbrick/libsmartctl/utils"
)

type DeviceInfo struct {
	ModelFamily        string `json:"model_family,omitempty" yaml:"model_family,omitempty"`
	DeviceModel        string `json:"device_model" yaml:"device_model"`
	SerialNumber       string `json:"serial_number" yaml:"serial_number"`
	LUWWNDeviceID      string `json:"lu_wwn_device_id,omitempty" yaml:"lu_wwn_device_id,omitempty"`
	FirmwareVersion    string `json:"firmware_version" yaml:"firmware_version"`
	Capacity           uint64 `json:"user_capacity" yaml:"user_capacity"`
	LogicalSectorSize  uint64 `json:"logical_sector_size" yaml:"logical_sector_size"`
	PhysicalSectorSize uint64 `json:"physical_sector_size" yaml:"physical_sector_size"`
	RotationRate       uint16 `json:"rotation_rate" yaml:"rotation_rate"`
	InDatabase         bool   `json:"in_database" yaml:"in_database"`
	ATAVersion         string `json:"ata_version,omitempty" yaml:"ata_version,omitempty"`
	SATAVersion        string `json:"sata_version,omitempty" yaml:"sata_version,omitempty"`
	SMARTSupported     bool   `json:"smart_supported" yaml:"smart_supported"`
	SMARTEnabled       bool   `json:"smart_enabled" yaml:"smart_enabled"`
	Warning            string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// UserCapacity formats the capacity as smartctl does, e.g. "500,107,862,016 bytes [500 GB]".
func (i DeviceInfo) UserCapacity() string {
	if i.Capacity == 0 {
		return ""
	}

	return fmt.Sprintf("%s bytes [%s]", utils.FormatThousands(i.Capacity), utils.FormatBytes(i.Capacity))
}

func (i DeviceInfo) SectorSizes() string {
	switch {
	case i.LogicalSectorSize == 0:
		return ""
	case i.LogicalSectorSize == i.PhysicalSectorSize:
		return fmt.Sprintf("%d bytes logical/physical", i.LogicalSectorSize)
	}

	return fmt.Sprintf("%d bytes logical, %d bytes physical", i.LogicalSectorSize, i.PhysicalSectorSize)
}

// Rotation decodes the nominal media rotation rate (word 217).
func (i DeviceInfo) Rotation() string {
	switch r := i.RotationRate; {
	case r == 0 || r == 0xffff:
		return ""
	case r == 1:
		return "Solid State Device"
	case r > 0x400:
		return fmt.Sprintf("%d rpm", r)
	default:
		return fmt.Sprintf("Unknown (0x%04x)", r)
	}
}

// DeviceIs reports whether the drive database knows the model.
func (i DeviceInfo) DeviceIs() string {
	if i.InDatabase {
		return "In smartctl database"
	}

	return "Not in smartctl database"
}

// FetchInfo reads IDENTIFY DEVICE data and decodes it into a DeviceInfo, annotated from the drive
// database.
func (c *Collaborators) FetchInfo(d Device, o Options) (DeviceInfo, error) {
	var info DeviceInfo

	if err := checkPowerMode(d, o); err != nil {
		return info, err
	}

	id, err := identify(d)
	if err != nil {
		return info, err
	}

	info.DeviceModel = id.ModelNumber()
	info.SerialNumber = id.SerialNumber()
	info.FirmwareVersion = id.FirmwareRevision()
	info.LUWWNDeviceID = wwnString(id.WWNRaw)

	if model, found := c.db.LookupDrive(info.DeviceModel, info.FirmwareVersion); found {
		info.InDatabase = true
		info.ModelFamily = model.Family
		info.Warning = model.WarningMsg
	}

	if r, ok := d.(IdentifyPageReader); ok {
		page, err := r.ReadIdentifyPage()
		if err != nil {
			return DeviceInfo{}, fmt.Errorf("%w: %v", ErrIdentify, err)
		}

		_, info.Capacity, info.LogicalSectorSize, info.PhysicalSectorSize = page.Capacity()
	}

	info.RotationRate = id.RotationRate
	info.ATAVersion = ataVersion(id.MajorVersion, id.MinorVersion)
	info.SATAVersion = sataVersion(id.TransportMajor, id.SATACap, id.SATACapAddl)
	info.SMARTSupported, info.SMARTEnabled = smartSupport(id)

	return info, nil
}

// smartSupport decodes the SMART feature set bits of words 82 and 85. Each word is only valid if
// bits 15:14 of its companion word (83, 87) are 01b.
func smartSupport(id *smart.AtaIdentifyDevice) (supported, enabled bool) {
	if id.CommandsSupported2&0xc000 == 0x4000 {
		supported = id.CommandsSupported1&0x0001 != 0
	}

	if id.CommandsEnabled3&0xc000 == 0x4000 {
		enabled = id.CommandsEnabled1&0x0001 != 0
	}

	return supported, enabled
}

// wwnString formats the NAA, IEEE OUI and unique ID of words 108..111, e.g. "5 0014ee 20b1e8a5c".
func wwnString(raw [4]uint16) string {
	if raw == [4]uint16{} || raw == [4]uint16{0xffff, 0xffff, 0xffff, 0xffff} {
		return ""
	}

	naa := raw[0] >> 12
	oui := uint32(raw[0]&0x0fff)<<12 | uint32(raw[1])>>4
	id := uint64(raw[1]&0x000f)<<32 | uint64(raw[2])<<16 | uint64(raw[3])

	return fmt.Sprintf("%x %06x %09x", naa, oui, id)
}
