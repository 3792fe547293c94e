// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package ata

import (
	"math/bits"

	smart "github.com/anatol/smart.go"
)

// plainDevice implements only the commands of a SAT device.
type plainDevice struct {
	id      *smart.AtaIdentifyDevice
	idErr   error
	page    *smart.AtaSmartPage
	pageErr error
}

func (d *plainDevice) Identify() (*smart.AtaIdentifyDevice, error) {
	return d.id, d.idErr
}

func (d *plainDevice) ReadSMARTData() (*smart.AtaSmartPage, error) {
	return d.page, d.pageErr
}

// fakeDevice additionally returns the thresholds and complete IDENTIFY DEVICE pages.
type fakeDevice struct {
	plainDevice
	thr     *ThresholdsPage
	thrErr  error
	words   *IdentifyPage
	wordErr error
}

func (d *fakeDevice) ReadSMARTThresholds() (*ThresholdsPage, error) {
	return d.thr, d.thrErr
}

func (d *fakeDevice) ReadIdentifyPage() (*IdentifyPage, error) {
	return d.words, d.wordErr
}

type sleepyDevice struct {
	*fakeDevice
	state PowerState
	err   error
}

func (d *sleepyDevice) CheckPowerMode() (PowerState, error) {
	return d.state, d.err
}

// ataString encodes s as an ATA IDENTIFY string: space padded, with each byte pair swapped.
func ataString(dst []byte, s string) {
	for i := range dst {
		dst[i] = ' '
	}
	copy(dst, s)

	for i := 0; i < len(dst); i += 2 {
		dst[i], dst[i+1] = dst[i+1], dst[i]
	}
}

func newIdentify(model, serial, firmware string) *smart.AtaIdentifyDevice {
	id := &smart.AtaIdentifyDevice{}

	ataString(id.ModelNumberRaw[:], model)
	ataString(id.SerialNumberRaw[:], serial)
	ataString(id.FirmwareRevisionRaw[:], firmware)

	id.CommandsSupported1 = 0x0001 // SMART feature set
	id.CommandsSupported2 = 0x4400 // 48-bit address feature set
	id.CommandsEnabled1 = 0x0001
	id.CommandsEnabled3 = 0x4000
	id.MajorVersion = 0x07f0
	id.MinorVersion = 0x011b
	id.TransportMajor = 0x10ff
	id.SATACap = 0x000e
	id.SATACapAddl = 0x0006
	id.RotationRate = 1
	id.WWNRaw = [4]uint16{0x5001, 0x4ee2, 0x0b1e, 0x8a5c}

	return id
}

// newIdentifyPage returns IDENTIFY DEVICE words for an LBA48 drive with 512 byte sectors.
func newIdentifyPage(sectors uint64) *IdentifyPage {
	var p IdentifyPage

	p[49] = 0x0200 // LBA supported
	p[60], p[61] = 0xffff, 0x0fff
	p[83] = 0x4400 // 48-bit address feature set
	p[100] = uint16(sectors)
	p[101] = uint16(sectors >> 16)
	p[102] = uint16(sectors >> 32)
	p[106] = 0x4000

	return &p
}

// smartAttr builds an attribute as the SAT codec decodes it, with the flags word byte swapped.
func smartAttr(id uint8, flags uint16, value, worst uint8, raw ...byte) smart.AtaSmartAttr {
	a := smart.AtaSmartAttr{Id: id, Flags: bits.ReverseBytes16(flags), Value: value, Worst: worst}
	copy(a.VendorBytes[:], raw)
	return a
}

func thresholdsPage(thresholds map[uint8]uint8) *ThresholdsPage {
	p := &ThresholdsPage{Revision: 1}

	i := 0
	for id, t := range thresholds {
		p.Entries[i] = ThresholdEntry{ID: id, Threshold: t}
		i++
	}

	return p
}

func newSamsungDevice() *fakeDevice {
	page := &smart.AtaSmartPage{Version: 1}

	attrs := []smart.AtaSmartAttr{
		smartAttr(250, 0x0000, 100, 100, 7),
		smartAttr(190, 0x0032, 67, 52, 33, 0, 21, 0, 48, 0),
		smartAttr(5, 0x0033, 100, 100),
		{},
		smartAttr(177, 0x0013, 5, 5, 0xf4, 0x01),
		smartAttr(9, 0x0032, 98, 98, 0x39, 0x12),
		smartAttr(181, 0x0032, 100, 9),
	}
	copy(page.Attrs[:], attrs)

	return &fakeDevice{
		plainDevice: plainDevice{
			id:   newIdentify("Samsung SSD 860 EVO 500GB", "S3Z2NB0K123456A", "RVT02B6Q"),
			page: page,
		},
		thr: thresholdsPage(map[uint8]uint8{
			5:   10,
			177: 5,
			181: 10,
		}),
		words: newIdentifyPage(976773168),
	}
}
