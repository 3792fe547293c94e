// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Raw ATA data pages not decoded by the SAT codecs.

package ata

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ThresholdEntry is one SMART attribute threshold (12 bytes).
type ThresholdEntry struct {
	ID        uint8
	Threshold uint8
	_         [10]byte
}

// ThresholdsPage is the SMART READ THRESHOLDS data page.
type ThresholdsPage struct {
	Revision uint16
	Entries  [30]ThresholdEntry
	_        [149]byte
	Checksum byte // Two's complement checksum of first 511 bytes
} // 512 bytes

// DecodeThresholds decodes a SMART READ THRESHOLDS response.
func DecodeThresholds(buf []byte) (*ThresholdsPage, error) {
	var page ThresholdsPage

	if len(buf) < binary.Size(page) {
		return nil, fmt.Errorf("short SMART thresholds page: %d bytes", len(buf))
	}

	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// Threshold returns the threshold of attribute id, or zero if the page has no entry for it.
func (p *ThresholdsPage) Threshold(id uint8) uint8 {
	for _, e := range p.Entries {
		if e.ID == id {
			return e.Threshold
		}
	}

	return 0
}

// IdentifyPage is IDENTIFY DEVICE data as 256 words.
type IdentifyPage [256]uint16

// DecodeIdentifyPage decodes an IDENTIFY DEVICE response.
func DecodeIdentifyPage(buf []byte) (*IdentifyPage, error) {
	var page IdentifyPage

	if len(buf) < binary.Size(page) {
		return nil, fmt.Errorf("short IDENTIFY DEVICE page: %d bytes", len(buf))
	}

	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// Capacity returns the addressable sectors, the user capacity in bytes and the logical and
// physical sector sizes. All are zero if the device does not report a capacity.
func (p *IdentifyPage) Capacity() (sectors, capacity, logical, physical uint64) {
	// Word 49 bit 9: LBA supported
	if p[49]&0x0200 == 0 {
		return
	}

	lba28 := uint64(p[61])<<16 | uint64(p[60])

	var lba48 uint64
	if p[83]&0xc400 == 0x4400 {
		lba48 = uint64(p[103])<<48 | uint64(p[102])<<32 | uint64(p[101])<<16 | uint64(p[100])
	}

	if lba28 == 0 && lba48 == 0 {
		return
	}

	logical, physical = 512, 512

	// Word 106 is valid if bits 15:14 are 01b
	if w := p[106]; w&0xc000 == 0x4000 {
		if w&0x1000 != 0 {
			// Logical sector size in words
			logical = (uint64(p[118])<<16 | uint64(p[117])) << 1
			physical = logical
		}
		if w&0x2000 != 0 {
			physical <<= w & 0x000f
		}
	}

	// Some early 4 KiB logical sector drives report a bogus LBA28 value
	if lba48 >= lba28 || (lba48 != 0 && logical > 512) {
		sectors = lba48
	} else {
		sectors = lba28
	}

	return sectors, sectors * logical, logical, physical
}
