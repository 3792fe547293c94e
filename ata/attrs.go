// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// SMART vendor specific attributes, as printed by smartctl --attributes.

package ata

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"

	smart "github.com/anatol/smart.go"
)

const (
	attrFlagPrefailure = 1 << 0
	attrFlagOnline     = 1 << 1
)

type VendorAttribute struct {
	ID         uint8  `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Flag       uint16 `json:"flag" yaml:"flag"`
	Value      uint8  `json:"value" yaml:"value"`
	Worst      uint8  `json:"worst" yaml:"worst"`
	Threshold  uint8  `json:"thresh" yaml:"thresh"`
	Type       string `json:"type" yaml:"type"`
	Updated    string `json:"updated" yaml:"updated"`
	WhenFailed string `json:"when_failed" yaml:"when_failed"`
	Raw        uint64 `json:"raw_value" yaml:"raw_value"`
	RawString  string `json:"raw_string" yaml:"raw_string"`
}

type VendorAttributes []VendorAttribute

// Find returns the attribute with the given ID.
func (a VendorAttributes) Find(id uint8) (VendorAttribute, bool) {
	for _, attr := range a {
		if attr.ID == id {
			return attr, true
		}
	}

	return VendorAttribute{}, false
}

// FetchVendorAttributes reads the SMART data and threshold pages and decodes each attribute
// using the conversion presets the drive database holds for the device model.
func (c *Collaborators) FetchVendorAttributes(d Device, o Options) (VendorAttributes, error) {
	if err := checkPowerMode(d, o); err != nil {
		return nil, err
	}

	id, err := identify(d)
	if err != nil {
		return nil, err
	}

	model, _ := c.db.LookupDrive(id.ModelNumber(), id.FirmwareRevision())

	page, err := d.ReadSMARTData()
	if err != nil {
		return nil, fmt.Errorf("%w: SMART READ DATA: %v", ErrSMART, err)
	}

	var thresholds *ThresholdsPage
	if r, ok := d.(ThresholdReader); ok {
		if thresholds, err = r.ReadSMARTThresholds(); err != nil {
			return nil, fmt.Errorf("%w: SMART READ THRESHOLDS: %v", ErrSMART, err)
		}
	}

	attrs := make(VendorAttributes, 0, len(page.Attrs))

	for _, a := range page.Attrs {
		if a.Id == 0 {
			continue
		}

		// The SAT codec decodes the page big-endian, ATA words are little-endian
		a.Flags = bits.ReverseBytes16(a.Flags)

		attr := VendorAttribute{
			ID:    a.Id,
			Flag:  a.Flags,
			Value: a.Value,
			Worst: a.Worst,
		}

		if thresholds != nil {
			attr.Threshold = thresholds.Threshold(a.Id)
		}

		conv := "raw48"
		if p, ok := model.Preset(a.Id); ok {
			attr.Name = p.Name
			if p.Conv != "" {
				conv = p.Conv
			}
		}

		if attr.Name == "" {
			attr.Name = "Unknown_Attribute"
		}

		attr.Type, attr.Updated, attr.WhenFailed = attrStatus(a, attr.Threshold)
		attr.Raw, attr.RawString = rawValue(conv, a.VendorBytes)

		attrs = append(attrs, attr)
	}

	sort.Slice(attrs, func(i, j int) bool { return attrs[i].ID < attrs[j].ID })

	return attrs, nil
}

func attrStatus(a smart.AtaSmartAttr, threshold uint8) (typ, updated, whenFailed string) {
	typ = "Old_age"
	if a.Flags&attrFlagPrefailure != 0 {
		typ = "Pre-fail"
	}

	updated = "Offline"
	if a.Flags&attrFlagOnline != 0 {
		updated = "Always"
	}

	switch {
	case threshold == 0:
		whenFailed = "-"
	case a.Value <= threshold:
		whenFailed = "FAILING_NOW"
	case a.Worst <= threshold:
		whenFailed = "In_the_past"
	default:
		whenFailed = "-"
	}

	return
}

// rawValue decodes the six vendor bytes of an attribute according to a drive database conversion
// rule. Byte 0 is the least significant byte.
func rawValue(conv string, b [6]byte) (uint64, string) {
	raw48 := uint64(b[5])<<40 | uint64(b[4])<<32 | uint64(b[3])<<24 |
		uint64(b[2])<<16 | uint64(b[1])<<8 | uint64(b[0])
	raw16 := raw48 & 0xffff
	raw24 := raw48 & 0xffffff
	raw32 := raw48 & 0xffffffff

	// Strip any byte order suffix, e.g. "raw48:54321"
	if i := strings.IndexByte(conv, ':'); i >= 0 {
		conv = conv[:i]
	}

	switch {
	case conv == "tempminmax":
		t := uint64(b[0])
		lo, hi := b[2], b[4]
		if lo != 0 && hi != 0 && lo <= b[0] && b[0] <= hi {
			return t, fmt.Sprintf("%d (Min/Max %d/%d)", t, lo, hi)
		}
		return t, fmt.Sprintf("%d", t)
	case conv == "temp10x":
		return raw16 / 10, fmt.Sprintf("%d.%d", raw16/10, raw16%10)
	case strings.HasPrefix(conv, "raw16"):
		return raw16, fmt.Sprintf("%d", raw16)
	case strings.HasPrefix(conv, "raw24"):
		return raw24, fmt.Sprintf("%d", raw24)
	case conv == "sec2hour":
		return raw48 / 3600, fmt.Sprintf("%dh+%02dm+%02ds", raw48/3600, (raw48%3600)/60, raw48%60)
	case conv == "min2hour":
		return raw32 / 60, fmt.Sprintf("%dh+%02dm", raw32/60, raw32%60)
	case conv == "halfmin2hour":
		return raw48 / 120, fmt.Sprintf("%dh+%02dm", raw48/120, (raw48%120)/2)
	case conv == "msec24hour32":
		hours := uint64(b[5])<<8 | uint64(b[4])
		return hours, fmt.Sprintf("%dh+%02dm+%02d.%03ds", hours, raw32/60000%60, raw32/1000%60, raw32%1000)
	case conv == "hex48":
		return raw48, fmt.Sprintf("0x%012x", raw48)
	}

	return raw48, fmt.Sprintf("%d", raw48)
}
