// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v2"

	"github.com/dswarbrick/libsmartctl"
)

// print writes v in the selected output format, using table for the human readable rendering.
func (ctx *context) print(v interface{}, table func(io.Writer) error) error {
	switch ctx.format {
	case "json":
		enc := json.NewEncoder(ctx.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(ctx.out)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "dump":
		cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, SortKeys: true}
		cfg.Fdump(ctx.out, v)
		return nil
	}

	return table(ctx.out)
}

func printInfo(w io.Writer, info libsmartctl.DeviceInfo) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)

	fmt.Fprintln(tw, "=== START OF INFORMATION SECTION ===")

	rows := []struct {
		label, value string
	}{
		{"Model Family:", info.ModelFamily},
		{"Device Model:", info.DeviceModel},
		{"Serial Number:", info.SerialNumber},
		{"LU WWN Device Id:", info.LUWWNDeviceID},
		{"Firmware Version:", info.FirmwareVersion},
		{"User Capacity:", info.UserCapacity()},
		{"Sector Sizes:", info.SectorSizes()},
		{"Rotation Rate:", info.Rotation()},
		{"Device is:", info.DeviceIs()},
		{"ATA Version is:", info.ATAVersion},
		{"SATA Version is:", info.SATAVersion},
		{"SMART support is:", smartSupport(info)},
	}

	for _, r := range rows {
		if r.value != "" {
			fmt.Fprintf(tw, "%s\t%s\n", r.label, r.value)
		}
	}

	if info.Warning != "" {
		fmt.Fprintf(tw, "\n==> WARNING: %s\n", info.Warning)
	}

	return tw.Flush()
}

func smartSupport(info libsmartctl.DeviceInfo) string {
	switch {
	case !info.SMARTSupported:
		return "Unavailable - device lacks SMART capability."
	case info.SMARTEnabled:
		return "Available - device has SMART capability. Enabled"
	}

	return "Available - device has SMART capability. Disabled"
}

func printAttributes(w io.Writer, attrs libsmartctl.VendorAttributes) error {
	fmt.Fprintln(w, "=== START OF READ SMART DATA SECTION ===")
	fmt.Fprintln(w, "Vendor Specific SMART Attributes with Thresholds:")
	fmt.Fprintln(w, "ID# ATTRIBUTE_NAME          FLAG     VALUE WORST THRESH TYPE      UPDATED  WHEN_FAILED RAW_VALUE")

	for _, a := range attrs {
		_, err := fmt.Fprintf(w, "%3d %-23s 0x%04x   %03d   %03d   %03d    %-9s %-8s %-11s %s\n",
			a.ID, a.Name, a.Flag, a.Value, a.Worst, a.Threshold, a.Type, a.Updated, a.WhenFailed, a.RawString)
		if err != nil {
			return err
		}
	}

	return nil
}
