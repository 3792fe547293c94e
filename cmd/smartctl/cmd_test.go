// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/dswarbrick/libsmartctl"
	"github.com/dswarbrick/libsmartctl/ata"
)

type fakeClient struct{}

var testInfo = libsmartctl.DeviceInfo{
	ModelFamily:        "Samsung based SSDs",
	DeviceModel:        "Samsung SSD 860 EVO 500GB",
	SerialNumber:       "S3Z2NB0K123456A",
	LUWWNDeviceID:      "5 002538 e4010c2a1",
	FirmwareVersion:    "RVT02B6Q",
	Capacity:           500107862016,
	LogicalSectorSize:  512,
	PhysicalSectorSize: 512,
	RotationRate:       1,
	InDatabase:         true,
	ATAVersion:         "ACS-4 T13/BSR INCITS 529 revision 5",
	SATAVersion:        "SATA 3.2, 6.0 Gb/s (current: 6.0 Gb/s)",
	SMARTSupported:     true,
	SMARTEnabled:       true,
}

var testAttrs = libsmartctl.VendorAttributes{
	{ID: 5, Name: "Reallocated_Sector_Ct", Flag: 0x0033, Value: 100, Worst: 100, Threshold: 10,
		Type: "Pre-fail", Updated: "Always", WhenFailed: "-", Raw: 0, RawString: "0"},
	{ID: 177, Name: "Wear_Leveling_Count", Flag: 0x0013, Value: 5, Worst: 5, Threshold: 5,
		Type: "Pre-fail", Updated: "Always", WhenFailed: "FAILING_NOW", Raw: 500, RawString: "500"},
}

func (fakeClient) CantIdDev(name, hint string) libsmartctl.CantIdDevResp {
	return libsmartctl.CantIdDevResp{Content: name == "/dev/sdc"}
}

func (fakeClient) GetDevInfo(name, hint string) libsmartctl.DevInfoResp {
	switch name {
	case "/dev/sda":
		return libsmartctl.DevInfoResp{Content: testInfo}
	case "/dev/sdb":
		return libsmartctl.DevInfoResp{Err: libsmartctl.UnsupportedDeviceType}
	}

	return libsmartctl.DevInfoResp{Err: libsmartctl.GetDeviceError}
}

func (fakeClient) GetDevVendorAttrs(name, hint string) libsmartctl.DevVendorAttrsResp {
	if name == "/dev/sda" {
		return libsmartctl.DevVendorAttrsResp{Content: testAttrs}
	}

	return libsmartctl.DevVendorAttrsResp{Err: libsmartctl.GetDeviceError}
}

func (fakeClient) ScanDevices() []string {
	return []string{"/dev/sda", "/dev/sdb"}
}

func newTestContext(format string) (*context, *bytes.Buffer) {
	var buf bytes.Buffer
	return &context{client: fakeClient{}, out: &buf, format: format}, &buf
}

func TestInfoCmd(t *testing.T) {
	assert := assert.New(t)

	ctx, buf := newTestContext("table")
	cmd := &infoCmd{DeviceArgs{Device: "/dev/sda", Type: "auto"}}
	require.NoError(t, cmd.Run(ctx))

	out := buf.String()
	assert.Contains(out, "=== START OF INFORMATION SECTION ===")
	assert.Contains(out, "Device Model:     Samsung SSD 860 EVO 500GB")
	assert.Contains(out, "User Capacity:    500,107,862,016 bytes [500 GB]")
	assert.Contains(out, "Rotation Rate:    Solid State Device")
	assert.Contains(out, "Device is:        In smartctl database")
	assert.Contains(out, "SMART support is: Available - device has SMART capability. Enabled")
	assert.NotContains(out, "WARNING")

	cmd = &infoCmd{DeviceArgs{Device: "/dev/sdb"}}
	assert.EqualError(cmd.Run(ctx), "/dev/sdb: Device type is not supported")
}

func TestInfoCmdJSON(t *testing.T) {
	ctx, buf := newTestContext("json")
	require.NoError(t, (&infoCmd{DeviceArgs{Device: "/dev/sda"}}).Run(ctx))

	var info ata.DeviceInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, testInfo, info)
}

func TestAttrsCmd(t *testing.T) {
	assert := assert.New(t)

	ctx, buf := newTestContext("table")
	require.NoError(t, (&attrsCmd{DeviceArgs{Device: "/dev/sda"}}).Run(ctx))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal("  5 Reallocated_Sector_Ct   0x0033   100   100   010    Pre-fail  Always   -           0", lines[3])
	assert.Equal("177 Wear_Leveling_Count     0x0013   005   005   005    Pre-fail  Always   FAILING_NOW 500", lines[4])

	assert.EqualError((&attrsCmd{DeviceArgs{Device: "/dev/sdz"}}).Run(ctx),
		"/dev/sdz: Could not retrieve device information")
}

func TestAttrsCmdYAML(t *testing.T) {
	ctx, buf := newTestContext("yaml")
	require.NoError(t, (&attrsCmd{DeviceArgs{Device: "/dev/sda"}}).Run(ctx))

	var attrs []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &attrs))
	require.Len(t, attrs, 2)
	assert.Equal(t, "FAILING_NOW", attrs[1]["when_failed"])
}

func TestCantIDCmd(t *testing.T) {
	ctx, buf := newTestContext("table")

	require.NoError(t, (&cantIDCmd{DeviceArgs{Device: "/dev/sda"}}).Run(ctx))
	require.NoError(t, (&cantIDCmd{DeviceArgs{Device: "/dev/sdc"}}).Run(ctx))
	assert.Equal(t, "/dev/sda: identified\n/dev/sdc: cannot be identified\n", buf.String())
}

func TestScanCmd(t *testing.T) {
	ctx, buf := newTestContext("dump")
	require.NoError(t, (&scanCmd{}).Run(ctx))
	assert.Contains(t, buf.String(), `"/dev/sda"`)

	ctx, buf = newTestContext("table")
	require.NoError(t, (&scanCmd{}).Run(ctx))
	assert.Equal(t, "/dev/sda\n/dev/sdb\n", buf.String())
}

func TestMetricsCmd(t *testing.T) {
	assert := assert.New(t)

	ctx, buf := newTestContext("table")
	require.NoError(t, (&metricsCmd{Type: "auto"}).Run(ctx))

	out := buf.String()
	assert.Contains(out, `smartctl_device_status{device="/dev/sda",error="NoError"} 0`)
	assert.Contains(out, `smartctl_device_status{device="/dev/sdb",error="UnsupportedDeviceType"} 6`)
	assert.Contains(out, `smartctl_device_capacity_bytes{device="/dev/sda"} 5.00107862016e+11`)
	assert.Contains(out, `smartctl_device_smart_enabled{device="/dev/sda"} 1`)
	assert.Contains(out, `smartctl_device_attribute_failing{attribute_flags="0x0013",attribute_id="177",attribute_name="Wear_Leveling_Count",device="/dev/sda"} 1`)
	assert.Contains(out, `smartctl_device_attribute_threshold{attribute_flags="0x0033",attribute_id="5",attribute_name="Reallocated_Sector_Ct",device="/dev/sda"} 10`)
	assert.NotContains(out, `smartctl_device_info{device="/dev/sdb"`)
}
