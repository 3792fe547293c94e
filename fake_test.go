// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package libsmartctl

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	smart "github.com/anatol/smart.go"
	log "github.com/sirupsen/logrus"

	"github.com/dswarbrick/libsmartctl/ata"
	"github.com/dswarbrick/libsmartctl/dev"
	"github.com/dswarbrick/libsmartctl/drivedb"
)

// fakeDisk describes how a device name behaves when opened.
type fakeDisk struct {
	family    dev.Family
	openFails bool
	ata       ata.Device
}

// fakeInterface is a dev.Interface that records calls and tracks every handle it hands out.
type fakeInterface struct {
	initOK bool
	disks  map[string]fakeDisk

	inits atomic.Int32

	mu      sync.Mutex
	gets    []string
	handles []*fakeDevice
}

func newFakeInterface(disks map[string]fakeDisk) *fakeInterface {
	return &fakeInterface{initOK: true, disks: disks}
}

func (f *fakeInterface) Initialize() bool {
	f.inits.Add(1)
	return f.initOK
}

func (f *fakeInterface) GetDevice(name, hint string) dev.Device {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gets = append(f.gets, name)

	disk, ok := f.disks[name]
	if !ok {
		return nil
	}

	d := &fakeDevice{iface: f, name: name, disk: disk}
	f.handles = append(f.handles, d)

	return d
}

func (f *fakeInterface) Scan() []string {
	return []string{"/dev/sda", "/dev/sdb"}
}

func (f *fakeInterface) getCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.gets)
}

// leaked returns the handles that were opened but not closed exactly once, and the number of
// consumed handles that were closed anyway.
func (f *fakeInterface) leaked() (open []*fakeDevice, misused int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, d := range f.handles {
		switch {
		case d.consumed && d.closes > 0:
			misused++
		case d.opened && d.closes != 1:
			open = append(open, d)
		}
	}

	return open, misused
}

type fakeDevice struct {
	iface    *fakeInterface
	name     string
	disk     fakeDisk
	opened   bool
	consumed bool
	closes   int
}

func (d *fakeDevice) Name() string       { return d.name }
func (d *fakeDevice) Family() dev.Family { return d.disk.family }
func (d *fakeDevice) IsOpen() bool       { return d.opened && d.closes == 0 }
func (d *fakeDevice) ATA() ata.Device    { return d.disk.ata }

func (d *fakeDevice) Err() error {
	if d.disk.openFails {
		return errors.New("permission denied")
	}
	return nil
}

func (d *fakeDevice) Close() error {
	d.closes++
	return nil
}

// AutodetectOpen substitutes a new handle, as a real open that detects a more specific device
// type does.
func (d *fakeDevice) AutodetectOpen() dev.Device {
	d.consumed = true

	h := &fakeDevice{iface: d.iface, name: d.name, disk: d.disk, opened: !d.disk.openFails}

	d.iface.mu.Lock()
	d.iface.handles = append(d.iface.handles, h)
	d.iface.mu.Unlock()

	return h
}

// fakeATA records calls to the ATA collaborators and returns canned results.
type fakeATA struct {
	cannot   bool
	info     ata.DeviceInfo
	infoErr  error
	attrs    ata.VendorAttributes
	attrsErr error

	calls    int
	lastOpts ata.Options
}

func (f *fakeATA) CannotIdentify(d ata.Device) bool {
	f.calls++
	return f.cannot
}

func (f *fakeATA) FetchInfo(d ata.Device, o ata.Options) (ata.DeviceInfo, error) {
	f.calls++
	f.lastOpts = o
	return f.info, f.infoErr
}

func (f *fakeATA) FetchVendorAttributes(d ata.Device, o ata.Options) (ata.VendorAttributes, error) {
	f.calls++
	f.lastOpts = o
	return f.attrs, f.attrsErr
}

// brokenATA fails every command, as a device behind a bridge that does not pass ATA commands.
type brokenATA struct{}

func (brokenATA) Identify() (*smart.AtaIdentifyDevice, error) {
	return nil, errors.New("sendCDB ATA IDENTIFY: input/output error")
}

func (brokenATA) ReadSMARTData() (*smart.AtaSmartPage, error) {
	return nil, errors.New("sendCDB SMART READ DATA: input/output error")
}

func emptyDriveDB(drivedb.Config, *log.Logger) (*drivedb.DriveDb, error) {
	return &drivedb.DriveDb{}, nil
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func testDisks() map[string]fakeDisk {
	return map[string]fakeDisk{
		"/dev/sda":   {family: dev.FamilyATA, ata: brokenATA{}},
		"/dev/sdb":   {family: dev.FamilySCSI},
		"/dev/sdc":   {family: dev.FamilyATA, openFails: true},
		"/dev/nvme0": {family: dev.FamilyNVMe},
	}
}

func newTestRuntime(iface dev.Interface, opts ...Option) *Runtime {
	opts = append([]Option{
		WithInterface(iface),
		WithDriveDB(emptyDriveDB),
		WithLogger(quietLogger()),
	}, opts...)

	return NewRuntime(DefaultConfig(), opts...)
}
