// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package dev

import (
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Opener opens a device of one family.
type Opener func(name string) (Device, error)

// System is the Interface implementation backed by per-family openers.
type System struct {
	openers  map[Family]Opener
	ready    func() bool
	exists   func(name string) bool
	patterns []scanPattern
	log      *log.Logger
}

type scanPattern struct {
	glob string
	keep func(name string) bool
}

func (s *System) logger() *log.Logger {
	if s.log == nil {
		return log.StandardLogger()
	}

	return s.log
}

func (s *System) Initialize() bool {
	if s.ready == nil {
		return false
	}

	return s.ready()
}

func (s *System) GetDevice(name, hint string) Device {
	if name == "" {
		return nil
	}

	family, err := ParseHint(hint)
	if err != nil {
		s.logger().Debugf("%s: %v", name, err)
		return nil
	}

	if s.exists != nil && !s.exists(name) {
		s.logger().Debugf("%s: no such device", name)
		return nil
	}

	return &pendingDevice{sys: s, name: name, family: family}
}

// Scan finds SCSI disk devices and NVMe controllers.
func (s *System) Scan() []string {
	var devices []string

	for _, p := range s.patterns {
		files, err := filepath.Glob(p.glob)
		if err != nil {
			continue
		}

		for _, file := range files {
			if p.keep == nil || p.keep(file) {
				devices = append(devices, file)
			}
		}
	}

	sort.Strings(devices)

	return devices
}

// candidates returns the families to try, in order, when opening a device.
func candidates(name string, hinted Family) []Family {
	switch {
	case hinted != FamilyUnknown:
		return []Family{hinted}
	case strings.HasPrefix(name, "/dev/nvme"):
		return []Family{FamilyNVMe}
	}

	// SATA drives also answer SCSI INQUIRY, so the SAT probe must come first
	return []Family{FamilyATA, FamilySCSI}
}

// pendingDevice is a resolved but unopened device.
type pendingDevice struct {
	sys    *System
	name   string
	family Family
}

func (d *pendingDevice) Name() string   { return d.name }
func (d *pendingDevice) Family() Family { return d.family }
func (d *pendingDevice) IsOpen() bool   { return false }
func (d *pendingDevice) Err() error     { return nil }
func (d *pendingDevice) Close() error   { return nil }

func (d *pendingDevice) AutodetectOpen() Device {
	var lastErr error = ErrNoDriver

	for _, f := range candidates(d.name, d.family) {
		open, ok := d.sys.openers[f]
		if !ok {
			continue
		}

		h, err := open(d.name)
		if err == nil {
			d.sys.logger().Debugf("%s: opened as %s device", d.name, f)
			return h
		}

		d.sys.logger().Debugf("%s: cannot open as %s device: %v", d.name, f, err)
		lastErr = err
	}

	return &failedDevice{name: d.name, family: d.family, err: lastErr}
}

// failedDevice is the result of an unsuccessful open.
type failedDevice struct {
	name   string
	family Family
	err    error
}

func (d *failedDevice) Name() string           { return d.name }
func (d *failedDevice) Family() Family         { return d.family }
func (d *failedDevice) AutodetectOpen() Device { return d }
func (d *failedDevice) IsOpen() bool           { return false }
func (d *failedDevice) Err() error             { return d.err }
func (d *failedDevice) Close() error           { return nil }
