// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/dswarbrick/libsmartctl"
)

// client is the subset of libsmartctl.Client used by the commands
type client interface {
	CantIdDev(name, hint string) libsmartctl.CantIdDevResp
	GetDevInfo(name, hint string) libsmartctl.DevInfoResp
	GetDevVendorAttrs(name, hint string) libsmartctl.DevVendorAttrsResp
	ScanDevices() []string
}

// context is the context struct required by kong command line parser
type context struct {
	client client
	out    io.Writer
	format string
}

type infoCmd struct {
	DeviceArgs `embed:""`
}

type attrsCmd struct {
	DeviceArgs `embed:""`
}

type cantIDCmd struct {
	DeviceArgs `embed:""`
}

type scanCmd struct{}

type metricsCmd struct {
	Devices []string `arg:"" optional:"" help:"Devices to read, all scanned devices if omitted"`
	Type    string   `flag:"" short:"d" default:"auto" help:"Device type: auto, ata, sat, scsi, nvme"`
}

// Run executes when the info command is invoked
func (c *infoCmd) Run(ctx *context) error {
	resp := ctx.client.GetDevInfo(c.Device, c.Type)
	if resp.Err != libsmartctl.NoError {
		return fmt.Errorf("%s: %v", c.Device, resp.Err)
	}

	return ctx.print(resp.Content, func(w io.Writer) error {
		return printInfo(w, resp.Content)
	})
}

// Run executes when the attrs command is invoked
func (c *attrsCmd) Run(ctx *context) error {
	resp := ctx.client.GetDevVendorAttrs(c.Device, c.Type)
	if resp.Err != libsmartctl.NoError {
		return fmt.Errorf("%s: %v", c.Device, resp.Err)
	}

	return ctx.print(resp.Content, func(w io.Writer) error {
		return printAttributes(w, resp.Content)
	})
}

// Run executes when the cantid command is invoked
func (c *cantIDCmd) Run(ctx *context) error {
	resp := ctx.client.CantIdDev(c.Device, c.Type)
	if resp.Err != libsmartctl.NoError {
		return fmt.Errorf("%s: %v", c.Device, resp.Err)
	}

	return ctx.print(resp, func(w io.Writer) error {
		if resp.Content {
			_, err := fmt.Fprintf(w, "%s: cannot be identified\n", c.Device)
			return err
		}

		_, err := fmt.Fprintf(w, "%s: identified\n", c.Device)
		return err
	})
}

// Run executes when the scan command is invoked
func (c *scanCmd) Run(ctx *context) error {
	devices := ctx.client.ScanDevices()

	return ctx.print(devices, func(w io.Writer) error {
		for _, d := range devices {
			if _, err := fmt.Fprintln(w, d); err != nil {
				return err
			}
		}
		return nil
	})
}

// Run executes when the metrics command is invoked
func (c *metricsCmd) Run(ctx *context) error {
	devices := c.Devices
	if len(devices) == 0 {
		devices = ctx.client.ScanDevices()
	}

	var state []deviceState

	for _, name := range devices {
		s := deviceState{
			Device: name,
			Info:   ctx.client.GetDevInfo(name, c.Type),
		}

		if s.Info.Err == libsmartctl.NoError {
			s.Attrs = ctx.client.GetDevVendorAttrs(name, c.Type)
		} else {
			log.Debugf("%s: %v", name, s.Info.Err)
		}

		state = append(state, s)
	}

	return writeMetrics(ctx.out, state)
}
