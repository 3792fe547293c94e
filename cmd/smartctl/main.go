// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Go SMART library smartctl reference implementation.
package main

import (
	"os"
	"runtime"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/dswarbrick/libsmartctl"
)

const (
	programName = "smartctl"
	programDesc = "Go smartctl Reference Implementation"
)

// DeviceArgs selects a device, shared by the per-device commands
type DeviceArgs struct {
	Device string `arg:"" help:"Device from which to read SMART data, e.g. /dev/sda"`
	Type   string `flag:"" short:"d" default:"auto" help:"Device type: auto, ata, sat, scsi, nvme"`
}

// cli is the main command line interface struct required by kong command line parser
var cli struct {
	Config   string `flag:"" optional:"" short:"c" type:"existingfile" help:"YAML configuration file"`
	LogLevel string `flag:"" optional:"" enum:",debug,info,warn,error" default:"" help:"Log level, overrides the configuration file"`
	Drivedb  string `flag:"" optional:"" short:"B" type:"existingfile" help:"Drive database file, replacing the built-in one"`
	Nocheck  string `flag:"" optional:"" short:"n" enum:",never,sleep,standby,idle" default:"" help:"Skip devices in this or a lower power mode"`
	Format   string `flag:"" short:"f" default:"auto" enum:"auto,table,json,yaml,dump" help:"Output format; table on a terminal, json otherwise when auto"`

	Info    infoCmd    `cmd:"" help:"Print device information"`
	Attrs   attrsCmd   `cmd:"" help:"Print SMART vendor specific attributes"`
	CantID  cantIDCmd  `cmd:"" name:"cantid" help:"Report whether a device cannot be identified"`
	Scan    scanCmd    `cmd:"" help:"Scan for devices that may support SMART"`
	Metrics metricsCmd `cmd:"" help:"Print drive information and attributes as OpenMetrics"`
}

// config merges the configuration file with the command line overrides
func config() (libsmartctl.Config, error) {
	cfg := libsmartctl.DefaultConfig()

	if cli.Config != "" {
		var err error
		if cfg, err = libsmartctl.LoadConfig(cli.Config); err != nil {
			return cfg, err
		}
	}

	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}

	if cli.Drivedb != "" {
		cfg.DriveDB.Path = cli.Drivedb
	}

	if cli.Nocheck != "" {
		cfg.NoCheck = cli.Nocheck
	}

	return cfg, cfg.Validate()
}

func outputFormat() string {
	if cli.Format != "auto" {
		return cli.Format
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "table"
	}

	return "json"
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	cfg, err := config()
	ctx.FatalIfErrorf(err)

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	log.Debugf("%s built with %s on %s (%s)", programName, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	checkCaps()

	c := libsmartctl.NewRuntime(cfg, libsmartctl.WithLogger(log.StandardLogger())).Client()
	if !c.Ready() {
		ctx.Fatalf("%v", libsmartctl.ClientInitializationFailure)
	}

	err = ctx.Run(&context{client: c, out: os.Stdout, format: outputFormat()})
	ctx.FatalIfErrorf(err)
}
