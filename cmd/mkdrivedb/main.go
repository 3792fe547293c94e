// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Smartmontools drivedb.h database to YAML format converter.
package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/dswarbrick/libsmartctl/drivedb"
)

const (
	programName = "mkdrivedb"
	programDesc = "Convert the smartmontools drivedb.h database to YAML"

	defaultDrivedbURL = "https://www.smartmontools.org/export/HEAD/trunk/smartmontools/drivedb.h"
)

var cli struct {
	URL      string `flag:"" default:"${url}" help:"drivedb.h URL"`
	In       string `flag:"" optional:"" short:"i" type:"existingfile" help:"Path to local drivedb.h, instead of fetching it"`
	Out      string `flag:"" default:"drivedb.yaml" short:"o" help:"Output .yaml filename"`
	LogLevel string `flag:"" default:"info" enum:"debug,info,warn,error" help:"Log level"`
}

func open() (io.ReadCloser, error) {
	if cli.In != "" {
		f, err := os.Open(cli.In)
		if err != nil {
			return nil, fmt.Errorf("cannot read drivedb: %v", err)
		}

		log.Infof("Reading from local file %s", f.Name())
		return f, nil
	}

	resp, err := http.Get(cli.URL)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch drivedb: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("cannot fetch drivedb: %s", resp.Status)
	}

	log.Infof("Reading from fetched drivedb %s", cli.URL)
	return resp.Body, nil
}

// convert reads drivedb.h and writes the YAML database, checking that the result loads.
func convert() error {
	src, err := open()
	if err != nil {
		return err
	}

	defer src.Close()

	header, drives := parseDrivedb(src)
	log.Infof("Parsed drivedb.h - %d entries", len(drives))

	out, err := render(header, drives)
	if err != nil {
		return err
	}

	if err := os.WriteFile(cli.Out, out, 0644); err != nil {
		return fmt.Errorf("cannot create output: %v", err)
	}

	log.Infof("Successfully wrote output to %s", cli.Out)

	return nil
}

// render encodes the database as YAML, preceded by the header comment.
func render(header string, drives []drivedb.DriveModel) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(header)

	enc := yaml.NewEncoder(&buf)

	if err := enc.Encode(drivedb.DriveDb{Drives: drives}); err != nil {
		return nil, fmt.Errorf("error encoding yaml: %v", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("error encoding yaml: %v", err)
	}

	// Entries with regular expressions Go cannot compile are logged and skipped at load time
	if _, err := drivedb.ParseDriveDb(bytes.NewReader(buf.Bytes())); err != nil {
		return nil, fmt.Errorf("generated database does not load: %v", err)
	}

	return buf.Bytes(), nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.Vars{"url": defaultDrivedbURL},
	)

	level, _ := log.ParseLevel(cli.LogLevel)
	log.SetLevel(level)

	ctx.FatalIfErrorf(convert())
}
