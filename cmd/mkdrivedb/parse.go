// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package main

import (
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/dswarbrick/libsmartctl/drivedb"
)

// parseDrivedb tokenizes the C array initializer of smartmontools' drivedb.h. Each entry is a
// brace-enclosed list of five string literals: family, model regex, firmware regex, warning and
// presets. It returns the license header, converted to YAML comments, and the entries.
func parseDrivedb(src io.Reader) (string, []drivedb.DriveModel) {
	var (
		s    scanner.Scanner
		prev rune
		idx  int
	)

	header := "# This file was generated from:\n"
	drives := make([]drivedb.DriveModel, 0)
	items := make([]string, 5)

	s.Init(src)
	s.Mode ^= scanner.SkipComments
	s.Error = func(*scanner.Scanner, string) {}

	// Extremely simple state machine like processing of tokens.
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		switch {
		case prev == 0 && tok == scanner.Comment:
			// First comment from drivedb.h should be copyright / license header. Convert C-style
			// comment to a YAML comment.
			for _, line := range strings.Split(s.TokenText(), "\n") {
				header += "# " + strings.TrimLeft(line, "/* ") + "\n"
			}
		case (prev == '{' || prev == ',') && tok == scanner.String:
			if idx < len(items) {
				items[idx] = strings.Trim(s.TokenText(), `"`)
			}
		case prev == scanner.String && tok == ',':
			idx++
		case (prev == scanner.String || prev == scanner.Comment) && tok == scanner.String:
			// Adjacent string literals are concatenated
			if idx < len(items) {
				items[idx] += strings.Trim(s.TokenText(), `"`)
			}
		case tok == '}':
			if items[0] != "" || items[1] != "" {
				drives = append(drives, driveModel(items))
			}
			items = make([]string, 5)
			idx = 0
		}

		prev = tok
	}

	return header, drives
}

func driveModel(items []string) drivedb.DriveModel {
	dm := drivedb.DriveModel{Presets: make(map[string]drivedb.AttrConv)}

	if tmp, err := strconv.Unquote(`"` + items[0] + `"`); err == nil {
		dm.Family = tmp
	}

	if tmp, err := strconv.Unquote(`"` + items[1] + `"`); err == nil {
		dm.ModelRegex = tmp
	}

	if tmp, err := strconv.Unquote(`"` + items[2] + `"`); err == nil {
		dm.FirmwareRegex = tmp
	}

	if tmp, err := strconv.Unquote(`"` + items[3] + `"`); err == nil {
		dm.WarningMsg = tmp
	}

	// Presets are smartctl arguments, e.g. "-v 9,minutes -v 194,tempminmax,Temperature_Celsius"
	attrTokens := strings.Fields(items[4])

	for t := 0; t+1 < len(attrTokens); t += 2 {
		if attrTokens[t] != "-v" {
			continue
		}

		attrs := strings.Split(attrTokens[t+1], ",")
		if len(attrs) < 2 {
			continue
		}

		if len(attrs) >= 3 {
			dm.Presets[attrs[0]] = drivedb.AttrConv{Conv: attrs[1], Name: attrs[2]}
		} else {
			dm.Presets[attrs[0]] = drivedb.AttrConv{Conv: attrs[1]}
		}
	}

	return dm
}
