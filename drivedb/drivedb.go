// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package drivedb implements the drive capability database: known drive models, their SMART
// attribute naming presets and firmware warnings, in the YAML format produced by mkdrivedb.
package drivedb

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// DefaultFamily is the family name of the entry that carries the default attribute presets.
const DefaultFamily = "DEFAULT"

//go:embed drivedb.yaml
var builtin []byte

// SMART attribute conversion rule
type AttrConv struct {
	Conv string `yaml:"conv,omitempty"`
	Name string `yaml:"name,omitempty"`
}

type DriveModel struct {
	Family        string              `yaml:"family,omitempty"`
	ModelRegex    string              `yaml:"model_regex,omitempty"`
	FirmwareRegex string              `yaml:"firmware_regex,omitempty"`
	WarningMsg    string              `yaml:"warning,omitempty"`
	Presets       map[string]AttrConv `yaml:"presets,omitempty"`

	CompiledRegexp   *regexp.Regexp `yaml:"-"`
	CompiledFwRegexp *regexp.Regexp `yaml:"-"`
}

type DriveDb struct {
	Drives []DriveModel `yaml:"drives"`
}

// Config selects the database files loaded by Init.
type Config struct {
	// Path replaces the built-in database when set.
	Path string `yaml:"path,omitempty"`
	// Additional files are searched before the main database, so their entries take precedence.
	Additional []string `yaml:"additional,omitempty"`
}

// Preset returns the conversion rule for a SMART attribute ID, if the model defines one.
func (m DriveModel) Preset(id uint8) (AttrConv, bool) {
	p, ok := m.Presets[strconv.Itoa(int(id))]
	return p, ok
}

// LookupDrive returns the most appropriate DriveModel for a given ATA IDENTIFY model and firmware
// string. The boolean result reports whether a specific (non-default) entry matched; the returned
// model always carries the default presets merged with the matching entry's presets.
func (db *DriveDb) LookupDrive(model, firmware string) (DriveModel, bool) {
	result := DriveModel{Presets: make(map[string]AttrConv)}

	if def := db.defaultModel(); def != nil {
		for id, p := range def.Presets {
			result.Presets[id] = p
		}
	}

	for _, d := range db.Drives {
		if skipEntry(d) || d.CompiledRegexp == nil {
			continue
		}

		if !d.CompiledRegexp.MatchString(model) {
			continue
		}

		if d.CompiledFwRegexp != nil && !d.CompiledFwRegexp.MatchString(firmware) {
			continue
		}

		result.Family = d.Family
		result.ModelRegex = d.ModelRegex
		result.FirmwareRegex = d.FirmwareRegex
		result.WarningMsg = d.WarningMsg
		result.CompiledRegexp = d.CompiledRegexp
		result.CompiledFwRegexp = d.CompiledFwRegexp

		for id, p := range d.Presets {
			// Some drives override the conv but don't specify a name, so copy it from default
			if p.Name == "" {
				p.Name = result.Presets[id].Name
			}
			result.Presets[id] = p
		}

		return result, true
	}

	return result, false
}

func (db *DriveDb) defaultModel() *DriveModel {
	for i := range db.Drives {
		if db.Drives[i].Family == DefaultFamily {
			return &db.Drives[i]
		}
	}

	return nil
}

// skipEntry reports whether an entry is never matched against drive models: the version
// placeholder, the defaults entry and USB bridge entries.
func skipEntry(d DriveModel) bool {
	return strings.HasPrefix(d.Family, "$Id") ||
		d.Family == DefaultFamily ||
		strings.HasPrefix(d.Family, "USB:")
}

// ParseDriveDb decodes a YAML-formatted drive database and compiles its regular expressions.
// Entries whose expressions do not compile are kept but never match.
func ParseDriveDb(r io.Reader) (*DriveDb, error) {
	return parse(r, log.StandardLogger())
}

func parse(r io.Reader, logger *log.Logger) (*DriveDb, error) {
	var db DriveDb

	if err := yaml.NewDecoder(r).Decode(&db); err != nil && err != io.EOF {
		return nil, fmt.Errorf("cannot decode drive database: %v", err)
	}

	for i, d := range db.Drives {
		if d.ModelRegex == "" || skipEntry(d) {
			continue
		}

		re, err := regexp.Compile("^(?:" + d.ModelRegex + ")$")
		if err != nil {
			logger.Warnf("drivedb: ignoring entry %q: %v", d.Family, err)
			continue
		}
		db.Drives[i].CompiledRegexp = re

		if d.FirmwareRegex != "" {
			if db.Drives[i].CompiledFwRegexp, err = regexp.Compile("^(?:" + d.FirmwareRegex + ")$"); err != nil {
				logger.Warnf("drivedb: ignoring firmware pattern of %q: %v", d.Family, err)
				db.Drives[i].CompiledRegexp = nil
			}
		}
	}

	return &db, nil
}

// OpenDriveDb opens a YAML-formatted drive database, unmarshalls it, and returns a DriveDb.
func OpenDriveDb(dbfile string) (*DriveDb, error) {
	return open(dbfile, log.StandardLogger())
}

func open(dbfile string, logger *log.Logger) (*DriveDb, error) {
	f, err := os.Open(dbfile)
	if err != nil {
		return nil, fmt.Errorf("cannot open drive database: %v", err)
	}

	defer f.Close()

	return parse(f, logger)
}

// Builtin returns the drive database compiled into the binary.
func Builtin() (*DriveDb, error) {
	return ParseDriveDb(bytes.NewReader(builtin))
}

// Init loads the main database (built-in unless cfg.Path is set) and prepends the entries of any
// additional databases. Problems with individual entries are logged to logger.
func Init(cfg Config, logger *log.Logger) (*DriveDb, error) {
	var (
		db  *DriveDb
		err error
	)

	if cfg.Path != "" {
		db, err = open(cfg.Path, logger)
	} else {
		db, err = parse(bytes.NewReader(builtin), logger)
	}

	if err != nil {
		return nil, err
	}

	for i := len(cfg.Additional) - 1; i >= 0; i-- {
		extra, err := open(cfg.Additional[i], logger)
		if err != nil {
			return nil, err
		}

		db.Drives = append(extra.Drives, db.Drives...)
	}

	logger.Debugf("drivedb: loaded %d entries", len(db.Drives))

	return db, nil
}
