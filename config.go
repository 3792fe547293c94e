// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package libsmartctl

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/dswarbrick/libsmartctl/ata"
	"github.com/dswarbrick/libsmartctl/drivedb"
)

// Config is the runtime configuration.
type Config struct {
	LogLevel string `yaml:"log_level,omitempty"`

	// NoCheck skips devices in a low power mode, like smartctl -n: "never", "sleep", "standby" or
	// "idle".
	NoCheck string `yaml:"nocheck,omitempty"`

	DriveDB drivedb.Config `yaml:"drivedb,omitempty"`
}

// DefaultConfig uses the built-in drive database and never skips devices.
func DefaultConfig() Config {
	return Config{LogLevel: "info", NoCheck: "never"}
}

// LoadConfig reads a YAML configuration file. Settings absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}

	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse %s: %v", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}

	if _, err := c.powerMode(); err != nil {
		return err
	}

	for _, f := range c.DriveDB.Additional {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("empty additional drive database path")
		}
	}

	return nil
}

func (c Config) powerMode() (ata.PowerState, error) {
	switch strings.ToLower(c.NoCheck) {
	case "", "never":
		return ata.PowerStateUnknown, nil
	case "sleep":
		return ata.PowerStateSleep, nil
	case "standby":
		return ata.PowerStateStandby, nil
	case "idle":
		return ata.PowerStateIdle, nil
	}

	return ata.PowerStateUnknown, fmt.Errorf("invalid nocheck power mode %q", c.NoCheck)
}
