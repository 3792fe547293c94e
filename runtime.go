// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package libsmartctl

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/dswarbrick/libsmartctl/ata"
	"github.com/dswarbrick/libsmartctl/dev"
	"github.com/dswarbrick/libsmartctl/drivedb"
)

// ATACollaborators extracts data from open ATA devices. It is implemented by *ata.Collaborators.
type ATACollaborators interface {
	CannotIdentify(d ata.Device) bool
	FetchInfo(d ata.Device, o ata.Options) (ata.DeviceInfo, error)
	FetchVendorAttributes(d ata.Device, o ata.Options) (ata.VendorAttributes, error)
}

// Runtime holds the initialized device-interface subsystem and drive database. Once constructed
// it is read-only and safe for concurrent use.
type Runtime struct {
	cfg    Config
	iface  dev.Interface
	ata    ATACollaborators
	loadDB func(drivedb.Config, *log.Logger) (*drivedb.DriveDb, error)
	logger *log.Logger

	skipBelow ata.PowerState
	backends  map[dev.Family]familyBackend
	ready     bool
}

type Option func(*Runtime)

// WithInterface replaces the platform device-interface subsystem.
func WithInterface(iface dev.Interface) Option {
	return func(r *Runtime) {
		r.iface = iface
	}
}

// WithATA replaces the ATA collaborators, which are otherwise bound to the loaded drive database.
func WithATA(c ATACollaborators) Option {
	return func(r *Runtime) {
		r.ata = c
	}
}

// WithDriveDB replaces the drive database loader.
func WithDriveDB(load func(drivedb.Config, *log.Logger) (*drivedb.DriveDb, error)) Option {
	return func(r *Runtime) {
		r.loadDB = load
	}
}

// WithLogger makes the runtime log to l instead of a logger of its own. The level of l is set
// from Config.LogLevel when that is not empty.
func WithLogger(l *log.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// NewRuntime validates the configuration, then initializes the device-interface subsystem and
// after it the drive database. If any step fails the runtime is permanently not ready and every
// client operation on it fails with ClientInitializationFailure.
func NewRuntime(cfg Config, opts ...Option) *Runtime {
	r := &Runtime{
		cfg:    cfg,
		loadDB: drivedb.Init,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = log.New()
	}

	if r.iface == nil {
		r.iface = dev.NewSystem(r.logger)
	}

	r.ready = r.init()

	return r
}

func (r *Runtime) init() bool {
	if err := r.cfg.Validate(); err != nil {
		r.logger.Errorf("Invalid configuration: %v", err)
		return false
	}

	if r.cfg.LogLevel != "" {
		level, _ := log.ParseLevel(r.cfg.LogLevel)
		r.logger.SetLevel(level)
	}

	if err := ata.CheckLayout(); err != nil {
		r.logger.Errorf("ATA codec layout mismatch: %v", err)
		return false
	}

	r.skipBelow, _ = r.cfg.powerMode()

	r.logger.Debug("Initializing device interface")

	if !r.iface.Initialize() {
		r.logger.Error("Device interface initialization failed")
		return false
	}

	db, err := r.loadDB(r.cfg.DriveDB, r.logger)
	if err != nil {
		r.logger.Errorf("Cannot load drive database: %v", err)
		return false
	}

	if db != nil {
		r.logger.Debugf("Drive database contains %d entries", len(db.Drives))
	}

	if r.ata == nil {
		r.ata = ata.New(db)
	}

	r.backends = map[dev.Family]familyBackend{
		dev.FamilyATA: ataBackend{c: r.ata, skipBelow: r.skipBelow},
	}

	return true
}

// Ready reports whether initialization succeeded.
func (r *Runtime) Ready() bool {
	return r != nil && r.ready
}

// Lazy constructs a Runtime on first use. Concurrent first users block until the single
// construction has finished.
type Lazy struct {
	once sync.Once
	cfg  Config
	opts []Option
	rt   *Runtime
}

func NewLazy(cfg Config, opts ...Option) *Lazy {
	return &Lazy{cfg: cfg, opts: opts}
}

func (l *Lazy) Runtime() *Runtime {
	l.once.Do(func() {
		l.rt = NewRuntime(l.cfg, l.opts...)
	})

	return l.rt
}

var defaultRuntime = NewLazy(DefaultConfig())

// Default returns the process-wide lazy runtime, backed by the platform device interface and the
// built-in drive database.
func Default() *Lazy {
	return defaultRuntime
}
