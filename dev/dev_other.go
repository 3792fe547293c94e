// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

//go:build !linux

package dev

import (
	log "github.com/sirupsen/logrus"
)

// NewSystem returns a subsystem that never initializes. Device access is only implemented for
// Linux.
func NewSystem(logger *log.Logger) *System {
	return &System{log: logger}
}
