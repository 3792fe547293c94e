// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// SCSI sense data decoding for SAT ATA PASS-THROUGH commands.

package dev

import (
	"errors"
	"fmt"

	"github.com/dswarbrick/libsmartctl/ata"
)

const (
	senseDescriptorFormat = 0x72
	ataStatusReturnDesc   = 0x09
)

var errNoStatusReturn = errors.New("no ATA status return descriptor in sense data")

// powerStateFromSense decodes the ATA status return descriptor of descriptor format sense data,
// as returned by a pass-through command issued with CK_COND set. The device power mode is in the
// sector count field.
func powerStateFromSense(sense []byte) (ata.PowerState, error) {
	// Current (72h) or deferred (73h) descriptor format
	if len(sense) < 8 || sense[0]&0x7e != senseDescriptorFormat {
		return ata.PowerStateUnknown, fmt.Errorf("unsupported sense data format")
	}

	desc := sense[8:]
	if n := int(sense[7]); len(desc) > n {
		desc = desc[:n]
	}

	for len(desc) >= 2 {
		n := int(desc[1]) + 2
		if n > len(desc) {
			break
		}

		if desc[0] == ataStatusReturnDesc && n >= 14 {
			return powerState(desc[5]), nil
		}

		desc = desc[n:]
	}

	return ata.PowerStateUnknown, errNoStatusReturn
}

// powerState maps the CHECK POWER MODE count output (ACS-3 7.3.2) to a PowerState.
func powerState(count byte) ata.PowerState {
	switch count {
	case 0x00, 0x01, 0x40:
		return ata.PowerStateStandby
	case 0x80, 0x81, 0x82, 0x83:
		return ata.PowerStateIdle
	case 0x41, 0xff:
		return ata.PowerStateActive
	}

	return ata.PowerStateUnknown
}
