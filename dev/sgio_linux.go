// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// SCSI generic IO functions.

package dev

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/dswarbrick/libsmartctl/ata"
)

const (
	sgDxferNone    = -1
	sgDxferFromDev = -3

	sgIO = 0x2285

	// Timeout in milliseconds
	defaultTimeout = 20000

	scsiATAPassthru16        = 0x85
	scsiStatusCheckCondition = 0x02

	ataSmart          = 0xb0
	ataCheckPowerMode = 0xe5
	ataIdentifyDevice = 0xec

	// ATA feature register values for SMART
	smartReadThresholds = 0xd1
)

// SCSI generic IO, from <scsi/sg.h>
type sgIoHdr struct {
	interfaceID    int32
	dxferDirection int32
	cmdLen         uint8
	mxSbLen        uint8
	iovecCount     uint16
	dxferLen       uint32
	dxferp         uintptr
	cmdp           uintptr // Command pointer
	sbp            uintptr // Sense buf pointer
	timeout        uint32
	flags          uint32
	packID         int32
	usrPtr         uintptr
	status         uint8
	maskedStatus   uint8
	msgStatus      uint8
	sbLenWr        uint8
	hostStatus     uint16
	driverStatus   uint16
	resid          int32
	duration       uint32
	info           uint32
}

type sgioError struct {
	scsiStatus   uint8
	hostStatus   uint16
	driverStatus uint16
}

func (e sgioError) Error() string {
	return fmt.Sprintf("SCSI status: %#02x, host status: %#02x, driver status: %#02x",
		e.scsiStatus, e.hostStatus, e.driverStatus)
}

// execGenericIO executes an SG_IO ioctl on the specified file descriptor.
func execGenericIO(fd int, hdr *sgIoHdr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), sgIO, uintptr(unsafe.Pointer(hdr)))
	if errno != 0 {
		return errno
	}

	return nil
}

// sataCommand opens the device node and issues a single SAT ATA PASS-THROUGH (16) command. resp
// receives the data-in transfer; a nil resp issues a non-data command and returns the sense data.
func sataCommand(name string, cdb [16]byte, resp []byte) ([]byte, error) {
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NONBLOCK, 0600)
	if err != nil {
		return nil, err
	}

	defer unix.Close(fd)

	sense := make([]byte, 32)

	hdr := sgIoHdr{interfaceID: 'S', dxferDirection: sgDxferNone, timeout: defaultTimeout}
	hdr.cmdLen = uint8(len(cdb))
	hdr.mxSbLen = uint8(len(sense))
	hdr.cmdp = uintptr(unsafe.Pointer(&cdb[0]))
	hdr.sbp = uintptr(unsafe.Pointer(&sense[0]))

	if len(resp) > 0 {
		hdr.dxferDirection = sgDxferFromDev
		hdr.dxferLen = uint32(len(resp))
		hdr.dxferp = uintptr(unsafe.Pointer(&resp[0]))
	}

	err = execGenericIO(fd, &hdr)
	runtime.KeepAlive(&cdb)
	runtime.KeepAlive(sense)
	runtime.KeepAlive(resp)

	if err != nil {
		return nil, err
	}

	// CK_COND terminates a non-data command with CHECK CONDITION
	if hdr.status != 0 && !(resp == nil && hdr.status == scsiStatusCheckCondition) {
		return nil, sgioError{hdr.status, hdr.hostStatus, hdr.driverStatus}
	}

	// DRIVER_SENSE (0x08) only reports that sense data was returned
	if ds := hdr.driverStatus & 0x0f; hdr.hostStatus != 0 || (ds != 0 && ds != 0x08) {
		return nil, sgioError{hdr.status, hdr.hostStatus, hdr.driverStatus}
	}

	return sense[:hdr.sbLenWr], nil
}

// readIdentifyPage issues ATA IDENTIFY DEVICE and returns the complete data page.
func readIdentifyPage(name string) (*ata.IdentifyPage, error) {
	// 0x08 : ATA protocol (4 << 1, PIO data-in)
	// 0x0e : BYT_BLOK = 1, T_LENGTH = 2, T_DIR = 1
	cdb := [16]byte{scsiATAPassthru16, 0x08, 0x0e}
	cdb[6] = 0x01
	cdb[14] = ataIdentifyDevice

	resp := make([]byte, 512)
	if _, err := sataCommand(name, cdb, resp); err != nil {
		return nil, fmt.Errorf("SG_IO ATA IDENTIFY: %v", err)
	}

	return ata.DecodeIdentifyPage(resp)
}

// readSMARTThresholds issues SMART READ THRESHOLDS (command code B0h, feature register D1h).
func readSMARTThresholds(name string) (*ata.ThresholdsPage, error) {
	cdb := [16]byte{scsiATAPassthru16, 0x08, 0x0e}
	cdb[4] = smartReadThresholds
	cdb[6] = 0x01
	cdb[10] = 0x4f // LBA mid
	cdb[12] = 0xc2 // LBA high
	cdb[14] = ataSmart

	resp := make([]byte, 512)
	if _, err := sataCommand(name, cdb, resp); err != nil {
		return nil, fmt.Errorf("SG_IO SMART READ THRESHOLDS: %v", err)
	}

	return ata.DecodeThresholds(resp)
}

// checkPowerMode issues ATA CHECK POWER MODE. Unlike the SMART commands, it does not spin up a
// drive in standby.
func checkPowerMode(name string) (ata.PowerState, error) {
	// 0x06 : ATA protocol (3 << 1, non-data)
	// 0x20 : CK_COND = 1, return ATA registers in sense data
	cdb := [16]byte{scsiATAPassthru16, 0x06, 0x20}
	cdb[14] = ataCheckPowerMode

	sense, err := sataCommand(name, cdb, nil)
	if err != nil {
		if errors.Is(err, unix.ENOTTY) || errors.Is(err, unix.EINVAL) {
			return ata.PowerStateUnknown, fmt.Errorf("%w: %v", ata.ErrPowerModeUnsupported, err)
		}
		return ata.PowerStateUnknown, fmt.Errorf("SG_IO ATA CHECK POWER MODE: %v", err)
	}

	state, err := powerStateFromSense(sense)
	if err != nil {
		// The translation layer does not return ATA registers
		return ata.PowerStateUnknown, fmt.Errorf("%w: %v", ata.ErrPowerModeUnsupported, err)
	}

	return state, nil
}
