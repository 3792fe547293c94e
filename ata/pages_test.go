// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package ata

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeThresholds(t *testing.T) {
	assert := assert.New(t)

	buf := make([]byte, 512)
	binary.LittleEndian.PutUint16(buf, 0x0010)
	buf[2], buf[3] = 5, 10
	buf[14], buf[15] = 177, 5

	page, err := DecodeThresholds(buf)
	require.NoError(t, err)
	assert.Equal(uint16(0x0010), page.Revision)
	assert.Equal(uint8(10), page.Threshold(5))
	assert.Equal(uint8(5), page.Threshold(177))
	assert.Equal(uint8(0), page.Threshold(9))

	_, err = DecodeThresholds(buf[:362])
	assert.Error(err)
}

func TestIdentifyPageCapacity(t *testing.T) {
	assert := assert.New(t)

	buf := make([]byte, 512)
	word := func(n int, v uint16) { binary.LittleEndian.PutUint16(buf[n*2:], v) }

	// No LBA support
	page, err := DecodeIdentifyPage(buf)
	require.NoError(t, err)
	sectors, capacity, logical, physical := page.Capacity()
	assert.Zero(sectors)
	assert.Zero(capacity)

	// LBA28 only
	word(49, 0x0200)
	word(60, 0x0000)
	word(61, 0x0100)
	page, err = DecodeIdentifyPage(buf)
	require.NoError(t, err)
	sectors, capacity, logical, physical = page.Capacity()
	assert.Equal(uint64(0x01000000), sectors)
	assert.Equal(uint64(0x01000000*512), capacity)
	assert.Equal(uint64(512), logical)
	assert.Equal(uint64(512), physical)

	// LBA48 with 4 KiB physical sectors
	word(60, 0xffff)
	word(61, 0x0fff)
	word(83, 0x4400)
	word(100, 0x6030)
	word(101, 0x3a38)
	word(106, 0x6003)
	page, err = DecodeIdentifyPage(buf)
	require.NoError(t, err)
	sectors, capacity, logical, physical = page.Capacity()
	assert.Equal(uint64(976773168), sectors)
	assert.Equal(uint64(500107862016), capacity)
	assert.Equal(uint64(512), logical)
	assert.Equal(uint64(4096), physical)

	// 4 KiB logical sectors
	word(106, 0x5000)
	word(117, 0x0800)
	page, err = DecodeIdentifyPage(buf)
	require.NoError(t, err)
	_, _, logical, physical = page.Capacity()
	assert.Equal(uint64(4096), logical)
	assert.Equal(uint64(4096), physical)

	_, err = DecodeIdentifyPage(buf[:100])
	assert.Error(err)
}
