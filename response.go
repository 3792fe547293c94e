// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package libsmartctl

import (
	"github.com/dswarbrick/libsmartctl/ata"
)

// Response pairs an operation result with its error code. Content is the zero value unless Err is
// NoError.
type Response[T any] struct {
	Err     ErrorCode `json:"err" yaml:"err"`
	Content T         `json:"content" yaml:"content"`
}

type (
	DeviceInfo       = ata.DeviceInfo
	VendorAttributes = ata.VendorAttributes

	CantIdDevResp      = Response[bool]
	DevInfoResp        = Response[DeviceInfo]
	DevVendorAttrsResp = Response[VendorAttributes]
)

// OK reports whether the operation succeeded.
func (r Response[T]) OK() bool {
	return r.Err == NoError
}
