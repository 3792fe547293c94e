// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package libsmartctl

import (
	"github.com/dswarbrick/libsmartctl/dev"
)

// acquire resolves and opens a device. On NoError the caller owns the returned handle and must
// release it; on any other code no handle is returned.
func (r *Runtime) acquire(name, hint string) (dev.Device, ErrorCode) {
	d := r.iface.GetDevice(name, hint)
	if d == nil {
		r.logger.Debugf("%s: cannot resolve device (type %q)", name, hint)
		return nil, GetDeviceError
	}

	// The opened handle replaces the unopened one
	d = d.AutodetectOpen()

	if !d.IsOpen() {
		r.logger.Debugf("%s: open failed: %v", name, d.Err())
		r.release(d)
		return nil, DeviceOpenError
	}

	return d, NoError
}

func (r *Runtime) release(d dev.Device) {
	if err := d.Close(); err != nil {
		r.logger.Debugf("%s: close failed: %v", d.Name(), err)
	}
}
