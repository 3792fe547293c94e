// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package libsmartctl is a client for querying storage devices: whether a device can be
// identified, its drive information and its SMART vendor attributes. Device type detection,
// device handle lifecycle and one-time initialization of the device subsystem and drive database
// are handled internally; every operation returns a Response carrying an ErrorCode.
package libsmartctl

// Client queries devices through an initialized Runtime. It is a small value and may be copied
// freely; all copies share the runtime.
type Client struct {
	rt *Runtime
}

// NewClient returns a client bound to the process-wide runtime, initializing it on first use.
func NewClient() Client {
	return Default().Client()
}

func (l *Lazy) Client() Client {
	return Client{rt: l.Runtime()}
}

func (r *Runtime) Client() Client {
	return Client{rt: r}
}

// Ready reports whether the client's runtime initialized successfully.
func (c Client) Ready() bool {
	return c.rt.Ready()
}

// CantIdDev reports whether the named device cannot be identified. A device that fails to open
// cannot be identified, which is a successful answer rather than an error. hint selects the device
// type; empty means autodetect.
func (c Client) CantIdDev(name, hint string) CantIdDevResp {
	return c.rt.cantIdDev(name, hint)
}

// GetDevInfo returns the drive information of the named device.
func (c Client) GetDevInfo(name, hint string) DevInfoResp {
	return c.rt.getDevInfo(name, hint)
}

// GetDevVendorAttrs returns the SMART vendor attributes of the named device.
func (c Client) GetDevVendorAttrs(name, hint string) DevVendorAttrsResp {
	return c.rt.getDevVendorAttrs(name, hint)
}

// ScanDevices lists the devices the device subsystem can find.
func (c Client) ScanDevices() []string {
	if !c.Ready() {
		return nil
	}

	return c.rt.iface.Scan()
}
