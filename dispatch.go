// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package libsmartctl

func (r *Runtime) cantIdDev(name, hint string) CantIdDevResp {
	if !r.Ready() {
		return CantIdDevResp{Err: ClientInitializationFailure}
	}

	d, code := r.acquire(name, hint)
	switch code {
	case NoError:
	case DeviceOpenError:
		// A device that cannot be opened certainly cannot be identified
		return CantIdDevResp{Err: NoError, Content: true}
	default:
		return CantIdDevResp{Err: code}
	}

	defer r.release(d)

	b, ok := r.backends[d.Family()]
	if !ok {
		return CantIdDevResp{Err: UnsupportedDeviceType}
	}

	cant, code := b.cannotIdentify(d)
	if code != NoError {
		return CantIdDevResp{Err: code}
	}

	return CantIdDevResp{Err: NoError, Content: cant}
}

func (r *Runtime) getDevInfo(name, hint string) DevInfoResp {
	if !r.Ready() {
		return DevInfoResp{Err: ClientInitializationFailure}
	}

	d, code := r.acquire(name, hint)
	if code != NoError {
		return DevInfoResp{Err: code}
	}

	defer r.release(d)

	b, ok := r.backends[d.Family()]
	if !ok {
		return DevInfoResp{Err: UnsupportedDeviceType}
	}

	info, code := b.info(d)
	if code != NoError {
		return DevInfoResp{Err: code}
	}

	return DevInfoResp{Err: NoError, Content: info}
}

func (r *Runtime) getDevVendorAttrs(name, hint string) DevVendorAttrsResp {
	if !r.Ready() {
		return DevVendorAttrsResp{Err: ClientInitializationFailure}
	}

	d, code := r.acquire(name, hint)
	if code != NoError {
		return DevVendorAttrsResp{Err: code}
	}

	defer r.release(d)

	b, ok := r.backends[d.Family()]
	if !ok {
		return DevVendorAttrsResp{Err: UnsupportedDeviceType}
	}

	attrs, code := b.vendorAttributes(d)
	if code != NoError {
		return DevVendorAttrsResp{Err: code}
	}

	return DevVendorAttrsResp{Err: NoError, Content: attrs}
}
