// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/dswarbrick/libsmartctl"
)

type deviceState struct {
	Device string
	Info   libsmartctl.DevInfoResp
	Attrs  libsmartctl.DevVendorAttrsResp
}

type metricCollector struct {
	m []prometheus.Metric
}

func (mc *metricCollector) Collect(c chan<- prometheus.Metric) {
	for _, m := range mc.m {
		c <- m
	}
}

func (mc *metricCollector) Describe(c chan<- *prometheus.Desc) {
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func writeMetrics(w io.Writer, state []deviceState) error {
	var (
		mStatus = prometheus.NewDesc(
			"smartctl_device_status",
			"Result of querying the device, 0 for success, otherwise the client error code",
			[]string{"device", "error"}, nil,
		)
		mDriveInfo = prometheus.NewDesc(
			"smartctl_device_info",
			"Info metric regarding the detected drives",
			[]string{"device", "model_family", "model", "serial", "firmware", "ata_version", "sata_version"}, nil,
		)
		mCapacity = prometheus.NewDesc(
			"smartctl_device_capacity_bytes",
			"User capacity of the drive",
			[]string{"device"}, nil,
		)
		mSMARTEnabled = prometheus.NewDesc(
			"smartctl_device_smart_enabled",
			"Boolean describing whether SMART is supported and enabled",
			[]string{"device"}, nil,
		)
		mInDatabase = prometheus.NewDesc(
			"smartctl_device_in_database",
			"Boolean describing whether the drive model is known to the drive database",
			[]string{"device"}, nil,
		)
		attrLabels = []string{"device", "attribute_id", "attribute_name", "attribute_flags"}
		mAttrValue = prometheus.NewDesc(
			"smartctl_device_attribute_value",
			"Normalized value of a SMART vendor attribute",
			attrLabels, nil,
		)
		mAttrWorst = prometheus.NewDesc(
			"smartctl_device_attribute_worst",
			"Worst normalized value of a SMART vendor attribute",
			attrLabels, nil,
		)
		mAttrThresh = prometheus.NewDesc(
			"smartctl_device_attribute_threshold",
			"Failure threshold of a SMART vendor attribute",
			attrLabels, nil,
		)
		mAttrRaw = prometheus.NewDesc(
			"smartctl_device_attribute_raw_value",
			"Raw value of a SMART vendor attribute, decoded per the drive database",
			attrLabels, nil,
		)
		mAttrFailing = prometheus.NewDesc(
			"smartctl_device_attribute_failing",
			"Boolean describing whether a SMART vendor attribute is at or below its threshold now",
			attrLabels, nil,
		)
	)

	mc := &metricCollector{}
	for _, s := range state {
		mc.m = append(mc.m,
			prometheus.MustNewConstMetric(mStatus, prometheus.GaugeValue, float64(s.Info.Err), s.Device, s.Info.Err.String()))

		// This is how far we can make it without drive information
		if s.Info.Err != libsmartctl.NoError {
			continue
		}

		i := s.Info.Content
		mc.m = append(mc.m,
			prometheus.MustNewConstMetric(mDriveInfo, prometheus.GaugeValue, 1,
				s.Device, i.ModelFamily, i.DeviceModel, i.SerialNumber, i.FirmwareVersion, i.ATAVersion, i.SATAVersion),
			prometheus.MustNewConstMetric(mCapacity, prometheus.GaugeValue, float64(i.Capacity), s.Device),
			prometheus.MustNewConstMetric(mSMARTEnabled, prometheus.GaugeValue, boolToFloat(i.SMARTSupported && i.SMARTEnabled), s.Device),
			prometheus.MustNewConstMetric(mInDatabase, prometheus.GaugeValue, boolToFloat(i.InDatabase), s.Device),
		)

		if s.Attrs.Err != libsmartctl.NoError {
			continue
		}

		for _, a := range s.Attrs.Content {
			labels := []string{s.Device, strconv.Itoa(int(a.ID)), a.Name, fmt.Sprintf("0x%04x", a.Flag)}

			mc.m = append(mc.m,
				prometheus.MustNewConstMetric(mAttrValue, prometheus.GaugeValue, float64(a.Value), labels...),
				prometheus.MustNewConstMetric(mAttrWorst, prometheus.GaugeValue, float64(a.Worst), labels...),
				prometheus.MustNewConstMetric(mAttrThresh, prometheus.GaugeValue, float64(a.Threshold), labels...),
				prometheus.MustNewConstMetric(mAttrRaw, prometheus.GaugeValue, float64(a.Raw), labels...),
				prometheus.MustNewConstMetric(mAttrFailing, prometheus.GaugeValue, boolToFloat(a.WhenFailed == "FAILING_NOW"), labels...),
			)
		}
	}

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(mc); err != nil {
		return err
	}

	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %v", err)
	}

	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to serialize metrics: %v", err)
		}
	}

	return nil
}
