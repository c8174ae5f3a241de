package source

import (
	"fmt"
	"time"

	"github.com/mutualEvg/kwollect-input/internal/kwollect"
	"github.com/mutualEvg/kwollect-input/internal/pipeline"
)

// originLabel names the device a measurement was originally taken on,
// e.g. the wattmeter port behind a node.
const originLabel = "_device_orig"

// MapMeasure turns one decoded measure into a pipeline point.
//
// The resource is the reporting device; the consumer is the origin device
// when the record carries a string _device_orig label, otherwise the local
// machine. The record's metric_id is matched against the registered metric
// table (upstream identifiers are never trusted as raw handles) and the
// value is coerced to that metric's kind, truncating when the target is
// unsigned. Every point carries a metric_id provenance attribute plus the
// record's labels.
func MapMeasure(m kwollect.Measure, lookup func(string) (pipeline.Metric, bool), ts time.Time) (pipeline.MeasurementPoint, error) {
	metric, ok := lookup(m.MetricID)
	if !ok {
		return pipeline.MeasurementPoint{}, fmt.Errorf("no registered metric matches %q", m.MetricID)
	}

	var value pipeline.Value
	if metric.Kind == pipeline.KindU64 {
		value = pipeline.U64Value(m.Value.AsU64())
	} else {
		value = pipeline.F64Value(m.Value.AsF64())
	}

	consumer := pipeline.LocalMachine()
	if origin, ok := m.Labels[originLabel]; ok && origin.Kind == pipeline.AttrStr {
		consumer = pipeline.CustomResource("device_origin", origin.Str)
	}

	attrs := make(map[string]pipeline.AttributeValue, len(m.Labels)+1)
	for key, label := range m.Labels {
		attrs[key] = label
	}
	attrs["metric_id"] = pipeline.StrAttr(m.MetricID)

	return pipeline.MeasurementPoint{
		Metric:     metric,
		Timestamp:  ts,
		Resource:   pipeline.CustomResource("device_id", m.DeviceID),
		Consumer:   consumer,
		Value:      value,
		Attributes: attrs,
	}, nil
}
