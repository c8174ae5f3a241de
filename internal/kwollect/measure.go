// Package kwollect decodes the measurement records returned by the Kwollect
// metering API into typed measures and encodes them back for round-tripping.
// The API payload is schema-loose: label values mix booleans, numbers,
// strings and arrays, timestamps arrive as epoch seconds or RFC-3339
// strings, and numeric values may be floats or integers.
package kwollect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mutualEvg/kwollect-input/internal/pipeline"
)

// Measure is one normalized telemetry sample collected by Kwollect.
type Measure struct {
	DeviceID  string
	MetricID  string
	Timestamp time.Time
	Value     pipeline.Value
	Labels    map[string]pipeline.AttributeValue
}

// DecodeMeasure converts a decoded JSON object into a Measure. Every field
// is required; a record missing any field, or carrying a value of
// unrecognized shape, is rejected as a whole.
func DecodeMeasure(v any) (Measure, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Measure{}, ErrNotObject
	}

	deviceID, err := decodeStringField(obj, "device_id")
	if err != nil {
		return Measure{}, err
	}

	metricID, err := decodeStringField(obj, "metric_id")
	if err != nil {
		return Measure{}, err
	}

	timestamp, err := decodeTimestamp(obj)
	if err != nil {
		return Measure{}, err
	}

	value, err := decodeValue(obj)
	if err != nil {
		return Measure{}, err
	}

	labels, err := decodeLabels(obj)
	if err != nil {
		return Measure{}, err
	}

	return Measure{
		DeviceID:  deviceID,
		MetricID:  metricID,
		Timestamp: timestamp,
		Value:     value,
		Labels:    labels,
	}, nil
}

func decodeStringField(obj map[string]any, field string) (string, error) {
	raw, ok := obj[field]
	if !ok {
		return "", &MissingFieldError{Field: field}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &BadValueError{Field: field, Err: ErrUnsupportedShape}
	}
	return s, nil
}

// decodeTimestamp probes the two accepted encodings in order: fractional
// epoch seconds, then an RFC-3339 string. The result is normalized to UTC.
func decodeTimestamp(obj map[string]any) (time.Time, error) {
	raw, ok := obj["timestamp"]
	if !ok {
		return time.Time{}, &MissingFieldError{Field: "timestamp"}
	}

	switch val := raw.(type) {
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return time.Time{}, &BadValueError{Field: "timestamp", Err: err}
		}
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC(), nil
	case string:
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}, &BadValueError{Field: "timestamp", Err: err}
		}
		return t.UTC(), nil
	default:
		return time.Time{}, &BadValueError{Field: "timestamp", Err: ErrTimestampShape}
	}
}

func decodeValue(obj map[string]any) (pipeline.Value, error) {
	raw, ok := obj["value"]
	if !ok {
		return pipeline.Value{}, &MissingFieldError{Field: "value"}
	}
	num, ok := raw.(json.Number)
	if !ok {
		return pipeline.Value{}, &BadValueError{Field: "value", Err: ErrUnsupportedShape}
	}
	v, err := decodeNumber(num)
	if err != nil {
		return pipeline.Value{}, &BadValueError{Field: "value", Err: err}
	}
	return v, nil
}

// decodeLabels requires a JSON object and decodes every entry; one bad
// label rejects the whole record, there are no partial-label records.
func decodeLabels(obj map[string]any) (map[string]pipeline.AttributeValue, error) {
	raw, ok := obj["labels"]
	if !ok {
		return nil, &MissingFieldError{Field: "labels"}
	}
	labelObj, ok := raw.(map[string]any)
	if !ok {
		return nil, &BadValueError{Field: "labels", Err: ErrUnsupportedShape}
	}

	labels := make(map[string]pipeline.AttributeValue, len(labelObj))
	for key, val := range labelObj {
		attr, err := decodeAttribute(val)
		if err != nil {
			return nil, &BadValueError{Field: "labels", Err: fmt.Errorf("label %q: %w", key, err)}
		}
		labels[key] = attr
	}
	return labels, nil
}

// MarshalJSON writes the measure in the fixed wire field order:
// timestamp, metric_id, device_id, value, labels. The timestamp is encoded
// as fractional epoch seconds; label keys come out sorted.
func (m Measure) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	epoch := float64(m.Timestamp.Unix()) + float64(m.Timestamp.Nanosecond())/1e9
	if err := writeField(&buf, "timestamp", epoch, false); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "metric_id", m.MetricID, true); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "device_id", m.DeviceID, true); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "value", m.Value, true); err != nil {
		return nil, err
	}
	labels := m.Labels
	if labels == nil {
		labels = map[string]pipeline.AttributeValue{}
	}
	if err := writeField(&buf, "labels", labels, true); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, name string, value any, comma bool) error {
	if comma {
		buf.WriteByte(',')
	}
	key, err := json.Marshal(name)
	if err != nil {
		return err
	}
	buf.Write(key)
	buf.WriteByte(':')
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
