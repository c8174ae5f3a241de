// Package pipeline defines the boundary types shared with the measurement
// pipeline host: typed attribute and measurement values, measurement points,
// the per-cycle accumulator, metric registration and the cycle-event bus.
package pipeline

import (
	"encoding/json"
	"strconv"
	"time"
)

// AttributeKind discriminates the closed set of attribute variants.
type AttributeKind int

const (
	AttrBool AttributeKind = iota
	AttrF64
	AttrU64
	AttrStr
)

// AttributeValue is one label value attached to a measurement.
// Exactly one of the payload fields is meaningful, selected by Kind.
// The zero value is Bool(false).
type AttributeValue struct {
	Kind AttributeKind
	Bool bool
	F64  float64
	U64  uint64
	Str  string
}

// BoolAttr returns a Bool attribute.
func BoolAttr(v bool) AttributeValue { return AttributeValue{Kind: AttrBool, Bool: v} }

// F64Attr returns an F64 attribute.
func F64Attr(v float64) AttributeValue { return AttributeValue{Kind: AttrF64, F64: v} }

// U64Attr returns a U64 attribute.
func U64Attr(v uint64) AttributeValue { return AttributeValue{Kind: AttrU64, U64: v} }

// StrAttr returns a Str attribute.
func StrAttr(v string) AttributeValue { return AttributeValue{Kind: AttrStr, Str: v} }

// String renders the attribute payload as text.
func (a AttributeValue) String() string {
	switch a.Kind {
	case AttrBool:
		return strconv.FormatBool(a.Bool)
	case AttrF64:
		return strconv.FormatFloat(a.F64, 'f', -1, 64)
	case AttrU64:
		return strconv.FormatUint(a.U64, 10)
	default:
		return a.Str
	}
}

// MarshalJSON writes the active variant as a plain JSON scalar.
func (a AttributeValue) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AttrBool:
		return json.Marshal(a.Bool)
	case AttrF64:
		return json.Marshal(a.F64)
	case AttrU64:
		return json.Marshal(a.U64)
	default:
		return json.Marshal(a.Str)
	}
}

// ValueKind discriminates the two numeric measurement variants.
type ValueKind int

const (
	KindF64 ValueKind = iota
	KindU64
)

// Value is a measurement value: either a float64 or a uint64.
type Value struct {
	Kind ValueKind
	F64  float64
	U64  uint64
}

// F64Value returns a float measurement value.
func F64Value(v float64) Value { return Value{Kind: KindF64, F64: v} }

// U64Value returns an unsigned integer measurement value.
func U64Value(v uint64) Value { return Value{Kind: KindU64, U64: v} }

// AsF64 widens the value to float64.
func (v Value) AsF64() float64 {
	if v.Kind == KindU64 {
		return float64(v.U64)
	}
	return v.F64
}

// AsU64 narrows the value to uint64, truncating a float payload.
func (v Value) AsU64() uint64 {
	if v.Kind == KindF64 {
		return uint64(v.F64)
	}
	return v.U64
}

// MarshalJSON writes the active variant as a plain JSON number.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindU64 {
		return json.Marshal(v.U64)
	}
	return json.Marshal(v.F64)
}

// MeasurementPoint is one measurement handed to the pipeline: a metric
// handle, a timestamp, the two-part subject identity and the typed value,
// plus free-form provenance attributes.
type MeasurementPoint struct {
	Metric     Metric
	Timestamp  time.Time
	Resource   Resource
	Consumer   Resource
	Value      Value
	Attributes map[string]AttributeValue
}

// Accumulator collects the points emitted during one poll call.
// The host hands a fresh or drained accumulator to each poll.
type Accumulator struct {
	points []MeasurementPoint
}

// Push appends one point to the accumulator.
func (a *Accumulator) Push(p MeasurementPoint) {
	a.points = append(a.points, p)
}

// Len returns the number of accumulated points.
func (a *Accumulator) Len() int { return len(a.points) }

// Drain returns the accumulated points and resets the accumulator.
func (a *Accumulator) Drain() []MeasurementPoint {
	pts := a.points
	a.points = nil
	return pts
}
