package kwollect

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mutualEvg/kwollect-input/internal/pipeline"
)

// decodeNumber classifies a JSON number literal into a measurement value.
// A literal with a fractional part or exponent is a float; otherwise it
// must be a non-negative integer that fits uint64. Integers beyond uint64
// range fall back to float, negative integers are rejected.
func decodeNumber(n json.Number) (pipeline.Value, error) {
	s := n.String()

	if strings.ContainsAny(s, ".eE") {
		f, err := n.Float64()
		if err != nil {
			return pipeline.Value{}, ErrUnsupportedShape
		}
		return pipeline.F64Value(f), nil
	}

	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return pipeline.U64Value(u), nil
	}

	if strings.HasPrefix(s, "-") {
		return pipeline.Value{}, ErrNegativeInteger
	}

	// Non-negative integer too large for uint64.
	f, err := n.Float64()
	if err != nil {
		return pipeline.Value{}, ErrUnsupportedShape
	}
	return pipeline.F64Value(f), nil
}

// decodeAttribute converts one untyped JSON value into an attribute value.
// Arrays are folded to a single string by joining the textual form of each
// element with ", "; objects and nulls have no representation.
func decodeAttribute(v any) (pipeline.AttributeValue, error) {
	switch val := v.(type) {
	case bool:
		return pipeline.BoolAttr(val), nil
	case json.Number:
		num, err := decodeNumber(val)
		if err != nil {
			return pipeline.AttributeValue{}, err
		}
		if num.Kind == pipeline.KindU64 {
			return pipeline.U64Attr(num.U64), nil
		}
		return pipeline.F64Attr(num.F64), nil
	case string:
		return pipeline.StrAttr(val), nil
	case []any:
		parts := make([]string, 0, len(val))
		for _, elem := range val {
			attr, err := decodeAttribute(elem)
			if err != nil {
				return pipeline.AttributeValue{}, err
			}
			parts = append(parts, attr.String())
		}
		return pipeline.StrAttr(strings.Join(parts, ", ")), nil
	default:
		return pipeline.AttributeValue{}, ErrUnsupportedShape
	}
}
