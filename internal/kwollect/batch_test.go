package kwollect

import (
	"errors"
	"testing"
)

func TestParseMeasurementsNotArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "object", input: `{"device_id":"d"}`},
		{name: "string", input: `"hello"`},
		{name: "number", input: `42`},
		{name: "null", input: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseMeasurements(decodeJSON(t, tt.input))
			if !errors.Is(err, ErrNotArray) {
				t.Errorf("Expected ErrNotArray, got %v", err)
			}
		})
	}
}

func TestParseMeasurementsEmptyArray(t *testing.T) {
	measures, skipped, err := ParseMeasurements(decodeJSON(t, `[]`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(measures) != 0 || skipped != 0 {
		t.Errorf("Expected no measures and no skips, got %d/%d", len(measures), skipped)
	}
}

func TestParseMeasurementsLenientSkip(t *testing.T) {
	// The middle record misses device_id; the batch still yields the
	// two good records and reports one skip.
	input := `[
		{"device_id":"taurus-7","metric_id":"wattmetre_power_watt","timestamp":1718892920.1,"value":131.7,"labels":{}},
		{"metric_id":"wattmetre_power_watt","timestamp":1718892920.2,"value":132.0,"labels":{}},
		{"device_id":"taurus-7","metric_id":"wattmetre_power_watt","timestamp":1718892920.3,"value":133,"labels":{}}
	]`

	measures, skipped, err := ParseMeasurements(decodeJSON(t, input))
	if err != nil {
		t.Fatalf("Expected no batch error, got %v", err)
	}
	if skipped != 1 {
		t.Errorf("Expected 1 skipped record, got %d", skipped)
	}
	if len(measures) != 2 {
		t.Fatalf("Expected 2 measures, got %d", len(measures))
	}
	if measures[0].DeviceID != "taurus-7" || measures[1].DeviceID != "taurus-7" {
		t.Errorf("Unexpected device ids: %s, %s", measures[0].DeviceID, measures[1].DeviceID)
	}
}
