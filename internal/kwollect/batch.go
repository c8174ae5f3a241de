package kwollect

import (
	"github.com/rs/zerolog/log"
)

// ParseMeasurements maps a decoded JSON array through DecodeMeasure.
//
// The top-level value must be a JSON array; anything else fails with
// ErrNotArray and the cycle has nothing to emit. Individual records are
// handled leniently: a record that fails to decode is logged and skipped,
// and the remaining records are still returned together with the skip
// count. The upstream is noisy enough in practice that aborting a whole
// batch on one malformed record would lose good data.
func ParseMeasurements(v any) ([]Measure, int, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, 0, ErrNotArray
	}

	measures := make([]Measure, 0, len(arr))
	skipped := 0
	for i, elem := range arr {
		m, err := DecodeMeasure(elem)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping malformed measurement record")
			skipped++
			continue
		}
		measures = append(measures, m)
	}
	return measures, skipped, nil
}
