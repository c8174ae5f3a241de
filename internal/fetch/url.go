// Package fetch builds windowed Kwollect query URLs and performs the
// authenticated HTTP round-trip that retrieves raw measurement batches.
package fetch

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAPIBase is the stable Grid'5000 API root.
const DefaultAPIBase = "https://api.grid5000.fr/stable"

// apiTimeLayout is the civil datetime format the metrics API expects.
const apiTimeLayout = "2006-01-02T15:04:05"

// apiZone is the fixed UTC+2 offset the API interprets query times in.
// It is a wire-format constant, deliberately independent of the host
// machine's timezone.
var apiZone = time.FixedZone("UTC+2", 2*60*60)

// Window is an immutable [Start, End) wall-clock range for one fetch.
type Window struct {
	Start time.Time
	End   time.Time
}

// FormatAPITime renders an instant in the API's fixed civil-time offset.
func FormatAPITime(t time.Time) string {
	return t.In(apiZone).Format(apiTimeLayout)
}

// BuildMetricsURL renders the metrics query for one site, one or more
// nodes and metrics, and a fetch window. Multiple nodes or metrics are
// joined with commas.
func BuildMetricsURL(base, site string, nodes, metrics []string, w Window) string {
	return fmt.Sprintf(
		"%s/sites/%s/metrics?nodes=%s&metrics=%s&start_time=%s&end_time=%s",
		strings.TrimRight(base, "/"),
		site,
		strings.Join(nodes, ","),
		strings.Join(metrics, ","),
		FormatAPITime(w.Start),
		FormatAPITime(w.End),
	)
}
