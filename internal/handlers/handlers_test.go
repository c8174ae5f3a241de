package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mutualEvg/kwollect-input/internal/source"
)

type fakeReporter struct {
	summary source.CycleSummary
	ok      bool
}

func (f fakeReporter) LastCycle() (source.CycleSummary, bool) {
	return f.summary, f.ok
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	HealthHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Expected body OK, got %s", rec.Body.String())
	}
}

func TestStatusHandlerWithLastCycle(t *testing.T) {
	reporter := fakeReporter{
		summary: source.CycleSummary{
			WindowStart: "2025-07-21T16:15:31",
			WindowEnd:   "2025-07-21T16:15:41",
			Points:      3,
			Skipped:     1,
			CompletedAt: time.Now(),
		},
		ok: true,
	}

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()

	StatusHandler("lyon", []string{"taurus-7"}, []string{"wattmetre_power_watt"}, reporter)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %s", ct)
	}

	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode status response: %v", err)
	}

	if resp.Site != "lyon" {
		t.Errorf("Expected site lyon, got %s", resp.Site)
	}
	if len(resp.Nodes) != 1 || resp.Nodes[0] != "taurus-7" {
		t.Errorf("Unexpected nodes: %v", resp.Nodes)
	}
	if resp.LastCycle == nil {
		t.Fatal("Expected a last_cycle entry")
	}
	if resp.LastCycle.Points != 3 || resp.LastCycle.Skipped != 1 {
		t.Errorf("Unexpected last cycle: %+v", resp.LastCycle)
	}
}

func TestStatusHandlerBeforeFirstCycle(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()

	StatusHandler("lyon", []string{"taurus-7"}, []string{"wattmetre_power_watt"}, fakeReporter{})(rec, req)

	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode status response: %v", err)
	}
	if resp.LastCycle != nil {
		t.Errorf("Expected no last_cycle before the first cycle, got %+v", resp.LastCycle)
	}
}
