// Package handlers implements the operational HTTP endpoints of the
// standalone runner: liveness and a status report of the last fetch cycle.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/mutualEvg/kwollect-input/internal/source"
	"github.com/mutualEvg/kwollect-input/internal/utils"
)

// CycleReporter exposes the most recently completed fetch cycle.
type CycleReporter interface {
	LastCycle() (source.CycleSummary, bool)
}

// StatusResponse is the JSON body served by the /status endpoint.
type StatusResponse struct {
	Site      string               `json:"site"`
	Nodes     []string             `json:"nodes"`
	Metrics   []string             `json:"metrics"`
	Hostname  string               `json:"hostname"`
	AgentIP   string               `json:"agent_ip"`
	UptimeSec uint64               `json:"uptime_sec"`
	LastCycle *source.CycleSummary `json:"last_cycle,omitempty"`
}

// HealthHandler reports process liveness.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

// StatusHandler reports the configured query targets, host identity and
// the outcome of the last fetch cycle.
func StatusHandler(site string, nodes, metrics []string, reporter CycleReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{
			Site:    site,
			Nodes:   nodes,
			Metrics: metrics,
			AgentIP: utils.GetOutboundIP(),
		}

		if info, err := host.Info(); err == nil {
			resp.Hostname = info.Hostname
			resp.UptimeSec = info.Uptime
		}

		if summary, ok := reporter.LastCycle(); ok {
			resp.LastCycle = &summary
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error().Err(err).Msg("Failed to encode status response")
		}
	}
}
