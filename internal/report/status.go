package report

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Quality-gate status values as delivered by the server.
const (
	StatusOK    = "OK"
	StatusWarn  = "WARN"
	StatusError = "ERROR"
	StatusNone  = "NONE"
)

// Display colors for the three rendered verdicts. NONE has no color of its
// own: it renders with the fail color but keeps its status value, so "never
// analyzed" stays distinguishable from "analyzed and failed" in the data.
const (
	ColorPass = "#00aa00"
	ColorWarn = "#ed7d20"
	ColorFail = "#d4333f"
)

// Rollup is the single derived verdict summarizing a set of projects. A nil
// Rollup means there is nothing to report on (no projects, or none analyzed).
type Rollup struct {
	Status   string `json:"status"`
	Label    string `json:"label"`
	CSSClass string `json:"cssClass"`
	Color    string `json:"color"`
	Message  string `json:"message"`
}

// RollupOf computes the verdict for a set of projects by strict precedence:
// one ERROR dominates everything, then WARN, then OK. The tool exists for
// compliance review, so a single failing project must never be hidden behind
// any number of passing ones.
func RollupOf(projects []*Project) *Rollup {
	if len(projects) == 0 {
		log.Debug("no projects available for rollup status calculation")
		return nil
	}

	counts := map[string]int{}
	for _, p := range projects {
		status := p.Status
		if status == "" {
			status = StatusNone
		}
		counts[status]++
	}
	log.Debugf("status counts: %v", counts)

	switch {
	case counts[StatusError] > 0:
		return &Rollup{
			Status:   StatusError,
			Label:    "FAILED",
			CSSClass: "fail",
			Color:    ColorFail,
			Message:  fmt.Sprintf("%d projects failed quality gate", counts[StatusError]),
		}
	case counts[StatusWarn] > 0:
		return &Rollup{
			Status:   StatusWarn,
			Label:    "WARNING",
			CSSClass: "warn",
			Color:    ColorWarn,
			Message:  fmt.Sprintf("%d projects have warnings", counts[StatusWarn]),
		}
	case counts[StatusOK] > 0:
		return &Rollup{
			Status:   StatusOK,
			Label:    "PASSED",
			CSSClass: "pass",
			Color:    ColorPass,
			Message:  "All projects passed quality gate",
		}
	}
	// Only NONE left: no banner.
	return nil
}

// trendValue normalizes a historical verdict for sparkline rendering.
// NONE and ERROR collapse to the same value here, for rendering only.
func trendValue(status string) float64 {
	switch status {
	case StatusOK:
		return 1.0
	case StatusWarn:
		return 0.5
	default:
		return 0.0
	}
}

// trendColor picks the display color for a historical verdict.
func trendColor(status string) string {
	switch status {
	case StatusOK:
		return ColorPass
	case StatusWarn:
		return ColorWarn
	default:
		return ColorFail
	}
}
