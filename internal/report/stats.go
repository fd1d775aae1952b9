package report

import (
	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"
)

// SummaryStats are the aggregate figures shown on the detailed report.
type SummaryStats struct {
	Total      int     `json:"total"`
	CountOK    int     `json:"countOk"`
	CountWarn  int     `json:"countWarn"`
	CountError int     `json:"countError"`
	CountNone  int     `json:"countNone"`
	PassRate   float64 `json:"passRate"`

	// Trend statistics over every normalized history point of every project.
	TrendMean   float64 `json:"trendMean"`
	TrendMedian float64 `json:"trendMedian"`
	TrendMin    float64 `json:"trendMin"`
	TrendMax    float64 `json:"trendMax"`
}

// Summarize computes the summary statistics for the detailed report. With no
// history points the trend figures stay zero.
func Summarize(projects []*Project) *SummaryStats {
	summary := &SummaryStats{Total: len(projects)}

	var points stats.Float64Data
	for _, p := range projects {
		switch p.Status {
		case StatusOK:
			summary.CountOK++
		case StatusWarn:
			summary.CountWarn++
		case StatusError:
			summary.CountError++
		default:
			summary.CountNone++
		}
		for _, point := range p.Trend {
			points = append(points, point.Value)
		}
	}

	if summary.Total > 0 {
		summary.PassRate = float64(100*summary.CountOK) / float64(summary.Total)
	}

	if len(points) > 0 {
		var err error
		if summary.TrendMean, err = stats.Mean(points); err != nil {
			log.Debugf("trend mean: %v", err)
		}
		if summary.TrendMedian, err = stats.Median(points); err != nil {
			log.Debugf("trend median: %v", err)
		}
		if summary.TrendMin, err = stats.Min(points); err != nil {
			log.Debugf("trend min: %v", err)
		}
		if summary.TrendMax, err = stats.Max(points); err != nil {
			log.Debugf("trend max: %v", err)
		}
	}
	return summary
}
