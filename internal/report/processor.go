package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/compliance-tools/sonar-reporter/internal/sonarqube"
)

const (
	// sonarDateLayout is the server date encoding with the UTC offset already
	// stripped. Offsets are deliberately ignored: the report shows the
	// server-local timestamp as delivered.
	sonarDateLayout = "2006-01-02T15:04:05"

	// analysisDateLayout is the normalized form stored on the report model.
	analysisDateLayout = "2006-01-02 15:04:05"

	dashboardPathFmt = "%s/dashboard?id=%s"
)

// StatusSource is the per-project retrieval capability the processor needs.
// It is the client's output shape, not the client itself, so tests can feed
// canned verdicts.
type StatusSource interface {
	ProjectStatus(projectKey string) (*sonarqube.ProjectStatus, error)
	GateHistory(projectKey string, max int) ([]sonarqube.HistoryEntry, error)
}

// TrendPoint is one normalized point of the history visualization,
// oldest first.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Project is one enriched record of the report model.
type Project struct {
	Key          string                   `json:"key"`
	Name         string                   `json:"name"`
	LastAnalysis string                   `json:"lastAnalysisDate"`
	Status       string                   `json:"qualityGateStatus"`
	Conditions   []sonarqube.Condition    `json:"qualityGateConditions"`
	URL          string                   `json:"url"`
	History      []sonarqube.HistoryEntry `json:"qualityGateHistory,omitempty"`
	Trend        []TrendPoint             `json:"historyVisualization,omitempty"`
}

// Group is a named collection of projects with its own rollup verdict.
type Group struct {
	Name     string     `json:"name"`
	Projects []*Project `json:"projects"`
	Status   *Rollup    `json:"status,omitempty"`
}

// Model is the full report model, built once per run and handed to the
// renderer.
type Model struct {
	Projects        []*Project `json:"projects"`
	Groups          []*Group   `json:"groups,omitempty"`
	Ungrouped       []*Project `json:"ungrouped,omitempty"`
	UngroupedStatus *Rollup    `json:"ungroupedStatus,omitempty"`
	Overall         *Rollup    `json:"overallStatus,omitempty"`
}

// Processor turns the flat project list from the server into the grouped,
// status-classified report model. It never mutates the input records, only
// wraps and re-buckets them.
type Processor struct {
	source       StatusSource
	serverURL    string
	historyLimit int
}

// NewProcessor creates a processor reading per-project data from source.
// Dashboard links are derived from serverURL with any trailing slash removed.
func NewProcessor(source StatusSource, serverURL string) *Processor {
	return &Processor{
		source:       source,
		serverURL:    strings.TrimSuffix(serverURL, "/"),
		historyLimit: sonarqube.DefaultHistoryLimit,
	}
}

// Process enriches, classifies and groups the raw project list. A failure to
// fetch the primary verdict of any project aborts the whole run: a partial
// compliance report is worse than no report.
func (p *Processor) Process(components []sonarqube.Component, filter *Filter) (*Model, error) {
	projects, err := p.enrich(components, filter)
	if err != nil {
		return nil, err
	}

	model := p.group(projects, filter)
	model.Overall = RollupOf(projects)
	log.Infof("processed data for %d projects", len(projects))
	return model, nil
}

// enrich builds one Project per allow-listed component, in server order.
func (p *Processor) enrich(components []sonarqube.Component, filter *Filter) ([]*Project, error) {
	var projects []*Project

	for _, component := range components {
		if !filter.Includes(component.Key) {
			log.Debugf("project %s not in the configured project list, skipping", component.Key)
			continue
		}

		name := component.Name
		if name == "" {
			name = component.Key
		}
		log.Debugf("processing project: %s (%s)", name, component.Key)

		gate, err := p.source.ProjectStatus(component.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "could not fetch quality gate status for project %s", component.Key)
		}
		status := gate.Status
		if status == "" {
			status = StatusNone
		}
		conditions := gate.Conditions
		if conditions == nil {
			conditions = []sonarqube.Condition{}
		}

		history, err := p.source.GateHistory(component.Key, p.historyLimit)
		if err != nil {
			// History is best-effort enrichment, never a reason to abort.
			log.Errorf("error fetching quality gate history for project %s: %v", component.Key, err)
			history = nil
		}

		projects = append(projects, &Project{
			Key:          component.Key,
			Name:         name,
			LastAnalysis: formatAnalysisDate(component.LastAnalysisDate),
			Status:       status,
			Conditions:   conditions,
			URL:          fmt.Sprintf(dashboardPathFmt, p.serverURL, component.Key),
			History:      history,
			Trend:        buildTrend(history),
		})
	}
	return projects, nil
}

// group partitions projects into the configured groups, in configured order.
// The first group listing a key claims it; whatever is left over lands in the
// ungrouped bucket. The overall verdict is computed by the caller over the
// unpartitioned set.
func (p *Processor) group(projects []*Project, filter *Filter) *Model {
	model := &Model{Projects: projects}

	unclaimed := make([]*Project, len(projects))
	copy(unclaimed, projects)

	for _, def := range filter.Groups {
		group := &Group{Name: def.Name}
		var remaining []*Project
		for _, project := range unclaimed {
			if def.contains(project.Key) {
				group.Projects = append(group.Projects, project)
			} else {
				remaining = append(remaining, project)
			}
		}
		unclaimed = remaining
		group.Status = RollupOf(group.Projects)
		model.Groups = append(model.Groups, group)
	}

	if len(filter.Groups) > 0 {
		model.Ungrouped = unclaimed
		model.UngroupedStatus = RollupOf(unclaimed)
	}
	return model
}

// buildTrend reverses the newest-first history to chronological order and
// maps each verdict to a normalized trend point.
func buildTrend(history []sonarqube.HistoryEntry) []TrendPoint {
	if len(history) == 0 {
		return nil
	}
	trend := make([]TrendPoint, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		entry := history[i]
		trend = append(trend, TrendPoint{
			Date:  entry.Date,
			Value: trendValue(entry.Status),
			Color: trendColor(entry.Status),
		})
	}
	return trend
}

// formatAnalysisDate normalizes the server timestamp for display. The source
// format is YYYY-MM-DDThh:mm:ss+offset; the offset is dropped, not applied.
// Anything unparsable is passed through unchanged so one odd timestamp never
// fails the run.
func formatAnalysisDate(raw string) string {
	if raw == "" {
		return "N/A"
	}

	value := raw
	if idx := strings.Index(raw, "+"); idx >= 0 {
		value = raw[:idx]
	}

	parsed, err := time.Parse(sonarDateLayout, value)
	if err != nil {
		log.Debugf("error formatting date %q: %v", raw, err)
		return raw
	}
	return parsed.Format(analysisDateLayout)
}
