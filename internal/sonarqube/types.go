package sonarqube

// Component is a project item returned by the API endpoint /api/projects/search.
type Component struct {
	Key              string `json:"key"`
	Name             string `json:"name"`
	Qualifier        string `json:"qualifier,omitempty"`
	Visibility       string `json:"visibility,omitempty"`
	LastAnalysisDate string `json:"lastAnalysisDate,omitempty"`
}

// searchProjectsResponse is the payload returned by /api/projects/search.
type searchProjectsResponse struct {
	Paging     paging      `json:"paging"`
	Components []Component `json:"components"`
}

type paging struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

// Condition is a single quality-gate condition evaluated on an analysis.
// The aggregation layer treats conditions as opaque rows for the report.
type Condition struct {
	Status         string `json:"status"`
	MetricKey      string `json:"metricKey"`
	Comparator     string `json:"comparator"`
	ErrorThreshold string `json:"errorThreshold,omitempty"`
	ActualValue    string `json:"actualValue,omitempty"`
}

// ProjectStatus is the quality-gate verdict for a project or an analysis,
// returned by /api/qualitygates/project_status.
type ProjectStatus struct {
	Status     string      `json:"status"`
	Conditions []Condition `json:"conditions"`
}

type projectStatusResponse struct {
	ProjectStatus ProjectStatus `json:"projectStatus"`
}

// Analysis is an item returned by /api/project_analyses/search, newest first.
type Analysis struct {
	Key  string `json:"key"`
	Date string `json:"date"`
}

type projectAnalysesResponse struct {
	Analyses []Analysis `json:"analyses"`
}

// HistoryEntry is a point-in-time quality-gate verdict, resolved by joining
// the analysis list with per-analysis status lookups.
type HistoryEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}
