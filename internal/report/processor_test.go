package report

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/compliance-tools/sonar-reporter/internal/sonarqube"
)

// fakeSource feeds canned verdicts to the processor.
type fakeSource struct {
	statuses  map[string]*sonarqube.ProjectStatus
	histories map[string][]sonarqube.HistoryEntry

	statusErr  map[string]error
	historyErr map[string]error
}

func (f *fakeSource) ProjectStatus(key string) (*sonarqube.ProjectStatus, error) {
	if err := f.statusErr[key]; err != nil {
		return nil, err
	}
	if s, ok := f.statuses[key]; ok {
		return s, nil
	}
	return &sonarqube.ProjectStatus{}, nil
}

func (f *fakeSource) GateHistory(key string, max int) ([]sonarqube.HistoryEntry, error) {
	if err := f.historyErr[key]; err != nil {
		return nil, err
	}
	return f.histories[key], nil
}

func TestProcessEnrichment(t *testing.T) {
	source := &fakeSource{
		statuses: map[string]*sonarqube.ProjectStatus{
			"proj-a": {
				Status: StatusOK,
				Conditions: []sonarqube.Condition{
					{Status: StatusOK, MetricKey: "coverage"},
				},
			},
		},
	}
	processor := NewProcessor(source, "http://sonar.example.com/")

	components := []sonarqube.Component{
		{Key: "proj-a", Name: "Project A", LastAnalysisDate: "2024-03-15T10:30:00+0000"},
		{Key: "proj-b"},
	}
	model, err := processor.Process(components, &Filter{})
	assert.NoError(t, err)
	assert.Len(t, model.Projects, 2)

	a := model.Projects[0]
	assert.Equal(t, "Project A", a.Name)
	assert.Equal(t, StatusOK, a.Status)
	assert.Equal(t, "2024-03-15 10:30:00", a.LastAnalysis)
	assert.Equal(t, "http://sonar.example.com/dashboard?id=proj-a", a.URL)
	assert.Len(t, a.Conditions, 1)

	// Missing name falls back to the key, missing status to NONE, missing
	// analysis date to N/A.
	b := model.Projects[1]
	assert.Equal(t, "proj-b", b.Name)
	assert.Equal(t, StatusNone, b.Status)
	assert.Equal(t, "N/A", b.LastAnalysis)
	assert.Empty(t, b.Conditions)
	assert.NotNil(t, b.Conditions)
}

func TestProcessFailsFastOnStatusError(t *testing.T) {
	source := &fakeSource{
		statusErr: map[string]error{"proj-b": errors.New("boom")},
		statuses: map[string]*sonarqube.ProjectStatus{
			"proj-a": {Status: StatusOK},
		},
	}
	processor := NewProcessor(source, "http://sonar.example.com")

	components := []sonarqube.Component{{Key: "proj-a"}, {Key: "proj-b"}}
	model, err := processor.Process(components, &Filter{})
	assert.Error(t, err)
	assert.Nil(t, model)
	assert.Contains(t, err.Error(), "proj-b")
}

func TestProcessHistoryIsBestEffort(t *testing.T) {
	source := &fakeSource{
		statuses: map[string]*sonarqube.ProjectStatus{
			"proj-a": {Status: StatusOK},
		},
		historyErr: map[string]error{"proj-a": errors.New("unavailable")},
	}
	processor := NewProcessor(source, "http://sonar.example.com")

	model, err := processor.Process([]sonarqube.Component{{Key: "proj-a"}}, &Filter{})
	assert.NoError(t, err)
	assert.Len(t, model.Projects, 1)
	assert.Empty(t, model.Projects[0].History)
	assert.Empty(t, model.Projects[0].Trend)
}

func TestProcessAllowList(t *testing.T) {
	source := &fakeSource{
		statuses: map[string]*sonarqube.ProjectStatus{
			"proj-a": {Status: StatusOK},
			"proj-b": {Status: StatusError},
		},
	}
	processor := NewProcessor(source, "http://sonar.example.com")

	components := []sonarqube.Component{{Key: "proj-a"}, {Key: "proj-b"}}
	filter := &Filter{Projects: []string{"proj-a"}}

	model, err := processor.Process(components, filter)
	assert.NoError(t, err)
	assert.Len(t, model.Projects, 1)
	assert.Equal(t, "proj-a", model.Projects[0].Key)
	// The excluded failing project must not leak into the overall verdict.
	assert.Equal(t, StatusOK, model.Overall.Status)
}

func TestProcessGroupingIsAPartition(t *testing.T) {
	source := &fakeSource{
		statuses: map[string]*sonarqube.ProjectStatus{
			"proj-a": {Status: StatusOK},
			"proj-b": {Status: StatusError},
			"proj-c": {Status: StatusWarn},
			"proj-d": {Status: StatusOK},
		},
	}
	processor := NewProcessor(source, "http://sonar.example.com")

	components := []sonarqube.Component{
		{Key: "proj-a"}, {Key: "proj-b"}, {Key: "proj-c"}, {Key: "proj-d"},
	}
	filter := &Filter{
		Groups: []GroupDef{
			{Name: "first", Projects: []string{"proj-a", "proj-b"}},
			// proj-a is also listed here: the first group claims it.
			{Name: "second", Projects: []string{"proj-a", "proj-c"}},
		},
	}

	model, err := processor.Process(components, filter)
	assert.NoError(t, err)
	assert.Len(t, model.Groups, 2)

	seen := map[string]int{}
	for _, group := range model.Groups {
		for _, p := range group.Projects {
			seen[p.Key]++
		}
	}
	for _, p := range model.Ungrouped {
		seen[p.Key]++
	}
	// Every key lands in exactly one bucket.
	assert.Equal(t, map[string]int{"proj-a": 1, "proj-b": 1, "proj-c": 1, "proj-d": 1}, seen)

	first, second := model.Groups[0], model.Groups[1]
	assert.Equal(t, "first", first.Name)
	assert.Len(t, first.Projects, 2)
	assert.Equal(t, StatusError, first.Status.Status)
	assert.Len(t, second.Projects, 1)
	assert.Equal(t, StatusWarn, second.Status.Status)

	assert.Len(t, model.Ungrouped, 1)
	assert.Equal(t, "proj-d", model.Ungrouped[0].Key)
	assert.Equal(t, StatusOK, model.UngroupedStatus.Status)

	// The overall verdict covers the full unpartitioned set.
	assert.Equal(t, StatusError, model.Overall.Status)
}

func TestBuildTrendReversesHistory(t *testing.T) {
	history := []sonarqube.HistoryEntry{
		{Status: StatusOK, Date: "d3"},
		{Status: StatusError, Date: "d2"},
		{Status: StatusWarn, Date: "d1"},
	}
	trend := buildTrend(history)
	if assert.Len(t, trend, 3) {
		assert.Equal(t, []string{"d1", "d2", "d3"}, []string{trend[0].Date, trend[1].Date, trend[2].Date})
		assert.Equal(t, []float64{0.5, 0.0, 1.0}, []float64{trend[0].Value, trend[1].Value, trend[2].Value})
		assert.Equal(t, ColorWarn, trend[0].Color)
		assert.Equal(t, ColorFail, trend[1].Color)
		assert.Equal(t, ColorPass, trend[2].Color)
	}

	assert.Nil(t, buildTrend(nil))
}

func TestFormatAnalysisDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "with offset", in: "2024-03-15T10:30:00+0000", want: "2024-03-15 10:30:00"},
		{name: "without offset", in: "2024-03-15T10:30:00", want: "2024-03-15 10:30:00"},
		{name: "empty", in: "", want: "N/A"},
		{name: "garbage passes through", in: "not-a-date", want: "not-a-date"},
		{name: "truncated passes through", in: "2024-03-15", want: "2024-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAnalysisDate(tt.in))
		})
	}
}
