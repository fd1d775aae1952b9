package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func projectsWithStatuses(statuses ...string) []*Project {
	projects := make([]*Project, 0, len(statuses))
	for i, status := range statuses {
		projects = append(projects, &Project{
			Key:    string(rune('a' + i)),
			Status: status,
		})
	}
	return projects
}

func repeat(status string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = status
	}
	return out
}

func TestRollupOf(t *testing.T) {
	tests := []struct {
		name        string
		statuses    []string
		wantStatus  string
		wantLabel   string
		wantCSS     string
		wantMessage string
		wantNil     bool
	}{
		{
			name:        "single error dominates many passes",
			statuses:    append(repeat(StatusOK, 99), StatusError),
			wantStatus:  StatusError,
			wantLabel:   "FAILED",
			wantCSS:     "fail",
			wantMessage: "1 projects failed quality gate",
		},
		{
			name:        "warn beats ok",
			statuses:    append(repeat(StatusOK, 5), StatusWarn),
			wantStatus:  StatusWarn,
			wantLabel:   "WARNING",
			wantCSS:     "warn",
			wantMessage: "1 projects have warnings",
		},
		{
			name:        "error beats warn",
			statuses:    []string{StatusWarn, StatusError, StatusWarn, StatusError},
			wantStatus:  StatusError,
			wantLabel:   "FAILED",
			wantCSS:     "fail",
			wantMessage: "2 projects failed quality gate",
		},
		{
			name:        "all passed",
			statuses:    repeat(StatusOK, 3),
			wantStatus:  StatusOK,
			wantLabel:   "PASSED",
			wantCSS:     "pass",
			wantMessage: "All projects passed quality gate",
		},
		{
			name:       "ok with unanalyzed projects still passes",
			statuses:   []string{StatusOK, StatusNone},
			wantStatus: StatusOK,
			wantLabel:  "PASSED",
			wantCSS:    "pass",
		},
		{
			name:     "all none yields no banner",
			statuses: repeat(StatusNone, 4),
			wantNil:  true,
		},
		{
			name:     "empty yields no banner",
			statuses: nil,
			wantNil:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RollupOf(projectsWithStatuses(tt.statuses...))
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			if !assert.NotNil(t, got) {
				return
			}
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.wantCSS, got.CSSClass)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, got.Message)
			}
		})
	}
}

func TestTrendValue(t *testing.T) {
	tests := []struct {
		status string
		want   float64
	}{
		{StatusOK, 1.0},
		{StatusWarn, 0.5},
		{StatusError, 0.0},
		{StatusNone, 0.0},
		{"", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, trendValue(tt.status))
		})
	}
}

func TestTrendColor(t *testing.T) {
	assert.Equal(t, ColorPass, trendColor(StatusOK))
	assert.Equal(t, ColorWarn, trendColor(StatusWarn))
	// NONE and ERROR collapse to the fail color for rendering only.
	assert.Equal(t, ColorFail, trendColor(StatusError))
	assert.Equal(t, ColorFail, trendColor(StatusNone))
}
