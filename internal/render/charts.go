package render

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	log "github.com/sirupsen/logrus"

	"github.com/compliance-tools/sonar-reporter/internal/report"
)

// newTrendsPage creates the page object holding one chart per project.
func newTrendsPage() *components.Page {
	page := components.NewPage()
	page.PageTitle = "Quality Gate Trends"
	return page
}

// TrendsReport renders a line chart of the normalized quality-gate history
// of every project that has one, and writes the page to the output directory.
func (r *Renderer) TrendsReport(model *report.Model) (string, error) {
	page := newTrendsPage()

	charted := 0
	for _, project := range model.Projects {
		if len(project.Trend) == 0 {
			log.Debugf("project %s has no quality gate history, skipping chart", project.Key)
			continue
		}
		page.AddCharts(projectTrendChart(project))
		charted++
	}
	if charted == 0 {
		log.Info("no quality gate history available, skipping trends report")
		return "", nil
	}

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", err
	}
	dest := filepath.Join(r.outputDir, TrendsReportFile)
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := page.Render(io.MultiWriter(f)); err != nil {
		return "", err
	}
	log.Infof("generated trends report: %s", dest)
	return dest, nil
}

// projectTrendChart plots one project's history, oldest first, on the
// normalized scale (1.0 passed, 0.5 warning, 0.0 failed or not analyzed).
func projectTrendChart(project *report.Project) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    project.Name,
			Subtitle: project.Key,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	)

	timestamps := []string{}
	dataPoints := make([]opts.LineData, 0, len(project.Trend))
	for _, point := range project.Trend {
		timestamps = append(timestamps, point.Date)
		dataPoints = append(dataPoints, opts.LineData{Value: point.Value})
	}

	line.SetXAxis(timestamps).
		SetSeriesOptions(charts.WithLineChartOpts(
			opts.LineChart{Smooth: false, ShowSymbol: true, SymbolSize: 15, Symbol: "diamond"},
		))
	line.AddSeries(project.Name, dataPoints)

	return line
}
