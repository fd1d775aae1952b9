package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/compliance-tools/sonar-reporter/internal/assets"
	"github.com/compliance-tools/sonar-reporter/internal/report"
)

const (
	ReportTemplateBasePath = "data/templates"

	QualityGateReportFile = "quality_gate_report.html"
	DetailedReportFile    = "detailed_report.html"
	TrendsReportFile      = "quality_gate_trends.html"
	SummarySheetFile      = "quality_gate_summary.xlsx"

	cssDirName  = "css"
	cssFileName = "report_styles.css"

	generationDateLayout = "2006-01-02 15:04:05"
	displayDateLayout    = "Jan 02, 2006 15:04"
	neutralColor         = "#999"
)

// Styling carries the report colors. Status colors default to the same hex
// values the rollup classification uses, so banner and badge colors agree.
type Styling struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	PassColor      string `json:"passColor"`
	FailColor      string `json:"failColor"`
	WarningColor   string `json:"warningColor"`
}

// DefaultStyling returns the stock SonarQube-like palette.
func DefaultStyling() Styling {
	return Styling{
		PrimaryColor:   "#4b9fd5",
		SecondaryColor: "#236a97",
		PassColor:      report.ColorPass,
		FailColor:      report.ColorFail,
		WarningColor:   report.ColorWarn,
	}
}

// Renderer binds report models into the embedded HTML templates and writes
// the artifacts under the output directory.
type Renderer struct {
	styling   Styling
	serverURL string
	outputDir string
	now       func() time.Time
}

// context is the template binding for both HTML reports.
type context struct {
	Title          string
	GenerationDate string
	ServerURL      string
	Model          *report.Model
	Styling        Styling
	Overall        *report.Rollup
	Summary        *report.SummaryStats
}

func New(styling Styling, serverURL, outputDir string) *Renderer {
	return &Renderer{
		styling:   styling,
		serverURL: serverURL,
		outputDir: outputDir,
		now:       time.Now,
	}
}

// QualityGateReport renders the summary report and copies the stylesheet.
// Returns the path of the written HTML file.
func (r *Renderer) QualityGateReport(model *report.Model) (string, error) {
	title := "SonarQube Quality Gate Report"
	if model.Overall != nil {
		title = fmt.Sprintf("[%s] %s", model.Overall.Label, title)
	}
	return r.render(QualityGateReportFile, &context{
		Title:          title,
		GenerationDate: r.now().Format(generationDateLayout),
		ServerURL:      r.serverURL,
		Model:          model,
		Styling:        r.styling,
		Overall:        model.Overall,
	})
}

// DetailedReport renders the compliance report with per-project conditions
// and summary statistics.
func (r *Renderer) DetailedReport(model *report.Model) (string, error) {
	title := "SonarQube Compliance Report"
	if model.Overall != nil {
		title = fmt.Sprintf("[%s] %s", model.Overall.Label, title)
	}
	return r.render(DetailedReportFile, &context{
		Title:          title,
		GenerationDate: r.now().Format(generationDateLayout),
		ServerURL:      r.serverURL,
		Model:          model,
		Styling:        r.styling,
		Overall:        model.Overall,
		Summary:        report.Summarize(model.Projects),
	})
}

func (r *Renderer) render(name string, ctx *context) (string, error) {
	src, err := assets.ReadFile(fmt.Sprintf("%s/%s", ReportTemplateBasePath, name))
	if err != nil {
		return "", errors.Wrapf(err, "could not read template %s", name)
	}

	tmpl, err := template.New(name).Funcs(r.funcMap()).Parse(string(src))
	if err != nil {
		return "", errors.Wrapf(err, "could not parse template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", errors.Wrapf(err, "could not render template %s", name)
	}

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", errors.Wrapf(err, "could not create output directory %s", r.outputDir)
	}

	dest := filepath.Join(r.outputDir, name)
	if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
		return "", errors.Wrapf(err, "could not write report %s", dest)
	}

	// The stylesheet is a visual enhancement: a copy failure is logged and
	// the HTML, which is the deliverable, still ships.
	r.copyStylesheet()

	log.Infof("generated report: %s", dest)
	return dest, nil
}

func (r *Renderer) copyStylesheet() {
	src, err := assets.ReadFile(fmt.Sprintf("%s/%s/%s", ReportTemplateBasePath, cssDirName, cssFileName))
	if err != nil {
		log.Errorf("error reading stylesheet asset: %v", err)
		return
	}

	cssDir := filepath.Join(r.outputDir, cssDirName)
	if err := os.MkdirAll(cssDir, 0755); err != nil {
		log.Errorf("error creating css directory %s: %v", cssDir, err)
		return
	}
	if err := os.WriteFile(filepath.Join(cssDir, cssFileName), src, 0644); err != nil {
		log.Errorf("error copying stylesheet: %v", err)
	}
}

func (r *Renderer) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":  FormatDisplayDate,
		"statusColor": r.StatusColor,
	}
}

// FormatDisplayDate re-formats a normalized analysis timestamp into the long
// human form. Unparsable input comes back unchanged.
func FormatDisplayDate(value string) string {
	if value == "" || value == "N/A" {
		return "N/A"
	}
	parsed, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		log.Debugf("error formatting date %q for display: %v", value, err)
		return value
	}
	return parsed.Format(displayDateLayout)
}

// StatusColor maps a quality-gate status to its display color; anything
// unknown gets a neutral gray.
func (r *Renderer) StatusColor(status string) string {
	switch status {
	case report.StatusOK:
		return r.styling.PassColor
	case report.StatusError:
		return r.styling.FailColor
	case report.StatusWarn:
		return r.styling.WarningColor
	default:
		return neutralColor
	}
}
