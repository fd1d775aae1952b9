package report

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/compliance-tools/sonar-reporter/internal/render"
	"github.com/compliance-tools/sonar-reporter/internal/report"
	"github.com/compliance-tools/sonar-reporter/internal/sonarqube"
)

const tokenEnvVar = "SONARQUBE_REPORT_TOKEN"

type Input struct {
	serverURL       string
	outputDir       string
	filterPath      string
	qualityGateOnly bool
	detailedOnly    bool
	xlsx            bool
	verbose         bool
}

func NewCmdReport() *cobra.Command {
	data := Input{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate quality gate reports from SonarQube data.",
		Long: `Connects to a SonarQube server, retrieves the quality gate status of
every project, and generates static HTML reports for compliance review.`,
		Run: func(cmd *cobra.Command, args []string) {
			data.serverURL = viper.GetString("server-url")
			if err := generateReports(&data); err != nil {
				log.Errorf("could not generate reports: %v", err)
				os.Exit(1)
			}
		},
		Args: cobra.NoArgs,
	}

	cmd.Flags().StringVarP(
		&data.outputDir, "output-dir", "o", "reports",
		"Output directory for generated reports. Example: -o ./reports",
	)
	cmd.Flags().StringVarP(
		&data.filterPath, "filter", "f", "report-filter.yaml",
		"Optional YAML file selecting and grouping projects",
	)
	cmd.Flags().BoolVar(
		&data.qualityGateOnly, "quality-gate-only", false,
		"Generate only the quality gate summary report",
	)
	cmd.Flags().BoolVar(
		&data.detailedOnly, "detailed-only", false,
		"Generate only the detailed compliance report",
	)
	cmd.Flags().BoolVar(
		&data.xlsx, "xlsx", false,
		"Also export the summary as a spreadsheet",
	)
	cmd.Flags().BoolVarP(
		&data.verbose, "verbose", "v", false,
		"Enable verbose output",
	)
	return cmd
}

func generateReports(input *Input) error {
	if input.verbose {
		log.SetLevel(log.DebugLevel)
		log.Debug("verbose mode enabled")
	}

	// The token check happens before any network call.
	client, err := sonarqube.NewClient(input.serverURL, os.Getenv(tokenEnvVar))
	if err != nil {
		return err
	}
	if err := client.CheckConnection(); err != nil {
		return err
	}

	filter := report.LoadFilter(input.filterPath)

	log.Info("retrieving projects data from SonarQube")
	components, err := client.SearchProjects()
	if err != nil {
		return errors.Wrap(err, "could not retrieve the project list")
	}
	if len(components) == 0 {
		log.Warn("no projects found in SonarQube")
	}

	processor := report.NewProcessor(client, client.BaseURL())
	model, err := processor.Process(components, filter)
	if err != nil {
		return err
	}

	renderer := render.New(render.DefaultStyling(), client.BaseURL(), input.outputDir)

	if !input.detailedOnly {
		if _, err := renderer.QualityGateReport(model); err != nil {
			return errors.Wrap(err, "could not generate the quality gate report")
		}
	}
	if !input.qualityGateOnly {
		if _, err := renderer.DetailedReport(model); err != nil {
			return errors.Wrap(err, "could not generate the detailed report")
		}
		// The trend page enriches the detailed report and is best-effort.
		if _, err := renderer.TrendsReport(model); err != nil {
			log.Errorf("error generating trends report: %v", err)
		}
	}
	if input.xlsx {
		if err := renderer.SummarySheet(model); err != nil {
			log.Errorf("error exporting summary spreadsheet: %v", err)
		}
	}

	log.Info("report generation completed successfully")
	return nil
}
