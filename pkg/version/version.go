// Package version contains all identifiable versioning info for
// describing the sonar-reporter project.
package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	projectName = "sonar-reporter"
	version     = "unknown"
	commit      = "unknown"
)

var Version = VersionContext{
	Name:    projectName,
	Version: version,
	Commit:  commit,
}

type VersionContext struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func (vc *VersionContext) String() string {
	return fmt.Sprintf("%s CLI: %s+%s", vc.Name, vc.Version, vc.Commit)
}

func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print sonar-reporter version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version.String())
		},
	}
}
