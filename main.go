package main

import (
	"embed"

	"github.com/compliance-tools/sonar-reporter/cmd"
	"github.com/compliance-tools/sonar-reporter/internal/assets"
)

//go:embed data/templates
var vfs embed.FS

func main() {
	assets.UpdateData(vfs)
	cmd.Execute()
}
