package report

import (
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Filter is the optional project/group selection loaded from a YAML file.
// An empty filter includes every project and defines no groups.
type Filter struct {
	// Projects is an allow-list of project keys. Empty means include all.
	Projects []string `yaml:"projects"`

	// Groups partition the report in configured order. The first group
	// listing a key claims it; duplicates across groups are a configuration
	// problem and are resolved first-claim-wins, not validated.
	Groups []GroupDef `yaml:"groups"`
}

// GroupDef names a set of project keys forming one report section.
type GroupDef struct {
	Name     string   `yaml:"name"`
	Projects []string `yaml:"projects"`
}

// LoadFilter reads the filter file. A missing or malformed file degrades to
// "include everything, no groups": filtering is a convenience, never a reason
// to block the report.
func LoadFilter(path string) *Filter {
	if path == "" {
		return &Filter{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("no filter file at %s, including all projects", path)
		} else {
			log.Warnf("could not read filter file %s, including all projects: %v", path, err)
		}
		return &Filter{}
	}

	filter := &Filter{}
	if err := yaml.Unmarshal(data, filter); err != nil {
		log.Warnf("could not parse filter file %s, including all projects: %v", path, err)
		return &Filter{}
	}

	log.Debugf("loaded filter: %d allow-listed projects, %d groups", len(filter.Projects), len(filter.Groups))
	return filter
}

// Includes reports whether a project key passes the allow-list. The filter
// is applied before enrichment, so excluded projects are never fetched.
func (f *Filter) Includes(key string) bool {
	if len(f.Projects) == 0 {
		return true
	}
	for _, allowed := range f.Projects {
		if allowed == key {
			return true
		}
	}
	return false
}

func (g *GroupDef) contains(key string) bool {
	for _, member := range g.Projects {
		if member == key {
			return true
		}
	}
	return false
}
