package config

import (
	"fmt"
	"os"

	"newsline/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// rosterFile is the on-disk shape of the feed roster manifest.
type rosterFile struct {
	Feeds []entity.RosterEntry `yaml:"feeds"`
}

// LoadRoster reads the YAML feed manifest (§4.1, "configured roster,
// typically 30-100 feeds") from path.
func LoadRoster(path string) ([]entity.RosterEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadRoster: read %s: %w", path, err)
	}
	var parsed rosterFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("LoadRoster: parse %s: %w", path, err)
	}
	for _, entry := range parsed.Feeds {
		if entry.Slug == "" || entry.URL == "" {
			return nil, fmt.Errorf("LoadRoster: feed entry missing slug or url: %+v", entry)
		}
	}
	return parsed.Feeds, nil
}
