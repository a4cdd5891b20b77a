package sources

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hoanghai1803/newsdesk/internal/models"
)

//go:embed providers.yaml
var defaultTable []byte

type tableFile struct {
	Providers []models.Provider `yaml:"providers"`
}

// DefaultTable returns the built-in static provider table.
func DefaultTable() []models.Provider {
	table, err := parseTable(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded providers.yaml: %v", err))
	}
	return table
}

// LoadTable reads a provider table from a YAML file. An empty path returns
// the built-in table.
func LoadTable(path string) ([]models.Provider, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading provider table: %w", err)
	}
	table, err := parseTable(data)
	if err != nil {
		return nil, fmt.Errorf("provider table %s: %w", path, err)
	}
	return table, nil
}

func parseTable(data []byte) ([]models.Provider, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if len(f.Providers) == 0 {
		return nil, errors.New("no providers defined")
	}

	seen := make(map[string]bool, len(f.Providers))
	for i, p := range f.Providers {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("provider %d: name is required", i)
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return nil, fmt.Errorf("provider %q defined twice", p.Name)
		}
		seen[key] = true
		if !p.Usable() {
			return nil, fmt.Errorf("provider %q: api_id or feed_url is required", p.Name)
		}
		f.Providers[i] = p
	}
	return f.Providers, nil
}
