package pattern

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridlife/internal/ctxlog"
	"github.com/specialistvlad/gridlife/internal/grid"
	"gopkg.in/yaml.v3"
)

// yamlRoot is the layout of a YAML pattern file.
type yamlRoot struct {
	Patterns []Pattern `yaml:"patterns"`
}

func parseYAML(ctx context.Context, src []byte, filename string) ([]Pattern, error) {
	var root yamlRoot
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", filename, err)
	}

	for i := range root.Patterns {
		root.Patterns[i].Source = filename
		if root.Patterns[i].Name == "" {
			return nil, fmt.Errorf("%s: pattern %d has no name", filename, i)
		}
		ctxlog.FromContext(ctx).Debug("Decoded YAML pattern.", "file", filename, "pattern", root.Patterns[i].Name)
	}
	return root.Patterns, nil
}

// EncodeYAML writes patterns in the layout read by the loader.
func EncodeYAML(patterns ...Pattern) ([]byte, error) {
	out, err := yaml.Marshal(yamlRoot{Patterns: patterns})
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return out, nil
}

// GridYAML is EncodeYAML for a single grid.
func GridYAML(name string, g grid.Grid) ([]byte, error) {
	return EncodeYAML(FromGrid(name, g))
}
