package pattern

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridlife/internal/ctxlog"
	"github.com/specialistvlad/gridlife/internal/fsutil"
)

// Extensions lists the file types the loader reads.
var Extensions = []string{".hcl", ".yaml", ".yml"}

// Library is an ordered, name-indexed set of patterns.
type Library struct {
	patterns []Pattern
	byName   map[string]int
}

// Load reads every pattern file found at paths. A path may be a single file
// or a directory, which is searched recursively. Pattern names must be unique
// across all files.
func Load(ctx context.Context, paths ...string) (*Library, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Pattern loader started.", "path_count", len(paths))

	files, err := findPatternFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered pattern files.", "count", len(files))

	lib := &Library{byName: make(map[string]int)}
	parser := hclparse.NewParser()

	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read pattern file %s: %w", file, err)
		}

		var patterns []Pattern
		if filepath.Ext(file) == ".hcl" {
			patterns, err = parseHCL(ctx, parser, src, file)
		} else {
			patterns, err = parseYAML(ctx, src, file)
		}
		if err != nil {
			return nil, err
		}

		for _, p := range patterns {
			if err := lib.add(p); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Pattern loading complete.", "patterns", len(lib.patterns))
	return lib, nil
}

func (l *Library) add(p Pattern) error {
	if prev, ok := l.byName[p.Name]; ok {
		return fmt.Errorf("pattern %q in %s is already defined in %s", p.Name, p.Source, l.patterns[prev].Source)
	}
	l.byName[p.Name] = len(l.patterns)
	l.patterns = append(l.patterns, p)
	return nil
}

// Len returns the number of patterns.
func (l *Library) Len() int {
	return len(l.patterns)
}

// Names returns pattern names in load order.
func (l *Library) Names() []string {
	names := make([]string, len(l.patterns))
	for i, p := range l.patterns {
		names[i] = p.Name
	}
	return names
}

// Find returns the named pattern. An empty name selects the first pattern.
func (l *Library) Find(name string) (Pattern, error) {
	if name == "" {
		if len(l.patterns) == 0 {
			return Pattern{}, fmt.Errorf("%w: no patterns loaded", ErrNotFound)
		}
		return l.patterns[0], nil
	}
	i, ok := l.byName[name]
	if !ok {
		return Pattern{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return l.patterns[i], nil
}

// findPatternFiles walks all given paths and returns a flat list of pattern
// files. Unlike directories, an explicitly named file must exist.
func findPatternFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		var found []string
		if info.IsDir() {
			found, err = fsutil.FindFilesByExtension(path, Extensions...)
			if err != nil {
				return nil, err
			}
		} else if fsutil.HasExtension(path, Extensions...) {
			found = []string{path}
		} else {
			return nil, fmt.Errorf("unsupported pattern file %s: expected one of %v", path, Extensions)
		}

		for _, f := range found {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				all = append(all, f)
			}
		}
	}
	return all, nil
}
