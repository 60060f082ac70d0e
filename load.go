package memlayout

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/s2inspect/memlayout/internal/hierarchy"
	"github.com/s2inspect/memlayout/internal/layout"
	"github.com/s2inspect/memlayout/internal/loader"
	"github.com/s2inspect/memlayout/internal/offset"
)

// Load reads the schema documents named by opts from fsys and builds a new
// schema. On failure no schema is returned; the error aggregates every fatal
// issue, see errors.AsIssues.
func Load(fsys fs.FS, opts LoadOptions) (*Schema, error) {
	if fsys == nil {
		return nil, fmt.Errorf("load schema: nil fs")
	}
	resolved, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	res, err := loader.NewLoader(loader.Config{
		FS:      fsys,
		Sources: resolved.sources,
		Logger:  resolved.logger,
	}).Load()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	sizes := layout.New(res.Registry, resolved.logger)
	classes, err := hierarchy.New(res.Registry, resolved.classifierCacheSize, resolved.logger)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return &Schema{
		reg:         res.Registry,
		diagnostics: res.Diagnostics,
		layout:      sizes,
		offsets:     offset.New(sizes, resolved.logger),
		classes:     classes,
		log:         resolved.logger.With().Str("component", "schema").Logger(),
	}, nil
}

// LoadDir loads the schema documents from a directory.
func LoadDir(dir string, opts LoadOptions) (*Schema, error) {
	return Load(os.DirFS(dir), opts)
}
