package loader

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	schemaerrors "github.com/s2inspect/memlayout/errors"
	"github.com/s2inspect/memlayout/internal/registry"
	"github.com/s2inspect/memlayout/internal/schemadoc"
)

// Sources names the schema documents inside the loader's file system.
type Sources struct {
	Main     string
	Entities string
	// RoomCodes is optional; an empty name skips the document.
	RoomCodes string
}

// Config holds configuration for the schema loader
type Config struct {
	FS      fs.FS
	Sources Sources
	Logger  zerolog.Logger
}

// Result is the outcome of a successful load.
type Result struct {
	Registry *registry.Registry
	// Diagnostics lists the load-degraded issues in the order they were found.
	Diagnostics []schemaerrors.Issue
}

// SchemaLoader reads schema documents and builds registries from them.
type SchemaLoader struct {
	config Config
	log    zerolog.Logger
}

// NewLoader creates a new schema loader with the given configuration
func NewLoader(cfg Config) *SchemaLoader {
	return &SchemaLoader{
		config: cfg,
		log:    cfg.Logger.With().Str("component", "schema_loader").Logger(),
	}
}

// Load reads every configured document and builds a new registry. Any fatal
// issue fails the whole load; the returned error then aggregates all of them.
func (l *SchemaLoader) Load() (*Result, error) {
	if l == nil || l.config.FS == nil {
		return nil, fmt.Errorf("no schema file system configured")
	}
	src := l.config.Sources
	if src.Main == "" || src.Entities == "" {
		return nil, fmt.Errorf("main and entity schema sources are required")
	}

	var docs Documents
	var err error
	if src.RoomCodes != "" {
		if docs.RoomCodes, err = l.read(src.RoomCodes); err != nil {
			return nil, err
		}
	}
	if docs.Main, err = l.read(src.Main); err != nil {
		return nil, err
	}
	if docs.Entities, err = l.read(src.Entities); err != nil {
		return nil, err
	}
	return Build(docs, l.log)
}

func (l *SchemaLoader) read(name string) (*Document, error) {
	data, err := fs.ReadFile(l.config.FS, name)
	if err != nil {
		code := schemaerrors.ErrSourceParse
		if errors.Is(err, fs.ErrNotExist) {
			code = schemaerrors.ErrSourceMissing
		}
		return nil, schemaerrors.NewIssue(code, err.Error(), "").WithSource(name)
	}
	root, err := schemadoc.Parse(name, data)
	if err != nil {
		return nil, schemaerrors.NewIssue(schemaerrors.ErrSourceParse, err.Error(), "").WithSource(name)
	}
	l.log.Debug().Str("source", name).Int("bytes", len(data)).Msg("schema document parsed")
	return &Document{Name: name, Root: root}, nil
}

// Document is one parsed schema source.
type Document struct {
	Name string
	Root *schemadoc.Node
}

// Documents groups the parsed sources of one load. RoomCodes may be nil.
type Documents struct {
	Main      *Document
	Entities  *Document
	RoomCodes *Document
}

// Build turns parsed documents into a registry. Nothing is published when a
// fatal issue is found.
func Build(docs Documents, log zerolog.Logger) (*Result, error) {
	if docs.Main == nil || docs.Entities == nil {
		return nil, fmt.Errorf("main and entity schema documents are required")
	}
	s := &session{b: registry.NewBuilder(), log: log}

	if docs.RoomCodes != nil {
		s.source = docs.RoomCodes.Name
		s.processRoomCodes(docs.RoomCodes.Root)
	}
	s.source = docs.Main.Name
	s.processMain(docs.Main.Root)
	s.source = docs.Entities.Name
	s.processEntities(docs.Entities.Root)
	s.source = ""
	s.b.AddRef(registry.UnknownRef, unknownRefEntries())
	s.checkIntegrity()

	if err := s.fatal.ErrorOrNil(); err != nil {
		return nil, err
	}
	reg, err := s.b.Build()
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("structs", len(reg.StructNames())).
		Int("subclasses", len(reg.SubclassNames())).
		Int("diagnostics", len(s.diags)).
		Msg("schema loaded")
	return &Result{Registry: reg, Diagnostics: s.diags}, nil
}

func unknownRefEntries() []registry.RefEntry {
	entries := make([]registry.RefEntry, 32)
	for i := range entries {
		entries[i] = registry.RefEntry{Code: int64(i + 1), Label: fmt.Sprintf("unknown_%02d", i+1)}
	}
	return entries
}
