package memlayout

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s2inspect/memlayout/internal/hierarchy"
	"github.com/s2inspect/memlayout/internal/loader"
)

// Default schema document names.
const (
	DefaultMainSource     = "Spelunky2.json"
	DefaultEntitySource   = "Spelunky2Entities.json"
	DefaultRoomCodeSource = "Spelunky2RoomCodes.json"
)

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved(def int) int {
	if !o.set {
		return def
	}
	return o.value
}

type stringOption struct {
	value string
	set   bool
}

func (o stringOption) resolved(def string) string {
	if !o.set {
		return def
	}
	return o.value
}

// LoadOptions configures schema loading and the query caches of the loaded
// schema. The zero value is valid and uses the default document names.
type LoadOptions struct {
	mainSource          stringOption
	entitySource        stringOption
	roomCodeSource      stringOption
	classifierCacheSize intOption
	logger              *zerolog.Logger
}

type resolvedLoadOptions struct {
	sources             loader.Sources
	logger              zerolog.Logger
	classifierCacheSize int
}

// NewLoadOptions returns a default, valid load options value.
func NewLoadOptions() LoadOptions {
	return LoadOptions{}
}

// Validate validates load options values.
func (o LoadOptions) Validate() error {
	_, err := o.withDefaults()
	return err
}

// WithMainSource sets the name of the struct definition document.
func (o LoadOptions) WithMainSource(name string) LoadOptions {
	o.mainSource = stringOption{value: name, set: true}
	return o
}

// WithEntitySource sets the name of the entity subclass document.
func (o LoadOptions) WithEntitySource(name string) LoadOptions {
	o.entitySource = stringOption{value: name, set: true}
	return o
}

// WithRoomCodeSource sets the name of the room code document. An empty name
// skips room codes.
func (o LoadOptions) WithRoomCodeSource(name string) LoadOptions {
	o.roomCodeSource = stringOption{value: name, set: true}
	return o
}

// WithLogger sets the logger used for load diagnostics and query misses.
func (o LoadOptions) WithLogger(logger zerolog.Logger) LoadOptions {
	o.logger = &logger
	return o
}

// WithClassifierCacheSize sets how many entity type names keep their
// classification cached (must be positive).
func (o LoadOptions) WithClassifierCacheSize(size int) LoadOptions {
	o.classifierCacheSize = intOption{value: size, set: true}
	return o
}

func (o LoadOptions) withDefaults() (resolvedLoadOptions, error) {
	sources := loader.Sources{
		Main:      o.mainSource.resolved(DefaultMainSource),
		Entities:  o.entitySource.resolved(DefaultEntitySource),
		RoomCodes: o.roomCodeSource.resolved(DefaultRoomCodeSource),
	}
	if sources.Main == "" {
		return resolvedLoadOptions{}, fmt.Errorf("main source name is empty")
	}
	if sources.Entities == "" {
		return resolvedLoadOptions{}, fmt.Errorf("entity source name is empty")
	}
	cacheSize := o.classifierCacheSize.resolved(hierarchy.DefaultCacheSize)
	if cacheSize <= 0 {
		return resolvedLoadOptions{}, fmt.Errorf("classifier cache size must be positive, got %d", cacheSize)
	}
	logger := zerolog.Nop()
	if o.logger != nil {
		logger = *o.logger
	}
	return resolvedLoadOptions{
		sources:             sources,
		logger:              logger,
		classifierCacheSize: cacheSize,
	}, nil
}
