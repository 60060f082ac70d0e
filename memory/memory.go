// Package memory defines the byte-access capability the layout engine uses to
// follow pointers in a live process, and an in-process implementation backed
// by captured memory regions.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrInvalidAddress is returned when an address is not readable.
var ErrInvalidAddress = errors.New("invalid address")

// Reader reads fixed-width values from a process address space.
type Reader interface {
	// IsValid reports whether size bytes at addr are readable.
	IsValid(addr, size uint64) bool
	// ReadQword reads the little-endian 64-bit value at addr.
	ReadQword(addr uint64) (uint64, error)
}

type region struct {
	base uint64
	data []byte
}

func (r region) end() uint64 {
	return r.base + uint64(len(r.data))
}

// Image is a sparse address space made of non-overlapping captured regions.
// It is safe for concurrent use.
type Image struct {
	mu      sync.RWMutex
	regions []region
}

// NewImage returns an empty image.
func NewImage() *Image {
	return &Image{}
}

// Map places data at base. Regions may not overlap.
func (m *Image) Map(base uint64, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("map region at %#x: empty data", base)
	}
	if base+uint64(len(data)) < base {
		return fmt.Errorf("map region at %#x: wraps address space", base)
	}
	r := region{base: base, data: append([]byte(nil), data...)}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := sort.Search(len(m.regions), func(i int) bool { return m.regions[i].base >= base })
	if i > 0 && m.regions[i-1].end() > base {
		return fmt.Errorf("map region at %#x: overlaps region at %#x", base, m.regions[i-1].base)
	}
	if i < len(m.regions) && r.end() > m.regions[i].base {
		return fmt.Errorf("map region at %#x: overlaps region at %#x", base, m.regions[i].base)
	}
	m.regions = append(m.regions, region{})
	copy(m.regions[i+1:], m.regions[i:])
	m.regions[i] = r
	return nil
}

// WriteQword stores a little-endian 64-bit value at addr inside a mapped region.
func (m *Image) WriteQword(addr, value uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf, ok := m.slice(addr, 8)
	if !ok {
		return fmt.Errorf("write %#x: %w", addr, ErrInvalidAddress)
	}
	binary.LittleEndian.PutUint64(buf, value)
	return nil
}

// IsValid reports whether size bytes at addr lie inside one mapped region.
func (m *Image) IsValid(addr, size uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.slice(addr, size)
	return ok
}

// ReadQword reads the little-endian 64-bit value at addr.
func (m *Image) ReadQword(addr uint64) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	buf, ok := m.slice(addr, 8)
	if !ok {
		return 0, fmt.Errorf("read %#x: %w", addr, ErrInvalidAddress)
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// Read copies size bytes starting at addr.
func (m *Image) Read(addr, size uint64) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	buf, ok := m.slice(addr, size)
	if !ok {
		return nil, fmt.Errorf("read %#x+%d: %w", addr, size, ErrInvalidAddress)
	}
	return append([]byte(nil), buf...), nil
}

func (m *Image) slice(addr, size uint64) ([]byte, bool) {
	if addr == 0 || addr+size < addr {
		return nil, false
	}
	i := sort.Search(len(m.regions), func(i int) bool { return m.regions[i].end() > addr })
	if i == len(m.regions) {
		return nil, false
	}
	r := m.regions[i]
	if addr < r.base || addr+size > r.end() {
		return nil, false
	}
	off := addr - r.base
	return r.data[off : off+size], true
}
