package registry

import "image/color"

// RootClass is the class every entity subclass chain terminates at.
const RootClass = "Entity"

// UnknownRef is the fallback ref table for flags fields without titles.
const UnknownRef = "unknown"

// RefEntry is one labelled code of a ref table.
type RefEntry struct {
	Code  int64
	Label string
}

// RefTable is a named code -> label table. Lookups return the first match.
type RefTable struct {
	Name    string
	Entries []RefEntry
}

// Label returns the label of the first entry with the given code.
func (t RefTable) Label(code int64) (string, bool) {
	for _, e := range t.Entries {
		if e.Code == code {
			return e.Label, true
		}
	}
	return "", false
}

// VirtualFunction describes one vtable slot declared by a type.
type VirtualFunction struct {
	Index  uint64
	Name   string
	Params string
	Return string
	Owner  string
}

// Classifier maps runtime entity type names matching Pattern to Class.
type Classifier struct {
	Pattern string
	Class   string
}

// RoomCode is a labelled, coloured level-generation room code.
type RoomCode struct {
	ID    uint16
	Name  string
	Color color.RGBA
}

// UnknownRoomCode is returned for room codes the schema does not define.
var UnknownRoomCode = RoomCode{
	Name:  "Unknown room code",
	Color: color.RGBA{R: 192, G: 192, B: 192, A: 255},
}
