package schemadoc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the kind of a document node.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Object
	Array
)

var kindNames = [...]string{"null", "bool", "number", "string", "object", "array"}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one value of a schema document. Object members keep their source order.
type Node struct {
	Kind    Kind
	Text    string
	Flag    bool
	Members []Member
	Items   []*Node
}

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value *Node
}

// Get returns the value of the first member named key.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != Object {
		return nil, false
	}
	for _, m := range n.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Len returns the number of members or items.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case Object:
		return len(n.Members)
	case Array:
		return len(n.Items)
	}
	return 0
}

// Str returns the value of a string node.
func (n *Node) Str() (string, error) {
	if n == nil || n.Kind != String {
		return "", n.kindError(String)
	}
	return n.Text, nil
}

// Boolean returns the value of a bool node.
func (n *Node) Boolean() (bool, error) {
	if n == nil || n.Kind != Bool {
		return false, n.kindError(Bool)
	}
	return n.Flag, nil
}

// Uint returns the value of a non-negative integral number node. Hexadecimal
// literals with a 0x prefix are accepted.
func (n *Node) Uint() (uint64, error) {
	if n == nil || n.Kind != Number {
		return 0, n.kindError(Number)
	}
	text := strings.TrimSpace(n.Text)
	if rest, ok := cutHexPrefix(text); ok {
		v, err := strconv.ParseUint(rest, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid unsigned number %q: %w", n.Text, err)
		}
		return v, nil
	}
	if v, err := strconv.ParseUint(text, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxUint64 {
		return 0, fmt.Errorf("invalid unsigned number %q", n.Text)
	}
	return uint64(f), nil
}

func (n *Node) kindError(want Kind) error {
	if n == nil {
		return fmt.Errorf("expected %s, got nothing", want)
	}
	return fmt.Errorf("expected %s, got %s", want, n.Kind)
}

// StringOr returns the string member key, or def when the member is absent.
func (n *Node) StringOr(key, def string) (string, error) {
	v, ok := n.Get(key)
	if !ok {
		return def, nil
	}
	s, err := v.Str()
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return s, nil
}

// ParseCode parses a decimal object key used as a numeric code.
func ParseCode(key string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid code %q: %w", key, err)
	}
	return v, nil
}

// ParseHex16 parses a hexadecimal object key, with or without a 0x prefix.
func ParseHex16(key string) (uint16, error) {
	text := strings.TrimSpace(key)
	if rest, ok := cutHexPrefix(text); ok {
		text = rest
	}
	v, err := strconv.ParseUint(text, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid hex code %q: %w", key, err)
	}
	return uint16(v), nil
}

func cutHexPrefix(s string) (string, bool) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], true
	}
	return s, false
}
