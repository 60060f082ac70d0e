package schemadoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Parse decodes a schema document. Names ending in .yaml or .yml are decoded
// as YAML; everything else as JSON with comments and trailing commas.
func Parse(name string, data []byte) (*Node, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes JSON that may contain comments and trailing commas.
func ParseJSON(data []byte) (*Node, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.UseNumber()

	root, err := decodeJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse json: trailing data after document")
	}
	return root, nil
}

func decodeJSON(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			node := &Node{Kind: Object}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", keyTok)
				}
				value, err := decodeJSON(dec)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", key, err)
				}
				node.Members = append(node.Members, Member{Key: key, Value: value})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		case '[':
			node := &Node{Kind: Array}
			for dec.More() {
				item, err := decodeJSON(dec)
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", len(node.Items), err)
				}
				node.Items = append(node.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v)
	case string:
		return &Node{Kind: String, Text: v}, nil
	case json.Number:
		return &Node{Kind: Number, Text: v.String()}, nil
	case bool:
		return &Node{Kind: Bool, Flag: v}, nil
	case nil:
		return &Node{Kind: Null}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// ParseYAML decodes a YAML document.
func ParseYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("parse yaml: empty document")
	}
	root, err := convertYAML(doc.Content[0], 0)
	if err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return root, nil
}

// maxAliasDepth bounds alias chains.
const maxAliasDepth = 64

func convertYAML(n *yaml.Node, depth int) (*Node, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("line %d: alias nesting too deep", n.Line)
	}
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: dangling alias", n.Line)
		}
		return convertYAML(n.Alias, depth+1)
	case yaml.MappingNode:
		node := &Node{Kind: Object}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			v, err := convertYAML(value, depth)
			if err != nil {
				return nil, err
			}
			node.Members = append(node.Members, Member{Key: key.Value, Value: v})
		}
		return node, nil
	case yaml.SequenceNode:
		node := &Node{Kind: Array}
		for _, item := range n.Content {
			v, err := convertYAML(item, depth)
			if err != nil {
				return nil, err
			}
			node.Items = append(node.Items, v)
		}
		return node, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return &Node{Kind: Null}, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return &Node{Kind: Bool, Flag: b}, nil
		case "!!int", "!!float":
			return &Node{Kind: Number, Text: n.Value}, nil
		default:
			return &Node{Kind: String, Text: n.Value}, nil
		}
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}
