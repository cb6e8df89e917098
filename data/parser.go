package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

const unknownFieldErrorPrefix = "json: unknown field "

// ParseError is a decoding error that could be traced to a position in the source document.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseJSONOrYAML decodes a JSON or YAML document into target using the target's JSON field
// names and unmarshalers. Properties with no matching field are ignored.
func ParseJSONOrYAML(data []byte, target interface{}) error {
	return parseDocument(data, target, false)
}

// ParseJSONOrYAMLStrict is ParseJSONOrYAML, except that a property with no matching field is an
// error. It is used for user-authored fixture and suite files, where a misspelled property would
// otherwise be silently ignored.
func ParseJSONOrYAMLStrict(data []byte, target interface{}) error {
	return parseDocument(data, target, true)
}

func parseDocument(data []byte, target interface{}, strict bool) error {
	if json.Valid(data) {
		return locateJSONError(decodeJSON(data, target, strict), data)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	value, err := yamlToJSONValue(&doc)
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return locateYAMLError(decodeJSON(jsonData, target, strict), &doc)
}

func decodeJSON(data []byte, target interface{}, strict bool) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if strict {
		decoder.DisallowUnknownFields()
	}
	return decoder.Decode(target)
}

// yamlToJSONValue converts a YAML node tree into values that encoding/json can marshal. Aliases
// and merge keys are expanded; scalar map keys of any type are used as their text.
func yamlToJSONValue(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlToJSONValue(n.Content[0])
	case yaml.AliasNode:
		return yamlToJSONValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]interface{}, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := yamlToJSONValue(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case yaml.MappingNode:
		props := make(map[string]interface{}, len(n.Content)/2)
		if err := addMappingProperties(props, n); err != nil {
			return nil, err
		}
		return props, nil
	default:
		var value interface{}
		if err := n.Decode(&value); err != nil {
			return nil, &ParseError{Line: n.Line, Column: n.Column, Err: err}
		}
		if f, ok := value.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			return nil, &ParseError{Line: n.Line, Column: n.Column,
				Err: fmt.Errorf("%s cannot be represented in JSON", n.Value)}
		}
		return value, nil
	}
}

// addMappingProperties copies the pairs of a mapping node into props. Properties merged in with
// "<<" never replace ones that are set explicitly, and earlier merge sources win over later ones.
func addMappingProperties(props map[string]interface{}, n *yaml.Node) error {
	var mergeSources []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, valueNode := n.Content[i], n.Content[i+1]
		if key.ShortTag() == "!!merge" {
			mergeSources = append(mergeSources, valueNode)
			continue
		}
		if key.Kind != yaml.ScalarNode {
			return &ParseError{Line: key.Line, Column: key.Column, Err: errors.New("only scalar map keys are allowed")}
		}
		if _, exists := props[key.Value]; exists {
			return &ParseError{Line: key.Line, Column: key.Column,
				Err: fmt.Errorf("property %q is defined more than once", key.Value)}
		}
		value, err := yamlToJSONValue(valueNode)
		if err != nil {
			return err
		}
		props[key.Value] = value
	}
	for _, source := range mergeSources {
		source = resolveAlias(source)
		mappings := []*yaml.Node{source}
		if source.Kind == yaml.SequenceNode {
			mappings = source.Content
		}
		for _, m := range mappings {
			m = resolveAlias(m)
			if m.Kind != yaml.MappingNode {
				return &ParseError{Line: m.Line, Column: m.Column, Err: errors.New("only maps can be merged with <<")}
			}
			merged := make(map[string]interface{})
			if err := addMappingProperties(merged, m); err != nil {
				return err
			}
			for k, v := range merged {
				if _, exists := props[k]; !exists {
					props[k] = v
				}
			}
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// locateJSONError adds the source position to a decoding error from a JSON document. Type
// errors carry a byte offset; unknown properties are found by name.
func locateJSONError(err error, data []byte) error {
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Offset > 0 {
		line, column := positionOfOffset(data, typeErr.Offset)
		return &ParseError{Line: line, Column: column, Err: err}
	}
	var doc yaml.Node
	if yaml.Unmarshal(data, &doc) != nil {
		return err
	}
	return locateYAMLError(err, &doc)
}

// locateYAMLError adds the source position to a decoding error, if the value it complains about
// can be found in the document.
func locateYAMLError(err error, doc *yaml.Node) error {
	if err == nil {
		return nil
	}
	var node *yaml.Node
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		node = findPath(doc, strings.Split(typeErr.Field, "."))
	case strings.HasPrefix(err.Error(), unknownFieldErrorPrefix):
		if name, unquoteErr := strconv.Unquote(strings.TrimPrefix(err.Error(), unknownFieldErrorPrefix)); unquoteErr == nil {
			node = findKey(doc, name)
		}
	}
	if node == nil {
		return err
	}
	return &ParseError{Line: node.Line, Column: node.Column, Err: err}
}

// findPath returns the value node at a dotted property path. Sequences along the way are
// searched in order, so the first element that has the path wins.
func findPath(n *yaml.Node, path []string) *yaml.Node {
	n = resolveAlias(n)
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return findPath(n.Content[0], path)
	}
	if len(path) == 0 {
		return n
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == path[0] {
				return findPath(n.Content[i+1], path[1:])
			}
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if found := findPath(item, path); found != nil {
				return found
			}
		}
	}
	return nil
}

// findKey returns the first map key node with the given name, searching depth first.
func findKey(n *yaml.Node, name string) *yaml.Node {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == name {
				return n.Content[i]
			}
			if found := findKey(n.Content[i+1], name); found != nil {
				return found
			}
		}
		return nil
	}
	for _, child := range n.Content {
		if found := findKey(child, name); found != nil {
			return found
		}
	}
	return nil
}

func positionOfOffset(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	column = len(before) - bytes.LastIndexByte(before, '\n')
	return line, column
}
