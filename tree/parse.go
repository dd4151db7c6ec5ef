package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidJSON is returned by ParseJSON for text that is not valid JSON
var ErrInvalidJSON = errors.New("invalid JSON")

// ParseJSON parses JSON text preserving record key order, numbers are kept as json.Number
func ParseJSON(data []byte) (any, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	value, err := decodeJSON(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return value, nil
}

func decodeJSON(decoder *json.Decoder) (any, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		record := NewRecord()
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected key %v", keyToken)
			}
			value, err := decodeJSON(decoder)
			if err != nil {
				return nil, err
			}
			record.Set(key, value)
		}
		_, err = decoder.Token()
		return record, err
	case '[':
		items := []any{}
		for decoder.More() {
			value, err := decodeJSON(decoder)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		_, err = decoder.Token()
		return items, err
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// Parse parses YAML or JSON text preserving record key order, valid JSON goes through ParseJSON.
// YAML numbers keep their literal text as json.Number when it is a valid JSON number.
func Parse(data []byte) (any, error) {
	if json.Valid(data) {
		return ParseJSON(data)
	}
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to parse resource: %w", err)
	}
	if document.Kind != yaml.DocumentNode || len(document.Content) == 0 {
		return nil, fmt.Errorf("failed to parse resource: empty document")
	}
	return FromNode(document.Content[0])
}

// FromNode converts a yaml node into a tree value
func FromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return FromNode(node.Content[0])
	case yaml.AliasNode:
		return FromNode(node.Alias)
	case yaml.MappingNode:
		record := NewRecord()
		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := FromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			record.Set(node.Content[i].Value, value)
		}
		return record, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := FromNode(child)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.ScalarNode:
		return scalar(node)
	}
	return nil, fmt.Errorf("unsupported yaml node kind: %v at line %d", node.Kind, node.Line)
}

func scalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return nil, err
		}
		return value, nil
	case "!!int", "!!float":
		if json.Valid([]byte(node.Value)) {
			return json.Number(node.Value), nil
		}
		var value float64
		if err := node.Decode(&value); err != nil {
			return nil, err
		}
		return value, nil
	}
	return node.Value, nil
}
