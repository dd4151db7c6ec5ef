package tree

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ToNode converts a tree value into a yaml node keeping record key order
func ToNode(value any) (*yaml.Node, error) {
	switch actual := value.(type) {
	case *Record:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range actual.Keys() {
			child, _ := actual.Get(key)
			if err := appendPair(node, key, child); err != nil {
				return nil, err
			}
		}
		return node, nil
	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range sortedKeys(actual) {
			if err := appendPair(node, key, actual[key]); err != nil {
				return nil, err
			}
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range actual {
			child, err := ToNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: actual}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(actual)}, nil
	case json.Number:
		tag := "!!int"
		if _, err := actual.Int64(); err != nil {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: actual.String()}, nil
	}
	node := &yaml.Node{}
	if err := node.Encode(value); err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", value, err)
	}
	return node, nil
}

func appendPair(node *yaml.Node, key string, value any) error {
	child, err := ToNode(value)
	if err != nil {
		return err
	}
	node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
	return nil
}

// MarshalYAML serializes value as YAML keeping record key order
func MarshalYAML(value any) ([]byte, error) {
	node, err := ToNode(value)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}
