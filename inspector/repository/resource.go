package repository

import (
	"fmt"
	"path"
	"strings"

	"github.com/viant/i18nlens/tree"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Resource is a translation tree of one language and namespace
type Resource struct {
	Language  string
	Namespace string
	URL       string
	Format    string
	Value     any
}

// FormatOf returns resource format for a file name or empty string if the file is not a resource
func FormatOf(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return ""
}

// Extension returns file extension of a format
func Extension(format string) string {
	if format == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// Decode parses resource content
func Decode(format string, data []byte) (any, error) {
	switch format {
	case FormatJSON:
		return tree.ParseJSON(data)
	case FormatYAML:
		return tree.Parse(data)
	}
	return nil, fmt.Errorf("unsupported resource format: %q", format)
}

// Encode serializes resource value, JSON uses the canonical two space layout
func Encode(format string, value any) ([]byte, error) {
	switch format {
	case FormatJSON:
		return tree.Marshal(value)
	case FormatYAML:
		return tree.MarshalYAML(value)
	}
	return nil, fmt.Errorf("unsupported resource format: %q", format)
}

// Values returns resource values of a namespace keyed by language
func Values(resources []*Resource, namespace string) map[string]any {
	result := map[string]any{}
	for _, resource := range resources {
		if resource.Namespace == namespace {
			result[resource.Language] = resource.Value
		}
	}
	return result
}

// Namespaces returns distinct namespaces in load order
func Namespaces(resources []*Resource) []string {
	var result []string
	seen := map[string]bool{}
	for _, resource := range resources {
		if !seen[resource.Namespace] {
			seen[resource.Namespace] = true
			result = append(result, resource.Namespace)
		}
	}
	return result
}

func baseName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
