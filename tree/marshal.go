package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Indent is the canonical indentation used to serialize resources.
// Symbol indexing relies on text produced with this layout.
const Indent = "  "

// Marshal serializes value with two space indentation, keys are written in record order
func Marshal(value any) ([]byte, error) {
	return MarshalIndent(value, Indent)
}

// MarshalIndent serializes value with given indentation, an empty indent produces compact output
func MarshalIndent(value any, indent string) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := write(buf, value, indent, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compact returns single line serialization of value
func Compact(value any) (string, error) {
	data, err := MarshalIndent(value, "")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatNumber writes a number literal the way JSON.stringify prints the parsed value (1e5 as 100000, 1.50 as 1.5)
func formatNumber(number json.Number) string {
	value, err := strconv.ParseFloat(number.String(), 64)
	if err != nil {
		return number.String()
	}
	if value == 0 {
		return "0"
	}
	formatted, err := json.Marshal(value)
	if err != nil {
		return number.String()
	}
	return string(formatted)
}

func write(buf *bytes.Buffer, value any, indent, prefix string) error {
	switch actual := value.(type) {
	case *Record:
		return writeObject(buf, actual.Keys(), func(key string) any {
			v, _ := actual.Get(key)
			return v
		}, indent, prefix)
	case map[string]any:
		return writeObject(buf, sortedKeys(actual), func(key string) any {
			return actual[key]
		}, indent, prefix)
	case []any:
		if len(actual) == 0 {
			buf.WriteString("[]")
			return nil
		}
		inner := prefix + indent
		buf.WriteByte('[')
		for i, item := range actual {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, inner)
			if err := write(buf, item, indent, inner); err != nil {
				return err
			}
		}
		newline(buf, indent, prefix)
		buf.WriteByte(']')
		return nil
	case string:
		return writeString(buf, actual)
	case json.Number:
		buf.WriteString(formatNumber(actual))
		return nil
	case nil:
		buf.WriteString("null")
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %T: %w", value, err)
	}
	if indent == "" {
		return json.Compact(buf, raw)
	}
	return json.Indent(buf, raw, prefix, indent)
}

func writeObject(buf *bytes.Buffer, keys []string, valueOf func(key string) any, indent, prefix string) error {
	if len(keys) == 0 {
		buf.WriteString("{}")
		return nil
	}
	inner := prefix + indent
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		newline(buf, indent, inner)
		if err := writeString(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if indent != "" {
			buf.WriteByte(' ')
		}
		if err := write(buf, valueOf(key), indent, inner); err != nil {
			return err
		}
	}
	newline(buf, indent, prefix)
	buf.WriteByte('}')
	return nil
}

func newline(buf *bytes.Buffer, indent, prefix string) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(prefix)
}

func writeString(buf *bytes.Buffer, text string) error {
	encoded := &bytes.Buffer{}
	encoder := json.NewEncoder(encoded)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(text); err != nil {
		return err
	}
	buf.WriteString(strings.TrimSuffix(encoded.String(), "\n"))
	return nil
}
