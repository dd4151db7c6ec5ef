package tree

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
)

// Kind classifies a tree node
type Kind string

const (
	KindArray     Kind = "array"
	KindRecord    Kind = "record"
	KindPrimitive Kind = "primitive"
)

// KindOf returns node kind, map[string]any is treated as a record
func KindOf(value any) Kind {
	switch value.(type) {
	case *Record, map[string]any:
		return KindRecord
	case []any:
		return KindArray
	}
	return KindPrimitive
}

// Keys returns own keys of a record or indexes of an array, nil for primitives
func Keys(value any) []string {
	switch actual := value.(type) {
	case *Record:
		return actual.Keys()
	case map[string]any:
		return sortedKeys(actual)
	case []any:
		result := make([]string, len(actual))
		for i := range actual {
			result[i] = strconv.Itoa(i)
		}
		return result
	}
	return nil
}

// Child returns own child of a record or array
func Child(value any, key string) (any, bool) {
	switch actual := value.(type) {
	case *Record:
		return actual.Get(key)
	case map[string]any:
		child, ok := actual[key]
		return child, ok
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(actual) {
			return nil, false
		}
		return actual[idx], true
	}
	return nil, false
}

// Get returns the node found at keys path
func Get(value any, keys []string) (any, bool) {
	current := value
	for _, key := range keys {
		child, ok := Child(current, key)
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}

// Set returns a copy of value with the node at keys path replaced by newValue.
// Missing or primitive intermediate nodes are replaced with records; the given value is never modified.
func Set(value any, keys []string, newValue any) any {
	if len(keys) == 0 {
		return newValue
	}
	key := keys[0]
	switch actual := value.(type) {
	case *Record:
		clone := actual.Clone()
		child, _ := actual.Get(key)
		clone.Set(key, Set(child, keys[1:], newValue))
		return clone
	case map[string]any:
		clone := make(map[string]any, len(actual)+1)
		for k, v := range actual {
			clone[k] = v
		}
		clone[key] = Set(actual[key], keys[1:], newValue)
		return clone
	case []any:
		if idx, err := strconv.Atoi(key); err == nil && idx >= 0 && idx <= len(actual) {
			clone := make([]any, len(actual), len(actual)+1)
			copy(clone, actual)
			if idx == len(actual) {
				clone = append(clone, Set(nil, keys[1:], newValue))
			} else {
				clone[idx] = Set(actual[idx], keys[1:], newValue)
			}
			return clone
		}
	}
	record := NewRecord()
	record.Set(key, Set(nil, keys[1:], newValue))
	return record
}

// Equal returns true if both values are deeply equal, numbers are compared by value
func Equal(a, b any) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	switch KindOf(a) {
	case KindRecord:
		aKeys, bKeys := Keys(a), Keys(b)
		if len(aKeys) != len(bKeys) {
			return false
		}
		for _, key := range aKeys {
			aChild, _ := Child(a, key)
			bChild, ok := Child(b, key)
			if !ok || !Equal(aChild, bChild) {
				return false
			}
		}
		return true
	case KindArray:
		aItems, bItems := a.([]any), b.([]any)
		if len(aItems) != len(bItems) {
			return false
		}
		for i := range aItems {
			if !Equal(aItems[i], bItems[i]) {
				return false
			}
		}
		return true
	}
	if aNum, ok := asFloat(a); ok {
		bNum, ok := asFloat(b)
		return ok && aNum == bNum
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(value any) (float64, bool) {
	switch actual := value.(type) {
	case json.Number:
		f, err := actual.Float64()
		return f, err == nil
	case float64:
		return actual, true
	case float32:
		return float64(actual), true
	case int:
		return float64(actual), true
	case int64:
		return float64(actual), true
	case int32:
		return float64(actual), true
	case uint:
		return float64(actual), true
	case uint64:
		return float64(actual), true
	}
	return 0, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
