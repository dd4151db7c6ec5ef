package keychain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/i18nlens/tree"
)

// Separator joins keys in a serialized key chain
const Separator = "."

// ErrInvalidArgument is returned when a key chain can not be built from the input
var ErrInvalidArgument = errors.New("invalid argument")

// KeyChain is an immutable path of keys leading to a node of a resource tree
//
// Serialized form joins keys with a dot, i.e. "view.home.page.title"
type KeyChain struct {
	keys       []string
	serialized string
}

// New creates a key chain, at least one key is required
func New(keys ...string) (*KeyChain, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: keys should contain at least one element", ErrInvalidArgument)
	}
	owned := make([]string, len(keys))
	copy(owned, keys)
	return &KeyChain{keys: owned, serialized: strings.Join(owned, Separator)}, nil
}

// MustNew creates a key chain or panics
func MustNew(keys ...string) *KeyChain {
	ret, err := New(keys...)
	if err != nil {
		panic(err)
	}
	return ret
}

// Keys returns a copy of the keys
func (k *KeyChain) Keys() []string {
	result := make([]string, len(k.keys))
	copy(result, k.keys)
	return result
}

// Len returns number of keys
func (k *KeyChain) Len() int {
	return len(k.keys)
}

// Last returns the final key
func (k *KeyChain) Last() string {
	return k.keys[len(k.keys)-1]
}

// Serialized returns keys joined with Separator
func (k *KeyChain) Serialized() string {
	return k.serialized
}

func (k *KeyChain) String() string {
	return k.serialized
}

// Equals returns true if both chains have the same serialized form
func (k *KeyChain) Equals(other *KeyChain) bool {
	return other != nil && k.serialized == other.serialized
}

// Append returns a child key chain
func (k *KeyChain) Append(keys ...string) *KeyChain {
	joined := make([]string, 0, len(k.keys)+len(keys))
	joined = append(joined, k.keys...)
	joined = append(joined, keys...)
	return &KeyChain{keys: joined, serialized: strings.Join(joined, Separator)}
}

// Parent returns the parent key chain or nil for a single key chain
func (k *KeyChain) Parent() *KeyChain {
	if len(k.keys) < 2 {
		return nil
	}
	parent := k.keys[:len(k.keys)-1]
	return &KeyChain{keys: parent, serialized: strings.Join(parent, Separator)}
}

// StartsWith returns true if other serialized form is a prefix of k serialized form.
//
// This is a plain string prefix test: "viewer" starts with "view" even though "view" is not its parent.
// Only chains coming from the same tree should be compared.
func (k *KeyChain) StartsWith(other *KeyChain) bool {
	if other == nil {
		return false
	}
	return strings.HasPrefix(k.serialized, other.serialized)
}

// ChildrenOf returns one key chain per own key of a record or array value extending base.
// For a primitive value it returns base itself, or nothing when base is nil.
func ChildrenOf(value any, base *KeyChain) []*KeyChain {
	switch tree.KindOf(value) {
	case tree.KindRecord, tree.KindArray:
		keys := tree.Keys(value)
		result := make([]*KeyChain, 0, len(keys))
		for _, key := range keys {
			if base == nil {
				result = append(result, MustNew(key))
				continue
			}
			result = append(result, base.Append(key))
		}
		return result
	}
	if base == nil {
		return nil
	}
	return []*KeyChain{base}
}

// Parse returns input when it is already a key chain, a string is split on Separator
func Parse(input any) (*KeyChain, error) {
	switch actual := input.(type) {
	case *KeyChain:
		if actual == nil {
			return nil, fmt.Errorf("%w: nil key chain", ErrInvalidArgument)
		}
		return actual, nil
	case string:
		return New(strings.Split(actual, Separator)...)
	case []string:
		return New(actual...)
	}
	return nil, fmt.Errorf("%w: unsupported key chain type %T", ErrInvalidArgument, input)
}
