package keychain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/i18nlens/keychain"
	"github.com/viant/i18nlens/tree"
)

func TestNew(t *testing.T) {
	_, err := keychain.New()
	assert.ErrorIs(t, err, keychain.ErrInvalidArgument)

	chain, err := keychain.New("view", "home", "title")
	require.NoError(t, err)
	assert.Equal(t, "title", chain.Last())
	assert.Equal(t, "view.home.title", chain.Serialized())
	assert.Equal(t, []string{"view", "home", "title"}, chain.Keys())
	assert.Equal(t, "view.home", chain.Parent().Serialized())
	assert.Nil(t, keychain.MustNew("view").Parent())
}

func TestKeyChain_StartsWith(t *testing.T) {
	tests := []struct {
		description string
		chain       *keychain.KeyChain
		other       *keychain.KeyChain
		expect      bool
	}{
		{description: "parent", chain: keychain.MustNew("view", "home"), other: keychain.MustNew("view"), expect: true},
		{description: "same chain", chain: keychain.MustNew("view"), other: keychain.MustNew("view"), expect: true},
		{description: "child does not prefix parent", chain: keychain.MustNew("view"), other: keychain.MustNew("view", "home"), expect: false},
		{description: "plain prefix limitation", chain: keychain.MustNew("viewer"), other: keychain.MustNew("view"), expect: true},
		{description: "plain prefix across keys", chain: keychain.MustNew("ab", "c"), other: keychain.MustNew("ab"), expect: true},
		{description: "unrelated", chain: keychain.MustNew("menu"), other: keychain.MustNew("view"), expect: false},
		{description: "nil", chain: keychain.MustNew("menu"), other: nil, expect: false},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.chain.StartsWith(tc.other))
		})
	}
}

func TestChildrenOf(t *testing.T) {
	base := keychain.MustNew("menu")
	tests := []struct {
		description string
		value       any
		base        *keychain.KeyChain
		expect      []string
	}{
		{description: "record", value: tree.NewRecord("open", "Open", "close", "Close"), base: base, expect: []string{"menu.open", "menu.close"}},
		{description: "array", value: []any{"a", "b"}, base: base, expect: []string{"menu.0", "menu.1"}},
		{description: "primitive", value: "Open", base: base, expect: []string{"menu"}},
		{description: "primitive without base", value: "Open", base: nil, expect: []string{}},
		{description: "record without base", value: tree.NewRecord("a", 1), base: nil, expect: []string{"a"}},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			actual := []string{}
			for _, chain := range keychain.ChildrenOf(tc.value, tc.base) {
				actual = append(actual, chain.Serialized())
			}
			assert.Equal(t, tc.expect, actual)
		})
	}
}

func TestParse(t *testing.T) {
	chain := keychain.MustNew("a", "b")
	parsed, err := keychain.Parse(chain)
	require.NoError(t, err)
	assert.Same(t, chain, parsed)

	parsed, err = keychain.Parse("view.home.title")
	require.NoError(t, err)
	assert.Equal(t, []string{"view", "home", "title"}, parsed.Keys())

	_, err = keychain.Parse(42)
	assert.ErrorIs(t, err, keychain.ErrInvalidArgument)
}
