package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/i18nlens/geometry"
	"github.com/viant/i18nlens/inspector/symbol"
	"github.com/viant/i18nlens/keychain"
	"github.com/viant/i18nlens/selection"
	"github.com/viant/i18nlens/selection/htmlhost"
	"github.com/viant/i18nlens/session"
	"github.com/viant/i18nlens/tree"
)

func resources() map[string]any {
	return map[string]any{
		"en": tree.NewRecord(
			"menu", tree.NewRecord("open", "Open", "close", "Close"),
			"title", "Welcome",
			"footer", tree.NewRecord("title", "Welcome"),
		),
		"de": tree.NewRecord(
			"menu", tree.NewRecord("open", "Öffnen"),
			"title", "Willkommen",
		),
	}
}

const page = `<html><body>
<h1 data-rect="0 0 200 30">Welcome</h1>
<button data-rect="0 40 60 20">Open</button>
<button data-rect="80 40 60 20">Missing</button>
<div class="i18n-editor"><span data-rect="0 100 100 20">Close</span></div>
</body></html>`

func newSession(t *testing.T, opts ...session.Option) *session.Session {
	s, err := session.New(resources(), opts...)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, []string{"de", "en"}, s.Languages())
	assert.Equal(t, "de", s.Language())

	s = newSession(t, session.WithLanguage("en"))
	assert.Equal(t, "en", s.Language())
	open, err := s.Index().GetByKeyChain("menu.open")
	require.NoError(t, err)
	assert.Equal(t, "Open", open.Value)

	_, err = session.New(resources(), session.WithLanguage("fr"))
	assert.ErrorIs(t, err, session.ErrUnknownLanguage)
	_, err = session.New(nil)
	assert.ErrorIs(t, err, session.ErrUnknownLanguage)
}

func TestSession_SwitchLanguage(t *testing.T) {
	s := newSession(t, session.WithLanguage("en"))
	before := s.Index()
	require.NoError(t, s.SwitchLanguage("de"))
	assert.NotSame(t, before, s.Index())
	title, err := s.Index().GetByKeyChain("title")
	require.NoError(t, err)
	assert.Equal(t, "Willkommen", title.Value)

	assert.ErrorIs(t, s.SwitchLanguage("fr"), session.ErrUnknownLanguage)
	assert.Equal(t, "de", s.Language())
}

func TestSession_Edits(t *testing.T) {
	s := newSession(t, session.WithLanguage("en"))
	assert.Equal(t, 1, s.Rebuilds())

	require.NoError(t, s.UpdateAt("en", "menu.open", "Open file"))
	assert.Equal(t, 2, s.Rebuilds())
	open, err := s.Index().GetByKeyChain("menu.open")
	require.NoError(t, err)
	assert.Equal(t, "Open file", open.Value)

	require.NoError(t, s.UpdateAt("en", "menu.open", "Open file"))
	assert.Equal(t, 2, s.Rebuilds(), "unchanged source keeps the index")

	require.NoError(t, s.UpdateAt("de", "menu.close", "Schließen"))
	assert.Equal(t, 2, s.Rebuilds(), "other languages do not rebuild the current index")
	de, _ := s.Resource("de")
	value, ok := tree.Get(de, []string{"menu", "close"})
	require.True(t, ok)
	assert.Equal(t, "Schließen", value)

	require.NoError(t, s.ApplyEdit(`{"menu": {"open": "Edited"}}`))
	assert.Equal(t, 3, s.Rebuilds())
	_, err = s.Index().GetByKeyChain("title")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, s.ApplyEdit(`{"menu": `), tree.ErrInvalidJSON)

	assert.ErrorIs(t, s.UpdateAt("fr", "a", "b"), session.ErrUnknownLanguage)
	assert.ErrorIs(t, s.UpdateAt("en", 5, "b"), keychain.ErrInvalidArgument)

	require.NoError(t, s.UpdateResource("fr", tree.NewRecord("title", "Bienvenue")))
	assert.Equal(t, []string{"de", "en", "fr"}, s.Languages())
}

func TestSession_Compare(t *testing.T) {
	s := newSession(t, session.WithLanguage("en"))
	menu, err := s.Index().GetByKeyChain("menu")
	require.NoError(t, err)
	inner := symbol.Range{
		Start: symbol.Position{Line: menu.Range.Start.Line, Column: menu.Range.Start.Column + 2},
		End:   menu.Range.End,
	}
	comparison, err := s.Compare(inner)
	require.NoError(t, err)
	assert.Same(t, menu, comparison.Symbol)
	assert.Equal(t, []string{"de", "en"}, comparison.Languages)
	require.Len(t, comparison.Rows, 2)
	assert.Equal(t, "menu.open", comparison.Rows[0].KeyChain.Serialized())
	assert.Equal(t, []string{"Öffnen", "Open"}, comparison.Rows[0].Values)
	assert.Equal(t, []string{"", "Close"}, comparison.Rows[1].Values, "missing values are empty")

	comparison, err = s.CompareKeyChain("title", "en")
	require.NoError(t, err)
	require.Len(t, comparison.Rows, 1)
	assert.Equal(t, []string{"Welcome"}, comparison.Rows[0].Values)

	comparison, err = s.CompareKeyChain("menu", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"Open"}, comparison.Rows[0].Values)

	_, err = s.CompareKeyChain("menu", "fr")
	assert.ErrorIs(t, err, session.ErrUnknownLanguage)
	_, err = s.Compare(symbol.NewRange(100, 1, 100, 2))
	assert.ErrorIs(t, err, session.ErrNotFound)

	r, err := s.Highlight("menu.open")
	require.NoError(t, err)
	assert.Equal(t, symbol.NewRange(3, 5, 3, 11), r)
	_, err = s.Highlight("menu.missing")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func keyChains(resolution session.Resolution) []string {
	result := []string{}
	for _, aSymbol := range resolution.Symbols {
		result = append(result, aSymbol.KeyChain.Serialized())
	}
	return result
}

func TestSession_Resolve(t *testing.T) {
	doc, err := htmlhost.ParseString(page)
	require.NoError(t, err)
	s := newSession(t, session.WithLanguage("en"), session.WithSelectionOptions(selection.WithExclusion(htmlhost.ClassMatcher())))

	assert.ErrorIs(t, s.Select(geometry.NewBox(0, 0, 1, 1)), session.ErrDetached)
	var notified int
	cancel := s.Subscribe(func(resolutions []session.Resolution) {
		notified++
	})
	defer cancel()

	s.Attach(doc, doc.Body())
	require.NotNil(t, s.Controller())
	require.NotNil(t, s.Watcher())
	assert.Empty(t, s.Resolutions())

	controller := s.Controller()
	require.True(t, controller.PointerDown(selection.PointerEvent{Point: geometry.Point{X: 10, Y: 10}, Modifier: true}))
	require.True(t, controller.PointerMove(selection.PointerEvent{Point: geometry.Point{X: 100, Y: 50}, Modifier: true, Pressure: 1}))
	require.True(t, controller.PointerUp(selection.PointerEvent{Point: geometry.Point{X: 100, Y: 50}}))

	resolutions := s.Resolutions()
	require.Len(t, resolutions, 3)
	assert.Equal(t, "Welcome", resolutions[0].Fragment.Text)
	assert.Equal(t, []string{"title", "footer.title"}, keyChains(resolutions[0]))
	assert.Equal(t, []string{"menu.open"}, keyChains(resolutions[1]))
	assert.Equal(t, "Missing", resolutions[2].Fragment.Text)
	assert.Empty(t, resolutions[2].Symbols)
	assert.Len(t, session.Symbols(resolutions), 3)
	assert.Greater(t, notified, 0)

	before := resolutions[1].Symbols[0]
	require.NoError(t, s.SwitchLanguage("de"))
	resolutions = s.Resolutions()
	require.Len(t, resolutions, 3)
	assert.Empty(t, resolutions[0].Symbols, "resolutions follow the rebuilt index")
	require.NoError(t, s.SwitchLanguage("en"))
	resolutions = s.Resolutions()
	require.Len(t, resolutions[1].Symbols, 1)
	assert.NotSame(t, before, resolutions[1].Symbols[0])

	require.NoError(t, s.Select(geometry.NewBox(5, 45, 6, 46)))
	resolutions = s.Resolutions()
	require.Len(t, resolutions, 1)
	assert.Equal(t, []string{"menu.open"}, keyChains(resolutions[0]))

	s.Detach()
	assert.Nil(t, s.Controller())
	assert.Empty(t, s.Resolutions())
}
