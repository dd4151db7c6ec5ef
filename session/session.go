package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/i18nlens/geometry"
	"github.com/viant/i18nlens/inspector/index"
	"github.com/viant/i18nlens/inspector/symbol"
	"github.com/viant/i18nlens/keychain"
	"github.com/viant/i18nlens/selection"
	"github.com/viant/i18nlens/tree"
)

var (
	// ErrUnknownLanguage is returned for languages without a resource
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrDetached is returned by selection operations before Attach
	ErrDetached = errors.New("session is not attached to a document")
	// ErrNotFound is returned by symbol lookups
	ErrNotFound = index.ErrNotFound
)

// Session coordinates per language resources, the symbol index of the current language
// and the selection over an attached document
type Session struct {
	logger           zerolog.Logger
	selectionOptions []selection.Option

	update      sync.Mutex // serializes index rebuilds
	mu          sync.RWMutex
	resources   map[string]any
	languages   []string
	language    string
	index       *index.Index
	resolutions []Resolution
	rebuilds    int

	attachMu    sync.Mutex
	registry    *selection.Registry
	controller  *selection.Controller
	watcher     *selection.Watcher
	unsubscribe func()

	listenerMu sync.Mutex
	listeners  map[int]func(resolutions []Resolution)
	listenerID int
}

// New creates a session over resources keyed by language
func New(resources map[string]any, opts ...Option) (*Session, error) {
	ret := &Session{
		logger:    zerolog.Nop(),
		resources: make(map[string]any, len(resources)),
		listeners: map[int]func([]Resolution){},
	}
	for language, value := range resources {
		ret.resources[language] = value
		ret.languages = append(ret.languages, language)
	}
	sort.Strings(ret.languages)
	for _, opt := range opts {
		opt(ret)
	}
	if len(ret.languages) == 0 {
		return nil, fmt.Errorf("%w: no resources", ErrUnknownLanguage)
	}
	if ret.language == "" {
		ret.language = ret.languages[0]
	}
	if _, ok := ret.resources[ret.language]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownLanguage, ret.language)
	}
	if err := ret.rebuild(ret.language); err != nil {
		return nil, err
	}
	return ret, nil
}

// Languages returns sorted languages
func (s *Session) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.languages...)
}

// Language returns current language
func (s *Session) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// Resource returns resource value of a language
func (s *Session) Resource(language string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.resources[language]
	return value, ok
}

// Index returns symbol index of the current language
func (s *Session) Index() *index.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Rebuilds returns number of index builds, unchanged sources are not rebuilt
func (s *Session) Rebuilds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rebuilds
}

// SwitchLanguage makes language current and rebuilds the index
func (s *Session) SwitchLanguage(language string) error {
	if _, ok := s.Resource(language); !ok {
		return fmt.Errorf("%w: %v", ErrUnknownLanguage, language)
	}
	return s.rebuild(language)
}

// ApplyEdit replaces current language resource with edited JSON text
func (s *Session) ApplyEdit(text string) error {
	value, err := tree.ParseJSON([]byte(text))
	if err != nil {
		return err
	}
	return s.UpdateResource(s.Language(), value)
}

// UpdateResource replaces resource of a language, a new language is added
func (s *Session) UpdateResource(language string, value any) error {
	if language == "" {
		return fmt.Errorf("%w: empty", ErrUnknownLanguage)
	}
	s.mu.Lock()
	if _, ok := s.resources[language]; !ok {
		s.languages = append(s.languages, language)
		sort.Strings(s.languages)
	}
	s.resources[language] = value
	current := s.language
	s.mu.Unlock()
	if language != current {
		return nil
	}
	return s.rebuild(language)
}

// UpdateAt sets value at key chain of a language resource
func (s *Session) UpdateAt(language string, chain any, value any) error {
	keyChain, err := keychain.Parse(chain)
	if err != nil {
		return err
	}
	resource, ok := s.Resource(language)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownLanguage, language)
	}
	return s.UpdateResource(language, tree.Set(resource, keyChain.Keys(), value))
}

// rebuild serializes language resource and swaps the index unless the source is unchanged
func (s *Session) rebuild(language string) error {
	s.update.Lock()
	defer s.update.Unlock()
	resource, _ := s.Resource(language)
	serialized, err := tree.Marshal(resource)
	if err != nil {
		return fmt.Errorf("failed to serialize %v resource: %w", language, err)
	}
	s.mu.RLock()
	previous, previousLanguage := s.index, s.language
	s.mu.RUnlock()
	if previous != nil && previousLanguage == language {
		if fingerprint, err := index.Hash(serialized); err == nil && fingerprint == previous.Fingerprint() {
			s.logger.Debug().Str("language", language).Msg("resource unchanged, index kept")
			return nil
		}
	}
	idx := index.New(resource, string(serialized), index.WithLogger(s.logger))
	s.mu.Lock()
	s.index = idx
	s.language = language
	s.rebuilds++
	s.mu.Unlock()
	s.logger.Debug().Str("language", language).Int("symbols", idx.Len()).Int("dropped", idx.Dropped()).Msg("index rebuilt")
	s.resolve(s.selected())
	return nil
}

// Attach starts tracking text fragments under root of a host document
func (s *Session) Attach(host selection.Host, root selection.Node, opts ...selection.Option) {
	s.Detach()
	options := append([]selection.Option{selection.WithLogger(s.logger)}, s.selectionOptions...)
	options = append(options, opts...)
	registry := selection.NewRegistry(host, root, options...)
	controller := selection.NewController(registry, options...)
	watcher := selection.NewWatcher(registry, options...)

	s.attachMu.Lock()
	s.registry, s.controller, s.watcher = registry, controller, watcher
	s.unsubscribe = registry.Subscribe(s.resolve)
	s.attachMu.Unlock()
	watcher.Start()
}

// Detach stops tracking the document and clears resolutions
func (s *Session) Detach() {
	s.attachMu.Lock()
	watcher, unsubscribe := s.watcher, s.unsubscribe
	s.registry, s.controller, s.watcher, s.unsubscribe = nil, nil, nil, nil
	s.attachMu.Unlock()
	if watcher == nil {
		return
	}
	unsubscribe()
	watcher.Stop()
	s.resolve(nil)
}

// Controller returns selection controller or nil when detached
func (s *Session) Controller() *selection.Controller {
	s.attachMu.Lock()
	defer s.attachMu.Unlock()
	return s.controller
}

// Watcher returns mutation watcher or nil when detached
func (s *Session) Watcher() *selection.Watcher {
	s.attachMu.Lock()
	defer s.attachMu.Unlock()
	return s.watcher
}

// Select sets selection rectangle without pointer events
func (s *Session) Select(rect geometry.Box) error {
	s.attachMu.Lock()
	registry := s.registry
	s.attachMu.Unlock()
	if registry == nil {
		return ErrDetached
	}
	registry.Select(rect)
	return nil
}

func (s *Session) selected() []*selection.Fragment {
	s.attachMu.Lock()
	registry := s.registry
	s.attachMu.Unlock()
	if registry == nil {
		return nil
	}
	return registry.Selected()
}

// Resolutions returns symbols resolved for the current selection
func (s *Session) Resolutions() []Resolution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolutions
}

// Subscribe registers a callback invoked when resolutions change
func (s *Session) Subscribe(fn func(resolutions []Resolution)) (cancel func()) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listenerID++
	id := s.listenerID
	s.listeners[id] = fn
	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

func (s *Session) resolve(selected []*selection.Fragment) {
	resolutions := Resolve(s.Index(), selected)
	s.mu.Lock()
	s.resolutions = resolutions
	s.mu.Unlock()

	s.listenerMu.Lock()
	listeners := make([]func([]Resolution), 0, len(s.listeners))
	for i := 1; i <= s.listenerID; i++ {
		if fn, ok := s.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.listenerMu.Unlock()
	for _, fn := range listeners {
		fn(resolutions)
	}
}

// Compare builds comparison rows for the symbol whose key range contains r
func (s *Session) Compare(r symbol.Range, languages ...string) (*Comparison, error) {
	aSymbol, err := s.Index().FindInRange(r)
	if err != nil {
		return nil, err
	}
	return s.compare(aSymbol, languages)
}

// CompareKeyChain builds comparison rows for a key chain
func (s *Session) CompareKeyChain(chain any, languages ...string) (*Comparison, error) {
	aSymbol, err := s.Index().GetByKeyChain(chain)
	if err != nil {
		return nil, err
	}
	return s.compare(aSymbol, languages)
}

// Highlight returns source range of a key chain in the current index
func (s *Session) Highlight(chain any) (symbol.Range, error) {
	aSymbol, err := s.Index().GetByKeyChain(chain)
	if err != nil {
		return symbol.Range{}, err
	}
	return aSymbol.Range, nil
}

func (s *Session) compare(aSymbol *symbol.Symbol, languages []string) (*Comparison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(languages) == 0 {
		languages = append([]string(nil), s.languages...)
	}
	for _, language := range languages {
		if _, ok := s.resources[language]; !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnknownLanguage, language)
		}
	}
	return newComparison(aSymbol, languages, s.resources), nil
}
