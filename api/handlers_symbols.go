package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/viant/i18nlens/inspector/index"
	"github.com/viant/i18nlens/inspector/repository"
	"github.com/viant/i18nlens/inspector/symbol"
	"github.com/viant/i18nlens/keychain"
	"github.com/viant/i18nlens/session"
	"github.com/viant/i18nlens/tree"
)

type rowView struct {
	KeyChain string   `json:"keyChain"`
	Values   []string `json:"values"`
}

type comparisonView struct {
	KeyChain  string    `json:"keyChain"`
	Range     any       `json:"range"`
	Languages []string  `json:"languages"`
	Rows      []rowView `json:"rows"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrUnknownLanguage), errors.Is(err, index.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, keychain.ErrInvalidArgument), errors.Is(err, tree.ErrInvalidJSON):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrDetached):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeEntries(w http.ResponseWriter, key string, symbols []*symbol.Symbol) {
	entries, err := index.Entries(symbols)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]any{key: entries})
}

// handleLanguages lists resource languages and the current one.
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]any{
		"languages": s.session.Languages(),
		"language":  s.session.Language(),
	})
}

// handleSwitchLanguage rebuilds the index for another language.
func (s *Server) handleSwitchLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.session.SwitchLanguage(req.Language); err != nil {
		jsonError(w, err.Error(), statusOf(err))
		return
	}
	jsonResponse(w, map[string]any{"language": s.session.Language(), "symbols": s.session.Index().Len()})
}

// handleSource returns serialized resource the index was built from.
func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(s.session.Index().Source()))
}

// handleSymbols lists all symbols, format=yaml switches to the YAML emitter.
func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	idx := s.session.Index()
	if r.URL.Query().Get("format") == "yaml" {
		emitter := &index.YAMLEmitter{}
		data, err := emitter.Emit(idx.Symbols())
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(data)
		return
	}
	s.writeEntries(w, "symbols", idx.Symbols())
}

// handleSymbol returns a symbol by key chain.
func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	aSymbol, err := s.session.Index().GetByKeyChain(chi.URLParam(r, "keyChain"))
	if err != nil {
		jsonError(w, err.Error(), statusOf(err))
		return
	}
	entry, err := index.NewEntry(aSymbol)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, entry)
}

// handleSearch finds symbols whose value contains text.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		jsonError(w, "text query parameter is required", http.StatusBadRequest)
		return
	}
	s.writeEntries(w, "symbols", s.session.Index().FindAllByValue(text))
}

// handleCompare builds comparison rows by keyChain or by a line and column inside a key token.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var languages []string
	if v := query.Get("languages"); v != "" {
		languages = strings.Split(v, ",")
	}
	var comparison *session.Comparison
	var err error
	if chain := query.Get("keyChain"); chain != "" {
		comparison, err = s.session.CompareKeyChain(chain, languages...)
	} else {
		line, lineErr := strconv.Atoi(query.Get("line"))
		column, columnErr := strconv.Atoi(query.Get("column"))
		if lineErr != nil || columnErr != nil {
			jsonError(w, "keyChain or line and column query parameters are required", http.StatusBadRequest)
			return
		}
		comparison, err = s.session.Compare(symbol.NewRange(line, column, line, column), languages...)
	}
	if err != nil {
		jsonError(w, err.Error(), statusOf(err))
		return
	}
	view := comparisonView{
		KeyChain:  comparison.Symbol.KeyChain.Serialized(),
		Range:     comparison.Symbol.Range,
		Languages: comparison.Languages,
	}
	for _, row := range comparison.Rows {
		view.Rows = append(view.Rows, rowView{KeyChain: row.KeyChain.Serialized(), Values: row.Values})
	}
	jsonResponse(w, view)
}

// handleApplyEdit replaces the current language resource with the request body JSON.
func (s *Server) handleApplyEdit(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err = s.session.ApplyEdit(string(data)); err != nil {
		jsonError(w, err.Error(), statusOf(err))
		return
	}
	jsonResponse(w, map[string]any{"language": s.session.Language(), "symbols": s.session.Index().Len()})
}

// handleUpdateAt sets a single value of a language resource.
func (s *Server) handleUpdateAt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Value) == 0 {
		jsonError(w, "request body with value is required", http.StatusBadRequest)
		return
	}
	value, err := tree.ParseJSON(req.Value)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	language, chain := chi.URLParam(r, "language"), chi.URLParam(r, "keyChain")
	if err = s.session.UpdateAt(language, chain, value); err != nil {
		jsonError(w, err.Error(), statusOf(err))
		return
	}
	jsonResponse(w, map[string]any{"language": language, "keyChain": chain})
}

// handleSave writes every language resource to the repository.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.repository == nil {
		jsonError(w, "repository is not configured", http.StatusNotImplemented)
		return
	}
	var saved []string
	for _, language := range s.session.Languages() {
		value, _ := s.session.Resource(language)
		resource := &repository.Resource{Language: language, Namespace: s.cfg.Namespace, Value: value}
		if err := s.repository.Save(r.Context(), resource); err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		saved = append(saved, resource.URL)
	}
	jsonResponse(w, map[string]any{"saved": saved})
}
