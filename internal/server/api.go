package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/glossary"
	"github.com/mrryf/thesisweb/internal/site"
)

const (
	defaultSearchLimit = 8
	maxSearchLimit     = 50
)

type searchResponse struct {
	Query   string             `json:"query"`
	Results []site.SearchEntry `json:"results"`
}

type glossaryResponse struct {
	Terms []glossary.Term `json:"terms"`
}

type citationResponse struct {
	Citation  string              `json:"citation"`
	Reference citations.Reference `json:"reference"`
	Short     string              `json:"short"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	results := s.index.Search(query, limit)
	if results == nil {
		results = []site.SearchEntry{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results})
}

func (s *Server) handleGlossary(w http.ResponseWriter, r *http.Request) {
	terms := s.index.Terms()
	if terms == nil {
		terms = []glossary.Term{}
	}
	writeJSON(w, http.StatusOK, glossaryResponse{Terms: terms})
}

func (s *Server) handleTerm(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "term"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid term")
		return
	}
	term, ok := s.index.Term(name)
	if !ok {
		writeError(w, http.StatusNotFound, "term not found")
		return
	}
	writeJSON(w, http.StatusOK, term)
}

func (s *Server) handleCitation(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	ref, ok := s.index.Resolve(q)
	if !ok {
		writeError(w, http.StatusNotFound, "citation not recognized")
		return
	}
	writeJSON(w, http.StatusOK, citationResponse{
		Citation:  q,
		Reference: ref,
		Short:     citations.FormatShortCitation(ref),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
