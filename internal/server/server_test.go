package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mrryf/thesisweb/internal/citations"
	"github.com/mrryf/thesisweb/internal/content"
	"github.com/mrryf/thesisweb/internal/glossary"
	"github.com/mrryf/thesisweb/internal/site"
)

func testIndex(t *testing.T) *site.Index {
	t.Helper()
	c := &content.Content{
		Site: content.Site{Title: "Thesis"},
		Pages: []content.Page{{
			Slug:  "vorstudie",
			Title: "Vorstudie",
			Sections: []content.Section{{
				ID:      "einleitung",
				Title:   "Einleitung",
				Content: "<p>Das Technology Acceptance Model (Davis, 1989) erklärt Akzeptanz.</p>",
			}},
		}},
		Glossary: []glossary.Term{
			{Term: "TAM", Definition: "Technology Acceptance Model"},
			{Term: "Framing", Definition: "Darstellung einer Information"},
		},
		References: []citations.Reference{
			{ID: "davis1989", Authors: []string{"Davis, Fred"}, Year: 1989, Title: "Perceived usefulness"},
		},
	}
	return site.NewIndexFor(c)
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	return New(cfg, testIndex(t))
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0})

	w := get(t, srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := get(t, srv, "/api/search?q=akzeptanz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp searchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].Section != "einleitung" {
		t.Errorf("expected section einleitung, got %q", resp.Results[0].Section)
	}

	w = get(t, srv, "/api/search?q=quantenphysik")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"results":[]`) {
		t.Errorf("expected empty results array, got %s", w.Body.String())
	}
}

func TestSearchValidation(t *testing.T) {
	srv := newTestServer(t, Config{})

	for _, target := range []string{"/api/search", "/api/search?q=%20", "/api/search?q=tam&limit=0", "/api/search?q=tam&limit=x"} {
		if w := get(t, srv, target); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, w.Code)
		}
	}
}

func TestGlossary(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := get(t, srv, "/api/glossary")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp glossaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(resp.Terms))
	}

	w = get(t, srv, "/api/glossary/tam")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var term glossary.Term
	if err := json.Unmarshal(w.Body.Bytes(), &term); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if term.Term != "TAM" {
		t.Errorf("expected TAM, got %q", term.Term)
	}

	if w := get(t, srv, "/api/glossary/unbekannt"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCitationLookup(t *testing.T) {
	srv := newTestServer(t, Config{})

	w := get(t, srv, "/api/citations?q="+strings.ReplaceAll("(Davis, 1989)", " ", "%20"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp citationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Reference.ID != "davis1989" {
		t.Errorf("expected davis1989, got %q", resp.Reference.ID)
	}
	if resp.Short != "Davis, 1989" {
		t.Errorf("expected short citation, got %q", resp.Short)
	}

	if w := get(t, srv, "/api/citations?q=Nobody"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w := get(t, srv, "/api/citations"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Thesis</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, Config{SiteDir: dir})

	w := get(t, srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<h1>Thesis</h1>") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
	if w := get(t, srv, "/missing.html"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestReloadBroadcast(t *testing.T) {
	srv := newTestServer(t, Config{})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + ReloadPath
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if n := srv.Hub().Broadcast(); n != 1 {
		t.Fatalf("expected 1 notified client, got %d", n)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != ReloadMessage {
		t.Errorf("expected %q, got %q", ReloadMessage, msg)
	}

	srv.Hub().Close()
	if srv.Hub().Clients() != 0 {
		t.Errorf("expected no clients after Close, got %d", srv.Hub().Clients())
	}
}

func TestBroadcastWithoutClients(t *testing.T) {
	if n := NewHub().Broadcast(); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}
