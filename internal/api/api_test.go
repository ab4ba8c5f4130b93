package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/matzehuels/wordmosaic/pkg/buildinfo"
	"github.com/matzehuels/wordmosaic/pkg/observability"
	"github.com/matzehuels/wordmosaic/pkg/pipeline"
	"github.com/matzehuels/wordmosaic/pkg/store"
)

const catText = "the cat sat on the mat the cat ran"

func newTestServer(t *testing.T, st store.Store, defaults pipeline.Options) *Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, st, nil)
	t.Cleanup(func() { runner.Close() })
	s, err := New(Config{Runner: runner, Store: st, Defaults: defaults})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestNewRequiresRunner(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without runner")
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, pipeline.Options{})
	w := do(t, s, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	got := decode[healthResponse](t, w)
	want := healthResponse{Status: "ok", Build: buildinfo.Get()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("health mismatch (-want +got):\n%s", diff)
	}
}

func TestClouds(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestServer(t, st, pipeline.Options{})

	w := do(t, s, http.MethodPost, "/v1/clouds", map[string]any{
		"text":    catText,
		"options": map[string]any{"width": 600, "height": 400, "formats": []string{"svg", "json"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[cloudResponse](t, w)

	words := make([]string, len(resp.Table))
	for i, row := range resp.Table {
		words[i] = row.Word
	}
	if diff := cmp.Diff([]string{"cat", "sat", "mat", "ran"}, words); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
	if len(resp.Placements) != 4 || len(resp.Unplaced) != 0 {
		t.Errorf("placed %d, unplaced %d; want 4 and 0", len(resp.Placements), len(resp.Unplaced))
	}
	if resp.Canvas.Width != 600 || resp.Canvas.Height != 400 {
		t.Errorf("canvas = %+v, want 600x400", resp.Canvas)
	}
	if !bytes.HasPrefix(resp.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact does not start with <svg: %.40q", resp.Artifacts["svg"])
	}
	if len(resp.Artifacts["json"]) == 0 {
		t.Error("missing json artifact")
	}
	if resp.Stats.Placed != 4 || resp.Stats.Distinct != 4 {
		t.Errorf("stats = %+v", resp.Stats)
	}

	rec, err := st.Get(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("stored table %s: %v", resp.ID, err)
	}
	if rec.Total != 5 {
		t.Errorf("stored total = %d, want 5", rec.Total)
	}
}

func TestCloudsWithoutStoreStillHasID(t *testing.T) {
	s := newTestServer(t, nil, pipeline.Options{})
	w := do(t, s, http.MethodPost, "/v1/clouds", map[string]any{"text": "cloud"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[cloudResponse](t, w)
	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Errorf("id %q is not a UUID: %v", resp.ID, err)
	}
}

func TestCloudsDefaults(t *testing.T) {
	defaults := pipeline.Options{Width: 300, Height: 200, Margin: pipeline.Float(1)}
	s := newTestServer(t, nil, defaults)

	tests := []struct {
		name    string
		options map[string]any
		want    int
	}{
		{"server default", nil, 300},
		{"request override", map[string]any{"width": 500, "margin": 0}, 500},
		{"height only", map[string]any{"height": 150}, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/v1/clouds", map[string]any{"text": catText, "options": tt.options})
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if got := decode[cloudResponse](t, w).Canvas.Width; got != tt.want {
				t.Errorf("width = %d, want %d", got, tt.want)
			}
		})
	}
	if *s.defaults.Margin != 1 {
		t.Errorf("request options leaked into server defaults: margin %v", *s.defaults.Margin)
	}
}

func TestCloudsErrors(t *testing.T) {
	s := newTestServer(t, nil, pipeline.Options{})

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"negative width", map[string]any{"text": catText, "options": map[string]any{"width": -10}}, http.StatusBadRequest, "INVALID_CANVAS"},
		{"zero width", map[string]any{"text": catText, "options": map[string]any{"width": 0, "height": 100}}, http.StatusBadRequest, "INVALID_CANVAS"},
		{"zero height", map[string]any{"text": catText, "options": map[string]any{"height": 0}}, http.StatusBadRequest, "INVALID_CANVAS"},
		{"unknown palette", map[string]any{"text": catText, "options": map[string]any{"palette": "rainbow"}}, http.StatusBadRequest, "INVALID_PALETTE"},
		{"bad format", map[string]any{"text": catText, "options": map[string]any{"formats": []string{"gif"}}}, http.StatusBadRequest, "INVALID_FORMAT"},
		{"options type", map[string]any{"text": catText, "options": map[string]any{"width": "wide"}}, http.StatusBadRequest, "INVALID_OPTION"},
		{"unknown field", map[string]any{"txt": catText}, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed json", "{", http.StatusBadRequest, "INVALID_INPUT"},
		{"text and document", map[string]any{"text": "a", "filename": "a.txt", "document": []byte("b")}, http.StatusBadRequest, "INVALID_INPUT"},
		{"document without filename", map[string]any{"document": []byte("b")}, http.StatusBadRequest, "INVALID_INPUT"},
		{"unsupported file", map[string]any{"filename": "a.exe", "document": []byte("b")}, http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE"},
		{"invalid utf8", map[string]any{"filename": "a.txt", "document": []byte{'a', 0xff, 'b'}}, http.StatusUnprocessableEntity, "EXTRACT_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/v1/clouds", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			got := decode[errorResponse](t, w)
			if got.Code != tt.wantCode || got.Message == "" {
				t.Errorf("error = %+v, want code %s", got, tt.wantCode)
			}
		})
	}
}

func TestCloudsBodyLimit(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, nil, nil)
	defer runner.Close()
	s, err := New(Config{Runner: runner, MaxBodyBytes: 64})
	if err != nil {
		t.Fatal(err)
	}
	w := do(t, s, http.MethodPost, "/v1/clouds", map[string]any{"text": strings.Repeat("word ", 100)})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
}

func TestCloudsDocument(t *testing.T) {
	s := newTestServer(t, store.NewMemoryStore(), pipeline.Options{})
	w := do(t, s, http.MethodPost, "/v1/analyze", map[string]any{
		"filename": "notes.txt",
		"document": []byte(catText),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := decode[analyzeResponse](t, w); len(got.Table) != 4 {
		t.Errorf("table has %d rows, want 4", len(got.Table))
	}
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, nil, pipeline.Options{})

	tests := []struct {
		name      string
		body      map[string]any
		wantWords int
		wantEmpty bool
	}{
		{"default stopwords", map[string]any{"text": catText}, 4, false},
		{"extra stopwords", map[string]any{"text": catText, "options": map[string]any{"stopwords": []string{"cat"}}}, 3, false},
		{"no defaults", map[string]any{"text": catText, "options": map[string]any{"no_default_stopwords": true}}, 6, false},
		{"only stopwords", map[string]any{"text": "the and of"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/v1/analyze", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			got := decode[analyzeResponse](t, w)
			if len(got.Table) != tt.wantWords || got.Empty != tt.wantEmpty {
				t.Errorf("got %d words, empty %v; want %d, %v", len(got.Table), got.Empty, tt.wantWords, tt.wantEmpty)
			}
		})
	}
}

func TestAnalyzeCandidates(t *testing.T) {
	s := newTestServer(t, nil, pipeline.Options{})
	w := do(t, s, http.MethodPost, "/v1/analyze", map[string]any{"text": catText})
	got := decode[analyzeResponse](t, w)
	want := []string{"cat", "mat", "on", "ran", "sat", "the"}
	if diff := cmp.Diff(want, got.Candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestTables(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestServer(t, st, pipeline.Options{})

	w := do(t, s, http.MethodPost, "/v1/clouds", map[string]any{"text": catText, "filename": ""})
	if w.Code != http.StatusOK {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body.String())
	}
	id := decode[cloudResponse](t, w).ID

	t.Run("list", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/v1/tables?limit=10", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		got := decode[[]store.Record](t, w)
		if len(got) != 1 || got[0].ID != id {
			t.Errorf("list = %+v, want one record %s", got, id)
		}
	})

	t.Run("json", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/v1/tables/"+id, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if got := decode[store.Record](t, w); got.ID != id || len(got.Words) != 4 {
			t.Errorf("record = %+v", got)
		}
	})

	t.Run("csv", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/v1/tables/"+id+".csv", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("content type = %q", ct)
		}
		want := "word,count\ncat,2\nsat,1\nmat,1\nran,1\n"
		if diff := cmp.Diff(want, w.Body.String()); diff != "" {
			t.Errorf("csv mismatch (-want +got):\n%s", diff)
		}
	})

	errorCases := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"not found", "/v1/tables/" + uuid.NewString(), http.StatusNotFound},
		{"invalid id", "/v1/tables/not-a-uuid", http.StatusBadRequest},
		{"bad limit", "/v1/tables?limit=-1", http.StatusBadRequest},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, s, http.MethodGet, tt.path, nil); w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestTablesWithoutStore(t *testing.T) {
	s := newTestServer(t, nil, pipeline.Options{})
	for _, path := range []string{"/v1/tables", "/v1/tables/" + uuid.NewString()} {
		w := do(t, s, http.MethodGet, path, nil)
		if w.Code != http.StatusNotImplemented {
			t.Errorf("%s: status = %d, want 501", path, w.Code)
		}
	}
}

func TestPalettes(t *testing.T) {
	s := newTestServer(t, nil, pipeline.Options{})
	w := do(t, s, http.MethodGet, "/v1/palettes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode[[]paletteResponse](t, w)
	if len(got) != 10 {
		t.Fatalf("got %d palettes, want 10", len(got))
	}
	for _, p := range got {
		if p.Name == "viridis" && p.Colors[0] != "#440154" {
			t.Errorf("viridis starts with %s, want #440154", p.Colors[0])
		}
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, nil, pipeline.Options{})
	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/v1/nope", http.StatusNotFound},
		{http.MethodGet, "/v1/clouds", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/healthz", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if w := do(t, s, tt.method, tt.path, nil); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	requests int
	statuses []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s := newTestServer(t, nil, pipeline.Options{})
	do(t, s, http.MethodGet, "/healthz", nil)
	do(t, s, http.MethodGet, "/v1/nope", nil)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 2 {
		t.Errorf("requests = %d, want 2", hooks.requests)
	}
	if diff := cmp.Diff([]int{200, 404}, hooks.statuses); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, nil, pipeline.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
