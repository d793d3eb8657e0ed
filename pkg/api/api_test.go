package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/store"
	"github.com/matzehuels/wordcloud/pkg/wordfreq"
)

func newTestServer(t *testing.T, cfg Config) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	s := New(pipeline.NewRunner(cache.NewMemoryCache(0), nil, nil), st, cfg, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Close(context.Background())
	})
	return ts, st
}

func postRender(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body struct{ Status, Version string }
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Version == "" {
		t.Errorf("health body = %+v", body)
	}
}

func TestRender(t *testing.T) {
	ts, st := newTestServer(t, Config{})

	body := `{"frequencies": {"gopher": 10, "cloud": 6, "render": 3}, "width": 300, "height": 200, "rotation": "none"}`
	resp := postRender(t, ts.URL+"/v1/render", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("X-Cache = %q, want miss", resp.Header.Get("X-Cache"))
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("body is not svg")
	}

	id := resp.Header.Get("X-Render-ID")
	rec, err := st.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("record %q: %v", id, err)
	}
	if rec.Width != 300 || rec.Height != 200 || rec.Seed != pipeline.DefaultSeed {
		t.Errorf("record = %+v", rec)
	}

	// Same request again: served from cache.
	again := postRender(t, ts.URL+"/v1/render", body)
	if again.Header.Get("X-Cache") != "hit" {
		t.Errorf("X-Cache = %q, want hit", again.Header.Get("X-Cache"))
	}
}

func TestCacheStatus(t *testing.T) {
	table := wordfreq.NewTable()
	tests := []struct {
		name  string
		table *wordfreq.Table
		info  pipeline.CacheInfo
		want  string
	}{
		{"all stages", table, pipeline.CacheInfo{TokenizeHit: true, LayoutHit: true, RenderHit: true}, "hit"},
		{"render only", table, pipeline.CacheInfo{RenderHit: true}, "partial"},
		{"layout and render", table, pipeline.CacheInfo{LayoutHit: true, RenderHit: true}, "partial"},
		{"tokenize only", table, pipeline.CacheInfo{TokenizeHit: true}, "partial"},
		{"nothing", table, pipeline.CacheInfo{}, "miss"},
		{"frequencies", nil, pipeline.CacheInfo{LayoutHit: true, RenderHit: true}, "hit"},
		{"frequencies layout only", nil, pipeline.CacheInfo{LayoutHit: true}, "partial"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &pipeline.Result{Table: tt.table, CacheInfo: tt.info}
			if got := cacheStatus(res); got != tt.want {
				t.Errorf("cacheStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderTextCacheHit(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	body := `{"text": "gophers love clouds and gophers love words", "width": 300, "height": 200}`
	if got := postRender(t, ts.URL+"/v1/render", body).Header.Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}
	if got := postRender(t, ts.URL+"/v1/render", body).Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
}

func TestRenderFormatQuery(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	resp := postRender(t, ts.URL+"/v1/render?format=json", `{"text": "gophers love clouds and gophers love words"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var layout struct {
		Words []struct {
			Text string `json:"text"`
		} `json:"words"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&layout); err != nil {
		t.Fatal(err)
	}
	if len(layout.Words) == 0 {
		t.Error("layout has no words")
	}
}

func TestRenderErrors(t *testing.T) {
	ts, _ := newTestServer(t, Config{MaxBody: 64})

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"malformed", "", `{`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", "", `{"txt": "a"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"no input", "", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad format", "?format=gif", `{"text": "gopher"}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad color", "", `{"text": "gopher", "background": "nope"}`, http.StatusBadRequest, "INVALID_COLOR"},
		{"too large", "", `{"text": "` + strings.Repeat("x", 100) + `"}`, http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postRender(t, ts.URL+"/v1/render"+tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatal(err)
			}
			if string(e.Code) != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestGetRender(t *testing.T) {
	ts, st := newTestServer(t, Config{})
	rec := store.NewRecord()
	rec.Placed = 7
	_ = st.Put(context.Background(), rec)

	tests := []struct {
		id     string
		status int
	}{
		{rec.ID, http.StatusOK},
		{store.NewRecord().ID, http.StatusNotFound},
		{"not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp, err := http.Get(ts.URL + "/v1/renders/" + tt.id)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.status {
			t.Errorf("GET %s status = %d, want %d", tt.id, resp.StatusCode, tt.status)
		}
	}
}

func TestListRenders(t *testing.T) {
	ts, st := newTestServer(t, Config{})
	for range 3 {
		_ = st.Put(context.Background(), store.NewRecord())
	}
	resp, err := http.Get(ts.URL + "/v1/renders?limit=2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var recs []store.Record
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("%d records, want 2", len(recs))
	}
}

func TestCatalogs(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	for _, path := range []string{"/v1/palettes", "/v1/fonts"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("WORDCLOUD_ADDR", ":9999")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9999" || cfg.MaxBody != 8<<20 || cfg.CacheEntries != 1024 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestOpenInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{CacheEntries: 8, CacheScope: "blue"}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(ctx)

	if _, ok := s.store.(*store.MemoryStore); !ok {
		t.Errorf("store = %T, want memory store", s.store)
	}
	key := s.runner.Keyer.LayoutKey("abc", cache.LayoutKeyOpts{})
	if !strings.HasPrefix(key, "blue:") {
		t.Errorf("layout key %q is not scoped", key)
	}
}
