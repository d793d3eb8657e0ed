package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

func newTestClient(c cache.Cache) *Client {
	cl := NewClient(c, nil)
	cl.Backoff = cache.Backoff{Attempts: 3, Delay: time.Millisecond}
	return cl
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/talk.txt", true},
		{"http://localhost:8080/x", true},
		{"ftp://example.com/x", false},
		{"speech.txt", false},
		{"-", false},
		{"https://", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFetchText(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "wordcloud") {
			t.Errorf("user agent = %q", ua)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "gophers love clouds")
	}))
	defer srv.Close()

	cl := newTestClient(cache.NewMemoryCache(16))
	ctx := context.Background()

	for i := range 2 {
		got, err := cl.Fetch(ctx, srv.URL, false)
		if err != nil {
			t.Fatalf("Fetch #%d: %v", i, err)
		}
		if string(got) != "gophers love clouds" {
			t.Errorf("Fetch #%d = %q", i, got)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1 (second fetch cached)", n)
	}

	if _, err := cl.Fetch(ctx, srv.URL, true); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times after refresh, want 2", n)
	}
}

func TestFetchHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>t</title><style>p{color:red}</style></head>
<body><p>Clouds &amp; gophers</p><script>var x = "hidden";</script></body></html>`)
	}))
	defer srv.Close()

	got, err := newTestClient(nil).Fetch(context.Background(), srv.URL, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if s := string(got); s != "Clouds & gophers" {
		t.Errorf("text = %q", s)
	}
}

func TestFetchRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "third time")
	}))
	defer srv.Close()

	got, err := newTestClient(nil).Fetch(context.Background(), srv.URL, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(got) != "third time" || hits.Load() != 3 {
		t.Errorf("got %q after %d hits", got, hits.Load())
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		max    int64
		code   errors.Code
		hits   int32
	}{
		{"not found", http.StatusNotFound, "", 0, errors.ErrCodeNotFound, 1},
		{"forbidden", http.StatusForbidden, "", 0, errors.ErrCodeIO, 1},
		{"server error exhausts retries", http.StatusInternalServerError, "", 0, errors.ErrCodeIO, 3},
		{"too large", http.StatusOK, strings.Repeat("x", 64), 16, errors.ErrCodeInvalidInput, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			cl := newTestClient(nil)
			if tt.max > 0 {
				cl.MaxBytes = tt.max
			}
			_, err := cl.Fetch(context.Background(), srv.URL, false)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
			if got := hits.Load(); got != tt.hits {
				t.Errorf("%d requests, want %d", got, tt.hits)
			}
		})
	}
}

func TestFetchNotURL(t *testing.T) {
	_, err := newTestClient(nil).Fetch(context.Background(), "speech.txt", false)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("err = %v, want INVALID_PATH", err)
	}
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(nil).Fetch(ctx, srv.URL, false)
	if !errors.Is(err, errors.ErrCodeCancelled) {
		t.Errorf("err = %v, want CANCELLED", err)
	}
}

func TestHTMLText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "hello", "hello"},
		{"tags", "<b>bold</b> <i>text</i>", "bold text"},
		{"entities", "fish &amp; chips &lt;3", "fish & chips <3"},
		{"comment", "a<!-- hidden -->b", "a b"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\ntwo"},
		{"script", `x<script type="text/javascript">alert("y")</script>z`, "x z"},
		{"gt in attribute", `<p><a title="x > hiddenattr" href="/">Visible</a></p>`, "Visible"},
		{"split script close", `a<script>var s = "</scr" + "ipt>"; hidden()</script>b`, "a b"},
		{"style and head", `<html><head><title>T</title><style>p{color:red}</style></head><body>body text</body></html>`, "body text"},
		{"nested hidden", `<svg><style>x</style><text>no</text></svg>yes`, "yes"},
		{"break", "one<br/>two", "one\ntwo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTMLText(tt.in); got != tt.want {
				t.Errorf("HTMLText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
