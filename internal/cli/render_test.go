package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/placement"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", " svg , json ", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name          string
		output, input string
		want          string
	}{
		{"stdin", "", "", "wordcloud"},
		{"dash", "", "-", "wordcloud"},
		{"from input", "", "talks/keynote.txt", "talks/keynote"},
		{"output with format ext", "out/cloud.svg", "x.txt", "out/cloud"},
		{"output with other ext", "out/cloud.v2", "x.txt", "out/cloud.v2"},
		{"output without ext", "out/cloud", "x.txt", "out/cloud"},
		{"url", "", "https://example.com/talks/keynote.html", "keynote"},
		{"url without path", "", "https://example.com", "wordcloud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, base, format string
		formats              int
		want                 string
	}{
		{"cloud.svg", "cloud", "svg", 1, "cloud.svg"},
		{"-", "-", "svg", 1, "-"},
		{"cloud.svg", "cloud", "png", 2, "cloud.png"},
		{"", "speech", "pdf", 1, "speech.pdf"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.base, tt.format, tt.formats); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %d) = %q, want %q", tt.output, tt.base, tt.format, tt.formats, got, tt.want)
		}
	}
}

func TestParseFrequencies(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]float64
		wantErr bool
	}{
		{"json", `{"go": 3, "cloud": 1.5}`, map[string]float64{"go": 3, "cloud": 1.5}, false},
		{"tab separated", "go\t3\ncloud\t1\n", map[string]float64{"go": 3, "cloud": 1}, false},
		{"comments and blanks", "# header\n\ngo, 2\n", map[string]float64{"go": 2}, false},
		{"phrase keeps spaces", "new york 4\n", map[string]float64{"new york": 4}, false},
		{"duplicates add", "go 1\ngo 2\n", map[string]float64{"go": 3}, false},
		{"missing weight", "go\n", nil, true},
		{"bad weight", "go many\n", nil, true},
		{"bad json", `{"go": }`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFrequencies([]byte(tt.input))
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("err = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFrequencies: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for w, v := range tt.want {
				if got[w] != v {
					t.Errorf("%q = %g, want %g", w, got[w], v)
				}
			}
		})
	}
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	got, err := readInput(ctx, path, strings.NewReader("from stdin"), nil, false)
	if err != nil || string(got) != "from file" {
		t.Errorf("readInput(file) = %q, %v", got, err)
	}
	got, err = readInput(ctx, "-", strings.NewReader("from stdin"), nil, false)
	if err != nil || string(got) != "from stdin" {
		t.Errorf("readInput(-) = %q, %v", got, err)
	}
	if _, err := readInput(ctx, filepath.Join(dir, "missing.txt"), nil, nil, false); !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("missing file err = %v, want IO_ERROR", err)
	}
}

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
width = 1000
palette = "ocean"
rotation = "vertical"
bubble = "circle"
exclude = ["lorem"]
formats = ["svg", "png"]
`)
	var opts pipeline.Options
	if err := loadProfile(path, &opts); err != nil {
		t.Fatalf("loadProfile: %v", err)
	}
	if opts.Width != 1000 || opts.Palette != "ocean" {
		t.Errorf("width=%d palette=%q", opts.Width, opts.Palette)
	}
	if opts.Rotation != placement.RotateVertical || opts.Bubble != placement.BubbleCircle {
		t.Errorf("rotation=%v bubble=%v", opts.Rotation, opts.Bubble)
	}
	if !slices.Equal(opts.Exclude, []string{"lorem"}) || !slices.Equal(opts.Formats, []string{"svg", "png"}) {
		t.Errorf("exclude=%v formats=%v", opts.Exclude, opts.Formats)
	}
}

func TestLoadProfileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "widht = 10\n"},
		{"bad rotation", "rotation = \"sideways\"\n"},
		{"syntax", "width = \n"},
		{"text is not a profile key", "text = \"hello\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts pipeline.Options
			if err := loadProfile(writeProfile(t, tt.body), &opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderFlagsApply(t *testing.T) {
	profile := writeProfile(t, `
width = 1000
height = 500
palette = "ocean"
formats = ["png"]
rotation = "vertical"
`)

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, o *pipeline.Options)
	}{
		{
			name: "profile only",
			args: []string{"--config", profile},
			check: func(t *testing.T, o *pipeline.Options) {
				if o.Width != 1000 || o.Height != 500 || o.Palette != "ocean" {
					t.Errorf("got %dx%d %q", o.Width, o.Height, o.Palette)
				}
				if !slices.Equal(o.Formats, []string{"png"}) || o.Rotation != placement.RotateVertical {
					t.Errorf("formats=%v rotation=%v", o.Formats, o.Rotation)
				}
			},
		},
		{
			name: "flags override profile",
			args: []string{"--width", "640", "--config", profile, "-f", "svg,json", "--rotation", "either"},
			check: func(t *testing.T, o *pipeline.Options) {
				if o.Width != 640 || o.Height != 500 {
					t.Errorf("size = %dx%d, want 640x500", o.Width, o.Height)
				}
				if !slices.Equal(o.Formats, []string{"svg", "json"}) || o.Rotation != placement.RotateEither {
					t.Errorf("formats=%v rotation=%v", o.Formats, o.Rotation)
				}
			},
		},
		{
			name: "lists and focus angle",
			args: []string{"--include", "a, b", "--exclude", "c", "--focus-angle", "90", "--bubble", "oval"},
			check: func(t *testing.T, o *pipeline.Options) {
				if !slices.Equal(o.Include, []string{"a", "b"}) || !slices.Equal(o.Exclude, []string{"c"}) {
					t.Errorf("include=%v exclude=%v", o.Include, o.Exclude)
				}
				if o.FocusAngle == nil || *o.FocusAngle != 90 {
					t.Errorf("focus angle = %v", o.FocusAngle)
				}
				if o.Bubble != placement.BubbleOval {
					t.Errorf("bubble = %v", o.Bubble)
				}
				if !slices.Equal(o.Formats, []string{"svg"}) {
					t.Errorf("formats = %v, want default svg", o.Formats)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				opts pipeline.Options
				rf   renderFlags
			)
			fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
			rf.bind(fs, &opts)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}
			if err := rf.apply(fs, &opts); err != nil {
				t.Fatalf("apply: %v", err)
			}
			tt.check(t, &opts)
		})
	}
}

func TestRenderFlagsApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad rotation", []string{"--rotation", "sideways"}, errors.ErrCodeInvalidRotation},
		{"bad bubble", []string{"--bubble", "star"}, errors.ErrCodeInvalidBubble},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				opts pipeline.Options
				rf   renderFlags
			)
			fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
			rf.bind(fs, &opts)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}
			if err := rf.apply(fs, &opts); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

const sampleText = `Gophers build clouds. Clouds of words, words of gophers.
A gopher places every word in the cloud without overlapping another word.`

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var out bytes.Buffer
	c := New(&bytes.Buffer{}, LogInfo)
	c.out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "speech.txt")
	if err := os.WriteFile(input, []byte(sampleText), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "render", input, "-f", "svg,json", "--no-cache", "--width", "400", "--height", "300")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{"svg", "json"} {
		path := filepath.Join(dir, "speech."+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("missing %s: %v", path, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", path)
		}
		if !strings.Contains(out, path) {
			t.Errorf("summary does not list %s:\n%s", path, out)
		}
	}
	if !strings.Contains(out, "seed 42") {
		t.Errorf("summary missing seed:\n%s", out)
	}
}

func TestRenderCommandStdout(t *testing.T) {
	out, err := runCLI(t, "gopher 5\ncloud 3\nword 1\n", "render", "-", "--frequencies", "-o", "-", "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Errorf("stdout is not an svg document:\n%.200s", out)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errors.Code
	}{
		{"stdout with two formats", sampleText, []string{"render", "-o", "-", "-f", "svg,png"}, errors.ErrCodeInvalidPath},
		{"only stop words", "the and of the", []string{"render", "--no-cache"}, errors.ErrCodeInvalidInput},
		{"bad color", sampleText, []string{"render", "--no-cache", "--background", "nope"}, errors.ErrCodeInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.stdin, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderCommandURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", sampleText)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "remote.svg")
	if _, err := runCLI(t, "", "render", srv.URL+"/speech.html", "-o", dst); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `data-word="html"`) || strings.Contains(string(data), `data-word="body"`) {
		t.Error("markup was counted as words")
	}
}

func TestExampleProfile(t *testing.T) {
	var opts pipeline.Options
	if err := loadProfile(filepath.Join("..", "..", "examples", "poster.toml"), &opts); err != nil {
		t.Fatalf("loadProfile: %v", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		t.Errorf("profile formats invalid: %v", err)
	}
	if err := opts.ValidateForLayout(); err != nil {
		t.Errorf("profile layout invalid: %v", err)
	}
	if opts.Width != 1920 || opts.Seed != 7 {
		t.Errorf("size %dx%d seed %d", opts.Width, opts.Height, opts.Seed)
	}
}
