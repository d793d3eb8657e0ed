package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/source"
)

// readInput reads a whole input file; "" and "-" read stdin and http(s)
// URLs are fetched through src.
func readInput(ctx context.Context, path string, stdin io.Reader, src *source.Client, refresh bool) ([]byte, error) {
	if source.IsURL(path) {
		return src.Fetch(ctx, path, refresh)
	}
	var r io.Reader = stdin
	if path != "" && path != "-" {
		if err := errors.ValidatePath(path); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, pipeline.MaxTextBytes+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read input")
	}
	if len(data) > pipeline.MaxTextBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input exceeds %d bytes", pipeline.MaxTextBytes)
	}
	return data, nil
}

// parseFrequencies reads a frequency table: either a JSON object of word to
// weight, or one "word weight" pair per line (tab, comma or space
// separated). Blank lines and lines starting with # are skipped.
func parseFrequencies(data []byte) (map[string]float64, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var m map[string]float64
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse frequency json")
		}
		return m, nil
	}

	m := make(map[string]float64)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.LastIndexAny(line, "\t, ")
		if i <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: want \"word weight\", got %q", n, line)
		}
		word := strings.TrimRight(line[:i], "\t, ")
		weight, err := strconv.ParseFloat(strings.TrimSpace(line[i+1:]), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: invalid weight %q", n, line[i+1:])
		}
		m[word] += weight
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read frequencies")
	}
	return m, nil
}

// loadProfile decodes a TOML render profile into opts. Keys missing from the
// file leave opts untouched; unknown keys are rejected.
func loadProfile(path string, opts *pipeline.Options) error {
	md, err := toml.DecodeFile(path, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "load profile %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "profile %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// writeOutput writes data to path; "-" writes to w.
func writeOutput(path string, data []byte, w io.Writer) error {
	if path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

func describeInput(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	if source.IsURL(path) {
		return path
	}
	return fmt.Sprintf("%q", path)
}
