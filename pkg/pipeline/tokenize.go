package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/wordfreq"
)

// Tokenize counts the words of opts.Text. Chunks are counted concurrently
// and merged in order, so the table does not depend on scheduling.
func Tokenize(ctx context.Context, opts Options) (*wordfreq.Table, error) {
	start := time.Now()
	observability.Pipeline().OnTokenizeStart(ctx, len(opts.Text))

	tok := wordfreq.NewTokenizer(opts.TokenizerOptions())
	table, err := wordfreq.CountChunks(ctx, wordfreq.Split(opts.Text, 0), tok)
	if err != nil {
		err = errors.Cancelled(err)
		observability.Pipeline().OnTokenizeComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}

	observability.Pipeline().OnTokenizeComplete(ctx, table.Len(), time.Since(start), nil)
	return table, nil
}

// Words converts the input of opts into unsized words, either from a
// counted table or from the caller's frequencies.
func Words(table *wordfreq.Table, opts Options) []*cloud.Word {
	if table == nil {
		return cloud.FromMap(opts.Frequencies)
	}
	return cloud.FromEntries(table.Entries(), "", 0)
}

// hashWords is the content hash of the words a layout is built from. Map
// keys marshal in sorted order, so equal inputs hash equally.
func hashWords(words []*cloud.Word) string {
	m := make(map[string]float64, len(words))
	for _, w := range words {
		m[w.Text] = w.Frequency
	}
	data, _ := json.Marshal(m)
	return cache.Hash(data)
}
