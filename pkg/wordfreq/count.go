package wordfreq

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the target chunk length, in bytes, used by [Split].
const DefaultChunkSize = 64 << 10

// checkEvery is how many tokens a worker counts between context checks.
const checkEvery = 1024

// CountChunks counts every chunk on its own goroutine and merges the results.
//
// Workers share nothing but the tokenizer. The merge runs on the calling
// goroutine after all workers finish, in chunk order, so the result does not
// depend on scheduling. If ctx is cancelled first, CountChunks returns
// ctx.Err() without waiting for the workers.
func CountChunks(ctx context.Context, chunks []string, tok *Tokenizer) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tables := make([]*Table, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			t := NewTable()
			n := 0
			for w := range tok.Tokens(chunk) {
				if n++; n%checkEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				t.Add(w)
			}
			tables[i] = t
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	out := NewTable()
	for _, t := range tables {
		out.Merge(t)
	}
	return out, nil
}

// Split cuts text into chunks of roughly size bytes. Cuts fall on whitespace
// so no word is split. size <= 0 means [DefaultChunkSize].
func Split(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var chunks []string
	for len(text) > size {
		cut := strings.LastIndexAny(text[:size], " \t\r\n")
		if cut <= 0 {
			cut = strings.IndexAny(text[size:], " \t\r\n")
			if cut < 0 {
				break
			}
			cut += size
		}
		chunks = append(chunks, text[:cut])
		text = text[cut+1:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
