package main

import (
	"context"
	"fmt"
	"testing"

	wcerrors "github.com/matzehuels/wordcloud/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"context cancelled", fmt.Errorf("layout: %w", context.Canceled), exitInterrupt},
		{"cancelled code", wcerrors.Cancelled(context.Canceled), exitInterrupt},
		{"bad color", wcerrors.New(wcerrors.ErrCodeInvalidColor, "unknown color"), exitConfig},
		{"render failure", wcerrors.New(wcerrors.ErrCodeRenderFailed, "encode png"), exitError},
		{"plain error", fmt.Errorf("boom"), exitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
