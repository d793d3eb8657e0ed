package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/internal/cli"
	wcerrors "github.com/matzehuels/wordcloud/pkg/errors"
)

// Exit codes.
const (
	exitError     = 1
	exitConfig    = 2   // bad flags, profile or input
	exitInterrupt = 130 // shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	if err == nil {
		return
	}
	if !isInterrupt(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	cancel()
	os.Exit(exitCode(err))
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

func exitCode(err error) int {
	switch {
	case isInterrupt(err):
		return exitInterrupt
	case wcerrors.ClassOf(err) == wcerrors.ClassConfig:
		return exitConfig
	default:
		return exitError
	}
}

func isInterrupt(err error) bool {
	return errors.Is(err, context.Canceled) || wcerrors.Is(err, wcerrors.ErrCodeCancelled)
}
