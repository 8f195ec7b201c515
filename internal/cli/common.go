package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codegraph/internal/builder"
	"codegraph/internal/config"
	"codegraph/internal/graph"
)

// rootDirFromArgs resolves the source tree to operate on: the first positional
// argument, or the current working directory.
func rootDirFromArgs(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling build...")
		cancel()
	}()

	return ctx, cancel
}

// buildGraph loads configuration for rootDir, applies CLI overrides, and runs
// a full build: discovery, parsing, and the resolution passes.
func buildGraph(ctx context.Context, rootDir string, quiet bool, languages []string, javaBackend string) (*graph.CodeGraph, *builder.Stats, error) {
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(languages) == 0 {
		languages = cfg.Build.Languages
	}
	if javaBackend == "" {
		javaBackend = cfg.Build.JavaBackend
	}

	b, err := builder.New(
		builder.WithLanguages(languages...),
		builder.WithJavaBackend(javaBackend),
		builder.WithIgnorePatterns(cfg.Build.Ignore...),
		builder.WithProgress(NewCLIProgressReporter(quiet)),
		builder.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create builder: %w", err)
	}

	g, stats, err := b.Build(ctx, rootDir)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("build cancelled")
		}
		return nil, nil, fmt.Errorf("build failed: %w", err)
	}
	return g, stats, nil
}
