package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/config"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/fetch"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/parse"
)

// resolveSource turns a CLI argument into a fetch source.
func resolveSource(arg string) fetch.Source {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return fetch.Source{URL: arg}
	}
	return fetch.Source{Path: arg}
}

// loadResult opens a source and runs a full parse to completion. Shared
// by the non-interactive subcommands, which have no message loop to
// stream into.
func loadResult(ctx context.Context, arg string, cfg *config.Config) (*parse.Result, error) {
	src := resolveSource(arg)
	fetcher := fetch.NewFetcher(30 * time.Second)

	rc, size, err := fetcher.Open(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.DisplayName(), err)
	}
	defer rc.Close()

	session := parse.Begin(ctx, rc, size, parse.Config{
		ChunkSize:         cfg.Parser.ChunkSizeKB * 1024,
		MaxMemoryBytes:    int64(cfg.Parser.MaxMemoryMB) * 1024 * 1024,
		EnableCompression: fetch.IsCompressed(src),
		ValidateOnParse:   cfg.Parser.ValidateOnParse,
	})
	return session.Result()
}

// mustConfig loads config, falling back to defaults on error.
func mustConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "specmaster: "+format+"\n", args...)
	os.Exit(1)
}
