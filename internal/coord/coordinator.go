// Package coord wires the parse session, the query engine and the
// Bubble Tea program together. The coordinator owns the background
// goroutines; the UI only ever sees messages.
package coord

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/config"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/events"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/fetch"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/logging"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/parse"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/query"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/ui"
)

// fetchTimeout bounds how long a URL source may take to open.
const fetchTimeout = 30 * time.Second

// Sender receives messages destined for the interactive loop.
// *tea.Program satisfies it; tests substitute a recorder.
type Sender interface {
	Send(tea.Msg)
}

// Coordinator manages document loading and query-result forwarding.
// Uses context cancellation as the only stop mechanism.
type Coordinator struct {
	fetcher *fetch.Fetcher
	engine  *query.Engine
	cfg     *config.Config
	wg      sync.WaitGroup
}

// New creates a coordinator around an already-started engine.
func New(engine *query.Engine, cfg *config.Config) *Coordinator {
	return &Coordinator{
		fetcher: fetch.NewFetcher(fetchTimeout),
		engine:  engine,
		cfg:     cfg,
	}
}

// ParseConfig builds the parser configuration from the app config,
// attaching a progress callback that forwards into the program.
func (c *Coordinator) ParseConfig(src fetch.Source, program Sender) parse.Config {
	var lastStage parse.Stage
	return parse.Config{
		ChunkSize:           c.cfg.Parser.ChunkSizeKB * 1024,
		MaxMemoryBytes:      int64(c.cfg.Parser.MaxMemoryMB) * 1024 * 1024,
		EnableCompression:   fetch.IsCompressed(src),
		ValidateOnParse:     c.cfg.Parser.ValidateOnParse,
		PrioritizeEndpoints: c.cfg.Parser.PrioritizeEndpoints,
		Progress: func(pct float64, stage parse.Stage, message string) {
			if stage != lastStage {
				lastStage = stage
				events.Info(events.KindParseStage, events.Event{Comp: "coord", Source: src.DisplayName(), Stage: string(stage)})
			}
			if program != nil {
				program.Send(ui.ParseProgressMsg{Pct: pct, Stage: stage, Message: message})
			}
		},
	}
}

// LoadDocument opens the source and runs a parse session in the
// background, streaming extracted records and the terminal result into
// the program. On success the record collection is installed into the
// engine before ParseDoneMsg is sent.
func (c *Coordinator) LoadDocument(ctx context.Context, src fetch.Source, program Sender) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		started := time.Now()
		events.Info(events.KindDocumentOpen, events.Event{Comp: "coord", Source: src.DisplayName()})

		reader, size, err := c.fetcher.Open(ctx, src)
		if err != nil {
			logging.Error("Document open failed", "source", src.DisplayName(), "error", err)
			events.Error(events.KindDocumentError, events.Event{Comp: "coord", Source: src.DisplayName(), Err: err.Error()})
			program.Send(ui.ParseDoneMsg{Err: err})
			return
		}
		defer reader.Close()

		session := parse.Begin(ctx, reader, size, c.ParseConfig(src, program))

		g, _ := errgroup.WithContext(ctx)
		if stream := session.Stream(); stream != nil {
			g.Go(func() error {
				for batch := range stream {
					program.Send(ui.RecordsStreamedMsg{Records: batch})
				}
				return nil
			})
		}

		result, err := session.Result()
		_ = g.Wait() // stream closes with the session

		if err != nil {
			events.Error(events.KindDocumentError, events.Event{Comp: "coord", Source: src.DisplayName(), Err: err.Error(), Dur: time.Since(started)})
			program.Send(ui.ParseDoneMsg{Err: err})
			return
		}
		c.engine.SetRecords(result.Records)
		events.Info(events.KindDocumentDone, events.Event{Comp: "coord", Source: src.DisplayName(), Count: len(result.Records), Dur: time.Since(started)})
		program.Send(ui.ParseDoneMsg{Result: result})
	}()
}

// ForwardResults pumps fresh query results into the program until the
// context is canceled.
func (c *Coordinator) ForwardResults(ctx context.Context, program Sender) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case res := <-c.engine.Results():
				program.Send(ui.QueryResultMsg{Result: res})
			}
		}
	}()
}

// Wait blocks until the background goroutines exit. Call after
// canceling the context passed to the start methods.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
