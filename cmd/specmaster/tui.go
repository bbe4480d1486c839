package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/coord"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/events"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/logging"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/query"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/ui"
)

func runTUI(arg string) {
	if err := logging.Init(); err != nil {
		fatalf("logging: %v", err)
	}
	defer logging.Close()

	if err := events.Init(); err != nil {
		logging.Warn("event log unavailable", "error", err)
	}
	defer events.Close()
	events.Info(events.KindStartup, events.Event{Comp: "main", Source: arg})

	cfg := mustConfig()
	src := resolveSource(arg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := query.NewEngine(query.Options{
		WorkerThreshold: cfg.Query.WorkerThreshold,
		FuzzyThreshold:  cfg.Query.FuzzyThreshold,
		ForceRoute:      query.Route(cfg.Query.ForceRoute),
	})
	engine.Start(ctx)
	defer engine.Close()

	co := coord.New(engine, cfg)
	model := ui.NewModel(engine, cfg, src.DisplayName())
	program := tea.NewProgram(model, tea.WithAltScreen())

	co.LoadDocument(ctx, src, program)
	co.ForwardResults(ctx, program)

	if _, err := program.Run(); err != nil {
		logging.Error("UI crashed", "error", err)
		fatalf("%v", err)
	}

	cancel()
	co.Wait()
	events.Info(events.KindShutdown, events.Event{Comp: "main"})
}
