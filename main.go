package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"hnstories/internal/config"
	"hnstories/internal/coordinator"
	"hnstories/internal/eventbus"
	"hnstories/internal/ui"
	"hnstories/internal/ui/handlers"
)

func main() {
	var (
		configPath string
		endpoint   string
		backend    string
		term       string
	)
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.StringVar(&configPath, "c", "", "Path to the config file (shorthand)")
	flag.StringVar(&endpoint, "endpoint", "", "Search endpoint prefix; the term is appended")
	flag.StringVar(&backend, "store", "", "Where to keep the search term: memory, file or redis")
	flag.StringVar(&term, "term", "", "Search term to start with")
	flag.Parse()

	if term == "" && flag.NArg() > 0 {
		term = flag.Arg(0)
	}

	config.LoadDotEnv()

	// Create event bus; the coordinator attaches the logger once config is known
	bus := eventbus.New(nil)

	configSvc := config.NewConfigServiceWithBus(configPath, bus)
	cfg, created, err := configSvc.LoadOrCreate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", configSvc.Path(), err)
		os.Exit(1)
	}
	if endpoint != "" {
		cfg.Fetch.Endpoint = endpoint
	}
	if backend != "" {
		cfg.Store.Backend = backend
	}

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	core, err := coordinator.New(ctx, cfg, coordinator.Options{Bus: bus})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer core.Close()
	logger := core.Logger

	if term != "" {
		// Not fatal: the term is still used for this run
		_ = core.Controller.SetSearchTerm(term)
	}

	notice := ""
	if created {
		notice = "Wrote default config to " + configSvc.Path()
	}
	if core.Degraded != nil {
		notice = "Search term will not be saved: " + core.Degraded.Error()
	}

	model := ui.NewModel(ui.Options{
		Controller: core.Controller,
		Logger:     logger,
		Notice:     notice,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	forwarder := handlers.NewEventForwarder(core.Bus, p, func(e eventbus.DomainEvent) tea.Msg {
		return ui.EventMsg{Event: e}
	})
	forwarder.Forward(eventbus.EventStoryDismissed, eventbus.EventFetchDiscarded)
	defer forwarder.Close()

	logger.Info("starting UI", zap.String("config", configSvc.Path()))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("program exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	logger.Info("UI exited normally")
}
