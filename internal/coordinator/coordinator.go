// Package coordinator builds the application core from a Config and owns
// its resources.
package coordinator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hnstories/internal/config"
	"hnstories/internal/controller"
	"hnstories/internal/eventbus"
	"hnstories/internal/kvstore"
	"hnstories/internal/lifecycle"
	"hnstories/internal/logging"
	"hnstories/internal/persisted"
	"hnstories/internal/remote"
)

// auditedEvents are logged at debug level as they pass through the bus
var auditedEvents = []eventbus.EventType{
	eventbus.EventSearchSubmitted,
	eventbus.EventFetchStarted,
	eventbus.EventFetchSucceeded,
	eventbus.EventFetchFailed,
	eventbus.EventFetchDiscarded,
	eventbus.EventStoryDismissed,
	eventbus.EventPersistFailed,
	eventbus.EventConfigLoaded,
	eventbus.EventConfigSaved,
}

// Coordinator manages the core services and their interactions
type Coordinator struct {
	Config     *config.Config
	Logger     *zap.Logger
	Bus        eventbus.EventBus
	Store      kvstore.Store
	Term       *persisted.Value
	Lifecycle  *lifecycle.Store
	Client     remote.Fetcher
	Controller *controller.Controller

	// Degraded is set when the configured store could not be used and
	// values are only kept in memory for this run.
	Degraded error

	unsubs []func()
}

// Options overrides parts of the wiring, mostly for tests
type Options struct {
	Logger  *zap.Logger    // built from cfg.Log when nil
	Fetcher remote.Fetcher // remote.NewClient(cfg.ClientOptions()) when nil
	// Bus is created before the config is loaded so config events reach it.
	// The coordinator takes ownership and closes it.
	Bus eventbus.EventBus
}

// New wires a coordinator. Store problems are not fatal: the search term
// falls back to memory and the problem is reported in Degraded.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		closeBus(opts.Bus)
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{File: cfg.Log.File, Level: cfg.Log.Level})
		if err != nil {
			closeBus(opts.Bus)
			return nil, err
		}
	}

	bus := opts.Bus
	if bus == nil {
		bus = eventbus.New(logger)
	} else if lb, ok := bus.(interface{ SetLogger(*zap.Logger) }); ok {
		lb.SetLogger(logger)
	}

	c := &Coordinator{
		Config:    cfg,
		Logger:    logger,
		Bus:       bus,
		Lifecycle: lifecycle.NewStore(),
		Client:    opts.Fetcher,
	}

	store, err := kvstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		logger.Warn("store unavailable, keeping values in memory",
			zap.String("backend", cfg.Store.Backend), zap.Error(err))
		c.Degraded = fmt.Errorf("%s store unavailable: %w", cfg.Store.Backend, err)
		store = kvstore.NewMemoryStore()
	}
	c.Store = store

	term, err := persisted.New(ctx, store, cfg.Search.Key, cfg.Search.DefaultTerm)
	if err != nil {
		logger.Warn("could not read saved search term", zap.Error(err))
		c.Degraded = errors.Join(c.Degraded, err)
	}
	c.Term = term

	if c.Client == nil {
		c.Client = remote.NewClient(cfg.ClientOptions())
	}

	c.Controller = controller.New(controller.Options{
		Term:      term,
		Lifecycle: c.Lifecycle,
		Fetcher:   c.Client,
		Endpoint:  cfg.Fetch.Endpoint,
		Bus:       c.Bus,
		Logger:    logger,
		Context:   ctx,
	})

	c.wireServices()
	c.subscribeToEvents()

	logger.Info("core ready",
		zap.String("store", cfg.Store.Backend),
		zap.String("endpoint", cfg.Fetch.Endpoint),
		zap.String("term", term.Get()))

	return c, nil
}

func closeBus(bus eventbus.EventBus) {
	if bus != nil {
		bus.Close()
	}
}

// wireServices connects services with their dependencies
func (c *Coordinator) wireServices() {
	c.Lifecycle.Observe(func(prev, next lifecycle.State, a lifecycle.Action) {
		c.Logger.Debug("lifecycle transition",
			zap.String("action", string(a.Type())),
			zap.Int("before", len(prev.Data)),
			zap.Int("after", len(next.Data)),
			zap.Bool("loading", next.IsLoading),
			zap.Bool("error", next.IsError))
	})
}

// subscribeToEvents logs domain events
func (c *Coordinator) subscribeToEvents() {
	for _, t := range auditedEvents {
		c.unsubs = append(c.unsubs, c.Bus.Subscribe(t, func(e eventbus.DomainEvent) {
			c.Logger.Debug("event", zap.String("type", string(e.Type())), zap.Any("payload", e))
		}))
	}
}

// Close releases every resource in reverse order of creation
func (c *Coordinator) Close() error {
	c.Controller.Close()
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.Bus.Close()
	err := c.Store.Close()
	_ = c.Logger.Sync()
	return err
}
