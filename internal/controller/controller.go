// Package controller wires the persisted search term, the story fetcher
// and the lifecycle store together.
//
// A search goes through three steps so that the caller decides where the
// blocking part runs: Submit issues a Request (dispatching FETCH_INIT),
// Run performs the HTTP call, and Complete commits the outcome. Only the
// outcome of the most recent request is committed; anything older is
// dropped.
package controller

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"hnstories/internal/domain"
	"hnstories/internal/eventbus"
	"hnstories/internal/lifecycle"
	"hnstories/internal/listview"
	"hnstories/internal/persisted"
	"hnstories/internal/remote"
)

// Options holds the collaborators of a Controller
type Options struct {
	Term      *persisted.Value
	Lifecycle *lifecycle.Store
	Fetcher   remote.Fetcher
	Endpoint  string
	Bus       eventbus.EventBus
	Logger    *zap.Logger
	Context   context.Context // parent of every request context
}

// Request is one issued fetch
type Request struct {
	Generation uint64
	Target     string

	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the context the fetch must run under. It is cancelled
// when a newer request supersedes this one.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// View is what the rendering surface needs for one frame
type View struct {
	Phase     lifecycle.Phase
	IsLoading bool
	IsError   bool
	Stories   []domain.Story // after the local filter
	Total     int            // before the local filter
	Term      string
	Filter    string
	Target    string // last issued target
}

// Controller is the composition root of the story search core
type Controller struct {
	term     *persisted.Value
	store    *lifecycle.Store
	fetcher  remote.Fetcher
	endpoint string
	bus      eventbus.EventBus
	logger   *zap.Logger
	base     context.Context

	mu         sync.Mutex
	filter     string
	lastTarget string
	issued     bool
	fetched    bool
	generation uint64
	cancel     context.CancelFunc
}

// New creates a controller
func New(opts Options) *Controller {
	if opts.Lifecycle == nil {
		opts.Lifecycle = lifecycle.NewStore()
	}
	if opts.Endpoint == "" {
		opts.Endpoint = remote.DefaultEndpoint
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return &Controller{
		term:     opts.Term,
		store:    opts.Lifecycle,
		fetcher:  opts.Fetcher,
		endpoint: opts.Endpoint,
		bus:      opts.Bus,
		logger:   opts.Logger,
		base:     opts.Context,
	}
}

// SearchTerm returns the current (possibly unsubmitted) search term
func (c *Controller) SearchTerm() string {
	return c.term.Get()
}

// SetSearchTerm records a keystroke. The term is persisted immediately but
// no request is made until Submit.
func (c *Controller) SetSearchTerm(term string) error {
	c.publish(eventbus.SearchTermChangedEvent{Term: term})

	if err := c.term.Set(c.base, term); err != nil {
		c.logger.Warn("failed to persist search term", zap.String("key", c.term.Key()), zap.Error(err))
		c.publish(eventbus.PersistFailedEvent{Key: c.term.Key(), Err: err})
		return err
	}
	return nil
}

// Filter returns the local filter term
func (c *Controller) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter sets the local filter term applied by Snapshot
func (c *Controller) SetFilter(filter string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
}

// Target returns the request target for the current search term
func (c *Controller) Target() string {
	return remote.BuildTarget(c.endpoint, c.term.Get())
}

// Start issues the request for the initial search term
func (c *Controller) Start() (Request, bool) {
	return c.Submit()
}

// Submit issues a request if the target for the current term differs
// from the last issued one. It reports false when nothing was issued.
func (c *Controller) Submit() (Request, bool) {
	target := c.Target()

	c.mu.Lock()
	if c.issued && target == c.lastTarget {
		c.mu.Unlock()
		c.logger.Debug("target unchanged, not refetching", zap.String("target", target))
		return Request{}, false
	}
	req := c.issueLocked(target)
	c.mu.Unlock()

	c.afterIssue(req)
	return req, true
}

// Refresh issues a request for the current term even if it was already
// issued, for retrying after a failure.
func (c *Controller) Refresh() Request {
	target := c.Target()

	c.mu.Lock()
	req := c.issueLocked(target)
	c.mu.Unlock()

	c.afterIssue(req)
	return req
}

// issueLocked supersedes the in-flight request and starts a new one
func (c *Controller) issueLocked(target string) Request {
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	c.lastTarget = target
	c.issued = true

	c.store.Dispatch(lifecycle.FetchInit{})

	return Request{Generation: c.generation, Target: target, ctx: ctx, cancel: cancel}
}

func (c *Controller) afterIssue(req Request) {
	c.logger.Info("fetch started", zap.Uint64("generation", req.Generation), zap.String("target", req.Target))
	c.publish(eventbus.SearchSubmittedEvent{Term: c.term.Get(), Target: req.Target})
	c.publish(eventbus.FetchStartedEvent{Generation: req.Generation, Target: req.Target})
}

// Run performs the fetch for req. It blocks and may be called from any goroutine.
func (c *Controller) Run(req Request) ([]domain.Story, error) {
	if c.fetcher == nil {
		return nil, errors.New("no fetcher configured")
	}
	return c.fetcher.Fetch(req.Context(), req.Target)
}

// Complete commits the outcome of req. It reports false and changes
// nothing when req has been superseded.
func (c *Controller) Complete(req Request, stories []domain.Story, err error) bool {
	c.mu.Lock()
	current := c.generation
	if req.Generation != current {
		c.mu.Unlock()
		c.logger.Debug("discarding stale response",
			zap.Uint64("generation", req.Generation),
			zap.Uint64("current", current),
			zap.String("target", req.Target))
		c.publish(eventbus.FetchDiscardedEvent{Generation: req.Generation, Current: current, Target: req.Target})
		return false
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.fetched = true
	if err != nil {
		c.store.Dispatch(lifecycle.FetchFailure{})
	} else {
		c.store.Dispatch(lifecycle.FetchSuccess{Payload: stories})
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("fetch failed", zap.Uint64("generation", req.Generation), zap.String("target", req.Target), zap.Error(err))
		c.publish(eventbus.FetchFailedEvent{Generation: req.Generation, Target: req.Target, Err: err})
	} else {
		c.logger.Info("fetch succeeded", zap.Uint64("generation", req.Generation), zap.Int("count", len(stories)))
		c.publish(eventbus.FetchSucceededEvent{Generation: req.Generation, Target: req.Target, Count: len(stories)})
	}
	return true
}

// Search sets the term, then submits, runs and completes the request in
// one blocking call. If the target was already issued nothing is fetched.
// The returned error is the fetch error; persistence errors are only logged.
func (c *Controller) Search(ctx context.Context, term string) error {
	_ = c.SetSearchTerm(term)

	req, ok := c.Submit()
	if !ok {
		return nil
	}
	// AfterFunc runs f on its own goroutine even for a done ctx, so Run could start first
	if ctx.Err() != nil {
		req.cancel()
	}
	stop := context.AfterFunc(ctx, req.cancel)
	defer stop()

	stories, err := c.Run(req)
	c.Complete(req, stories, err)
	return err
}

// Remove dismisses story from the current data
func (c *Controller) Remove(story domain.Story) {
	c.mu.Lock()
	listview.Remove(c.store, story)
	c.mu.Unlock()

	c.logger.Debug("story dismissed", zap.String("id", story.ObjectID.String()))
	c.publish(eventbus.StoryDismissedEvent{ID: story.ObjectID, Title: story.Title})
}

// Snapshot returns the state to render
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	filter := c.filter
	target := c.lastTarget
	fetched := c.fetched
	c.mu.Unlock()

	s := c.store.State()
	return View{
		Phase:     s.Phase(fetched),
		IsLoading: s.IsLoading,
		IsError:   s.IsError,
		Stories:   listview.Project(s.Data, filter),
		Total:     len(s.Data),
		Term:      c.term.Get(),
		Filter:    filter,
		Target:    target,
	}
}

// Generation returns the number of the most recently issued request
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Close cancels any in-flight request
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) publish(e eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
