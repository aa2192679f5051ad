// Package reorder applies drag-and-drop moves to an ordered collection
// optimistically and reconciles them with the backing store.
//
// A move is applied to the local sequence synchronously and persisted in the
// background:
//
//	Idle -> AppliedLocally -> Persisting -> Idle
//	                                     -> RollingBack -> Idle
//
// On a failed persist the local sequence is replaced by a fresh load, so it
// never diverges from the store for longer than one round trip. Moves issued
// while a persist is in flight supersede it: persists run one at a time, a
// persist that has been overtaken before it starts is skipped, and the
// outcome of an overtaken persist never touches local state.
package reorder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Chaeeun2/alolot/errs"
)

type State int

const (
	Idle State = iota
	AppliedLocally
	Persisting
	RollingBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AppliedLocally:
		return "applied_locally"
	case Persisting:
		return "persisting"
	case RollingBack:
		return "rolling_back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrBusy is returned by Move in exclusive mode while a persist is running.
var ErrBusy = errs.NewConflictError("a previous reorder is still being saved")

// Source loads and persists one ordered collection.
type Source[T any] interface {
	Load(ctx context.Context) ([]T, error)
	// PersistOrder stores items so that their position becomes their order.
	PersistOrder(ctx context.Context, items []T) error
}

type options struct {
	logger    zerolog.Logger
	exclusive bool
	observer  func(State)
}

type Option func(*options)

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithExclusivePersist rejects moves with ErrBusy until the running persist
// and any rollback have finished.
func WithExclusivePersist() Option {
	return func(o *options) {
		o.exclusive = true
	}
}

// WithObserver registers fn to be called on every state transition. fn runs
// outside the controller's lock.
func WithObserver(fn func(State)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

type Controller[T any] struct {
	source Source[T]
	opts   options

	mu         sync.Mutex
	items      []T
	state      State
	generation uint64
	lastErr    error
	loaded     bool

	// persistMu serializes store writes so they land in dispatch order.
	persistMu sync.Mutex
	inflight  sync.WaitGroup
}

func New[T any](source Source[T], opts ...Option) *Controller[T] {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{source: source, opts: o}
}

// Items returns a copy of the local sequence.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of the last reconciliation, nil after a successful
// persist.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Wait blocks until every dispatched persist and rollback has finished.
func (c *Controller[T]) Wait() {
	c.inflight.Wait()
}

// Reload replaces the local sequence with the stored one. It waits for a
// running persist first, and leaves local state alone if a move arrives
// while it is loading.
func (c *Controller[T]) Reload(ctx context.Context) error {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	items, err := c.source.Load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}
	c.items = items
	c.loaded = true
	c.lastErr = nil
	changed := c.setState(Idle)
	c.mu.Unlock()

	c.notify(changed...)
	return nil
}

// Loaded reports whether a Reload has succeeded at least once.
func (c *Controller[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Move moves the element at from to position to. The local sequence is
// updated before Move returns; the store is written in the background.
func (c *Controller[T]) Move(ctx context.Context, from, to int) error {
	c.mu.Lock()
	if from < 0 || from >= len(c.items) {
		c.mu.Unlock()
		return errs.NewInvalidFieldError("from", fmt.Sprintf("index %d out of range [0,%d)", from, len(c.items)))
	}
	if to < 0 || to >= len(c.items) {
		c.mu.Unlock()
		return errs.NewInvalidFieldError("to", fmt.Sprintf("index %d out of range [0,%d)", to, len(c.items)))
	}
	if from == to {
		c.mu.Unlock()
		return nil
	}
	if c.opts.exclusive && c.state != Idle {
		c.mu.Unlock()
		return ErrBusy
	}

	c.items = moveItem(c.items, from, to)
	c.generation++
	gen := c.generation
	snapshot := slices.Clone(c.items)
	changed := c.setState(AppliedLocally)
	changed = append(changed, c.setState(Persisting)...)
	c.inflight.Add(1)
	c.mu.Unlock()

	c.notify(changed...)
	go c.persist(context.WithoutCancel(ctx), gen, snapshot)
	return nil
}

func (c *Controller[T]) persist(ctx context.Context, gen uint64, items []T) {
	defer c.inflight.Done()

	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	if c.superseded(gen) {
		c.opts.logger.Debug().Uint64("generation", gen).Msg("skipping superseded persist")
		return
	}

	err := c.source.PersistOrder(ctx, items)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		if err != nil {
			c.opts.logger.Warn().Err(err).Uint64("generation", gen).Msg("superseded persist failed")
		}
		return
	}
	if err == nil {
		c.lastErr = nil
		changed := c.setState(Idle)
		c.mu.Unlock()
		c.notify(changed...)
		return
	}
	c.lastErr = err
	changed := c.setState(RollingBack)
	c.mu.Unlock()
	c.notify(changed...)

	c.opts.logger.Error().Err(err).Msg("persisting order failed, reloading")
	c.rollback(ctx, gen, err)
}

// rollback runs with persistMu held.
func (c *Controller[T]) rollback(ctx context.Context, gen uint64, cause error) {
	items, loadErr := c.source.Load(ctx)

	c.mu.Lock()
	if gen != c.generation {
		// A newer move owns the local sequence and will reconcile it.
		c.mu.Unlock()
		return
	}
	if loadErr != nil {
		c.opts.logger.Error().Err(loadErr).Msg("reload after failed persist failed")
		c.lastErr = errors.Join(cause, loadErr)
	} else {
		c.items = items
	}
	changed := c.setState(Idle)
	c.mu.Unlock()
	c.notify(changed...)
}

func (c *Controller[T]) superseded(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen != c.generation
}

// setState must be called with mu held. It returns the transition for notify.
func (c *Controller[T]) setState(s State) []State {
	if c.state == s {
		return nil
	}
	c.state = s
	return []State{s}
}

func (c *Controller[T]) notify(states ...State) {
	if c.opts.observer == nil {
		return
	}
	for _, s := range states {
		c.opts.observer(s)
	}
}

func moveItem[T any](items []T, from, to int) []T {
	out := slices.Clone(items)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}
