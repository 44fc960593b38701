// Package radio turns key presses into station changes. It owns which station
// is tuned in and whether the radio is on.
package radio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/yhkl-dev/localradio/catalog"
	"github.com/yhkl-dev/localradio/domain"
	"github.com/yhkl-dev/localradio/ring"
)

// Input delivers one key at a time. Next blocks until a key arrives and
// returns io.EOF once the input is exhausted.
type Input interface {
	Next(ctx context.Context) (domain.Key, error)
}

// Notifier reports to the listener.
type Notifier interface {
	// Confirm signals a completed reload, typically with the bell
	Confirm(msg string)
	// Show displays a one-line status
	Show(msg string)
}

// ReloadFunc rebuilds the catalog from scratch.
type ReloadFunc func(ctx context.Context) (*catalog.Catalog, error)

// State is the radio's position in the rotation.
type State struct {
	Index   int
	Playing bool
}

// Outcome tells what Handle did with a key.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeDebounced
	OutcomeDispatched
	OutcomeFailed
	OutcomeReloaded
	OutcomeReloadFailed
	OutcomeQuit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDebounced:
		return "debounced"
	case OutcomeDispatched:
		return "dispatched"
	case OutcomeFailed:
		return "failed"
	case OutcomeReloaded:
		return "reloaded"
	case OutcomeReloadFailed:
		return "reload failed"
	case OutcomeQuit:
		return "quit"
	default:
		return "ignored"
	}
}

type Options struct {
	Keys           *KeyMap
	ReloadSequence []domain.Key
	// DebounceWindow of zero disables burst filtering
	DebounceWindow time.Duration
	Now            func() time.Time
	Notifier       Notifier
	Logger         zerolog.Logger
}

// Controller is driven from a single goroutine; it holds no locks.
type Controller struct {
	catalog  *catalog.Catalog
	reloadFn ReloadFunc
	keys     *KeyMap
	sequence []domain.Key
	window   time.Duration
	now      func() time.Time
	notifier Notifier
	logger   zerolog.Logger

	state   State
	history *ring.Buffer[domain.Key]
	stamps  *ring.Buffer[time.Time]
}

func NewController(cat *catalog.Catalog, reload ReloadFunc, opts Options) (*Controller, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, catalog.ErrNoStations
	}
	if opts.Keys == nil {
		return nil, errors.New("no key map")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}

	sequence := make([]domain.Key, len(opts.ReloadSequence))
	for i, k := range opts.ReloadSequence {
		sequence[i] = NormalizeKey(string(k))
	}

	c := &Controller{
		catalog:  cat,
		reloadFn: reload,
		keys:     opts.Keys,
		sequence: sequence,
		window:   opts.DebounceWindow,
		now:      opts.Now,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		history:  ring.New[domain.Key](len(sequence)),
	}
	c.stamps = ring.New[time.Time](debounceSize(cat))
	return c, nil
}

// debounceSize is twice the station count of cat.
func debounceSize(cat *catalog.Catalog) int {
	return max(2*cat.Len(), 1)
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

func (c *Controller) current() *catalog.Station {
	return c.catalog.At(c.state.Index)
}

// Run handles keys from input until Quit, io.EOF or cancellation.
func (c *Controller) Run(ctx context.Context, input Input) error {
	for {
		key, err := input.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if c.Handle(ctx, key) == OutcomeQuit {
			return nil
		}
	}
}

// Handle processes one key to completion. Every key enters the reload
// history and the burst filter; a key completing the reload sequence is not
// dispatched, and a key inside a burst is dropped.
func (c *Controller) Handle(ctx context.Context, key domain.Key) (outcome Outcome) {
	key = NormalizeKey(string(key))
	burst := c.debounced(c.now())

	if c.reloadRequested(key) {
		return c.reload(ctx)
	}

	if burst {
		c.logger.Debug().Str("key", string(key)).Msg("Input burst, key dropped")
		return OutcomeDebounced
	}

	cmd, ok := c.keys.Lookup(key)
	if !ok {
		c.logger.Debug().Str("key", string(key)).Msg("Unbound key")
		return OutcomeIgnored
	}

	if err := c.dispatch(ctx, key, cmd); err != nil {
		c.logger.Error().Err(err).Str("command", cmd.String()).Msg("Command failed")
		return OutcomeFailed
	}
	if cmd == domain.CommandQuit {
		return OutcomeQuit
	}
	return OutcomeDispatched
}

// debounced records now and reports whether the ring already held its full
// complement of inputs inside the window.
func (c *Controller) debounced(now time.Time) bool {
	if c.window <= 0 {
		return false
	}
	oldest, ok := c.stamps.Oldest()
	full := c.stamps.Full()
	c.stamps.Push(now)
	return ok && full && now.Sub(oldest) < c.window
}

func (c *Controller) reloadRequested(key domain.Key) bool {
	if len(c.sequence) == 0 {
		return false
	}
	c.history.Push(key)
	if !c.history.Full() {
		return false
	}
	for i, want := range c.sequence {
		if c.history.At(i) != want {
			return false
		}
	}
	return true
}

func (c *Controller) dispatch(ctx context.Context, key domain.Key, cmd domain.Command) (err error) {
	before := c.state
	var station string
	defer func() {
		if r := recover(); r != nil {
			c.state = before
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			err = &DispatchError{Key: key, Command: cmd, Station: station, Err: err}
		}
	}()
	station = c.current().Name()

	c.logger.Debug().Str("key", string(key)).Str("command", cmd.String()).Int("index", c.state.Index).Bool("playing", c.state.Playing).Msg("Dispatch")

	switch cmd {
	case domain.CommandToggle:
		return c.toggle(ctx)
	case domain.CommandNext:
		return c.move(ctx, 1)
	case domain.CommandPrevious:
		return c.move(ctx, -1)
	case domain.CommandStatus:
		status, err := c.Status(ctx)
		c.notifier.Show(status.String())
		return err
	case domain.CommandQuit:
		return nil
	}
	return nil
}

func (c *Controller) toggle(ctx context.Context) error {
	station := c.current()
	if c.state.Playing {
		if err := station.Stop(ctx); err != nil {
			return err
		}
		c.state.Playing = false
		c.logger.Info().Str("station", station.Name()).Msg("Radio off")
		c.notifier.Show("off")
		return nil
	}

	if err := c.tuneIn(ctx, station); err != nil {
		return err
	}
	c.state.Playing = true
	return nil
}

// move steps the rotation by delta. A playing radio stops the old station
// and tunes in the new one; when that fails it goes back to the old one.
func (c *Controller) move(ctx context.Context, delta int) error {
	before := c.state
	n := c.catalog.Len()

	if before.Playing {
		if err := c.current().Stop(ctx); err != nil {
			return err
		}
	}
	c.state.Index = ((before.Index+delta)%n + n) % n

	if !before.Playing {
		c.notifier.Show(c.current().Name())
		return nil
	}

	err := c.tuneIn(ctx, c.current())
	if err == nil {
		return nil
	}

	c.state.Index = before.Index
	if restoreErr := c.tuneIn(ctx, c.current()); restoreErr != nil {
		c.state.Playing = false
		return multierr.Append(err, fmt.Errorf("restore %s: %w", c.current().Name(), restoreErr))
	}
	return err
}

func (c *Controller) tuneIn(ctx context.Context, station *catalog.Station) error {
	pos, err := station.Play(ctx, c.now())
	if err != nil {
		return err
	}
	track := station.Track(pos)
	c.logger.Info().
		Str("station", station.Name()).
		Int("index", c.state.Index).
		Int("track", pos.Track).
		Str("title", track.Title).
		Dur("offset", pos.Offset).
		Msg("Tuned in")
	c.notifier.Show(fmt.Sprintf("%s: %s", station.Name(), track.Title))
	return nil
}

// reload swaps in a freshly built catalog. The old catalog and state stay
// untouched when the build fails.
func (c *Controller) reload(ctx context.Context) (outcome Outcome) {
	c.history.Reset()
	cat, state, stamps := c.catalog, c.state, c.stamps
	defer func() {
		if r := recover(); r != nil {
			c.catalog, c.state, c.stamps = cat, state, stamps
			c.logger.Error().Interface("panic", r).Msg("Reload panicked")
			c.notifier.Show("reload failed")
			outcome = OutcomeReloadFailed
		}
	}()

	if c.reloadFn == nil {
		c.logger.Warn().Msg("Reload requested but not configured")
		return OutcomeReloadFailed
	}

	c.logger.Info().Msg("Reloading stations")
	fresh, err := c.reloadFn(ctx)
	if err == nil && (fresh == nil || fresh.Len() == 0) {
		err = catalog.ErrNoStations
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("Reload failed, keeping current stations")
		c.notifier.Show("reload failed")
		return OutcomeReloadFailed
	}
	freshStamps := ring.New[time.Time](debounceSize(fresh))

	if c.state.Playing {
		if err := c.current().Stop(ctx); err != nil {
			c.logger.Warn().Err(err).Str("station", c.current().Name()).Msg("Stop before reload failed")
		}
	}

	c.catalog = fresh
	c.state = State{}
	c.stamps = freshStamps

	c.logger.Info().Int("stations", fresh.Len()).Msg("Stations reloaded")
	c.notifier.Confirm(fmt.Sprintf("reloaded %d stations", fresh.Len()))
	return OutcomeReloaded
}

// Close stops the current station when the radio is on.
func (c *Controller) Close(ctx context.Context) error {
	if !c.state.Playing {
		return nil
	}
	c.state.Playing = false
	return c.current().Stop(ctx)
}

type nopNotifier struct{}

func (nopNotifier) Confirm(string) {}
func (nopNotifier) Show(string)    {}
