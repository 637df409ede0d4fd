// Package bridge turns session-lifecycle signals raised by the API client into
// session changes and navigation. It is the only consumer of those signals.
package bridge

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/alumnet-dev/alumnet/internal/authevent"
	"github.com/alumnet-dev/alumnet/internal/guard"
)

// Session is the part of the session store the bridge mutates
type Session interface {
	Clear()
}

// Navigator moves the client router. Navigating to the current route must
// be a no-op.
type Navigator interface {
	Navigate(path string, replace bool) bool
}

// Bridge drains a signal channel on a single goroutine
type Bridge struct {
	events    <-chan authevent.Event
	session   Session
	navigator Navigator
	logger    zerolog.Logger

	handled atomic.Int64
	done    chan struct{}

	mu       sync.Mutex
	progress chan struct{}
}

// New creates a bridge. Call Run to start consuming.
func New(events <-chan authevent.Event, session Session, navigator Navigator, logger zerolog.Logger) *Bridge {
	return &Bridge{
		events:    events,
		session:   session,
		navigator: navigator,
		logger:    logger,
		done:      make(chan struct{}),
		progress:  make(chan struct{}),
	}
}

// Run handles signals until the channel is closed or ctx is cancelled.
// Signals still buffered when the channel closes are handled first.
func (b *Bridge) Run(ctx context.Context) {
	defer close(b.done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-b.events:
			if !ok {
				return
			}
			b.Handle(ev)
			b.handled.Add(1)
			b.advance()
		}
	}
}

// Handled reports how many signals Run has processed
func (b *Bridge) Handled() int {
	return int(b.handled.Load())
}

// Progress returns a channel that is closed once the next signal has been
// handled. Take it before checking Handled to not miss a wakeup.
func (b *Bridge) Progress() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

func (b *Bridge) advance() {
	b.mu.Lock()
	close(b.progress)
	b.progress = make(chan struct{})
	b.mu.Unlock()
}

// Done is closed when Run returns
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Handle applies a single signal
func (b *Bridge) Handle(ev authevent.Event) {
	switch ev.Kind {
	case authevent.Unauthorized:
		b.session.Clear()
		target := LoginPathFor(ev.Path)
		moved := b.navigator.Navigate(target, true)
		b.logger.Info().
			Str("path", ev.Path).
			Str("redirect", target).
			Bool("navigated", moved).
			Msg("Session expired")
	case authevent.Forbidden:
		moved := b.navigator.Navigate(guard.PathRoot, true)
		b.logger.Info().
			Str("path", ev.Path).
			Bool("navigated", moved).
			Msg("Access forbidden")
	default:
		b.logger.Warn().Str("kind", ev.Kind.String()).Msg("Unknown session signal")
	}
}

// LoginPathFor picks the login page for a request that was rejected with 401
func LoginPathFor(requestPath string) string {
	if strings.Contains(requestPath, guard.PathAdminLogin) {
		return guard.PathAdminLogin
	}
	return guard.PathAlumniLogin
}
