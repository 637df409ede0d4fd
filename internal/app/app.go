// Package app wires the session core together for one application lifetime:
// API client, session store, router and the signal bridge.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/alumnet-dev/alumnet/internal/authevent"
	"github.com/alumnet-dev/alumnet/internal/bridge"
	"github.com/alumnet-dev/alumnet/internal/client"
	"github.com/alumnet-dev/alumnet/internal/config"
	"github.com/alumnet-dev/alumnet/internal/credstore"
	"github.com/alumnet-dev/alumnet/internal/guard"
	"github.com/alumnet-dev/alumnet/internal/router"
	"github.com/alumnet-dev/alumnet/internal/session"
)

// App is one running instance of the portal client
type App struct {
	Config  *config.Config
	Client  *client.Client
	Session *session.Store
	Router  *router.Router
	Jar     *credstore.Jar

	logger zerolog.Logger
	creds  credstore.Store
	queue  *authevent.Queue
	bridge *bridge.Bridge
	cancel context.CancelFunc

	// signedIn is set once any user has been seen in the session
	signedIn atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

// Option configures an App
type Option func(*options)

type options struct {
	creds credstore.Store
	start string
}

// WithCredStore overrides where the session cookie is persisted
func WithCredStore(s credstore.Store) Option {
	return func(o *options) { o.creds = s }
}

// WithStartPath sets the route the router starts on
func WithStartPath(path string) Option {
	return func(o *options) { o.start = path }
}

// New builds the app and starts the bridge. The saved session cookie, if
// any, is loaded into the jar; call Start to validate it.
func New(cfg *config.Config, logger zerolog.Logger, opts ...Option) (*App, error) {
	o := options{creds: credstore.Default, start: guard.PathRoot}
	for _, opt := range opts {
		opt(&o)
	}

	base, err := url.Parse(cfg.API.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API URL: %w", err)
	}

	jar := credstore.NewJar()
	if err := jar.Restore(o.creds, base); err != nil {
		logger.Warn().Err(err).Msg("Discarded unreadable saved session")
	}

	queue := authevent.NewQueue(authevent.DefaultQueueSize)

	c, err := client.New(cfg.API.URL,
		client.WithTimeout(cfg.API.Timeout),
		client.WithCookieJar(jar),
		client.WithNotifier(queue),
		client.WithLogger(logger.With().Str("component", "client").Logger()),
	)
	if err != nil {
		return nil, err
	}

	store := session.New(c, logger.With().Str("component", "session").Logger())
	r := router.New(router.DefaultRoutes(), o.start, logger.With().Str("component", "router").Logger())
	b := bridge.New(queue.Events(), store, r, logger.With().Str("component", "bridge").Logger())

	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	a := &App{
		Config:  cfg,
		Client:  c,
		Session: store,
		Router:  r,
		Jar:     jar,
		logger:  logger,
		creds:   o.creds,
		queue:   queue,
		bridge:  b,
		cancel:  cancel,
	}
	store.Subscribe(func(snap session.Snapshot) {
		if snap.User != nil {
			a.signedIn.Store(true)
		}
	})
	return a, nil
}

// Start validates the saved session with the backend. A rejected cookie has
// been acted on by the time Start returns.
func (a *App) Start(ctx context.Context) {
	a.Session.Bootstrap(ctx)
	if err := a.Sync(ctx); err != nil {
		a.logger.Debug().Err(err).Msg("Session signals still pending")
	}
}

// Sync waits until every signal raised so far has been handled
func (a *App) Sync(ctx context.Context) error {
	for {
		progress := a.bridge.Progress()
		if a.bridge.Handled() >= a.queue.Sent() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.bridge.Done():
			return nil
		case <-progress:
		}
	}
}

// Visit navigates to path and resolves its guards against the current
// session. Pending signals are handled first.
func (a *App) Visit(ctx context.Context, path string) (router.Outcome, error) {
	if err := a.Sync(ctx); err != nil {
		return router.Outcome{}, err
	}

	out, err := a.Router.Visit(path, a.Session.Snapshot())
	if err != nil {
		return out, err
	}

	a.logger.Debug().
		Str("requested", out.Requested).
		Str("path", out.Path).
		Str("action", out.Action.String()).
		Strs("redirects", out.Redirects).
		Msg("Visit")
	return out, nil
}

// Close stops the bridge after it has drained, then saves the session cookie
// when a user is signed in and forgets it otherwise. A cookie that could not
// be checked because the backend was unreachable is left alone.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.queue.Close()
		<-a.bridge.Done()
		a.cancel()

		base := a.Client.BaseURL()

		if a.Session.Current() != nil {
			a.closeErr = a.Jar.Save(a.creds, base)
			return
		}

		var transportErr *client.TransportError
		if errors.As(a.Session.BootstrapErr(), &transportErr) && !a.signedIn.Load() {
			return
		}

		a.Jar.Reset()
		a.closeErr = a.Jar.Save(a.creds, base)
	})
	return a.closeErr
}
