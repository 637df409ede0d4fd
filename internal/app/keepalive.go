package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts standard 5-field expressions and descriptors such
// as "@every 5m" or "@hourly".
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule checks a session refresh schedule
func ParseSchedule(expr string) (cron.Schedule, error) {
	schedule, err := scheduleParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", expr, err)
	}
	return schedule, nil
}

// KeepAlive re-validates the session on schedule until the returned stop
// function is called. Runs are skipped while nobody is signed in; a rejected
// session is logged out by the refresh itself.
func (a *App) KeepAlive(ctx context.Context, expr string) (stop func(), err error) {
	schedule, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(schedule, cron.FuncJob(func() { a.refresh(ctx) }))
	c.Start()

	a.logger.Debug().
		Str("schedule", expr).
		Time("next_refresh_at", schedule.Next(time.Now())).
		Msg("Session keepalive started")

	return func() {
		cancel()
		<-c.Stop().Done()
	}, nil
}

func (a *App) refresh(ctx context.Context) {
	if a.Session.Current() == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, a.Client.Timeout())
	defer cancel()

	if err := a.Session.Refresh(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("Session refresh failed; signed out")
		return
	}
	a.logger.Debug().Msg("Session refreshed")
}
