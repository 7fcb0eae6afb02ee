package monitor

import (
	"context"
	"math/rand"
	"runtime/debug"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Max17190/amazon-monitor-v2/internal/config"
)

type Monitor struct {
	checker    StockChecker
	notifier   Notifier
	watchlists []config.Watchlist
	poll       config.PollConfig
	log        zerolog.Logger

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(min, max time.Duration) time.Duration
}

func New(checker StockChecker, notifier Notifier, watchlists []config.Watchlist, poll config.PollConfig, log zerolog.Logger) *Monitor {
	return &Monitor{
		checker:    checker,
		notifier:   notifier,
		watchlists: watchlists,
		poll:       poll,
		log:        log,
		sleep:      sleepContext,
		jitter:     jitter,
	}
}

// Run polls every watchlist, notifies for in-stock products and sleeps a
// jittered interval, until ctx is cancelled. A failed cycle is followed by
// the error backoff instead of the regular interval.
func (m *Monitor) Run(ctx context.Context) error {
	ids := 0
	for _, wl := range m.watchlists {
		ids += len(wl.IDs)
	}
	m.log.Info().
		Int("watchlists", len(m.watchlists)).
		Int("ids", ids).
		Dur("min_interval", m.poll.MinInterval).
		Dur("max_interval", m.poll.MaxInterval).
		Msg("monitor started")

	for ctx.Err() == nil {
		res, err := m.RunCycle(ctx)
		if ctx.Err() != nil {
			break
		}

		delay := m.jitter(m.poll.MinInterval, m.poll.MaxInterval)
		if err != nil {
			m.log.Error().Err(err).Str("cycle", res.ID).Dur("backoff", m.poll.ErrorBackoff).Msg("cycle failed")
			delay = m.poll.ErrorBackoff
		} else {
			m.log.Debug().
				Str("cycle", res.ID).
				Int("checked", res.Checked).
				Int("in_stock", res.InStock).
				Int("notified", res.Notified).
				Int("failed_checks", res.FailedChecks).
				Msg("cycle finished")
		}

		if err := m.sleep(ctx, delay); err != nil {
			break
		}
	}

	m.log.Info().Msg("monitor stopped")
	return nil
}

// RunCycle checks each watchlist in turn, with a jittered gap between them,
// and notifies once per in-stock product. Check failures are counted and
// logged; only cancellation or a panic make the cycle itself fail.
func (m *Monitor) RunCycle(ctx context.Context) (res CycleResult, err error) {
	res.ID = ulid.Make().String()
	log := m.log.With().Str("cycle", res.ID).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("stack", string(debug.Stack())).Msg("cycle panicked")
			err = errors.Errorf("panic: %v", r)
		}
	}()

	for i, wl := range m.watchlists {
		if i > 0 {
			if err := m.sleep(ctx, m.jitter(m.poll.BatchGapMin, m.poll.BatchGapMax)); err != nil {
				return res, err
			}
		}

		products, err := m.checker.CheckStock(ctx, wl.IDs)
		if err != nil {
			res.FailedChecks++
			log.Warn().Err(err).Str("watchlist", wl.Name).Msg("stock check failed")
			continue
		}
		res.Checked += len(products)

		for _, p := range products {
			if !p.InStock {
				continue
			}
			res.InStock++
			if err := ctx.Err(); err != nil {
				return res, err
			}
			report := m.notifier.Notify(ctx, p)
			if report.Attempted > 0 {
				res.Notified++
			}
		}
	}
	return res, nil
}

func jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
