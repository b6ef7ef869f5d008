package orch

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	"github.com/dkeye/Roulette/internal/app"
	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/metrics"
	"github.com/rs/zerolog/log"
)

var ErrStopped = errors.New("orchestrator stopped")

const DefaultMailboxSize = 1024

// Orchestrator owns the matchmaker and applies every transition on the
// goroutine running Run, one at a time, in submission order.
type Orchestrator struct {
	Registry   *app.Registry
	Matchmaker core.Matchmaker
	Metrics    *metrics.Metrics

	inbox    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

func New(reg *app.Registry, m *metrics.Metrics, mailboxSize int) *Orchestrator {
	if mailboxSize <= 0 {
		mailboxSize = DefaultMailboxSize
	}
	return &Orchestrator{
		Registry:   reg,
		Matchmaker: app.NewMatchmaker(observedNotifier{next: reg, metrics: m}),
		Metrics:    m,
		inbox:      make(chan func(), mailboxSize),
		done:       make(chan struct{}),
	}
}

// Run blocks until ctx is done. Submissions made afterwards fail with
// ErrStopped.
func (o *Orchestrator) Run(ctx context.Context) {
	defer o.stopOnce.Do(func() { close(o.done) })
	log.Info().Str("module", "orch").Int("mailbox", cap(o.inbox)).Msg("orchestrator started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch").Msg("orchestrator stopped")
			return
		case fn := <-o.inbox:
			o.apply(fn)
		}
	}
}

// Done is closed once Run has returned.
func (o *Orchestrator) Done() <-chan struct{} { return o.done }

// Stats goes through the mailbox, so it also waits for everything
// submitted before it.
func (o *Orchestrator) Stats(ctx context.Context) (core.Stats, error) {
	res := make(chan core.Stats, 1)
	if err := o.submit(ctx, func() { res <- o.Matchmaker.Snapshot() }); err != nil {
		return core.Stats{}, err
	}
	select {
	case s := <-res:
		return s, nil
	case <-ctx.Done():
		return core.Stats{}, ctx.Err()
	case <-o.done:
		return core.Stats{}, ErrStopped
	}
}

// Gauges adapts Stats for the metrics endpoint.
func (o *Orchestrator) Gauges(ctx context.Context) (map[string]int64, error) {
	s, err := o.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int64{
		"online":  int64(s.Online),
		"waiting": int64(s.Waiting),
		"paired":  int64(s.Pairs * 2),
	}, nil
}

// apply keeps the loop alive whatever a transition does.
func (o *Orchestrator) apply(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			o.Metrics.Inc(metrics.TransitionPanics)
			log.Error().Str("module", "orch").Interface("panic", r).Bytes("stack", debug.Stack()).Msg("transition panicked")
		}
	}()
	fn()
}

func (o *Orchestrator) submit(ctx context.Context, fn func()) error {
	select {
	case <-o.done:
		o.Metrics.Inc(metrics.MailboxRejected)
		return ErrStopped
	default:
	}
	select {
	case o.inbox <- fn:
		return nil
	case <-o.done:
		o.Metrics.Inc(metrics.MailboxRejected)
		return ErrStopped
	case <-ctx.Done():
		o.Metrics.Inc(metrics.MailboxRejected)
		return ctx.Err()
	}
}
