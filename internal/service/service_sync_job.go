package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/furkeep/pawsync/internal/config"
	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/models"
)

// JobConfig holds SyncJob settings.
type JobConfig struct {
	// Strategy selects when sync passes run: config.StrategyImmediate,
	// config.StrategyLazy or config.StrategyScheduled.
	Strategy string

	// Interval is the scheduled-strategy period.
	Interval time.Duration
}

// SyncJob drives the orchestrator according to the configured strategy:
//
//   - immediate: a pass runs right after every local mutation (via Trigger)
//     and whenever connectivity returns.
//   - lazy: mutations only mark the job dirty; a pass runs when the network
//     gate opens with work pending.
//   - scheduled: passes run on a fixed timer regardless of mutations.
//
// The job is idle until Start is called.
type SyncJob struct {
	syncer  Syncer
	network NetworkGate
	logger  *logger.Logger

	strategy string
	interval time.Duration

	trigger chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	cron   *cron.Cron
	unsub  func()
}

func NewSyncJob(cfg JobConfig, syncer Syncer, network NetworkGate, log *logger.Logger) *SyncJob {
	if cfg.Strategy == "" {
		cfg.Strategy = config.StrategyLazy
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}

	return &SyncJob{
		syncer:   syncer,
		network:  network,
		logger:   log,
		strategy: cfg.Strategy,
		interval: cfg.Interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger signals that a local mutation was enqueued. Under the immediate
// strategy this schedules a pass as soon as possible; under lazy it marks
// work pending. Never blocks.
func (j *SyncJob) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

// Start launches the background strategy loop. It stops any previously
// running loop first. The loop exits when ctx is cancelled or Stop is called.
func (j *SyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	switch j.strategy {
	case config.StrategyScheduled:
		j.startScheduledLocked(jobCtx)
	case config.StrategyImmediate:
		j.startEventDrivenLocked(jobCtx, true)
	default:
		j.startEventDrivenLocked(jobCtx, false)
	}
	j.mu.Unlock()

	j.logger.Info().
		Str("func", "SyncJob.Start").
		Str("strategy", j.strategy).
		Dur("interval", j.interval).
		Msg("sync job started")
}

// Run starts the strategy loop, blocks until ctx is cancelled and stops
// cleanly. It lets the job run under a workers.Workers aggregate.
func (j *SyncJob) Run(ctx context.Context) {
	j.Start(ctx)
	<-ctx.Done()
	j.Stop()
}

// Stop cancels the strategy loop and blocks until it has fully exited. Safe
// to call when the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	c := j.cron
	j.cron = nil
	unsub := j.unsub
	j.unsub = nil
	j.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if c != nil {
		<-c.Stop().Done()
	}
	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// startScheduledLocked runs passes on a fixed timer. Overlapping runs are
// skipped rather than queued; the orchestrator rejects them anyway.
func (j *SyncJob) startScheduledLocked(ctx context.Context) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err := c.AddJob("@every "+j.interval.String(), cron.NewChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	).Then(cron.FuncJob(func() {
		j.runPass(ctx)
	})))
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("func", "SyncJob.startScheduledLocked").
			Msg("failed to schedule sync job")
		return
	}
	c.Start()
	j.cron = c
}

// startEventDrivenLocked serves the immediate and lazy strategies. Both
// react to the network gate opening; immediate additionally reacts to every
// Trigger call, while lazy falls back to a slow periodic drain so triggers
// arriving with the gate already open are not starved.
func (j *SyncJob) startEventDrivenLocked(ctx context.Context, immediate bool) {
	gateOpened := make(chan struct{}, 1)
	j.unsub = j.network.Subscribe(func(status models.NetworkStatus) {
		if !status.CanSync {
			return
		}
		select {
		case gateOpened <- struct{}{}:
		default:
		}
	})

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-gateOpened:
				j.runPass(ctx)
			case <-t.C:
				if !immediate {
					j.runPass(ctx)
				}
			case <-j.trigger:
				if immediate {
					j.runPass(ctx)
				}
				// Lazy: pending work is picked up on the next gate opening
				// or periodic drain.
			}
		}
	}()
}

func (j *SyncJob) runPass(ctx context.Context) {
	err := j.syncer.Sync(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrSyncInProgress), errors.Is(err, ErrSyncNotAllowed):
		j.logger.Debug().
			Err(err).
			Str("func", "SyncJob.runPass").
			Msg("sync pass skipped")
	default:
		j.logger.Warn().
			Err(err).
			Str("func", "SyncJob.runPass").
			Msg("sync pass failed")
	}
}
