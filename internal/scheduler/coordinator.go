package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/pingme/internal/domain"
	"github.com/hamed0406/pingme/internal/metrics"
	"github.com/hamed0406/pingme/internal/probe"
	"github.com/hamed0406/pingme/internal/repo"
)

type CoordinatorConfig struct {
	InitialDelay time.Duration // before the first cycle
	Interval     time.Duration // from the end of one cycle to the start of the next
	Timeout      time.Duration // per probe
	Concurrency  int           // max probes in flight
}

// CycleResult summarizes one pass over the registry.
type CycleResult struct {
	Targets  int
	Failing  []string // sorted
	Duration time.Duration
	Err      error // registry read failure; nothing was probed
}

type Coordinator struct {
	logger   *zap.Logger
	targets  repo.Registry
	statuses repo.StatusStore
	prober   probe.Prober
	alerter  *Alerter
	metrics  *metrics.Metrics
	cfg      CoordinatorConfig
}

func NewCoordinator(
	logger *zap.Logger,
	targets repo.Registry,
	statuses repo.StatusStore,
	prober probe.Prober,
	alerter *Alerter,
	m *metrics.Metrics,
	cfg CoordinatorConfig,
) *Coordinator {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.InitialDelay < 0 {
		cfg.InitialDelay = 0
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = probe.DefaultTimeout
	}
	return &Coordinator{
		logger:   logger,
		targets:  targets,
		statuses: statuses,
		prober:   prober,
		alerter:  alerter,
		metrics:  m,
		cfg:      cfg,
	}
}

// Run waits InitialDelay, then runs cycles back to back with Interval between
// the end of one and the start of the next, so a slow cycle delays the next
// rather than overlapping it. It returns once ctx is cancelled; a cycle that
// is already running is allowed to finish.
func (c *Coordinator) Run(ctx context.Context) {
	timer := time.NewTimer(c.cfg.InitialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("coordinator_stopped")
			return
		case <-timer.C:
			c.RunCycle(context.WithoutCancel(ctx))
			timer.Reset(c.cfg.Interval)
		}
	}
}

// RunCycle probes every registered target once, records each status as soon
// as it is known, waits for all of them, then hands the failing set to the
// alerter.
func (c *Coordinator) RunCycle(ctx context.Context) CycleResult {
	start := time.Now()
	c.logger.Debug("cycle_started")

	targets, err := c.targets.List(ctx)
	if err != nil {
		c.logger.Warn("cycle_list_error", zap.Error(err))
		c.metrics.CycleFailed()
		return CycleResult{Err: err, Duration: time.Since(start)}
	}

	var (
		mu      sync.Mutex
		failing = make(map[string]struct{})
	)
	g := new(errgroup.Group)
	g.SetLimit(c.cfg.Concurrency)
	for name, url := range targets {
		g.Go(func() error {
			st := c.probe(ctx, name, url)
			c.record(ctx, name, url, st)
			if !st.OK() {
				mu.Lock()
				failing[name] = struct{}{}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	c.alerter.Observe(ctx, failing, targets)

	res := CycleResult{
		Targets:  len(targets),
		Failing:  sortedNames(failing),
		Duration: time.Since(start),
	}
	c.metrics.ObserveCycle(res.Targets, len(res.Failing), res.Duration)
	c.logger.Info("cycle_completed",
		zap.Int("targets", res.Targets),
		zap.Strings("failing", res.Failing),
		zap.Duration("took", res.Duration),
	)
	return res
}

// probe never panics; a panicking prober yields a transport failure.
func (c *Coordinator) probe(ctx context.Context, name, url string) (st domain.Status) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("cycle_probe_panic",
				zap.String("target", name),
				zap.String("url", url),
				zap.Any("panic", r),
			)
			st = domain.TransportFailure(probe.ClassPanic, time.Now().UTC())
		}
	}()

	pctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	st = c.prober.Probe(pctx, url)
	c.metrics.ObserveProbe(st)
	return st
}

func (c *Coordinator) record(ctx context.Context, name, url string, st domain.Status) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("cycle_store_panic", zap.String("target", name), zap.Any("panic", r))
		}
	}()

	if err := c.statuses.Set(ctx, name, domain.EncodeStatus(st)); err != nil {
		c.logger.Warn("cycle_store_error",
			zap.String("target", name),
			zap.String("url", url),
			zap.Error(err),
		)
		return
	}
	c.logger.Debug("cycle_checked",
		zap.String("target", name),
		zap.String("url", url),
		zap.Bool("ok", st.OK()),
		zap.String("code", st.Code()),
		zap.String("response_time", st.ResponseTimeText()),
	)
}
