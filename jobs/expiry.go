package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/metrics"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

// Expirer deactivates the records whose date is before cutoff.
type Expirer interface {
	DeactivateExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// ExpirySweep runs the same deactivation the listings apply lazily, over
// every dated collection.
type ExpirySweep struct {
	sources map[string]Expirer
	log     *zap.Logger
	now     func() time.Time
	timeout time.Duration
}

// NewExpirySweep takes the expirers keyed by collection name.
func NewExpirySweep(sources map[string]Expirer, log *zap.Logger) *ExpirySweep {
	return &ExpirySweep{
		sources: sources,
		log:     log,
		now:     time.Now,
		timeout: time.Minute,
	}
}

// Run performs one sweep and returns how many records were deactivated.
// A failing collection does not stop the others.
func (s *ExpirySweep) Run(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	today := utils.StartOfDay(s.now())
	var total int64
	for name, source := range s.sources {
		n, err := source.DeactivateExpired(ctx, today)
		if err != nil {
			s.log.Error("expiry sweep failed", zap.String("collection", name), zap.Error(err))
			continue
		}
		if n > 0 {
			metrics.ExpiredDeactivated.WithLabelValues(name).Add(float64(n))
			s.log.Info("expired records deactivated", zap.String("collection", name), zap.Int64("count", n))
		}
		total += n
	}
	return total
}

// Scheduler runs the expiry sweep on a cron spec.
type Scheduler struct {
	cron  *cron.Cron
	sweep *ExpirySweep
	log   *zap.Logger
}

// NewScheduler registers the sweep under spec (standard five-field syntax).
func NewScheduler(spec string, sweep *ExpirySweep, log *zap.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	s := &Scheduler{cron: c, sweep: sweep, log: log}
	if _, err := c.AddFunc(spec, func() { s.sweep.Run(context.Background()) }); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info("expiry sweep scheduled")
	s.cron.Start()
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
