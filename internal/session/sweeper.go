package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultTTL is how long a session may sit idle before the sweeper ends
// it.
const DefaultTTL = 30 * time.Minute

// cronParser uses standard 5-field cron expressions (minute, hour, dom,
// month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the
// duration until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// Sweeper periodically ends sessions that have been idle longer than the
// TTL, so abandoned conversations don't hold flow state forever.
type Sweeper struct {
	store Store
	ttl   time.Duration
	expr  string
	now   func() time.Time
}

// SweeperOpts holds parameters for creating a Sweeper.
type SweeperOpts struct {
	Store Store         // required
	TTL   time.Duration // defaults to DefaultTTL
	// Cron is a 5-field cron expression for sweep scheduling.
	// Defaults to every 10 minutes.
	Cron string
	Now  func() time.Time // defaults to time.Now
}

// NewSweeper creates a Sweeper.
func NewSweeper(opts SweeperOpts) (*Sweeper, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session: sweeper: store is required")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	expr := opts.Cron
	if expr == "" {
		expr = "*/10 * * * *"
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return nil, fmt.Errorf("session: sweeper: parse cron %q: %w", expr, err)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Sweeper{store: opts.Store, ttl: ttl, expr: expr, now: now}, nil
}

// Run blocks, sweeping on the cron schedule until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	timer := time.NewTimer(nextCronDuration(s.expr))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.SweepOnce()
			timer.Reset(nextCronDuration(s.expr))
		}
	}
}

// SweepOnce ends all sessions idle past the TTL.
func (s *Sweeper) SweepOnce() {
	cutoff := s.now().Add(-s.ttl)
	swept, err := s.store.SweepIdle(cutoff)
	if err != nil {
		log.Printf("session: sweep: %v", err)
		return
	}
	if swept > 0 {
		log.Printf("session: swept %d idle session(s)", swept)
	}
}
