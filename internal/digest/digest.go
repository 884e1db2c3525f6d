// Package digest periodically reports conversation stats on a cron schedule.
package digest

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/notify"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/stats"
	"github.com/robfig/cron/v3"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// StatsSource computes the stats to report.
type StatsSource interface {
	Current(ctx context.Context) (stats.Stats, error)
}

// Opts holds parameters for creating a Scheduler.
type Opts struct {
	Cron     string
	Stats    StatsSource
	Out      io.Writer       // optional; digest lines are written here
	Notifier notify.Notifier // optional
	Now      func() time.Time
}

// Scheduler fires a digest at each cron tick.
type Scheduler struct {
	schedule cron.Schedule
	stats    StatsSource
	out      io.Writer
	notifier notify.Notifier
	now      func() time.Time
}

// New validates the cron expression and creates a Scheduler.
func New(opts Opts) (*Scheduler, error) {
	if opts.Stats == nil {
		return nil, fmt.Errorf("digest: stats source is required")
	}
	sched, err := cronParser.Parse(opts.Cron)
	if err != nil {
		return nil, fmt.Errorf("digest: parse cron %q: %w", opts.Cron, err)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		schedule: sched,
		stats:    opts.Stats,
		out:      opts.Out,
		notifier: opts.Notifier,
		now:      now,
	}, nil
}

// Until returns the duration until the next fire time.
func (s *Scheduler) Until() time.Duration {
	now := s.now()
	d := s.schedule.Next(now).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Fire computes and delivers one digest immediately.
func (s *Scheduler) Fire(ctx context.Context) error {
	st, err := s.stats.Current(ctx)
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	if s.out != nil {
		fmt.Fprintf(s.out, "[digest %s] %s\n", s.now().Format(time.RFC3339), st.Summary())
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, notify.FormatDigest(st)); err != nil {
			return fmt.Errorf("digest: %w", err)
		}
	}
	return nil
}

// Run fires the digest on schedule until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(s.Until())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := s.Fire(ctx); err != nil {
				log.Printf("digest: %v", err)
			}
			timer.Reset(s.Until())
		}
	}
}
