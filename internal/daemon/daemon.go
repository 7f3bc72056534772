package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/username/attendance-overtime/internal/calendar"
	"github.com/username/attendance-overtime/pkg/dateutil"
	"github.com/username/attendance-overtime/pkg/random"
	"go.uber.org/zap"
)

// Refresher re-fetches the holiday calendar
type Refresher interface {
	Refresh(ctx context.Context) (*calendar.RefreshReport, error)
}

// Daemon refreshes the holiday calendar once a day
type Daemon struct {
	refresher     Refresher
	dailyHour     int // Hour to run daily refresh (0-23)
	dailyMinute   int // Minute to run daily refresh (0-59)
	jitterPercent float64
	clock         dateutil.Clock
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	lastRunDate   string     // Track last successful run date to avoid duplicates
	mu            sync.Mutex // Protect against concurrent runs
}

// NewScheduledDaemon creates a new daemon instance with daily schedule
func NewScheduledDaemon(refresher Refresher, dailyHour, dailyMinute int, jitterPercent float64, clock dateutil.Clock, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		refresher:     refresher,
		dailyHour:     dailyHour,
		dailyMinute:   dailyMinute,
		jitterPercent: jitterPercent,
		clock:         clock,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start runs the schedule until Stop or SIGINT/SIGTERM
func (d *Daemon) Start() error {
	d.logger.Info("Daemon started",
		zap.Int("daily_hour", d.dailyHour),
		zap.Int("daily_minute", d.dailyMinute),
		zap.Float64("jitter_percent", d.jitterPercent))

	now := d.clock.Now()
	scheduledToday := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, now.Location())
	if now.After(scheduledToday) {
		d.logger.Info("Scheduled time already passed today, refreshing now",
			zap.Time("scheduled_time", scheduledToday))
		if err := d.RunOnce(); err != nil {
			d.logger.Error("Initial refresh failed", zap.Error(err))
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	for {
		wait := d.nextWait(d.clock.Now())
		d.logger.Info("Next refresh scheduled",
			zap.Time("next_run", d.clock.Now().Add(wait)),
			zap.Duration("wait_duration", wait))

		timer := time.NewTimer(wait)
		select {
		case <-d.ctx.Done():
			timer.Stop()
			d.logger.Info("Daemon stopped")
			return nil

		case sig := <-sigChan:
			timer.Stop()
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.Stop()
			return nil

		case <-timer.C:
			if err := d.RunOnce(); err != nil {
				d.logger.Error("Scheduled refresh failed", zap.Error(err))
			}
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// RunOnce refreshes the calendar unless it already succeeded today
func (d *Daemon) RunOnce() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	today := dateutil.Key(d.clock.Now())
	if d.lastRunDate == today {
		d.logger.Info("Already refreshed today, skipping",
			zap.String("last_run_date", d.lastRunDate))
		return nil
	}

	report, err := d.refresher.Refresh(d.ctx)
	if err != nil {
		// a partial refresh still counts as a run only when something was updated
		if report != nil && len(report.Updated) > 0 {
			d.lastRunDate = today
		}
		return fmt.Errorf("refresh: %w", err)
	}

	d.lastRunDate = today
	if report != nil {
		d.logger.Info("Calendar refresh completed",
			zap.Ints("years", report.Updated))
	}
	return nil
}

// nextRun returns the next scheduled run strictly after now
func (d *Daemon) nextRun(now time.Time) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, now.Location())

	if !now.Before(target) {
		return target.AddDate(0, 0, 1)
	}
	return target
}

func (d *Daemon) nextWait(now time.Time) time.Duration {
	return random.Jitter(d.nextRun(now).Sub(now), d.jitterPercent)
}
