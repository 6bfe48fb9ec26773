package notifier

import (
	"context"
	"errors"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RetentionStore is the housekeeping slice of the notification repository.
type RetentionStore interface {
	DeleteExpiredRead(ctx context.Context) error
}

// AggregateResult bundles the outcome of all three scans for the manual
// trigger path.
type AggregateResult struct {
	Reminders ScanResult `json:"reminders"`
	DueToday  ScanResult `json:"due_today"`
	Overdue   ScanResult `json:"overdue"`
}

// Scheduler owns the periodic scan timers. It is an explicit handle:
// construct once, Start once, Stop on shutdown. Each schedule's callback
// catches and logs its own failure so one schedule never cancels another.
type Scheduler struct {
	scanner   *Scanner
	retention RetentionStore

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
}

// NewScheduler creates a scheduler handle for the given scanner.
func NewScheduler(scanner *Scanner, retention RetentionStore) *Scheduler {
	return &Scheduler{
		scanner:   scanner,
		retention: retention,
	}
}

// Start registers the scan schedules and starts the timers. Calling Start
// on an already-started scheduler is a no-op, never a double registration.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		logrus.Warn("Scheduler already started, ignoring")
		return
	}

	c := cron.New()

	// Reminder ticks are minute-granularity: the scan looks 60s ahead,
	// so running every minute covers every reminder at least once.
	c.AddFunc("@every 1m", func() {
		if _, err := s.scanner.ScanReminders(context.Background()); err != nil {
			logrus.WithError(err).Error("Reminder scan failed")
		}
	})

	// Due-today digest once per day at 08:00 local time.
	c.AddFunc("0 8 * * *", func() {
		if _, err := s.scanner.ScanDueToday(context.Background()); err != nil {
			logrus.WithError(err).Error("Due-today scan failed")
		}
	})

	c.AddFunc("@every 6h", func() {
		if _, err := s.scanner.ScanOverdue(context.Background()); err != nil {
			logrus.WithError(err).Error("Overdue scan failed")
		}
	})

	// Nightly retention sweep for read notifications.
	c.AddFunc("30 3 * * *", func() {
		if err := s.retention.DeleteExpiredRead(context.Background()); err != nil {
			logrus.WithError(err).Error("Notification retention sweep failed")
		}
	})

	c.Start()
	s.cron = c
	s.started = true
	logrus.Info("Notification scheduler started")
}

// Stop halts the timers. Scans already in flight run to completion.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.cron.Stop()
	s.cron = nil
	s.started = false
	logrus.Info("Notification scheduler stopped")
}

// RunAll invokes all three scans synchronously, bypassing the timers.
// Used by the operational trigger endpoint. Query-level failures are
// joined into the returned error; the aggregate still carries whatever
// results were obtained.
func (s *Scheduler) RunAll(ctx context.Context) (AggregateResult, error) {
	var result AggregateResult
	var errReminders, errDue, errOverdue error

	result.Reminders, errReminders = s.scanner.ScanReminders(ctx)
	result.DueToday, errDue = s.scanner.ScanDueToday(ctx)
	result.Overdue, errOverdue = s.scanner.ScanOverdue(ctx)

	return result, errors.Join(errReminders, errDue, errOverdue)
}
