package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskSource is the slice of the task repository the scanner needs.
type TaskSource interface {
	FindWithReminderBetween(ctx context.Context, from, to time.Time) ([]models.Task, error)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Task, error)
	FindOverdue(ctx context.Context, before time.Time) ([]models.Task, error)
	GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
}

// NotificationStore is the slice of the notification repository the scanner
// needs: one insert and one existence check.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	FindRecentByTask(ctx context.Context, userID, taskID primitive.ObjectID, notifType string, since time.Time) (*models.Notification, error)
}

// UserSource resolves the task owner for reminder emails.
type UserSource interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// EmailFunc sends a reminder email. Failures are logged and swallowed by
// the dispatcher, never surfaced to the scan result.
type EmailFunc func(to, subject, textBody, htmlBody string) error

// ScanResult is the externally observable outcome of one scan tick.
type ScanResult struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

// Scanner queries the task store for items inside each due window and turns
// qualifying items into notifications. Items are processed sequentially;
// a per-item failure is counted and the scan moves on.
type Scanner struct {
	tasks         TaskSource
	notifications NotificationStore
	users         UserSource
	sendEmail     EmailFunc

	// now is replaceable so tests can pin the clock.
	now func() time.Time
}

// NewScanner wires the scanner to its collaborators.
func NewScanner(tasks TaskSource, notifications NotificationStore, users UserSource, sendEmail EmailFunc) *Scanner {
	return &Scanner{
		tasks:         tasks,
		notifications: notifications,
		users:         users,
		sendEmail:     sendEmail,
		now:           time.Now,
	}
}

// ScanReminders processes tasks whose reminder falls within the next
// 60 seconds. Reminders are not deduplicated, so each matching tick
// creates a notification and sends an email.
func (s *Scanner) ScanReminders(ctx context.Context) (ScanResult, error) {
	now := s.now()
	tasks, err := s.tasks.FindWithReminderBetween(ctx, now, now.Add(ReminderWindow))
	if err != nil {
		return ScanResult{}, fmt.Errorf("reminder scan query failed: %v", err)
	}
	return s.process(ctx, tasks, CategoryReminder, now), nil
}

// ScanDueToday processes tasks due within the current local calendar day.
func (s *Scanner) ScanDueToday(ctx context.Context) (ScanResult, error) {
	now := s.now()
	dayStart := StartOfDay(now)
	tasks, err := s.tasks.FindDueBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return ScanResult{}, fmt.Errorf("due-today scan query failed: %v", err)
	}
	return s.process(ctx, tasks, CategoryDueToday, now), nil
}

// ScanOverdue processes tasks whose due date is in the past, however old.
func (s *Scanner) ScanOverdue(ctx context.Context) (ScanResult, error) {
	now := s.now()
	tasks, err := s.tasks.FindOverdue(ctx, now)
	if err != nil {
		return ScanResult{}, fmt.Errorf("overdue scan query failed: %v", err)
	}
	return s.process(ctx, tasks, CategoryOverdue, now), nil
}

func (s *Scanner) process(ctx context.Context, tasks []models.Task, category Category, now time.Time) ScanResult {
	var result ScanResult

	for _, task := range tasks {
		if !hasCategory(Classify(task, now), category) {
			continue
		}

		permitted, err := s.shouldNotify(ctx, task, category.NotificationType(), now)
		if err != nil {
			logrus.WithError(err).WithField("task_id", task.ID.Hex()).Warn("Dedup check failed")
			result.Errors++
			continue
		}
		if !permitted {
			continue
		}

		created, err := s.dispatch(ctx, task.ID, category)
		if err != nil {
			logrus.WithError(err).WithField("task_id", task.ID.Hex()).Warn("Failed to dispatch notification")
			result.Errors++
			continue
		}
		if created {
			result.Processed++
		}
	}

	logrus.WithFields(logrus.Fields{
		"category":  category.String(),
		"processed": result.Processed,
		"errors":    result.Errors,
	}).Info("Scan completed")

	return result
}
