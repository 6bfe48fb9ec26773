package notifier

import (
	"time"

	"github.com/nurbek-a/taskline/internal/models"
)

// Category is a due window a task can fall into at a given instant.
type Category int

const (
	CategoryReminder Category = iota
	CategoryDueToday
	CategoryOverdue
)

// ReminderWindow is the look-ahead for reminder ticks. The reminder scan
// must run at least once per this interval so no reminder is skipped.
const ReminderWindow = 60 * time.Second

// NotificationType maps a category to its notification type string.
func (c Category) NotificationType() string {
	switch c {
	case CategoryReminder:
		return models.NotificationReminder
	case CategoryDueToday:
		return models.NotificationTaskDue
	default:
		return models.NotificationTaskOverdue
	}
}

func (c Category) String() string {
	return c.NotificationType()
}

// Classify returns the due windows the task falls into at `now`. A done
// task matches nothing, regardless of its date fields.
//
// Windows:
//   - reminder: reminder_date in [now, now+60s]
//   - due-today: due_date in [startOfDay(now), startOfDay(now)+24h),
//     evaluated against the server-local calendar day
//   - overdue: due_date strictly before now, unbounded age
func Classify(task models.Task, now time.Time) []Category {
	if task.Status == models.StatusDone {
		return nil
	}

	var categories []Category

	if !task.ReminderDate.IsZero() &&
		!task.ReminderDate.Before(now) &&
		!task.ReminderDate.After(now.Add(ReminderWindow)) {
		categories = append(categories, CategoryReminder)
	}

	if !task.DueDate.IsZero() {
		dayStart := StartOfDay(now)
		if !task.DueDate.Before(dayStart) && task.DueDate.Before(dayStart.Add(24*time.Hour)) {
			categories = append(categories, CategoryDueToday)
		}
		if task.DueDate.Before(now) {
			categories = append(categories, CategoryOverdue)
		}
	}

	return categories
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func hasCategory(categories []Category, category Category) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
