package notifier

import (
	"context"
	"fmt"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dispatch re-fetches the task, writes the in-app notification and, for
// reminders, emails the task owner. Returns whether a notification was
// actually created. A task that vanished or was completed between the scan
// query and this point is a silent no-op.
func (s *Scanner) dispatch(ctx context.Context, taskID primitive.ObjectID, category Category) (bool, error) {
	task, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("failed to re-fetch task: %v", err)
	}
	if task == nil || task.Status == models.StatusDone {
		return false, nil
	}

	notif := buildNotification(task, category)
	if err := s.notifications.CreateNotification(ctx, notif); err != nil {
		return false, err
	}

	if category == CategoryReminder {
		s.emailReminder(ctx, task)
	}

	return true, nil
}

func buildNotification(task *models.Task, category Category) *models.Notification {
	taskID := task.ID
	notif := &models.Notification{
		UserID:    task.UserID,
		TaskID:    &taskID,
		Type:      category.NotificationType(),
		ActionURL: fmt.Sprintf("/tasks/%s", task.ID.Hex()),
		Read:      false,
	}

	switch category {
	case CategoryReminder:
		notif.Title = "Task Reminder"
		notif.Message = fmt.Sprintf("Reminder: \"%s\" is scheduled for %s.", task.Title, task.ReminderDate.Format("Jan 2 at 15:04"))
	case CategoryDueToday:
		notif.Title = "Task Due Today"
		notif.Message = fmt.Sprintf("Your task \"%s\" is due today.", task.Title)
		if task.Priority == "high" {
			notif.Message = fmt.Sprintf("Your high priority task \"%s\" is due today.", task.Title)
		}
	case CategoryOverdue:
		notif.Title = "Task Overdue"
		notif.Message = fmt.Sprintf("Your task \"%s\" was due on %s and is still open.", task.Title, task.DueDate.Format("Jan 2"))
	}

	return notif
}

// emailReminder sends the reminder email. Email failures are logged and
// swallowed: they never fail the dispatch or decrement processed.
func (s *Scanner) emailReminder(ctx context.Context, task *models.Task) {
	user, err := s.users.GetUserByID(ctx, task.UserID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", task.UserID.Hex()).Warn("Failed to resolve user for reminder email")
		return
	}

	subject := fmt.Sprintf("Reminder: %s", task.Title)
	textBody := fmt.Sprintf("Hi %s,\n\nThis is a reminder for your task \"%s\", scheduled for %s.\n\n— Taskline",
		user.Username, task.Title, task.ReminderDate.Format("Jan 2 at 15:04"))
	htmlBody := fmt.Sprintf("<p>Hi %s,</p><p>This is a reminder for your task <b>%s</b>, scheduled for %s.</p><p>— Taskline</p>",
		user.Username, task.Title, task.ReminderDate.Format("Jan 2 at 15:04"))

	if err := s.sendEmail(user.Email, subject, textBody, htmlBody); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": user.ID.Hex(),
			"task_id": task.ID.Hex(),
		}).Warn("Failed to send reminder email")
	}
}
