package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeTaskStore struct {
	tasks    []models.Task
	queryErr error
	// deleted simulates tasks removed between the range query and dispatch.
	deleted map[primitive.ObjectID]bool
}

func (f *fakeTaskStore) FindWithReminderBetween(_ context.Context, from, to time.Time) ([]models.Task, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []models.Task
	for _, task := range f.tasks {
		if task.Status == models.StatusDone || task.ReminderDate.IsZero() {
			continue
		}
		if !task.ReminderDate.Before(from) && !task.ReminderDate.After(to) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) FindDueBetween(_ context.Context, from, to time.Time) ([]models.Task, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []models.Task
	for _, task := range f.tasks {
		if task.Status == models.StatusDone || task.DueDate.IsZero() {
			continue
		}
		if !task.DueDate.Before(from) && task.DueDate.Before(to) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) FindOverdue(_ context.Context, before time.Time) ([]models.Task, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []models.Task
	for _, task := range f.tasks {
		if task.Status == models.StatusDone || task.DueDate.IsZero() {
			continue
		}
		if task.DueDate.Before(before) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) GetTaskByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	if f.deleted[id] {
		return nil, nil
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			task := f.tasks[i]
			return &task, nil
		}
	}
	return nil, nil
}

type fakeNotificationStore struct {
	created []models.Notification
	// clock stamps CreatedAt on insert, mirroring the store-assigned timestamp.
	clock time.Time
	// failFor makes CreateNotification fail for specific task IDs.
	failFor map[primitive.ObjectID]bool
}

func (f *fakeNotificationStore) CreateNotification(_ context.Context, notif *models.Notification) error {
	if notif.TaskID != nil && f.failFor[*notif.TaskID] {
		return errors.New("store write failed")
	}
	notif.CreatedAt = f.clock
	f.created = append(f.created, *notif)
	return nil
}

func (f *fakeNotificationStore) FindRecentByTask(_ context.Context, userID, taskID primitive.ObjectID, notifType string, since time.Time) (*models.Notification, error) {
	for i := len(f.created) - 1; i >= 0; i-- {
		n := f.created[i]
		if n.UserID == userID && n.TaskID != nil && *n.TaskID == taskID && n.Type == notifType && !n.CreatedAt.Before(since) {
			return &n, nil
		}
	}
	return nil, nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

type emailRecorder struct {
	sent []string
	err  error
}

func (e *emailRecorder) send(to, subject, textBody, htmlBody string) error {
	if e.err != nil {
		return e.err
	}
	e.sent = append(e.sent, to)
	return nil
}

func newTask(userID primitive.ObjectID, due, reminder time.Time) models.Task {
	return models.Task{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Title:        "Ship release notes",
		Status:       models.StatusTodo,
		DueDate:      due,
		ReminderDate: reminder,
	}
}

func newFixture(tasks ...models.Task) (*Scanner, *fakeTaskStore, *fakeNotificationStore, *emailRecorder) {
	userID := tasks[0].UserID
	taskStore := &fakeTaskStore{tasks: tasks, deleted: map[primitive.ObjectID]bool{}}
	notifStore := &fakeNotificationStore{failFor: map[primitive.ObjectID]bool{}}
	users := &fakeUserStore{users: map[primitive.ObjectID]*models.User{
		userID: {ID: userID, Username: "ayana", Email: "ayana@example.com"},
	}}
	emails := &emailRecorder{}
	scanner := NewScanner(taskStore, notifStore, users, emails.send)
	return scanner, taskStore, notifStore, emails
}

func setClock(s *Scanner, n *fakeNotificationStore, at time.Time) {
	s.now = func() time.Time { return at }
	n.clock = at
}

func TestScanDueTodayCreatesNotification(t *testing.T) {
	userID := primitive.NewObjectID()
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	task := newTask(userID, due, time.Time{})

	scanner, _, notifStore, _ := newFixture(task)
	setClock(scanner, notifStore, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))

	result, err := scanner.ScanDueToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Processed: 1, Errors: 0}, result)

	require.Len(t, notifStore.created, 1)
	notif := notifStore.created[0]
	assert.Equal(t, models.NotificationTaskDue, notif.Type)
	assert.Equal(t, "Task Due Today", notif.Title)
	assert.Equal(t, userID, notif.UserID)
	require.NotNil(t, notif.TaskID)
	assert.Equal(t, task.ID, *notif.TaskID)
	assert.Equal(t, "/tasks/"+task.ID.Hex(), notif.ActionURL)
}

func TestScanDueTodayIsIdempotentWithinDay(t *testing.T) {
	userID := primitive.NewObjectID()
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	scanner, _, notifStore, _ := newFixture(newTask(userID, due, time.Time{}))

	setClock(scanner, notifStore, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	first, err := scanner.ScanDueToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	// Same calendar day, later hour: dedup blocks re-creation.
	setClock(scanner, notifStore, time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC))
	second, err := scanner.ScanDueToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Processed: 0, Errors: 0}, second)
	assert.Len(t, notifStore.created, 1)
}

func TestScanRemindersIsNotDeduplicated(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	scanner, _, notifStore, emails := newFixture(newTask(userID, time.Time{}, now.Add(30*time.Second)))
	setClock(scanner, notifStore, now)

	first, err := scanner.ScanReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	// Second tick inside the same window fires again: at-least-once by design.
	second, err := scanner.ScanReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Processed)

	assert.Len(t, notifStore.created, 2)
	assert.Equal(t, []string{"ayana@example.com", "ayana@example.com"}, emails.sent)
}

func TestScanReminderEmailFailureIsSwallowed(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	scanner, _, notifStore, emails := newFixture(newTask(userID, time.Time{}, now.Add(10*time.Second)))
	setClock(scanner, notifStore, now)
	emails.err = errors.New("smtp unreachable")

	result, err := scanner.ScanReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Processed: 1, Errors: 0}, result)
	assert.Len(t, notifStore.created, 1)
}

func TestScanDueTodayFaultIsolation(t *testing.T) {
	userID := primitive.NewObjectID()
	due := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	first := newTask(userID, due, time.Time{})
	second := newTask(userID, due, time.Time{})
	third := newTask(userID, due, time.Time{})

	scanner, _, notifStore, _ := newFixture(first, second, third)
	setClock(scanner, notifStore, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	notifStore.failFor[second.ID] = true

	result, err := scanner.ScanDueToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Processed: 2, Errors: 1}, result)

	var notified []primitive.ObjectID
	for _, n := range notifStore.created {
		notified = append(notified, *n.TaskID)
	}
	assert.ElementsMatch(t, []primitive.ObjectID{first.ID, third.ID}, notified)
}

func TestScanOverdueRollingWindow(t *testing.T) {
	userID := primitive.NewObjectID()
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	scanner, _, notifStore, _ := newFixture(newTask(userID, due, time.Time{}))

	setClock(scanner, notifStore, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	first, err := scanner.ScanOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)
	assert.Equal(t, models.NotificationTaskOverdue, notifStore.created[0].Type)

	// 12h later: still inside the rolling 24h lookback, no new notification.
	setClock(scanner, notifStore, time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC))
	second, err := scanner.ScanOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)

	// 25h after the first: window has rolled past, fires again.
	setClock(scanner, notifStore, time.Date(2024, 1, 21, 1, 0, 0, 0, time.UTC))
	third, err := scanner.ScanOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, third.Processed)
	assert.Len(t, notifStore.created, 2)
}

func TestScanSkipsTaskDeletedBetweenQueryAndDispatch(t *testing.T) {
	userID := primitive.NewObjectID()
	due := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	task := newTask(userID, due, time.Time{})

	scanner, taskStore, notifStore, _ := newFixture(task)
	setClock(scanner, notifStore, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	taskStore.deleted[task.ID] = true

	result, err := scanner.ScanDueToday(context.Background())
	require.NoError(t, err)

	// Neither processed nor an error: a silent no-op.
	assert.Equal(t, ScanResult{Processed: 0, Errors: 0}, result)
	assert.Empty(t, notifStore.created)
}

func TestScanQueryFailurePropagates(t *testing.T) {
	userID := primitive.NewObjectID()
	scanner, taskStore, notifStore, _ := newFixture(newTask(userID, time.Time{}, time.Time{}))
	setClock(scanner, notifStore, noon)
	taskStore.queryErr = errors.New("store unavailable")

	_, err := scanner.ScanDueToday(context.Background())
	require.Error(t, err)

	_, err = scanner.ScanReminders(context.Background())
	require.Error(t, err)

	_, err = scanner.ScanOverdue(context.Background())
	require.Error(t, err)
}

func TestScanSkipsDoneTasks(t *testing.T) {
	userID := primitive.NewObjectID()
	due := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	task := newTask(userID, due, time.Time{})
	task.Status = models.StatusDone

	scanner, _, notifStore, _ := newFixture(task)
	setClock(scanner, notifStore, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))

	result, err := scanner.ScanDueToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScanResult{}, result)

	result, err = scanner.ScanOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScanResult{}, result)
}
