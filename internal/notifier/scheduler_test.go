package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRetentionStore struct {
	sweeps int
}

func (f *fakeRetentionStore) DeleteExpiredRead(context.Context) error {
	f.sweeps++
	return nil
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	userID := primitive.NewObjectID()
	scanner, _, notifStore, _ := newFixture(newTask(userID, time.Time{}, time.Time{}))
	setClock(scanner, notifStore, noon)

	scheduler := NewScheduler(scanner, &fakeRetentionStore{})

	scheduler.Start()
	first := scheduler.cron
	require.NotNil(t, first)

	// Second Start must not register a second set of timers.
	scheduler.Start()
	assert.Same(t, first, scheduler.cron)

	scheduler.Stop()
	assert.Nil(t, scheduler.cron)

	// Stop on a stopped scheduler is a no-op.
	scheduler.Stop()
}

func TestSchedulerRestartAfterStop(t *testing.T) {
	userID := primitive.NewObjectID()
	scanner, _, notifStore, _ := newFixture(newTask(userID, time.Time{}, time.Time{}))
	setClock(scanner, notifStore, noon)

	scheduler := NewScheduler(scanner, &fakeRetentionStore{})
	scheduler.Start()
	scheduler.Stop()
	scheduler.Start()
	assert.NotNil(t, scheduler.cron)
	scheduler.Stop()
}

func TestRunAllAggregatesAllThreeScans(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	reminderTask := newTask(userID, time.Time{}, now.Add(30*time.Second))
	dueTask := newTask(userID, now.Add(3*time.Hour), time.Time{})
	overdueTask := newTask(userID, now.AddDate(0, 0, -3), time.Time{})

	scanner, _, notifStore, _ := newFixture(reminderTask, dueTask, overdueTask)
	setClock(scanner, notifStore, now)

	scheduler := NewScheduler(scanner, &fakeRetentionStore{})
	result, err := scheduler.RunAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Reminders.Processed)
	assert.Equal(t, 1, result.DueToday.Processed)
	assert.Equal(t, 1, result.Overdue.Processed)

	types := map[string]int{}
	for _, n := range notifStore.created {
		types[n.Type]++
	}
	assert.Equal(t, map[string]int{
		models.NotificationReminder:    1,
		models.NotificationTaskDue:     1,
		models.NotificationTaskOverdue: 1,
	}, types)
}

func TestRunAllReportsQueryFailures(t *testing.T) {
	userID := primitive.NewObjectID()
	scanner, taskStore, notifStore, _ := newFixture(newTask(userID, time.Time{}, time.Time{}))
	setClock(scanner, notifStore, noon)
	taskStore.queryErr = assert.AnError

	scheduler := NewScheduler(scanner, &fakeRetentionStore{})
	_, err := scheduler.RunAll(context.Background())
	require.Error(t, err)
}
