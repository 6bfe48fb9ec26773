package notifier

import (
	"testing"
	"time"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDedupWindowStart(t *testing.T) {
	now := time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC)

	start, checked := dedupWindowStart(models.NotificationTaskDue, now)
	assert.True(t, checked)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), start)

	start, checked = dedupWindowStart(models.NotificationTaskOverdue, now)
	assert.True(t, checked)
	assert.Equal(t, now.Add(-24*time.Hour), start)

	// Reminders are deliberately exempt from dedup.
	_, checked = dedupWindowStart(models.NotificationReminder, now)
	assert.False(t, checked)
}
