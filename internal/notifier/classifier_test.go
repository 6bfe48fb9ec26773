package notifier

import (
	"testing"
	"time"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/stretchr/testify/assert"
)

var noon = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func TestClassifyDoneTaskMatchesNothing(t *testing.T) {
	task := models.Task{
		Status:       models.StatusDone,
		DueDate:      noon.Add(-48 * time.Hour),
		ReminderDate: noon.Add(30 * time.Second),
	}
	assert.Empty(t, Classify(task, noon))
}

func TestClassifyNoDatesMatchesNothing(t *testing.T) {
	task := models.Task{Status: models.StatusTodo}
	assert.Empty(t, Classify(task, noon))
}

func TestClassifyDueToday(t *testing.T) {
	dayStart := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate time.Time
		want    bool
	}{
		{"exactly now", noon, true},
		{"start of day inclusive", dayStart, true},
		{"last second of day", dayStart.Add(24*time.Hour - time.Second), true},
		{"next day start excluded", dayStart.Add(24 * time.Hour), false},
		{"23:59:59 of next day excluded", dayStart.Add(48*time.Hour - time.Second), false},
		{"yesterday excluded", dayStart.Add(-time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := models.Task{Status: models.StatusTodo, DueDate: tt.dueDate}
			got := hasCategory(Classify(task, noon), CategoryDueToday)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyOverdueHasNoLowerBound(t *testing.T) {
	task := models.Task{
		Status:  models.StatusInProgress,
		DueDate: noon.AddDate(-1, 0, 0),
	}
	assert.True(t, hasCategory(Classify(task, noon), CategoryOverdue))
}

func TestClassifyDueExactlyNowIsNotOverdue(t *testing.T) {
	task := models.Task{Status: models.StatusTodo, DueDate: noon}
	assert.False(t, hasCategory(Classify(task, noon), CategoryOverdue))
}

func TestClassifyReminderWindow(t *testing.T) {
	tests := []struct {
		name     string
		reminder time.Time
		want     bool
	}{
		{"exactly now", noon, true},
		{"30s ahead", noon.Add(30 * time.Second), true},
		{"window edge inclusive", noon.Add(60 * time.Second), true},
		{"just past window", noon.Add(61 * time.Second), false},
		{"in the past", noon.Add(-time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := models.Task{Status: models.StatusTodo, ReminderDate: tt.reminder}
			got := hasCategory(Classify(task, noon), CategoryReminder)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyOverdueTaskDueEarlierTodayMatchesBoth(t *testing.T) {
	task := models.Task{Status: models.StatusTodo, DueDate: noon.Add(-2 * time.Hour)}
	categories := Classify(task, noon)
	assert.True(t, hasCategory(categories, CategoryDueToday))
	assert.True(t, hasCategory(categories, CategoryOverdue))
}
