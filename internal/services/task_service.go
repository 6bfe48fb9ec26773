package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/nurbek-a/taskline/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService encapsulates the business logic for tasks.
type TaskService struct {
	repo     *repository.TaskRepository
	listRepo *repository.ListRepository
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo *repository.TaskRepository, listRepo *repository.ListRepository) *TaskService {
	return &TaskService{
		repo:     repo,
		listRepo: listRepo,
	}
}

// CreateTask creates a task in a list the user has access to.
func (s *TaskService) CreateTask(ctx context.Context, task *models.Task, userID string) (*models.Task, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	if task.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}

	list, err := s.listRepo.GetListByID(ctx, task.ListID)
	if err != nil {
		return nil, fmt.Errorf("list not found")
	}
	if !list.HasAccess(uid) {
		return nil, fmt.Errorf("access denied")
	}

	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if !validStatus(task.Status) {
		return nil, fmt.Errorf("invalid status %q", task.Status)
	}
	if !task.DueDate.IsZero() && !task.ReminderDate.IsZero() && task.ReminderDate.After(task.DueDate) {
		return nil, fmt.Errorf("reminder cannot be after the due date")
	}

	task.UserID = uid
	return s.repo.CreateTask(ctx, task)
}

// GetTask fetches a task the user has access to.
func (s *TaskService) GetTask(ctx context.Context, taskID, userID string) (*models.Task, error) {
	task, _, err := s.fetchWithAccess(ctx, taskID, userID)
	return task, err
}

// GetTasksByList lists tasks in a list the user has access to.
func (s *TaskService) GetTasksByList(ctx context.Context, listID, userID string) ([]models.Task, error) {
	lid, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return nil, fmt.Errorf("invalid list ID: %v", err)
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	list, err := s.listRepo.GetListByID(ctx, lid)
	if err != nil {
		return nil, fmt.Errorf("list not found")
	}
	if !list.HasAccess(uid) {
		return nil, fmt.Errorf("access denied")
	}
	return s.repo.GetTasksByList(ctx, lid)
}

// UpdateTask applies a partial update to a task.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, userID string, update bson.M) (*models.Task, error) {
	task, _, err := s.fetchWithAccess(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	allowed := bson.M{}
	for _, key := range []string{"title", "description", "priority"} {
		if v, ok := update[key]; ok {
			allowed[key] = v
		}
	}
	if v, ok := update["status"]; ok {
		status, _ := v.(string)
		if !validStatus(status) {
			return nil, fmt.Errorf("invalid status %q", status)
		}
		allowed["status"] = status
	}
	for _, key := range []string{"due_date", "reminder_date"} {
		if v, ok := update[key]; ok {
			t, err := parseDate(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %v", key, err)
			}
			allowed[key] = t
		}
	}
	if len(allowed) == 0 {
		return task, nil
	}

	if err := s.repo.UpdateTask(ctx, task.ID, allowed); err != nil {
		return nil, err
	}
	return s.repo.GetTaskByID(ctx, task.ID)
}

// CompleteTask marks a task as done.
func (s *TaskService) CompleteTask(ctx context.Context, taskID, userID string) (*models.Task, error) {
	return s.UpdateTask(ctx, taskID, userID, bson.M{"status": models.StatusDone})
}

// DeleteTask deletes a task.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID string) error {
	task, _, err := s.fetchWithAccess(ctx, taskID, userID)
	if err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, task.ID)
}

func (s *TaskService) fetchWithAccess(ctx context.Context, taskID, userID string) (*models.Task, primitive.ObjectID, error) {
	tid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("invalid task ID: %v", err)
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("invalid user ID: %v", err)
	}

	task, err := s.repo.GetTaskByID(ctx, tid)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	if task == nil {
		return nil, primitive.NilObjectID, fmt.Errorf("task not found")
	}

	list, err := s.listRepo.GetListByID(ctx, task.ListID)
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("list not found")
	}
	if !list.HasAccess(uid) {
		return nil, primitive.NilObjectID, fmt.Errorf("access denied")
	}
	return task, uid, nil
}

func validStatus(status string) bool {
	switch status {
	case models.StatusTodo, models.StatusInProgress, models.StatusDone:
		return true
	}
	return false
}

func parseDate(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339, t)
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v", v)
	}
}
