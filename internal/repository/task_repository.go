package repository

import (
	"context"
	"time"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/nurbek-a/taskline/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskRepository handles database operations related to tasks.
type TaskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		collection: db.Collection("tasks"),
	}
}

// CreateTask inserts a new task into the database.
func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert task")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, err
	}
	task.ID = insertedID

	logger.Log.WithField("task_id", task.ID.Hex()).Info("Task created successfully")
	return task, nil
}

// GetTaskByID fetches a task by its ID. Returns (nil, nil) when the task
// does not exist, so callers can treat absence as a no-op.
func (r *TaskRepository) GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("task_id", id.Hex()).Error("Failed to find task by ID")
		return nil, err
	}

	return &task, nil
}

// UpdateTask applies a partial update to an existing task.
func (r *TaskRepository) UpdateTask(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		logger.Log.WithError(err).WithField("task_id", id.Hex()).Error("Failed to update task")
		return err
	}

	logger.Log.WithField("task_id", id.Hex()).Info("Task updated successfully")
	return nil
}

// DeleteTask deletes a task from the database by its ID.
func (r *TaskRepository) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("task_id", id.Hex()).Error("Failed to delete task")
		return err
	}
	return nil
}

// GetTasksByList fetches all tasks belonging to a list.
func (r *TaskRepository) GetTasksByList(ctx context.Context, listID primitive.ObjectID) ([]models.Task, error) {
	return r.findTasks(ctx, bson.M{"list_id": listID})
}

// GetTasksByUser fetches tasks owned by a user, with an optional status filter.
func (r *TaskRepository) GetTasksByUser(ctx context.Context, userID primitive.ObjectID, status string) ([]models.Task, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	return r.findTasks(ctx, filter)
}

// FindWithReminderBetween returns non-done tasks whose reminder_date lies in
// [from, to]. Backed by an index on reminder_date.
func (r *TaskRepository) FindWithReminderBetween(ctx context.Context, from, to time.Time) ([]models.Task, error) {
	filter := bson.M{
		"reminder_date": bson.M{"$gte": from, "$lte": to},
		"status":        bson.M{"$ne": models.StatusDone},
	}
	return r.findTasks(ctx, filter)
}

// FindDueBetween returns non-done tasks whose due_date lies in [from, to).
func (r *TaskRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Task, error) {
	filter := bson.M{
		"due_date": bson.M{"$gte": from, "$lt": to},
		"status":   bson.M{"$ne": models.StatusDone},
	}
	return r.findTasks(ctx, filter)
}

// FindOverdue returns non-done tasks whose due_date is strictly before the
// given instant. No lower bound: arbitrarily old tasks still qualify.
func (r *TaskRepository) FindOverdue(ctx context.Context, before time.Time) ([]models.Task, error) {
	filter := bson.M{
		"due_date": bson.M{"$lt": before, "$gt": time.Time{}},
		"status":   bson.M{"$ne": models.StatusDone},
	}
	return r.findTasks(ctx, filter)
}

func (r *TaskRepository) findTasks(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch tasks")
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			logger.Log.WithError(err).Error("Failed to decode task")
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
