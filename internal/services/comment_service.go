package services

import (
	"context"
	"fmt"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/nurbek-a/taskline/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentService handles comments on tasks.
type CommentService struct {
	repo         *repository.CommentRepository
	taskService  *TaskService
	notifService *NotificationService
}

func NewCommentService(repo *repository.CommentRepository, taskService *TaskService, notifService *NotificationService) *CommentService {
	return &CommentService{
		repo:         repo,
		taskService:  taskService,
		notifService: notifService,
	}
}

// AddComment creates a comment on a task the user can access and notifies
// the task owner.
func (s *CommentService) AddComment(ctx context.Context, taskID, userID, text string) (*models.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("comment text is required")
	}

	task, err := s.taskService.GetTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	comment, err := s.repo.CreateComment(ctx, &models.Comment{
		TaskID: task.ID,
		UserID: uid,
		Text:   text,
	})
	if err != nil {
		return nil, err
	}

	// Don't notify users about their own comments.
	if task.UserID != uid {
		taskRef := task.ID
		err = s.notifService.CreateNotification(ctx, task.UserID, models.NotificationCommentAdded,
			"New Comment",
			fmt.Sprintf("Someone commented on your task \"%s\".", task.Title),
			&taskRef)
		if err != nil {
			logrus.WithError(err).Warn("Failed to create comment_added notification")
		}
	}

	return comment, nil
}

// GetComments lists comments on a task the user can access.
func (s *CommentService) GetComments(ctx context.Context, taskID, userID string) ([]models.Comment, error) {
	task, err := s.taskService.GetTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetCommentsByTask(ctx, task.ID)
}

// DeleteComment removes the user's own comment.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, taskID, userID string) error {
	if _, err := s.taskService.GetTask(ctx, taskID, userID); err != nil {
		return err
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("invalid comment ID: %v", err)
	}
	return s.repo.DeleteComment(ctx, cid)
}
