package services

import (
	"context"
	"fmt"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/nurbek-a/taskline/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatService struct {
	repo         *repository.ChatRepository
	notifService *NotificationService
}

func NewChatService(repo *repository.ChatRepository, notifService *NotificationService) *ChatService {
	return &ChatService{repo: repo, notifService: notifService}
}

// SendMessage persists a direct message. When the receiver is offline the
// caller asks for an in-app notification as well.
func (s *ChatService) SendMessage(ctx context.Context, msg *models.Message, receiverOnline bool) (*models.Message, error) {
	saved, err := s.repo.SaveMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	if !receiverOnline {
		err = s.notifService.CreateNotification(ctx, msg.ReceiverID, models.NotificationMessageReceived,
			"New Message",
			fmt.Sprintf("You have a new message: %q", truncate(msg.Text, 80)),
			nil)
		if err != nil {
			logrus.WithError(err).Warn("Failed to create message_received notification")
		}
	}
	return saved, nil
}

func (s *ChatService) GetChat(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}
	oid, err := primitive.ObjectIDFromHex(otherID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}
	return s.repo.GetChat(ctx, uid, oid)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
