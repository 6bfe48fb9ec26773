package services

import (
	"context"
	"fmt"

	"github.com/nurbek-a/taskline/internal/models"
	"github.com/nurbek-a/taskline/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListService encapsulates the business logic for task lists.
type ListService struct {
	repo         *repository.ListRepository
	userRepo     *repository.UserRepository
	notifService *NotificationService
}

// NewListService creates a new instance of ListService.
func NewListService(repo *repository.ListRepository, userRepo *repository.UserRepository, notifService *NotificationService) *ListService {
	return &ListService{
		repo:         repo,
		userRepo:     userRepo,
		notifService: notifService,
	}
}

// CreateList creates a new list owned by the given user.
func (s *ListService) CreateList(ctx context.Context, list *models.List, ownerID string) (*models.List, error) {
	objID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID: %v", err)
	}

	if list.Name == "" {
		return nil, fmt.Errorf("list name is required")
	}

	list.OwnerID = objID
	return s.repo.CreateList(ctx, list)
}

// GetList fetches a list the user has access to.
func (s *ListService) GetList(ctx context.Context, listID, userID string) (*models.List, error) {
	list, _, err := s.fetchWithAccess(ctx, listID, userID)
	return list, err
}

// GetListsForUser returns lists the user owns or collaborates on.
func (s *ListService) GetListsForUser(ctx context.Context, userID string) ([]models.List, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}
	return s.repo.GetListsForUser(ctx, objID)
}

// UpdateList updates name/description. Owner only.
func (s *ListService) UpdateList(ctx context.Context, listID, userID string, update bson.M) (*models.List, error) {
	list, uid, err := s.fetchWithAccess(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if list.OwnerID != uid {
		return nil, fmt.Errorf("only the owner can update the list")
	}

	allowed := bson.M{}
	for _, key := range []string{"name", "description"} {
		if v, ok := update[key]; ok {
			allowed[key] = v
		}
	}
	if err := s.repo.UpdateList(ctx, list.ID, allowed); err != nil {
		return nil, err
	}
	return s.repo.GetListByID(ctx, list.ID)
}

// DeleteList deletes a list. Owner only.
func (s *ListService) DeleteList(ctx context.Context, listID, userID string) error {
	list, uid, err := s.fetchWithAccess(ctx, listID, userID)
	if err != nil {
		return err
	}
	if list.OwnerID != uid {
		return fmt.Errorf("only the owner can delete the list")
	}
	return s.repo.DeleteList(ctx, list.ID)
}

// ShareList adds a collaborator and notifies them.
func (s *ListService) ShareList(ctx context.Context, listID, ownerID, collaboratorEmail string) error {
	list, uid, err := s.fetchWithAccess(ctx, listID, ownerID)
	if err != nil {
		return err
	}
	if list.OwnerID != uid {
		return fmt.Errorf("only the owner can share the list")
	}

	collaborator, err := s.userRepo.GetUserByEmail(ctx, collaboratorEmail)
	if err != nil {
		return fmt.Errorf("collaborator not found")
	}
	if collaborator.ID == list.OwnerID {
		return fmt.Errorf("cannot share a list with its owner")
	}

	if err := s.repo.AddCollaborator(ctx, list.ID, collaborator.ID); err != nil {
		return err
	}

	err = s.notifService.CreateNotification(ctx, collaborator.ID, models.NotificationListShared,
		"List Shared With You",
		fmt.Sprintf("The list \"%s\" was shared with you.", list.Name),
		nil)
	if err != nil {
		logrus.WithError(err).Warn("Failed to create list_shared notification")
	}
	return nil
}

// RemoveCollaborator removes a collaborator from a list. Owner only.
func (s *ListService) RemoveCollaborator(ctx context.Context, listID, ownerID, collaboratorID string) error {
	list, uid, err := s.fetchWithAccess(ctx, listID, ownerID)
	if err != nil {
		return err
	}
	if list.OwnerID != uid {
		return fmt.Errorf("only the owner can remove collaborators")
	}

	collabID, err := primitive.ObjectIDFromHex(collaboratorID)
	if err != nil {
		return fmt.Errorf("invalid collaborator ID: %v", err)
	}
	return s.repo.RemoveCollaborator(ctx, list.ID, collabID)
}

func (s *ListService) fetchWithAccess(ctx context.Context, listID, userID string) (*models.List, primitive.ObjectID, error) {
	lid, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("invalid list ID: %v", err)
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("invalid user ID: %v", err)
	}

	list, err := s.repo.GetListByID(ctx, lid)
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("list not found")
	}
	if !list.HasAccess(uid) {
		return nil, primitive.NilObjectID, fmt.Errorf("access denied")
	}
	return list, uid, nil
}
