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

// ListRepository handles database operations related to task lists.
type ListRepository struct {
	collection *mongo.Collection
}

// NewListRepository creates a new instance of ListRepository.
func NewListRepository(db *mongo.Database) *ListRepository {
	return &ListRepository{
		collection: db.Collection("lists"),
	}
}

// CreateList creates a new list in the database.
func (r *ListRepository) CreateList(ctx context.Context, list *models.List) (*models.List, error) {
	list.CreatedAt = time.Now()
	list.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, list)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert list")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, err
	}
	list.ID = insertedID

	logger.Log.WithField("list_id", list.ID.Hex()).Info("List created successfully")
	return list, nil
}

// GetListByID fetches a list by its ID.
func (r *ListRepository) GetListByID(ctx context.Context, id primitive.ObjectID) (*models.List, error) {
	var list models.List

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&list)
	if err != nil {
		logger.Log.WithError(err).WithField("list_id", id.Hex()).Error("Failed to find list by ID")
		return nil, err
	}
	return &list, nil
}

// GetListsForUser fetches lists the user owns or collaborates on.
func (r *ListRepository) GetListsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.List, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"owner_id": userID},
			{"collaborators": userID},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch lists")
		return nil, err
	}
	defer cursor.Close(ctx)

	var lists []models.List
	for cursor.Next(ctx) {
		var list models.List
		if err := cursor.Decode(&list); err != nil {
			logger.Log.WithError(err).Error("Failed to decode list")
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// UpdateList applies a partial update to a list.
func (r *ListRepository) UpdateList(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		logger.Log.WithError(err).WithField("list_id", id.Hex()).Error("Failed to update list")
		return err
	}
	return nil
}

// DeleteList deletes a list by its ID.
func (r *ListRepository) DeleteList(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("list_id", id.Hex()).Error("Failed to delete list")
		return err
	}
	return nil
}

// AddCollaborator adds a collaborator to a list.
func (r *ListRepository) AddCollaborator(ctx context.Context, listID, collaboratorID primitive.ObjectID) error {
	filter := bson.M{"_id": listID}
	update := bson.M{
		"$addToSet": bson.M{"collaborators": collaboratorID}, // Prevents duplicates
		"$set":      bson.M{"updated_at": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"list_id":         listID.Hex(),
			"collaborator_id": collaboratorID.Hex(),
		}).Error("Failed to add collaborator to list")
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"list_id":         listID.Hex(),
		"collaborator_id": collaboratorID.Hex(),
	}).Info("Collaborator successfully added to list")
	return nil
}

// RemoveCollaborator removes a collaborator from a list.
func (r *ListRepository) RemoveCollaborator(ctx context.Context, listID, collaboratorID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": listID},
		bson.M{
			"$pull": bson.M{"collaborators": collaboratorID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("list_id", listID.Hex()).Error("Failed to remove collaborator")
		return err
	}
	return nil
}
