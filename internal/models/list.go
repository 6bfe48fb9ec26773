package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// List groups tasks and can be shared with collaborators.
type List struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	Description   string               `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID       primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	Collaborators []primitive.ObjectID `bson:"collaborators,omitempty" json:"collaborators,omitempty"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updated_at"`
}

// HasAccess reports whether the given user owns the list or collaborates on it.
func (l *List) HasAccess(userID primitive.ObjectID) bool {
	if l.OwnerID == userID {
		return true
	}
	for _, c := range l.Collaborators {
		if c == userID {
			return true
		}
	}
	return false
}
