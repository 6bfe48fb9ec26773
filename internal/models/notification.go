package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types produced by the due-item scanner.
const (
	NotificationReminder    = "reminder"
	NotificationTaskDue     = "task_due"
	NotificationTaskOverdue = "task_overdue"
)

// Notification types produced by user-facing event paths.
const (
	NotificationListShared      = "list_shared"
	NotificationCommentAdded    = "comment_added"
	NotificationMessageReceived = "message_received"
)

// Notification is an in-app message for a user. Immutable once created
// except for the Read flag; read notifications are swept after 30 days.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	TaskID    *primitive.ObjectID `bson:"task_id,omitempty" json:"task_id,omitempty"`
	Type      string              `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	ActionURL string              `bson:"action_url,omitempty" json:"action_url,omitempty"`
	Read      bool                `bson:"read" json:"read"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
