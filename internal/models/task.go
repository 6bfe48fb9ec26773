package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task status values. StatusDone is terminal: a done task is never
// eligible for reminder/due/overdue notifications.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task is a single to-do item inside a list. DueDate and ReminderDate
// are optional; a zero time means "not set".
type Task struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ListID       primitive.ObjectID `bson:"list_id" json:"list_id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Status       string             `bson:"status" json:"status"`
	Priority     string             `bson:"priority,omitempty" json:"priority,omitempty"` // "low", "medium", "high"
	DueDate      time.Time          `bson:"due_date,omitempty" json:"due_date,omitempty"`
	ReminderDate time.Time          `bson:"reminder_date,omitempty" json:"reminder_date,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
