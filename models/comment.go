package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskComment has no endpoints of its own yet; comments are written by a
// future surface and removed together with their task.
type TaskComment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID    primitive.ObjectID `bson:"taskId" json:"taskId"`
	Author    Member             `bson:"author" json:"author"`
	Body      string             `bson:"body" json:"body"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
