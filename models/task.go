package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown task status: %q", s)
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Status      TaskStatus         `bson:"status" json:"status"`
	Owner       Member             `bson:"owner" json:"owner"`
	Assignees   []Member           `bson:"assignees" json:"assignees"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (t Task) IsAssignee(userID primitive.ObjectID) bool {
	for _, m := range t.Assignees {
		if m.ID == userID {
			return true
		}
	}
	return false
}

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	AssigneeIDs []string `json:"assigneeIds"`
}

// UpdateTaskRequest carries a partial patch. Nil means the field was not
// sent and must stay untouched.
type UpdateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	AssigneeIDs *[]string `json:"assigneeIds"`
}

// TaskPatch is the resolved form of an update, ready for the repository.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Assignees   *[]Member
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Assignees == nil
}
