package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/backend/logging"
	"taskflow-project/backend/models"
	"taskflow-project/backend/permissions"
	"taskflow-project/backend/repositories"
)

type TaskService struct {
	tasks    repositories.TaskRepository
	users    repositories.UserRepository
	comments repositories.CommentRepository
	notifier Notifier
}

// NewTaskService wires the task logic to its collaborators. notifier may be
// nil when no webhook is configured.
func NewTaskService(
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	comments repositories.CommentRepository,
	notifier Notifier,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		comments: comments,
		notifier: notifier,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, actor models.Actor, req models.CreateTaskRequest) (*models.Task, error) {
	v := models.NewValidationError()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		v.Add("title", "title is required")
	}

	status := models.StatusTodo
	if req.Status != "" {
		parsed, err := models.ParseTaskStatus(req.Status)
		if err != nil {
			v.Add("status", err.Error())
		} else {
			status = parsed
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	assignees, err := s.resolveAssignees(ctx, req.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, actor.ID)
	if err == repositories.ErrNotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve task owner: %w", err)
	}

	now := time.Now().UTC()
	task := &models.Task{
		Title:       html.EscapeString(title),
		Description: html.EscapeString(req.Description),
		Status:      status,
		Owner:       owner.Public(),
		Assignees:   assignees,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.TaskCreated(task)
	}
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	taskID, err := parseTaskID(id)
	if err != nil {
		return nil, err
	}
	return s.getTask(ctx, taskID)
}

// ListTasks returns one page of tasks plus the total number of tasks
// matching the filters. Filters must already be normalized and validated.
func (s *TaskService) ListTasks(ctx context.Context, filters models.TaskListFilters) ([]models.Task, int64, error) {
	return s.tasks.List(ctx, filters)
}

// UpdateTask applies a partial patch: only fields present in the request
// change. The permission check runs before any write, so a denied actor
// leaves the task byte-for-byte unchanged.
func (s *TaskService) UpdateTask(ctx context.Context, actor models.Actor, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	taskID, err := parseTaskID(id)
	if err != nil {
		return nil, err
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanEdit(actor.Roles, actor.ID, *task) {
		return nil, fmt.Errorf("cannot edit task %s: %w", id, ErrForbidden)
	}

	patch, err := s.buildPatch(ctx, req)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return task, nil
	}

	updated, err := s.tasks.Update(ctx, taskID, patch)
	if err == repositories.ErrNotFound {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask hard-deletes the task and cascades to its comments.
func (s *TaskService) DeleteTask(ctx context.Context, actor models.Actor, id string) error {
	taskID, err := parseTaskID(id)
	if err != nil {
		return err
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}

	if !permissions.CanDelete(actor.Roles, actor.ID, *task) {
		return fmt.Errorf("cannot delete task %s: %w", id, ErrForbidden)
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if err == repositories.ErrNotFound {
			return ErrTaskNotFound
		}
		return err
	}

	removed, err := s.comments.DeleteByTaskID(ctx, taskID)
	if err != nil {
		// The task itself is gone; orphaned comments are logged, not
		// surfaced to the caller.
		logging.Logger.Errorf("Event ID: COMMENT_CASCADE_FAILED, Description: Failed to delete comments for task %s: %v", id, err)
	} else if removed > 0 {
		logging.Logger.Infof("Event ID: COMMENT_CASCADE, Description: Deleted %d comments for task %s", removed, id)
	}

	if s.notifier != nil {
		s.notifier.TaskDeleted(task)
	}
	return nil
}

func (s *TaskService) getTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err == repositories.ErrNotFound {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) buildPatch(ctx context.Context, req models.UpdateTaskRequest) (models.TaskPatch, error) {
	var patch models.TaskPatch
	v := models.NewValidationError()

	if req.Title != nil {
		title := html.EscapeString(strings.TrimSpace(*req.Title))
		if title == "" {
			v.Add("title", "title must not be empty")
		}
		patch.Title = &title
	}
	if req.Description != nil {
		description := html.EscapeString(*req.Description)
		patch.Description = &description
	}
	if req.Status != nil {
		status, err := models.ParseTaskStatus(*req.Status)
		if err != nil {
			v.Add("status", err.Error())
		}
		patch.Status = &status
	}
	if err := v.Err(); err != nil {
		return models.TaskPatch{}, err
	}

	if req.AssigneeIDs != nil {
		assignees, err := s.resolveAssignees(ctx, *req.AssigneeIDs)
		if err != nil {
			return models.TaskPatch{}, err
		}
		patch.Assignees = &assignees
	}
	return patch, nil
}

// resolveAssignees turns user ID strings into embedded public members,
// deduplicating repeats. Unknown or malformed IDs fail validation so a task
// never references a user that does not exist.
func (s *TaskService) resolveAssignees(ctx context.Context, rawIDs []string) ([]models.Member, error) {
	members := []models.Member{}
	if len(rawIDs) == 0 {
		return members, nil
	}

	v := models.NewValidationError()
	seen := make(map[primitive.ObjectID]bool, len(rawIDs))
	ids := make([]primitive.ObjectID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			v.Add("assigneeIds", fmt.Sprintf("invalid user ID format: %q", raw))
			break
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assignees: %w", err)
	}
	if len(users) != len(ids) {
		v.Add("assigneeIds", "one or more users do not exist")
		return nil, v.Err()
	}

	for _, user := range users {
		members = append(members, user.Public())
	}
	return members, nil
}

func parseTaskID(id string) (primitive.ObjectID, error) {
	taskID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		v := models.NewValidationError()
		v.Add("id", "invalid task ID format")
		return primitive.NilObjectID, v.Err()
	}
	return taskID, nil
}
