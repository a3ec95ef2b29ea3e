package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"taskflow-project/backend/logging"
	"taskflow-project/backend/middleware"
	"taskflow-project/backend/models"
	"taskflow-project/backend/permissions"
)

// TaskService is the slice of the service layer the handler needs; tests
// substitute a stub.
type TaskService interface {
	CreateTask(ctx context.Context, actor models.Actor, req models.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, filters models.TaskListFilters) ([]models.Task, int64, error)
	UpdateTask(ctx context.Context, actor models.Actor, id string, req models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, actor models.Actor, id string) error
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type taskListResponse struct {
	Tasks      []models.Task     `json:"tasks"`
	Pagination models.Pagination `json:"pagination"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}
	if !permissions.HasAnyRole(actor.Roles, models.RoleAdmin, models.RoleManager) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "access forbidden: insufficient permissions"})
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	task, err := h.service.CreateTask(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s", task.ID.Hex(), actor.Email)
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ActorFromContext(r.Context()); !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	filters := parseTaskListFilters(r)
	filters.Normalize()
	if err := filters.Validate(); err != nil {
		writeError(w, err)
		return
	}

	tasks, total, err := h.service.ListTasks(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskListResponse{
		Tasks:      tasks,
		Pagination: models.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ActorFromContext(r.Context()); !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	task, err := h.service.GetTask(r.Context(), mux.Vars(r)["taskID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	task, err := h.service.UpdateTask(r.Context(), actor, mux.Vars(r)["taskID"], req)
	if err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated by %s", task.ID.Hex(), actor.Email)
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	taskID := mux.Vars(r)["taskID"]
	if err := h.service.DeleteTask(r.Context(), actor, taskID); err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", taskID, actor.Email)
	w.WriteHeader(http.StatusNoContent)
}

// parseTaskListFilters reads the optional query parameters. Non-numeric
// page and limit values parse to zero and are clamped by Normalize, per the
// documented policy.
func parseTaskListFilters(r *http.Request) models.TaskListFilters {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	var statuses []models.TaskStatus
	for _, s := range query["status"] {
		statuses = append(statuses, models.TaskStatus(s))
	}

	return models.TaskListFilters{
		Search:     query.Get("search"),
		Statuses:   statuses,
		AssigneeID: query.Get("assigneeId"),
		Page:       page,
		Limit:      limit,
		SortBy:     query.Get("sortBy"),
		SortOrder:  query.Get("sortOrder"),
	}
}
