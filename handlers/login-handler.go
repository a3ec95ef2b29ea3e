package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"taskflow-project/backend/logging"
	"taskflow-project/backend/models"
)

type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
}

type LoginHandler struct {
	service AuthService
}

func NewLoginHandler(service AuthService) *LoginHandler {
	return &LoginHandler{service: service}
}

type loginResponse struct {
	Token string        `json:"token"`
	User  models.Member `json:"user"`
}

func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
		return
	}

	user, token, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USER_LOGIN, Description: User %s logged in", user.Email)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user.Public()})
}
