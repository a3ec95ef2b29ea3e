package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/backend/models"
	"taskflow-project/backend/services"
)

type stubUserService struct {
	registerFn func(models.RegisterRequest) (*models.User, error)
	listFn     func() ([]models.Member, error)
	authFn     func(email, password string) (*models.User, string, error)
}

func (s *stubUserService) RegisterUser(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	return s.registerFn(req)
}

func (s *stubUserService) ListUsers(_ context.Context) ([]models.Member, error) {
	return s.listFn()
}

func (s *stubUserService) Authenticate(_ context.Context, email, password string) (*models.User, string, error) {
	return s.authFn(email, password)
}

func TestRegisterCreated(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		registerFn: func(req models.RegisterRequest) (*models.User, error) {
			return &models.User{
				ID:       primitive.NewObjectID(),
				Username: req.Username,
				Email:    req.Email,
				Roles:    []models.Role{models.RoleUser},
			}, nil
		},
	})

	body := `{"name":"Ana","username":"anab","email":"ana@example.com","password":"Str0ng.pass"}`
	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotContains(t, w.Body.String(), "password", "password hash never serializes")

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	require.Equal(t, "anab", user.Username)
}

func TestRegisterConflict(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		registerFn: func(models.RegisterRequest) (*models.User, error) {
			return nil, services.ErrUserExists
		},
	})

	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestListUsersRequiresActor(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		listFn: func() ([]models.Member, error) { return []models.Member{}, nil },
	})

	w := httptest.NewRecorder()
	h.ListUsers(w, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.ListUsers(w, authedRequest(http.MethodGet, "/users", "", adminActor()))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "anab", Email: "ana@example.com"}
	h := NewLoginHandler(&stubUserService{
		authFn: func(email, password string) (*models.User, string, error) {
			if email == "ana@example.com" && password == "Str0ng.pass" {
				return user, "signed-token", nil
			}
			return nil, "", services.ErrInvalidCredentials
		},
	})

	w := httptest.NewRecorder()
	body := `{"email":"ana@example.com","password":"Str0ng.pass"}`
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string        `json:"token"`
		User  models.Member `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "signed-token", resp.Token)
	require.Equal(t, "anab", resp.User.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := NewLoginHandler(&stubUserService{
		authFn: func(string, string) (*models.User, string, error) {
			return nil, "", services.ErrInvalidCredentials
		},
	})

	w := httptest.NewRecorder()
	body := `{"email":"ana@example.com","password":"wrong"}`
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":""}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
