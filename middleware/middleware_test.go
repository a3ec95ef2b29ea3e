package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/backend/models"
	"taskflow-project/backend/utils"
)

func protected(t *testing.T, gotActor *models.Actor) http.Handler {
	t.Helper()
	return JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok, "actor must be present behind the middleware")
		*gotActor = actor
		w.WriteHeader(http.StatusOK)
	}))
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	var actor models.Actor
	w := httptest.NewRecorder()
	protected(t, &actor).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var actor models.Actor
	r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	r.Header.Set("Authorization", "Bearer bogus")

	w := httptest.NewRecorder()
	protected(t, &actor).ServeHTTP(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewarePassesActor(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		ID:    primitive.NewObjectID(),
		Email: "mia@example.com",
		Roles: []models.Role{models.RoleManager},
	}
	token, err := utils.GenerateToken(user)
	require.NoError(t, err)

	var actor models.Actor
	r := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	protected(t, &actor).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, user.ID, actor.ID)
	require.Equal(t, []models.Role{models.RoleManager}, actor.Roles)
}
