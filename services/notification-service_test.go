package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/backend/models"
)

func testBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-test",
		MaxRequests: 1,
		Timeout:     time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})
}

func TestWebhookNotifierPublishes(t *testing.T) {
	var received taskEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	task := &models.Task{
		ID:    primitive.NewObjectID(),
		Title: "notify me",
		Owner: models.Member{ID: primitive.NewObjectID()},
	}

	n := NewWebhookNotifier(server.URL, server.Client(), testBreaker())
	n.TaskCreated(task)

	require.Equal(t, "task.created", received.Event)
	require.Equal(t, task.ID.Hex(), received.TaskID)
	require.Equal(t, "notify me", received.Title)

	n.TaskDeleted(task)
	require.Equal(t, "task.deleted", received.Event)
}

func TestWebhookNotifierOpensBreakerAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	breaker := testBreaker()
	n := NewWebhookNotifier(server.URL, server.Client(), breaker)
	task := &models.Task{ID: primitive.NewObjectID(), Owner: models.Member{ID: primitive.NewObjectID()}}

	// Failed deliveries never panic or surface; after the threshold the
	// breaker stops hitting the dead endpoint.
	for i := 0; i < 6; i++ {
		n.TaskCreated(task)
	}
	require.Equal(t, gobreaker.StateOpen, breaker.State())
}
