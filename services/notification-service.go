package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"taskflow-project/backend/logging"
	"taskflow-project/backend/models"
)

// Notifier publishes task lifecycle events. Delivery is best-effort: a
// failed notification is logged and never fails the originating request.
type Notifier interface {
	TaskCreated(task *models.Task)
	TaskDeleted(task *models.Task)
}

type taskEvent struct {
	Event     string    `json:"event"`
	TaskID    string    `json:"taskId"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"ownerId"`
	Timestamp time.Time `json:"timestamp"`
}

// WebhookNotifier posts task events to an external notifications endpoint,
// guarded by a circuit breaker so a dead receiver cannot pile up requests.
type WebhookNotifier struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewWebhookNotifier(url string, client *http.Client, breaker *gobreaker.CircuitBreaker) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &WebhookNotifier{url: url, client: client, breaker: breaker}
}

func (n *WebhookNotifier) TaskCreated(task *models.Task) {
	n.publish("task.created", task)
}

func (n *WebhookNotifier) TaskDeleted(task *models.Task) {
	n.publish("task.deleted", task)
}

func (n *WebhookNotifier) publish(event string, task *models.Task) {
	payload, err := json.Marshal(taskEvent{
		Event:     event,
		TaskID:    task.ID.Hex(),
		Title:     task.Title,
		OwnerID:   task.Owner.ID.Hex(),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: NOTIFY_MARSHAL_FAILED, Description: Failed to marshal %s event: %v", event, err)
		return
	}

	_, err = n.breaker.Execute(func() (interface{}, error) {
		resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("notifications endpoint returned %s", resp.Status)
		}
		return nil, nil
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFY_FAILED, Description: Failed to deliver %s event for task %s: %v", event, task.ID.Hex(), err)
		return
	}
	logging.Logger.Infof("Event ID: NOTIFY_SENT, Description: Delivered %s event for task %s", event, task.ID.Hex())
}
