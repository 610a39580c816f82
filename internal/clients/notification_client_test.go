package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOrderConfirmation_PostsEmailRequest(t *testing.T) {
	var received SendNotificationRequest
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewNotificationClient(server.URL+"/", time.Second)
	err := client.SendOrderConfirmation(context.Background(), &OrderNotification{
		OrderNumber:   "2026101542",
		CustomerEmail: "asha@example.com",
		CustomerName:  "Asha Nair",
		Total:         "290",
		Items:         []OrderItem{{Name: "Mug", Quantity: 2, Price: "100", LineTotal: "200"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "/api/v1/notifications/send", path)
	assert.Equal(t, "EMAIL", received.Channel)
	assert.Equal(t, "asha@example.com", received.RecipientEmail)
	assert.Equal(t, OrderConfirmationSubject, received.Subject)
	assert.Equal(t, "2026101542", received.Variables["orderNumber"])
	assert.Equal(t, "290", received.Variables["total"])
}

func TestSendOrderConfirmation_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewNotificationClient(server.URL, time.Second)
	err := client.SendOrderConfirmation(context.Background(), &OrderNotification{
		OrderNumber:   "1",
		CustomerEmail: "a@example.com",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSendOrderConfirmation_SkipsWithoutEmail(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewNotificationClient(server.URL, time.Second)

	assert.NoError(t, client.SendOrderConfirmation(context.Background(), nil))
	assert.NoError(t, client.SendOrderConfirmation(context.Background(), &OrderNotification{OrderNumber: "1"}))
	assert.False(t, called)
}
