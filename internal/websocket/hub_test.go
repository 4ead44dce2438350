package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil)
	hub.Register <- client

	hub.Publish(NewEventMessage(map[string]string{"type": "course.enrolled"}))

	select {
	case msg := <-client.Send:
		var decoded Message
		require.NoError(t, json.Unmarshal(msg, &decoded))
		assert.Equal(t, "event", decoded.Action)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast message")
	}
}

func TestPublishDoesNotBlockWithoutHub(t *testing.T) {
	hub := NewHub()
	// No Run loop draining: Publish must still return promptly.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish([]byte("x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no consumer")
	}
}
