package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage encodes an activity event for the feed.
func NewEventMessage(payload interface{}) []byte {
	data, _ := json.Marshal(Message{Action: "event", Payload: payload})
	return data
}
