package orders

import (
	"encoding/json"
	"testing"
	"time"

	"kedai/mq"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "ORD12345678",
	}

	hub.register <- client

	event := mq.OrderEvent{OrderID: "ORD12345678", Status: "ready"}
	data, _ := json.Marshal(event)
	hub.broadcast <- broadcastMsg{Room: "ORD12345678", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubBroadcastOtherRoomNotDelivered(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "ORD00000001",
	}
	hub.register <- client

	hub.broadcast <- broadcastMsg{Room: "ORD99999999", Data: []byte("nope")}

	select {
	case got := <-client.Send:
		t.Fatalf("unexpected delivery: %s", got)
	case <-time.After(100 * time.Millisecond):
	}

	hub.unregister <- client
}
