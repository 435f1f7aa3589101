package mq

import (
	"context"
	"encoding/json"
	"log"

	"kedai/rdx"
)

const orderEventsChannel = "order-events"

// OrderEvent announces an order status transition to anyone listening
// (the live order feed, mainly).
type OrderEvent struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Status  string `json:"status"`
}

// EmitOrderEvent publishes the event to Redis. Delivery is best effort;
// a failed publish is logged and dropped.
func EmitOrderEvent(ctx context.Context, event OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal order event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, orderEventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish order event: %v", err)
	}
}

// StartOrderEventWorker subscribes to the order-events channel and hands
// each event to deliver. It blocks, so run it in its own goroutine.
func StartOrderEventWorker(deliver func(OrderEvent)) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, orderEventsChannel)
	ch := sub.Channel()

	log.Println("[OrderEventWorker] Listening for order events...")

	for msg := range ch {
		var event OrderEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[OrderEventWorker] Failed to parse event: %v", err)
			continue
		}
		deliver(event)
	}
}
