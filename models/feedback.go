package models

import "time"

// Feedback is a customer's rating of a collected order.
type Feedback struct {
	FeedbackID string    `json:"feedbackId" bson:"feedbackId"`
	OrderID    string    `json:"orderId" bson:"orderId"`
	StallID    string    `json:"stallId" bson:"stallId"`
	UserID     string    `json:"userId" bson:"userId"`
	Rating     int       `json:"rating" bson:"rating"` // 1..5
	Comment    string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
