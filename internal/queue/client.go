package queue

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("queue not configured")

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Delivery is one received message.
type Delivery struct {
	MessageID     string
	Body          string
	ReceiptHandle string
	ReceiveCount  int
}

// Consumer receives and acknowledges messages.
type Consumer interface {
	Receive(ctx context.Context, max int32, wait int32) ([]Delivery, error)
	Delete(ctx context.Context, receiptHandle string) error
}
