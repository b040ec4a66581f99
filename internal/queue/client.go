package queue

import "context"

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Consumer receives and acknowledges messages from a queue backend.
type Consumer interface {
	Receive(ctx context.Context, max int) ([]Received, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// Received pairs a decoded message with its backend receipt handle.
type Received struct {
	Message       Message
	ReceiptHandle string
}
