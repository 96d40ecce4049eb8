package mail

import "context"

// Message is a single outbound email with both HTML and plain-text bodies.
type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

// Sender is an interface for dispatching emails. This decouples the
// application logic from the concrete mail transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
