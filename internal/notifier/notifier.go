package notifier

import "context"

// Notifier delivers a formatted text message to an external channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
