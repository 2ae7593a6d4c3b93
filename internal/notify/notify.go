package notify

import "context"

// Notifier delivers an alert to one channel.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans an alert out to several channels; nil entries are skipped
// and the first error wins.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, title, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
