package notification

import "context"

// NoopNotifier discards every event. Used in tests and when no broker is
// configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (NoopNotifier) Notify(ctx context.Context, target string, event string, payload map[string]any) error {
	return nil
}
