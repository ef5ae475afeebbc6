package notification

import "context"

// Notifier delivers workflow events to a user or an organization. Delivery is
// best-effort: callers fire it after their transaction commits and only log
// failures, they never roll back on one.
//
//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, target string, event string, payload map[string]any) error
}
