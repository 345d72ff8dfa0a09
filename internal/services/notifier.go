package services

// Notifier delivers user-facing notifications. Delivery is fire-and-forget:
// callers log failures and never let them affect the triggering operation.
type Notifier interface {
	Emit(userID, category, message string) error
}

// NoopNotifier discards every notification. Used when no broker is
// configured and in tests.
type NoopNotifier struct{}

func (NoopNotifier) Emit(userID, category, message string) error { return nil }
