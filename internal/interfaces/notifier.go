package interfaces

// Notifier delivers user-facing messages, the equivalent of the toasts the
// original popup showed. Delivery is fire-and-forget.
type Notifier interface {
	Success(message string)
	Error(message string)
	Warning(message string)
}
