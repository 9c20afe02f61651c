package interfaces

import "context"

// Notifier surfaces user-visible messages (toasts, banners, status lines).
// Delivery is fire-and-forget; the runtime never inspects the outcome.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a plain function to the Notifier contract.
type NotifierFunc func(ctx context.Context, message string)

// Notify satisfies Notifier.
func (f NotifierFunc) Notify(ctx context.Context, message string) {
	if f != nil {
		f(ctx, message)
	}
}
