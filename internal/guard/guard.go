package guard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// DefaultErrorMessage is shown when a failed operation carries no message.
const DefaultErrorMessage = "An error occurred"

// Outcome is the result of a guarded operation. When OK is false, Value is
// the zero value and Message holds the text shown to the user.
type Outcome[T any] struct {
	OK      bool
	Value   T
	Message string
}

// Option customises a Guard.
type Option func(*Guard)

// WithLogger sets the guard logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Guard) {
		g.logger = logging.Or(logger)
	}
}

// WithDefaultMessage replaces DefaultErrorMessage for every run of the guard.
func WithDefaultMessage(message string) Option {
	return func(g *Guard) {
		if strings.TrimSpace(message) != "" {
			g.message = message
		}
	}
}

// Guard tracks in-flight operations for a view, records the last failure,
// and routes failure messages to a Notifier.
type Guard struct {
	notifier interfaces.Notifier
	logger   interfaces.Logger
	message  string
	inflight atomic.Int64

	mu      sync.RWMutex
	lastErr error
}

// New constructs a guard. A nil notifier drops notifications.
func New(notifier interfaces.Notifier, opts ...Option) *Guard {
	g := &Guard{
		notifier: notifier,
		logger:   logging.NoOp(),
		message:  DefaultErrorMessage,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Busy reports whether any guarded operation is running.
func (g *Guard) Busy() bool {
	return g.inflight.Load() > 0
}

// LastError returns the failure of the most recent run, or nil when it
// succeeded or is still running.
func (g *Guard) LastError() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastErr
}

// Reset clears the recorded error.
func (g *Guard) Reset() {
	g.setLastError(nil)
}

func (g *Guard) setLastError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastErr = err
}

// RunOption customises a single Run.
type RunOption func(*runConfig)

type runConfig struct {
	message string
	notify  bool
}

// WithErrorMessage sets the message used when the failure has no text.
func WithErrorMessage(message string) RunOption {
	return func(cfg *runConfig) {
		if strings.TrimSpace(message) != "" {
			cfg.message = message
		}
	}
}

// WithNotify enables or disables notification on failure. Enabled by default.
func WithNotify(notify bool) RunOption {
	return func(cfg *runConfig) {
		cfg.notify = notify
	}
}

// Run executes op while the guard is busy. Failures, including panics, are
// swallowed into a failed Outcome and, unless disabled, sent to the notifier.
func Run[T any](ctx context.Context, g *Guard, op func(ctx context.Context) (T, error), opts ...RunOption) (outcome Outcome[T]) {
	cfg := runConfig{message: g.message, notify: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	g.inflight.Add(1)
	defer g.inflight.Add(-1)
	g.setLastError(nil)

	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = Outcome[T]{Message: g.fail(ctx, cfg, fmt.Errorf("guard: operation panicked: %v", recovered), true)}
		}
	}()

	if op == nil {
		return Outcome[T]{OK: true}
	}

	value, err := op(ctx)
	if err != nil {
		return Outcome[T]{Message: g.fail(ctx, cfg, err, false)}
	}

	return Outcome[T]{OK: true, Value: value}
}

func (g *Guard) fail(ctx context.Context, cfg runConfig, err error, panicked bool) string {
	message := strings.TrimSpace(err.Error())
	if message == "" || panicked {
		message = cfg.message
	}

	g.setLastError(err)
	g.logger.Warn("guard.operation.failed", "error", err, "panicked", panicked)

	if cfg.notify && g.notifier != nil {
		g.notifier.Notify(ctx, message)
	}
	return message
}
