package sessioncmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-console/internal/commands"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

const (
	logoutMessageType = "console.session.logout"
	logoutOperation   = "session.logout"
)

var ErrSessionMissing = errors.New("session command: session not configured")

// SessionEnder clears the local session and ends it remotely when supported.
type SessionEnder interface {
	Logout(ctx context.Context) error
}

// LogoutCommand ends the session and drops caches bound to the signed in user.
type LogoutCommand struct{}

// Type implements command.Message.
func (LogoutCommand) Type() string { return logoutMessageType }

// Validate has nothing to check.
func (LogoutCommand) Validate() error { return nil }

// LogoutHandler ends the session and then clears the dependent caches. Caches
// are cleared even when ending the session fails.
type LogoutHandler struct {
	inner *commands.Handler[LogoutCommand]
}

// NewLogoutHandler constructs the handler. Each cleanup func runs after the session ends.
func NewLogoutHandler(session SessionEnder, logger interfaces.Logger, cleanup []func(), opts ...commands.HandlerOption[LogoutCommand]) *LogoutHandler {
	baseLogger := logging.Or(logger)

	exec := func(ctx context.Context, _ LogoutCommand) error {
		if session == nil {
			return ErrSessionMissing
		}
		err := session.Logout(ctx)
		for _, fn := range cleanup {
			if fn != nil {
				fn()
			}
		}
		if err != nil {
			return err
		}
		baseLogger.Info("session.command.logout.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[LogoutCommand]{
		commands.WithLogger[LogoutCommand](baseLogger),
		commands.WithOperation[LogoutCommand](logoutOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[LogoutCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LogoutHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LogoutCommand].
func (h *LogoutHandler) Execute(ctx context.Context, msg LogoutCommand) error {
	return h.inner.Execute(ctx, msg)
}
