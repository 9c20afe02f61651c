package repocmd

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-console/internal/commands"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

const (
	invalidateMessageType = "console.repo.config.invalidate"
	refreshMessageType    = "console.repo.config.refresh"
	initializeMessageType = "console.repo.initialize"

	invalidateOperation = "repo.config.invalidate"
	refreshOperation    = "repo.config.refresh"
	initializeOperation = "repo.initialize"
)

var (
	ErrRefresherMissing   = errors.New("repo command: site config refresher not configured")
	ErrInitializerMissing = errors.New("repo command: repository initializer not configured")
)

// Invalidator drops cached repository configuration.
type Invalidator interface {
	Invalidate()
}

// SiteConfigRefresher selects a repository and reloads its site config.
type SiteConfigRefresher interface {
	SelectRepo(owner, repo string) error
	Refresh(ctx context.Context) error
}

// InvalidateRepoConfigCommand empties the repository config cache.
type InvalidateRepoConfigCommand struct {
	Reason string `json:"reason,omitempty"`
}

// Type implements command.Message.
func (InvalidateRepoConfigCommand) Type() string { return invalidateMessageType }

// Validate has nothing to check.
func (InvalidateRepoConfigCommand) Validate() error { return nil }

// InvalidateRepoConfigHandler clears every registered cache.
type InvalidateRepoConfigHandler struct {
	inner *commands.Handler[InvalidateRepoConfigCommand]
}

// NewInvalidateRepoConfigHandler constructs the handler. Nil invalidators are skipped.
func NewInvalidateRepoConfigHandler(logger interfaces.Logger, targets []Invalidator, opts ...commands.HandlerOption[InvalidateRepoConfigCommand]) *InvalidateRepoConfigHandler {
	baseLogger := logging.Or(logger)

	exec := func(_ context.Context, msg InvalidateRepoConfigCommand) error {
		cleared := 0
		for _, target := range targets {
			if target == nil {
				continue
			}
			target.Invalidate()
			cleared++
		}
		baseLogger.Debug("repo.command.invalidate.completed", "targets", cleared, "reason", msg.Reason)
		return nil
	}

	handlerOpts := []commands.HandlerOption[InvalidateRepoConfigCommand]{
		commands.WithLogger[InvalidateRepoConfigCommand](baseLogger),
		commands.WithOperation[InvalidateRepoConfigCommand](invalidateOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[InvalidateRepoConfigCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &InvalidateRepoConfigHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[InvalidateRepoConfigCommand].
func (h *InvalidateRepoConfigHandler) Execute(ctx context.Context, msg InvalidateRepoConfigCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RefreshSiteConfigCommand selects a repository and loads its content types.
type RefreshSiteConfigCommand struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// Type implements command.Message.
func (RefreshSiteConfigCommand) Type() string { return refreshMessageType }

// Validate ensures both repository coordinates are present.
func (m RefreshSiteConfigCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Owner, validation.Required),
		validation.Field(&m.Repo, validation.Required),
	)
}

// RefreshSiteConfigHandler loads the site config of a repository into the content store.
type RefreshSiteConfigHandler struct {
	inner *commands.Handler[RefreshSiteConfigCommand]
}

// NewRefreshSiteConfigHandler constructs the handler bound to the refresher.
func NewRefreshSiteConfigHandler(refresher SiteConfigRefresher, logger interfaces.Logger, opts ...commands.HandlerOption[RefreshSiteConfigCommand]) *RefreshSiteConfigHandler {
	baseLogger := logging.Or(logger)

	exec := func(ctx context.Context, msg RefreshSiteConfigCommand) error {
		if refresher == nil {
			return ErrRefresherMissing
		}
		if err := refresher.SelectRepo(msg.Owner, msg.Repo); err != nil {
			return err
		}
		if err := refresher.Refresh(ctx); err != nil {
			return err
		}
		logging.WithRepoContext(baseLogger, msg.Owner, msg.Repo).Info("repo.command.refresh.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RefreshSiteConfigCommand]{
		commands.WithLogger[RefreshSiteConfigCommand](baseLogger),
		commands.WithOperation[RefreshSiteConfigCommand](refreshOperation),
		commands.WithMessageFields(func(msg RefreshSiteConfigCommand) map[string]any {
			return map[string]any{"repo_key": msg.Owner + "/" + msg.Repo}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RefreshSiteConfigCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RefreshSiteConfigHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RefreshSiteConfigCommand].
func (h *RefreshSiteConfigHandler) Execute(ctx context.Context, msg RefreshSiteConfigCommand) error {
	return h.inner.Execute(ctx, msg)
}

// InitializeRepoCommand writes an empty site config to a repository.
type InitializeRepoCommand struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	SiteName string `json:"site_name"`
}

// Type implements command.Message.
func (InitializeRepoCommand) Type() string { return initializeMessageType }

// Validate ensures the repository coordinates and site name are present.
func (m InitializeRepoCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Owner, validation.Required),
		validation.Field(&m.Repo, validation.Required),
		validation.Field(&m.SiteName, validation.Required),
	)
}

// InitializeRepoHandler initializes a repository and drops cached settings
// that predate it.
type InitializeRepoHandler struct {
	inner *commands.Handler[InitializeRepoCommand]
}

// NewInitializeRepoHandler constructs the handler. Targets are invalidated
// only after a successful initialization.
func NewInitializeRepoHandler(initializer interfaces.RepositoryInitializer, logger interfaces.Logger, targets []Invalidator, opts ...commands.HandlerOption[InitializeRepoCommand]) *InitializeRepoHandler {
	baseLogger := logging.Or(logger)

	exec := func(ctx context.Context, msg InitializeRepoCommand) error {
		if initializer == nil {
			return ErrInitializerMissing
		}
		if err := initializer.InitializeRepository(ctx, msg.Owner, msg.Repo, msg.SiteName); err != nil {
			return err
		}
		for _, target := range targets {
			if target != nil {
				target.Invalidate()
			}
		}
		logging.WithRepoContext(baseLogger, msg.Owner, msg.Repo).Info("repo.command.initialize.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[InitializeRepoCommand]{
		commands.WithLogger[InitializeRepoCommand](baseLogger),
		commands.WithOperation[InitializeRepoCommand](initializeOperation),
		commands.WithMessageFields(func(msg InitializeRepoCommand) map[string]any {
			return map[string]any{"repo_key": msg.Owner + "/" + msg.Repo}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[InitializeRepoCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &InitializeRepoHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[InitializeRepoCommand].
func (h *InitializeRepoHandler) Execute(ctx context.Context, msg InitializeRepoCommand) error {
	return h.inner.Execute(ctx, msg)
}
