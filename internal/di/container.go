package di

import (
	"net/http"

	"github.com/goliatone/go-cms-console/internal/commands"
	entriescmd "github.com/goliatone/go-cms-console/internal/commands/entries"
	repocmd "github.com/goliatone/go-cms-console/internal/commands/repo"
	sessioncmd "github.com/goliatone/go-cms-console/internal/commands/session"
	"github.com/goliatone/go-cms-console/internal/content"
	"github.com/goliatone/go-cms-console/internal/fields"
	"github.com/goliatone/go-cms-console/internal/forms"
	"github.com/goliatone/go-cms-console/internal/guard"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/internal/logging/console"
	"github.com/goliatone/go-cms-console/internal/logging/gologger"
	"github.com/goliatone/go-cms-console/internal/navigation"
	"github.com/goliatone/go-cms-console/internal/remote"
	"github.com/goliatone/go-cms-console/internal/repoconfig"
	"github.com/goliatone/go-cms-console/internal/runtimeconfig"
	"github.com/goliatone/go-cms-console/internal/session"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// Container wires the console runtime.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	notifier       interfaces.Notifier
	httpClient     *http.Client

	identity    interfaces.IdentityProvider
	pagesConfig interfaces.PagesConfigProvider
	siteConfig  content.ConfigSource
	submitter   interfaces.EntrySubmitter
	updater     interfaces.EntryUpdater
	entries     interfaces.EntryReader
	repos       interfaces.RepositoryLister
	initializer interfaces.RepositoryInitializer
	remote      *remote.Client

	registry   *fields.Registry
	compiler   *forms.Compiler
	session    *session.Cache
	repoConfig *repoconfig.Cache
	store      *content.Store
	guard      *guard.Guard
	navigation *navigation.Guard

	submitEntry *entriescmd.SubmitEntryHandler
	updateEntry *entriescmd.UpdateEntryHandler
	invalidate  *repocmd.InvalidateRepoConfigHandler
	refresh     *repocmd.RefreshSiteConfigHandler
	initialize  *repocmd.InitializeRepoHandler
	logout      *sessioncmd.LogoutHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithNotifier sets the user-visible notification sink for guarded operations.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithHTTPClient overrides the HTTP client used by the remote adapter.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithIdentityProvider overrides the remote identity endpoint.
func WithIdentityProvider(provider interfaces.IdentityProvider) Option {
	return func(c *Container) {
		c.identity = provider
	}
}

// WithPagesConfigProvider overrides the remote publishing settings endpoint.
func WithPagesConfigProvider(provider interfaces.PagesConfigProvider) Option {
	return func(c *Container) {
		c.pagesConfig = provider
	}
}

// WithConfigSource overrides the remote repository config endpoint.
func WithConfigSource(source content.ConfigSource) Option {
	return func(c *Container) {
		c.siteConfig = source
	}
}

// WithEntrySubmitter overrides the remote entry submission endpoint.
func WithEntrySubmitter(submitter interfaces.EntrySubmitter) Option {
	return func(c *Container) {
		c.submitter = submitter
	}
}

// WithEntryUpdater overrides the remote entry update endpoint.
func WithEntryUpdater(updater interfaces.EntryUpdater) Option {
	return func(c *Container) {
		c.updater = updater
	}
}

// WithEntryReader overrides the remote entry listing endpoints.
func WithEntryReader(reader interfaces.EntryReader) Option {
	return func(c *Container) {
		c.entries = reader
	}
}

// WithRepositoryLister overrides the remote repository listing endpoint.
func WithRepositoryLister(lister interfaces.RepositoryLister) Option {
	return func(c *Container) {
		c.repos = lister
	}
}

// WithRepositoryInitializer overrides the remote repository init endpoint.
func WithRepositoryInitializer(initializer interfaces.RepositoryInitializer) Option {
	return func(c *Container) {
		c.initializer = initializer
	}
}

// WithFieldRegistry replaces the default field type registry.
func WithFieldRegistry(registry *fields.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// NewContainer validates cfg and wires every console service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureRemote(); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		return nil, err
	}
	c.configureCommands()

	logging.ModuleLogger(c.loggerProvider, "console").Debug("container.configured",
		"api_base_url", cfg.API.BaseURL,
		"strict_keys", cfg.Forms.StrictKeys,
		"submissions", cfg.Features.Submissions,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	switch c.Config.NormalizedLoggingProvider() {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureRemote() error {
	if c.identity != nil && c.pagesConfig != nil && c.siteConfig != nil && c.submitter != nil &&
		c.updater != nil && c.entries != nil && c.repos != nil && c.initializer != nil {
		return nil
	}
	client, err := remote.NewClient(remote.Config{
		BaseURL:    c.Config.API.BaseURL,
		Timeout:    c.Config.API.Timeout,
		Headers:    c.Config.API.Headers,
		HTTPClient: c.httpClient,
	}, remote.WithLogger(logging.RemoteLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.remote = client
	if c.identity == nil {
		c.identity = client
	}
	if c.pagesConfig == nil {
		c.pagesConfig = client
	}
	if c.siteConfig == nil {
		c.siteConfig = client
	}
	if c.submitter == nil {
		c.submitter = client
	}
	if c.updater == nil {
		c.updater = client
	}
	if c.entries == nil {
		c.entries = client
	}
	if c.repos == nil {
		c.repos = client
	}
	if c.initializer == nil {
		c.initializer = client
	}
	return nil
}

func (c *Container) configureServices() error {
	if c.registry == nil {
		c.registry = fields.NewDefaultRegistry()
	}
	c.compiler = forms.NewCompiler(c.registry,
		forms.WithLogger(logging.FormsLogger(c.loggerProvider)),
		forms.WithStrictKeys(c.Config.Forms.StrictKeys),
	)
	c.session = session.New(c.identity, session.WithLogger(logging.SessionLogger(c.loggerProvider)))
	c.repoConfig = repoconfig.New(c.pagesConfig, repoconfig.WithLogger(logging.RepoConfigLogger(c.loggerProvider)))
	c.store = content.NewStore(c.compiler,
		content.WithSource(c.siteConfig),
		content.WithLogger(logging.ContentLogger(c.loggerProvider)),
	)
	c.guard = guard.New(c.notifier,
		guard.WithLogger(logging.GuardLogger(c.loggerProvider)),
		guard.WithDefaultMessage(c.Config.Guard.ErrorMessage),
	)

	nav, err := navigation.NewGuard(c.session,
		navigation.WithBaseURL(c.Config.Navigation.BaseURL),
		navigation.WithLogger(logging.NavigationLogger(c.loggerProvider)),
	)
	if err != nil {
		return err
	}
	c.navigation = nav
	return nil
}

func (c *Container) configureCommands() {
	timeout := c.Config.Commands.Timeout

	c.submitEntry = entriescmd.NewSubmitEntryHandler(
		c.store,
		c.submitter,
		commands.CommandLogger(c.loggerProvider, "entries"),
		entriescmd.FeatureGates{
			SubmissionsEnabled: func() bool { return c.Config.Features.Submissions },
		},
		commands.WithTimeout[entriescmd.SubmitEntryCommand](timeout),
	)
	c.updateEntry = entriescmd.NewUpdateEntryHandler(
		c.store,
		c.updater,
		commands.CommandLogger(c.loggerProvider, "entries"),
		entriescmd.FeatureGates{
			SubmissionsEnabled: func() bool { return c.Config.Features.Submissions },
		},
		commands.WithTimeout[entriescmd.UpdateEntryCommand](timeout),
	)
	c.invalidate = repocmd.NewInvalidateRepoConfigHandler(
		commands.CommandLogger(c.loggerProvider, "repo"),
		[]repocmd.Invalidator{c.repoConfig},
		commands.WithTimeout[repocmd.InvalidateRepoConfigCommand](timeout),
	)
	c.refresh = repocmd.NewRefreshSiteConfigHandler(
		c.store,
		commands.CommandLogger(c.loggerProvider, "repo"),
		commands.WithTimeout[repocmd.RefreshSiteConfigCommand](timeout),
	)
	c.initialize = repocmd.NewInitializeRepoHandler(
		c.initializer,
		commands.CommandLogger(c.loggerProvider, "repo"),
		[]repocmd.Invalidator{c.repoConfig},
		commands.WithTimeout[repocmd.InitializeRepoCommand](timeout),
	)
	c.logout = sessioncmd.NewLogoutHandler(
		c.session,
		commands.CommandLogger(c.loggerProvider, "session"),
		[]func(){c.repoConfig.Invalidate, c.store.Clear, c.guard.Reset},
		commands.WithTimeout[sessioncmd.LogoutCommand](timeout),
	)
}

// Close releases resources held by the remote adapter.
func (c *Container) Close() {
	if c.remote != nil {
		c.remote.Close()
	}
}

// LoggerProvider returns the configured logger provider, or nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// FieldRegistry returns the field type registry.
func (c *Container) FieldRegistry() *fields.Registry {
	return c.registry
}

// Compiler returns the form schema compiler.
func (c *Container) Compiler() *forms.Compiler {
	return c.compiler
}

// Session returns the session cache.
func (c *Container) Session() *session.Cache {
	return c.session
}

// RepoConfig returns the repository publishing settings cache.
func (c *Container) RepoConfig() *repoconfig.Cache {
	return c.repoConfig
}

// Store returns the content type store.
func (c *Container) Store() *content.Store {
	return c.store
}

// Guard returns the shared async operation guard.
func (c *Container) Guard() *guard.Guard {
	return c.guard
}

// Navigation returns the route guard.
func (c *Container) Navigation() *navigation.Guard {
	return c.navigation
}

// SubmitEntryHandler returns the entry submission command handler.
func (c *Container) SubmitEntryHandler() *entriescmd.SubmitEntryHandler {
	return c.submitEntry
}

// UpdateEntryHandler returns the entry update command handler.
func (c *Container) UpdateEntryHandler() *entriescmd.UpdateEntryHandler {
	return c.updateEntry
}

// InitializeRepoHandler returns the repository initialization command handler.
func (c *Container) InitializeRepoHandler() *repocmd.InitializeRepoHandler {
	return c.initialize
}

// EntryReader returns the entry listing adapter.
func (c *Container) EntryReader() interfaces.EntryReader {
	return c.entries
}

// RepositoryLister returns the repository listing adapter.
func (c *Container) RepositoryLister() interfaces.RepositoryLister {
	return c.repos
}

// InvalidateRepoConfigHandler returns the cache invalidation command handler.
func (c *Container) InvalidateRepoConfigHandler() *repocmd.InvalidateRepoConfigHandler {
	return c.invalidate
}

// RefreshSiteConfigHandler returns the site config refresh command handler.
func (c *Container) RefreshSiteConfigHandler() *repocmd.RefreshSiteConfigHandler {
	return c.refresh
}

// LogoutHandler returns the logout command handler.
func (c *Container) LogoutHandler() *sessioncmd.LogoutHandler {
	return c.logout
}
