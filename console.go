package console

import (
	"context"

	entriescmd "github.com/goliatone/go-cms-console/internal/commands/entries"
	repocmd "github.com/goliatone/go-cms-console/internal/commands/repo"
	sessioncmd "github.com/goliatone/go-cms-console/internal/commands/session"
	"github.com/goliatone/go-cms-console/internal/content"
	"github.com/goliatone/go-cms-console/internal/di"
	"github.com/goliatone/go-cms-console/internal/fields"
	"github.com/goliatone/go-cms-console/internal/forms"
	"github.com/goliatone/go-cms-console/internal/guard"
	"github.com/goliatone/go-cms-console/internal/navigation"
	"github.com/goliatone/go-cms-console/internal/repoconfig"
	"github.com/goliatone/go-cms-console/internal/session"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// FieldDeclaration exports the field declaration DTO.
type FieldDeclaration = fields.Declaration

// ContentType exports the content type DTO.
type ContentType = content.ContentType

// SiteConfig exports the repository config document.
type SiteConfig = content.SiteConfig

// Schema exports the compiled form schema.
type Schema = forms.Schema

// RepoConfigEntry exports the cached publishing settings entry.
type RepoConfigEntry = repoconfig.Entry

// Decision exports the navigation check result.
type Decision = navigation.Decision

type (
	SubmitEntryCommand          = entriescmd.SubmitEntryCommand
	UpdateEntryCommand          = entriescmd.UpdateEntryCommand
	RefreshSiteConfigCommand    = repocmd.RefreshSiteConfigCommand
	InvalidateRepoConfigCommand = repocmd.InvalidateRepoConfigCommand
	InitializeRepoCommand       = repocmd.InitializeRepoCommand
	LogoutCommand               = sessioncmd.LogoutCommand
)

type (
	Repository  = interfaces.Repository
	EntryRecord = interfaces.EntryRecord
	EntryPage   = interfaces.EntryPage
)

// Module represents the top level console runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a console module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases resources held by the module.
func (m *Module) Close() {
	if m == nil || m.container == nil {
		return
	}
	m.container.Close()
}

// Fields returns the field type registry.
func (m *Module) Fields() *fields.Registry {
	return m.container.FieldRegistry()
}

// CompileSchema builds a form schema from field declarations.
func (m *Module) CompileSchema(decls []FieldDeclaration) (*Schema, error) {
	return m.container.Compiler().Compile(decls)
}

// Session returns the session cache.
func (m *Module) Session() *session.Cache {
	return m.container.Session()
}

// RepoConfig returns the publishing settings cache.
func (m *Module) RepoConfig() *repoconfig.Cache {
	return m.container.RepoConfig()
}

// Content returns the content type store.
func (m *Module) Content() *content.Store {
	return m.container.Store()
}

// Guard returns the shared async operation guard.
func (m *Module) Guard() *guard.Guard {
	return m.container.Guard()
}

// CanNavigate checks whether the named route may be entered.
func (m *Module) CanNavigate(ctx context.Context, route string) Decision {
	return m.container.Navigation().Check(ctx, route)
}

// RoutePath builds the URL of a named route.
func (m *Module) RoutePath(route string, params map[string]any) (string, error) {
	return m.container.Navigation().Path(route, params)
}

// SubmitEntry validates and submits a content entry.
func (m *Module) SubmitEntry(ctx context.Context, cmd SubmitEntryCommand) error {
	return m.container.SubmitEntryHandler().Execute(ctx, cmd)
}

// UpdateEntry validates an entry and replaces its values.
func (m *Module) UpdateEntry(ctx context.Context, cmd UpdateEntryCommand) error {
	return m.container.UpdateEntryHandler().Execute(ctx, cmd)
}

// InitializeRepo writes an empty site config to a repository.
func (m *Module) InitializeRepo(ctx context.Context, owner, repo, siteName string) error {
	return m.container.InitializeRepoHandler().Execute(ctx, InitializeRepoCommand{Owner: owner, Repo: repo, SiteName: siteName})
}

// ListRepositories loads the repositories of the signed-in user through the guard.
func (m *Module) ListRepositories(ctx context.Context) guard.Outcome[[]Repository] {
	lister := m.container.RepositoryLister()
	return guard.Run(ctx, m.container.Guard(), lister.ListRepositories)
}

// ListEntries loads one page of entries through the guard.
func (m *Module) ListEntries(ctx context.Context, owner, repo, contentType string, page int) guard.Outcome[EntryPage] {
	reader := m.container.EntryReader()
	return guard.Run(ctx, m.container.Guard(), func(ctx context.Context) (EntryPage, error) {
		return reader.ListEntries(ctx, owner, repo, contentType, page)
	})
}

// GetEntry fetches a single entry.
func (m *Module) GetEntry(ctx context.Context, owner, repo, contentType, id string) (*EntryRecord, error) {
	return m.container.EntryReader().GetEntry(ctx, owner, repo, contentType, id)
}

// RefreshSiteConfig selects a repository and loads its content types.
func (m *Module) RefreshSiteConfig(ctx context.Context, owner, repo string) error {
	return m.container.RefreshSiteConfigHandler().Execute(ctx, RefreshSiteConfigCommand{Owner: owner, Repo: repo})
}

// InvalidateRepoConfig empties the publishing settings cache.
func (m *Module) InvalidateRepoConfig(ctx context.Context) error {
	return m.container.InvalidateRepoConfigHandler().Execute(ctx, InvalidateRepoConfigCommand{})
}

// Logout ends the session and clears caches bound to the user.
func (m *Module) Logout(ctx context.Context) error {
	return m.container.LogoutHandler().Execute(ctx, LogoutCommand{})
}

// LoadRepoConfig reads publishing settings through the guard, so failures
// are reported to the notifier instead of returned.
func (m *Module) LoadRepoConfig(ctx context.Context, owner, repo string) guard.Outcome[RepoConfigEntry] {
	cache := m.container.RepoConfig()
	return guard.Run(ctx, m.container.Guard(), func(ctx context.Context) (RepoConfigEntry, error) {
		return cache.Get(ctx, owner, repo)
	})
}

// WithNotifier routes guarded failure messages to notifier.
func WithNotifier(notifier interfaces.Notifier) di.Option {
	return di.WithNotifier(notifier)
}

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) di.Option {
	return di.WithLoggerProvider(provider)
}
