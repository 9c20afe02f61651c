package di_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	entriescmd "github.com/goliatone/go-cms-console/internal/commands/entries"
	repocmd "github.com/goliatone/go-cms-console/internal/commands/repo"
	sessioncmd "github.com/goliatone/go-cms-console/internal/commands/session"
	"github.com/goliatone/go-cms-console/internal/content"
	"github.com/goliatone/go-cms-console/internal/di"
	"github.com/goliatone/go-cms-console/internal/fields"
	"github.com/goliatone/go-cms-console/internal/guard"
	"github.com/goliatone/go-cms-console/internal/logging/gologger"
	"github.com/goliatone/go-cms-console/internal/navigation"
	"github.com/goliatone/go-cms-console/internal/runtimeconfig"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

type stubBackend struct {
	mu          sync.Mutex
	user        *interfaces.User
	pages       interfaces.PagesConfig
	pagesErr    error
	pagesCalls  int
	site        *content.SiteConfig
	submissions []interfaces.EntrySubmission
	updates     []interfaces.EntryUpdate
	initialized []string
}

func (s *stubBackend) CurrentUser(context.Context) (*interfaces.User, error) {
	if s.user == nil {
		return nil, interfaces.ErrUnauthenticated
	}
	return s.user, nil
}

func (s *stubBackend) FetchPagesConfig(context.Context, string, string) (interfaces.PagesConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagesCalls++
	return s.pages, s.pagesErr
}

func (s *stubBackend) FetchSiteConfig(context.Context, string, string) (*content.SiteConfig, error) {
	return s.site, nil
}

func (s *stubBackend) SubmitEntry(_ context.Context, submission interfaces.EntrySubmission) (*interfaces.EntryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, submission)
	return &interfaces.EntryRecord{ID: "1", Slug: submission.Slug, Values: submission.Values}, nil
}

func (s *stubBackend) UpdateEntry(_ context.Context, update interfaces.EntryUpdate) (*interfaces.EntryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, update)
	return &interfaces.EntryRecord{ID: update.ID, Slug: update.Slug, Values: update.Values}, nil
}

func (s *stubBackend) ListEntries(_ context.Context, _, _, _ string, page int) (interfaces.EntryPage, error) {
	return interfaces.EntryPage{Page: page, TotalPages: 1, TotalItems: 1, Items: []interfaces.EntryRecord{{ID: "1"}}}, nil
}

func (s *stubBackend) GetEntry(_ context.Context, _, _, _, id string) (*interfaces.EntryRecord, error) {
	return &interfaces.EntryRecord{ID: id}, nil
}

func (s *stubBackend) ListRepositories(context.Context) ([]interfaces.Repository, error) {
	return []interfaces.Repository{{Name: "site", Owner: interfaces.RepositoryOwner{Login: "acme"}}}, nil
}

func (s *stubBackend) InitializeRepository(_ context.Context, owner, repo, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = append(s.initialized, owner+"/"+repo)
	return nil
}

func backendOptions(backend *stubBackend) []di.Option {
	return []di.Option{
		di.WithIdentityProvider(backend),
		di.WithPagesConfigProvider(backend),
		di.WithConfigSource(backend),
		di.WithEntrySubmitter(backend),
		di.WithEntryUpdater(backend),
		di.WithEntryReader(backend),
		di.WithRepositoryLister(backend),
		di.WithRepositoryInitializer(backend),
	}
}

func newBackend() *stubBackend {
	return &stubBackend{
		user:  &interfaces.User{Login: "octo"},
		pages: interfaces.PagesConfig{Initialized: true, BaseURL: "https://acme.example"},
		site: &content.SiteConfig{
			SiteName: "Acme",
			ContentTypes: []content.ContentType{{
				Name: "Posts",
				Slug: "posts",
				Fields: []fields.Declaration{
					{Name: "title", Type: fields.TypeText, Required: true},
				},
			}},
		},
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.API.BaseURL = ""

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrAPIBaseURLRequired) {
		t.Fatalf("expected ErrAPIBaseURLRequired, got %v", err)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := di.NewContainer(cfg, backendOptions(newBackend())...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
}

func TestLoggerProviderDisabledByDefault(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), backendOptions(newBackend())...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.LoggerProvider() != nil {
		t.Fatalf("expected no provider when logging feature is off, got %T", container.LoggerProvider())
	}
}

func TestContainerWiresEndToEndFlow(t *testing.T) {
	backend := newBackend()
	var notified []string
	opts := append(backendOptions(backend), di.WithNotifier(interfaces.NotifierFunc(func(_ context.Context, msg string) {
		notified = append(notified, msg)
	})))

	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	defer container.Close()
	ctx := context.Background()

	decision := container.Navigation().Check(ctx, navigation.RouteRepos)
	if !decision.Allowed {
		t.Fatalf("expected navigation to be allowed, got %+v", decision)
	}

	if err := container.RefreshSiteConfigHandler().Execute(ctx, repocmd.RefreshSiteConfigCommand{Owner: "acme", Repo: "site"}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if types := container.Store().ContentTypes(); len(types) != 1 || types[0].ID == "" {
		t.Fatalf("expected one content type with an id, got %+v", types)
	}

	err = container.SubmitEntryHandler().Execute(ctx, entriescmd.SubmitEntryCommand{
		Owner: "acme", Repo: "site", ContentType: "posts", Slug: "hello",
		Values: map[string]any{"title": "Hello"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(backend.submissions) != 1 {
		t.Fatalf("expected one submission, got %d", len(backend.submissions))
	}

	outcome := guard.Run(ctx, container.Guard(), func(ctx context.Context) (string, error) {
		entry, err := container.RepoConfig().Get(ctx, "acme", "site")
		return entry.BaseURL, err
	})
	if !outcome.OK || outcome.Value != "https://acme.example" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	if err := container.LogoutHandler().Execute(ctx, sessioncmd.LogoutCommand{}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := container.RepoConfig().Current(); ok {
		t.Fatal("expected repo config cache to be cleared on logout")
	}
	if _, ok := container.Store().Config(); ok {
		t.Fatal("expected content store to be cleared on logout")
	}
	if decision := container.Navigation().Check(ctx, navigation.RouteRepos); decision.Allowed {
		t.Fatal("expected navigation to be denied after logout")
	}
	if len(notified) != 0 {
		t.Fatalf("expected no notifications, got %v", notified)
	}
}

func TestContainerGuardUsesConfiguredMessage(t *testing.T) {
	backend := newBackend()
	var notified []string
	cfg := runtimeconfig.DefaultConfig()
	cfg.Guard.ErrorMessage = "Could not load settings"
	opts := append(backendOptions(backend), di.WithNotifier(interfaces.NotifierFunc(func(_ context.Context, msg string) {
		notified = append(notified, msg)
	})))

	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	outcome := guard.Run(context.Background(), container.Guard(), func(context.Context) (struct{}, error) {
		return struct{}{}, errors.New("")
	})
	if outcome.OK || outcome.Message != "Could not load settings" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if len(notified) != 1 {
		t.Fatalf("expected one notification, got %v", notified)
	}
}

func TestContainerSubmissionsFeatureGate(t *testing.T) {
	backend := newBackend()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Submissions = false

	container, err := di.NewContainer(cfg, backendOptions(backend)...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if err := container.Store().SetConfig(*backend.site); err != nil {
		t.Fatalf("set config: %v", err)
	}

	err = container.SubmitEntryHandler().Execute(context.Background(), entriescmd.SubmitEntryCommand{
		Owner: "acme", Repo: "site", ContentType: "posts",
		Values: map[string]any{"title": "Hello"},
	})
	if !errors.Is(err, entriescmd.ErrSubmissionsDisabled) {
		t.Fatalf("expected ErrSubmissionsDisabled, got %v", err)
	}
}

func TestContainerUsesRemoteAdapterByDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/me":
			_ = json.NewEncoder(w).Encode(map[string]any{"login": "octo"})
		case "/api/acme/site/pages":
			_ = json.NewEncoder(w).Encode(map[string]any{"initialized": true, "baseUrl": "https://acme.example"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := runtimeconfig.DefaultConfig()
	cfg.API.BaseURL = server.URL

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	defer container.Close()

	if !container.Session().EnsureAuthenticated(context.Background()) {
		t.Fatal("expected remote identity to authenticate")
	}
	entry, err := container.RepoConfig().Get(context.Background(), "acme", "site")
	if err != nil || !entry.Initialized || entry.BaseURL != "https://acme.example" {
		t.Fatalf("unexpected entry %+v err=%v", entry, err)
	}
}

func TestContainerWiresEntryUpdatesAndRepositoryInit(t *testing.T) {
	backend := newBackend()
	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), backendOptions(backend)...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	ctx := context.Background()
	if err := container.Store().SetConfig(*backend.site); err != nil {
		t.Fatalf("set config: %v", err)
	}

	err = container.UpdateEntryHandler().Execute(ctx, entriescmd.UpdateEntryCommand{
		Owner: "acme", Repo: "site", ContentType: "posts", ID: "1",
		Values: map[string]any{"title": ""},
	})
	if err == nil || len(backend.updates) != 0 {
		t.Fatalf("expected blank title to be rejected locally, got %v with %d updates", err, len(backend.updates))
	}
	err = container.UpdateEntryHandler().Execute(ctx, entriescmd.UpdateEntryCommand{
		Owner: "acme", Repo: "site", ContentType: "posts", ID: "1",
		Values: map[string]any{"title": "Renamed"},
	})
	if err != nil || len(backend.updates) != 1 {
		t.Fatalf("expected one update, got %v with %d updates", err, len(backend.updates))
	}

	if _, err := container.RepoConfig().Get(ctx, "acme", "site"); err != nil {
		t.Fatalf("get: %v", err)
	}
	err = container.InitializeRepoHandler().Execute(ctx, repocmd.InitializeRepoCommand{Owner: "acme", Repo: "site", SiteName: "Acme"})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if len(backend.initialized) != 1 || backend.initialized[0] != "acme/site" {
		t.Fatalf("unexpected initializations %v", backend.initialized)
	}
	if _, ok := container.RepoConfig().Current(); ok {
		t.Fatal("expected repo config cache to be cleared after initialization")
	}

	repos, err := container.RepositoryLister().ListRepositories(ctx)
	if err != nil || len(repos) != 1 {
		t.Fatalf("unexpected repositories %v err=%v", repos, err)
	}
	page, err := container.EntryReader().ListEntries(ctx, "acme", "site", "posts", 1)
	if err != nil || page.Page != 1 || len(page.Items) != 1 {
		t.Fatalf("unexpected page %+v err=%v", page, err)
	}
}
