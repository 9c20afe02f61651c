package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-cms-console/internal/content"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

const (
	apiGroup = "api"

	RouteMe      = "me"
	RouteRepos   = "repos"
	RoutePages   = "pages"
	RouteConfig  = "config"
	RouteInit    = "init"
	RouteEntries = "entries"
	RouteEntry   = "entry"
)

const defaultTimeout = 15 * time.Second

var (
	ErrBaseURLRequired = errors.New("remote: base url is required")
	ErrNotFound        = errors.New("remote: resource not found")
	ErrPageInvalid     = errors.New("remote: page must be 1 or greater")
)

// Config configures the HTTP adapter.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Headers    map[string]string
	HTTPClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		c.logger = logging.Or(logger)
	}
}

// Client talks to the console API. It only decodes requests and responses.
type Client struct {
	http    *http.Client
	headers map[string]string
	manager *urlkit.RouteManager
	logger  interfaces.Logger
}

var (
	_ interfaces.IdentityProvider      = (*Client)(nil)
	_ interfaces.PagesConfigProvider   = (*Client)(nil)
	_ interfaces.EntrySubmitter        = (*Client)(nil)
	_ interfaces.EntryUpdater          = (*Client)(nil)
	_ interfaces.EntryReader           = (*Client)(nil)
	_ interfaces.RepositoryLister      = (*Client)(nil)
	_ interfaces.RepositoryInitializer = (*Client)(nil)
	_ content.ConfigSource             = (*Client)(nil)
)

// NewClient constructs a client for the API rooted at cfg.BaseURL.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		http:    httpClient,
		headers: maps.Clone(cfg.Headers),
		logger:  logging.NoOp(),
		manager: urlkit.NewRouteManager(&urlkit.Config{
			Groups: []urlkit.GroupConfig{
				{
					Name:    apiGroup,
					BaseURL: baseURL,
					Paths: map[string]string{
						RouteMe:      "/api/me",
						RouteRepos:   "/api/repos",
						RoutePages:   "/api/:owner/:repo/pages",
						RouteConfig:  "/api/:owner/:repo/config",
						RouteInit:    "/api/:owner/:repo/init",
						RouteEntries: "/api/:owner/:repo/:ctSlug",
						RouteEntry:   "/api/:owner/:repo/:ctSlug/:id",
					},
				},
			},
		}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// HTTPError is a non-2xx API response.
type HTTPError struct {
	Method  string
	URL     string
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
}

// Is maps auth and not-found statuses onto their sentinels.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case interfaces.ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// CurrentUser fetches the signed-in user.
func (c *Client) CurrentUser(ctx context.Context) (*interfaces.User, error) {
	var user interfaces.User
	if err := c.do(ctx, http.MethodGet, RouteMe, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchPagesConfig fetches the publishing settings of a repository.
func (c *Client) FetchPagesConfig(ctx context.Context, owner, repo string) (interfaces.PagesConfig, error) {
	var cfg interfaces.PagesConfig
	err := c.do(ctx, http.MethodGet, RoutePages, repoParams(owner, repo), nil, &cfg)
	return cfg, err
}

// FetchSiteConfig fetches the repository config document.
func (c *Client) FetchSiteConfig(ctx context.Context, owner, repo string) (*content.SiteConfig, error) {
	var cfg content.SiteConfig
	if err := c.do(ctx, http.MethodGet, RouteConfig, repoParams(owner, repo), nil, &cfg); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", content.ErrConfigNotFound, err)
		}
		return nil, err
	}
	return &cfg, nil
}

type entryPayload struct {
	Slug   string         `json:"slug,omitempty"`
	Values map[string]any `json:"values"`
}

// SubmitEntry posts a new entry for a content type.
func (c *Client) SubmitEntry(ctx context.Context, submission interfaces.EntrySubmission) (*interfaces.EntryRecord, error) {
	params := entryParams(submission.Owner, submission.Repo, submission.ContentType)

	values := submission.Values
	if values == nil {
		values = map[string]any{}
	}
	payload := entryPayload{Slug: submission.Slug, Values: values}

	var record interfaces.EntryRecord
	if err := c.do(ctx, http.MethodPost, RouteEntries, params, payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateEntry replaces the values of an existing entry.
func (c *Client) UpdateEntry(ctx context.Context, update interfaces.EntryUpdate) (*interfaces.EntryRecord, error) {
	params := entryParams(update.Owner, update.Repo, update.ContentType)
	params["id"] = update.ID

	values := update.Values
	if values == nil {
		values = map[string]any{}
	}
	payload := entryPayload{Slug: update.Slug, Values: values}

	var record interfaces.EntryRecord
	if err := c.do(ctx, http.MethodPut, RouteEntry, params, payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListEntries fetches one page of the entries of a content type.
func (c *Client) ListEntries(ctx context.Context, owner, repo, contentType string, page int) (interfaces.EntryPage, error) {
	if page < 1 {
		return interfaces.EntryPage{}, ErrPageInvalid
	}
	var out interfaces.EntryPage
	err := c.doQuery(ctx, http.MethodGet, RouteEntries, entryParams(owner, repo, contentType),
		map[string]string{"page": strconv.Itoa(page)}, nil, &out)
	return out, err
}

// GetEntry fetches a single entry by id.
func (c *Client) GetEntry(ctx context.Context, owner, repo, contentType, id string) (*interfaces.EntryRecord, error) {
	params := entryParams(owner, repo, contentType)
	params["id"] = id

	var record interfaces.EntryRecord
	if err := c.do(ctx, http.MethodGet, RouteEntry, params, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListRepositories fetches the repositories of the signed in user.
func (c *Client) ListRepositories(ctx context.Context) ([]interfaces.Repository, error) {
	var repos []interfaces.Repository
	if err := c.do(ctx, http.MethodGet, RouteRepos, nil, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// InitializeRepository writes an empty site config to the repository.
func (c *Client) InitializeRepository(ctx context.Context, owner, repo, siteName string) error {
	payload := struct {
		SiteName string `json:"site_name"`
	}{SiteName: siteName}
	return c.do(ctx, http.MethodPost, RouteInit, repoParams(owner, repo), payload, nil)
}

// Close releases idle connections held by the underlying HTTP client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func repoParams(owner, repo string) map[string]any {
	return map[string]any{"owner": owner, "repo": repo}
}

func entryParams(owner, repo, contentType string) map[string]any {
	params := repoParams(owner, repo)
	params["ctSlug"] = contentType
	return params
}

func (c *Client) do(ctx context.Context, method, route string, params map[string]any, body, out any) error {
	return c.doQuery(ctx, method, route, params, nil, body, out)
}

func (c *Client) doQuery(ctx context.Context, method, route string, params map[string]any, query map[string]string, body, out any) error {
	target, err := c.url(route, params, query)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s body: %w", route, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("remote: build %s request: %w", route, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("remote.request.failed", "route", route, "method", method, "error", err)
		return fmt.Errorf("remote: %s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("remote.request.completed",
		"route", route,
		"method", method,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			Method:  method,
			URL:     target,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Body),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s response: %w", route, err)
	}
	return nil
}

func errorMessage(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	if json.Unmarshal(raw, &payload) == nil {
		return strings.TrimSpace(payload.Error)
	}
	return ""
}

func (c *Client) url(route string, params map[string]any, query map[string]string) (target string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("remote: urlkit route %q: %v", route, rec)
		}
	}()
	builder := c.manager.Group(apiGroup).Builder(route)
	for key, value := range params {
		builder.WithParam(key, value)
	}
	for key, value := range query {
		builder.WithQuery(key, value)
	}
	return builder.Build()
}
