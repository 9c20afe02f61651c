package repoconfig

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

const (
	textCodeRepoRequired = "REPO_CONFIG_REPOSITORY_REQUIRED"
	textCodeRepoInvalid  = "REPO_CONFIG_REPOSITORY_INVALID"
	textCodeFetchFailed  = "REPO_CONFIG_FETCH_FAILED"
)

var (
	ErrRepositoryRequired  = errors.New("repoconfig: owner and repo are required")
	ErrRepositoryInvalid   = errors.New("repoconfig: owner and repo must not contain '/'")
	ErrProviderUnavailable = errors.New("repoconfig: pages config provider not configured")
)

// Entry is the cached publishing configuration of one repository.
type Entry struct {
	RepoKey     string `json:"repo_key"`
	Initialized bool   `json:"initialized"`
	BaseURL     string `json:"base_url,omitempty"`
}

// Key builds the cache key for a repository.
func Key(owner, repo string) string {
	return owner + "/" + repo
}

type slot struct {
	entry Entry
	err   error
}

// Option customises a Cache.
type Option func(*Cache)

// WithLogger sets the cache logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Cache) {
		c.logger = logging.Or(logger)
	}
}

// Cache holds the publishing configuration of the most recently viewed
// repository. It keeps a single slot; asking for another repository replaces
// it. Failed fetches are cached as an uninitialized entry until Invalidate.
type Cache struct {
	provider interfaces.PagesConfigProvider
	logger   interfaces.Logger
	flight   singleflight.Group

	mu         sync.RWMutex
	slot       *slot
	requested  string
	generation uint64
}

// New constructs an empty cache.
func New(provider interfaces.PagesConfigProvider, opts ...Option) *Cache {
	c := &Cache{
		provider: provider,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns the configuration for owner/repo, fetching it on a miss.
// Concurrent misses for the same repository share one fetch. The fetch runs
// detached from ctx so its outcome is recorded even if the caller gives up,
// unless another repository was requested in the meantime.
func (c *Cache) Get(ctx context.Context, owner, repo string) (Entry, error) {
	owner, repo = strings.TrimSpace(owner), strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return Entry{}, goerrors.Wrap(ErrRepositoryRequired, goerrors.CategoryValidation, "repository coordinates required").
			WithTextCode(textCodeRepoRequired)
	}
	if strings.Contains(owner, "/") || strings.Contains(repo, "/") {
		return Entry{}, goerrors.Wrap(ErrRepositoryInvalid, goerrors.CategoryValidation, "repository coordinates invalid").
			WithTextCode(textCodeRepoInvalid)
	}
	key := Key(owner, repo)

	c.mu.Lock()
	c.requested = key
	if c.slot != nil && c.slot.entry.RepoKey == key {
		stored := *c.slot
		c.mu.Unlock()
		return stored.entry, stored.err
	}
	generation := c.generation
	c.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	flightKey := strconv.FormatUint(generation, 10) + ":" + key
	ch := c.flight.DoChan(flightKey, func() (any, error) {
		return c.fetch(detached, owner, repo, generation), nil
	})

	select {
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	case res := <-ch:
		stored := res.Val.(slot)
		return stored.entry, stored.err
	}
}

func (c *Cache) fetch(ctx context.Context, owner, repo string, generation uint64) slot {
	key := Key(owner, repo)

	c.mu.RLock()
	if c.slot != nil && c.slot.entry.RepoKey == key && c.generation == generation {
		stored := *c.slot
		c.mu.RUnlock()
		return stored
	}
	c.mu.RUnlock()

	logger := logging.WithRepoContext(c.logger, owner, repo)

	var (
		cfg interfaces.PagesConfig
		err error
	)
	if c.provider == nil {
		err = ErrProviderUnavailable
	} else {
		cfg, err = c.provider.FetchPagesConfig(ctx, owner, repo)
	}

	result := slot{entry: Entry{RepoKey: key}}
	if err != nil {
		logger.Warn("repoconfig.fetch.failed", "error", err)
		result.err = goerrors.Wrap(err, interfaces.CategoryTransport, "repository config fetch failed").
			WithTextCode(textCodeFetchFailed)
	} else {
		result.entry.Initialized = cfg.Initialized
		result.entry.BaseURL = cfg.BaseURL
		logger.Debug("repoconfig.fetch.completed", "initialized", cfg.Initialized)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation || c.requested != key {
		logger.Debug("repoconfig.fetch.discarded")
		return result
	}
	c.slot = &result
	return result
}

// Current returns the stored entry without fetching.
func (c *Cache) Current() (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.slot == nil {
		return Entry{}, false
	}
	return c.slot.entry, true
}

// Failed reports whether the stored entry came from a failed fetch.
func (c *Cache) Failed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slot != nil && c.slot.err != nil
}

// Invalidate drops the stored entry and its error flag. Fetches already in
// flight complete for their callers but are not stored.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.slot = nil
	c.generation++
	c.mu.Unlock()
	c.logger.Debug("repoconfig.invalidated")
}
