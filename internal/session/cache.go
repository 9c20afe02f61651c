package session

import (
	"context"
	"errors"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// ErrUnauthenticated is reported by identity providers when no session exists.
var ErrUnauthenticated = interfaces.ErrUnauthenticated

const (
	checkKey                = "current-user"
	textCodeTerminateFailed = "SESSION_TERMINATE_FAILED"
)

// State is the known authentication status.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Option customises a Cache.
type Option func(*Cache)

// WithLogger sets the cache logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Cache) {
		c.logger = logging.Or(logger)
	}
}

// Cache remembers whether the current user is authenticated so navigation
// checks do not hit the identity endpoint every time.
type Cache struct {
	provider interfaces.IdentityProvider
	logger   interfaces.Logger
	flight   singleflight.Group

	mu         sync.RWMutex
	state      State
	user       *interfaces.User
	generation uint64
}

// New constructs a cache in the Unknown state.
func New(provider interfaces.IdentityProvider, opts ...Option) *Cache {
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

// State returns the current authentication status.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsAuthenticated reports whether a user is known to be signed in.
func (c *Cache) IsAuthenticated() bool {
	return c.State() == StateAuthenticated
}

// User returns a copy of the authenticated user, or nil.
func (c *Cache) User() *interfaces.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	user := *c.user
	return &user
}

// EnsureAuthenticated resolves the Unknown state with a single identity
// check. Once the state is known it is returned without a remote call.
// Concurrent callers share one check. Failures resolve to unauthenticated.
func (c *Cache) EnsureAuthenticated(ctx context.Context) bool {
	c.mu.RLock()
	state, generation := c.state, c.generation
	c.mu.RUnlock()
	if state != StateUnknown {
		return state == StateAuthenticated
	}

	detached := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(checkKey, func() (any, error) {
		c.check(detached, generation)
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return false
	case <-ch:
	}
	return c.IsAuthenticated()
}

func (c *Cache) check(ctx context.Context, generation uint64) {
	c.mu.RLock()
	resolved := c.state != StateUnknown || c.generation != generation
	c.mu.RUnlock()
	if resolved {
		return
	}

	var (
		user *interfaces.User
		err  error
	)
	if c.provider == nil {
		err = errors.New("session: identity provider not configured")
	} else {
		user, err = c.provider.CurrentUser(ctx)
	}

	switch {
	case err == nil && user != nil:
	case err == nil, errors.Is(err, ErrUnauthenticated):
		c.logger.Debug("session.check.unauthenticated")
		user = nil
	default:
		c.logger.Warn("session.check.failed", "error", err)
		user = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return
	}
	if user != nil {
		copied := *user
		c.user = &copied
		c.state = StateAuthenticated
		return
	}
	c.user = nil
	c.state = StateUnauthenticated
}

// Logout clears local session state. When the identity provider can also
// terminate the server session it is asked to; its failure is returned but
// the local state stays cleared.
func (c *Cache) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateUnauthenticated
	c.user = nil
	c.generation++
	c.mu.Unlock()
	c.flight.Forget(checkKey)

	terminator, ok := c.provider.(interfaces.SessionTerminator)
	if !ok {
		return nil
	}
	if err := terminator.TerminateSession(ctx); err != nil {
		c.logger.Warn("session.terminate.failed", "error", err)
		return goerrors.Wrap(err, interfaces.CategoryTransport, "session termination failed").
			WithTextCode(textCodeTerminateFailed)
	}
	return nil
}

// Reset returns the cache to Unknown so the next check asks the server
// again, for example after a login callback.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.state = StateUnknown
	c.user = nil
	c.generation++
	c.mu.Unlock()
	c.flight.Forget(checkKey)
}
