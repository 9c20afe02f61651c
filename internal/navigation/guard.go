package navigation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// Route names.
const (
	RouteLogin         = "login"
	RouteRepos         = "repos"
	RouteContentTypes  = "content-types"
	RouteMedia         = "media"
	RouteContentValues = "content-values"
)

const routeGroup = "console"

var ErrUnknownRoute = errors.New("navigation: unknown route")

// Route describes a console view and whether it needs a signed-in user.
type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
}

// DefaultRoutes returns the console route table.
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteLogin, Path: "/"},
		{Name: RouteRepos, Path: "/repos", RequiresAuth: true},
		{Name: RouteContentTypes, Path: "/dashboard/:owner/:repo", RequiresAuth: true},
		{Name: RouteMedia, Path: "/dashboard/:owner/:repo/media", RequiresAuth: true},
		{Name: RouteContentValues, Path: "/dashboard/:owner/:repo/:ctSlug", RequiresAuth: true},
	}
}

// Authenticator resolves whether the current user is signed in.
type Authenticator interface {
	EnsureAuthenticated(ctx context.Context) bool
}

// Decision is the outcome of a navigation check. Redirect is set when the
// navigation is denied.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Option customises a Guard.
type Option func(*Guard)

// WithLogger sets the guard logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Guard) {
		g.logger = logging.Or(logger)
	}
}

// WithBaseURL prefixes built paths with baseURL.
func WithBaseURL(baseURL string) Option {
	return func(g *Guard) {
		g.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithRoutes replaces the route table.
func WithRoutes(routes []Route) Option {
	return func(g *Guard) {
		g.table = routes
	}
}

// Guard checks navigation targets against the session and builds view paths.
type Guard struct {
	auth    Authenticator
	logger  interfaces.Logger
	baseURL string
	table   []Route

	routes  map[string]Route
	manager *urlkit.RouteManager
}

// NewGuard constructs a guard over the default route table.
func NewGuard(auth Authenticator, opts ...Option) (*Guard, error) {
	g := &Guard{
		auth:   auth,
		logger: logging.NoOp(),
		table:  DefaultRoutes(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	g.routes = make(map[string]Route, len(g.table))
	paths := make(map[string]string, len(g.table))
	for _, route := range g.table {
		name := strings.TrimSpace(route.Name)
		if name == "" {
			return nil, fmt.Errorf("navigation: route name required for path %q", route.Path)
		}
		if _, exists := g.routes[name]; exists {
			return nil, fmt.Errorf("navigation: duplicate route %q", name)
		}
		g.routes[name] = route
		paths[name] = route.Path
	}
	if _, ok := g.routes[RouteLogin]; !ok {
		return nil, fmt.Errorf("navigation: %q route is required", RouteLogin)
	}

	g.manager = urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    routeGroup,
				BaseURL: g.baseURL,
				Paths:   paths,
			},
		},
	})
	return g, nil
}

// Route returns the named route.
func (g *Guard) Route(name string) (Route, bool) {
	route, ok := g.routes[name]
	return route, ok
}

// Check decides whether navigation to the named route may proceed. Routes
// that require auth resolve the session once; unknown routes are denied.
func (g *Guard) Check(ctx context.Context, name string) Decision {
	route, ok := g.routes[name]
	if !ok {
		g.logger.Warn("navigation.route.unknown", "route", name)
		return g.deny()
	}
	if !route.RequiresAuth {
		return Decision{Allowed: true}
	}
	if g.auth != nil && g.auth.EnsureAuthenticated(ctx) {
		return Decision{Allowed: true}
	}
	g.logger.Debug("navigation.route.denied", "route", name)
	return g.deny()
}

func (g *Guard) deny() Decision {
	redirect, err := g.Path(RouteLogin, nil)
	if err != nil {
		g.logger.Error("navigation.login.path_failed", "error", err)
		redirect = g.routes[RouteLogin].Path
	}
	return Decision{Redirect: redirect}
}

// Path builds the URL of a named route.
func (g *Guard) Path(name string, params map[string]any) (string, error) {
	if _, ok := g.routes[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	group, err := lookupGroup(g.manager, routeGroup)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, name)
	if err != nil {
		return "", err
	}
	for key, value := range maps.Clone(params) {
		builder.WithParam(key, value)
	}
	return builder.Build()
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("navigation: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("navigation: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("navigation: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}
