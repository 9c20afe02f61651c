package navigation

import (
	"context"
	"errors"
	"testing"
)

type stubAuth struct {
	authenticated bool
	calls         int
}

func (s *stubAuth) EnsureAuthenticated(context.Context) bool {
	s.calls++
	return s.authenticated
}

func newGuard(t *testing.T, auth Authenticator) *Guard {
	t.Helper()
	guard, err := NewGuard(auth, WithBaseURL("https://console.example"))
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	return guard
}

func TestCheckAllowsPublicRouteWithoutSessionCheck(t *testing.T) {
	auth := &stubAuth{}
	guard := newGuard(t, auth)

	decision := guard.Check(context.Background(), RouteLogin)
	if !decision.Allowed || decision.Redirect != "" {
		t.Fatalf("unexpected decision %+v", decision)
	}
	if auth.calls != 0 {
		t.Fatalf("expected no session check, got %d", auth.calls)
	}
}

func TestCheckProtectedRoutes(t *testing.T) {
	for _, route := range []string{RouteRepos, RouteContentTypes, RouteMedia, RouteContentValues} {
		t.Run(route, func(t *testing.T) {
			allowed := newGuard(t, &stubAuth{authenticated: true}).Check(context.Background(), route)
			if !allowed.Allowed {
				t.Fatalf("expected authenticated navigation to %s to pass", route)
			}

			guard := newGuard(t, &stubAuth{})
			denied := guard.Check(context.Background(), route)
			if denied.Allowed {
				t.Fatalf("expected anonymous navigation to %s to be denied", route)
			}
			login, err := guard.Path(RouteLogin, nil)
			if err != nil {
				t.Fatalf("login path: %v", err)
			}
			if denied.Redirect != login {
				t.Fatalf("expected redirect to %q, got %q", login, denied.Redirect)
			}
		})
	}
}

func TestCheckDeniesUnknownRoute(t *testing.T) {
	auth := &stubAuth{authenticated: true}
	decision := newGuard(t, auth).Check(context.Background(), "settings")
	if decision.Allowed || decision.Redirect == "" {
		t.Fatalf("expected unknown route to be denied with redirect, got %+v", decision)
	}
}

func TestPathBuildsDashboardURLs(t *testing.T) {
	guard := newGuard(t, nil)

	path, err := guard.Path(RouteContentValues, map[string]any{
		"owner":  "acme",
		"repo":   "site",
		"ctSlug": "blog-posts",
	})
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != "https://console.example/dashboard/acme/site/blog-posts" {
		t.Fatalf("unexpected path %q", path)
	}

	if _, err := guard.Path("settings", nil); !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("expected unknown route error, got %v", err)
	}
}

func TestNewGuardValidatesRouteTable(t *testing.T) {
	if _, err := NewGuard(nil, WithRoutes([]Route{{Name: RouteRepos, Path: "/repos"}})); err == nil {
		t.Fatal("expected missing login route to be rejected")
	}
	dup := []Route{{Name: RouteLogin, Path: "/"}, {Name: RouteLogin, Path: "/login"}}
	if _, err := NewGuard(nil, WithRoutes(dup)); err == nil {
		t.Fatal("expected duplicate route to be rejected")
	}
}
