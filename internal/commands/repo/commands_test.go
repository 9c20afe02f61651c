package repocmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-console/internal/logging"
)

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate() { c.calls++ }

type stubRefresher struct {
	owner, repo string
	refreshes   int
	selectErr   error
	refreshErr  error
}

func (s *stubRefresher) SelectRepo(owner, repo string) error {
	if s.selectErr != nil {
		return s.selectErr
	}
	s.owner, s.repo = owner, repo
	return nil
}

func (s *stubRefresher) Refresh(context.Context) error {
	s.refreshes++
	return s.refreshErr
}

func TestInvalidateRepoConfigHandlerClearsTargets(t *testing.T) {
	first := &countingInvalidator{}
	second := &countingInvalidator{}
	handler := NewInvalidateRepoConfigHandler(logging.NoOp(), []Invalidator{first, nil, second})

	if err := handler.Execute(context.Background(), InvalidateRepoConfigCommand{Reason: "settings saved"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("expected each target invalidated once, got %d and %d", first.calls, second.calls)
	}
}

func TestRefreshSiteConfigHandlerSelectsAndRefreshes(t *testing.T) {
	refresher := &stubRefresher{}
	handler := NewRefreshSiteConfigHandler(refresher, logging.NoOp())

	if err := handler.Execute(context.Background(), RefreshSiteConfigCommand{Owner: "acme", Repo: "site"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if refresher.owner != "acme" || refresher.repo != "site" || refresher.refreshes != 1 {
		t.Fatalf("unexpected refresher state %+v", refresher)
	}
}

func TestRefreshSiteConfigHandlerRequiresCoordinates(t *testing.T) {
	refresher := &stubRefresher{}
	handler := NewRefreshSiteConfigHandler(refresher, logging.NoOp())

	err := handler.Execute(context.Background(), RefreshSiteConfigCommand{Owner: "acme"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if refresher.refreshes != 0 {
		t.Fatal("expected no refresh for invalid command")
	}
}

func TestRefreshSiteConfigHandlerWrapsRefreshFailure(t *testing.T) {
	fetchErr := errors.New("connection refused")
	handler := NewRefreshSiteConfigHandler(&stubRefresher{refreshErr: fetchErr}, logging.NoOp())

	err := handler.Execute(context.Background(), RefreshSiteConfigCommand{Owner: "acme", Repo: "site"})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestRefreshSiteConfigHandlerWithoutRefresher(t *testing.T) {
	handler := NewRefreshSiteConfigHandler(nil, logging.NoOp())

	err := handler.Execute(context.Background(), RefreshSiteConfigCommand{Owner: "acme", Repo: "site"})
	if !errors.Is(err, ErrRefresherMissing) {
		t.Fatalf("expected ErrRefresherMissing, got %v", err)
	}
}

type stubInitializer struct {
	owner, repo, siteName string
	err                   error
}

func (s *stubInitializer) InitializeRepository(_ context.Context, owner, repo, siteName string) error {
	s.owner, s.repo, s.siteName = owner, repo, siteName
	return s.err
}

func TestInitializeRepoHandlerInvalidatesAfterSuccess(t *testing.T) {
	initializer := &stubInitializer{}
	cache := &countingInvalidator{}
	handler := NewInitializeRepoHandler(initializer, logging.NoOp(), []Invalidator{cache, nil})

	err := handler.Execute(context.Background(), InitializeRepoCommand{Owner: "acme", Repo: "site", SiteName: "Acme"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if initializer.owner != "acme" || initializer.repo != "site" || initializer.siteName != "Acme" {
		t.Fatalf("unexpected initializer call %+v", initializer)
	}
	if cache.calls != 1 {
		t.Fatalf("expected cache invalidated once, got %d", cache.calls)
	}
}

func TestInitializeRepoHandlerKeepsCacheOnFailure(t *testing.T) {
	initErr := errors.New("Failed to initialize repository")
	cache := &countingInvalidator{}
	handler := NewInitializeRepoHandler(&stubInitializer{err: initErr}, logging.NoOp(), []Invalidator{cache})

	err := handler.Execute(context.Background(), InitializeRepoCommand{Owner: "acme", Repo: "site", SiteName: "Acme"})
	if !errors.Is(err, initErr) {
		t.Fatalf("expected initializer error, got %v", err)
	}
	if cache.calls != 0 {
		t.Fatalf("expected cache untouched, got %d invalidations", cache.calls)
	}
}

func TestInitializeRepoCommandValidation(t *testing.T) {
	initializer := &stubInitializer{}
	handler := NewInitializeRepoHandler(initializer, logging.NoOp(), nil)

	err := handler.Execute(context.Background(), InitializeRepoCommand{Owner: "acme", Repo: "site"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if initializer.owner != "" {
		t.Fatal("expected initializer not to be called")
	}

	missing := NewInitializeRepoHandler(nil, logging.NoOp(), nil)
	err = missing.Execute(context.Background(), InitializeRepoCommand{Owner: "acme", Repo: "site", SiteName: "Acme"})
	if !errors.Is(err, ErrInitializerMissing) {
		t.Fatalf("expected ErrInitializerMissing, got %v", err)
	}
}
