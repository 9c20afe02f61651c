package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-console/internal/fields"
	"github.com/goliatone/go-cms-console/internal/forms"
	"github.com/goliatone/go-cms-console/internal/identity"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

const (
	textCodeSlugInvalid   = "CONTENT_TYPE_SLUG_INVALID"
	textCodeSlugDuplicate = "CONTENT_TYPE_SLUG_DUPLICATE"
	textCodeRepoRequired  = "CONTENT_REPOSITORY_REQUIRED"
	textCodeRepoInvalid   = "CONTENT_REPOSITORY_INVALID"
)

var (
	ErrSlugInvalid       = errors.New("content: content type slug is invalid")
	ErrSlugDuplicate     = errors.New("content: duplicate content type slug")
	ErrRepoRequired      = errors.New("content: owner and repo are required")
	ErrRepoInvalid       = errors.New("content: owner and repo must not contain '/'")
	ErrNoRepoSelected    = errors.New("content: no repository selected")
	ErrSourceUnavailable = errors.New("content: config source not configured")
	ErrConfigNotFound    = errors.New("content: repository config not found")
)

// NotFoundError is returned when a content type slug is unknown.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ConfigSource loads the site config document of a repository.
type ConfigSource interface {
	FetchSiteConfig(ctx context.Context, owner, repo string) (*SiteConfig, error)
}

// SchemaCompiler builds form schemas from declarations.
type SchemaCompiler interface {
	Compile(decls []fields.Declaration) (*forms.Schema, error)
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger interfaces.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logging.Or(logger)
	}
}

// WithSource sets the remote config source used by Refresh.
func WithSource(source ConfigSource) StoreOption {
	return func(s *Store) {
		s.source = source
	}
}

// Store holds the selected repository and its content types, and memoizes
// compiled form schemas until the config is replaced.
type Store struct {
	compiler SchemaCompiler
	source   ConfigSource
	logger   interfaces.Logger

	mu         sync.RWMutex
	selected   *Repo
	config     *SiteConfig
	index      map[string]int
	schemas    map[string]*forms.Schema
	generation uint64
}

// NewStore constructs an empty store. A nil compiler uses the default field registry.
func NewStore(compiler SchemaCompiler, opts ...StoreOption) *Store {
	if compiler == nil {
		compiler = forms.NewCompiler(nil)
	}
	s := &Store{
		compiler: compiler,
		logger:   logging.NoOp(),
		index:    map[string]int{},
		schemas:  map[string]*forms.Schema{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SelectRepo records the repository being edited. Selecting a different
// repository drops the loaded config.
func (s *Store) SelectRepo(owner, repo string) error {
	owner, repo = strings.TrimSpace(owner), strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return goerrors.Wrap(ErrRepoRequired, goerrors.CategoryValidation, "repository coordinates required").
			WithTextCode(textCodeRepoRequired)
	}
	if strings.Contains(owner, "/") || strings.Contains(repo, "/") {
		return goerrors.Wrap(ErrRepoInvalid, goerrors.CategoryValidation, "repository coordinates invalid").
			WithTextCode(textCodeRepoInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := Repo{Owner: owner, Name: repo}
	if s.selected != nil && *s.selected == next {
		return nil
	}
	s.selected = &next
	s.resetLocked(nil)
	return nil
}

// Selected returns the selected repository.
func (s *Store) Selected() (Repo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return Repo{}, false
	}
	return *s.selected, true
}

// SetConfig validates cfg and replaces the current config with it. Content
// types without an id get one derived from the selected repository (or the
// site name) and the slug. Memoized schemas are dropped.
func (s *Store) SetConfig(cfg SiteConfig) error {
	next := cloneSiteConfig(cfg)
	index := make(map[string]int, len(next.ContentTypes))

	scope := next.SiteName
	if repo, ok := s.Selected(); ok {
		scope = repo.Key()
	}

	for i := range next.ContentTypes {
		ct := &next.ContentTypes[i]
		ct.Slug = DeriveSlug(*ct)
		if !IsValidSlug(ct.Slug) {
			return goerrors.Wrap(fmt.Errorf("%w: %q", ErrSlugInvalid, ct.Slug), forms.CategoryConfiguration, "content type slug invalid").
				WithTextCode(textCodeSlugInvalid)
		}
		if _, exists := index[ct.Slug]; exists {
			return goerrors.Wrap(fmt.Errorf("%w: %q", ErrSlugDuplicate, ct.Slug), forms.CategoryConfiguration, "content type slug duplicated").
				WithTextCode(textCodeSlugDuplicate)
		}
		if strings.TrimSpace(ct.ID) == "" {
			ct.ID = identity.ContentTypeUUID(scope, ct.Slug).String()
		}
		index[ct.Slug] = i
	}

	s.mu.Lock()
	s.resetLocked(&next)
	s.index = index
	s.mu.Unlock()

	s.logger.Debug("content.config.replaced",
		"site_name", next.SiteName,
		"content_types", len(next.ContentTypes),
	)
	return nil
}

// Clear drops the loaded config but keeps the selection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(nil)
}

func (s *Store) resetLocked(cfg *SiteConfig) {
	s.config = cfg
	s.index = map[string]int{}
	s.schemas = map[string]*forms.Schema{}
	s.generation++
}

// Config returns a copy of the loaded config.
func (s *Store) Config() (SiteConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return SiteConfig{}, false
	}
	return cloneSiteConfig(*s.config), true
}

// ContentTypes lists the loaded content types in config order.
func (s *Store) ContentTypes() []ContentType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return nil
	}
	out := make([]ContentType, 0, len(s.config.ContentTypes))
	for _, ct := range s.config.ContentTypes {
		out = append(out, cloneContentType(ct))
	}
	return out
}

// ContentType returns the content type with the given slug.
func (s *Store) ContentType(slug string) (ContentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ct, ok := s.lookupLocked(slug)
	if !ok {
		return ContentType{}, &NotFoundError{Resource: "content type", Key: slug}
	}
	return cloneContentType(ct), nil
}

func (s *Store) lookupLocked(slug string) (ContentType, bool) {
	if s.config == nil {
		return ContentType{}, false
	}
	idx, ok := s.index[slug]
	if !ok {
		return ContentType{}, false
	}
	return s.config.ContentTypes[idx], true
}

// Schema returns the compiled form schema for a content type, compiling it
// on first use for the current config.
func (s *Store) Schema(slug string) (*forms.Schema, error) {
	s.mu.RLock()
	if schema, ok := s.schemas[slug]; ok {
		s.mu.RUnlock()
		return schema, nil
	}
	ct, ok := s.lookupLocked(slug)
	generation := s.generation
	s.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Resource: "content type", Key: slug}
	}

	schema, err := s.compiler.Compile(ct.Fields)
	if err != nil {
		s.logger.Error("content.schema.compile_failed", "content_type", slug, "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == generation {
		if memo, ok := s.schemas[slug]; ok {
			return memo, nil
		}
		s.schemas[slug] = schema
	}
	return schema, nil
}

// Refresh loads the config of the selected repository from the source.
func (s *Store) Refresh(ctx context.Context) error {
	repo, ok := s.Selected()
	if !ok {
		return ErrNoRepoSelected
	}
	if s.source == nil {
		return ErrSourceUnavailable
	}

	logger := logging.WithRepoContext(s.logger, repo.Owner, repo.Name)
	cfg, err := s.source.FetchSiteConfig(ctx, repo.Owner, repo.Name)
	if err != nil {
		logger.Warn("content.config.fetch_failed", "error", err)
		if errors.Is(err, ErrConfigNotFound) || goerrors.IsWrapped(err) {
			return err
		}
		return goerrors.Wrap(err, interfaces.CategoryTransport, "repository config fetch failed")
	}
	if cfg == nil {
		return ErrConfigNotFound
	}

	if current, ok := s.Selected(); !ok || current != repo {
		logger.Debug("content.config.discarded")
		return nil
	}
	return s.SetConfig(*cfg)
}
