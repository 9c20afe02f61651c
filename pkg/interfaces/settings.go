package interfaces

import "context"

// PagesConfig mirrors the per-repository publishing settings payload.
type PagesConfig struct {
	Initialized bool   `json:"initialized"`
	BaseURL     string `json:"baseUrl,omitempty"`
}

// PagesConfigProvider fetches publishing settings for a repository.
type PagesConfigProvider interface {
	FetchPagesConfig(ctx context.Context, owner, repo string) (PagesConfig, error)
}
