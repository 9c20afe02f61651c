package interfaces

import "context"

// Repository is a repository the signed in user can open in the console.
type Repository struct {
	Name        string          `json:"name"`
	FullName    string          `json:"full_name"`
	Owner       RepositoryOwner `json:"owner"`
	Private     bool            `json:"private"`
	Description string          `json:"description,omitempty"`
	HTMLURL     string          `json:"html_url,omitempty"`
}

// RepositoryOwner names the account owning a repository.
type RepositoryOwner struct {
	Login string `json:"login"`
}

// RepositoryLister lists the repositories visible to the signed in user.
type RepositoryLister interface {
	ListRepositories(ctx context.Context) ([]Repository, error)
}

// RepositoryInitializer writes the initial site config to a repository.
type RepositoryInitializer interface {
	InitializeRepository(ctx context.Context, owner, repo, siteName string) error
}
