package interfaces

import "context"

// EntrySubmission carries a validated content entry to the remote submission endpoint.
type EntrySubmission struct {
	Owner       string
	Repo        string
	ContentType string
	Slug        string
	Values      map[string]any
}

// EntryRecord is the stored representation echoed back by the server.
type EntryRecord struct {
	ID     string         `json:"id,omitempty"`
	Slug   string         `json:"slug,omitempty"`
	Values map[string]any `json:"values"`
}

// EntrySubmitter sends content entries to the server.
type EntrySubmitter interface {
	SubmitEntry(ctx context.Context, submission EntrySubmission) (*EntryRecord, error)
}

// EntryUpdate carries a validated change to an existing entry.
type EntryUpdate struct {
	Owner       string
	Repo        string
	ContentType string
	ID          string
	Slug        string
	Values      map[string]any
}

// EntryUpdater replaces the values of stored entries.
type EntryUpdater interface {
	UpdateEntry(ctx context.Context, update EntryUpdate) (*EntryRecord, error)
}

// EntryPage is one page of the entries of a content type.
type EntryPage struct {
	Page       int           `json:"page"`
	Items      []EntryRecord `json:"items"`
	TotalPages int           `json:"total_pages"`
	TotalItems int           `json:"total_items"`
}

// EntryReader lists and fetches stored entries. Pages start at 1.
type EntryReader interface {
	ListEntries(ctx context.Context, owner, repo, contentType string, page int) (EntryPage, error)
	GetEntry(ctx context.Context, owner, repo, contentType, id string) (*EntryRecord, error)
}
