package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-cms-console/internal/content"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL: server.URL,
		Headers: map[string]string{"X-Console": "test"},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: " "}); !errors.Is(err, ErrBaseURLRequired) {
		t.Fatalf("expected ErrBaseURLRequired, got %v", err)
	}
}

func TestCurrentUserDecodesIdentity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/me" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Console") != "test" {
			t.Errorf("expected configured header to be sent")
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"login":      "octo",
			"name":       "Octo Cat",
			"avatar_url": "https://avatars.example/octo.png",
		})
	})

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Login != "octo" || user.DisplayName != "Octo Cat" || user.AvatarURL == "" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestCurrentUserMapsUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	})

	_, err := client.CurrentUser(context.Background())
	if !errors.Is(err, interfaces.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Message != "Unauthorized" {
		t.Fatalf("expected server message, got %v", err)
	}
}

func TestFetchPagesConfig(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/acme/site/pages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"initialized": true, "baseUrl": "https://acme.example"})
	})

	cfg, err := client.FetchPagesConfig(context.Background(), "acme", "site")
	if err != nil {
		t.Fatalf("fetch pages: %v", err)
	}
	if !cfg.Initialized || cfg.BaseURL != "https://acme.example" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestFetchPagesConfigServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "An error occured"})
	})

	_, err := client.FetchPagesConfig(context.Background(), "acme", "site")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected http error, got %v", err)
	}
	if errors.Is(err, interfaces.ErrUnauthenticated) {
		t.Fatal("server errors must not read as unauthenticated")
	}
}

func TestFetchSiteConfig(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/acme/missing/config" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Config file not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"site_name": "Acme",
			"content_types": []map[string]any{{
				"id":   "ct-1",
				"name": "Posts",
				"slug": "posts",
				"fields": []map[string]any{
					{"field_name": "title", "field_type": "text", "is_required": true},
				},
			}},
		})
	})

	cfg, err := client.FetchSiteConfig(context.Background(), "acme", "site")
	if err != nil {
		t.Fatalf("fetch config: %v", err)
	}
	if cfg.SiteName != "Acme" || len(cfg.ContentTypes) != 1 || !cfg.ContentTypes[0].Fields[0].Required {
		t.Fatalf("unexpected config %+v", cfg)
	}

	_, err = client.FetchSiteConfig(context.Background(), "acme", "missing")
	if !errors.Is(err, content.ErrConfigNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found errors, got %v", err)
	}
}

func TestSubmitEntryPostsValues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/acme/site/posts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected json content type")
		}
		var body entryPayload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Slug != "hello-world" || body.Values["title"] != "Hello" {
			t.Errorf("unexpected body %+v", body)
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "entry-1", "slug": body.Slug, "values": body.Values})
	})

	record, err := client.SubmitEntry(context.Background(), interfaces.EntrySubmission{
		Owner:       "acme",
		Repo:        "site",
		ContentType: "posts",
		Slug:        "hello-world",
		Values:      map[string]any{"title": "Hello"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if record.ID != "entry-1" || record.Values["title"] != "Hello" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestUpdateEntryPutsValues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/acme/site/posts/entry-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body entryPayload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "entry-1", "slug": body.Slug, "values": body.Values})
	})

	record, err := client.UpdateEntry(context.Background(), interfaces.EntryUpdate{
		Owner:       "acme",
		Repo:        "site",
		ContentType: "posts",
		ID:          "entry-1",
		Slug:        "renamed",
		Values:      map[string]any{"title": "Renamed"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if record.Slug != "renamed" || record.Values["title"] != "Renamed" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestListEntriesSendsPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/acme/site/posts" || r.URL.Query().Get("page") != "2" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"page":        2,
			"items":       []any{map[string]any{"id": "a", "slug": "first", "values": map[string]any{"title": "First"}}},
			"total_pages": 3,
			"total_items": 21,
		})
	})

	page, err := client.ListEntries(context.Background(), "acme", "site", "posts", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Page != 2 || page.TotalPages != 3 || page.TotalItems != 21 || len(page.Items) != 1 || page.Items[0].Slug != "first" {
		t.Fatalf("unexpected page %+v", page)
	}

	if _, err := client.ListEntries(context.Background(), "acme", "site", "posts", 0); !errors.Is(err, ErrPageInvalid) {
		t.Fatalf("expected ErrPageInvalid, got %v", err)
	}
}

func TestGetEntryMapsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/acme/site/posts/a" {
			writeJSON(w, http.StatusOK, map[string]any{"id": "a", "values": map[string]any{"title": "First"}})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Content value not found"})
	})

	record, err := client.GetEntry(context.Background(), "acme", "site", "posts", "a")
	if err != nil || record.ID != "a" {
		t.Fatalf("unexpected record %+v (%v)", record, err)
	}
	_, err = client.GetEntry(context.Background(), "acme", "site", "posts", "missing")
	if !errors.Is(err, ErrNotFound) || err.Error() != "Content value not found" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRepositories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/repos" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, []any{
			map[string]any{"name": "site", "full_name": "acme/site", "owner": map[string]any{"login": "acme"}, "private": true},
		})
	})

	repos, err := client.ListRepositories(context.Background())
	if err != nil {
		t.Fatalf("list repositories: %v", err)
	}
	if len(repos) != 1 || repos[0].Owner.Login != "acme" || repos[0].Name != "site" || !repos[0].Private {
		t.Fatalf("unexpected repositories %+v", repos)
	}
}

func TestInitializeRepositoryPostsSiteName(t *testing.T) {
	var siteName string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/acme/site/init" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			SiteName string `json:"site_name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		siteName = body.SiteName
		writeJSON(w, http.StatusOK, map[string]string{"message": "Repository initialized successfully"})
	})

	if err := client.InitializeRepository(context.Background(), "acme", "site", "Acme"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if siteName != "Acme" {
		t.Fatalf("expected site name to be posted, got %q", siteName)
	}
}
