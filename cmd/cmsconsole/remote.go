package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	console "github.com/goliatone/go-cms-console"
	"github.com/goliatone/go-cms-console/internal/forms"
	"github.com/goliatone/go-cms-console/internal/markdown"
)

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if !module.Session().EnsureAuthenticated(cmd.Context()) {
				return fmt.Errorf("not signed in")
			}
			user := module.Session().User()
			if user.DisplayName != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Login, user.DisplayName)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), user.Login)
			return nil
		},
	}
}

func newPagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pages <owner>/<repo>",
		Short: "Show the publishing settings of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			outcome := module.LoadRepoConfig(cmd.Context(), owner, repo)
			if !outcome.OK {
				return fmt.Errorf("load publishing settings for %s/%s failed", owner, repo)
			}
			entry := outcome.Value
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "repository:  %s\n", entry.RepoKey)
			fmt.Fprintf(out, "initialized: %t\n", entry.Initialized)
			if entry.BaseURL != "" {
				fmt.Fprintf(out, "base url:    %s\n", entry.BaseURL)
			}
			return nil
		},
	}
}

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types <owner>/<repo>",
		Short: "List the content types of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := module.RefreshSiteConfig(cmd.Context(), owner, repo); err != nil {
				return err
			}
			for _, ct := range module.Content().ContentTypes() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d fields\n", ct.Slug, ct.Name, len(ct.Fields))
			}
			return nil
		},
	}
}

func newSubmitCmd(a *app) *cobra.Command {
	var (
		valuesPath string
		slug       string
		bodyField  string
	)
	cmd := &cobra.Command{
		Use:   "submit <owner>/<repo> <content-type>",
		Short: "Validate and submit an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			values, docSlug, err := readEntry(valuesPath, bodyField)
			if err != nil {
				return err
			}
			if slug == "" {
				slug = docSlug
			}
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := module.RefreshSiteConfig(cmd.Context(), owner, repo); err != nil {
				return err
			}
			err = module.SubmitEntry(cmd.Context(), console.SubmitEntryCommand{
				Owner:       owner,
				Repo:        repo,
				ContentType: args[1],
				Slug:        slug,
				Values:      values,
			})
			if failures, ok := forms.FieldErrors(err); ok {
				printFieldErrors(cmd.ErrOrStderr(), failures)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "submitted")
			return nil
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "YAML, JSON or Markdown (frontmatter) file with the entry values")
	cmd.Flags().StringVar(&slug, "slug", "", "entry slug, overrides a frontmatter slug")
	cmd.Flags().StringVar(&bodyField, "body-field", markdown.DefaultBodyField, "field receiving the Markdown body")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		valuesPath string
		slug       string
		bodyField  string
	)
	cmd := &cobra.Command{
		Use:   "update <owner>/<repo> <content-type> <id>",
		Short: "Validate and replace the values of an entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			values, docSlug, err := readEntry(valuesPath, bodyField)
			if err != nil {
				return err
			}
			if slug == "" {
				slug = docSlug
			}
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := module.RefreshSiteConfig(cmd.Context(), owner, repo); err != nil {
				return err
			}
			err = module.UpdateEntry(cmd.Context(), console.UpdateEntryCommand{
				Owner:       owner,
				Repo:        repo,
				ContentType: args[1],
				ID:          args[2],
				Slug:        slug,
				Values:      values,
			})
			if failures, ok := forms.FieldErrors(err); ok {
				printFieldErrors(cmd.ErrOrStderr(), failures)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "YAML, JSON or Markdown (frontmatter) file with the entry values")
	cmd.Flags().StringVar(&slug, "slug", "", "entry slug, overrides a frontmatter slug")
	cmd.Flags().StringVar(&bodyField, "body-field", markdown.DefaultBodyField, "field receiving the Markdown body")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func newReposCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List the repositories of the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			outcome := module.ListRepositories(cmd.Context())
			if !outcome.OK {
				return fmt.Errorf("list repositories failed")
			}
			for _, repo := range outcome.Value {
				visibility := "public"
				if repo.Private {
					visibility = "private"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\t%s\n", repo.Owner.Login, repo.Name, visibility)
			}
			return nil
		},
	}
}

func newEntriesCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "entries <owner>/<repo> <content-type>",
		Short: "List one page of the entries of a content type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			outcome := module.ListEntries(cmd.Context(), owner, repo, args[1], page)
			if !outcome.OK {
				return fmt.Errorf("list %s entries failed", args[1])
			}
			out := cmd.OutOrStdout()
			for _, entry := range outcome.Value.Items {
				fmt.Fprintf(out, "%s\t%s\n", entry.ID, entry.Slug)
			}
			fmt.Fprintf(out, "page %d of %d (%d entries)\n",
				outcome.Value.Page, outcome.Value.TotalPages, outcome.Value.TotalItems)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page to fetch, starting at 1")
	return cmd
}

func newEntryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "entry <owner>/<repo> <content-type> <id>",
		Short: "Show the values of an entry as JSON",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			record, err := module.GetEntry(cmd.Context(), owner, repo, args[1], args[2])
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(record)
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	var siteName string
	cmd := &cobra.Command{
		Use:   "init <owner>/<repo>",
		Short: "Write an empty site config to a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := module.InitializeRepo(cmd.Context(), owner, repo, siteName); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "initialized")
			return nil
		},
	}
	cmd.Flags().StringVar(&siteName, "site-name", "", "site name stored in the new config")
	_ = cmd.MarkFlagRequired("site-name")
	return cmd
}

// readEntry reads entry values from a Markdown document with frontmatter, or
// from a plain values file.
func readEntry(path, bodyField string) (map[string]any, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read entry: %w", err)
		}
		entry, err := markdown.ParseEntry(raw, bodyField)
		if err != nil {
			return nil, "", fmt.Errorf("decode entry %s: %w", path, err)
		}
		return entry.Values, entry.Slug, nil
	default:
		values, err := readValues(path)
		return values, "", err
	}
}

// readValues decodes a YAML (or JSON) mapping of field values.
func readValues(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode values %s: %w", path, err)
	}
	return values, nil
}
