package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	console "github.com/goliatone/go-cms-console"
	"github.com/goliatone/go-cms-console/internal/forms"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		typesPath   string
		contentType string
		valuesPath  string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate content type declarations and, optionally, entry values",
		Long:  "Validate content type declarations. With --content-type and --values the\n" +
			"values are checked by the form rules and by the exported JSON Schema.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := loadSiteConfig(module, typesPath); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if contentType == "" {
				for _, ct := range module.Content().ContentTypes() {
					schema, err := module.Content().Schema(ct.Slug)
					if err != nil {
						return err
					}
					if unsupported := schema.Unsupported(); len(unsupported) > 0 {
						fmt.Fprintf(out, "%s: unsupported field types on %v\n", ct.Slug, unsupported)
					}
				}
				fmt.Fprintln(out, "declarations ok")
				return nil
			}

			schema, err := module.Content().Schema(contentType)
			if err != nil {
				return err
			}
			if valuesPath == "" {
				fmt.Fprintf(out, "%s: %d fields ok\n", contentType, len(schema.Fields()))
				return nil
			}
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}
			if err := schema.Validate(values).Err(); err != nil {
				if failures, ok := forms.FieldErrors(err); ok {
					printFieldErrors(cmd.ErrOrStderr(), failures)
				}
				return err
			}
			encoded, err := json.Marshal(values)
			if err != nil {
				return fmt.Errorf("encode values: %w", err)
			}
			if err := schema.ValidateDocument(encoded); err != nil {
				var docErr *forms.DocumentError
				if errors.As(err, &docErr) {
					for _, issue := range docErr.Issues {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", issue.Location, issue.Message)
					}
				}
				return err
			}
			fmt.Fprintln(out, "values ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&typesPath, "types", "", "YAML site config with content type declarations")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type slug to validate values against")
	cmd.Flags().StringVar(&valuesPath, "values", "", "YAML or JSON file with entry values")
	_ = cmd.MarkFlagRequired("types")
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	var (
		typesPath   string
		contentType string
	)
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Export a content type as a JSON Schema document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := loadSiteConfig(module, typesPath); err != nil {
				return err
			}
			schema, err := module.Content().Schema(contentType)
			if err != nil {
				return err
			}
			if _, err := schema.CompileJSONSchema(); err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(schema.JSONSchema())
		},
	}
	cmd.Flags().StringVar(&typesPath, "types", "", "YAML site config with content type declarations")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type slug")
	_ = cmd.MarkFlagRequired("types")
	_ = cmd.MarkFlagRequired("content-type")
	return cmd
}

// loadSiteConfig reads a site config document and installs it in the store.
func loadSiteConfig(module *console.Module, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read content types: %w", err)
	}
	var cfg console.SiteConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("decode content types %s: %w", path, err)
	}
	return module.Content().SetConfig(cfg)
}

func printFieldErrors(w io.Writer, failures map[string]forms.FieldError) {
	names := make([]string, 0, len(failures))
	for name := range failures {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, failures[name].Message)
	}
}
