package entriescmd

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-console/internal/commands"
	"github.com/goliatone/go-cms-console/internal/content"
	"github.com/goliatone/go-cms-console/internal/forms"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

const (
	submitEntryMessageType = "console.entries.submit"
	submitOperation        = "entries.submit"
)

var (
	ErrSubmissionsDisabled = errors.New("entries command: submissions disabled")
	ErrSubmitterMissing    = errors.New("entries command: entry submitter not configured")
)

// FeatureGates exposes the runtime toggle required by entry command handlers.
type FeatureGates struct {
	SubmissionsEnabled func() bool
}

func (g FeatureGates) submissionsEnabled() bool {
	if g.SubmissionsEnabled == nil {
		return true
	}
	return g.SubmissionsEnabled()
}

// SchemaSource resolves the compiled form schema of a content type.
type SchemaSource interface {
	Schema(slug string) (*forms.Schema, error)
}

// SubmitEntryCommand validates and submits a content entry.
type SubmitEntryCommand struct {
	Owner       string         `json:"owner"`
	Repo        string         `json:"repo"`
	ContentType string         `json:"content_type"`
	Slug        string         `json:"slug,omitempty"`
	Values      map[string]any `json:"values"`
}

// Type implements command.Message.
func (SubmitEntryCommand) Type() string { return submitEntryMessageType }

// Validate checks the envelope. Field values are checked against the content
// type schema during execution.
func (m SubmitEntryCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Owner, validation.Required),
		validation.Field(&m.Repo, validation.Required),
		validation.Field(&m.ContentType, validation.Required),
		validation.Field(&m.Slug, validation.Match(content.EntrySlugPattern).
			Error("must be lowercase alphanumeric with hyphens (e.g. my-blog-post)")),
	)
}

// SubmitEntryHandler validates entries locally and only then submits them.
type SubmitEntryHandler struct {
	inner *commands.Handler[SubmitEntryCommand]
}

// NewSubmitEntryHandler constructs a handler bound to the schema source and submitter.
func NewSubmitEntryHandler(schemas SchemaSource, submitter interfaces.EntrySubmitter, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SubmitEntryCommand]) *SubmitEntryHandler {
	baseLogger := logging.Or(logger)

	exec := func(ctx context.Context, msg SubmitEntryCommand) error {
		if !gates.submissionsEnabled() {
			return ErrSubmissionsDisabled
		}
		if submitter == nil {
			return ErrSubmitterMissing
		}

		if err := validateValues(schemas, msg.ContentType, msg.Values); err != nil {
			return err
		}

		record, err := submitter.SubmitEntry(ctx, interfaces.EntrySubmission{
			Owner:       msg.Owner,
			Repo:        msg.Repo,
			ContentType: msg.ContentType,
			Slug:        msg.Slug,
			Values:      msg.Values,
		})
		if err != nil {
			return err
		}

		fields := map[string]any{"content_type": msg.ContentType}
		if record != nil && record.ID != "" {
			fields["entry_id"] = record.ID
		}
		logging.WithFields(logging.WithRepoContext(baseLogger, msg.Owner, msg.Repo), fields).
			Info("entries.command.submit.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SubmitEntryCommand]{
		commands.WithLogger[SubmitEntryCommand](baseLogger),
		commands.WithOperation[SubmitEntryCommand](submitOperation),
		commands.WithMessageFields(func(msg SubmitEntryCommand) map[string]any {
			fields := map[string]any{
				"repo_key":     msg.Owner + "/" + msg.Repo,
				"content_type": msg.ContentType,
			}
			if msg.Slug != "" {
				fields["slug"] = msg.Slug
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SubmitEntryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SubmitEntryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SubmitEntryCommand].
func (h *SubmitEntryHandler) Execute(ctx context.Context, msg SubmitEntryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// validateValues checks entry values against the compiled schema of the
// content type before anything is sent.
func validateValues(schemas SchemaSource, contentType string, values map[string]any) error {
	schema, err := schemas.Schema(contentType)
	if err != nil {
		return err
	}
	return schema.Validate(values).Err()
}
