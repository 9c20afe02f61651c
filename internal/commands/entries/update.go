package entriescmd

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-console/internal/commands"
	"github.com/goliatone/go-cms-console/internal/content"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

const (
	updateEntryMessageType = "console.entries.update"
	updateOperation        = "entries.update"
)

var ErrUpdaterMissing = errors.New("entries command: entry updater not configured")

// UpdateEntryCommand validates and replaces the values of an existing entry.
type UpdateEntryCommand struct {
	Owner       string         `json:"owner"`
	Repo        string         `json:"repo"`
	ContentType string         `json:"content_type"`
	ID          string         `json:"id"`
	Slug        string         `json:"slug,omitempty"`
	Values      map[string]any `json:"values"`
}

// Type implements command.Message.
func (UpdateEntryCommand) Type() string { return updateEntryMessageType }

// Validate checks the envelope.
func (m UpdateEntryCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Owner, validation.Required),
		validation.Field(&m.Repo, validation.Required),
		validation.Field(&m.ContentType, validation.Required),
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Slug, validation.Match(content.EntrySlugPattern).
			Error("must be lowercase alphanumeric with hyphens (e.g. my-blog-post)")),
	)
}

// UpdateEntryHandler runs the same local validation as submissions before
// sending the update.
type UpdateEntryHandler struct {
	inner *commands.Handler[UpdateEntryCommand]
}

// NewUpdateEntryHandler constructs a handler bound to the schema source and updater.
func NewUpdateEntryHandler(schemas SchemaSource, updater interfaces.EntryUpdater, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[UpdateEntryCommand]) *UpdateEntryHandler {
	baseLogger := logging.Or(logger)

	exec := func(ctx context.Context, msg UpdateEntryCommand) error {
		if !gates.submissionsEnabled() {
			return ErrSubmissionsDisabled
		}
		if updater == nil {
			return ErrUpdaterMissing
		}
		if err := validateValues(schemas, msg.ContentType, msg.Values); err != nil {
			return err
		}

		if _, err := updater.UpdateEntry(ctx, interfaces.EntryUpdate{
			Owner:       msg.Owner,
			Repo:        msg.Repo,
			ContentType: msg.ContentType,
			ID:          msg.ID,
			Slug:        msg.Slug,
			Values:      msg.Values,
		}); err != nil {
			return err
		}

		logging.WithFields(logging.WithRepoContext(baseLogger, msg.Owner, msg.Repo), map[string]any{
			"content_type": msg.ContentType,
			"entry_id":     msg.ID,
		}).Info("entries.command.update.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[UpdateEntryCommand]{
		commands.WithLogger[UpdateEntryCommand](baseLogger),
		commands.WithOperation[UpdateEntryCommand](updateOperation),
		commands.WithMessageFields(func(msg UpdateEntryCommand) map[string]any {
			return map[string]any{
				"repo_key":     msg.Owner + "/" + msg.Repo,
				"content_type": msg.ContentType,
				"entry_id":     msg.ID,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[UpdateEntryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpdateEntryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UpdateEntryCommand].
func (h *UpdateEntryHandler) Execute(ctx context.Context, msg UpdateEntryCommand) error {
	return h.inner.Execute(ctx, msg)
}
