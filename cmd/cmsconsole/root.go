package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	console "github.com/goliatone/go-cms-console"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// moduleBuilder is swapped in tests.
var moduleBuilder = console.New

type app struct {
	configPath string
	baseURL    string
	verbose    bool

	module *console.Module
}

// NewRootCmd builds the cmsconsole command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cmsconsole",
		Short:         "Inspect and validate content for a git-backed CMS",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			a.module.Close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./cmsconsole.yaml)")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "API base URL, overrides the config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newWhoamiCmd(a),
		newPagesCmd(a),
		newTypesCmd(a),
		newSubmitCmd(a),
		newUpdateCmd(a),
		newReposCmd(a),
		newEntriesCmd(a),
		newEntryCmd(a),
		newInitCmd(a),
		newValidateCmd(a),
		newSchemaCmd(a),
	)
	return root
}

// load builds the console module on first use. Notifications go to errOut.
func (a *app) load(errOut io.Writer) (*console.Module, error) {
	if a.module != nil {
		return a.module, nil
	}
	cfg, err := console.LoadConfig(a.configPath)
	if err != nil {
		return nil, err
	}
	if base := strings.TrimSpace(a.baseURL); base != "" {
		cfg.API.BaseURL = base
	}
	if a.verbose {
		cfg.Features.Logger = true
		cfg.Logging.Level = "debug"
	}

	notifier := interfaces.NotifierFunc(func(_ context.Context, message string) {
		fmt.Fprintf(errOut, "! %s\n", message)
	})
	module, err := moduleBuilder(cfg, console.WithNotifier(notifier))
	if err != nil {
		return nil, fmt.Errorf("initialise console module: %w", err)
	}
	a.module = module
	return module, nil
}

func splitRepo(arg string) (string, string, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(arg), "/")
	if !ok || strings.TrimSpace(owner) == "" || strings.TrimSpace(repo) == "" {
		return "", "", fmt.Errorf("expected <owner>/<repo>, got %q", arg)
	}
	return strings.TrimSpace(owner), strings.TrimSpace(repo), nil
}
