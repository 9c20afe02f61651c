package logging

import (
	"context"

	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

const (
	rootModule       = "console"
	formsModule      = "console.forms"
	sessionModule    = "console.session"
	repoConfigModule = "console.repoconfig"
	guardModule      = "console.guard"
	commandsModule   = "console.commands"
	remoteModule     = "console.remote"
	contentModule    = "console.content"
	navigationModule = "console.navigation"
)

// CommandsModule is the logger namespace prefix for command handlers.
const CommandsModule = commandsModule

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// FormsLogger returns the logger namespace reserved for schema compilation.
func FormsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, formsModule)
}

// SessionLogger returns the logger namespace reserved for the session cache.
func SessionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sessionModule)
}

// RepoConfigLogger returns the logger namespace reserved for the repo config cache.
func RepoConfigLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, repoConfigModule)
}

// GuardLogger returns the logger namespace reserved for async operation guards.
func GuardLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, guardModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// RemoteLogger returns the logger namespace reserved for the HTTP adapter.
func RemoteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, remoteModule)
}

// ContentLogger returns the logger namespace reserved for the content type store.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// NavigationLogger returns the logger namespace reserved for route checks.
func NavigationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, navigationModule)
}

// WithRepoContext enriches the logger with the repository coordinates being worked on.
func WithRepoContext(logger interfaces.Logger, owner, repo string) interfaces.Logger {
	fields := map[string]any{}
	if owner != "" {
		fields["owner"] = owner
	}
	if repo != "" {
		fields["repo"] = repo
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
