package console

import "github.com/goliatone/go-cms-console/internal/runtimeconfig"

var (
	ErrAPIBaseURLRequired      = runtimeconfig.ErrAPIBaseURLRequired
	ErrAPIBaseURLInvalid       = runtimeconfig.ErrAPIBaseURLInvalid
	ErrAPITimeoutInvalid       = runtimeconfig.ErrAPITimeoutInvalid
	ErrCommandTimeoutInvalid   = runtimeconfig.ErrCommandTimeoutInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	APIConfig        = runtimeconfig.APIConfig
	FormsConfig      = runtimeconfig.FormsConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	GuardConfig      = runtimeconfig.GuardConfig
	CommandsConfig   = runtimeconfig.CommandsConfig
	Features         = runtimeconfig.Features
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file with CMSCONSOLE_ environment overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
