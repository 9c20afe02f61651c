package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix scopes environment overrides, e.g. CMSCONSOLE_API_BASE_URL.
	EnvPrefix = "CMSCONSOLE"

	configFileName = "cmsconsole"
	configFileType = "yaml"

	keyAPIBaseURL        = "api.base_url"
	keyAPITimeout        = "api.timeout"
	keyAPIHeaders        = "api.headers"
	keyFormsStrictKeys   = "forms.strict_keys"
	keyNavigationBaseURL = "navigation.base_url"
	keyGuardErrorMessage = "guard.error_message"
	keyCommandsTimeout   = "commands.timeout"
	keyFeatureSubmit     = "features.submissions"
	keyFeatureLogger     = "features.logger"
	keyLoggingProvider   = "logging.provider"
	keyLoggingLevel      = "logging.level"
	keyLoggingFormat     = "logging.format"
	keyLoggingAddSource  = "logging.add_source"
	keyLoggingFocus      = "logging.focus"
)

// Load reads configuration from path, falling back to cmsconsole.yaml in the
// working directory when path is empty. A missing default file is not an
// error. Environment variables prefixed with CMSCONSOLE_ override file values.
// The result is validated.
func Load(path string) (Config, error) {
	v := viper.New()
	applyDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("console config: read config: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault(keyAPIBaseURL, cfg.API.BaseURL)
	v.SetDefault(keyAPITimeout, cfg.API.Timeout)
	v.SetDefault(keyAPIHeaders, cfg.API.Headers)
	v.SetDefault(keyFormsStrictKeys, cfg.Forms.StrictKeys)
	v.SetDefault(keyNavigationBaseURL, cfg.Navigation.BaseURL)
	v.SetDefault(keyGuardErrorMessage, cfg.Guard.ErrorMessage)
	v.SetDefault(keyCommandsTimeout, cfg.Commands.Timeout)
	v.SetDefault(keyFeatureSubmit, cfg.Features.Submissions)
	v.SetDefault(keyFeatureLogger, cfg.Features.Logger)
	v.SetDefault(keyLoggingProvider, cfg.Logging.Provider)
	v.SetDefault(keyLoggingLevel, cfg.Logging.Level)
	v.SetDefault(keyLoggingFormat, cfg.Logging.Format)
	v.SetDefault(keyLoggingAddSource, cfg.Logging.AddSource)
	v.SetDefault(keyLoggingFocus, cfg.Logging.Focus)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		API: APIConfig{
			BaseURL: v.GetString(keyAPIBaseURL),
			Timeout: v.GetDuration(keyAPITimeout),
			Headers: v.GetStringMapString(keyAPIHeaders),
		},
		Forms: FormsConfig{
			StrictKeys: v.GetBool(keyFormsStrictKeys),
		},
		Navigation: NavigationConfig{
			BaseURL: v.GetString(keyNavigationBaseURL),
		},
		Guard: GuardConfig{
			ErrorMessage: v.GetString(keyGuardErrorMessage),
		},
		Commands: CommandsConfig{
			Timeout: v.GetDuration(keyCommandsTimeout),
		},
		Features: Features{
			Submissions: v.GetBool(keyFeatureSubmit),
			Logger:      v.GetBool(keyFeatureLogger),
		},
		Logging: LoggingConfig{
			Provider:  v.GetString(keyLoggingProvider),
			Level:     v.GetString(keyLoggingLevel),
			Format:    v.GetString(keyLoggingFormat),
			AddSource: v.GetBool(keyLoggingAddSource),
			Focus:     v.GetStringSlice(keyLoggingFocus),
		},
	}
}
