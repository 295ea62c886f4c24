package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/ledger/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Defaults applied before reading the config file and environment.
const (
	DefaultBaseURL   = "http://localhost:5001/api"
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
	EnvPrefix        = "LEDGER"
)

// Config is the resolved application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	UserID  string        `mapstructure:"user_id"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig describes how to reach the transactions service.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	File   string `mapstructure:"file"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", DefaultTimeout)
	v.SetDefault("api.user_agent", "ledger")
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("logging.file", DefaultLogFile())
}

// BindEnv makes LEDGER_API_BASE_URL style variables override nested keys.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	// AutomaticEnv only applies to Get calls, not Unmarshal of unset keys.
	cfg.API.BaseURL = strings.TrimSpace(v.GetString("api.base_url"))
	cfg.API.Timeout = v.GetDuration("api.timeout")
	cfg.UserID = strings.TrimSpace(v.GetString("user_id"))
	cfg.Logging.Level = strings.ToLower(v.GetString("logging.level"))
	cfg.Logging.Format = strings.ToLower(v.GetString("logging.format"))
	cfg.Logging.File = ExpandPath(v.GetString("logging.file"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return nil
}

// RequireUser returns the configured user id or ErrNoSubject.
func (c Config) RequireUser() (string, error) {
	if c.UserID == "" {
		return "", fmt.Errorf("%w: set --user-id or %s_USER_ID", common.ErrNoSubject, EnvPrefix)
	}
	return c.UserID, nil
}

// DefaultConfigDir returns $HOME/.config/ledger.
func DefaultConfigDir() string {
	return ExpandPath("~/.config/ledger")
}

// DefaultLogFile returns the log file used while the terminal UI owns the screen.
func DefaultLogFile() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		stateDir = ExpandPath("~/.local/state")
	}
	return filepath.Join(stateDir, "ledger", "ledger.log")
}
