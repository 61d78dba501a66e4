package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/zgraph/internal/identity"
	"github.com/starford/zgraph/internal/render"
	"github.com/starford/zgraph/internal/storage"
	"github.com/starford/zgraph/internal/watch"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultGraphOutput is the file name graph-pdf writes when none is given.
const DefaultGraphOutput = "zettel_graph.pdf"

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Notes  NotesConfig       `yaml:"notes"`
	Graph  GraphConfig       `yaml:"graph"`
	Render RenderConfig      `yaml:"render"`
	HTTP   HTTPConfig        `yaml:"http"`
	Auth   AuthConfig        `yaml:"auth"`
	Watch  WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{&c.App, &c.Notes, &c.Render, &c.HTTP, &c.Auth, &c.Watch} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.Required, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// NotesConfig selects which files are notes and how they are identified.
type NotesConfig struct {
	Patterns []string `yaml:"patterns"`
	Identity string   `yaml:"identity"`
	// Workers bounds concurrent note reads; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Patterns, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.Identity, validation.Required, validation.In(identity.NameFilename, identity.NameIDPrefix)),
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

// GraphConfig controls graph assembly.
type GraphConfig struct {
	// CountDuplicateReferences keeps one edge per reference instead of one
	// per referenced note.
	CountDuplicateReferences bool `yaml:"count_duplicate_references"`
}

// RenderConfig selects the Graphviz engine and output.
type RenderConfig struct {
	Engine string `yaml:"engine"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Engine, validation.Required),
		validation.Field(&c.Format, validation.Required),
		validation.Field(&c.Output, validation.Required),
	)
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AuthConfig holds authentication configuration for serve mode.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// WatchConfig configures directory watching in serve mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelWarn,
			LogFormat: LogFormatText,
		},
		Notes: NotesConfig{
			Patterns: append([]string(nil), storage.DefaultPatterns...),
			Identity: identity.NameFilename,
		},
		Render: RenderConfig{
			Engine: render.DefaultEngine,
			Format: render.DefaultFormat,
			Output: DefaultGraphOutput,
		},
		HTTP: HTTPConfig{
			Port: 8080,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Watch: WatchConfig{
			Debounce: watch.DefaultDebounce,
		},
	}
}
