// internal/config/model.go
//
// Typed configuration model for the sign-up service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                     – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `SIGNUP_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the binaries fail fast if
// a value is malformed.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • Durations accept Go syntax ("10s", "1m30s").
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gte=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

//
// Form section
//

// Form points at an operator-supplied definition.  An empty Definition means
// the built-in sign-up form is served.  Relative paths resolve against
// Paths.Root.
type Form struct {
	Definition      string `koanf:"definition"`
	MaxPromptRounds int    `koanf:"max_prompt_rounds" validate:"gte=0,lte=100"`
}

//
// Log section
//

// Log controls the zap logger.  Dir defaults to `<root>/logs`.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // SIGNUP_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP  HTTP  `koanf:"http"`
	Form  Form  `koanf:"form"`
	Log   Log   `koanf:"log"`
	Paths Paths `koanf:"-"`
}

// Defaults applied to zero values after unmarshal.
const (
	DefaultListenAddr      = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPromptRounds    = 5
	DefaultLogLevel        = "info"
)

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = DefaultListenAddr
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = DefaultReadTimeout
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = DefaultWriteTimeout
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = DefaultIdleTimeout
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Form.MaxPromptRounds == 0 {
		c.Form.MaxPromptRounds = DefaultPromptRounds
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Default returns a validated Config with every default applied, rooted at
// root.  Used by the CLI when no conf/global.yaml exists.
func Default(root string) *Config {
	c := &Config{Paths: Paths{Root: root}}
	c.applyDefaults()
	return c
}
