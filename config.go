package lox

// Config is the layered runtime configuration described in SPEC_FULL.md
// E.1.2: flags (applied by the CLI layer after loading this struct) win
// over env vars, which win over .loxrc.yaml, which win over these
// defaults.
type Config struct {
	NoColor      bool `env:"LOX_NO_COLOR" yaml:"no_color"`
	Trace        bool `env:"LOX_TRACE" yaml:"trace"`
	MaxCallDepth int  `env:"LOX_MAX_CALL_DEPTH" yaml:"max_call_depth"`
}

// DefaultConfig returns the configuration used when no env var or
// .loxrc.yaml overrides it.
func DefaultConfig() Config {
	return Config{
		NoColor:      false,
		Trace:        false,
		MaxCallDepth: 1024,
	}
}
