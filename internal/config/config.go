// Package config loads the service tunables for pmand from a TOML file
// using github.com/BurntSushi/toml, the pack's config-decoding library.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable the dispatch subsystem and its host process
// need at start-up. Zero values are invalid for most fields; callers should
// go through Load or Default rather than constructing one by hand.
type Config struct {
	// TickPeriod is the wall-clock interval between calls to
	// Service.TimerTick (spec.md §5's external tick source).
	TickPeriod time.Duration `toml:"tick_period"`

	// SignalsPortBuffer and EventsPortBuffer size the two inbound channels
	// Dispatcher drains each step.
	SignalsPortBuffer int `toml:"signals_port_buffer"`
	EventsPortBuffer  int `toml:"events_port_buffer"`

	// MaxThreads and MaxTasks are checked by Validate; defaults mirror
	// proto.MaxThr/proto.MaxTsk. They are not passed to the Service: WAIT
	// checks thr_id against proto.MaxThr and EVENT checks its target task
	// against proto.MaxTsk regardless of these values.
	MaxThreads uint32 `toml:"max_threads"`
	MaxTasks   uint32 `toml:"max_tasks"`

	// RateLimit configures the optional per-task WAIT limiter. The zero
	// RateLimit (Enabled == false) leaves WAIT unthrottled.
	RateLimit RateLimitConfig `toml:"rate_limit"`

	// LogLevel is one of "debug", "info", "warning", "error" — parsed by
	// cmd/pmand into a logiface.Level.
	LogLevel string `toml:"log_level"`
}

// RateLimitConfig configures the go-catrate limiter installed on
// Service.Wait via Service.SetRateLimiter.
type RateLimitConfig struct {
	Enabled bool `toml:"enabled"`
	// PerSecond and PerMinute are sliding-window event counts; zero means
	// that window is not enforced. Both set to zero with Enabled true is
	// rejected by Validate, since it would build an empty-rates Limiter.
	PerSecond int `toml:"per_second"`
	PerMinute int `toml:"per_minute"`
}

// Default returns the tunables a standalone pmand should start with absent
// any config file.
func Default() Config {
	return Config{
		TickPeriod:        10 * time.Millisecond,
		SignalsPortBuffer: 64,
		EventsPortBuffer:  64,
		MaxThreads:        4096,
		MaxTasks:          1024,
		LogLevel:          "info",
	}
}

// rawConfig mirrors Config field-for-field, except TickPeriod is a string —
// time.Duration has no UnmarshalText, so BurntSushi/toml can't decode a
// duration literal like "5ms" directly into one.
type rawConfig struct {
	TickPeriod        string          `toml:"tick_period"`
	SignalsPortBuffer int             `toml:"signals_port_buffer"`
	EventsPortBuffer  int             `toml:"events_port_buffer"`
	MaxThreads        uint32          `toml:"max_threads"`
	MaxTasks          uint32          `toml:"max_tasks"`
	RateLimit         RateLimitConfig `toml:"rate_limit"`
	LogLevel          string          `toml:"log_level"`
}

// Load decodes a TOML file at path into a Config seeded with Default,
// so a file only needs to override what it wants to change.
func Load(path string) (Config, error) {
	def := Default()
	raw := rawConfig{
		TickPeriod:        def.TickPeriod.String(),
		SignalsPortBuffer: def.SignalsPortBuffer,
		EventsPortBuffer:  def.EventsPortBuffer,
		MaxThreads:        def.MaxThreads,
		MaxTasks:          def.MaxTasks,
		RateLimit:         def.RateLimit,
		LogLevel:          def.LogLevel,
	}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}

	tickPeriod, err := time.ParseDuration(raw.TickPeriod)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: tick_period: %w", path, err)
	}

	cfg := Config{
		TickPeriod:        tickPeriod,
		SignalsPortBuffer: raw.SignalsPortBuffer,
		EventsPortBuffer:  raw.EventsPortBuffer,
		MaxThreads:        raw.MaxThreads,
		MaxTasks:          raw.MaxTasks,
		RateLimit:         raw.RateLimit,
		LogLevel:          raw.LogLevel,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Rates builds the map go-catrate.NewLimiter expects, omitting any window
// left at zero.
func (r RateLimitConfig) Rates() map[time.Duration]int {
	rates := make(map[time.Duration]int, 2)
	if r.PerSecond > 0 {
		rates[time.Second] = r.PerSecond
	}
	if r.PerMinute > 0 {
		rates[time.Minute] = r.PerMinute
	}
	return rates
}

// Validate checks field invariants Load and manual construction both need
// to satisfy before a Config is used to build a Service.
func (c Config) Validate() error {
	if c.TickPeriod <= 0 {
		return fmt.Errorf("tick_period must be positive, got %s", c.TickPeriod)
	}
	if c.SignalsPortBuffer < 0 || c.EventsPortBuffer < 0 {
		return fmt.Errorf("port buffers must not be negative")
	}
	if c.MaxThreads == 0 || c.MaxTasks == 0 {
		return fmt.Errorf("max_threads and max_tasks must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.PerSecond <= 0 && c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("rate_limit.enabled requires per_second or per_minute > 0")
	}
	return nil
}
