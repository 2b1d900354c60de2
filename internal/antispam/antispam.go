// Package antispam throttles the commands a single session may send.
package antispam

import (
	"sync"
	"time"
)

// Config holds throttle configuration
type Config struct {
	Enabled     bool          `yaml:"enabled" env:"ENABLED"`
	MaxCommands int           `yaml:"max_commands" env:"MAX_COMMANDS"` // Max commands allowed in the window
	Window      time.Duration `yaml:"window" env:"WINDOW"`
	// MaxMapCommands caps the expensive commands separately.
	MaxMapCommands int `yaml:"max_map_commands" env:"MAX_MAP_COMMANDS"`
}

// DefaultConfig returns sensible defaults for the throttle
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		MaxCommands:    20,
		Window:         10 * time.Second,
		MaxMapCommands: 2,
	}
}

// Tracker tracks command activity for a single session
type Tracker struct {
	mu       sync.Mutex
	config   Config
	commands []time.Time // Timestamps of recent commands
	heavy    []time.Time // Timestamps of recent expensive commands
	now      func() time.Time
}

// NewTracker creates a new tracker with the given config. Zero limits fall
// back to the defaults.
func NewTracker(config Config) *Tracker {
	def := DefaultConfig()
	if config.MaxCommands <= 0 {
		config.MaxCommands = def.MaxCommands
	}
	if config.Window <= 0 {
		config.Window = def.Window
	}
	if config.MaxMapCommands <= 0 {
		config.MaxMapCommands = def.MaxMapCommands
	}
	return &Tracker{
		config:   config,
		commands: make([]time.Time, 0, config.MaxCommands),
		now:      time.Now,
	}
}

// CheckResult contains the result of a throttle check
type CheckResult struct {
	Allowed     bool
	Reason      string
	WaitSeconds int // How long to wait before trying again (if not allowed)
}

// Check determines if a command should run. heavy marks commands that
// generate a whole map.
func (t *Tracker) Check(heavy bool) CheckResult {
	if !t.config.Enabled {
		return CheckResult{Allowed: true}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.commands = prune(t.commands, now.Add(-t.config.Window))
	t.heavy = prune(t.heavy, now.Add(-t.config.Window))

	if len(t.commands) >= t.config.MaxCommands {
		return t.blocked(t.commands[0], now, "You're sending commands too quickly. Please slow down.")
	}
	if heavy && len(t.heavy) >= t.config.MaxMapCommands {
		return t.blocked(t.heavy[0], now, "Map generation is limited. Please wait before generating another map.")
	}

	t.commands = append(t.commands, now)
	if heavy {
		t.heavy = append(t.heavy, now)
	}
	return CheckResult{Allowed: true}
}

func (t *Tracker) blocked(oldest, now time.Time, reason string) CheckResult {
	remaining := oldest.Add(t.config.Window).Sub(now)
	return CheckResult{
		Allowed:     false,
		Reason:      reason,
		WaitSeconds: int(remaining.Seconds()) + 1,
	}
}

// prune drops timestamps at or before cutoff
func prune(times []time.Time, cutoff time.Time) []time.Time {
	kept := times[:0]
	for _, ts := range times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

// Reset clears all tracking data
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.commands = t.commands[:0]
	t.heavy = t.heavy[:0]
}
