package mxregex

import "github.com/cmax0/mxregex/internal/engine"

// Config bounds the fixed-size working tables a Regex allocates per
// match: nesting depth, alternative-branch slots, backtrack choice
// points, capture groups, and the match-step watchdog. Defaults match
// the reference implementation's compile-time constants, so behavior
// is unchanged unless a caller opts into a different bound.
type Config = engine.Config

// DefaultConfig returns the reference implementation's bounds:
// MaxDepth 5, MaxAltSegments 24, MaxBacktrack 32, MaxCaptures 12,
// MaxIterate 65536.
func DefaultConfig() Config {
	return engine.DefaultConfig()
}

// ConfigError reports that a Config field is out of its valid range.
type ConfigError = engine.ConfigError
