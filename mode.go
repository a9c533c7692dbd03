package mxregex

import "github.com/cmax0/mxregex/internal/engine"

// Mode holds the match-time flags that change how a pattern is
// interpreted, independent of the pattern text itself.
type Mode uint8

const (
	// CaseInsensitive folds ASCII letters before comparing, both in
	// literal characters and inside character classes.
	CaseInsensitive Mode = 1 << iota

	// Multiline makes ^ and $ also match immediately after/before a
	// '\r' or '\n' byte, not only at the very start/end of input.
	Multiline

	// Singleline makes '.' match '\r' and '\n' as well as every other
	// byte. Without it, '.' excludes both.
	Singleline
)

func (m Mode) flags() engine.Flags {
	var f engine.Flags
	if m&CaseInsensitive != 0 {
		f |= engine.CaseInsensitive
	}
	if m&Multiline != 0 {
		f |= engine.Multiline
	}
	if m&Singleline != 0 {
		f |= engine.Singleline
	}
	return f
}
