// Package mxregex is a self-contained backtracking regex matcher for
// small, static-memory-shaped call patterns: one match per call
// against a byte slice, pattern in a conventional-but-restricted regex
// syntax (literal bytes, `\` escapes including `\xHH`, `[...]` classes,
// `\w\W\d\D\s\S\h`, `. ( ) | ^ $`, anchors `^ $ \b \B`, greedy
// quantifiers `? * + {n} {n,} {n,m}`, non-capturing `(?:...)`), and
// numbered capture groups in pattern order.
//
// It deliberately does not support Unicode (the input is an 8-bit byte
// stream), lookaround, named groups, backreferences, lazy quantifiers,
// or compilation to a separate bytecode/NFA/DFA form: the pattern is
// re-tokenized inside the match loop on every visit rather than
// compiled once, trading a constant-factor slowdown on pathological
// patterns for a working set that never grows past the bounds in
// Config, regardless of pattern or input size.
//
// Basic usage:
//
//	re, err := mxregex.Compile(`(\d{3})-(\d{4})`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.MatchString("call 555-1234 now") {
//	    groups := re.FindStringSubmatch("call 555-1234 now")
//	    fmt.Println(groups[1], groups[2]) // "555" "1234"
//	}
package mxregex

import (
	"github.com/cmax0/mxregex/internal/charclass"
	"github.com/cmax0/mxregex/internal/engine"
	"github.com/cmax0/mxregex/internal/prefilter"
)

// Init builds the package-wide precomputed character-class bitmaps
// backing \w \d \s and the default meaning of '.'. It exists for
// parity with the reference library's explicit MxRegex_init() entry
// point; Go callers never need to call it; charclass's own package
// init() already runs it once before any Compile/Match call can
// reach it, and it is idempotent on repeat calls.
func Init() {
	charclass.Init()
}

// Regex is a compiled pattern. A *Regex is safe to use concurrently
// from multiple goroutines: every Match/Find call allocates its own
// working state, and LastError reports the most recent fatal
// condition observed by the calling goroutine's own last call only if
// no other goroutine's call has updated it since, a tradeoff made for
// a single flat field instead of per-goroutine tracking — callers that
// need per-call error detail in concurrent code should check the error
// returned by a future, error-returning variant instead of LastError.
type Regex struct {
	pattern string
	flags   engine.Flags
	cfg     Config
	pf      *prefilter.Prefilter
	lastErr *MatchError
}

// Compile parses pattern and returns a Regex, or an error if pattern
// is malformed. Syntax errors (unbalanced groups, bad quantifiers,
// stray metacharacters) are looked for by running one trial match
// against an empty input, since this engine otherwise only tokenizes
// the pattern lazily inside each match call. Only errors that trial
// reaches are reported here: an error placed after an atom that must
// consume input (as in "a(b") is not seen by Compile and surfaces
// through LastError when a later match reaches it.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if pattern is invalid. It is
// intended for patterns known to be valid at compile time, such as
// package-level pattern variables.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("mxregex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig is Compile with an explicit Config instead of
// DefaultConfig, for callers that need different fixed-table bounds
// (deeper nesting, more capture groups, a larger watchdog limit, etc).
func CompileWithConfig(pattern string, cfg Config) (*Regex, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	re := &Regex{
		pattern: pattern,
		cfg:     cfg,
	}

	if _, err := engine.Match(pattern, "", 0, cfg, 0); err != nil {
		return nil, wrapFatal(err)
	}

	if pf, ok := prefilter.Build(pattern); ok {
		re.pf = pf
	}
	return re, nil
}

// WithMode returns a copy of r that matches using mode instead of r's
// current mode. r itself is left unmodified.
func (r *Regex) WithMode(mode Mode) *Regex {
	cp := *r
	cp.flags = mode.flags()
	cp.lastErr = nil
	return &cp
}

// LastError returns the MatchError from the most recent Match/Find
// family call on r if that call hit a fixed-table bound (too many
// captures, branches, backtrack points, or nesting depth, or the
// iteration watchdog) or a syntax error Compile did not catch, or nil
// if the most recent call completed without one (including a plain
// no-match, which never sets this).
func (r *Regex) LastError() *MatchError {
	return r.lastErr
}

func (r *Regex) startAt(input []byte) int {
	if r.pf == nil || r.flags&engine.CaseInsensitive != 0 {
		// the automaton compares bytes exactly, so it cannot locate
		// candidates for a case-insensitive match
		return 0
	}
	if at, ok := r.pf.Next(input, 0); ok {
		return at
	}
	return len(input) // no literal occurs at all: nothing to find
}

// run drives one Match/Find-family call: build fresh per-call State,
// run it from the prefilter-chosen start offset, and remember any
// fatal condition for LastError. It returns the live State and a
// matched flag; on a match the State's capture table is valid until
// its next Run, so callers pull spans out of it with WholeSpan and
// CaptureSpan instead of re-deriving them here.
func (r *Regex) run(input []byte) (st *engine.State, matched bool) {
	st = engine.NewState(r.pattern, string(input), r.flags, r.cfg)
	caps, err := st.Run(r.startAt(input))
	r.lastErr = wrapFatal(err)
	return st, err == nil && caps != nil
}

// Match reports whether input contains any match of the pattern.
func (r *Regex) Match(input []byte) bool {
	_, matched := r.run(input)
	return matched
}

// MatchString is Match for a string argument.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// Find returns the leftmost match of the pattern in input, or nil if
// there is no match.
func (r *Regex) Find(input []byte) []byte {
	st, matched := r.run(input)
	if !matched {
		return nil
	}
	start, end := st.WholeSpan()
	return input[start:end]
}

// FindString is Find for a string argument.
func (r *Regex) FindString(s string) string {
	b := r.Find([]byte(s))
	if b == nil {
		return ""
	}
	return string(b)
}

// FindSubmatch is Find, but also returns the text of every capturing
// group. Slot 0 is the whole match; slot i (i >= 1) is the i-th
// capturing group, in left-to-right order of its opening paren, or nil
// if that group did not participate in the match.
func (r *Regex) FindSubmatch(input []byte) [][]byte {
	idx := r.FindSubmatchIndex(input)
	if idx == nil {
		return nil
	}
	out := make([][]byte, len(idx)/2)
	for i := range out {
		start, end := idx[2*i], idx[2*i+1]
		if start < 0 {
			continue
		}
		out[i] = input[start:end]
	}
	return out
}

// FindStringSubmatch is FindSubmatch for a string argument.
func (r *Regex) FindStringSubmatch(s string) []string {
	b := r.FindSubmatch([]byte(s))
	if b == nil {
		return nil
	}
	out := make([]string, len(b))
	for i, g := range b {
		if g != nil {
			out[i] = string(g)
		}
	}
	return out
}

// FindSubmatchIndex is FindSubmatch, but returns byte offsets into
// input instead of slices: a flattened [start0, end0, start1, end1,
// ...] list, with -1, -1 for a group that did not participate,
// matching the standard library's regexp.FindSubmatchIndex shape.
func (r *Regex) FindSubmatchIndex(input []byte) []int {
	st, matched := r.run(input)
	if !matched {
		return nil
	}
	groups := engine.CapturingGroups(r.pattern)
	out := make([]int, 2*(len(groups)+1))

	start, end := st.WholeSpan()
	out[0], out[1] = start, end

	for i, groupStart := range groups {
		if gs, ge, ok := st.CaptureSpan(groupStart); ok {
			out[2*(i+1)], out[2*(i+1)+1] = gs, ge
		} else {
			out[2*(i+1)], out[2*(i+1)+1] = -1, -1
		}
	}
	return out
}
