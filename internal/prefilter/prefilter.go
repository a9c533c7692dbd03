// Package prefilter extracts a literal prefix (or a top-level
// alternation of pure literal branches) from a pattern string and
// builds a multi-literal automaton over it, so the top-level driver
// can jump its start-offset scan straight to the next byte position a
// match could possibly begin at, instead of probing every byte.
//
// Extraction never changes what the engine matches: a prefilter hit is
// only ever used as a candidate starting offset, and the full
// backtracking matcher still runs there. A pattern this package cannot
// usefully extract from (it opens with a class, group, quantifier, or
// anchor) simply yields no automaton, and the caller falls back to
// scanning from offset 0.
package prefilter

import "github.com/coregx/ahocorasick"

// maxBranches bounds how many '|' branches Extract will walk before
// giving up: an alternation with hundreds of literal branches is rare
// enough in the patterns this matcher targets that spending more time
// extracting than the byte-at-a-time fallback would take is a bad
// trade.
const maxBranches = 64

// Prefilter fast-forwards a driver's start-offset scan to the next
// input position where one of the pattern's literal branches could
// begin.
type Prefilter struct {
	automaton *ahocorasick.Automaton
}

// Build extracts literal branches from pattern and compiles them into
// a Prefilter. ok is false when nothing useful could be extracted
// (the pattern doesn't open with a literal byte run), in which case
// the caller should search from offset 0 unaided.
func Build(pattern string) (p *Prefilter, ok bool) {
	literals, extracted := Extract(pattern)
	if !extracted || len(literals) == 0 {
		return nil, false
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return &Prefilter{automaton: auto}, true
}

// Next returns the offset of the next byte position in input, at or
// after from, where some extracted literal begins, and whether one
// was found at all.
func (p *Prefilter) Next(input []byte, from int) (int, bool) {
	if from >= len(input) {
		return 0, false
	}
	m := p.automaton.Find(input, from)
	if m == nil {
		return 0, false
	}
	return m.Start, true
}

// Extract walks pattern and returns the set of literal byte strings
// every match must start with: either the single leading literal run
// (stopping at the first metacharacter, quantifier, or group), or, if
// the pattern opens with a top-level `(...)`-free run of `|`-separated
// branches that are each themselves pure literals, one entry per
// branch (e.g. "cat|dog|fish" yields ["cat", "dog", "fish"]).
//
// ok is false when the pattern opens with something that can't anchor
// a literal scan at all: a class, a group, an anchor, or a quantifier
// on the very first atom (a quantified first atom can match zero
// times, so nothing is actually required at the start).
func Extract(pattern string) (literals [][]byte, ok bool) {
	branches := splitTopLevelBranches(pattern)
	if len(branches) == 0 || len(branches) > maxBranches {
		return nil, false
	}

	if len(branches) == 1 {
		lit := leadingLiteral(branches[0])
		if len(lit) == 0 {
			return nil, false
		}
		return [][]byte{lit}, true
	}

	out := make([][]byte, 0, len(branches))
	for _, b := range branches {
		lit, exact := pureLiteral(b)
		if !exact || len(lit) == 0 {
			return nil, false
		}
		out = append(out, lit)
	}
	return out, true
}

// splitTopLevelBranches splits pattern on '|' at nesting depth 0,
// skipping escapes and bracket classes. It returns nil if the pattern
// is empty or any '(' is left unclosed, which the caller treats as
// "nothing extractable" rather than raising a syntax error: extraction
// is a best-effort optimization, the engine itself is the source of
// truth on malformed patterns.
func splitTopLevelBranches(pattern string) []string {
	if len(pattern) == 0 {
		return nil
	}
	var branches []string
	depth := 0
	start := 0
	i := 0
	for i < len(pattern) {
		switch pattern[i] {
		case '\\':
			i += 2
			continue
		case '[':
			i = skipBracketClass(pattern, i)
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil
			}
		case '|':
			if depth == 0 {
				branches = append(branches, pattern[start:i])
				start = i + 1
			}
		}
		i++
	}
	if depth != 0 {
		return nil
	}
	branches = append(branches, pattern[start:])
	return branches
}

func skipBracketClass(pattern string, at int) int {
	i := at + 1
	if i < len(pattern) && pattern[i] == '^' {
		i++
	}
	for i < len(pattern) && pattern[i] != ']' {
		if pattern[i] == '\\' {
			i++
		}
		i++
	}
	if i < len(pattern) {
		i++
	}
	return i
}

// literalStopBytes are the pattern bytes that end a run of plain
// literal characters: metacharacters, grouping, anchors, and
// quantifiers.
const literalStopBytes = `.()|^$[]\*+?{`

// leadingLiteral returns the longest run of plain literal bytes at the
// start of branch, stopping before any metacharacter, and also
// stopping one byte early if that byte carries a quantifier (since a
// quantified literal byte isn't necessarily present).
func leadingLiteral(branch string) []byte {
	end := 0
	for end < len(branch) && isPlainLiteralByte(branch[end]) {
		end++
	}
	if end == 0 {
		return nil
	}
	if hasQuantifierAt(branch, end) {
		end-- // the last literal byte is itself optional/repeatable
	}
	if end == 0 {
		return nil
	}
	return []byte(branch[:end])
}

// pureLiteral reports whether branch, in its entirety, is a plain
// literal run with no metacharacters or quantifiers at all (used for
// the multi-branch alternation case, where a partial literal would
// make the automaton's hits unreliable as candidate starts for the
// OTHER branches sharing the same group).
func pureLiteral(branch string) ([]byte, bool) {
	for i := 0; i < len(branch); i++ {
		if !isPlainLiteralByte(branch[i]) {
			return nil, false
		}
	}
	if hasQuantifierAt(branch, len(branch)) {
		return nil, false
	}
	return []byte(branch), len(branch) > 0
}

func isPlainLiteralByte(b byte) bool {
	for i := 0; i < len(literalStopBytes); i++ {
		if b == literalStopBytes[i] {
			return false
		}
	}
	return true
}

func hasQuantifierAt(pattern string, pos int) bool {
	if pos >= len(pattern) {
		return false
	}
	switch pattern[pos] {
	case '*', '+', '?', '{':
		return true
	}
	return false
}
