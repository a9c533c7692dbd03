package engine

// segmentState is one active nesting level: the whole pattern at depth
// 0, or one group's body at a deeper depth. The fixed-depth array that
// holds these (see State.segs) is itself the recursion stack the
// design notes describe as an alternative to relying on the Go call
// stack; this implementation uses both, indexing the array by the
// depth that natural function recursion is already at.
type segmentState struct {
	patBase, patCur int
	inBase, inCur   int
	capBase         int

	segOcc int // successful iterations of this group so far

	isCapturing bool
	parseFailed bool
	enoughOcc   bool // segOcc has reached the group quantifier's min at least once
	iterConsumed bool // an input byte was consumed somewhere in the current iteration
}

// outcome is what a matchSegment call reports to its caller. Fatal
// conditions are never folded into this type: they propagate as a
// *FatalError instead, short-circuiting every enclosing level without
// further table mutation, exactly as the design calls for.
type outcome int

const (
	outNoMatch outcome = iota
	outMatch
)

// stepResult is returned by the handlers that may either conclude this
// segment's match attempt (done) or ask the caller to loop and try the
// next tick (!done) — the idiomatic stand-in for the reference
// design's direct jumps back to the top of the matching loop.
type stepResult struct {
	done    bool
	outcome outcome
}

var retry = stepResult{}

func finish(o outcome) stepResult {
	return stepResult{done: true, outcome: o}
}

// State holds everything one Match/Find call needs: the immutable
// pattern and input, the three bookkeeping tables, and the fixed-depth
// segment stack. Match builds one State per call; a caller may also
// keep a State and call Run on it again, which resets the tables
// first. A State is not safe for concurrent use.
type State struct {
	pattern string
	input   string
	flags   Flags

	parser *parser

	backtrack *backtrackTable
	altseg    *altSegmentTable
	captures  *captureTable

	segs []segmentState

	maxDepth     int
	iterateCount int
	maxIterate   int

	lastStatus Status
	lastOffset int
}

func newState(pattern, input string, flags Flags, cfg Config) *State {
	return &State{
		pattern:    pattern,
		input:      input,
		flags:      flags,
		parser:     newParser(pattern, flags&CaseInsensitive != 0),
		backtrack:  newBacktrackTable(cfg.MaxBacktrack),
		altseg:     newAltSegmentTable(cfg.MaxAltSegments),
		captures:   newCaptureTable(cfg.MaxCaptures - 1), // MaxCaptures counts slot 0, the table holds only the groups after it
		segs:       make([]segmentState, cfg.MaxDepth),
		maxDepth:   cfg.MaxDepth,
		maxIterate: cfg.MaxIterate,
	}
}

func (m *State) enterBranch(seg *segmentState) {
	if base, ok := m.altseg.get(seg.patBase); ok {
		seg.patCur = base
	} else {
		// no alternative recorded for this segment: restart its own parse
		// from the top, mirroring mxRegex.cpp's BR_RETRY fallback
		// (regexParseP = segmentP->regexP) when AltSegmGet finds nothing
		seg.patCur = seg.patBase
	}
}

// matchSegment runs the state machine for one nesting level until it
// can report MATCH or NO_MATCH to its caller, or a fatal error aborts
// the whole call. depth 0 is the entry point the driver calls; deeper
// depths are entered once per '(' the enclosing level encounters.
func (m *State) matchSegment(depth int) (outcome, error) {
	seg := &m.segs[depth]
	m.enterBranch(seg)

	for {
		m.iterateCount++
		if m.iterateCount > m.maxIterate {
			return outNoMatch, fatalf(StatusMaxIterateOverflow, seg.patCur)
		}

		if seg.patCur >= len(m.pattern) {
			if depth == 0 {
				return outMatch, nil
			}
			return outNoMatch, fatalf(StatusSyntax, seg.patCur)
		}

		a, nextPos, err := m.parser.next(seg.patCur)
		if err != nil {
			return outNoMatch, err
		}
		// the parse cursor always moves past the atom just parsed before
		// any handler runs, win or lose; a handler that needs to resume
		// somewhere else (a loop back to patBase, a branch jump) resets
		// this itself
		seg.patCur = nextPos

		var res stepResult
		switch a.kind {
		case atomAlternate:
			if depth == 0 {
				return outMatch, nil
			}
			res, err = m.handlePipe(depth, nextPos)

		case atomGroupClose:
			res, err = m.handleGroupClose(depth, a)

		case atomGroupOpen:
			res, err = m.handleGroupOpen(depth, a)

		case atomAnchorBOL, atomAnchorEOL, atomWordBoundary, atomNonWordBoundary:
			if m.testAnchor(a.kind, seg) {
				res = retry
			} else {
				res, err = m.handleSegmentFail(depth)
			}

		case atomChar, atomClass:
			res, err = m.handleRepeatingAtom(depth, a, nextPos)
		}

		if err != nil {
			return outNoMatch, err
		}
		if res.done {
			return res.outcome, nil
		}
	}
}

// handleRepeatingAtom drives the greedy repeat loop for one CHAR or
// CLASS atom: it consumes matching input bytes until the quantifier's
// effective max is reached or a byte fails to match.
func (m *State) handleRepeatingAtom(depth int, a atom, nextPos int) (stepResult, error) {
	seg := &m.segs[depth]
	isChoice := a.min < a.max
	if isChoice {
		if err := m.backtrack.add(nextPos); err != nil {
			return stepResult{}, err
		}
	}

	atomOcc := 0
	effectiveMax := a.max

	for {
		forced := false
		if isChoice {
			if slot, ok := m.backtrack.get(nextPos); ok {
				if slot.maxOcc == 0 {
					forced = true
				} else if slot.maxOcc != maxOccCap && slot.maxOcc < effectiveMax {
					effectiveMax = slot.maxOcc
				}
			}
		}

		matched := false
		if !forced && seg.inCur < len(m.input) {
			matched = m.atomMatches(a, m.input[seg.inCur])
		}

		if matched {
			atomOcc++
			seg.inCur++
			seg.iterConsumed = true
			if atomOcc < effectiveMax {
				continue
			}
			if isChoice {
				if slot, ok := m.backtrack.get(nextPos); ok {
					slot.maxOcc = atomOcc
				}
			}
			return retry, nil
		}

		// a byte failed to match: no more occurrences than atomOcc are
		// reachable down this path, so clamp the choice point's ceiling
		// now, but only when more than the atom's minimum occurred; at or
		// below the minimum the slot is left untouched
		if isChoice && a.min < atomOcc {
			if slot, ok := m.backtrack.get(nextPos); ok {
				slot.maxOcc = atomOcc
			}
		}

		if atomOcc >= a.min {
			return retry, nil
		}
		return m.handleSegmentFail(depth)
	}
}

func (m *State) atomMatches(a atom, b byte) bool {
	if m.flags&CaseInsensitive != 0 {
		b = upperByte(b)
	}
	switch a.kind {
	case atomChar:
		return b == a.char
	case atomClass:
		if a.isDotAny && m.flags&Singleline == 0 && (b == '\r' || b == '\n') {
			return false
		}
		return a.class.Contains(b)
	}
	return false
}

func (m *State) testAnchor(kind atomKind, seg *segmentState) bool {
	multiline := m.flags&Multiline != 0

	switch kind {
	case atomAnchorBOL:
		if seg.inCur == 0 {
			return true
		}
		if multiline {
			prev := m.input[seg.inCur-1]
			if prev == '\r' || prev == '\n' {
				return true
			}
		}
		return false

	case atomAnchorEOL:
		if seg.inCur >= len(m.input) {
			return true
		}
		if multiline {
			next := m.input[seg.inCur]
			if next == '\r' || next == '\n' {
				return true
			}
		}
		return false

	case atomWordBoundary, atomNonWordBoundary:
		var transition bool
		if seg.inCur == seg.inBase {
			transition = true // leftmost of segment: treat \b as true, \B as false
		} else {
			left := isWordByte(m.input[seg.inCur-1])
			right := seg.inCur < len(m.input) && isWordByte(m.input[seg.inCur])
			transition = left != right
		}
		if kind == atomWordBoundary {
			return transition
		}
		return !transition
	}
	return false
}

func (m *State) handleGroupOpen(depth int, a atom) (stepResult, error) {
	if depth+1 >= m.maxDepth {
		return stepResult{}, fatalf(StatusRecurseOverflow, a.start)
	}
	seg := &m.segs[depth]
	child := &m.segs[depth+1]
	*child = segmentState{
		patBase:     a.groupStart,
		patCur:      a.groupStart,
		inBase:      seg.inCur,
		inCur:       seg.inCur,
		capBase:     seg.inCur,
		isCapturing: a.isCapturing,
	}

	childOutcome, err := m.matchSegment(depth + 1)
	if err != nil {
		return stepResult{}, err
	}
	// the parent's resume position always follows the child's, win or
	// lose: a failed nested group leaves its own internal scan position
	// behind for the parent's own alt-segment search to continue from
	seg.patCur = child.patCur
	if childOutcome == outMatch {
		seg.inCur = child.inCur
		seg.iterConsumed = seg.iterConsumed || child.inCur != child.inBase
		return retry, nil
	}
	return m.handleSegmentFail(depth)
}

// handlePipe is reached when a '|' is encountered at depth > 0: the
// current branch just matched everything up to here, so the remaining
// alternatives are skipped by jumping straight to this group's closing
// paren and following the GROUP_CLOSE path from there.
func (m *State) handlePipe(depth, nextPos int) (stepResult, error) {
	seg := &m.segs[depth]
	if seg.isCapturing {
		if err := m.captures.save(seg.patBase, seg.capBase, seg.inCur); err != nil {
			return stepResult{}, err
		}
	}
	if err := m.altseg.add(seg.patBase, nextPos); err != nil {
		return stepResult{}, err
	}

	closePos, found := scanForClose(m.pattern, nextPos)
	if !found {
		return stepResult{}, fatalf(StatusSyntax, nextPos)
	}
	closeAtom, afterClose, err := m.parser.withQuantifier(atom{kind: atomGroupClose, start: closePos}, closePos+1)
	if err != nil {
		return stepResult{}, err
	}
	// the jump to the close skips the main loop's own cursor advance, so
	// it has to be done here instead, the same way mxRegex.cpp advances
	// regexParseP past the quantifier before its own goto BR_BRACKETCLOSE
	seg.patCur = afterClose
	return m.handleGroupClose(depth, closeAtom)
}

// handleGroupClose implements the shared GROUP_CLOSE logic reached
// either directly (a ')' atom) or via the pipe-to-close jump.
func (m *State) handleGroupClose(depth int, a atom) (stepResult, error) {
	seg := &m.segs[depth]
	isChoice := a.min < a.max
	if isChoice {
		if err := m.backtrack.add(a.end); err != nil {
			return stepResult{}, err
		}
	}

	slot, hasSlot := m.backtrack.get(a.end)

	if isChoice && hasSlot && slot.maxOcc == 0 {
		// this close already exhausted every occurrence count a prior
		// backtrack left it: fail outright, no occurrence check
		return finish(outNoMatch), nil
	}

	if seg.parseFailed {
		if seg.segOcc >= a.min {
			if hasSlot {
				slot.maxOcc = seg.segOcc
			}
			seg.inCur = seg.capBase // drop the failed final iteration
			return finish(outMatch), nil
		}
		return finish(outNoMatch), nil
	}

	// a successful group iteration
	if seg.isCapturing {
		if err := m.captures.save(seg.patBase, seg.capBase, seg.inCur); err != nil {
			return stepResult{}, err
		}
	}
	seg.segOcc++

	effectiveMax := a.max
	if hasSlot && slot.maxOcc != maxOccCap && slot.maxOcc < effectiveMax {
		effectiveMax = slot.maxOcc
	}

	if seg.segOcc >= effectiveMax {
		return finish(outMatch), nil
	}
	if !seg.iterConsumed {
		// no input consumed this iteration: stop now, or a pattern like
		// ([ab]*)* loops forever without making progress
		return finish(outMatch), nil
	}
	if seg.segOcc >= a.min {
		seg.enoughOcc = true
		seg.inBase = seg.inCur
	}
	seg.capBase = seg.inBase
	seg.patCur = seg.patBase
	seg.iterConsumed = false
	return retry, nil
}

// handleSegmentFail is the shared failure path: an atom, anchor or
// nested group failed to match and min occurrences were not yet
// reached. It looks for another branch to try, then for enclosing
// choice points to retry with fewer occurrences, and at depth 0 only,
// slides the overall match attempt forward by one input byte.
func (m *State) handleSegmentFail(depth int) (stepResult, error) {
	seg := &m.segs[depth]

	ch, pos, found := scanForBranchOrClose(m.pattern, seg.patCur)

	if found && ch == '|' {
		if err := m.altseg.add(seg.patBase, pos+1); err != nil {
			return stepResult{}, err
		}
		m.altseg.iterate(seg.patBase)
		seg.inCur = seg.inBase
		seg.capBase = seg.inBase
		// seg.patBase+1: a branch switch discards everything nested inside
		// this segment, but not this segment's own capture, which still
		// holds a prior iteration's accepted span that the switch leaves
		// untouched
		m.captures.removeAt(seg.patBase + 1)
		seg.iterConsumed = false
		seg.parseFailed = false
		m.enterBranch(seg)
		return retry, nil
	}

	if found && ch == ')' {
		closeAtom, afterClose, err := m.parser.withQuantifier(atom{kind: atomGroupClose, start: pos}, pos+1)
		if err != nil {
			return stepResult{}, err
		}
		// mirrors mxRegex.cpp's BR_SEGMENT_MATCH_FAIL: advance regexParseP
		// past the quantifier before falling into the shared close logic,
		// since this jump bypasses the main loop's own cursor advance
		seg.patCur = afterClose
		seg.parseFailed = true
		return m.handleGroupClose(depth, closeAtom)
	}

	// pattern exhausted without finding '|' or ')'
	if !seg.enoughOcc {
		if key, ok := m.backtrack.iterate(seg.patBase); ok {
			m.altseg.removeAt(key)
			seg.inCur = seg.inBase
			seg.capBase = seg.inBase
			m.captures.removeAt(seg.patBase + 1)
			seg.iterConsumed = false
			seg.parseFailed = false
			m.enterBranch(seg)
			return retry, nil
		}
	}

	if depth > 0 {
		return finish(outNoMatch), nil
	}

	if m.altseg.changed {
		m.altseg.changed = false
		if m.altseg.iterate(seg.patBase) {
			m.captures.removeAt(seg.patBase + 1)
			seg.inCur = seg.inBase
			seg.capBase = seg.inBase
			seg.iterConsumed = false
			m.enterBranch(seg)
			return retry, nil
		}
	}

	if seg.inBase >= len(m.input) {
		return finish(outNoMatch), nil
	}
	newBase := seg.inBase + 1
	m.backtrack.reset()
	m.altseg.reset()
	m.captures.reset()
	m.iterateCount = 0
	*seg = segmentState{patBase: 0, patCur: 0, inBase: newBase, inCur: newBase, capBase: newBase}
	return retry, nil
}

// scanForBranchOrClose finds the next '|' or ')' belonging to the
// current nesting level starting at from, skipping escapes and the
// bodies of nested groups. Unlike the atom parser it does not special-
// case '[...]' classes: a stray ')' or '|' inside one still counts as
// real punctuation here, matching how the class body is (not) skipped
// during this scan.
func scanForBranchOrClose(pattern string, from int) (ch byte, pos int, found bool) {
	depth := 0
	i := from
	for i < len(pattern) {
		switch pattern[i] {
		case '\\':
			i += 2
		case '(':
			depth++
			i++
		case ')':
			if depth == 0 {
				return ')', i, true
			}
			depth--
			i++
		case '|':
			if depth == 0 {
				return '|', i, true
			}
			i++
		default:
			i++
		}
	}
	return 0, i, false
}

// scanForClose is scanForBranchOrClose restricted to ')', used when a
// pipe has already been consumed and only the matching close matters.
func scanForClose(pattern string, from int) (pos int, found bool) {
	ch, pos, found := scanForBranchOrClose(pattern, from)
	if found && ch == ')' {
		return pos, true
	}
	// a '|' found first at this nesting still bounds a valid close
	// further on; keep scanning past it
	for found && ch == '|' {
		ch, pos, found = scanForBranchOrClose(pattern, pos+1)
	}
	return pos, found && ch == ')'
}
