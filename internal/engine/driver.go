package engine

// Capture is one reported capture span: a byte-offset range into the
// input string that was passed to Match. Slot 0 is always the whole
// match.
type Capture struct {
	Start, End int
}

// Match runs one top-level match attempt of pattern against input. It
// scans forward through input on its own (the depth-0 segment's own
// failure handler advances the search position one byte at a time),
// so a single call already covers "find a match anywhere in input".
//
// startAt lets a caller that has already located a candidate position
// (e.g. via a literal-prefix prefilter) skip the leading dead zone
// instead of re-discovering it one byte at a time; pass 0 to search
// the whole input.
//
// On success it returns the populated capture slots, in pattern order,
// with slot 0 first. On a plain no-match it returns a nil slice and a
// nil error. A non-nil error is always a *FatalError.
func Match(pattern, input string, flags Flags, cfg Config, startAt int) ([]Capture, error) {
	m := NewState(pattern, input, flags, cfg)
	return m.Run(startAt)
}

// NewState allocates the per-call working state for one pattern/input
// pair: the three bookkeeping tables and the fixed-depth segment stack.
// Match builds one of these per call; a caller driving many matches
// against the same cfg (e.g. re-running a search at successive offsets)
// can build its own and call Run repeatedly to reuse the backing
// arrays instead of paying per-call allocation cost.
func NewState(pattern, input string, flags Flags, cfg Config) *State {
	return newState(pattern, input, flags, cfg)
}

// Run executes one top-level match attempt starting no earlier than
// startAt, the same algorithm Match wraps, against the pattern/input
// this State was built for.
func (m *State) Run(startAt int) ([]Capture, error) {
	m.backtrack.reset()
	m.altseg.reset()
	m.captures.reset()
	m.iterateCount = 0

	seg := &m.segs[0]
	*seg = segmentState{patBase: 0, patCur: 0, inBase: startAt, inCur: startAt, capBase: startAt}

	result, err := m.matchSegment(0)
	if err != nil {
		if fe, ok := err.(*FatalError); ok {
			m.lastStatus = fe.Status
			m.lastOffset = fe.Offset
		}
		return nil, err
	}
	m.lastStatus = StatusOK
	m.lastOffset = 0
	if result == outNoMatch {
		return nil, nil
	}

	m.captures.setWhole(seg.inBase, seg.inCur)
	records := m.captures.compact()

	out := make([]Capture, len(records))
	for i, r := range records {
		if r.valid || i == 0 {
			out[i] = Capture{Start: r.from, End: r.to}
		}
	}
	return out, nil
}

// Status reports the outcome classification of the most recent Run
// call: StatusOK covers both a successful match and a plain no-match,
// matching the package-level Status doc; any other value names the
// fatal condition Run returned an error for.
func (m *State) Status() Status {
	return m.lastStatus
}

// ErrorOffset returns the pattern byte offset recorded for the fatal
// condition reported by Status, zero when Status is StatusOK.
func (m *State) ErrorOffset() int {
	return m.lastOffset
}

// CaptureCount returns how many capturing groups (beyond the implicit
// whole-match slot) participated in the most recent Run.
func (m *State) CaptureCount() int {
	return m.captures.count()
}

// CaptureSpan returns the span a capturing group last matched, keyed
// by its groupStart (see CapturingGroups), valid only after a Run call
// that returned a non-nil result and before the next Run on this
// State. ok is false if that group never participated in the match.
func (m *State) CaptureSpan(groupStart int) (start, end int, ok bool) {
	return m.captures.get(groupStart)
}

// WholeSpan returns the span of the whole match recorded by the most
// recent successful Run, under the same validity rule as CaptureSpan.
func (m *State) WholeSpan() (start, end int) {
	return m.captures.whole.from, m.captures.whole.to
}
