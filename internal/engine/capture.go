package engine

// captureRecord is one capturing group's last successful match: a span
// into the single input string the top-level call was given. Keyed by
// the group's groupStart (the same pattern position used as the key in
// the alternative-segment table), except slot 0, reserved for the
// whole match and filled directly by the driver.
type captureRecord struct {
	groupStart int
	valid      bool
	from, to   int // [from, to) into the input
}

type captureTable struct {
	whole   captureRecord // slot 0: the whole match
	records []captureRecord
	limit   int // capturing groups beyond slot 0
}

func newCaptureTable(limit int) *captureTable {
	return &captureTable{records: make([]captureRecord, 0, limit), limit: limit}
}

func (t *captureTable) reset() {
	t.whole = captureRecord{}
	t.records = t.records[:0]
}

// save overwrites (or appends) the slot for groupStart with [from, to).
// Later calls for the same groupStart win: last-match-wins semantics.
func (t *captureTable) save(groupStart, from, to int) error {
	for i := range t.records {
		if t.records[i].groupStart == groupStart {
			t.records[i].from, t.records[i].to, t.records[i].valid = from, to, true
			return nil
		}
	}
	if len(t.records) >= t.limit {
		return fatalf(StatusCapsOverflow, groupStart)
	}
	t.records = append(t.records, captureRecord{groupStart: groupStart, valid: true, from: from, to: to})
	return nil
}

// removeAt invalidates every slot whose key is >= patPos: those groups
// are about to be rediscovered by a backtrack or branch switch, and
// their previous content no longer reflects the path being tried.
func (t *captureTable) removeAt(patPos int) {
	for i := range t.records {
		if t.records[i].groupStart >= patPos {
			t.records[i].valid = false
		}
	}
}

// get returns the last recorded span for groupStart, if that group
// participated in the match.
func (t *captureTable) get(groupStart int) (from, to int, ok bool) {
	for i := range t.records {
		if t.records[i].groupStart == groupStart && t.records[i].valid {
			return t.records[i].from, t.records[i].to, true
		}
	}
	return 0, 0, false
}

// count returns the number of capturing groups (beyond slot 0) that
// currently hold a valid span.
func (t *captureTable) count() int {
	n := 0
	for _, r := range t.records {
		if r.valid {
			n++
		}
	}
	return n
}

func (t *captureTable) setWhole(from, to int) {
	t.whole = captureRecord{valid: true, from: from, to: to}
}

// compact returns the populated slots in pattern order: slot 0 first
// (the whole match), then every still-valid group in ascending
// groupStart order, with unmatched groups simply absent.
func (t *captureTable) compact() []captureRecord {
	out := make([]captureRecord, 0, 1+len(t.records))
	out = append(out, t.whole)

	ordered := make([]captureRecord, 0, len(t.records))
	for _, r := range t.records {
		if r.valid {
			ordered = append(ordered, r)
		}
	}
	for i := 1; i < len(ordered); i++ {
		j := i
		for j > 0 && ordered[j-1].groupStart > ordered[j].groupStart {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
			j--
		}
	}
	return append(out, ordered...)
}
