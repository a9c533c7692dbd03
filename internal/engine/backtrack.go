package engine

// backtrackRecord is a choice point: a quantified atom (or a quantified
// group close) that may need to be retried with fewer occurrences once
// everything after it has been exhausted.
type backtrackRecord struct {
	patAt  int // pattern position right after the quantified atom/group
	minOcc int // always 0
	maxOcc int // current ceiling; starts at the maxOccCap sentinel ("no cap yet")
}

// backtrackTable is the fixed-size, linearly-searched table described in
// the engine's design: at most one live record per pattern position.
type backtrackTable struct {
	records []backtrackRecord
	limit   int
}

func newBacktrackTable(limit int) *backtrackTable {
	return &backtrackTable{records: make([]backtrackRecord, 0, limit), limit: limit}
}

func (t *backtrackTable) reset() {
	t.records = t.records[:0]
}

// add registers patAt as a choice point. A second registration at the
// same position is a no-op: the slot already tracks that atom.
func (t *backtrackTable) add(patAt int) error {
	for i := range t.records {
		if t.records[i].patAt == patAt {
			return nil
		}
	}
	if len(t.records) >= t.limit {
		return fatalf(StatusBacktrackOverflow, patAt)
	}
	t.records = append(t.records, backtrackRecord{patAt: patAt, minOcc: 0, maxOcc: maxOccCap})
	return nil
}

// get returns the record keyed by patAt, if any.
func (t *backtrackTable) get(patAt int) (*backtrackRecord, bool) {
	for i := range t.records {
		if t.records[i].patAt == patAt {
			return &t.records[i], true
		}
	}
	return nil, false
}

// iterate looks, among records with key >= fromPat that have actually
// observed an occurrence count (maxOcc != maxOccCap) and still have
// room to retry with fewer occurrences (maxOcc > minOcc), for the one
// with the largest key (the innermost, rightmost choice point). If one
// is found, its ceiling is lowered by one, every record nested inside
// it (strictly greater key) is reset back to the "no cap yet" sentinel
// since it must restart from scratch, and the key is returned so the
// caller can invalidate alternative-segment records at or after it.
func (t *backtrackTable) iterate(fromPat int) (key int, ok bool) {
	best := -1
	for i := range t.records {
		r := &t.records[i]
		if r.patAt < fromPat {
			continue
		}
		if r.maxOcc == maxOccCap {
			continue
		}
		if r.maxOcc <= r.minOcc {
			continue
		}
		if r.patAt > best {
			best = r.patAt
		}
	}
	if best == -1 {
		return 0, false
	}
	for i := range t.records {
		r := &t.records[i]
		if r.patAt == best {
			r.maxOcc--
		} else if r.patAt > best {
			r.maxOcc = maxOccCap
		}
	}
	return best, true
}
