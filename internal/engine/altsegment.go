package engine

// altSegmentRecord tracks which branch of a `|`-separated segment is
// currently being tried (base) and the next branch discovered so far
// (next), keyed by the pattern position right after the segment's
// opening paren (or pattern start, for the top-level segment).
type altSegmentRecord struct {
	groupStart int
	base       int
	next       int
}

type altSegmentTable struct {
	records []altSegmentRecord
	limit   int
	changed bool // set whenever add or removeAt actually mutates a record
}

func newAltSegmentTable(limit int) *altSegmentTable {
	return &altSegmentTable{records: make([]altSegmentRecord, 0, limit), limit: limit}
}

func (t *altSegmentTable) reset() {
	t.records = t.records[:0]
	t.changed = false
}

func (t *altSegmentTable) find(groupStart int) (*altSegmentRecord, bool) {
	for i := range t.records {
		if t.records[i].groupStart == groupStart {
			return &t.records[i], true
		}
	}
	return nil, false
}

// add records that a `|` branch starting at next was just discovered
// for the segment keyed by groupStart.
func (t *altSegmentTable) add(groupStart, next int) error {
	if r, ok := t.find(groupStart); ok {
		if r.next != next {
			r.base = r.next
			r.next = next
			t.changed = true
		}
		return nil
	}
	if len(t.records) >= t.limit {
		return fatalf(StatusAltSegOverflow, groupStart)
	}
	t.records = append(t.records, altSegmentRecord{groupStart: groupStart, base: groupStart, next: next})
	return nil
}

// get returns the branch currently being tried for groupStart.
func (t *altSegmentTable) get(groupStart int) (int, bool) {
	if r, ok := t.find(groupStart); ok {
		return r.base, true
	}
	return 0, false
}

// removeAt deletes every record whose key is strictly greater than
// patPos: those segments are nested inside whatever just changed and
// must rediscover their branches from scratch.
func (t *altSegmentTable) removeAt(patPos int) {
	kept := t.records[:0]
	removed := false
	for _, r := range t.records {
		if r.groupStart > patPos {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	t.records = kept
	if removed {
		t.changed = true
	}
}

// iterate advances, among records with key >= fromPat that still have
// an undiscovered-but-known next branch (next > base), the one with
// the largest next to that branch, then drops everything nested past
// it. Returns whether a step occurred.
func (t *altSegmentTable) iterate(fromPat int) bool {
	best := -1
	bestNext := 0
	for i := range t.records {
		r := &t.records[i]
		if r.groupStart < fromPat {
			continue
		}
		if r.next <= r.base {
			continue
		}
		if r.next > bestNext {
			best = i
			bestNext = r.next
		}
	}
	if best == -1 {
		return false
	}
	t.records[best].base = t.records[best].next
	t.removeAt(t.records[best].base)
	return true
}
