package engine

import "testing"

func mustMatch(t *testing.T, pattern, input string, flags Flags) []Capture {
	t.Helper()
	caps, err := Match(pattern, input, flags, DefaultConfig(), 0)
	if err != nil {
		t.Fatalf("Match(%q, %q): unexpected error: %v", pattern, input, err)
	}
	if caps == nil {
		t.Fatalf("Match(%q, %q): expected a match, got none", pattern, input)
	}
	return caps
}

func mustNoMatch(t *testing.T, pattern, input string, flags Flags) {
	t.Helper()
	caps, err := Match(pattern, input, flags, DefaultConfig(), 0)
	if err != nil {
		t.Fatalf("Match(%q, %q): unexpected error: %v", pattern, input, err)
	}
	if caps != nil {
		t.Fatalf("Match(%q, %q): expected no match, got %v", pattern, input, caps)
	}
}

func TestMatch_Literal(t *testing.T) {
	caps := mustMatch(t, "abc", "xxabcyy", 0)
	if caps[0].Start != 2 || caps[0].End != 5 {
		t.Errorf("whole match span = [%d,%d), want [2,5)", caps[0].Start, caps[0].End)
	}
	mustNoMatch(t, "abc", "xxabyy", 0)
}

func TestMatch_Anchors(t *testing.T) {
	mustMatch(t, "^abc$", "abc", 0)
	mustNoMatch(t, "^abc$", "xabc", 0)
	mustNoMatch(t, "^abc$", "abcx", 0)
}

func TestMatch_Quantifiers(t *testing.T) {
	tests := []struct {
		pattern, input string
		want            bool
	}{
		{"ab*c", "ac", true},
		{"ab*c", "abbbbc", true},
		{"ab+c", "ac", false},
		{"ab+c", "abc", true},
		{"ab?c", "ac", true},
		{"ab?c", "abc", true},
		{"ab?c", "abbc", false},
		{"a{2,4}", "aaa", true},
		{"a{2,4}", "a", false},
		{"a{3}", "aaa", true},
		{"a{3}", "aaaa", true}, // leftmost 3 a's still match within a longer run
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			caps, err := Match(tt.pattern, tt.input, 0, DefaultConfig(), 0)
			if err != nil {
				t.Fatalf("Match(%q, %q): unexpected error: %v", tt.pattern, tt.input, err)
			}
			if got := caps != nil; got != tt.want {
				t.Errorf("Match(%q, %q) matched = %v, want %v", tt.pattern, tt.input, got, tt.want)
			}
		})
	}
}

func TestMatch_CharClass(t *testing.T) {
	mustMatch(t, "[a-z]+", "HELLOworld", 0)
	mustMatch(t, "[^0-9]+", "abc", 0)
	mustNoMatch(t, "^[0-9]+$", "abc", 0)
}

func TestMatch_Metaclasses(t *testing.T) {
	mustMatch(t, `\d{3}-\d{4}`, "call 555-1234 now", 0)
	mustMatch(t, `\w+`, "hello_123", 0)
	mustMatch(t, `\s`, "a b", 0)
}

func TestMatch_Alternation(t *testing.T) {
	mustMatch(t, "cat|dog", "I have a dog", 0)
	mustMatch(t, "cat|dog", "I have a cat", 0)
	mustNoMatch(t, "cat|dog", "I have a bird", 0)
}

func TestMatch_Groups(t *testing.T) {
	caps := mustMatch(t, `(\d{3})-(\d{4})`, "555-1234", 0)
	if len(caps) != 3 {
		t.Fatalf("got %d capture slots, want 3", len(caps))
	}
	if s := "555-1234"[caps[1].Start:caps[1].End]; s != "555" {
		t.Errorf("group 1 = %q, want %q", s, "555")
	}
	if s := "555-1234"[caps[2].Start:caps[2].End]; s != "1234" {
		t.Errorf("group 2 = %q, want %q", s, "1234")
	}
}

func TestMatch_NonCapturingGroup(t *testing.T) {
	caps := mustMatch(t, `(?:abc)+(\d+)`, "abcabc123", 0)
	if len(caps) != 2 {
		t.Fatalf("got %d capture slots, want 2 (whole + one capturing group)", len(caps))
	}
}

func TestMatch_RepeatedGroup(t *testing.T) {
	caps := mustMatch(t, `(ab)+`, "ababab", 0)
	// last-iteration-wins: group 1 should hold the final "ab", not the first
	if s := "ababab"[caps[1].Start:caps[1].End]; s != "ab" {
		t.Errorf("group 1 = %q, want %q", s, "ab")
	}
	if caps[1].Start != 4 {
		t.Errorf("group 1 start = %d, want 4 (the last iteration)", caps[1].Start)
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	mustMatch(t, "hello", "HELLO", CaseInsensitive)
	mustNoMatch(t, "hello", "HELLO", 0)
}

func TestMatch_WordBoundary(t *testing.T) {
	mustMatch(t, `\bcat\b`, "a cat sat", 0)
	mustNoMatch(t, `\bcat\b`, "concatenate", 0)
}

func TestMatch_StartAt(t *testing.T) {
	caps, err := Match("abc", "abcabc", 0, DefaultConfig(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caps == nil || caps[0].Start != 3 {
		t.Fatalf("Match with startAt=3: got %v, want a match starting at 3", caps)
	}
}

func TestMatch_SyntaxError(t *testing.T) {
	_, err := Match("a(b", "ab", 0, DefaultConfig(), 0)
	if err == nil {
		t.Fatal("expected a syntax error for unbalanced group")
	}
	fe, ok := err.(*FatalError)
	if !ok {
		t.Fatalf("expected *FatalError, got %T", err)
	}
	if fe.Status != StatusSyntax {
		t.Errorf("Status = %v, want StatusSyntax", fe.Status)
	}
}

func TestMatch_QuantifierError(t *testing.T) {
	_, err := Match("a{3,1}", "aaa", 0, DefaultConfig(), 0)
	if err == nil {
		t.Fatal("expected a quantifier error for a{3,1}")
	}
	fe, ok := err.(*FatalError)
	if !ok {
		t.Fatalf("expected *FatalError, got %T", err)
	}
	if fe.Status != StatusQuantifierErr {
		t.Errorf("Status = %v, want StatusQuantifierErr", fe.Status)
	}
}

func TestMatch_CapsOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCaptures = 2 // whole match + one group
	_, err := Match(`(a)(b)(c)`, "abc", 0, cfg, 0)
	if err == nil {
		t.Fatal("expected a caps overflow error")
	}
	fe, ok := err.(*FatalError)
	if !ok || fe.Status != StatusCapsOverflow {
		t.Fatalf("got %v, want StatusCapsOverflow", err)
	}
}

func TestMatch_RecurseOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 2
	_, err := Match(`((((a))))`, "a", 0, cfg, 0)
	if err == nil {
		t.Fatal("expected a recursion overflow error")
	}
	fe, ok := err.(*FatalError)
	if !ok || fe.Status != StatusRecurseOverflow {
		t.Fatalf("got %v, want StatusRecurseOverflow", err)
	}
}

func TestState_CaptureSpanAndWholeSpan(t *testing.T) {
	groups := CapturingGroups(`(\d{3})-(\d{4})`)
	if len(groups) != 2 {
		t.Fatalf("CapturingGroups returned %d groups, want 2", len(groups))
	}

	st := NewState(`(\d{3})-(\d{4})`, "555-1234", 0, DefaultConfig())
	caps, err := st.Run(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caps == nil {
		t.Fatal("expected a match")
	}

	start, end := st.WholeSpan()
	if "555-1234"[start:end] != "555-1234" {
		t.Errorf("WholeSpan = [%d,%d), want the full input", start, end)
	}

	gs, ge, ok := st.CaptureSpan(groups[0])
	if !ok || "555-1234"[gs:ge] != "555" {
		t.Errorf("CaptureSpan(groups[0]) = [%d,%d) ok=%v, want \"555\"", gs, ge, ok)
	}
	gs, ge, ok = st.CaptureSpan(groups[1])
	if !ok || "555-1234"[gs:ge] != "1234" {
		t.Errorf("CaptureSpan(groups[1]) = [%d,%d) ok=%v, want \"1234\"", gs, ge, ok)
	}
}

func TestState_CaptureSpanAbsentGroup(t *testing.T) {
	groups := CapturingGroups(`(a)|(b)`)
	if len(groups) != 2 {
		t.Fatalf("CapturingGroups returned %d groups, want 2", len(groups))
	}

	st := NewState(`(a)|(b)`, "a", 0, DefaultConfig())
	if caps, err := st.Run(0); err != nil || caps == nil {
		t.Fatalf("Run: caps=%v err=%v, want a match", caps, err)
	}

	if _, _, ok := st.CaptureSpan(groups[0]); !ok {
		t.Error("group 0 (the 'a' branch) should have participated")
	}
	if _, _, ok := st.CaptureSpan(groups[1]); ok {
		t.Error("group 1 (the 'b' branch) should not have participated")
	}
}

func TestCapturingGroups_SkipsNonCapturing(t *testing.T) {
	groups := CapturingGroups(`(?:abc)(def)(?:ghi)(jkl)`)
	if len(groups) != 2 {
		t.Fatalf("CapturingGroups returned %d groups, want 2 (non-capturing groups skipped): %v", len(groups), groups)
	}
}

// seedCapture is one expected capture slot for a TestSeedScenarios case:
// the span it should cover, plus the substring it should hold when it
// does (text is not checked when it is empty).
type seedCapture struct {
	start, end int
	text       string
}

func TestSeedScenarios(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		flags   Flags
		want    bool
		caps    []seedCapture // only checked when want is true
	}{
		{
			name:    "anchored repeated group",
			pattern: `^SPK((?:\s*[+-][VAP])+)$`,
			input:   "spk -v+a",
			flags:   CaseInsensitive | Multiline | Singleline,
			want:    true,
			caps: []seedCapture{
				{0, 8, "spk -v+a"},
				{3, 8, " -v+a"},
			},
		},
		{
			name:    "alternation under a quantified group",
			pattern: `(a|b)*c`,
			input:   "abc",
			flags:   CaseInsensitive | Singleline,
			want:    true,
			caps: []seedCapture{
				{0, 3, "abc"},
				{1, 2, "b"},
			},
		},
		{
			name:    "star followed by a choice point",
			pattern: `(a*)(a|aa)`,
			input:   "aaaa",
			flags:   CaseInsensitive | Singleline,
			want:    true,
			caps: []seedCapture{
				{0, 4, ""},
				{0, 3, "aaa"},
				{3, 4, "a"},
			},
		},
		{
			name:    "class star, last-iteration-wins capture",
			pattern: `([abc])*bcd`,
			input:   "abcd",
			flags:   CaseInsensitive | Singleline,
			want:    true,
			caps: []seedCapture{
				{0, 4, ""},
				{0, 1, "a"},
			},
		},
		{
			name:    "top-level alternation under multiline anchors",
			pattern: `^123$|^456`,
			input:   "asd\n123\raaa",
			flags:   CaseInsensitive | Multiline | Singleline,
			want:    true,
			caps: []seedCapture{
				{4, 7, "123"},
			},
		},
		{
			name:    "dot loses its meaning inside a class",
			pattern: `[.]`,
			input:   "a",
			flags:   Singleline,
			want:    false,
		},
		{
			name:    "three-way alternation, third branch wins",
			pattern: `a(b)|c(d)|a(e)f`,
			input:   "aef",
			flags:   CaseInsensitive | Singleline,
			want:    true,
			caps: []seedCapture{
				{0, 3, ""},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			caps, err := Match(tt.pattern, tt.input, tt.flags, DefaultConfig(), 0)
			if err != nil {
				t.Fatalf("Match(%q, %q): unexpected error: %v", tt.pattern, tt.input, err)
			}
			if (caps != nil) != tt.want {
				t.Fatalf("Match(%q, %q) matched = %v, want %v", tt.pattern, tt.input, caps != nil, tt.want)
			}
			if !tt.want {
				return
			}
			for i, want := range tt.caps {
				if i >= len(caps) {
					t.Errorf("slot %d missing from result %v", i, caps)
					continue
				}
				got := caps[i]
				if got.Start != want.start || got.End != want.end {
					t.Errorf("slot %d span = [%d,%d), want [%d,%d)", i, got.Start, got.End, want.start, want.end)
					continue
				}
				if want.text != "" && tt.input[got.Start:got.End] != want.text {
					t.Errorf("slot %d text = %q, want %q", i, tt.input[got.Start:got.End], want.text)
				}
			}
		})
	}
}

func TestState_DiagnosticAccessors(t *testing.T) {
	st := NewState(`(\d+)-(\d+)`, "42-17", 0, DefaultConfig())
	if caps, err := st.Run(0); err != nil || caps == nil {
		t.Fatalf("Run: caps=%v err=%v, want a match", caps, err)
	}
	if got := st.Status(); got != StatusOK {
		t.Errorf("Status() = %v, want StatusOK", got)
	}
	if got := st.ErrorOffset(); got != 0 {
		t.Errorf("ErrorOffset() = %d, want 0 after a clean match", got)
	}
	if got := st.CaptureCount(); got != 2 {
		t.Errorf("CaptureCount() = %d, want 2", got)
	}

	cfg := DefaultConfig()
	cfg.MaxDepth = 2
	bad := NewState(`((((a))))`, "a", 0, cfg)
	if _, err := bad.Run(0); err == nil {
		t.Fatal("expected a recursion overflow error")
	}
	if got := bad.Status(); got != StatusRecurseOverflow {
		t.Errorf("Status() = %v, want StatusRecurseOverflow", got)
	}
	if got := bad.ErrorOffset(); got == 0 {
		t.Errorf("ErrorOffset() = %d, want the offset the overflow was hit at", got)
	}
}

func TestMatch_Reuse(t *testing.T) {
	st := NewState("a+", "xxaaayy", 0, DefaultConfig())
	caps, err := st.Run(0)
	if err != nil || caps == nil {
		t.Fatalf("first Run: caps=%v err=%v", caps, err)
	}
	if caps[0].Start != 2 || caps[0].End != 5 {
		t.Errorf("first Run span = [%d,%d), want [2,5)", caps[0].Start, caps[0].End)
	}

	caps, err = st.Run(0)
	if err != nil || caps == nil {
		t.Fatalf("second Run: caps=%v err=%v", caps, err)
	}
	if caps[0].Start != 2 || caps[0].End != 5 {
		t.Errorf("second Run span = [%d,%d), want [2,5) (tables must reset between Run calls)", caps[0].Start, caps[0].End)
	}
}
