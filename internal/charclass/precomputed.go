package charclass

import "sync"

// Precomputed, process-wide character classes. These back \w, \d, \s
// and the default (non-singleline) meaning of `.`.
var (
	Word       Set // [A-Za-z0-9_]
	Digit      Set // [0-9]
	Whitespace Set // [ \t\r\n\v\f]
	DotAny     Set // every byte except 0
)

var initOnce sync.Once

// Init builds the four precomputed bitmaps. It is idempotent: calling
// it more than once, or not at all, has no observable effect, since the
// package's init() function already runs it once at program startup.
// It is exported only to mirror the reference library's explicit
// one-shot setup call (MxRegex_init); Go callers do not need to invoke
// it themselves.
func Init() {
	initOnce.Do(buildPrecomputed)
}

func buildPrecomputed() {
	Word.Reset()
	Word.AddRange('A', 'Z')
	Word.AddRange('a', 'z')
	Word.AddRange('0', '9')
	Word.Add('_')

	Digit.Reset()
	Digit.AddRange('0', '9')

	Whitespace.Reset()
	Whitespace.AddString(" \t\r\n\v\f")

	DotAny.Reset()
	DotAny.Complement() // all-zero, complemented -> every byte but 0
}

func init() {
	Init()
}
