package engine

// Flags mirrors the public Mode bitmask one level down, so the engine
// package has no dependency on the root package's API surface.
type Flags uint8

const (
	CaseInsensitive Flags = 1 << iota
	Multiline
	Singleline
)
