package util

// Pair encapsulates two items paired together — used for the CLI's
// name/build-id summary rows, where a slice of labeled scalars is simpler
// than a one-off named struct.
type Pair[S any, T any] struct {
	Left  S
	Right T
}

// NewPair returns a new Pair by value.
func NewPair[S any, T any](left S, right T) Pair[S, T] {
	return Pair[S, T]{Left: left, Right: right}
}

// Split returns both elements of the pair.
func (p Pair[S, T]) Split() (S, T) {
	return p.Left, p.Right
}
