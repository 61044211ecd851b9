package ports

// Randomizer supplies uniform random indexes.
type Randomizer interface {
	// IntN returns a uniform random int in [0, n). n is always > 0.
	IntN(n int) int
}

// RandomizerFunc adapts a plain function to the Randomizer interface.
type RandomizerFunc func(n int) int

// IntN calls f(n).
func (f RandomizerFunc) IntN(n int) int {
	return f(n)
}
