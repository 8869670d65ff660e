// Package dice provides the randomness sources consumed by the combat engine
// and the simulation harness.
package dice

// Source is the randomness provider for fights.
//
// Implementations returned by NewCryptoSource are safe for concurrent use.
// Seeded sources are not; give every fight or worker its own.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}
