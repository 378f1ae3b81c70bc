// Package prng provides the small seeded generator used for image pairing and
// per-cell tile selection. Generators are plain values: creating one per grid
// lookup is cheap and no state is shared between instances.
package prng

// Mulberry32 is a 32-bit state generator. The same seed always yields the same
// sequence.
type Mulberry32 struct {
	state uint32
}

// New returns a generator seeded with seed.
func New(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Next returns the next value in [0, 1).
func (m *Mulberry32) Next() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296.0
}

// Intn returns floor(Next()*n). n <= 0 returns 0 without consuming a draw.
func (m *Mulberry32) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(m.Next() * float64(n))
}

// Spatial hash multipliers; large odd primes decorrelate neighbouring cells.
const (
	cellPrimeX = 73856093
	cellPrimeY = 19349663
)

// CellSeed derives the per-cell seed for grid coordinate (x, y).
func CellSeed(x, y int) uint32 {
	return uint32(abs64(int64(x)*cellPrimeX)) ^ uint32(abs64(int64(y)*cellPrimeY))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
