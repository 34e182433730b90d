package engine

// rng is an inline xorshift64 generator. All engine randomness (deck
// shuffles, turn-order permutation, per-hand seeds) flows through one of
// these, seeded explicitly so games can be replayed deterministically.
type rng struct {
	state uint64
}

func newRNG(seed uint64) *rng {
	if seed == 0 {
		seed = 1 // xorshift can't start at 0
	}
	return &rng{state: seed}
}

func (r *rng) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// intn returns a random number in [0, n).
func (r *rng) intn(n int) int {
	return int(r.next() % uint64(n))
}

// shuffle performs a single Fisher-Yates pass over n elements.
func (r *rng) shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.intn(i + 1)
		swap(i, j)
	}
}
