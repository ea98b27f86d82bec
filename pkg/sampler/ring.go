package sampler

// ring is a fixed-capacity FIFO of engineering-unit readings. Pushing into a
// full ring overwrites the oldest entry; the valid-entry count saturates at
// capacity and never decreases until reset.
type ring struct {
	buf   []uint8
	head  int
	count int
}

func newRing(n int) *ring {
	if n < 1 {
		n = 1
	}
	return &ring{buf: make([]uint8, n)}
}

func (r *ring) len() int { return r.count }

func (r *ring) cap() int { return len(r.buf) }

func (r *ring) push(v uint8) {
	r.buf[r.head] = v
	r.head++
	if r.head >= len(r.buf) {
		r.head = 0
	}
	if r.count < len(r.buf) {
		r.count++
	}
}

// mean returns the truncating integer mean over the valid entries, or 0 when
// the ring is empty.
func (r *ring) mean() uint8 {
	if r.count == 0 {
		return 0
	}
	var acc uint32
	for i := 0; i < r.count; i++ {
		acc += uint32(r.buf[i])
	}
	return uint8(acc / uint32(r.count))
}

func (r *ring) reset() {
	r.head = 0
	r.count = 0
}
