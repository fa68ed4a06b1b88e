package services

// inbox is a single-slot mailbox for one-shot payloads. take empties the slot, so a
// payload is observed at most once no matter how many recomputes follow.
type inbox[T any] struct {
	payload T
	pending bool
}

// put stores v and reports whether an unconsumed payload was overwritten.
func (b *inbox[T]) put(v T) (replaced bool) {
	replaced = b.pending
	b.payload = v
	b.pending = true
	return replaced
}

func (b *inbox[T]) take() (T, bool) {
	var zero T
	if !b.pending {
		return zero, false
	}
	v := b.payload
	b.payload = zero
	b.pending = false
	return v, true
}

func (b *inbox[T]) discard() {
	var zero T
	b.payload = zero
	b.pending = false
}

func (b *inbox[T]) hasPending() bool { return b.pending }
