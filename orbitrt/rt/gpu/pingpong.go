package gpu

// PingPong is a pair of interchangeable targets with an explicit read index.
// Write always names the element Read does not.
type PingPong[T any] struct {
	items [2]T
	read  int
}

// NewPingPong returns a pair reading from a.
func NewPingPong[T any](a, b T) PingPong[T] {
	return PingPong[T]{items: [2]T{a, b}}
}

func (p *PingPong[T]) Read() T        { return p.items[p.read] }
func (p *PingPong[T]) Write() T       { return p.items[1-p.read] }
func (p *PingPong[T]) ReadIndex() int { return p.read }

// Toggle swaps the roles after a pass has written Write.
func (p *PingPong[T]) Toggle() { p.read = 1 - p.read }

// Reset points Read back at the first element.
func (p *PingPong[T]) Reset() { p.read = 0 }

// At returns element i (0 or 1).
func (p *PingPong[T]) At(i int) T { return p.items[i&1] }

// Each calls fn for both elements.
func (p *PingPong[T]) Each(fn func(i int, v T)) {
	fn(0, p.items[0])
	fn(1, p.items[1])
}
