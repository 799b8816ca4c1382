package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPingPongToggle(t *testing.T) {
	p := NewPingPong("a", "b")
	assert.Equal(t, "a", p.Read())
	assert.Equal(t, "b", p.Write())

	p.Toggle()
	assert.Equal(t, "b", p.Read())
	assert.Equal(t, "a", p.Write())
	assert.Equal(t, 1, p.ReadIndex())

	p.Toggle()
	assert.Equal(t, "a", p.Read())
}

func TestPingPongNeverAliases(t *testing.T) {
	a, b := new(int), new(int)
	p := NewPingPong(a, b)
	for range 5 {
		assert.NotSame(t, p.Read(), p.Write())
		p.Toggle()
	}
}

func TestPingPongBloomSequence(t *testing.T) {
	// threshold, blur H, blur V: each writes Write then toggles.
	p := NewPingPong(0, 1)
	var writes, reads []int
	for range 3 {
		reads = append(reads, p.Read())
		writes = append(writes, p.Write())
		p.Toggle()
	}
	assert.Equal(t, []int{1, 0, 1}, writes)
	assert.Equal(t, []int{0, 1, 0}, reads)
	assert.Equal(t, 1, p.Read(), "tonemap reads the last blur output")

	p.Reset()
	assert.Equal(t, 0, p.ReadIndex())
}

func TestPingPongEach(t *testing.T) {
	p := NewPingPong("x", "y")
	var got []string
	p.Each(func(i int, v string) { got = append(got, v) })
	assert.Equal(t, []string{"x", "y"}, got)
	assert.Equal(t, "y", p.At(1))
	assert.Equal(t, "x", p.At(2))
}
