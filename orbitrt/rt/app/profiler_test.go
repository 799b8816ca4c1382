package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time          { return f.t }
func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestProfilerSmoothing(t *testing.T) {
	clock := &fakeNow{t: time.Unix(0, 0)}
	p := NewProfiler()
	p.now = clock.now

	p.Begin("render")
	clock.advance(10 * time.Millisecond)
	p.End("render")
	assert.Equal(t, 10*time.Millisecond, p.Duration("render"), "first sample is taken as is")

	p.Begin("render")
	clock.advance(20 * time.Millisecond)
	p.End("render")
	assert.Equal(t, 11*time.Millisecond, p.Duration("render"))
}

func TestProfilerScopeAndOrder(t *testing.T) {
	clock := &fakeNow{t: time.Unix(0, 0)}
	p := NewProfiler()
	p.now = clock.now

	func() {
		defer p.Scope("update")()
		clock.advance(time.Millisecond)
	}()
	func() {
		defer p.Scope("render")()
		clock.advance(2 * time.Millisecond)
	}()
	p.SetCount("visible", 42)
	p.SetCount("beams", 7)

	lines := p.Lines()
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "update")
	assert.Contains(t, lines[0], "1.00 ms")
	assert.Contains(t, lines[1], "render")
	assert.Contains(t, lines[2], "beams")
	assert.Contains(t, lines[3], "42")
}

func TestProfilerUnmatchedEnd(t *testing.T) {
	p := NewProfiler()
	p.End("never")
	assert.Zero(t, p.Duration("never"))

	p.Begin("open")
	assert.Zero(t, p.Duration("open"), "an open scope has no duration yet")
}
