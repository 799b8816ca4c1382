package app

import (
	"fmt"
	"sort"
	"time"
)

// Profiler keeps smoothed CPU timings per named scope plus free-form counters.
type Profiler struct {
	now    func() time.Time
	alpha  float64
	starts map[string]time.Time
	scopes map[string]time.Duration
	counts map[string]int
	order  []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		now:    time.Now,
		alpha:  0.1,
		starts: make(map[string]time.Time),
		scopes: make(map[string]time.Duration),
		counts: make(map[string]int),
	}
}

func (p *Profiler) Begin(name string) {
	if _, known := p.scopes[name]; !known {
		p.order = append(p.order, name)
		p.scopes[name] = -1
	}
	p.starts[name] = p.now()
}

func (p *Profiler) End(name string) {
	start, ok := p.starts[name]
	if !ok {
		return
	}
	delete(p.starts, name)
	d := p.now().Sub(start)
	prev := p.scopes[name]
	if prev < 0 {
		p.scopes[name] = d
		return
	}
	p.scopes[name] = prev + time.Duration(p.alpha*float64(d-prev))
}

// Scope begins name and returns the matching End, for use with defer.
func (p *Profiler) Scope(name string) func() {
	p.Begin(name)
	return func() { p.End(name) }
}

// Duration returns the smoothed time of a scope, zero if it never completed.
func (p *Profiler) Duration(name string) time.Duration {
	return max(p.scopes[name], 0)
}

func (p *Profiler) SetCount(name string, n int) {
	p.counts[name] = n
}

// Lines renders timings in first-use order, then counters sorted by name.
func (p *Profiler) Lines() []string {
	out := make([]string, 0, len(p.order)+len(p.counts))
	for _, name := range p.order {
		ms := float64(p.Duration(name).Microseconds()) / 1000
		out = append(out, fmt.Sprintf("%-12s %6.2f ms", name, ms))
	}
	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%-12s %d", k, p.counts[k]))
	}
	return out
}
