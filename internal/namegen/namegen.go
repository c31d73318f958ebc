// Package namegen provides the prefix+counter gensym every pass in this
// compiler needs for its own namespace of fresh names: the resolver's
// NameIdentifier tokens, the type checker's fresh type variables, the KNF
// pass's let-bound temporaries, the closure converter's lifted global
// names, and the C emitter's temporaries. Each pass owns exactly one
// Generator instance; counters are never shared across passes or across
// pipeline runs (spec.md §5).
package namegen

import "fmt"

// Generator produces an unbounded stream of names prefix+0, prefix+1, ...
type Generator struct {
	prefix  string
	counter int
}

// New returns a Generator that will yield prefix0, prefix1, ...
func New(prefix string) *Generator {
	return &Generator{prefix: prefix}
}

// Next returns the next fresh name and advances the counter.
func (g *Generator) Next() string {
	name := fmt.Sprintf("%s%d", g.prefix, g.counter)
	g.counter++
	return name
}

// Count returns how many names have been generated so far.
func (g *Generator) Count() int { return g.counter }
