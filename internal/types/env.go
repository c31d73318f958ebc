package types

// Ident is the minimal identity the typing context keys on: just the
// process-unique token, never the surface name (see Ident in
// package resolve — names are informational, tokens are semantic).
type Ident = string

// TypingContext maps a NameIdentifier token to its Scheme. It is read-only
// during inference after each binder insertion: the checker pushes a
// binding before descending into a sub-expression and the caller is
// responsible for any shadow/pop discipline (Go's garbage collector means
// we can just keep the old map around rather than mutate-and-restore).
type TypingContext struct {
	parent *TypingContext
	name   Ident
	scheme Scheme
}

// NewTypingContext returns the empty context.
func NewTypingContext() *TypingContext {
	return nil
}

// Extend returns a new context with name bound to scheme, shadowing any
// existing binding of the same name without mutating the receiver.
func (c *TypingContext) Extend(name Ident, scheme Scheme) *TypingContext {
	return &TypingContext{parent: c, name: name, scheme: scheme}
}

// Lookup searches innermost-first.
func (c *TypingContext) Lookup(name Ident) (Scheme, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.scheme, true
		}
	}
	return Scheme{}, false
}
