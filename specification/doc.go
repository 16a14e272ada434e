// Package specification turns field filters into SQL predicate fragments and
// composes them, together with the joins they need, into a Specification
// that can be applied to a bun select query.
package specification
