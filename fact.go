package kessot

// Fact is a tuple: a mapping from role atom to value atom. A ground fact
// (one actually stored by a Concept) never has a variable-valued role; a
// rule head or subgoal clause reuses the same type but may hold
// variables. order records role insertion order so that persistence and
// snapshot dumps list roles deterministically rather than in Go's map
// iteration order.
type Fact struct {
	args  map[Atom]Atom
	order []Atom
}

// newFact builds a Fact from role/value atom pairs in the given order.
// A repeated role overwrites the earlier value but keeps its original
// position — roles are unique within a tuple.
func newFact(pairs ...[2]Atom) *Fact {
	f := &Fact{
		args:  make(map[Atom]Atom, len(pairs)),
		order: make([]Atom, 0, len(pairs)),
	}
	for _, p := range pairs {
		if _, exists := f.args[p[0]]; !exists {
			f.order = append(f.order, p[0])
		}
		f.args[p[0]] = p[1]
	}
	return f
}

// roles returns the fact's role atoms in insertion order.
func (f *Fact) roles() []Atom {
	roles := make([]Atom, len(f.order))
	copy(roles, f.order)
	return roles
}

// value returns the value bound to role, and whether role is present.
func (f *Fact) value(role Atom) (Atom, bool) {
	v, ok := f.args[role]
	return v, ok
}

// match reports whether every role in constraint is present in f with an
// equal value. f may carry additional roles not named in constraint. A
// variable-valued field in f is treated as a wildcard,
// matching any probed value: that case only arises for a rule's own head
// or subgoal clauses, never for a ground fact, since match is by atom
// identity and variables are interned atoms like any other.
func (f *Fact) match(table *atomTable, constraint map[Atom]Atom) bool {
	for role, want := range constraint {
		got, ok := f.args[role]
		if !ok {
			return false
		}
		if got == want {
			continue
		}
		if table.isVariable(got) {
			continue
		}
		return false
	}
	return true
}

// project returns the value for each requested role, or bottom if the
// role is absent from the fact.
func (f *Fact) project(targets []Atom) map[Atom]Atom {
	result := make(map[Atom]Atom, len(targets))
	for _, t := range targets {
		if v, ok := f.args[t]; ok {
			result[t] = v
		} else {
			result[t] = bottom
		}
	}
	return result
}
