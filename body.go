package kessot

import (
	"fmt"
	"strings"
	"sync"

	"github.com/despencer/kessot/internal/trace"
)

// Body is a knowledge base: an atom table plus every concept defined in
// it, guarded by a single RWMutex. Queries (Resolve, ResolveStrings,
// Save, DumpYAML) take the read lock and may run concurrently with one
// another; mutations (AddFact, AddRule) take the write lock and run
// exclusively. Load builds a fresh Body that no other goroutine can see
// yet, so it takes no lock.
type Body struct {
	mu sync.RWMutex

	atoms    *atomTable
	concepts map[Atom]*Concept
	order    []Atom // concept action atoms, in first-defined order

	rec *trace.Recorder
}

// NewBody returns an empty Body with tracing disabled.
func NewBody() *Body {
	return &Body{
		atoms:    newAtomTable(),
		concepts: make(map[Atom]*Concept),
	}
}

// NewBodyWithOptions returns an empty Body configured per opts.
// The returned Body's Close must be called once it is no longer needed
// if tracing is enabled, to flush and close its trace file.
func NewBodyWithOptions(opts Options) (*Body, error) {
	b := NewBody()
	if !opts.TraceEnabled {
		return b, nil
	}
	rec, err := trace.NewRecorder(opts.TraceDir)
	if err != nil {
		return nil, fmt.Errorf("kessot: enable tracing: %w", err)
	}
	b.rec = rec
	return b, nil
}

// Close releases resources opened by NewBodyWithOptions. Safe to call on
// a Body built with NewBody, or more than once.
func (b *Body) Close() error {
	if b.rec == nil {
		return nil
	}
	return b.rec.Close()
}

// concept, label and tracer implement the concepts interface consumed by
// resolver.go, giving a rule's subgoals a way back into the owning Body.
func (b *Body) concept(action Atom) (*Concept, bool) {
	c, ok := b.concepts[action]
	return c, ok
}

func (b *Body) label(a Atom) string {
	return b.atoms.word(a)
}

func (b *Body) tracer() *trace.Recorder {
	return b.rec
}

// getOrCreateConcept returns the concept for action, creating an empty
// shell the first time action is seen. Callers must hold the write lock.
func (b *Body) getOrCreateConcept(action Atom) *Concept {
	c, ok := b.concepts[action]
	if ok {
		return c
	}
	c = newConcept(action)
	b.concepts[action] = c
	b.order = append(b.order, action)
	return c
}

// parseArg splits a "role:value" argument on its first colon. Both
// halves must be non-empty.
func parseArg(s string) (role, value string, err error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return "", "", fmt.Errorf("%w: argument %q has no ':' separator", ErrMalformedInput, s)
	}
	role, value = s[:idx], s[idx+1:]
	if role == "" || value == "" {
		return "", "", fmt.Errorf("%w: argument %q has an empty role or value", ErrMalformedInput, s)
	}
	return role, value, nil
}

// buildFact interns every role:value pair in args into a Fact, preserving
// argument order. Used by AddRule for the head and every subgoal clause;
// AddFact parses its own arguments so that it can reject variables.
func (b *Body) buildFact(args []string) (*Fact, error) {
	pairs := make([][2]Atom, 0, len(args))
	for _, a := range args {
		role, value, err := parseArg(a)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, [2]Atom{b.atoms.intern(role), b.atoms.intern(value)})
	}
	return newFact(pairs...), nil
}

// AddFact records a ground fact under action. Every argument must bind a
// constant: a value beginning with "$" is rejected, since only rule
// heads and subgoals may hold variables. Duplicate facts (by Fact.match)
// are silently absorbed rather than appended again.
func (b *Body) AddFact(action string, args []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pairs := make([][2]Atom, 0, len(args))
	for _, a := range args {
		role, value, err := parseArg(a)
		if err != nil {
			return err
		}
		if strings.HasPrefix(value, "$") {
			return fmt.Errorf("%w: fact argument %q may not bind a variable", ErrMalformedInput, a)
		}
		pairs = append(pairs, [2]Atom{b.atoms.intern(role), b.atoms.intern(value)})
	}

	actionAtom := b.atoms.intern(action)
	concept := b.getOrCreateConcept(actionAtom)
	concept.appendFact(b.atoms, newFact(pairs...))
	return nil
}

// AddRule records a rule: head, defined by action and args, holds if
// every subgoal in order can be satisfied in conjunction. A rule needs
// at least one subgoal — a headless implication with no body is not a
// rule this library represents.
func (b *Body) AddRule(head ClauseSpec, subgoals []ClauseSpec) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(subgoals) == 0 {
		return fmt.Errorf("%w: a rule needs at least one subgoal", ErrMalformedInput)
	}

	headFact, err := b.buildFact(head.Args)
	if err != nil {
		return err
	}

	clauses := make([]*Clause, 0, len(subgoals))
	for _, sg := range subgoals {
		f, err := b.buildFact(sg.Args)
		if err != nil {
			return err
		}
		clauses = append(clauses, newClause(b.atoms.intern(sg.Action), f))
	}

	actionAtom := b.atoms.intern(head.Action)
	rule := buildRule(b.atoms, actionAtom, headFact, clauses)
	concept := b.getOrCreateConcept(actionAtom)
	concept.appendRule(rule)
	return nil
}

// Resolve is the atom-level query primitive: every projection of every
// fact or rule result for action that satisfies constraint, restricted
// to the requested target roles. An action with no defined concept
// returns nil, never an error.
func (b *Body) Resolve(action Atom, constraint map[Atom]Atom, targets []Atom) []map[Atom]Atom {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, ok := b.concept(action)
	if !ok {
		return nil
	}
	return c.resolve(b.atoms, b, constraint, targets)
}

// ResolveStrings is the library's primary query surface: a convenience
// wrapper over Resolve that takes and returns plain words
// instead of atoms. constraint holds "role:value" strings; targets holds
// bare role names. A constraint role or value naming a word never seen
// before short-circuits to an empty result rather than interning a
// throwaway atom under a read lock. A target role never seen before is
// still reported in every result row, with an empty value.
func (b *Body) ResolveStrings(action string, constraint []string, targets []string) ([]map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	constraintAtoms := make(map[Atom]Atom, len(constraint))
	for _, c := range constraint {
		role, value, err := parseArg(c)
		if err != nil {
			return nil, err
		}
		roleAtom, ok := b.atoms.lookup(role)
		if !ok {
			return nil, nil
		}
		valueAtom, ok := b.atoms.lookup(value)
		if !ok {
			return nil, nil
		}
		constraintAtoms[roleAtom] = valueAtom
	}

	actionAtom, ok := b.atoms.lookup(action)
	if !ok {
		return nil, nil
	}

	type targetRole struct {
		word  string
		atom  Atom
		known bool
	}
	resolvedTargets := make([]targetRole, len(targets))
	targetAtoms := make([]Atom, 0, len(targets))
	for i, t := range targets {
		atom, ok := b.atoms.lookup(t)
		resolvedTargets[i] = targetRole{word: t, atom: atom, known: ok}
		if ok {
			targetAtoms = append(targetAtoms, atom)
		}
	}

	c, ok := b.concept(actionAtom)
	if !ok {
		return nil, nil
	}
	rows := c.resolve(b.atoms, b, constraintAtoms, targetAtoms)

	results := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(resolvedTargets))
		for _, tr := range resolvedTargets {
			if !tr.known {
				m[tr.word] = ""
				continue
			}
			m[tr.word] = b.atoms.word(row[tr.atom])
		}
		results = append(results, m)
	}
	return results, nil
}
