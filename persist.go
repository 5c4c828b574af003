package kessot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Wire types mirror the in-memory shapes but carry atom ids instead of
// Atom handles, so they round-trip through msgpack without exposing
// Body's unexported fields. Ids are dense integers 1..N matching the
// order atoms were interned in, which is what lets two-pass loading
// resolve forward references: concept shells are created from every
// wireConcept's action id before any fact or rule is populated, so a
// subgoal naming a concept defined later in the same file still
// resolves. The format carries no explicit version field — a schema
// change here is breaking, same as any other binary fact store.
type wireAtom struct {
	ID   int    `msgpack:"id"`
	Word string `msgpack:"word"`
}

type wireArg struct {
	Role  int `msgpack:"role"`
	Value int `msgpack:"value"`
}

type wireFact struct {
	Args []wireArg `msgpack:"args"`
}

type wireClause struct {
	Action int       `msgpack:"action"`
	Args   []wireArg `msgpack:"args"`
}

type wireRule struct {
	Head     wireFact     `msgpack:"head"`
	Subgoals []wireClause `msgpack:"subgoals"`
}

type wireConcept struct {
	Action int        `msgpack:"action"`
	Facts  []wireFact `msgpack:"facts"`
	Rules  []wireRule `msgpack:"rules"`
}

type wireBody struct {
	Atoms    []wireAtom    `msgpack:"atoms"`
	Concepts []wireConcept `msgpack:"concepts"`
}

// Save writes b's full state to path: atom table, then every concept's
// facts and rules, in insertion order so the file is deterministic
// byte-for-byte across runs with identical content. The write is
// atomic — data lands in a uuid-suffixed temp file in path's directory,
// then renamed into place — so a crash mid-write never leaves a
// half-written file at path.
func (b *Body) Save(path string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var wire wireBody

	b.atoms.each(func(a Atom, word string) {
		wire.Atoms = append(wire.Atoms, wireAtom{ID: int(a), Word: word})
	})

	for _, action := range b.order {
		c := b.concepts[action]
		wc := wireConcept{Action: int(action)}

		for _, f := range c.facts {
			wc.Facts = append(wc.Facts, toWireFact(f))
		}
		for _, r := range c.rules {
			wr := wireRule{Head: toWireFact(r.head)}
			for _, cl := range r.expressions {
				wr.Subgoals = append(wr.Subgoals, wireClause{
					Action: int(cl.action),
					Args:   toWireFact(cl.args).Args,
				})
			}
			wc.Rules = append(wc.Rules, wr)
		}

		wire.Concepts = append(wire.Concepts, wc)
	}

	data, err := msgpack.Marshal(wire)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrIOError, err)
	}

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, filepath.Base(path)+".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write temp file: %v", ErrIOError, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: rename into place: %v", ErrIOError, err)
	}
	return nil
}

func toWireFact(f *Fact) wireFact {
	wf := wireFact{Args: make([]wireArg, 0, len(f.order))}
	for _, role := range f.order {
		wf.Args = append(wf.Args, wireArg{Role: int(role), Value: int(f.args[role])})
	}
	return wf
}

func fromWireFact(wf wireFact) *Fact {
	pairs := make([][2]Atom, 0, len(wf.Args))
	for _, a := range wf.Args {
		pairs = append(pairs, [2]Atom{Atom(a.Role), Atom(a.Value)})
	}
	return newFact(pairs...)
}

// Load reads a Body previously written by Save. It does not merge into
// an existing Body — it always starts a fresh one.
func Load(path string) (*Body, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrIOError, path, err)
	}

	var wire wireBody
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrDecodeError, path, err)
	}

	b := NewBody()

	// Rebuild the atom table. Atom ids are assigned by interning order,
	// so atoms must already be sorted by id in the file for a fresh
	// intern pass to reproduce the same ids; verify rather than assume.
	for _, wa := range wire.Atoms {
		got := b.atoms.intern(wa.Word)
		if int(got) != wa.ID {
			return nil, fmt.Errorf("%w: %s has out-of-order atom table", ErrDecodeError, path)
		}
	}

	// Pass 1: create every concept shell before populating any of them,
	// so a subgoal referencing a concept defined later in the file still
	// resolves once pass 2 runs.
	for _, wc := range wire.Concepts {
		b.getOrCreateConcept(Atom(wc.Action))
	}

	// Pass 2: populate facts and rules.
	for _, wc := range wire.Concepts {
		c := b.concepts[Atom(wc.Action)]
		for _, wf := range wc.Facts {
			c.appendFact(b.atoms, fromWireFact(wf))
		}
		for _, wr := range wc.Rules {
			clauses := make([]*Clause, 0, len(wr.Subgoals))
			for _, wcl := range wr.Subgoals {
				clauses = append(clauses, newClause(Atom(wcl.Action), fromWireFact(wireFact{Args: wcl.Args})))
			}
			c.appendRule(buildRule(b.atoms, Atom(wc.Action), fromWireFact(wr.Head), clauses))
		}
	}

	return b, nil
}
