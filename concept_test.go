package kessot

import "testing"

func TestConceptAppendFactDeduplicates(t *testing.T) {
	table := newAtomTable()
	dobj, iobj := table.intern("dobj"), table.intern("iobj")
	one, two := table.intern("1"), table.intern("2")

	c := newConcept(table.intern("plus"))
	added := c.appendFact(table, newFact([2]Atom{dobj, one}, [2]Atom{iobj, two}))
	if !added {
		t.Fatal("expected the first fact to be appended")
	}

	addedAgain := c.appendFact(table, newFact([2]Atom{dobj, one}, [2]Atom{iobj, two}))
	if addedAgain {
		t.Error("expected an identical fact to be discarded as a duplicate")
	}
	if len(c.facts) != 1 {
		t.Errorf("expected exactly one stored fact, got %d", len(c.facts))
	}
}

func TestConceptResolvePrefersFactsOverRules(t *testing.T) {
	table := newAtomTable()
	action := table.intern("plus")
	dobj, iobj, result := table.intern("dobj"), table.intern("iobj"), table.intern("result")
	one, two, three := table.intern("1"), table.intern("2"), table.intern("3")

	c := newConcept(action)
	c.appendFact(table, newFact([2]Atom{dobj, one}, [2]Atom{iobj, two}, [2]Atom{result, three}))

	// A rule that would, if ever consulted, also answer this query —
	// its presence must not change the result, since facts take
	// priority over rules and a fact already matched.
	head := newFact([2]Atom{dobj, table.intern("$x")}, [2]Atom{iobj, table.intern("$y")}, [2]Atom{result, table.intern("$z")})
	c.appendRule(buildRule(table, action, head, nil))

	cs := &testConcepts{table: table, concepts: map[Atom]*Concept{action: c}}
	got := c.resolve(table, cs, map[Atom]Atom{dobj: one, iobj: two}, []Atom{result})
	if len(got) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(got))
	}
	if got[0][result] != three {
		t.Errorf("expected result %v, got %v", three, got[0][result])
	}
}
