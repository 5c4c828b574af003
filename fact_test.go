package kessot

import "testing"

func TestFactMatchSoundness(t *testing.T) {
	table := newAtomTable()
	dobj, iobj, result := table.intern("dobj"), table.intern("iobj"), table.intern("result")
	one, two, three := table.intern("1"), table.intern("2"), table.intern("3")

	f := newFact([2]Atom{dobj, one}, [2]Atom{iobj, two}, [2]Atom{result, three})

	if !f.match(table, map[Atom]Atom{dobj: one, iobj: two}) {
		t.Error("expected fact to match a constraint it satisfies")
	}
	if f.match(table, map[Atom]Atom{dobj: two}) {
		t.Error("expected fact to not match a constraint with a conflicting value")
	}
}

func TestFactMatchRequiresRolePresence(t *testing.T) {
	table := newAtomTable()
	dobj, iobj := table.intern("dobj"), table.intern("iobj")
	one := table.intern("1")

	f := newFact([2]Atom{dobj, one})

	if f.match(table, map[Atom]Atom{iobj: one}) {
		t.Error("expected match to fail when the constrained role is absent from the fact")
	}
}

func TestFactMatchTreatsVariableFieldsAsWildcards(t *testing.T) {
	table := newAtomTable()
	dobj := table.intern("dobj")
	variable := table.intern("$x")
	one := table.intern("1")

	clauseArgs := newFact([2]Atom{dobj, variable})

	if !clauseArgs.match(table, map[Atom]Atom{dobj: one}) {
		t.Error("expected a variable-valued field to match any probed value")
	}
}

func TestFactProjectYieldsBottomForAbsentRole(t *testing.T) {
	table := newAtomTable()
	dobj, result := table.intern("dobj"), table.intern("result")
	one := table.intern("1")

	f := newFact([2]Atom{dobj, one})

	projection := f.project([]Atom{dobj, result})
	if projection[dobj] != one {
		t.Errorf("expected dobj to project to %v, got %v", one, projection[dobj])
	}
	if projection[result] != bottom {
		t.Errorf("expected an absent role to project to bottom, got %v", projection[result])
	}
}

func TestFactOrderKeepsFirstPositionOnOverwrite(t *testing.T) {
	table := newAtomTable()
	dobj := table.intern("dobj")
	one, two := table.intern("1"), table.intern("2")

	f := newFact([2]Atom{dobj, one}, [2]Atom{dobj, two})

	roles := f.roles()
	if len(roles) != 1 || roles[0] != dobj {
		t.Fatalf("expected exactly one role (dobj), got %v", roles)
	}
	if f.args[dobj] != two {
		t.Errorf("expected the later value to win, got %v", f.args[dobj])
	}
}

func TestFactRolesPreservesInsertionOrder(t *testing.T) {
	table := newAtomTable()
	dobj, iobj, result := table.intern("dobj"), table.intern("iobj"), table.intern("result")
	one := table.intern("1")

	f := newFact([2]Atom{result, one}, [2]Atom{dobj, one}, [2]Atom{iobj, one})

	roles := f.roles()
	want := []Atom{result, dobj, iobj}
	if len(roles) != len(want) {
		t.Fatalf("expected %d roles, got %d", len(want), len(roles))
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], roles[i])
		}
	}
}
