package kessot

// Clause is one subgoal of a rule: an action atom plus a role→value tuple
// whose values may be constants or variables. The subgoal's concept is a
// non-owning handle resolved by atom identity at evaluation time rather
// than cached here, so a subgoal may legally name an action whose
// concept is created only later (by AddFact/AddRule), or never at all —
// in which case the subgoal simply contributes no projections.
type Clause struct {
	action Atom
	args   *Fact
}

// ClauseSpec is the loader-facing description of one subgoal: an action
// word plus "role:value" argument strings, matching the convenience
// string format AddFact and AddRule accept.
type ClauseSpec struct {
	Action string
	Args   []string
}

func newClause(action Atom, args *Fact) *Clause {
	return &Clause{action: action, args: args}
}

// Rule is a head tuple (with variable roles) plus an ordered conjunction
// of subgoal clauses.
type Rule struct {
	// action is the action atom of the concept this rule belongs to.
	// Carried only for diagnostics (resolution tracing); resolution
	// itself never needs a rule to know its own concept.
	action Atom

	head *Fact

	// headVars maps a head role to the variable atom bound there. Built
	// from the head tuple's variable-valued roles; duplicate head
	// variables (the same variable bound at more than one role) are
	// permitted.
	headVars map[Atom]Atom

	// inplace lists variables first introduced by a subgoal, in
	// first-seen order.
	inplace []Atom

	expressions []*Clause
}

// buildRule classifies a rule's head and inplace variables up front, so
// resolution never has to re-inspect the head tuple while expanding
// subgoals.
func buildRule(table *atomTable, action Atom, head *Fact, subgoals []*Clause) *Rule {
	r := &Rule{
		action:      action,
		head:        head,
		headVars:    make(map[Atom]Atom),
		inplace:     make([]Atom, 0),
		expressions: subgoals,
	}

	// Head variables: one entry per variable-valued head role. A variable
	// bound at two roles maps both roles to the same variable, so both
	// project the same binding.
	for _, role := range head.order {
		val := head.args[role]
		if !table.isVariable(val) {
			continue
		}
		r.headVars[role] = val
	}

	// Build the set of variables already known as head variables, so the
	// inplace scan below can skip them.
	headVarSet := make(map[Atom]bool, len(r.headVars))
	for _, v := range r.headVars {
		headVarSet[v] = true
	}

	// Inplace variables: every variable first seen in a subgoal that
	// isn't already a head variable, in subgoal order.
	seenInplace := make(map[Atom]bool)
	for _, clause := range subgoals {
		for _, role := range clause.args.order {
			val := clause.args.args[role]
			if !table.isVariable(val) {
				continue
			}
			if headVarSet[val] || seenInplace[val] {
				continue
			}
			seenInplace[val] = true
			r.inplace = append(r.inplace, val)
		}
	}

	return r
}

// headVariableFor returns the variable atom bound to role in the rule's
// head, if role names a variable role.
func (r *Rule) headVariableFor(role Atom) (Atom, bool) {
	v, ok := r.headVars[role]
	return v, ok
}
