package kessot

// Concept holds every fact and rule sharing one action atom. It is
// append-only: facts and rules are never removed or rewritten after
// insertion.
type Concept struct {
	action Atom
	facts  []*Fact
	rules  []*Rule
}

func newConcept(action Atom) *Concept {
	return &Concept{action: action}
}

// appendFact inserts args unless an existing fact already matches the
// same role→value mapping on the intersection of roles — i.e. the new
// fact's own roles, probed against each stored fact via match. Returns
// true if the fact was actually appended.
func (c *Concept) appendFact(table *atomTable, args *Fact) bool {
	for _, existing := range c.facts {
		if existing.match(table, args.args) {
			return false
		}
	}
	c.facts = append(c.facts, args)
	return true
}

// appendRule appends rule unconditionally.
func (c *Concept) appendRule(rule *Rule) {
	c.rules = append(c.rules, rule)
}

// resolve returns the concatenation of (a) projections of every ground
// fact matching constraint, followed by (b) — only if (a) is empty —
// the results produced by each rule in insertion order. cs lets a rule's
// subgoals look up their own action's concept by atom identity, which is
// how a subgoal can recurse back into resolve.
func (c *Concept) resolve(table *atomTable, cs concepts, constraint map[Atom]Atom, targets []Atom) []map[Atom]Atom {
	var result []map[Atom]Atom

	for _, f := range c.facts {
		if f.match(table, constraint) {
			result = append(result, f.project(targets))
		}
	}

	if len(result) > 0 {
		return result
	}

	for _, r := range c.rules {
		result = append(result, resolveRule(table, cs, r, constraint, targets)...)
	}
	return result
}
