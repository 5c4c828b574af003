package kessot

import "github.com/despencer/kessot/internal/trace"

// environment is a partial function from variables to atoms, carried
// along one search path while a rule is being resolved. An unbound
// variable is simply absent from the map, and lookup reports it as
// bottom. bindCaptures never stores bottom, so a bottom lookup always
// means "unbound".
type environment map[Atom]Atom

func (e environment) lookup(v Atom) Atom {
	if val, ok := e[v]; ok {
		return val
	}
	return bottom
}

// clone returns a shallow copy, so each subgoal's branches can diverge
// without disturbing sibling branches still iterating the same parent.
func (e environment) clone() environment {
	c := make(environment, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

// concepts is the minimal view a rule needs of its owning Body: looking
// up a concept by its action atom (resolved at evaluation time rather
// than cached — see Clause's doc comment), translating an atom back to
// its word for diagnostics, and an optional trace recorder (nil when
// tracing is disabled).
type concepts interface {
	concept(action Atom) (*Concept, bool)
	label(a Atom) string
	tracer() *trace.Recorder
}

// resolveRule resolves one rule end to end: seed the environment from
// the caller's constraint, expand the subgoal frontier left to right,
// then project the surviving environments onto the requested target
// roles.
func resolveRule(table *atomTable, cs concepts, r *Rule, constraint map[Atom]Atom, targets []Atom) []map[Atom]Atom {
	seed := seedEnvironment(r, constraint)
	frontier := []environment{seed}

	label := cs.label(r.action)
	for i, clause := range r.expressions {
		frontier = expandSubgoal(table, cs, label, i, clause, frontier)
		if len(frontier) == 0 {
			break
		}
	}

	result := make([]map[Atom]Atom, 0, len(frontier))
	for _, env := range frontier {
		result = append(result, projectResult(r, targets, env))
	}
	return result
}

// seedEnvironment builds the starting environment for a rule: every
// head/inplace variable starts unbound; a caller-supplied constraint
// role that is also a variable-valued head role binds that variable
// immediately.
func seedEnvironment(r *Rule, constraint map[Atom]Atom) environment {
	env := make(environment, len(r.headVars)+len(r.inplace))
	for role, value := range constraint {
		if v, ok := r.headVariableFor(role); ok {
			env[v] = value
		}
	}
	return env
}

// expandSubgoal runs one subgoal against the current frontier: build a
// probe for each surviving environment, resolve it against the
// subgoal's concept, and fold each returned projection back into a
// fresh environment.
func expandSubgoal(table *atomTable, cs concepts, ruleLabel string, subgoalIndex int, clause *Clause, frontier []environment) []environment {
	concept, ok := cs.concept(clause.action)
	if !ok {
		// Dangling subgoal reference: contributes zero projections for
		// every environment, pruning the whole frontier.
		return nil
	}

	tracer := cs.tracer()
	next := make([]environment, 0, len(frontier))
	for _, env := range frontier {
		probeConstraint, probeTargets, capture := buildProbe(table, clause, env)

		projections := concept.resolve(table, cs, probeConstraint, probeTargets)
		for _, projection := range projections {
			next = append(next, bindCaptures(env, capture, projection))
		}

		if tracer != nil {
			tracer.LogStep(ruleLabel, subgoalIndex, wordifyProbe(table, probeConstraint), wordifyCaptures(table, capture), len(projections))
		}
	}
	return next
}

// wordifyProbe and wordifyCaptures translate a probe's atom-keyed maps
// back into words purely for the trace recorder's benefit; resolution
// itself never needs the strings.
func wordifyProbe(table *atomTable, constraint map[Atom]Atom) map[string]string {
	if len(constraint) == 0 {
		return nil
	}
	out := make(map[string]string, len(constraint))
	for role, value := range constraint {
		out[table.word(role)] = table.word(value)
	}
	return out
}

func wordifyCaptures(table *atomTable, capture map[Atom]Atom) []string {
	if len(capture) == 0 {
		return nil
	}
	out := make([]string, 0, len(capture))
	for _, v := range capture {
		out = append(out, table.word(v))
	}
	return out
}

// buildProbe turns one subgoal clause plus the current environment into
// a constraint/target split. capture maps each probed target role back
// to the variable it should bind.
func buildProbe(table *atomTable, clause *Clause, env environment) (constraint map[Atom]Atom, targets []Atom, capture map[Atom]Atom) {
	constraint = make(map[Atom]Atom)
	capture = make(map[Atom]Atom)

	for _, role := range clause.args.order {
		val := clause.args.args[role]
		if !table.isVariable(val) {
			constraint[role] = val
			continue
		}
		if bound := env.lookup(val); !bound.isBottom() {
			constraint[role] = bound
			continue
		}
		targets = append(targets, role)
		capture[role] = val
	}
	return constraint, targets, capture
}

// bindCaptures derives a new environment from env by overwriting each
// capture variable with its corresponding projected value. A bottom
// projection propagates as an unbound variable rather than a binding,
// so it is simply omitted — leaving the variable unbound for any later
// subgoal to try again.
func bindCaptures(env environment, capture map[Atom]Atom, projection map[Atom]Atom) environment {
	next := env.clone()
	for role, v := range capture {
		value, ok := projection[role]
		if !ok || value.isBottom() {
			continue
		}
		next[v] = value
	}
	return next
}

// projectResult fills in each requested target role from env: the
// binding of its head variable, the head's constant for a
// constant-valued head role, or bottom if the role isn't in the head at
// all.
func projectResult(r *Rule, targets []Atom, env environment) map[Atom]Atom {
	result := make(map[Atom]Atom, len(targets))
	for _, role := range targets {
		if v, ok := r.headVariableFor(role); ok {
			result[role] = env.lookup(v)
			continue
		}
		if v, ok := r.head.value(role); ok {
			result[role] = v
			continue
		}
		result[role] = bottom
	}
	return result
}
