package kessot

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlClause is one subgoal in a dump. Facts, rule heads and clause
// arguments are rendered by factToStrings as a flat list of "role:value"
// strings, the same convenience format AddFact and AddRule accept, so a
// dump is human-readable without a second notation to learn.
type yamlClause struct {
	Action string   `yaml:"action"`
	Args   []string `yaml:"args"`
}

type yamlRule struct {
	Head     []string     `yaml:"head"`
	Subgoals []yamlClause `yaml:"subgoals"`
}

type yamlConcept struct {
	Action string     `yaml:"action"`
	Facts  [][]string `yaml:"facts,omitempty"`
	Rules  []yamlRule `yaml:"rules,omitempty"`
}

func factToStrings(table *atomTable, f *Fact) []string {
	out := make([]string, 0, len(f.order))
	for _, role := range f.order {
		out = append(out, table.word(role)+":"+table.word(f.args[role]))
	}
	return out
}

// DumpYAML writes a read-only, human-readable snapshot of every concept
// in b — its facts and rules, not its raw atom table — to w. This is a
// diagnostic export only; there is deliberately no loader for the
// format it produces.
func (b *Body) DumpYAML(w io.Writer) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	concepts := make([]yamlConcept, 0, len(b.order))
	for _, action := range b.order {
		c := b.concepts[action]
		yc := yamlConcept{Action: b.atoms.word(action)}

		for _, f := range c.facts {
			yc.Facts = append(yc.Facts, factToStrings(b.atoms, f))
		}
		for _, r := range c.rules {
			yr := yamlRule{Head: factToStrings(b.atoms, r.head)}
			for _, cl := range r.expressions {
				yr.Subgoals = append(yr.Subgoals, yamlClause{
					Action: b.atoms.word(cl.action),
					Args:   factToStrings(b.atoms, cl.args),
				})
			}
			yc.Rules = append(yc.Rules, yr)
		}

		concepts = append(concepts, yc)
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(concepts); err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return nil
}
