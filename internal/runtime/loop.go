package runtime

import (
	"fmt"

	"github.com/civicscribe/intake/pkg/domain"
)

// loop is the repeatable-list sub-protocol: a yes/no gate, a fixed run of
// sub-steps filling a scratch draft D, then commit and back to the gate.
type loop[D any] struct {
	gate    domain.StepID
	exit    domain.StepID
	section string
	noun    string

	// count reports how many entities are already committed.
	count func(app *domain.Application) int
	// scratch selects this loop's slot in Pending.
	scratch func(p *domain.Pending) **D
	commit  func(app *domain.Application, d D)

	steps []sub[D]
}

// sub is one step inside a loop iteration.
type sub[D any] struct {
	id      domain.StepID
	prompt  func(app *domain.Application, n int) string
	input   domain.InputType
	options []string
	apply   func(t *turn, d *D) error
}

// field stores a parsed answer into the scratch draft. Skip leaves it nil.
func field[D, T any](parse func(string) (T, error), set func(d *D, v T)) func(*turn, *D) error {
	return func(t *turn, d *D) error {
		if t.skip {
			return nil
		}
		v, err := parse(t.raw)
		if err != nil {
			return err
		}
		set(d, v)
		return nil
	}
}

// draft returns the scratch record, opening one if the loop was entered without its gate.
func (l *loop[D]) draft(p *domain.Pending) *D {
	slot := l.scratch(p)
	if *slot == nil {
		*slot = new(D)
	}
	return *slot
}

func (l *loop[D]) nodes() []*node {
	if len(l.steps) == 0 {
		panic(fmt.Sprintf("loop %s has no steps", l.gate))
	}
	first := l.steps[0].id

	gate := &node{
		id:      l.gate,
		kind:    domain.NodeGate,
		section: l.section,
		prompt: func(app *domain.Application) string {
			return fmt.Sprintf("Would you like to add %s? (yes/no)", article(l.count(app), l.noun))
		},
		input:   domain.InputConfirm,
		options: yesNoOptions(),
		handle: func(t *turn) error {
			if !t.yes {
				*l.scratch(t.pending) = nil
				t.goTo(l.exit)
				return nil
			}
			*l.scratch(t.pending) = new(D)
			t.goTo(first)
			return nil
		},
		edges: []domain.Transition{
			{To: first, Condition: "yes"},
			{To: l.exit, Condition: "no"},
		},
	}

	out := []*node{gate}
	for i := range l.steps {
		s := l.steps[i]
		last := i == len(l.steps)-1
		next := l.gate
		if !last {
			next = l.steps[i+1].id
		}
		out = append(out, &node{
			id:      s.id,
			kind:    domain.NodeSlot,
			section: l.section,
			prompt: func(app *domain.Application) string {
				return s.prompt(app, l.count(app)+1)
			},
			input:   s.input,
			options: s.options,
			handle: func(t *turn) error {
				d := l.draft(t.pending)
				if err := s.apply(t, d); err != nil {
					return err
				}
				if last {
					before := l.count(t.app)
					l.commit(t.app, *d)
					*l.scratch(t.pending) = nil
					if n := l.count(t.app); n > before {
						t.tell(fmt.Sprintf("Saved %s %s.", l.noun, ordinal(n)))
					}
				}
				return nil
			},
			next: next,
		})
	}
	return out
}
