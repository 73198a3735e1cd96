package runtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/civicscribe/intake/internal/validator"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/validate"
)

// turn is the working set of a single transition.
type turn struct {
	app     *domain.Application
	pending *domain.Pending
	raw     string // trimmed input
	lower   string
	skip    bool
	yes     bool
	now     time.Time

	say       []string
	next      domain.StepID // overrides the node's default edge when set
	finalized bool
}

func (t *turn) goTo(id domain.StepID) { t.next = id }

func (t *turn) tell(lines ...string) { t.say = append(t.say, lines...) }

// handler applies an answer. A returned error holds the step and its hint is shown.
type handler func(t *turn) error

// node is one step of the graph.
type node struct {
	id      domain.StepID
	kind    domain.NodeKind
	section string
	prompt  func(app *domain.Application) string
	input   domain.InputType
	options []string
	def     func(app *domain.Application) string
	handle  handler
	next    domain.StepID
	// edges lists conditional exits for introspection; next is always included.
	edges []domain.Transition
}

func (n *node) ask(app *domain.Application) string {
	if n.prompt == nil {
		return ""
	}
	return n.prompt(app)
}

func (n *node) request(app *domain.Application) domain.InputRequest {
	req := domain.InputRequest{Step: n.id, Type: n.input, Options: n.options}
	if req.Type == "" {
		req.Type = domain.InputText
	}
	if n.def != nil {
		req.Default = n.def(app)
	}
	return req
}

func (n *node) describe() domain.Node {
	out := domain.Node{
		ID:      n.id,
		Kind:    n.kind,
		Section: n.section,
		Prompt:  n.ask(domain.NewApplication()),
	}
	out.Transitions = append(out.Transitions, n.edges...)
	if n.next != "" {
		out.Transitions = append(out.Transitions, domain.Transition{To: n.next})
	}
	return out
}

// Graph is the compiled step table.
type Graph struct {
	order []domain.StepID
	nodes map[domain.StepID]*node
}

func newGraph(nodes ...*node) (*Graph, error) {
	g := &Graph{nodes: make(map[domain.StepID]*node, len(nodes))}
	for _, n := range nodes {
		if _, dup := g.nodes[n.id]; dup {
			return nil, fmt.Errorf("duplicate step %q", n.id)
		}
		if n.kind == "" {
			n.kind = domain.NodeSlot
		}
		g.nodes[n.id] = n
		g.order = append(g.order, n.id)
	}
	if err := validator.ValidateGraph(g.Nodes(), domain.EntryStep); err != nil {
		return nil, fmt.Errorf("invalid step graph: %w", err)
	}
	return g, nil
}

func (g *Graph) lookup(id domain.StepID) (*node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns the introspection view of every step in definition order.
func (g *Graph) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].describe())
	}
	return out
}

// Len is the number of steps.
func (g *Graph) Len() int { return len(g.order) }

// Slot builders. Each leaves the slot untouched on skip.

func text(p string) func(*domain.Application) string {
	return func(*domain.Application) string { return p }
}

func slot[T any](parse func(string) (T, error), store func(*turn, T)) handler {
	return func(t *turn) error {
		if t.skip {
			return nil
		}
		v, err := parse(t.raw)
		if err != nil {
			return err
		}
		store(t, v)
		return nil
	}
}

// flag stores yes as true and anything else as false.
func flag(field func(*domain.Application) **bool) handler {
	return func(t *turn) error {
		if t.skip {
			return nil
		}
		*field(t.app) = domain.Ptr(t.yes)
		return nil
	}
}

// branch routes on the yes/no answer without storing anything.
func branch(yes, no domain.StepID) handler {
	return func(t *turn) error {
		if t.yes {
			t.goTo(yes)
		} else {
			t.goTo(no)
		}
		return nil
	}
}

func hold(hint string) error {
	return &validate.Error{Field: "confirm", Hint: hint}
}

func yesNoOptions() []string { return []string{"yes", "no"} }

func frequencyOptions() []string {
	out := make([]string, 0, len(validate.Frequencies))
	for _, f := range validate.Frequencies {
		out = append(out, string(f))
	}
	return out
}

func ordinal(n int) string {
	return fmt.Sprintf("#%d", n)
}

func article(count int, noun string) string {
	if count == 0 {
		if strings.ContainsAny(noun[:1], "aeiou") {
			return "an " + noun
		}
		return "a " + noun
	}
	return "another " + noun
}
