package domain

// NodeKind describes the control behavior of a step.
type NodeKind string

const (
	// NodeSlot stores a validated value and moves on.
	NodeSlot NodeKind = "slot"
	// NodeGate is a yes/no step in front of a repeatable list.
	NodeGate NodeKind = "gate"
	// NodeBranch is a yes/no step that forks the spine.
	NodeBranch NodeKind = "branch"
	// NodeTerminal is re-entrant and never left.
	NodeTerminal NodeKind = "terminal"
)

// Node is the introspection view of a step, used by graph rendering and the HTTP/MCP adapters.
type Node struct {
	ID          StepID       `json:"id"`
	Kind        NodeKind     `json:"kind"`
	Section     string       `json:"section"`
	Prompt      string       `json:"prompt"`
	Transitions []Transition `json:"transitions,omitempty"`
}

// Transition is an edge out of a step. An empty Condition is the default edge.
type Transition struct {
	To        StepID `json:"to"`
	Condition string `json:"condition,omitempty"`
}
