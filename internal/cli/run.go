package cli

import (
	"io"
	"os"

	"github.com/civicscribe/intake/pkg/domain"
)

// ChatOptions contains the configuration for the chat command.
type ChatOptions struct {
	// SessionID resumes or names the session. A new id is generated when empty.
	SessionID string
	// JSON switches to JSON-lines IO for scripted hosts.
	JSON bool
	// Fresh discards any saved state for SessionID first.
	Fresh bool
	// Seed pre-populates a new draft.
	Seed *domain.Application

	In  io.Reader
	Out io.Writer
}

func (o *ChatOptions) defaults() {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
}
