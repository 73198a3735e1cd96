package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/civicscribe/intake/pkg/domain"
)

// TextHandler implements the standard line-based terminal interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// pending is the last input request shown, used for defaults.
	pending domain.InputRequest

	inputChan chan inputResult
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour context cancellation.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			select {
			case h.inputChan <- inputResult{text: text}:
			case <-h.done:
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				select {
				case h.inputChan <- inputResult{err: err}:
				case <-h.done:
				}
			}
			return
		}
	}
}

// Close stops the background reader once it is between lines.
func (h *TextHandler) Close() error {
	h.stopOnce.Do(func() { close(h.done) })
	return nil
}

func (h *TextHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	for _, act := range actions {
		if act.Type != domain.ActionRenderContent {
			continue
		}
		msg, ok := act.Payload.(string)
		if !ok {
			continue
		}
		output := msg
		if h.Renderer != nil {
			if rendered, err := h.Renderer(msg); err == nil {
				output = rendered
			}
		}
		if _, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output)); err != nil {
			return false, err
		}
	}

	req, needsInput := inputRequest(actions)
	if needsInput {
		h.pending = req
		if req.Default != "" {
			fmt.Fprintf(h.Writer, "(press enter for %q)\n", req.Default)
		}
	}
	return needsInput, nil
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			if clean == "" && h.pending.Default != "" {
				clean = h.pending.Default
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}
