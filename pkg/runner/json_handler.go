package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/civicscribe/intake/pkg/domain"
)

// ActionSystemMessage carries a runner notice in JSON mode.
// Payload: string
const ActionSystemMessage = "SYSTEM_MESSAGE"

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
// Each Output is one line holding the action array; each input line is a JSON
// string or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	if len(actions) == 0 {
		return false, nil
	}
	if err := h.Encoder.Encode(actions); err != nil {
		return false, err
	}
	_, needsInput := inputRequest(actions)
	return needsInput, nil
}

// Input blocks on the next line. Lines that fail sanitization are reported
// as a system message and skipped.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line, err := h.Reader.ReadString('\n')
		if line == "" && err != nil {
			return "", err
		}

		text := strings.TrimSpace(line)
		var val string
		if jsonErr := json.Unmarshal([]byte(text), &val); jsonErr == nil {
			text = val
		}

		clean, sanitizeErr := SanitizeInput(text)
		if sanitizeErr != nil {
			if outErr := h.SystemOutput(ctx, sanitizeErr.Error()); outErr != nil {
				return "", outErr
			}
			if err != nil {
				return "", err
			}
			continue
		}
		return clean, nil
	}
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode([]domain.ActionRequest{{Type: ActionSystemMessage, Payload: msg}})
}
