package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/civicscribe/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)
	defer handler.Close()

	handler.Renderer = func(s string) (string, error) {
		return "Rendered: " + s, nil
	}

	actions := []domain.ActionRequest{
		domain.Say("Hello World"),
		{Type: domain.ActionRequestInput, Payload: domain.InputRequest{Step: domain.StepState, Type: domain.InputText}},
	}

	needsInput, err := handler.Output(context.Background(), actions)
	require.NoError(t, err)
	assert.True(t, needsInput)
	assert.Contains(t, outBuf.String(), "Rendered: Hello World")
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("  my answer  \n"), outBuf)
	defer handler.Close()

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my answer", val)
	assert.Equal(t, "> ", outBuf.String())

	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InputRejectsOversizedLine(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("far too long an answer\nok\n"), outBuf)
	defer handler.Close()

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Contains(t, outBuf.String(), "Please try again.")
}

func TestTextHandler_DefaultOnEmptyLine(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("\n"), outBuf)
	defer handler.Close()

	_, err := handler.Output(context.Background(), []domain.ActionRequest{
		{Type: domain.ActionRequestInput, Payload: domain.InputRequest{Step: domain.StepLanguage, Type: domain.InputText, Default: "en"}},
	})
	require.NoError(t, err)

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "en", val)
}

func TestTextHandler_InputCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := NewTextHandler(strings.NewReader("unused\n"), &bytes.Buffer{})
	defer handler.Close()

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
