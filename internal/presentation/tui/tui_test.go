package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_PlainWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	PrintBanner(buf, "1.2.3")
	assert.Contains(t, buf.String(), "benefits intake v1.2.3")
}

func TestRendererFor_NonTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
	assert.Nil(t, RendererFor(&bytes.Buffer{}))
	assert.Equal(t, 72, Width(&bytes.Buffer{}, 72))
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(60)
	out, err := render("- Household size: 3")
	require.NoError(t, err)
	assert.Contains(t, out, "Household size: 3")
	assert.True(t, strings.Contains(out, "\n"))
}
