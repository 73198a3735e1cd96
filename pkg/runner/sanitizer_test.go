package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	for size, wantErr := range map[int]bool{
		DefaultMaxInputSize - 1: false,
		DefaultMaxInputSize:     false,
		DefaultMaxInputSize + 1: true,
	} {
		_, err := SanitizeInput(strings.Repeat("a", size))
		if wantErr {
			assert.ErrorIs(t, err, ErrInputTooLarge, "size %d", size)
		} else {
			assert.NoError(t, err, "size %d", size)
		}
	}
}

func TestSanitizeInput_Flattening(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain answer", "Jane Doe", "Jane Doe"},
		{"pasted address", "12 Oak St\nApt 4\tAustin", "12 Oak St Apt 4 Austin"},
		{"trailing CRLF", "yes\r\n", "yes"},
		{"terminal colour codes", "\x1b[31mTX\x1b[0m", "[31mTX[0m"},
		{"null byte", "555\x00-0100", "555-0100"},
		{"bell", "skip\x07", "skip"},
		{"accents kept", "José Núñez", "José Núñez"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := SanitizeInput("12345678901")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = SanitizeInput("12345")
	assert.NoError(t, err)

	t.Setenv(EnvMaxInputSize, "not-a-number")
	_, err = SanitizeInput("12345678901")
	assert.NoError(t, err, "an invalid override falls back to the default")
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("\xbd\xb2\x3d\xbc\x20\xe2\x8c\x98")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
