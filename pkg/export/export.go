// Package export renders the structured application document for delivery
// and checks it against the published JSON schema.
package export

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/civicscribe/intake/pkg/domain"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Schema is the JSON schema of the application document.
//
//go:embed application.schema.json
var Schema []byte

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for formats other than json and yaml.
var ErrUnknownFormat = errors.New("unknown export format")

// ErrInvalidDocument wraps schema violations.
var ErrInvalidDocument = errors.New("document does not match schema")

// ParseFormat accepts json, yaml or yml in any case. An empty string means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType is the media type for the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Render encodes the document. JSON is indented with two spaces.
func Render(app *domain.Application, format Format) ([]byte, error) {
	if app == nil {
		return nil, errors.New("export: nil document")
	}
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(app, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export json: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		out, err := yaml.Marshal(app)
		if err != nil {
			return nil, fmt.Errorf("export yaml: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// SchemaError lists every violation found in one document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidDocument, strings.Join(e.Problems, "; "))
}

func (e *SchemaError) Unwrap() error { return ErrInvalidDocument }

var schemaLoader = gojsonschema.NewBytesLoader(Schema)

// Validate checks the document against Schema.
func Validate(app *domain.Application) error {
	if app == nil {
		return errors.New("export: nil document")
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(app))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		problems[i] = desc.String()
	}
	return &SchemaError{Problems: problems}
}

// Export validates and renders in one call.
func Export(app *domain.Application, format Format) ([]byte, error) {
	if err := Validate(app); err != nil {
		return nil, err
	}
	return Render(app, format)
}
