package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/ports"
)

// Mask replaces every masked string value.
const Mask = "***"

// DefaultPIIFields are the draft fields masked by default: names, birth dates,
// contact details and street lines, wherever they appear (applicant, members, pending drafts).
var DefaultPIIFields = []string{`^full_name$`, `^dob$`, `^phone$`, `^email$`, `^street$`, `^unit$`}

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks string values whose JSON key matches
// one of the patterns before the state reaches the store. The caller's state is untouched.
// Loads return the masked copy: use it for stores that feed analytics or audit, not for
// sessions that must resume.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	masked, err := m.mask(state)
	if err != nil {
		return err
	}
	return m.next.Save(ctx, sessionID, masked)
}

// mask round-trips through a generic map so any nested field can be matched by key.
func (m *piiMiddleware) mask(state *domain.State) (*domain.State, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}

	maskValue(generic, m.patterns)

	data, err = json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal masked state: %w", err)
	}
	var out domain.State
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to rebuild masked state: %w", err)
	}
	return &out, nil
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskValue(v any, patterns []*regexp.Regexp) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if _, isString := child.(string); isString && matchesAny(k, patterns) {
				node[k] = Mask
				continue
			}
			maskValue(child, patterns)
		}
	case []any:
		for _, child := range node {
			maskValue(child, patterns)
		}
	}
}

func matchesAny(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
