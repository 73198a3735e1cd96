package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/civicscribe/intake/pkg/domain"
)

// ValidateGraph checks for broken links and unreachable steps starting from start.
func ValidateGraph(nodes []domain.Node, start domain.StepID) error {
	index := make(map[domain.StepID]domain.Node, len(nodes))
	var errors []string
	for _, n := range nodes {
		if _, dup := index[n.ID]; dup {
			errors = append(errors, fmt.Sprintf("Duplicate step: '%s'", n.ID))
			continue
		}
		index[n.ID] = n
	}

	if _, ok := index[start]; !ok {
		return fmt.Errorf("start step '%s' not found", start)
	}

	// Crawler
	visited := make(map[domain.StepID]bool)
	queue := []domain.StepID{start}
	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		node, ok := index[currentID]
		if !ok {
			errors = append(errors, fmt.Sprintf("Missing step: '%s'", currentID))
			continue
		}

		for _, t := range node.Transitions {
			if t.To == "" {
				continue // Sink
			}
			if !visited[t.To] {
				queue = append(queue, t.To)
			}
		}
	}

	var unreachable []string
	for id := range index {
		if !visited[id] {
			unreachable = append(unreachable, string(id))
		}
	}
	sort.Strings(unreachable)
	for _, id := range unreachable {
		errors = append(errors, fmt.Sprintf("Unreachable step: '%s'", id))
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
