package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// resolveEntityID accepts a full id, a unique id prefix (as printed by
// `entity list`) or an exact title, case-insensitive.
func resolveEntityID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("entity ID is required")
	}

	entities, err := app.Entities.List(ctx, "")
	if err != nil {
		return "", err
	}
	return matchEntity(entities, input)
}

func matchEntity(entities []*domain.Entity, input string) (string, error) {
	// 1. Exact id
	for _, e := range entities {
		if e.ID == input {
			return e.ID, nil
		}
	}

	// 2. Id prefix
	var matches []string
	for _, e := range entities {
		if strings.HasPrefix(e.ID, input) {
			matches = append(matches, e.ID)
		}
	}

	// 3. Title
	if len(matches) == 0 {
		for _, e := range entities {
			if strings.EqualFold(e.Title, input) {
				matches = append(matches, e.ID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("entity not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("entity %q is ambiguous (%d matches)", input, len(matches))
	}
}
