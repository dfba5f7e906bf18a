package cli

import (
	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/charmbracelet/huh"
)

// newForm builds a themed form without huh's inline help; the status bar
// carries the key hints.
func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(opsboardHuhTheme()).WithShowHelp(false)
}

// dateInput returns a huh.Input for an optional date field with YYYY-MM-DD validation.
func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("YYYY-MM-DD").
		Value(value).
		Validate(validateOptionalDate)
}

func validateOptionalDate(s string) error {
	_, err := domain.ParseOptionalDate(s)
	return err
}

func validateTitle(s string) error {
	_, err := parseFieldValue(domain.FieldTitle, s)
	return err
}
