package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/opsboard/internal/cli/formatter"
	"github.com/alexanderramin/opsboard/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// opsboardHuhTheme returns a huh theme using the Gruvbox palette.
func opsboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// newEditFormView edits one field of id: pick the field, then type the new
// value. The write goes through the engine, so it shows immediately and is
// reverted if the store rejects it.
func newEditFormView(state *SharedState, id string) View {
	ent, ok := state.Engine.Get(id)
	if !ok {
		return newNoticeView(state, "Edit", fmt.Errorf("editing %s: entity not found", id))
	}

	field := domain.FieldTitle
	var value string

	options := make([]huh.Option[domain.Field], 0, len(editableFields))
	for _, f := range editableFields {
		label := fmt.Sprintf("%-10s %s", f, formatter.Truncate(formatFieldValue(&ent, f), 40))
		options = append(options, huh.NewOption(label, f))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[domain.Field]().
				Title("Field").
				Options(options...).
				Value(&field),
		),
		huh.NewGroup(
			huh.NewInput().
				TitleFunc(func() string { return fmt.Sprintf("New %s", field) }, &field).
				PlaceholderFunc(func() string { return formatFieldValue(&ent, field) }, &field).
				Description("Dates: YYYY-MM-DD, blank clears. Owner: id or id:Name. Tags: comma separated.").
				Value(&value).
				Validate(func(s string) error {
					_, err := parseFieldValue(field, s)
					return err
				}),
		),
	)

	return newWizardView(state, "Edit", form, func() tea.Cmd {
		return applyEdit(state, id, ent.Title, field, value)
	})
}

// applyEdit submits the edit and reports its resolution.
func applyEdit(state *SharedState, id, title string, field domain.Field, raw string) tea.Cmd {
	v, err := parseFieldValue(field, raw)
	if err != nil {
		return flashErr(err)
	}
	ticket, err := state.Engine.EditField(context.Background(), id, field, v)
	if err != nil {
		return flashErr(err)
	}
	return tea.Batch(flash(fmt.Sprintf("Saving %s of %s", field, title)), awaitTicket(ticket, title))
}

// newCreateFormView creates an entity in the given lane.
func newCreateFormView(state *SharedState, status domain.Status) View {
	var in createInput
	in.status = status

	form := newForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&in.title).Validate(validateTitle),
			dateInput("Start date (optional)", &in.start),
			dateInput("End date (optional)", &in.end),
			huh.NewInput().Title("Owner (optional)").Placeholder("id or id:Name").Value(&in.owner),
			huh.NewInput().Title("Client (optional)").Value(&in.client),
		),
	)

	return newWizardView(state, "New in "+status.Label(), form, func() tea.Cmd {
		return applyCreate(state, in, time.Now())
	})
}

type createInput struct {
	title, start, end, owner, client string
	status                           domain.Status
}

func (in createInput) entity(now time.Time) (*domain.Entity, error) {
	start, err := domain.ParseOptionalDate(in.start)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseOptionalDate(in.end)
	if err != nil {
		return nil, err
	}
	return &domain.Entity{
		Title:     in.title,
		Status:    in.status,
		StartDate: start,
		EndDate:   end,
		Owner:     parseOwner(in.owner),
		Client:    in.client,
		UpdatedAt: now,
	}, nil
}

func applyCreate(state *SharedState, in createInput, now time.Time) tea.Cmd {
	ent, err := in.entity(now)
	if err != nil {
		return flashErr(err)
	}
	if err := state.Engine.Create(context.Background(), ent); err != nil {
		return flashErr(err)
	}
	return flash("Created " + ent.Title)
}

// newDeleteConfirmView asks before deleting. Confirming from the detail
// view leaves it open read-only; closing it prunes the entity.
func newDeleteConfirmView(state *SharedState, id, title string) View {
	confirmed := false
	form := newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", title)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&confirmed),
		),
	)
	return newWizardView(state, "Delete", form, func() tea.Cmd {
		if !confirmed {
			return flash("Kept " + title)
		}
		return applyDelete(state, id, title)
	})
}

func applyDelete(state *SharedState, id, title string) tea.Cmd {
	if err := state.Engine.Delete(context.Background(), id); err != nil {
		return flashErr(err)
	}
	return flash("Deleted " + title)
}

// newNoticeView is a form holding only a message, dismissed with enter.
func newNoticeView(state *SharedState, title string, err error) View {
	form := newForm(huh.NewGroup(huh.NewNote().Title("Error").Description(err.Error())))
	return newWizardView(state, title, form, func() tea.Cmd { return flashErr(err) })
}
