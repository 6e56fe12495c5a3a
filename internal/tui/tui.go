// Package tui renders API results for the terminal: lipgloss tables for
// lists and an interactive bubbletea picker driven by autocomplete.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-duct-tape/models"
)

// Pick runs the picker full screen and returns the selected choice, nil
// when the user quit without selecting.
func Pick(ctx context.Context, title string, source ChoiceSource, copyValue bool) (*models.Choice, error) {
	model := NewPickerModel(ctx, title, source, copyValue)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("error running picker: %w", err)
	}

	picked := final.(PickerModel)
	if picked.Selected() == nil {
		return nil, nil
	}
	if copyValue && !picked.copied && picked.Err() != nil {
		return picked.Selected(), fmt.Errorf("error copying to clipboard: %w", picked.Err())
	}
	return picked.Selected(), nil
}
