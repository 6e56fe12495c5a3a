package tui

import "github.com/MKhiriev/go-duct-tape/models"

// choicesMsg carries the answer to the autocomplete request of term.
type choicesMsg struct {
	term    string
	choices []models.Choice
	err     error
}

type copiedMsg struct{}

type copyErrMsg struct {
	err error
}
