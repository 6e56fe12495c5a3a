// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-duct-tape/models"
)

// ChoiceSource answers autocomplete terms, e.g. an adapter resource.
type ChoiceSource func(ctx context.Context, term string) ([]models.Choice, error)

// PickerModel lets the user type a term, browse the matching choices and
// select one with enter.
type PickerModel struct {
	ctx    context.Context
	title  string
	source ChoiceSource
	copy   bool

	input   textinput.Model
	spinner spinner.Model

	// pending is the term of the request in flight; answers for older terms
	// are dropped.
	pending string
	loading bool

	choices []models.Choice
	cursor  int

	selected *models.Choice
	copied   bool
	err      error
	quitting bool
}

// NewPickerModel returns a picker over source. With copyValue set, the value of
// the selected choice is written to the system clipboard.
func NewPickerModel(ctx context.Context, title string, source ChoiceSource, copyValue bool) PickerModel {
	input := textinput.New()
	input.Placeholder = "start typing"
	input.Prompt = "> "
	input.Focus()

	return PickerModel{
		ctx:     ctx,
		title:   title,
		source:  source,
		copy:    copyValue,
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Selected returns the choice picked with enter, nil if the user quit.
func (m PickerModel) Selected() *models.Choice {
	return m.selected
}

// Err returns the last autocomplete or clipboard error.
func (m PickerModel) Err() error {
	return m.err
}

func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, keys.down):
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, keys.enter):
			if len(m.choices) == 0 {
				return m, nil
			}
			choice := m.choices[m.cursor]
			m.selected = &choice
			if m.copy {
				return m, cmdCopyToClipboard(fmt.Sprint(choice.Value))
			}
			m.quitting = true
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		term := strings.TrimSpace(m.input.Value())
		if term == m.pending {
			return m, cmd
		}
		m.pending = term
		if term == "" {
			m.loading = false
			m.choices = nil
			m.cursor = 0
			return m, cmd
		}
		m.loading = true
		return m, tea.Batch(cmd, m.spinner.Tick, cmdAutocomplete(m.ctx, m.source, term))

	case choicesMsg:
		if msg.term != m.pending {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.choices = msg.choices
		m.cursor = 0
		return m, nil

	case copiedMsg:
		m.copied = true
		m.quitting = true
		return m, tea.Quit

	case copyErrMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	for i, choice := range m.choices {
		line := fmt.Sprintf("  %s (%v)", choice.Label, choice.Value)
		if i == m.cursor {
			line = cursorStyle.Render("> " + line[2:])
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.choices) == 0 && m.pending != "" && !m.loading && m.err == nil {
		b.WriteString(helpStyle.Render("no matches"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter select • esc quit"))
	return appStyle.Render(b.String())
}

func cmdAutocomplete(ctx context.Context, source ChoiceSource, term string) tea.Cmd {
	return func() tea.Msg {
		choices, err := source(ctx, term)
		return choicesMsg{term: term, choices: choices, err: err}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return copyErrMsg{err: err}
		}
		return copiedMsg{}
	}
}
