package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// renderModalBox centers content in a bordered box.
func renderModalBox(theme Theme, width, height, boxWidth int, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(boxWidth).
		Render(content)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func modalTitle(styles Styles, title string, width int) string {
	return styles.Text.Bold(true).Render(title) + "\n" +
		styles.FaintText.Render(strings.Repeat("─", width)) + "\n\n"
}

// confirmModal asks before a destructive action. It stays open while the
// action runs. The model closes it when the action succeeds; after a
// failure it stays open so the user can retry or cancel.
type confirmModal struct {
	title   string
	body    string
	confirm tea.Msg
	busy    func() bool
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || c.busy() {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		return c, emit(c.confirm), false
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(modalTitle(styles, c.title, 40))
	b.WriteString(styles.Text.Render(c.body))
	b.WriteString("\n\n")
	if c.busy() {
		b.WriteString(styles.WarningText.Render("Deleting..."))
	} else {
		b.WriteString(styles.DangerText.Render("y") + styles.MutedText.Render(" Delete   ") +
			styles.AccentText.Render("n/esc") + styles.MutedText.Render(" Cancel"))
	}
	return renderModalBox(theme, width, height, 48, b.String())
}

// choice is a closed list of options cycled with left and right.
type choice[T comparable] struct {
	options []T
	index   int
	label   func(T) string
}

func newChoice[T comparable](options []T, selected T, label func(T) string) choice[T] {
	c := choice[T]{options: options, label: label}
	for i, opt := range options {
		if opt == selected {
			c.index = i
			break
		}
	}
	return c
}

func (c *choice[T]) next() {
	if len(c.options) > 0 {
		c.index = (c.index + 1) % len(c.options)
	}
}

func (c *choice[T]) prev() {
	if n := len(c.options); n > 0 {
		c.index = (c.index - 1 + n) % n
	}
}

func (c choice[T]) value() T {
	if len(c.options) == 0 {
		var zero T
		return zero
	}
	return c.options[c.index]
}

func (c choice[T]) String() string {
	return c.label(c.value())
}

// statusFilter cycles All followed by every status in all. The zero
// status stands for All.
func statusFilter[S interface {
	comparable
	String() string
}](all []S) choice[S] {
	var zero S
	return newChoice(append([]S{zero}, all...), zero, func(v S) string {
		if v == zero {
			return "All"
		}
		return v.String()
	})
}

// withOption returns options with v appended when it is missing.
func withOption(options []string, v string) []string {
	if v == "" {
		return options
	}
	for _, opt := range options {
		if opt == v {
			return options
		}
	}
	out := make([]string, 0, len(options)+1)
	out = append(out, options...)
	return append(out, v)
}

// renderField renders one form row, highlighting the focused label.
func renderField(styles Styles, label, value string, focused bool) string {
	label = padRight(label+":", 14)
	if focused {
		return styles.AccentText.Render(label) + value
	}
	return styles.MutedText.Render(label) + value
}

func renderChoiceValue(styles Styles, value string, focused bool) string {
	if focused {
		return styles.AccentText.Render("‹ ") + styles.Text.Render(value) + styles.AccentText.Render(" ›")
	}
	return "  " + styles.Text.Render(value)
}
