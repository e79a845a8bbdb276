package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/equip/internal/api"
)

const (
	defaultSite     = "HQ"
	unassignedLabel = "Unassigned"
	formWidth       = 56
)

type assetField int

const (
	fieldName assetField = iota
	fieldCategory
	fieldSite
	fieldNotes
	fieldStatus
	fieldHolder
)

// assetForm adds a new asset or edits an existing one.
type assetForm struct {
	original *api.Asset // nil when creating

	name     textinput.Model
	notes    textinput.Model
	category choice[api.Category]
	site     choice[string]
	status   choice[api.AssetStatus]
	holder   choice[string]

	fields  []assetField
	focus   int
	invalid bool
	busy    func() bool
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 34
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func categoryLabel(c api.Category) string     { return c.String() }
func assetStatusLabel(s api.AssetStatus) string { return s.String() }
func requestTypeLabel(t api.RequestType) string { return t.String() }
func priorityLabel(p api.Priority) string       { return p.String() }
func plainLabel(s string) string                { return s }

func holderLabel(s string) string {
	if s == "" {
		return unassignedLabel
	}
	return s
}

// newAssetForm opens an empty form with category Laptop and site HQ.
func newAssetForm(sites []string, busy func() bool) *assetForm {
	f := &assetForm{
		name:     newTextInput("MacBook Pro 14\"", 80),
		notes:    newTextInput("Optional", 200),
		category: newChoice(api.Categories(), api.CategoryLaptop, categoryLabel),
		site:     newChoice(withOption(sites, defaultSite), defaultSite, plainLabel),
		fields:   []assetField{fieldName, fieldCategory, fieldSite, fieldNotes},
		busy:     busy,
	}
	f.name.Focus()
	return f
}

// editAssetForm opens a form prefilled from a.
func editAssetForm(a api.Asset, sites, assignees []string, busy func() bool) *assetForm {
	holders := append([]string{""}, withOption(assignees, a.Holder())...)
	f := &assetForm{
		original: &a,
		name:     newTextInput("Name", 80),
		category: newChoice(api.Categories(), a.Category, categoryLabel),
		site:     newChoice(withOption(sites, a.Site), a.Site, plainLabel),
		status:   newChoice(api.AssetStatuses(), a.Status, assetStatusLabel),
		holder:   newChoice(holders, a.Holder(), holderLabel),
		fields:   []assetField{fieldName, fieldCategory, fieldSite, fieldStatus, fieldHolder},
		busy:     busy,
	}
	f.name.SetValue(a.Name)
	f.name.Focus()
	return f
}

func (f *assetForm) editing() bool { return f.original != nil }

func (f *assetForm) focused() assetField { return f.fields[f.focus] }

func (f *assetForm) moveFocus(delta int) {
	f.name.Blur()
	f.notes.Blur()
	n := len(f.fields)
	f.focus = ((f.focus+delta)%n + n) % n
	switch f.focused() {
	case fieldName:
		f.name.Focus()
	case fieldNotes:
		f.notes.Focus()
	}
}

func (f *assetForm) cycle(delta int) {
	step := func(next, prev func()) {
		if delta > 0 {
			next()
		} else {
			prev()
		}
	}
	switch f.focused() {
	case fieldCategory:
		step(f.category.next, f.category.prev)
	case fieldSite:
		step(f.site.next, f.site.prev)
	case fieldStatus:
		step(f.status.next, f.status.prev)
	case fieldHolder:
		step(f.holder.next, f.holder.prev)
	}
}

// submission builds the message for the model, or nil when the name is empty.
func (f *assetForm) submission() tea.Msg {
	name := strings.TrimSpace(f.name.Value())
	if name == "" {
		return nil
	}
	if !f.editing() {
		return submitAssetMsg{input: api.AssetInput{
			Name:     name,
			Category: f.category.value(),
			Site:     f.site.value(),
			Notes:    strings.TrimSpace(f.notes.Value()),
		}}
	}
	edited := *f.original
	edited.Name = name
	edited.Category = f.category.value()
	edited.Site = f.site.value()
	edited.Status = f.status.value()
	edited.AssignedTo = nil
	if h := f.holder.value(); h != "" {
		edited.AssignedTo = &h
	}
	return submitAssetMsg{id: edited.ID, update: api.UpdateFrom(edited)}
}

func (f *assetForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || f.busy() {
		return f, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return f, nil, true
	case key.Matches(keyMsg, keys.Confirm):
		sub := f.submission()
		if sub == nil {
			f.invalid = true
			return f, nil, false
		}
		f.invalid = false
		return f, emit(sub), false
	case key.Matches(keyMsg, keys.NextField):
		f.moveFocus(1)
		return f, nil, false
	case key.Matches(keyMsg, keys.PrevField):
		f.moveFocus(-1)
		return f, nil, false
	}

	var cmd tea.Cmd
	switch f.focused() {
	case fieldName:
		f.name, cmd = f.name.Update(keyMsg)
		if strings.TrimSpace(f.name.Value()) != "" {
			f.invalid = false
		}
	case fieldNotes:
		f.notes, cmd = f.notes.Update(keyMsg)
	default:
		switch {
		case key.Matches(keyMsg, keys.Left):
			f.cycle(-1)
		case key.Matches(keyMsg, keys.Right), keyMsg.String() == " ":
			f.cycle(1)
		}
	}
	return f, cmd, false
}

func (f *assetForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	title := "Add Asset"
	if f.editing() {
		title = "Edit " + f.original.Tag
	}
	b.WriteString(modalTitle(styles, title, formWidth-6))

	for i, field := range f.fields {
		focused := i == f.focus
		switch field {
		case fieldName:
			b.WriteString(renderField(styles, "Name", f.name.View(), focused))
		case fieldCategory:
			b.WriteString(renderField(styles, "Category", renderChoiceValue(styles, f.category.String(), focused), focused))
		case fieldSite:
			b.WriteString(renderField(styles, "Site", renderChoiceValue(styles, f.site.String(), focused), focused))
		case fieldNotes:
			b.WriteString(renderField(styles, "Notes", f.notes.View(), focused))
		case fieldStatus:
			b.WriteString(renderField(styles, "Status", renderChoiceValue(styles, f.status.String(), focused), focused))
		case fieldHolder:
			b.WriteString(renderField(styles, "Assigned to", renderChoiceValue(styles, f.holder.String(), focused), focused))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case f.busy():
		b.WriteString(styles.WarningText.Render("Saving..."))
	case f.invalid:
		b.WriteString(styles.DangerText.Render("Name is required"))
	default:
		label := "Add"
		if f.editing() {
			label = "Save"
		}
		b.WriteString(styles.AccentText.Render("enter") + styles.MutedText.Render(" "+label+"   ") +
			styles.AccentText.Render("tab") + styles.MutedText.Render(" Next   ") +
			styles.AccentText.Render("esc") + styles.MutedText.Render(" Cancel"))
	}
	return renderModalBox(theme, width, height, formWidth, b.String())
}

type requestField int

const (
	fieldType requestField = iota
	fieldPriority
	fieldDescription
)

var requestFields = []requestField{fieldType, fieldPriority, fieldDescription}

// requestForm files a new equipment request for user.
type requestForm struct {
	user        string
	kind        choice[api.RequestType]
	priority    choice[api.Priority]
	description textinput.Model
	focus       int
	invalid     bool
	busy        func() bool
}

// newRequestForm defaults to a Normal priority New Equipment request and
// starts on the description.
func newRequestForm(user string, busy func() bool) *requestForm {
	f := &requestForm{
		user:        user,
		kind:        newChoice(api.RequestTypes(), api.RequestNewEquipment, requestTypeLabel),
		priority:    newChoice(api.Priorities(), api.PriorityNormal, priorityLabel),
		description: newTextInput("What do you need?", 240),
		focus:       int(fieldDescription),
		busy:        busy,
	}
	f.description.Focus()
	return f
}

func (f *requestForm) focused() requestField { return requestFields[f.focus] }

func (f *requestForm) moveFocus(delta int) {
	n := len(requestFields)
	f.focus = ((f.focus+delta)%n + n) % n
	if f.focused() == fieldDescription {
		f.description.Focus()
	} else {
		f.description.Blur()
	}
}

func (f *requestForm) submission() tea.Msg {
	desc := strings.TrimSpace(f.description.Value())
	if desc == "" {
		return nil
	}
	return submitRequestMsg{input: api.RequestInput{
		Type:        f.kind.value(),
		Description: desc,
		Priority:    f.priority.value(),
		User:        f.user,
	}}
}

func (f *requestForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || f.busy() {
		return f, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return f, nil, true
	case key.Matches(keyMsg, keys.Confirm):
		sub := f.submission()
		if sub == nil {
			f.invalid = true
			return f, nil, false
		}
		f.invalid = false
		return f, emit(sub), false
	case key.Matches(keyMsg, keys.NextField):
		f.moveFocus(1)
		return f, nil, false
	case key.Matches(keyMsg, keys.PrevField):
		f.moveFocus(-1)
		return f, nil, false
	}

	var cmd tea.Cmd
	switch f.focused() {
	case fieldDescription:
		f.description, cmd = f.description.Update(keyMsg)
		if strings.TrimSpace(f.description.Value()) != "" {
			f.invalid = false
		}
	case fieldType:
		switch {
		case key.Matches(keyMsg, keys.Left):
			f.kind.prev()
		case key.Matches(keyMsg, keys.Right), keyMsg.String() == " ":
			f.kind.next()
		}
	case fieldPriority:
		switch {
		case key.Matches(keyMsg, keys.Left):
			f.priority.prev()
		case key.Matches(keyMsg, keys.Right), keyMsg.String() == " ":
			f.priority.next()
		}
	}
	return f, cmd, false
}

func (f *requestForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(modalTitle(styles, "New Request", formWidth-6))
	b.WriteString(renderField(styles, "Type", renderChoiceValue(styles, f.kind.String(), f.focused() == fieldType), f.focused() == fieldType))
	b.WriteString("\n")
	b.WriteString(renderField(styles, "Priority", renderChoiceValue(styles, f.priority.String(), f.focused() == fieldPriority), f.focused() == fieldPriority))
	b.WriteString("\n")
	b.WriteString(renderField(styles, "Description", f.description.View(), f.focused() == fieldDescription))
	b.WriteString("\n\n")

	switch {
	case f.busy():
		b.WriteString(styles.WarningText.Render("Submitting..."))
	case f.invalid:
		b.WriteString(styles.DangerText.Render("Description is required"))
	default:
		b.WriteString(styles.AccentText.Render("enter") + styles.MutedText.Render(" Submit   ") +
			styles.AccentText.Render("tab") + styles.MutedText.Render(" Next   ") +
			styles.AccentText.Render("esc") + styles.MutedText.Render(" Cancel"))
	}
	return renderModalBox(theme, width, height, formWidth, b.String())
}
