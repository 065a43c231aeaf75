package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/beepbasket/beepbasket/internal/hass"
)

// dialogKind selects the dialog's layout and confirm behaviour.
type dialogKind int

const (
	dialogAdd dialogKind = iota
	dialogEdit
	dialogDelete
	dialogBulkDelete
)

// Field indexes into a form dialog's inputs.
const (
	fieldName = iota
	fieldQuantity
	fieldStores
	fieldBrands
	fieldCount
)

// Dialog is a modal confirmation. Form dialogs (add/edit) carry editable
// inputs; delete dialogs only a message. While pending, a confirm is in
// flight and further input is ignored; on failure the form reopens for a
// retry instead of silently closing.
type Dialog struct {
	kind       dialogKind
	barcode    string
	record     hass.MappingRecord
	count      int
	autoFilled bool

	inputs  []textinput.Model
	focus   int
	pending bool
	invalid bool
}

func newFormDialog(kind dialogKind, barcode string, record hass.MappingRecord, autoFilled bool) *Dialog {
	labels := [fieldCount]string{"Product name *", "Quantity", "Stores", "Brands"}
	values := [fieldCount]string{record.Name, record.Quantity, record.Stores, record.Brands}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 128
		in.Prompt = ""
		in.SetValue(values[i])
		inputs[i] = in
	}

	return &Dialog{
		kind:       kind,
		barcode:    barcode,
		record:     record,
		autoFilled: autoFilled,
		inputs:     inputs,
	}
}

func newAddDialog(barcode string, record hass.MappingRecord, autoFilled bool) *Dialog {
	return newFormDialog(dialogAdd, barcode, record, autoFilled)
}

func newEditDialog(barcode string, record hass.MappingRecord) *Dialog {
	return newFormDialog(dialogEdit, barcode, record, false)
}

func newDeleteDialog(barcode string, record hass.MappingRecord) *Dialog {
	return &Dialog{kind: dialogDelete, barcode: barcode, record: record}
}

func newBulkDeleteDialog(count int) *Dialog {
	return &Dialog{kind: dialogBulkDelete, count: count}
}

// Focus puts the cursor into the first input of a form dialog.
func (d *Dialog) Focus() tea.Cmd {
	if len(d.inputs) == 0 {
		return nil
	}
	d.focus = fieldName
	return d.inputs[fieldName].Focus()
}

// form reports whether the dialog carries editable inputs.
func (d *Dialog) form() bool {
	return d.kind == dialogAdd || d.kind == dialogEdit
}

// Record collects the trimmed form values.
func (d *Dialog) Record() hass.MappingRecord {
	if !d.form() {
		return d.record
	}
	return hass.MappingRecord{
		Name:     strings.TrimSpace(d.inputs[fieldName].Value()),
		Quantity: strings.TrimSpace(d.inputs[fieldQuantity].Value()),
		Stores:   strings.TrimSpace(d.inputs[fieldStores].Value()),
		Brands:   strings.TrimSpace(d.inputs[fieldBrands].Value()),
	}
}

// handleDialogKey routes keys while a dialog is open.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.dialog
	if d.pending {
		return m, nil
	}

	switch {
	case keyMatches(msg, m.keys.Escape):
		m.dialog = nil
		return m, nil

	case keyMatches(msg, m.keys.Confirm):
		return m.confirmDialog()
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		if d.form() {
			return m, m.cycleDialogFocus(1)
		}
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		if d.form() {
			return m, m.cycleDialogFocus(-1)
		}
		return m, nil
	}

	if d.form() {
		var cmd tea.Cmd
		d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) cycleDialogFocus(dir int) tea.Cmd {
	d := m.dialog
	d.inputs[d.focus].Blur()
	d.focus = (d.focus + dir + len(d.inputs)) % len(d.inputs)
	return d.inputs[d.focus].Focus()
}

// confirmDialog validates and dispatches the dialog's mutation.
func (m Model) confirmDialog() (tea.Model, tea.Cmd) {
	d := m.dialog

	switch d.kind {
	case dialogAdd, dialogEdit:
		record := d.Record()
		if record.Name == "" {
			d.invalid = true
			return m.showNotice(noticeWarn, "Name required")
		}
		d.invalid = false
		d.pending = true
		action := actionAdd
		if d.kind == dialogEdit {
			action = actionUpdate
		}
		return m, m.saveMappingCmd(action, d.barcode, record)

	case dialogDelete:
		d.pending = true
		return m, m.deleteCmd(d.barcode)

	case dialogBulkDelete:
		d.pending = true
		return m, m.bulkDeleteCmd(m.view.Selected())
	}

	return m, nil
}

// renderDialog draws the open dialog centered on the screen.
func (m Model) renderDialog() string {
	d := m.dialog
	styles := m.theme.Styles()

	var b strings.Builder
	switch d.kind {
	case dialogAdd:
		b.WriteString(styles.AccentText.Render("Add Product"))
	case dialogEdit:
		b.WriteString(styles.AccentText.Render("Edit Product"))
	case dialogDelete:
		b.WriteString(styles.DangerText.Render("Delete Product"))
	case dialogBulkDelete:
		b.WriteString(styles.DangerText.Render("Delete Selected"))
	}
	b.WriteString("\n\n")

	switch {
	case d.form():
		b.WriteString(styles.MutedText.Render("Barcode  "))
		b.WriteString(styles.Text.Render(d.barcode))
		b.WriteString("\n\n")
		labels := [fieldCount]string{"Name *", "Quantity", "Stores", "Brands"}
		for i, input := range d.inputs {
			label := padRight(labels[i], 9)
			if i == fieldName && d.invalid {
				b.WriteString(styles.DangerText.Render(label))
			} else if i == d.focus {
				b.WriteString(styles.AccentText.Render(label))
			} else {
				b.WriteString(styles.MutedText.Render(label))
			}
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		if d.autoFilled {
			b.WriteString("\n")
			b.WriteString(styles.SuccessText.Render("Auto-filled from product catalog"))
			b.WriteString("\n")
		}

	case d.kind == dialogDelete:
		name := d.record.Name
		if name == "" {
			name = "unknown"
		}
		b.WriteString(styles.Text.Render("Delete this product?"))
		b.WriteString("\n\n")
		b.WriteString(styles.WarningText.Render(name))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(d.barcode))
		b.WriteString("\n")

	case d.kind == dialogBulkDelete:
		b.WriteString(styles.Text.Render("Delete " + itoa(d.count) + " selected items?"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if d.pending {
		b.WriteString(styles.MutedText.Render("Working..."))
	} else {
		b.WriteString(styles.FaintText.Render("enter confirm · esc cancel"))
	}

	box := styles.Dialog.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
