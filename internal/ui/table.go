package ui

import (
	"strings"

	"github.com/beepbasket/beepbasket/internal/state"
)

const (
	checkboxWidth = 4
	barcodeWidth  = 16
	inListWidth   = 2
)

// renderMain draws the dashboard: header, inputs, mapping table, and the
// command bar. A failed refresh always shows its message: in place of the
// table before any data has loaded, as a line above the table afterwards.
func (m Model) renderMain() string {
	styles := m.theme.Styles()
	snap := m.view.Snapshot()
	rows := m.view.Rows()

	var b strings.Builder

	// Header line.
	b.WriteString(styles.Logo.Render("BEEPBASKET"))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(itoa(len(rows)) + " items"))
	if count := m.view.SelectedCount(); count > 0 {
		b.WriteString(styles.AccentText.Render("  " + itoa(count) + " selected"))
	}
	if snap.HasData {
		b.WriteString(styles.FaintText.Render("  updated " + snap.LastUpdated.Format("15:04:05")))
	}
	if snap.LastError != nil {
		b.WriteString("  ")
		b.WriteString(styles.DangerText.Render("● stale"))
	}
	b.WriteString("\n\n")

	// Input lines.
	b.WriteString(m.barcodeInput.View())
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	switch {
	case snap.LastError != nil && !snap.HasData:
		b.WriteString(styles.DangerText.Render("Failed to load mappings"))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(snap.LastError.Error()))
		b.WriteString("\n")
	case snap.LastError != nil:
		// Keep the previous table visible but say why it stopped updating.
		b.WriteString(styles.DangerText.Render("Error: " + snap.LastError.Error()))
		b.WriteString("\n")
		m.renderTable(&b, rows, styles)
	default:
		m.renderTable(&b, rows, styles)
	}

	b.WriteString("\n")
	if note := m.renderNotice(); note != "" {
		b.WriteString(note)
	} else {
		b.WriteString(styles.FaintText.Render(
			"a add · / search · s scan · e edit · d delete · D delete selected · c to list · x export · h help"))
	}

	return b.String()
}

func (m Model) renderTable(b *strings.Builder, rows []state.Row, styles Styles) {
	nameWidth := m.width - checkboxWidth - inListWidth - barcodeWidth - 2
	if nameWidth < 10 {
		nameWidth = 10
	}

	header := padRight(selectAllMark(m.view.SelectAllState()), checkboxWidth) +
		padRight("PRODUCT", nameWidth) +
		padRight("", inListWidth) +
		padLeft("BARCODE", barcodeWidth)
	b.WriteString(styles.MutedText.Render(header))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(styles.FaintText.Render("No barcode mappings"))
		b.WriteString("\n")
		return
	}

	visible := m.visibleRange(len(rows))
	for i := visible.start; i < visible.end; i++ {
		row := rows[i]

		mark := "[ ] "
		if row.Checked {
			mark = "[x] "
		}
		name := row.Record.Name
		if name == "" {
			name = row.Barcode
		}
		inList := "  "
		if row.InList {
			inList = "✓ "
		}

		line := mark + padRight(truncate(name, nameWidth-1), nameWidth) + inList + padLeft(row.Barcode, barcodeWidth)

		switch {
		case i == m.cursor && m.focus == focusTable:
			b.WriteString(styles.Selected.Render(line))
		case row.InList:
			b.WriteString(styles.SuccessText.Render(line))
		default:
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
}

func selectAllMark(s state.SelectAll) string {
	switch s {
	case state.SelectEvery:
		return "[x]"
	case state.SelectSome:
		return "[~]"
	}
	return "[ ]"
}

type rowRange struct {
	start, end int
}

// visibleRange keeps the cursor inside the rows that fit on screen.
func (m Model) visibleRange(total int) rowRange {
	avail := m.height - 10
	if avail < 3 {
		avail = 3
	}
	if total <= avail {
		return rowRange{0, total}
	}
	start := m.cursor - avail/2
	if start < 0 {
		start = 0
	}
	end := start + avail
	if end > total {
		end = total
		start = end - avail
	}
	return rowRange{start, end}
}
