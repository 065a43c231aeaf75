package state

import (
	"sort"
	"strings"

	"github.com/beepbasket/beepbasket/internal/hass"
)

// Row is one displayed table entry.
type Row struct {
	Barcode string
	Record  hass.MappingRecord
	InList  bool
	Checked bool
}

// SelectAll is the tri-state of the header checkbox.
type SelectAll int

const (
	SelectNone SelectAll = iota
	SelectSome
	SelectEvery
)

// View owns the presentation state layered over a snapshot: the active search
// term, the displayed row subset, and the per-barcode selection. All changes
// go through the named transition methods so the invariants hold atomically:
// selection is defined only over what is currently visible and is cleared
// whenever the snapshot or the filter changes.
type View struct {
	snapshot  Snapshot
	filter    string
	displayed []string
	selected  map[string]bool
}

// NewView returns an empty view.
func NewView() *View {
	return &View{selected: make(map[string]bool)}
}

// ApplyRefresh installs a freshly fetched snapshot. The selection is dropped
// unconditionally; the filter term survives and is re-applied to the new data.
func (v *View) ApplyRefresh(snap Snapshot) {
	v.snapshot = snap
	v.selected = make(map[string]bool)
	v.recompute()
}

// ApplyFilter changes the search term and drops the selection. Matching is a
// case-insensitive substring test against the barcode or the product name.
func (v *View) ApplyFilter(term string) {
	v.filter = strings.ToLower(strings.TrimSpace(term))
	v.selected = make(map[string]bool)
	v.recompute()
}

// Filter returns the active search term.
func (v *View) Filter() string {
	return v.filter
}

// ToggleRow sets the checked state of one displayed barcode. Unknown barcodes
// are tolerated; they are cleaned up by the next refresh or filter change.
func (v *View) ToggleRow(barcode string, checked bool) {
	v.selected[barcode] = checked
}

// ToggleAll sets every currently displayed barcode to the same checked state.
func (v *View) ToggleAll(checked bool) {
	for _, code := range v.displayed {
		v.selected[code] = checked
	}
}

// Rows returns the displayed rows, sorted by barcode descending to keep the
// most recently assigned codes near the top.
func (v *View) Rows() []Row {
	rows := make([]Row, 0, len(v.displayed))
	for _, code := range v.displayed {
		record := v.snapshot.Mappings[code]
		rows = append(rows, Row{
			Barcode: code,
			Record:  record,
			InList:  v.snapshot.InShoppingList(record.Name),
			Checked: v.selected[code],
		})
	}
	return rows
}

// Selected returns the checked barcodes among the displayed rows.
func (v *View) Selected() []string {
	out := make([]string, 0, len(v.displayed))
	for _, code := range v.displayed {
		if v.selected[code] {
			out = append(out, code)
		}
	}
	return out
}

// SelectedCount counts checked entries intersected with the displayed keys,
// so stale selection entries never inflate the number shown to the user.
func (v *View) SelectedCount() int {
	count := 0
	for _, code := range v.displayed {
		if v.selected[code] {
			count++
		}
	}
	return count
}

// SelectAllState reports the state of the header checkbox for the displayed
// rows: every row checked, some checked, or none.
func (v *View) SelectAllState() SelectAll {
	if len(v.displayed) == 0 {
		return SelectNone
	}
	count := v.SelectedCount()
	switch {
	case count == 0:
		return SelectNone
	case count == len(v.displayed):
		return SelectEvery
	default:
		return SelectSome
	}
}

// Snapshot returns the snapshot the view is layered over.
func (v *View) Snapshot() Snapshot {
	return v.snapshot
}

// Record looks up a mapping in the underlying snapshot.
func (v *View) Record(barcode string) (hass.MappingRecord, bool) {
	record, ok := v.snapshot.Mappings[barcode]
	return record, ok
}

func (v *View) recompute() {
	v.displayed = v.displayed[:0]
	for code, record := range v.snapshot.Mappings {
		if v.filter != "" &&
			!strings.Contains(strings.ToLower(code), v.filter) &&
			!strings.Contains(strings.ToLower(record.Name), v.filter) {
			continue
		}
		v.displayed = append(v.displayed, code)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(v.displayed)))
}
