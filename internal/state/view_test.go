package state

import (
	"reflect"
	"testing"

	"github.com/beepbasket/beepbasket/internal/hass"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Mappings: map[string]hass.MappingRecord{
			"333": {Name: "Coffee"},
			"111": {Name: "Oat Milk"},
			"222": {Name: "Pasta"},
		},
		Shopping: map[string]hass.ShoppingItem{
			"coffee": {Name: "Coffee", Status: "needs_action"},
		},
		HasData: true,
	}
}

func rowBarcodes(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Barcode
	}
	return out
}

func TestView_RowsSortedDescendingWithInListFlag(t *testing.T) {
	v := NewView()
	v.ApplyRefresh(testSnapshot())

	rows := v.Rows()
	if got, want := rowBarcodes(rows), []string{"333", "222", "111"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if !rows[0].InList {
		t.Fatalf("Coffee should be flagged as already in the shopping list")
	}
	if rows[1].InList || rows[2].InList {
		t.Fatalf("only Coffee should carry the in-list flag")
	}
}

func TestView_FilterMatchesBarcodeOrName(t *testing.T) {
	v := NewView()
	v.ApplyRefresh(testSnapshot())

	v.ApplyFilter("  PAS ")
	if got, want := rowBarcodes(v.Rows()), []string{"222"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("name filter rows = %v, want %v", got, want)
	}

	v.ApplyFilter("11")
	if got, want := rowBarcodes(v.Rows()), []string{"111"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("barcode filter rows = %v, want %v", got, want)
	}

	v.ApplyFilter("")
	if len(v.Rows()) != 3 {
		t.Fatalf("clearing the filter should restore all rows")
	}
}

func TestView_SelectionClearedByFilterAndRefresh(t *testing.T) {
	v := NewView()
	v.ApplyRefresh(testSnapshot())

	v.ToggleRow("111", true)
	v.ToggleRow("222", true)
	if v.SelectedCount() != 2 {
		t.Fatalf("SelectedCount = %d, want 2", v.SelectedCount())
	}

	v.ApplyFilter("pasta")
	if v.SelectedCount() != 0 {
		t.Fatalf("filter change must clear selection, got %d", v.SelectedCount())
	}

	v.ToggleRow("222", true)
	v.ApplyRefresh(testSnapshot())
	if v.SelectedCount() != 0 {
		t.Fatalf("refresh must clear selection, got %d", v.SelectedCount())
	}
}

func TestView_TriStateAndToggleAll(t *testing.T) {
	v := NewView()
	v.ApplyRefresh(testSnapshot())

	if v.SelectAllState() != SelectNone {
		t.Fatalf("SelectAllState = %v, want SelectNone", v.SelectAllState())
	}

	v.ToggleRow("111", true)
	if v.SelectAllState() != SelectSome {
		t.Fatalf("SelectAllState = %v, want SelectSome", v.SelectAllState())
	}

	v.ToggleAll(true)
	if v.SelectAllState() != SelectEvery {
		t.Fatalf("SelectAllState = %v, want SelectEvery", v.SelectAllState())
	}
	if got, want := v.Selected(), []string{"333", "222", "111"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Selected = %v, want %v", got, want)
	}

	v.ToggleAll(false)
	if v.SelectAllState() != SelectNone || v.SelectedCount() != 0 {
		t.Fatalf("ToggleAll(false) should clear every row")
	}
}

func TestView_StaleSelectionDoesNotInflateCounts(t *testing.T) {
	v := NewView()
	v.ApplyRefresh(testSnapshot())

	// A barcode that was deleted on the host can linger in the selection map
	// until the next refresh; it must not affect counts or bulk actions.
	v.ToggleRow("999", true)
	v.ToggleRow("111", true)

	if v.SelectedCount() != 1 {
		t.Fatalf("SelectedCount = %d, want 1 (stale key ignored)", v.SelectedCount())
	}
	if got, want := v.Selected(), []string{"111"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Selected = %v, want %v", got, want)
	}
}
