package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/beepbasket/beepbasket/internal/hass"
)

func TestDialogRecordTrimsValues(t *testing.T) {
	d := newAddDialog("123", hass.MappingRecord{}, false)
	d.inputs[fieldName].SetValue("  Oat Milk  ")
	d.inputs[fieldQuantity].SetValue(" 1L ")
	d.inputs[fieldStores].SetValue("corner shop")

	got := d.Record()
	want := hass.MappingRecord{Name: "Oat Milk", Quantity: "1L", Stores: "corner shop"}
	if got != want {
		t.Errorf("Record() = %+v, want %+v", got, want)
	}
}

func TestConfirmRequiresName(t *testing.T) {
	m := newTestModel(t, &fakeClient{}, &fakeRefresher{})
	m.dialog = newAddDialog("123", hass.MappingRecord{}, false)

	next, _ := m.confirmDialog()
	got := next.(Model)

	if got.dialog == nil {
		t.Fatal("dialog closed despite missing name")
	}
	if got.dialog.pending {
		t.Error("dialog pending despite failed validation")
	}
	if !got.dialog.invalid {
		t.Error("invalid flag not set")
	}
	if got.notice.kind != noticeWarn {
		t.Errorf("notice kind = %d, want warn", got.notice.kind)
	}
}

func TestConfirmDispatchesSave(t *testing.T) {
	m := newTestModel(t, &fakeClient{}, &fakeRefresher{})
	m.dialog = newEditDialog("123", hass.MappingRecord{Name: "Milk"})

	next, cmd := m.confirmDialog()
	got := next.(Model)

	if cmd == nil {
		t.Fatal("confirm produced no command")
	}
	if !got.dialog.pending {
		t.Error("dialog not pending after confirm")
	}
	msg := cmd()
	done, ok := msg.(mutationDoneMsg)
	if !ok {
		t.Fatalf("got %T, want mutationDoneMsg", msg)
	}
	if done.action != actionUpdate {
		t.Errorf("action = %d, want update", done.action)
	}
	if done.err != nil {
		t.Errorf("err = %v", done.err)
	}
}

func TestDialogKeysConfirmAndDismiss(t *testing.T) {
	m := newTestModel(t, &fakeClient{}, &fakeRefresher{})
	m.dialog = newDeleteDialog("123", hass.MappingRecord{Name: "Milk"})

	next, cmd := m.handleDialogKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter did not confirm the dialog")
	}
	if !next.(Model).dialog.pending {
		t.Error("dialog not pending after enter")
	}

	m.dialog = newDeleteDialog("123", hass.MappingRecord{Name: "Milk"})
	next, _ = m.handleDialogKey(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(Model).dialog != nil {
		t.Fatal("escape did not close the dialog")
	}
}

func TestEditDialogPrefillsRecord(t *testing.T) {
	record := hass.MappingRecord{Name: "Milk", Quantity: "1L", Stores: "corner shop", Brands: "Oatly"}
	d := newEditDialog("123", record)

	if got := d.Record(); got != record {
		t.Errorf("prefilled Record() = %+v, want %+v", got, record)
	}
	if d.kind != dialogEdit {
		t.Errorf("kind = %d, want edit", d.kind)
	}
}
