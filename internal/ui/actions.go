package ui

import (
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/beepbasket/beepbasket/internal/export"
	"github.com/beepbasket/beepbasket/internal/hass"
	"github.com/beepbasket/beepbasket/internal/scan"
)

// lookupCmd asks the catalog for product details. Lookup failures are
// recovered locally: the dialog opens with the barcode standing in for the
// name instead of an error reaching the user.
func (m Model) lookupCmd(barcode string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		record, err := client.LookupProduct(ctx, barcode)
		if err != nil || record.Name == "" {
			return lookupDoneMsg{barcode: barcode, record: hass.MappingRecord{Name: barcode}}
		}
		return lookupDoneMsg{barcode: barcode, record: record, autoFilled: true}
	}
}

// editFetchCmd re-reads the authoritative record before the edit dialog
// opens. When the re-fetch fails the last known in-memory record is used
// rather than blocking the edit.
func (m Model) editFetchCmd(barcode string, fallback hass.MappingRecord) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		mappings, err := client.FetchMappings(ctx)
		if err == nil {
			if fresh, ok := mappings[barcode]; ok {
				return editReadyMsg{barcode: barcode, record: fresh}
			}
		}
		return editReadyMsg{barcode: barcode, record: fallback}
	}
}

// saveMappingCmd persists one record through the upsert service call.
func (m Model) saveMappingCmd(action mutationAction, barcode string, record hass.MappingRecord) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		return mutationDoneMsg{action: action, err: client.AddMapping(ctx, barcode, record)}
	}
}

func (m Model) deleteCmd(barcode string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		return mutationDoneMsg{action: actionDelete, err: client.RemoveMapping(ctx, barcode)}
	}
}

// bulkDeleteCmd dispatches one removal per barcode concurrently and waits for
// every call to settle. Each failure is collected and reported; partial
// success is left for the following refresh to reconcile.
func (m Model) bulkDeleteCmd(barcodes []string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		errs := make([]error, len(barcodes))
		var wg sync.WaitGroup
		for i, code := range barcodes {
			wg.Add(1)
			go func(i int, code string) {
				defer wg.Done()
				if err := client.RemoveMapping(ctx, code); err != nil {
					errs[i] = fmt.Errorf("%s: %w", code, err)
				}
			}(i, code)
		}
		wg.Wait()
		return bulkDeleteDoneMsg{total: len(barcodes), err: errors.Join(errs...)}
	}
}

func (m Model) addToListCmd(name string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		return mutationDoneMsg{action: actionToList, err: client.AddShoppingItem(ctx, name)}
	}
}

// exportCmd writes the full snapshot, ignoring any active filter.
func (m Model) exportCmd() tea.Cmd {
	mappings := m.view.Snapshot().Mappings
	dir := m.cfg.ExportDir
	return func() tea.Msg {
		path, err := export.WriteFile(dir, mappings, time.Now())
		return exportDoneMsg{path: path, err: err}
	}
}

// scanCmd waits for the scanner to produce zero or one barcode.
func (m Model) scanCmd() tea.Cmd {
	ctx := m.ctx
	device := m.cfg.ScannerDevice
	return func() tea.Msg {
		code, err := scan.Read(ctx, device)
		return scanDoneMsg{code: code, err: err}
	}
}
