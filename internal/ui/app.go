// Package ui provides the Bubble Tea terminal interface for the barcode
// mapping dashboard.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/beepbasket/beepbasket/internal/config"
	"github.com/beepbasket/beepbasket/internal/dedupe"
	"github.com/beepbasket/beepbasket/internal/hass"
	"github.com/beepbasket/beepbasket/internal/prefs"
	"github.com/beepbasket/beepbasket/internal/state"
)

// Refresher is the part of the refresh controller the UI drives.
type Refresher interface {
	Invalidate()
	FlushNow()
}

// focusArea tracks which widget receives typed input.
type focusArea int

const (
	focusTable focusArea = iota
	focusBarcode
	focusSearch
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Client     hass.API
	Store      *state.Store
	View       *state.View
	Controller Refresher
	Config     config.Config
	ThemeName  string
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	client    hass.API
	store     *state.Store
	view      *state.View
	refresher Refresher
	cfg       config.Config
	prefsPath string

	theme Theme
	keys  keyMap

	width  int
	height int
	ready  bool

	focus        focusArea
	cursor       int
	barcodeInput textinput.Model
	searchInput  textinput.Model

	latch  *dedupe.Latch
	dialog *Dialog

	notice    notice
	noticeSeq int

	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	view := opts.View
	if view == nil {
		view = state.NewView()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	barcode := textinput.New()
	barcode.Placeholder = "Scan or add barcode"
	barcode.CharLimit = 64
	barcode.Prompt = "barcode> "

	search := textinput.New()
	search.Placeholder = "Search barcode or product"
	search.CharLimit = 64
	search.Prompt = "search> "

	return Model{
		ctx:          ctx,
		client:       opts.Client,
		store:        opts.Store,
		view:         view,
		refresher:    opts.Controller,
		cfg:          opts.Config,
		prefsPath:    prefsPath,
		theme:        GetTheme(themeName),
		keys:         DefaultKeyMap(),
		barcodeInput: barcode,
		searchInput:  search,
		latch:        dedupe.New(0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case snapshotMsg:
		m.view.ApplyRefresh(state.Snapshot(msg))
		m.clampCursor()
		return m, nil

	case noticeExpireMsg:
		if int(msg) == m.noticeSeq {
			m.notice = notice{}
		}
		return m, nil

	case lookupDoneMsg:
		m.dialog = newAddDialog(msg.barcode, msg.record, msg.autoFilled)
		m.notice = notice{}
		return m, m.dialog.Focus()

	case editReadyMsg:
		m.dialog = newEditDialog(msg.barcode, msg.record)
		return m, m.dialog.Focus()

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case bulkDeleteDoneMsg:
		m.dialog = nil
		m.refresher.Invalidate()
		if msg.err != nil {
			return m.showNotice(noticeError, "Bulk delete failed: "+msg.err.Error())
		}
		return m.showNotice(noticeSuccess, "Deleted "+itoa(msg.total)+" items")

	case exportDoneMsg:
		if msg.err != nil {
			return m.showNotice(noticeError, "Export failed: "+msg.err.Error())
		}
		return m.showNotice(noticeSuccess, "Data exported to "+msg.path)

	case scanDoneMsg:
		if msg.err != nil {
			return m.showNotice(noticeError, "Scan failed: "+msg.err.Error())
		}
		if msg.code == "" {
			return m.showNotice(noticeInfo, "No barcode scanned")
		}
		m.barcodeInput.SetValue(msg.code)
		return m.startQuickAdd(msg.code)
	}

	return m, nil
}

// handleMutationDone processes the result of a single host mutation.
func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Form dialogs stay open so the user can retry; a failed delete or
		// list add has nothing to retry inside the dialog.
		if m.dialog != nil {
			if m.dialog.kind == dialogDelete {
				m.dialog = nil
			} else {
				m.dialog.pending = false
			}
		}
		return m.showNotice(noticeError, "Error: "+msg.err.Error())
	}

	m.dialog = nil
	m.refresher.Invalidate()

	switch msg.action {
	case actionAdd:
		m.barcodeInput.SetValue("")
		return m.showNotice(noticeSuccess, "Product added")
	case actionUpdate:
		return m.showNotice(noticeSuccess, "Product updated")
	case actionDelete:
		return m.showNotice(noticeSuccess, "Product deleted")
	case actionToList:
		return m.showNotice(noticeSuccess, "Added to shopping list")
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.dialog != nil {
		return m.handleDialogKey(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.focus {
	case focusBarcode:
		return m.handleBarcodeKey(msg)
	case focusSearch:
		return m.handleSearchKey(msg)
	}

	return m.handleTableKey(msg)
}

func (m Model) handleBarcodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Escape):
		m.focus = focusTable
		m.barcodeInput.Blur()
		return m, nil
	case keyMatches(msg, m.keys.Confirm):
		return m.startQuickAdd(m.barcodeInput.Value())
	}
	var cmd tea.Cmd
	m.barcodeInput, cmd = m.barcodeInput.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keyMatches(msg, m.keys.Escape) || keyMatches(msg, m.keys.Confirm) {
		m.focus = focusTable
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		m.view.ApplyFilter(after)
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.view.Rows()

	switch {
	case keyMatches(msg, m.keys.Quit):
		return m, tea.Quit

	case keyMatches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case keyMatches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case keyMatches(msg, m.keys.Refresh):
		m.refresher.FlushNow()
		return m.showNotice(noticeInfo, "Refreshing...")

	case keyMatches(msg, m.keys.FocusBarcode):
		m.focus = focusBarcode
		return m, m.barcodeInput.Focus()

	case keyMatches(msg, m.keys.FocusSearch):
		m.focus = focusSearch
		return m, m.searchInput.Focus()

	case keyMatches(msg, m.keys.Scan):
		return m.startScan()

	case keyMatches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case keyMatches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		return m, nil

	case keyMatches(msg, m.keys.Top):
		m.cursor = 0
		return m, nil

	case keyMatches(msg, m.keys.Bottom):
		if len(rows) > 0 {
			m.cursor = len(rows) - 1
		}
		return m, nil

	case keyMatches(msg, m.keys.ToggleRow):
		if row, ok := m.currentRow(); ok {
			m.view.ToggleRow(row.Barcode, !row.Checked)
		}
		return m, nil

	case keyMatches(msg, m.keys.ToggleAll):
		m.view.ToggleAll(m.view.SelectAllState() != state.SelectEvery)
		return m, nil

	case keyMatches(msg, m.keys.Edit):
		if row, ok := m.currentRow(); ok {
			return m, m.editFetchCmd(row.Barcode, row.Record)
		}
		return m, nil

	case keyMatches(msg, m.keys.Delete):
		if row, ok := m.currentRow(); ok {
			m.dialog = newDeleteDialog(row.Barcode, row.Record)
		}
		return m, nil

	case keyMatches(msg, m.keys.BulkDelete):
		if count := m.view.SelectedCount(); count > 0 {
			m.dialog = newBulkDeleteDialog(count)
		}
		return m, nil

	case keyMatches(msg, m.keys.ToList):
		return m.startAddToList()

	case keyMatches(msg, m.keys.Export):
		return m, m.exportCmd()
	}

	return m, nil
}

// startQuickAdd validates the barcode, arms the dedupe latch, and kicks off
// the product lookup that precedes the add dialog.
func (m Model) startQuickAdd(code string) (tea.Model, tea.Cmd) {
	code = strings.TrimSpace(code)
	if code == "" {
		return m.showNotice(noticeWarn, "Enter barcode first")
	}
	if !m.latch.TryAcquire(code) {
		return m, nil
	}
	model, cmd := m.showNotice(noticeInfo, "Looking up product...")
	return model, tea.Batch(cmd, m.lookupCmd(code))
}

// startAddToList pushes the current row's product name onto the shopping
// list, unless it is already pending there or the latch suppresses a repeat.
func (m Model) startAddToList() (tea.Model, tea.Cmd) {
	row, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	if row.InList {
		return m.showNotice(noticeInfo, row.Record.Name+" already in shopping list")
	}
	if !m.latch.TryAcquire(row.Barcode) {
		return m, nil
	}
	return m, m.addToListCmd(row.Record.Name)
}

func (m Model) startScan() (tea.Model, tea.Cmd) {
	if m.cfg.ScannerDevice == "" {
		return m.showNotice(noticeWarn, "No scanner device configured")
	}
	model, cmd := m.showNotice(noticeInfo, "Waiting for scanner...")
	return model, tea.Batch(cmd, m.scanCmd())
}

func (m Model) currentRow() (state.Row, bool) {
	rows := m.view.Rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return state.Row{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	count := len(m.view.Rows())
	if count == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= count {
		m.cursor = count - 1
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.dialog != nil {
		return m.renderDialog()
	}
	return m.renderMain()
}

// Messages

// snapshotMsg is sent from outside the program whenever a refresh cycle
// publishes new data.
type snapshotMsg state.Snapshot

type noticeExpireMsg int

type lookupDoneMsg struct {
	barcode    string
	record     hass.MappingRecord
	autoFilled bool
}

type editReadyMsg struct {
	barcode string
	record  hass.MappingRecord
}

type mutationAction int

const (
	actionAdd mutationAction = iota
	actionUpdate
	actionDelete
	actionToList
)

type mutationDoneMsg struct {
	action mutationAction
	err    error
}

type bulkDeleteDoneMsg struct {
	total int
	err   error
}

type exportDoneMsg struct {
	path string
	err  error
}

type scanDoneMsg struct {
	code string
	err  error
}

// SnapshotMsg wraps a snapshot for delivery via Program.Send.
func SnapshotMsg(snap state.Snapshot) tea.Msg {
	return snapshotMsg(snap)
}

// Run starts the Bubble Tea program and returns it so external goroutines can
// publish messages with Send.
func Run(opts Options) (*tea.Program, func() error) {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	return p, func() error {
		_, err := p.Run()
		return err
	}
}

const noticeDuration = 4 * time.Second
