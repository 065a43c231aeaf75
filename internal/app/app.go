package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/beepbasket/beepbasket/internal/config"
	"github.com/beepbasket/beepbasket/internal/hass"
	"github.com/beepbasket/beepbasket/internal/prefs"
	"github.com/beepbasket/beepbasket/internal/refresh"
	"github.com/beepbasket/beepbasket/internal/state"
	"github.com/beepbasket/beepbasket/internal/ui"
)

// Options carries the command line settings into the application.
type Options struct {
	ConfigPath     string
	DebounceWindow time.Duration
}

// Run wires the client, store, refresh controller, entity watcher, and UI
// together and blocks until the UI exits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	client, err := hass.NewClient(cfg.BaseURL, cfg.Token)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	prefsPath := prefs.DefaultPath()
	saved := prefs.Load(prefsPath)

	store := &state.Store{}

	// The controller's cycle publishes into the running program, which does
	// not exist yet. The program pointer is assigned before Start arms the
	// first cycle.
	var program *tea.Program
	cycle := func() {
		mappings, items, fetchErr := fetchAll(ctx, client)
		store.Update(mappings, items, fetchErr)
		if fetchErr != nil {
			log.Printf("refresh failed: %v", fetchErr)
		}
		if program != nil {
			program.Send(ui.SnapshotMsg(store.Snapshot()))
		}
	}

	controller := refresh.New(cycle, opts.DebounceWindow, 0)
	defer controller.Close()

	program, wait := ui.Run(ui.Options{
		Context:    ctx,
		Client:     client,
		Store:      store,
		View:       state.NewView(),
		Controller: controller,
		Config:     cfg,
		ThemeName:  saved.Theme,
		PrefsPath:  prefsPath,
	})

	watcher := hass.NewWatcher(client, cfg.ShoppingListEntity, controller.Invalidate)
	watcher.Start(ctx)
	defer watcher.Stop()

	controller.Start()

	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	return wait()
}

// fetchAll runs both reads concurrently and waits for each to settle. A
// single failure poisons the cycle so the store keeps its previous data.
func fetchAll(ctx context.Context, client hass.API) (map[string]hass.MappingRecord, []hass.ShoppingItem, error) {
	var (
		wg       sync.WaitGroup
		mappings map[string]hass.MappingRecord
		items    []hass.ShoppingItem
		mErr     error
		sErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		mappings, mErr = client.FetchMappings(ctx)
	}()
	go func() {
		defer wg.Done()
		items, sErr = client.FetchShoppingList(ctx)
	}()
	wg.Wait()

	if mErr != nil {
		return nil, nil, mErr
	}
	if sErr != nil {
		return nil, nil, sErr
	}
	return mappings, items, nil
}
