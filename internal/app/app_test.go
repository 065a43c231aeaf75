package app

import (
	"context"
	"errors"
	"testing"

	"github.com/beepbasket/beepbasket/internal/hass"
)

type stubClient struct {
	hass.API

	mappings    map[string]hass.MappingRecord
	mappingsErr error
	items       []hass.ShoppingItem
	itemsErr    error
}

func (s *stubClient) FetchMappings(context.Context) (map[string]hass.MappingRecord, error) {
	return s.mappings, s.mappingsErr
}

func (s *stubClient) FetchShoppingList(context.Context) ([]hass.ShoppingItem, error) {
	return s.items, s.itemsErr
}

func TestFetchAllReturnsBoth(t *testing.T) {
	client := &stubClient{
		mappings: map[string]hass.MappingRecord{"111": {Name: "Milk"}},
		items:    []hass.ShoppingItem{{Name: "Milk"}},
	}

	mappings, items, err := fetchAll(context.Background(), client)
	if err != nil {
		t.Fatalf("fetchAll: %v", err)
	}
	if len(mappings) != 1 || len(items) != 1 {
		t.Errorf("got %d mappings, %d items, want 1 each", len(mappings), len(items))
	}
}

func TestFetchAllPoisonsCycleOnPartialFailure(t *testing.T) {
	client := &stubClient{
		mappings: map[string]hass.MappingRecord{"111": {Name: "Milk"}},
		itemsErr: errors.New("service unavailable"),
	}

	mappings, items, err := fetchAll(context.Background(), client)
	if err == nil {
		t.Fatal("fetchAll returned nil error on partial failure")
	}
	if mappings != nil || items != nil {
		t.Error("partial data returned alongside error")
	}
}
