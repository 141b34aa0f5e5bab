package store_test

import (
	"testing"

	"github.com/saadjs/nutri/internal/store"
)

func TestConfigSetGetList(t *testing.T) {
	t.Parallel()
	cfg := store.NewConfig(newTestDB(t))

	if _, ok, err := cfg.Get(store.ConfigActiveProfile); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := cfg.Set(" Display_Units ", "imperial"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cfg.Set(store.ConfigDisplayUnits, "metric"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := cfg.Get(store.ConfigDisplayUnits)
	if err != nil || !ok || v != "metric" {
		t.Fatalf("expected metric, got %q ok=%v err=%v", v, ok, err)
	}
	all, err := cfg.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[store.ConfigDisplayUnits] != "metric" {
		t.Fatalf("unexpected config %+v", all)
	}
	if err := cfg.Set("", "x"); err == nil {
		t.Fatalf("expected empty key to fail")
	}
}
