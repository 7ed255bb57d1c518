package memstore

import (
	"context"
	"testing"

	"github.com/ecotrack-campus/ecotrack/internal/infra/storetest"
)

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, Factory)
}

func TestNew_Empty(t *testing.T) {
	s := New()
	ctx := context.Background()

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}

	locs, _ := s.Locations(ctx)
	if len(locs) != 0 {
		t.Errorf("len(locations) = %d, want 0", len(locs))
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}
