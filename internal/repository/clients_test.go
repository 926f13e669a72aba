package repository

import (
	"context"
	"errors"
	"testing"
)

func TestToggleColumn(t *testing.T) {
	tests := []struct {
		field string
		ok    bool
	}{
		{"is_active", true},
		{"draft_mode", true},
		{"api_calls_limit", false},
		{"config", false},
		{"is_active; DROP TABLE clients", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			col, ok := toggleColumn(tt.field)
			if ok != tt.ok {
				t.Errorf("toggleColumn(%q) ok = %v, want %v", tt.field, ok, tt.ok)
			}
			if ok && col != tt.field {
				t.Errorf("toggleColumn(%q) = %q", tt.field, col)
			}
		})
	}
}

func TestSetFlag_RejectsBeforeSQL(t *testing.T) {
	// nil db: proves the whitelist fires before any query is built
	r := NewClientsRepository(nil)
	_, err := r.SetFlag(context.Background(), "c-1", "created_at", true)
	if !errors.Is(err, ErrInvalidField) {
		t.Errorf("SetFlag() error = %v, want ErrInvalidField", err)
	}
}
