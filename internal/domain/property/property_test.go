package property

import (
	"errors"
	"testing"
	"time"
)

func TestNewProperty(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	p, err := New(CreateParams{ID: "p-1", Name: "  Seaside Cottage ", MaxPeople: 4, Now: now})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Name != "Seaside Cottage" {
		t.Errorf("name not trimmed: %q", p.Name)
	}
	if !p.Active {
		t.Error("new properties start active")
	}
	if !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) {
		t.Error("timestamps not set from Now")
	}
	if p.Version != 0 {
		t.Errorf("Version = %d, want 0", p.Version)
	}
}

func TestNewPropertyValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateParams
		wantErr error
	}{
		{name: "missing id", params: CreateParams{Name: "x", MaxPeople: 2}, wantErr: ErrIDRequired},
		{name: "missing name", params: CreateParams{ID: "p-1", MaxPeople: 2}, wantErr: ErrNameRequired},
		{name: "blank name", params: CreateParams{ID: "p-1", Name: "   ", MaxPeople: 2}, wantErr: ErrNameRequired},
		{name: "zero capacity", params: CreateParams{ID: "p-1", Name: "x", MaxPeople: 0}, wantErr: ErrBadCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.params); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyUpdate(t *testing.T) {
	p, err := New(CreateParams{ID: "p-1", Name: "Old", MaxPeople: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	later := p.UpdatedAt.Add(time.Hour)
	if err := p.ApplyUpdate(UpdateParams{Name: "New", MaxPeople: 6, Active: false}, later); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}
	if p.Name != "New" || p.MaxPeople != 6 || p.Active {
		t.Errorf("update not applied: %+v", p)
	}
	if !p.UpdatedAt.Equal(later) {
		t.Error("UpdatedAt not advanced")
	}

	if err := p.ApplyUpdate(UpdateParams{Name: "", MaxPeople: 6}, later); !errors.Is(err, ErrNameRequired) {
		t.Errorf("blank name error = %v, want ErrNameRequired", err)
	}
}
