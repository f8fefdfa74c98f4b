package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	corehazard "github.com/example/riskmap/internal/core/hazard"
	"github.com/example/riskmap/internal/ports/primary"
)

func newTestHazardService() (*HazardLibraryServiceImpl, *mockHazardRepository) {
	repo := newMockHazardRepository()
	return NewHazardLibraryService(repo), repo
}

func TestListHazards_SeedsEmptyLibrary(t *testing.T) {
	service, repo := newTestHazardService()

	hazards, err := service.ListHazards(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(hazards) != len(corehazard.DefaultLibrary) {
		t.Fatalf("expected %d hazards, got %d", len(corehazard.DefaultLibrary), len(hazards))
	}
	if hazards[0].Name != "Écrasement" {
		t.Errorf("expected first hazard 'Écrasement', got %q", hazards[0].Name)
	}

	// Second call must not seed again.
	if _, err := service.ListHazards(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.hazards) != len(corehazard.DefaultLibrary) {
		t.Errorf("library seeded twice: %d entries", len(repo.hazards))
	}
}

func TestAddHazard_Success(t *testing.T) {
	service, repo := newTestHazardService()

	resp, err := service.AddHazard(context.Background(), primary.AddHazardRequest{Name: "  Projection de copeaux "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Name != "Projection de copeaux" {
		t.Errorf("expected trimmed name, got %q", resp.Name)
	}
	last := repo.hazards[len(repo.hazards)-1]
	if last.Name != "Projection de copeaux" {
		t.Errorf("expected new hazard appended last, got %q", last.Name)
	}
}

func TestAddHazard_RejectsDuplicates(t *testing.T) {
	service, _ := newTestHazardService()
	ctx := context.Background()

	if _, err := service.AddHazard(ctx, primary.AddHazardRequest{Name: "Bruit machine"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "exact duplicate", input: "Bruit machine", wantErr: true},
		{name: "seeded duplicate in decomposed form", input: "E\u0301crasement", wantErr: true},
		{name: "different case is a new entry", input: "bruit machine", wantErr: false},
		{name: "blank name", input: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AddHazard(ctx, primary.AddHazardRequest{Name: tt.input})
			if (err != nil) != tt.wantErr {
				t.Errorf("AddHazard(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestAddHazard_RepositoryError(t *testing.T) {
	service, repo := newTestHazardService()
	if _, err := service.ListHazards(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	repo.createErr = errors.New("disk full")

	_, err := service.AddHazard(context.Background(), primary.AddHazardRequest{Name: "Vibrations"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to add hazard") {
		t.Errorf("unexpected error message: %v", err)
	}
}
