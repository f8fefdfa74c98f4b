package app

import (
	"context"
	"fmt"

	corehazard "github.com/example/riskmap/internal/core/hazard"
	"github.com/example/riskmap/internal/ports/primary"
	"github.com/example/riskmap/internal/ports/secondary"
)

// HazardLibraryServiceImpl implements the HazardLibraryService interface.
type HazardLibraryServiceImpl struct {
	hazardRepo secondary.HazardRepository
}

// NewHazardLibraryService creates a new HazardLibraryService with injected dependencies.
func NewHazardLibraryService(hazardRepo secondary.HazardRepository) *HazardLibraryServiceImpl {
	return &HazardLibraryServiceImpl{hazardRepo: hazardRepo}
}

// AddHazard appends a normalized name to the library.
func (s *HazardLibraryServiceImpl) AddHazard(ctx context.Context, req primary.AddHazardRequest) (*primary.AddHazardResponse, error) {
	if err := s.seed(ctx); err != nil {
		return nil, err
	}

	existing, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	name := corehazard.NormalizeName(req.Name)
	guardCtx := corehazard.AddHazardContext{Name: name, Existing: existing}
	if result := corehazard.CanAddHazard(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	if err := s.hazardRepo.Create(ctx, &secondary.HazardRecord{Name: name}); err != nil {
		return nil, fmt.Errorf("failed to add hazard: %w", err)
	}
	return &primary.AddHazardResponse{Name: name}, nil
}

// ListHazards lists the library in insertion order.
func (s *HazardLibraryServiceImpl) ListHazards(ctx context.Context) ([]*primary.Hazard, error) {
	if err := s.seed(ctx); err != nil {
		return nil, err
	}

	records, err := s.hazardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hazards: %w", err)
	}

	hazards := make([]*primary.Hazard, len(records))
	for i, r := range records {
		hazards[i] = &primary.Hazard{Name: r.Name, CreatedAt: r.CreatedAt}
	}
	return hazards, nil
}

// seed fills an empty library with the default hazard names.
func (s *HazardLibraryServiceImpl) seed(ctx context.Context) error {
	count, err := s.hazardRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count hazards: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, name := range corehazard.DefaultLibrary {
		if err := s.hazardRepo.Create(ctx, &secondary.HazardRecord{Name: corehazard.NormalizeName(name)}); err != nil {
			return fmt.Errorf("failed to seed hazard library: %w", err)
		}
	}
	return nil
}

func (s *HazardLibraryServiceImpl) names(ctx context.Context) ([]string, error) {
	records, err := s.hazardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hazards: %w", err)
	}
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names, nil
}

// Ensure HazardLibraryServiceImpl implements the interface
var _ primary.HazardLibraryService = (*HazardLibraryServiceImpl)(nil)
