package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/riskmap/internal/ports/primary"
)

// HazardAdapter translates CLI operations to HazardLibraryService calls.
type HazardAdapter struct {
	service primary.HazardLibraryService
	out     io.Writer
}

// NewHazardAdapter creates a new HazardAdapter with the given service.
func NewHazardAdapter(service primary.HazardLibraryService, out io.Writer) *HazardAdapter {
	return &HazardAdapter{
		service: service,
		out:     out,
	}
}

// Add appends a hazard name to the library.
func (a *HazardAdapter) Add(ctx context.Context, name string) error {
	resp, err := a.service.AddHazard(ctx, primary.AddHazardRequest{Name: name})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Added hazard %q\n", resp.Name)
	return nil
}

// List lists the library in insertion order.
func (a *HazardAdapter) List(ctx context.Context) error {
	hazards, err := a.service.ListHazards(ctx)
	if err != nil {
		return fmt.Errorf("failed to list hazards: %w", err)
	}

	if len(hazards) == 0 {
		fmt.Fprintln(a.out, "No hazards found")
		return nil
	}
	for i, h := range hazards {
		fmt.Fprintf(a.out, "%3d  %s\n", i+1, h.Name)
	}
	return nil
}
