// Package wire provides dependency injection for the riskmap application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/rs/zerolog"

	cliadapter "github.com/example/riskmap/internal/adapters/cli"
	"github.com/example/riskmap/internal/adapters/filesystem"
	"github.com/example/riskmap/internal/adapters/imageio"
	"github.com/example/riskmap/internal/adapters/sqlite"
	"github.com/example/riskmap/internal/app"
	"github.com/example/riskmap/internal/db"
	"github.com/example/riskmap/internal/logging"
	"github.com/example/riskmap/internal/ports/primary"
)

var (
	assessmentService primary.AssessmentService
	hazardService     primary.HazardLibraryService
	logger            = logging.New(logging.Options{})
	once              sync.Once
)

// Configure sets the logger and database path. It must be called before the
// first service is requested; later calls have no effect on built services.
func Configure(verbose bool, databasePath string) {
	logger = logging.New(logging.Options{Verbose: verbose})
	if databasePath != "" {
		db.UsePath(databasePath)
	}
}

// Logger returns the shared logger.
func Logger() zerolog.Logger {
	return logger
}

// AssessmentService returns the singleton AssessmentService instance.
func AssessmentService() primary.AssessmentService {
	once.Do(initServices)
	return assessmentService
}

// HazardLibraryService returns the singleton HazardLibraryService instance.
func HazardLibraryService() primary.HazardLibraryService {
	once.Do(initServices)
	return hazardService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create adapters (secondary ports)
	hazardRepo := sqlite.NewHazardRepository(database)
	settingsRepo := sqlite.NewSettingsRepository(database)
	files := filesystem.NewDocumentFileStore()
	images := imageio.NewSource(nil)

	// Create services (primary ports implementation)
	assessmentService = app.NewAssessmentService(files, settingsRepo, images, logger)
	hazardService = app.NewHazardLibraryService(hazardRepo)
}

// AssessmentAdapter returns a new AssessmentAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func AssessmentAdapter() *cliadapter.AssessmentAdapter {
	return AssessmentAdapterWithOutput(os.Stdout)
}

// AssessmentAdapterWithOutput returns a new AssessmentAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func AssessmentAdapterWithOutput(out io.Writer) *cliadapter.AssessmentAdapter {
	once.Do(initServices)
	return cliadapter.NewAssessmentAdapter(assessmentService, out)
}

// HazardAdapter returns a new HazardAdapter writing to stdout.
func HazardAdapter() *cliadapter.HazardAdapter {
	return HazardAdapterWithOutput(os.Stdout)
}

// HazardAdapterWithOutput returns a new HazardAdapter writing to the given output.
func HazardAdapterWithOutput(out io.Writer) *cliadapter.HazardAdapter {
	once.Do(initServices)
	return cliadapter.NewHazardAdapter(hazardService, out)
}
