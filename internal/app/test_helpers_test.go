package app

import (
	"context"
	"errors"
	"os"

	"github.com/example/riskmap/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.DocumentFileStore  = (*mockDocumentFileStore)(nil)
	_ secondary.SettingsRepository = (*mockSettingsRepository)(nil)
	_ secondary.ImageSource        = (*mockImageSource)(nil)
	_ secondary.HazardRepository   = (*mockHazardRepository)(nil)
)

// mockDocumentFileStore implements secondary.DocumentFileStore in memory.
type mockDocumentFileStore struct {
	files    map[string][]byte
	writes   int
	readErr  error
	writeErr error
}

func newMockDocumentFileStore() *mockDocumentFileStore {
	return &mockDocumentFileStore{files: make(map[string][]byte)}
}

func (m *mockDocumentFileStore) Read(ctx context.Context, path string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *mockDocumentFileStore) Write(ctx context.Context, path string, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[path] = append([]byte(nil), data...)
	m.writes++
	return nil
}

func (m *mockDocumentFileStore) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

// mockSettingsRepository implements secondary.SettingsRepository for testing.
type mockSettingsRepository struct {
	saved   *secondary.SettingsRecord
	loadErr error
	saveErr error
}

func newMockSettingsRepository() *mockSettingsRepository {
	return &mockSettingsRepository{}
}

func (m *mockSettingsRepository) Load(ctx context.Context) (*secondary.SettingsRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.saved == nil {
		return nil, nil
	}
	record := *m.saved
	return &record, nil
}

func (m *mockSettingsRepository) Save(ctx context.Context, settings *secondary.SettingsRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	record := *settings
	m.saved = &record
	return nil
}

// mockImageSource implements secondary.ImageSource for testing.
type mockImageSource struct {
	files map[string]*secondary.ImageData
	urls  map[string]*secondary.ImageData
}

func newMockImageSource() *mockImageSource {
	return &mockImageSource{
		files: make(map[string]*secondary.ImageData),
		urls:  make(map[string]*secondary.ImageData),
	}
}

func (m *mockImageSource) FromFile(ctx context.Context, path string) (*secondary.ImageData, error) {
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, errors.Join(secondary.ErrImportFailed, os.ErrNotExist)
}

func (m *mockImageSource) FromURL(ctx context.Context, url string) (*secondary.ImageData, error) {
	if data, ok := m.urls[url]; ok {
		return data, nil
	}
	return nil, errors.Join(secondary.ErrImportFailed, errors.New("remote host refused connection"))
}

// mockHazardRepository implements secondary.HazardRepository for testing.
type mockHazardRepository struct {
	hazards   []*secondary.HazardRecord
	createErr error
	listErr   error
}

func newMockHazardRepository() *mockHazardRepository {
	return &mockHazardRepository{}
}

func (m *mockHazardRepository) Create(ctx context.Context, hazard *secondary.HazardRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	hazard.ID = int64(len(m.hazards) + 1)
	m.hazards = append(m.hazards, hazard)
	return nil
}

func (m *mockHazardRepository) GetByName(ctx context.Context, name string) (*secondary.HazardRecord, error) {
	for _, h := range m.hazards {
		if h.Name == name {
			return h, nil
		}
	}
	return nil, errors.New("hazard not found")
}

func (m *mockHazardRepository) List(ctx context.Context) ([]*secondary.HazardRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]*secondary.HazardRecord(nil), m.hazards...), nil
}

func (m *mockHazardRepository) Count(ctx context.Context) (int, error) {
	return len(m.hazards), nil
}
