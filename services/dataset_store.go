package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aditi-rao/supplylens-api/models"
)

// Dataset is one uploaded analysis table held for the chart endpoints of
// the advanced-analysis path.
type Dataset struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Table      models.Table `json:"-"`
	ArchiveKey string       `json:"archive_key,omitempty"`
	UploadedAt time.Time    `json:"uploaded_at"`
}

// DatasetStore keeps uploaded datasets in memory, keyed by id. Nothing is
// persisted; a restart forgets every upload.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

var datasetStoreInstance *DatasetStore

// NewDatasetStore creates an empty dataset store
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{datasets: make(map[string]*Dataset)}
}

// InitDatasetStore initializes the global dataset store
func InitDatasetStore() *DatasetStore {
	datasetStoreInstance = NewDatasetStore()
	return datasetStoreInstance
}

// GetDatasetStore returns the global dataset store instance
func GetDatasetStore() *DatasetStore {
	return datasetStoreInstance
}

// SetDatasetStore sets the dataset store instance (primarily for testing)
func SetDatasetStore(store *DatasetStore) {
	datasetStoreInstance = store
}

// Save stores a parsed table under a fresh id and returns the dataset
func (s *DatasetStore) Save(name string, table models.Table, archiveKey string) *Dataset {
	dataset := &Dataset{
		ID:         uuid.NewString(),
		Name:       name,
		Table:      table,
		ArchiveKey: archiveKey,
		UploadedAt: time.Now(),
	}

	s.mu.Lock()
	s.datasets[dataset.ID] = dataset
	s.mu.Unlock()

	return dataset
}

// Get returns the dataset with the given id, or false when unknown
func (s *DatasetStore) Get(id string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dataset, ok := s.datasets[id]
	return dataset, ok
}

// Delete removes the dataset with the given id
func (s *DatasetStore) Delete(id string) {
	s.mu.Lock()
	delete(s.datasets, id)
	s.mu.Unlock()
}
