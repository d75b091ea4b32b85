package services

import (
	"fmt"
	"sync"
)

// MockArchiveService is a mock implementation of ArchiveInterface for testing
type MockArchiveService struct {
	archived map[string][]byte // map of archive key to dataset content
	mu       sync.RWMutex
}

// NewMockArchiveService creates a new mock archive service
func NewMockArchiveService() *MockArchiveService {
	return &MockArchiveService{
		archived: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global archive service instance for testing
func (m *MockArchiveService) SetAsMockForTesting() {
	SetArchiveService(m)
}

// ArchiveDataset simulates archiving a dataset
func (m *MockArchiveService) ArchiveDataset(filename string, content []byte) (string, error) {
	key := fmt.Sprintf("datasets/mock_%s", filename)

	m.mu.Lock()
	m.archived[key] = content
	m.mu.Unlock()

	return key, nil
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockArchiveService) GetPresignedURL(archiveKey string) (string, error) {
	if archiveKey == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.archived[archiveKey]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("dataset not found in mock archive: %s", archiveKey)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", archiveKey), nil
}

// DeleteArchive simulates deleting an archived dataset
func (m *MockArchiveService) DeleteArchive(archiveKey string) error {
	if archiveKey == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.archived, archiveKey)
	m.mu.Unlock()

	return nil
}

// ArchivedDatasets returns all archived datasets (for testing assertions)
func (m *MockArchiveService) ArchivedDatasets() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copied := make(map[string][]byte, len(m.archived))
	for k, v := range m.archived {
		copied[k] = v
	}
	return copied
}
