package services

import (
	"sync"

	"github.com/aditi-rao/supplylens-api/models"
)

// MockWarehouse is a mock implementation of WarehouseInterface for testing
type MockWarehouse struct {
	mu         sync.RWMutex
	orders     models.Table
	tables     map[string]models.Table
	fetchErr   error
	lastFilter *models.FilterCriteria
}

// NewMockWarehouse creates a new mock warehouse
func NewMockWarehouse() *MockWarehouse {
	return &MockWarehouse{tables: make(map[string]models.Table)}
}

// SetAsMockForTesting sets this mock as the global warehouse instance for testing
func (m *MockWarehouse) SetAsMockForTesting() {
	SetWarehouse(m)
}

// SetOrders sets the table returned by FetchOrders
func (m *MockWarehouse) SetOrders(table models.Table) {
	m.mu.Lock()
	m.orders = table
	m.mu.Unlock()
}

// SetTable sets the table returned by FetchTable for a given name
func (m *MockWarehouse) SetTable(name string, table models.Table) {
	m.mu.Lock()
	m.tables[name] = table
	m.mu.Unlock()
}

// SetFetchError makes every fetch fail with the given error
func (m *MockWarehouse) SetFetchError(err error) {
	m.mu.Lock()
	m.fetchErr = err
	m.mu.Unlock()
}

// FetchOrders validates the criteria like the real warehouse would, records
// the filter for assertions and returns the canned table
func (m *MockWarehouse) FetchOrders(criteria models.FilterCriteria) (models.Table, error) {
	if _, err := BuildOrderQuery(criteria); err != nil {
		return models.Table{}, err
	}

	m.mu.Lock()
	m.lastFilter = &criteria
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fetchErr != nil {
		return models.Table{}, m.fetchErr
	}
	return m.orders, nil
}

// FetchTable returns the canned table for the given name
func (m *MockWarehouse) FetchTable(tableName string) (models.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fetchErr != nil {
		return models.Table{}, m.fetchErr
	}
	return m.tables[tableName], nil
}

// LastFilter returns the criteria of the most recent FetchOrders call
// (for testing assertions)
func (m *MockWarehouse) LastFilter() *models.FilterCriteria {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastFilter
}
