package store

import (
	"context"
	"sync"

	"github.com/serroba/shortener-go/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository. It
// enforces the same code uniqueness contract as the relational store so the
// allocation retry path behaves identically in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	byCode map[shortener.Code]shortener.Mapping
	byURL  map[string]shortener.Code
	nextID int64
}

// NewMemoryStore creates a new in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byCode: make(map[shortener.Code]shortener.Mapping),
		byURL:  make(map[string]shortener.Code),
	}
}

func (m *MemoryStore) FindByURL(_ context.Context, url string) (*shortener.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.byURL[url]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	mapping := m.byCode[code]

	return &mapping, nil
}

func (m *MemoryStore) CodeExists(_ context.Context, code shortener.Code) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byCode[code]

	return ok, nil
}

func (m *MemoryStore) Insert(_ context.Context, mapping *shortener.Mapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byCode[mapping.Code]; ok {
		return shortener.ErrCodeExists
	}

	m.nextID++
	mapping.ID = m.nextID

	m.byCode[mapping.Code] = *mapping

	// First insert wins the URL index, mirroring the dedup lookup order of
	// the relational store.
	if _, ok := m.byURL[mapping.OriginalURL]; !ok {
		m.byURL[mapping.OriginalURL] = mapping.Code
	}

	return nil
}

func (m *MemoryStore) FindByCode(_ context.Context, code shortener.Code) (*shortener.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping, ok := m.byCode[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &mapping, nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
