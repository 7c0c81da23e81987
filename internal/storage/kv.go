package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/prophets-duas-bot/internal/preferences"
)

// KVStorage provides in-memory key-value storage for preferences.
type KVStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewKVStorage creates a new KVStorage.
func NewKVStorage() *KVStorage {
	return &KVStorage{
		values: make(map[string]string),
	}
}

// Get retrieves the value stored under key.
func (s *KVStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", preferences.ErrKeyNotFound
	}
	return v, nil
}

// Set saves value under key.
func (s *KVStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes keys.
func (s *KVStorage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Len returns the number of stored keys.
func (s *KVStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
