package services

import (
	"context"
	"fmt"
	"sync"
)

// MockS3Service is an in-memory ObjectStorage for tests
type MockS3Service struct {
	objects map[string][]byte // map of S3 key to object content
	types   map[string]string
	mu      sync.RWMutex

	// PutErr, when set, is returned by PutObject
	PutErr error
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// PutObject simulates uploading an object to S3
func (m *MockS3Service) PutObject(_ context.Context, key string, body []byte, contentType string) error {
	if m.PutErr != nil {
		return m.PutErr
	}

	m.mu.Lock()
	m.objects[key] = append([]byte(nil), body...)
	m.types[key] = contentType
	m.mu.Unlock()
	return nil
}

// PresignGet simulates generating a presigned URL
func (m *MockS3Service) PresignGet(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	_, exists := m.objects[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("object not found in mock S3: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// Object returns the stored content and content type for key
func (m *MockS3Service) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.objects[key]
	return body, m.types[key], ok
}

// Keys returns every stored key
func (m *MockS3Service) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
