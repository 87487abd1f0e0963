package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockKeyValueStore is a testify mock of port.KeyValueStore.
type MockKeyValueStore struct {
	mock.Mock
}

// NewMockKeyValueStore creates a mock and asserts its expectations on cleanup.
func NewMockKeyValueStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockKeyValueStore {
	m := &MockKeyValueStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Get mocks port.KeyValueStore.Get.
func (m *MockKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Set mocks port.KeyValueStore.Set.
func (m *MockKeyValueStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// Remove mocks port.KeyValueStore.Remove.
func (m *MockKeyValueStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Close mocks port.KeyValueStore.Close.
func (m *MockKeyValueStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
