package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDiscoveryClient é um mock para a interface discovery.Client
type MockDiscoveryClient struct {
	mock.Mock
}

func (m *MockDiscoveryClient) Services(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockPublisher é um mock para a interface sync.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

// MockGenerator é um mock para o gerador de rotas de documentação
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
