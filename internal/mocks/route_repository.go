package mocks

import (
	"context"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockRouteRepository é um mock para a interface RouteRepository
type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) FindAll(ctx context.Context) ([]*model.RouteEntity, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RouteEntity), args.Error(1)
}

func (m *MockRouteRepository) FindByID(ctx context.Context, id string) (*model.RouteEntity, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RouteEntity), args.Error(1)
}

func (m *MockRouteRepository) FindByEnabled(ctx context.Context) ([]*model.RouteEntity, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RouteEntity), args.Error(1)
}

func (m *MockRouteRepository) FindByServiceName(ctx context.Context, serviceName string) ([]*model.RouteEntity, error) {
	args := m.Called(ctx, serviceName)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RouteEntity), args.Error(1)
}

func (m *MockRouteRepository) Save(ctx context.Context, route *model.RouteEntity) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

func (m *MockRouteRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRouteRepository) DeleteByServiceName(ctx context.Context, serviceName string) error {
	args := m.Called(ctx, serviceName)
	return args.Error(0)
}

func (m *MockRouteRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
