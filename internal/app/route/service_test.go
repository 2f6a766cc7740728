package route_test

import (
	"errors"
	"testing"
	"time"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/app/route"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/repository"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/infra/refresh"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/mocks"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func drained(notifier *refresh.Notifier) bool {
	select {
	case <-notifier.C():
		return true
	default:
		return false
	}
}

func TestService_Save(t *testing.T) {
	logger := testutils.TestLogger(t)

	t.Run("save invalidates cache and signals refresh", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockRouteRepository)
		mockCache := new(mocks.MockCache)
		notifier := refresh.NewNotifier()
		service := route.NewService(mockRepo, mockCache, notifier, logger)

		entity := &model.RouteEntity{
			ID:         "orders-route",
			URI:        "lb://orders-service",
			Predicates: "Path=/orders/**",
			Enabled:    model.BoolPtr(true),
		}

		mockRepo.On("Save", mock.Anything, entity).Return(nil).Once()
		mockCache.On("Delete", mock.Anything, "routes:enabled").Return(nil).Once()

		saved, err := service.Save(ctx, entity)

		require.NoError(t, err)
		assert.Equal(t, entity, saved)
		assert.True(t, drained(notifier), "expected a refresh signal after save")
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("repository error skips refresh", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockRouteRepository)
		mockCache := new(mocks.MockCache)
		notifier := refresh.NewNotifier()
		service := route.NewService(mockRepo, mockCache, notifier, logger)

		mockRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		_, err := service.Save(ctx, &model.RouteEntity{ID: "x", URI: "lb://x"})

		require.Error(t, err)
		assert.False(t, drained(notifier), "no refresh signal expected on failure")
		mockCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestService_Toggle(t *testing.T) {
	logger := testutils.TestLogger(t)

	t.Run("toggle disables an existing route", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockRouteRepository)
		mockCache := new(mocks.MockCache)
		notifier := refresh.NewNotifier()
		service := route.NewService(mockRepo, mockCache, notifier, logger)

		existing := &model.RouteEntity{
			ID:      "orders-route",
			URI:     "lb://orders-service",
			Enabled: model.BoolPtr(true),
		}

		mockRepo.On("FindByID", mock.Anything, "orders-route").Return(existing, nil).Once()
		mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(r *model.RouteEntity) bool {
			return r.ID == "orders-route" && !r.IsEnabled()
		})).Return(nil).Once()
		mockCache.On("Delete", mock.Anything, "routes:enabled").Return(nil).Once()

		err := service.Toggle(ctx, "orders-route", false)

		require.NoError(t, err)
		assert.True(t, drained(notifier))
		mockRepo.AssertExpectations(t)
	})

	t.Run("toggle of unknown id is a no-op", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockRouteRepository)
		mockCache := new(mocks.MockCache)
		notifier := refresh.NewNotifier()
		service := route.NewService(mockRepo, mockCache, notifier, logger)

		mockRepo.On("FindByID", mock.Anything, "ghost").
			Return(nil, repository.ErrRouteNotFound).Once()

		err := service.Toggle(ctx, "ghost", true)

		require.NoError(t, err)
		assert.False(t, drained(notifier), "no refresh signal expected for unknown id")
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_GetAllEnabled(t *testing.T) {
	logger := testutils.TestLogger(t)

	t.Run("cache miss loads from repository and caches", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockRouteRepository)
		mockCache := new(mocks.MockCache)
		notifier := refresh.NewNotifier()
		service := route.NewService(mockRepo, mockCache, notifier, logger)

		expected := []*model.RouteEntity{
			{ID: "a", URI: "lb://a-service", Enabled: model.BoolPtr(true)},
		}

		mockCache.On("Get", mock.Anything, "routes:enabled", mock.Anything).
			Return(false, nil).Once()
		mockRepo.On("FindByEnabled", mock.Anything).Return(expected, nil).Once()
		mockCache.On("Set", mock.Anything, "routes:enabled", expected, 5*time.Minute).
			Return(nil).Once()

		routes, err := service.GetAllEnabled(ctx)

		require.NoError(t, err)
		assert.Equal(t, expected, routes)
		mockCache.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("cache error falls through to repository", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockRouteRepository)
		mockCache := new(mocks.MockCache)
		notifier := refresh.NewNotifier()
		service := route.NewService(mockRepo, mockCache, notifier, logger)

		mockCache.On("Get", mock.Anything, "routes:enabled", mock.Anything).
			Return(false, errors.New("cache offline")).Once()
		mockRepo.On("FindByEnabled", mock.Anything).
			Return([]*model.RouteEntity{}, nil).Once()
		mockCache.On("Set", mock.Anything, "routes:enabled", mock.Anything, mock.Anything).
			Return(nil).Once()

		routes, err := service.GetAllEnabled(ctx)

		require.NoError(t, err)
		assert.Empty(t, routes)
	})
}
