package sync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/app/route"
	appsync "github.com/RKOrtega94/backend.core.gateway-server/internal/app/sync"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/infra/refresh"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/mocks"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type engineFixture struct {
	engine    *appsync.Engine
	repo      *mocks.MockRouteRepository
	cache     *mocks.MockCache
	generator *mocks.MockGenerator
	notifier  *refresh.Notifier
}

func newEngineFixture(t *testing.T, policy appsync.Policy) *engineFixture {
	logger := testutils.TestLogger(t)
	repo := new(mocks.MockRouteRepository)
	cache := new(mocks.MockCache)
	generator := new(mocks.MockGenerator)
	notifier := refresh.NewNotifier()

	routeService := route.NewService(repo, cache, notifier, logger)
	engine := appsync.NewEngine(routeService, repo, generator, policy, nil, logger)

	return &engineFixture{
		engine:    engine,
		repo:      repo,
		cache:     cache,
		generator: generator,
		notifier:  notifier,
	}
}

func (f *engineFixture) refreshSignaled() bool {
	select {
	case <-f.notifier.C():
		return true
	default:
		return false
	}
}

func TestEngine_HandleRouteEvent(t *testing.T) {
	t.Run("persists event without refresh", func(t *testing.T) {
		f := newEngineFixture(t, appsync.Policy{})

		f.repo.On("Save", mock.Anything, mock.MatchedBy(func(r *model.RouteEntity) bool {
			return r.ID == "orders-service" &&
				r.URI == "lb://orders-service" &&
				r.Predicates == "Path=/orders/**"
		})).Return(nil).Once()

		payload := []byte(`{"id":"orders-service","uri":"lb://orders-service","predicates":"Path=/orders/**","filters":""}`)
		result := f.engine.HandleRouteEvent(context.Background(), payload)

		assert.Equal(t, appsync.Accepted, result.Outcome)
		assert.False(t, f.refreshSignaled(), "raw event channel must not signal refresh")
		f.repo.AssertExpectations(t)
	})

	t.Run("malformed payload fails", func(t *testing.T) {
		f := newEngineFixture(t, appsync.Policy{})

		result := f.engine.HandleRouteEvent(context.Background(), []byte("not-json"))

		assert.Equal(t, appsync.Failed, result.Outcome)
		require.Error(t, result.Err)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		f := newEngineFixture(t, appsync.Policy{})

		f.repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		payload := []byte(`{"id":"x","uri":"lb://x"}`)
		result := f.engine.HandleRouteEvent(context.Background(), payload)

		assert.Equal(t, appsync.Failed, result.Outcome)
	})
}

func TestEngine_HandleRouteConfig(t *testing.T) {
	policy := appsync.Policy{
		IgnoreEmptyPredicates: true,
		IgnoredPaths:          []string{"/webjars/**", "/swagger-resources/**"},
	}

	t.Run("accepted message joins segments and saves via registry", func(t *testing.T) {
		f := newEngineFixture(t, policy)

		f.repo.On("Save", mock.Anything, mock.MatchedBy(func(r *model.RouteEntity) bool {
			return r.ID == "orders-route" &&
				r.Predicates == "Path=/orders/**,Method=GET" &&
				r.Filters == "StripPrefix=1" &&
				r.ServiceName == "orders-service"
		})).Return(nil).Once()
		f.cache.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

		payload := []byte(`{
			"routeId": "orders-route",
			"uri": "lb://orders-service",
			"predicates": ["Path=/orders/**", "Method=GET"],
			"filters": ["StripPrefix=1"],
			"serviceName": "orders-service",
			"enabled": true
		}`)
		result := f.engine.HandleRouteConfig(context.Background(), payload)

		assert.Equal(t, appsync.Accepted, result.Outcome)
		assert.True(t, f.refreshSignaled(), "accepted config must signal refresh")
		f.repo.AssertExpectations(t)
	})

	t.Run("empty predicates rejected before save", func(t *testing.T) {
		f := newEngineFixture(t, policy)

		payload := []byte(`{"routeId":"r1","uri":"lb://x","predicates":[],"filters":[]}`)
		result := f.engine.HandleRouteConfig(context.Background(), payload)

		assert.Equal(t, appsync.Rejected, result.Outcome)
		assert.False(t, f.refreshSignaled())
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("ignored path substring rejected", func(t *testing.T) {
		f := newEngineFixture(t, policy)

		payload := []byte(`{"routeId":"r2","uri":"lb://x","predicates":["Path=/webjars/**"],"filters":[]}`)
		result := f.engine.HandleRouteConfig(context.Background(), payload)

		assert.Equal(t, appsync.Rejected, result.Outcome)
		assert.Contains(t, result.Reason, "/webjars/**")
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("blank predicate rejected", func(t *testing.T) {
		f := newEngineFixture(t, policy)

		payload := []byte(`{"routeId":"r3","uri":"lb://x","predicates":["   "],"filters":[]}`)
		result := f.engine.HandleRouteConfig(context.Background(), payload)

		assert.Equal(t, appsync.Rejected, result.Outcome)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("policy disabled accepts empty predicates", func(t *testing.T) {
		f := newEngineFixture(t, appsync.Policy{IgnoreEmptyPredicates: false})

		f.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		f.cache.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

		payload := []byte(`{"routeId":"r4","uri":"lb://x","predicates":[],"filters":[]}`)
		result := f.engine.HandleRouteConfig(context.Background(), payload)

		assert.Equal(t, appsync.Accepted, result.Outcome)
	})

	t.Run("malformed payload fails", func(t *testing.T) {
		f := newEngineFixture(t, policy)

		result := f.engine.HandleRouteConfig(context.Background(), []byte("{"))

		assert.Equal(t, appsync.Failed, result.Outcome)
		require.Error(t, result.Err)
	})
}

func TestEngine_OnHeartbeat(t *testing.T) {
	t.Run("first heartbeat always generates", func(t *testing.T) {
		f := newEngineFixture(t, appsync.Policy{HeartbeatCadence: 10})

		f.generator.On("Generate", mock.Anything).Return(nil).Once()

		f.engine.OnHeartbeat(context.Background())

		f.generator.AssertExpectations(t)
	})

	t.Run("subsequent heartbeats throttled by cadence", func(t *testing.T) {
		f := newEngineFixture(t, appsync.Policy{HeartbeatCadence: 5})

		// Heartbeats 1 (first) and 5 (cadence) generate; 2..4 do not
		f.generator.On("Generate", mock.Anything).Return(nil).Times(2)

		for i := 0; i < 5; i++ {
			f.engine.OnHeartbeat(context.Background())
		}

		f.generator.AssertExpectations(t)
	})

	t.Run("generator error is swallowed", func(t *testing.T) {
		f := newEngineFixture(t, appsync.Policy{HeartbeatCadence: 10})

		f.generator.On("Generate", mock.Anything).Return(errors.New("discovery offline")).Once()

		assert.NotPanics(t, func() {
			f.engine.OnHeartbeat(context.Background())
		})
	})
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "accepted", appsync.Accepted.String())
	assert.Equal(t, "rejected", appsync.Rejected.String())
	assert.Equal(t, "failed", appsync.Failed.String())
}
