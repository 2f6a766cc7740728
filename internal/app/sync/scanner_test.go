package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	appsync "github.com/RKOrtega94/backend.core.gateway-server/internal/app/sync"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/mocks"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScanner_Scan(t *testing.T) {
	logger := testutils.TestLogger(t)

	t.Run("publishes one event per discovered service", func(t *testing.T) {
		discoveryClient := new(mocks.MockDiscoveryClient)
		publisher := new(mocks.MockPublisher)
		scanner := appsync.NewScanner(discoveryClient, publisher, "gateway-topic", logger)

		discoveryClient.On("Services", mock.Anything).
			Return([]string{"orders-service", "billing-service"}, nil).Once()

		publisher.On("Publish", mock.Anything, "gateway-topic", "orders-service",
			mock.MatchedBy(func(payload []byte) bool {
				var event appsync.RouteEvent
				if err := json.Unmarshal(payload, &event); err != nil {
					return false
				}
				return event.ID == "orders-service" &&
					event.URI == "lb://orders-service" &&
					event.Filters == "[]"
			})).Return(nil).Once()

		publisher.On("Publish", mock.Anything, "gateway-topic", "billing-service", mock.Anything).
			Return(nil).Once()

		err := scanner.Scan(context.Background())

		require.NoError(t, err)
		discoveryClient.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("publish failure does not stop remaining services", func(t *testing.T) {
		discoveryClient := new(mocks.MockDiscoveryClient)
		publisher := new(mocks.MockPublisher)
		scanner := appsync.NewScanner(discoveryClient, publisher, "gateway-topic", logger)

		discoveryClient.On("Services", mock.Anything).
			Return([]string{"a-service", "b-service"}, nil).Once()

		publisher.On("Publish", mock.Anything, "gateway-topic", "a-service", mock.Anything).
			Return(errors.New("broker offline")).Once()
		publisher.On("Publish", mock.Anything, "gateway-topic", "b-service", mock.Anything).
			Return(nil).Once()

		err := scanner.Scan(context.Background())

		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("discovery failure aborts the scan", func(t *testing.T) {
		discoveryClient := new(mocks.MockDiscoveryClient)
		publisher := new(mocks.MockPublisher)
		scanner := appsync.NewScanner(discoveryClient, publisher, "gateway-topic", logger)

		discoveryClient.On("Services", mock.Anything).
			Return(nil, errors.New("registry unavailable")).Once()

		err := scanner.Scan(context.Background())

		assert.Error(t, err)
		publisher.AssertNotCalled(t, "Publish",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
