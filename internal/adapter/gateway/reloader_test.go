package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/adapter/gateway"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/infra/refresh"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	defs []model.RouteDefinition
	err  error
}

func (s *stubSource) ListRouteDefinitions(ctx context.Context) ([]model.RouteDefinition, error) {
	return s.defs, s.err
}

func TestTable_Reload(t *testing.T) {
	logger := testutils.TestLogger(t)

	t.Run("reload sorts definitions by order", func(t *testing.T) {
		source := &stubSource{defs: []model.RouteDefinition{
			{ID: "low-priority", Order: 100},
			{ID: "aggregator", Order: 1},
			{ID: "docs", Order: 10},
		}}
		table := gateway.NewTable(source, refresh.NewNotifier(), nil, logger)

		require.NoError(t, table.Reload(context.Background()))

		snapshot := table.Snapshot()
		require.Len(t, snapshot, 3)
		assert.Equal(t, "aggregator", snapshot[0].ID)
		assert.Equal(t, "docs", snapshot[1].ID)
		assert.Equal(t, "low-priority", snapshot[2].ID)
	})

	t.Run("failed reload keeps previous snapshot", func(t *testing.T) {
		source := &stubSource{defs: []model.RouteDefinition{{ID: "keep-me", Order: 1}}}
		table := gateway.NewTable(source, refresh.NewNotifier(), nil, logger)

		require.NoError(t, table.Reload(context.Background()))

		source.err = errors.New("db down")
		require.Error(t, table.Reload(context.Background()))

		snapshot := table.Snapshot()
		require.Len(t, snapshot, 1)
		assert.Equal(t, "keep-me", snapshot[0].ID)
	})

	t.Run("run reloads on refresh signal", func(t *testing.T) {
		source := &stubSource{}
		notifier := refresh.NewNotifier()
		table := gateway.NewTable(source, notifier, nil, logger)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			table.Run(ctx)
			close(done)
		}()

		source.defs = []model.RouteDefinition{{ID: "signaled", Order: 1}}
		notifier.Notify()

		assert.Eventually(t, func() bool {
			return len(table.Snapshot()) == 1
		}, time.Second, 10*time.Millisecond)

		cancel()
		<-done
	})
}
