// Package gateway mantém a tabela de rotas em memória usada pelo plano de
// dados. A tabela é recarregada do armazenamento sempre que o sinal de
// refresh é emitido; sinais emitidos durante um recarregamento são
// coalescidos em um único recarregamento subsequente.
package gateway

import (
	"context"
	"sort"
	"sync"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/infra/metrics"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/infra/refresh"
	"go.uber.org/zap"
)

// DefinitionSource fornece as definições de rota ativas já decodificadas
type DefinitionSource interface {
	ListRouteDefinitions(ctx context.Context) ([]model.RouteDefinition, error)
}

// Table é a visão em memória das rotas ativas, ordenadas por precedência
type Table struct {
	source   DefinitionSource
	notifier *refresh.Notifier
	metrics  *metrics.SyncMetrics
	logger   *zap.Logger

	mu   sync.RWMutex
	defs []model.RouteDefinition
}

func NewTable(source DefinitionSource, notifier *refresh.Notifier, syncMetrics *metrics.SyncMetrics, logger *zap.Logger) *Table {
	return &Table{
		source:   source,
		notifier: notifier,
		metrics:  syncMetrics,
		logger:   logger,
	}
}

// Snapshot devolve a visão atual da tabela. O slice retornado não deve ser
// modificado pelo chamador.
func (t *Table) Snapshot() []model.RouteDefinition {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.defs
}

// Reload recarrega a tabela a partir do armazenamento
func (t *Table) Reload(ctx context.Context) error {
	defs, err := t.source.ListRouteDefinitions(ctx)
	if err != nil {
		t.logger.Error("falha ao recarregar tabela de rotas", zap.Error(err))
		return err
	}

	sort.SliceStable(defs, func(i, j int) bool {
		return defs[i].Order < defs[j].Order
	})

	t.mu.Lock()
	t.defs = defs
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.SetRouteTableSize(len(defs))
	}
	t.logger.Info("tabela de rotas recarregada", zap.Int("routes", len(defs)))
	return nil
}

// Run consome os sinais de refresh até o contexto ser cancelado
func (t *Table) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.notifier.C():
			if t.metrics != nil {
				t.metrics.RefreshSignaled()
			}
			if err := t.Reload(ctx); err != nil && ctx.Err() != nil {
				return
			}
		}
	}
}
