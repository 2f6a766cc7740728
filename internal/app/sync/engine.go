// Package sync implementa o motor de sincronização de rotas: consome os
// eventos de descoberta e as mensagens de configuração do barramento e
// mantém a tabela de rotas persistida em dia.
package sync

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/app/route"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/repository"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/infra/metrics"
	"go.uber.org/zap"
)

// RouteEvent é o payload do canal de eventos brutos de rota (gateway-topic).
// Os campos predicates/filters são texto que o produtor controla; este canal
// é alimentado por produtores internos confiáveis e persiste sem validação,
// ao contrário do canal de configuração.
type RouteEvent struct {
	ID         string `json:"id"`
	URI        string `json:"uri"`
	Predicates string `json:"predicates"`
	Filters    string `json:"filters"`
}

// RouteConfigMessage é o payload do canal de configuração de rotas
// (gateway-route-config)
type RouteConfigMessage struct {
	RouteID     string   `json:"routeId"`
	URI         string   `json:"uri"`
	Predicates  []string `json:"predicates"`
	Filters     []string `json:"filters"`
	OrderNum    *int     `json:"orderNum"`
	Description string   `json:"description"`
	Enabled     *bool    `json:"enabled"`
	ServiceName string   `json:"serviceName"`
}

// Generator é o gerador de rotas de documentação invocado pela cadência de
// heartbeats
type Generator interface {
	Generate(ctx context.Context) error
}

// Policy é a política de aceitação do canal de configuração e a cadência de
// regeneração de rotas de documentação
type Policy struct {
	IgnoreEmptyPredicates bool
	// IgnoredPaths rejeita mensagens cujos predicados contenham qualquer um
	// destes trechos de caminho
	IgnoredPaths []string
	// HeartbeatCadence regenera as rotas de documentação a cada N heartbeats
	HeartbeatCadence int
	// PersistTimeout limita cada chamada de persistência dos canais de
	// mensagens
	PersistTimeout time.Duration
}

// Engine é o motor de sincronização. Os dois canais de mensagens processam
// uma mensagem por vez por tópico; entre canais não há garantia de ordem, e
// gravações concorrentes no mesmo id resolvem por last-write-wins na camada
// de armazenamento.
type Engine struct {
	routes    *route.Service
	repo      repository.RouteRepository
	generator Generator
	policy    Policy
	metrics   *metrics.SyncMetrics
	logger    *zap.Logger

	// heartbeats é incrementado a cada sinal de descoberta; atômico porque o
	// framework de descoberta pode entregar heartbeats de threads distintas
	heartbeats atomic.Int64
	generated  atomic.Bool
}

func NewEngine(routes *route.Service, repo repository.RouteRepository, generator Generator, policy Policy, m *metrics.SyncMetrics, logger *zap.Logger) *Engine {
	if policy.HeartbeatCadence < 1 {
		policy.HeartbeatCadence = 10
	}
	return &Engine{
		routes:    routes,
		repo:      repo,
		generator: generator,
		policy:    policy,
		metrics:   m,
		logger:    logger,
	}
}

// HandleRouteEvent processa uma mensagem do canal de eventos brutos: decodifica
// e persiste diretamente, sem política de aceitação e sem disparar refresh.
func (e *Engine) HandleRouteEvent(ctx context.Context, payload []byte) Result {
	e.logger.Info("mensagem de evento de rota recebida", zap.ByteString("payload", payload))

	var event RouteEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		e.logger.Error("falha ao decodificar evento de rota",
			zap.ByteString("payload", payload),
			zap.Error(err))
		return e.done("route-events", failed(err))
	}

	entity := &model.RouteEntity{
		ID:         event.ID,
		URI:        event.URI,
		Predicates: event.Predicates,
		Filters:    event.Filters,
	}

	persistCtx, cancel := e.persistContext(ctx)
	defer cancel()

	if err := e.repo.Save(persistCtx, entity); err != nil {
		e.logger.Error("falha ao persistir evento de rota",
			zap.String("id", entity.ID),
			zap.Error(err))
		return e.done("route-events", failed(err))
	}

	e.logger.Info("rota salva a partir de evento",
		zap.String("id", entity.ID),
		zap.String("uri", entity.URI))
	return e.done("route-events", accepted())
}

// HandleRouteConfig processa uma mensagem do canal de configuração: aplica a
// política de aceitação na ordem e, quando aceita, persiste pelo serviço de
// rotas (que dispara o refresh). Rejeições são descartadas em silêncio, só
// log de debug; não há retry nem dead-letter.
func (e *Engine) HandleRouteConfig(ctx context.Context, payload []byte) Result {
	e.logger.Info("mensagem de configuração de rota recebida", zap.ByteString("payload", payload))

	var message RouteConfigMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		e.logger.Error("falha ao decodificar configuração de rota",
			zap.ByteString("payload", payload),
			zap.Error(err))
		return e.done("route-config", failed(err))
	}

	if reason, ok := e.checkPolicy(message); !ok {
		e.logger.Debug("configuração de rota rejeitada pela política",
			zap.String("routeId", message.RouteID),
			zap.String("reason", reason))
		return e.done("route-config", rejected(reason))
	}

	// Os elementos já chegam em forma de segmento (canônica ou legada); a
	// junção por vírgula monta a string codificada sem passar pelo codec
	entity := &model.RouteEntity{
		ID:          message.RouteID,
		URI:         message.URI,
		Predicates:  strings.Join(message.Predicates, ","),
		Filters:     strings.Join(message.Filters, ","),
		OrderNum:    message.OrderNum,
		Description: message.Description,
		Enabled:     message.Enabled,
		ServiceName: message.ServiceName,
	}

	persistCtx, cancel := e.persistContext(ctx)
	defer cancel()

	if _, err := e.routes.Save(persistCtx, entity); err != nil {
		e.logger.Error("falha ao persistir configuração de rota",
			zap.String("id", entity.ID),
			zap.Error(err))
		return e.done("route-config", failed(err))
	}

	e.logger.Info("configuração de rota processada",
		zap.String("id", entity.ID),
		zap.String("service", entity.ServiceName))
	return e.done("route-config", accepted())
}

// checkPolicy aplica a política de aceitação na ordem; a primeira regra que
// rejeitar encerra a avaliação
func (e *Engine) checkPolicy(message RouteConfigMessage) (string, bool) {
	if e.policy.IgnoreEmptyPredicates && len(message.Predicates) == 0 {
		return "predicados vazios", false
	}

	for _, predicate := range message.Predicates {
		for _, ignored := range e.policy.IgnoredPaths {
			if ignored != "" && strings.Contains(predicate, ignored) {
				return "caminho ignorado: " + ignored, false
			}
		}
	}

	if e.policy.IgnoreEmptyPredicates {
		for _, predicate := range message.Predicates {
			if strings.TrimSpace(predicate) == "" {
				return "predicado em branco", false
			}
		}
	}

	return "", true
}

// OnHeartbeat reage a um sinal de descoberta. O primeiro heartbeat após o
// início sempre gera as rotas de documentação; depois disso a geração roda a
// cada N heartbeats. Erros de geração são registrados e nunca propagados ao
// despachante de eventos de descoberta.
func (e *Engine) OnHeartbeat(ctx context.Context) {
	count := e.heartbeats.Add(1)

	first := e.generated.CompareAndSwap(false, true)
	if !first && count%int64(e.policy.HeartbeatCadence) != 0 {
		return
	}

	if first {
		e.logger.Info("primeiro heartbeat de descoberta, gerando rotas de documentação")
	} else {
		e.logger.Debug("cadência de heartbeat atingida, regenerando rotas de documentação",
			zap.Int64("heartbeat", count))
	}

	if err := e.generator.Generate(ctx); err != nil {
		e.logger.Error("falha ao gerar rotas de documentação", zap.Error(err))
		if e.metrics != nil {
			e.metrics.GeneratorRun("error")
		}
		return
	}

	if e.metrics != nil {
		e.metrics.GeneratorRun("success")
	}
}

// RunHeartbeats emite heartbeats de descoberta na cadência configurada até o
// contexto ser cancelado
func (e *Engine) RunHeartbeats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Primeiro heartbeat imediato para a geração inicial pós-startup
	e.OnHeartbeat(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.OnHeartbeat(ctx)
		}
	}
}

func (e *Engine) persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.policy.PersistTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.policy.PersistTimeout)
}

func (e *Engine) done(channel string, result Result) Result {
	if e.metrics != nil {
		e.metrics.MessageProcessed(channel, result.Outcome.String())
	}
	return result
}
