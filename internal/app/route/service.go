package route

import (
	"context"
	"errors"
	"time"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/repository"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/infra/refresh"
	"github.com/RKOrtega94/backend.core.gateway-server/pkg/cache"
	"go.uber.org/zap"
)

const enabledRoutesCacheKey = "routes:enabled"

// Service é o serviço de registro de rotas: CRUD e habilita/desabilita.
// Toda operação de mutação termina publicando o sinal de refresh para o
// motor de proxy; chamadas que precisem de várias mutações com um único
// refresh devem orquestrar fora deste contrato.
type Service struct {
	repo     repository.RouteRepository
	cache    cache.Cache
	notifier *refresh.Notifier
	logger   *zap.Logger
	cacheTTL time.Duration
}

func NewService(repo repository.RouteRepository, c cache.Cache, notifier *refresh.Notifier, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    c,
		notifier: notifier,
		logger:   logger,
		cacheTTL: 5 * time.Minute,
	}
}

// Save insere ou substitui uma rota e dispara o refresh
func (s *Service) Save(ctx context.Context, route *model.RouteEntity) (*model.RouteEntity, error) {
	s.logger.Info("salvando rota", zap.String("id", route.ID))

	if err := s.repo.Save(ctx, route); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.Refresh()
	return route, nil
}

// Delete remove uma rota pelo id e dispara o refresh
func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Info("excluindo rota", zap.String("id", id))

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	s.Refresh()
	return nil
}

// Toggle habilita/desabilita uma rota. É um no-op quando o id não existe.
func (s *Service) Toggle(ctx context.Context, id string, enabled bool) error {
	route, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			s.logger.Debug("toggle ignorado, rota não encontrada", zap.String("id", id))
			return nil
		}
		return err
	}

	route.Enabled = model.BoolPtr(enabled)
	if err := s.repo.Save(ctx, route); err != nil {
		return err
	}

	s.logger.Info("rota alternada",
		zap.String("id", id),
		zap.Bool("enabled", enabled))

	s.invalidateCache(ctx)
	s.Refresh()
	return nil
}

// GetAllEnabled retorna todas as rotas habilitadas
func (s *Service) GetAllEnabled(ctx context.Context) ([]*model.RouteEntity, error) {
	var routes []*model.RouteEntity

	found, err := s.cache.Get(ctx, enabledRoutesCacheKey, &routes)
	if err != nil {
		s.logger.Warn("erro ao buscar rotas do cache", zap.Error(err))
	} else if found {
		return routes, nil
	}

	routes, err = s.repo.FindByEnabled(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, enabledRoutesCacheKey, routes, s.cacheTTL); err != nil {
		s.logger.Warn("erro ao armazenar rotas no cache", zap.Error(err))
	}

	return routes, nil
}

// GetByService retorna as rotas de um serviço
func (s *Service) GetByService(ctx context.Context, serviceName string) ([]*model.RouteEntity, error) {
	return s.repo.FindByServiceName(ctx, serviceName)
}

// GetByID obtém uma rota pelo id
func (s *Service) GetByID(ctx context.Context, id string) (*model.RouteEntity, error) {
	return s.repo.FindByID(ctx, id)
}

// Refresh publica o sinal de recarga da tabela de rotas. É uma notificação
// fire-and-forget, sem contrato de confirmação; sinais publicados antes da
// recarga coalescem em um só.
func (s *Service) Refresh() {
	s.logger.Debug("publicando sinal de refresh de rotas")
	s.notifier.Notify()
}

func (s *Service) invalidateCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, enabledRoutesCacheKey); err != nil {
		s.logger.Warn("erro ao invalidar cache de rotas", zap.Error(err))
	}
}
