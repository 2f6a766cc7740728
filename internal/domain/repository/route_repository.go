package repository

import (
	"context"
	"errors"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
)

var (
	ErrRouteNotFound = errors.New("route not found")
)

// RouteRepository define a interface de armazenamento de rotas. Todas as
// escritas são upserts por id: gravações concorrentes para o mesmo id
// resolvem por last-write-wins, cada escrita substitui a linha inteira.
type RouteRepository interface {
	// FindAll retorna todas as rotas, habilitadas ou não
	FindAll(ctx context.Context) ([]*model.RouteEntity, error)

	// FindByID obtém uma rota pelo id (ErrRouteNotFound se ausente)
	FindByID(ctx context.Context, id string) (*model.RouteEntity, error)

	// FindByEnabled retorna apenas as rotas habilitadas
	FindByEnabled(ctx context.Context) ([]*model.RouteEntity, error)

	// FindByServiceName retorna as rotas de um serviço
	FindByServiceName(ctx context.Context, serviceName string) ([]*model.RouteEntity, error)

	// Save insere ou substitui a rota pelo id
	Save(ctx context.Context, route *model.RouteEntity) error

	// DeleteByID remove uma rota pelo id
	DeleteByID(ctx context.Context, id string) error

	// DeleteByServiceName remove todas as rotas de um serviço
	DeleteByServiceName(ctx context.Context, serviceName string) error

	// Count retorna o total de rotas armazenadas
	Count(ctx context.Context) (int64, error)
}
