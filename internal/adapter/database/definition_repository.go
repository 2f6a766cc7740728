package database

import (
	"context"
	"fmt"
	"net/url"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/codec"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/repository"
	"go.uber.org/zap"
)

// DefinitionRepository é o adaptador entre as linhas persistidas e as
// definições estruturadas consumidas pelo motor de proxy. É o seam que o
// motor lê a cada refresh; seguro para chamadas concorrentes com as
// escritas do motor de sincronização.
type DefinitionRepository struct {
	repo   repository.RouteRepository
	codec  *codec.Codec
	logger *zap.Logger
}

// NewDefinitionRepository cria um novo adaptador de definições de rota
func NewDefinitionRepository(repo repository.RouteRepository, c *codec.Codec, logger *zap.Logger) *DefinitionRepository {
	return &DefinitionRepository{
		repo:   repo,
		codec:  c,
		logger: logger,
	}
}

// ListRouteDefinitions retorna as definições das rotas habilitadas. Falhas
// de conversão de uma rota individual derrubam apenas aquela rota da
// listagem: disponibilidade parcial em vez de falha total.
func (r *DefinitionRepository) ListRouteDefinitions(ctx context.Context) ([]model.RouteDefinition, error) {
	entities, err := r.repo.FindByEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar definições de rota: %w", err)
	}

	definitions := make([]model.RouteDefinition, 0, len(entities))
	for _, entity := range entities {
		definition, err := r.toDefinition(entity)
		if err != nil {
			r.logger.Error("falha ao converter rota em definição, ignorando",
				zap.String("id", entity.ID),
				zap.Error(err))
			continue
		}
		definitions = append(definitions, definition)
	}

	return definitions, nil
}

// SaveDefinition recodifica e persiste a definição. A linha é gravada com
// enabled=true incondicionalmente: não existe "salvar desabilitada" por este
// adaptador, desabilitar é uma operação separada do serviço de rotas.
func (r *DefinitionRepository) SaveDefinition(ctx context.Context, definition model.RouteDefinition) error {
	entity := &model.RouteEntity{
		ID:         definition.ID,
		URI:        definition.URI,
		Predicates: r.codec.EncodePredicates(definition.Predicates),
		Filters:    r.codec.EncodeFilters(definition.Filters),
		OrderNum:   model.IntPtr(definition.Order),
		Enabled:    model.BoolPtr(true),
	}

	if err := r.repo.Save(ctx, entity); err != nil {
		return fmt.Errorf("falha ao persistir definição de rota %s: %w", definition.ID, err)
	}
	return nil
}

// DeleteDefinition remove a definição pelo id
func (r *DefinitionRepository) DeleteDefinition(ctx context.Context, id string) error {
	return r.repo.DeleteByID(ctx, id)
}

func (r *DefinitionRepository) toDefinition(entity *model.RouteEntity) (model.RouteDefinition, error) {
	if entity.URI == "" {
		return model.RouteDefinition{}, fmt.Errorf("rota %s sem uri", entity.ID)
	}
	if _, err := url.Parse(entity.URI); err != nil {
		return model.RouteDefinition{}, fmt.Errorf("uri inválida na rota %s: %w", entity.ID, err)
	}

	return model.RouteDefinition{
		ID:         entity.ID,
		URI:        entity.URI,
		Predicates: r.codec.DecodePredicates(entity.Predicates),
		Filters:    r.codec.DecodeFilters(entity.Filters),
		Order:      entity.Order(),
	}, nil
}
