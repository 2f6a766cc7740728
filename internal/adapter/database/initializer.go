package database

import (
	"context"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/repository"
	"go.uber.org/zap"
)

// SeedRoutes inicializa rotas de exemplo quando a tabela está vazia
func SeedRoutes(ctx context.Context, repo repository.RouteRepository, gatewayURL string, logger *zap.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	logger.Info("verificando inicialização de rotas", zap.Int64("existentes", count))
	if count > 0 {
		return nil
	}

	seeds := []*model.RouteEntity{
		{
			ID:          "global-countries-manual",
			URI:         "lb://global-service",
			Predicates:  "Path=/api/v1/countries/**",
			Filters:     "StripPrefix=0",
			OrderNum:    model.IntPtr(100),
			Description: "Manual route for global service countries endpoint",
			Enabled:     model.BoolPtr(true),
			ServiceName: "global",
		},
		{
			ID:          "gateway-admin-routes",
			URI:         gatewayURL,
			Predicates:  "Path=/admin/**",
			Filters:     "StripPrefix=0",
			OrderNum:    model.IntPtr(1),
			Description: "Gateway admin routes",
			Enabled:     model.BoolPtr(true),
			ServiceName: "gateway",
		},
	}

	for _, seed := range seeds {
		if err := repo.Save(ctx, seed); err != nil {
			return err
		}
		logger.Info("rota de exemplo criada", zap.String("id", seed.ID))
	}

	return nil
}
