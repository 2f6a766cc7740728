// Package docs deriva o conjunto de rotas de agregação de documentação a
// partir dos serviços descobertos.
package docs

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/app/route"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/codec"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/discovery"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/repository"
	"go.uber.org/zap"
)

// serviceSuffix remove o sufixo "-service"/"_service" do nome descoberto
// para compor o nome de exibição das rotas de documentação
var serviceSuffix = regexp.MustCompile(`(?i)[-_]service$`)

// infraServices são os serviços de infraestrutura excluídos da agregação
var infraServices = []string{"gateway-server", "discovery-server", "config-server"}

// Aggregator gera as rotas de documentação agregada. Generate é idempotente:
// o mesmo conjunto de serviços descobertos produz sempre o mesmo conjunto de
// rotas (ids e campos), sobrescrevendo por id em vez de duplicar. Rotas de
// serviços que sumiram da descoberta não são removidas; a regeração é o
// único mecanismo de atualização.
type Aggregator struct {
	discovery  discovery.Client
	routes     *route.Service
	repo       repository.RouteRepository
	gatewayURL string
	logger     *zap.Logger
}

func NewAggregator(dc discovery.Client, routes *route.Service, repo repository.RouteRepository, gatewayURL string, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		discovery:  dc,
		routes:     routes,
		repo:       repo,
		gatewayURL: gatewayURL,
		logger:     logger,
	}
}

// Generate deriva e persiste as rotas de documentação para os serviços
// atualmente descobertos
func (a *Aggregator) Generate(ctx context.Context) error {
	a.logger.Info("gerando rotas de documentação agregada")

	discovered, err := a.discovery.Services(ctx)
	if err != nil {
		return fmt.Errorf("falha ao listar serviços descobertos: %w", err)
	}

	services := make([]string, 0, len(discovered))
	for _, service := range discovered {
		if !isInfraService(service) {
			services = append(services, service)
		}
	}

	a.logger.Info("serviços para agregação de documentação", zap.Strings("services", services))

	if err := a.generateMainRoute(ctx); err != nil {
		return err
	}

	for _, serviceName := range services {
		if err := a.generateServiceRoutes(ctx, serviceName); err != nil {
			return err
		}
	}

	return nil
}

// generateMainRoute emite a rota agregadora principal, que reescreve os
// caminhos do swagger-ui para a página agregadora do próprio gateway
func (a *Aggregator) generateMainRoute(ctx context.Context) error {
	mainRoute := &model.RouteEntity{
		ID:          "gateway-swagger-aggregator",
		URI:         a.gatewayURL,
		Predicates:  "Path=/swagger-ui.html,Path=/swagger-ui/**,Path=/swagger-ui",
		Filters:     "RewritePath=/swagger-ui.*," + codec.AggregatorPath,
		OrderNum:    model.IntPtr(1),
		Description: "Main Swagger UI aggregator for all services",
		Enabled:     model.BoolPtr(true),
		ServiceName: "gateway",
	}

	if _, err := a.routes.Save(ctx, mainRoute); err != nil {
		return err
	}

	a.logger.Info("rota agregadora principal gerada")
	return nil
}

// generateServiceRoutes emite as três rotas de documentação de um serviço:
// UI, especificação da API e acesso direto. O StripPrefix de cada uma
// corresponde ao número de segmentos de caminho consumidos pelo predicado.
func (a *Aggregator) generateServiceRoutes(ctx context.Context, serviceName string) error {
	displayName := serviceSuffix.ReplaceAllString(serviceName, "")

	serviceRoutes := []*model.RouteEntity{
		{
			ID:          "swagger-" + displayName + "-ui",
			URI:         "lb://" + serviceName,
			Predicates:  "Path=/docs/" + displayName + "/swagger-ui/**",
			Filters:     "StripPrefix=2",
			OrderNum:    model.IntPtr(10),
			Description: "Swagger UI for " + displayName + " service",
			Enabled:     model.BoolPtr(true),
			ServiceName: displayName,
		},
		{
			ID:          "swagger-" + displayName + "-api-docs",
			URI:         "lb://" + serviceName,
			Predicates:  "Path=/docs/" + displayName + "/v3/api-docs/**",
			Filters:     "StripPrefix=2",
			OrderNum:    model.IntPtr(11),
			Description: "OpenAPI docs for " + displayName + " service",
			Enabled:     model.BoolPtr(true),
			ServiceName: displayName,
		},
		{
			ID:          "direct-swagger-" + displayName,
			URI:         "lb://" + serviceName,
			Predicates:  "Path=/" + displayName + "/swagger-ui/**",
			Filters:     "StripPrefix=1",
			OrderNum:    model.IntPtr(12),
			Description: "Direct Swagger UI access for " + displayName + " service",
			Enabled:     model.BoolPtr(true),
			ServiceName: displayName,
		},
	}

	for _, r := range serviceRoutes {
		if _, err := a.routes.Save(ctx, r); err != nil {
			return err
		}
	}

	a.logger.Info("rotas de documentação geradas", zap.String("service", displayName))
	return nil
}

// ServicesWithDocs lista os serviços que possuem rotas de documentação
// registradas
func (a *Aggregator) ServicesWithDocs(ctx context.Context) ([]string, error) {
	entities, err := a.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var services []string
	for _, entity := range entities {
		if !strings.Contains(entity.ID, "swagger") || entity.ServiceName == "" {
			continue
		}
		if !seen[entity.ServiceName] {
			seen[entity.ServiceName] = true
			services = append(services, entity.ServiceName)
		}
	}

	return services, nil
}

func isInfraService(name string) bool {
	for _, infra := range infraServices {
		if strings.EqualFold(name, infra) {
			return true
		}
	}
	return false
}
