package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/discovery"
	"go.uber.org/zap"
)

// Publisher publica mensagens no barramento
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// Scanner publica, na subida do gateway, um evento bruto de rota para cada
// serviço descoberto, alimentando o canal de eventos com as rotas padrão
// lb://<serviço>.
type Scanner struct {
	discovery discovery.Client
	publisher Publisher
	topic     string
	logger    *zap.Logger
}

func NewScanner(dc discovery.Client, publisher Publisher, topic string, logger *zap.Logger) *Scanner {
	return &Scanner{
		discovery: dc,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

// Scan publica um evento de rota por serviço descoberto. Falhas individuais
// de publicação são registradas e não interrompem os demais serviços.
func (s *Scanner) Scan(ctx context.Context) error {
	services, err := s.discovery.Services(ctx)
	if err != nil {
		return fmt.Errorf("falha ao descobrir serviços: %w", err)
	}

	s.logger.Info("serviços descobertos", zap.Strings("services", services))

	for _, serviceID := range services {
		event := RouteEvent{
			ID:         serviceID,
			URI:        "lb://" + serviceID,
			Predicates: fmt.Sprintf(`[{"name":"Path","args":{"pattern":"/%s/**"}}]`, serviceID),
			Filters:    "[]",
		}

		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("falha ao serializar evento de rota",
				zap.String("service", serviceID),
				zap.Error(err))
			continue
		}

		if err := s.publisher.Publish(ctx, s.topic, serviceID, payload); err != nil {
			s.logger.Error("falha ao publicar evento de rota",
				zap.String("service", serviceID),
				zap.Error(err))
			continue
		}

		s.logger.Info("evento de rota publicado", zap.String("service", serviceID))
	}

	return nil
}
