// Package messaging adapta o barramento Kafka aos canais do motor de
// sincronização. A entrega, o particionamento e os offsets são
// responsabilidade do transporte; aqui cada tópico é consumido uma mensagem
// por vez, em ordem de chegada por partição.
package messaging

import (
	"context"
	"errors"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/app/sync"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler processa o payload de uma mensagem e devolve o resultado tipado
type Handler func(ctx context.Context, payload []byte) sync.Result

// Consumer consome um tópico e despacha cada mensagem para o handler
type Consumer struct {
	reader  *kafka.Reader
	handler Handler
	logger  *zap.Logger
}

// NewConsumer cria um consumidor para o tópico dentro do grupo informado
func NewConsumer(brokers []string, topic, groupID string, handler Handler, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger.With(zap.String("topic", topic)),
	}
}

// Run consome mensagens até o contexto ser cancelado. Mensagens com falha
// não são reprocessadas nem enviadas a uma dead-letter: o resultado é
// registrado e o consumo segue para a próxima mensagem.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("consumidor iniciado")

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumidor encerrado")
				return
			}
			c.logger.Error("falha ao ler mensagem", zap.Error(err))
			continue
		}

		result := c.handler(ctx, message.Value)
		switch result.Outcome {
		case sync.Rejected:
			c.logger.Debug("mensagem rejeitada",
				zap.String("key", string(message.Key)),
				zap.String("reason", result.Reason))
		case sync.Failed:
			c.logger.Error("falha ao processar mensagem",
				zap.String("key", string(message.Key)),
				zap.Error(result.Err))
		}
	}
}

// Close encerra o reader do tópico
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Producer publica mensagens no barramento, particionadas por chave
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
	}

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// Publish envia o payload para o tópico, usando a chave para particionamento
func (p *Producer) Publish(ctx context.Context, topic, key string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
}

// Close encerra o writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
