package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/model"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RouteRepository implementa repository.RouteRepository sobre GORM
type RouteRepository struct {
	db     *gorm.DB
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRouteRepository cria um novo repositório de rotas
func NewRouteRepository(db *gorm.DB, logger *zap.Logger) repository.RouteRepository {
	tracer := otel.GetTracerProvider().Tracer("gateway-server.repository.route")

	return &RouteRepository{
		db:     db,
		logger: logger,
		tracer: tracer,
	}
}

// FindAll retorna todas as rotas, habilitadas ou não
func (r *RouteRepository) FindAll(ctx context.Context) ([]*model.RouteEntity, error) {
	ctx, span := r.startSpan(ctx, "RouteRepository.FindAll", "select")
	defer span.End()

	var entities []*model.RouteEntity
	if err := r.db.WithContext(ctx).Find(&entities).Error; err != nil {
		r.logger.Error("falha ao buscar rotas", zap.Error(err))
		recordSpanError(span, err)
		return nil, fmt.Errorf("falha ao buscar rotas: %w", err)
	}

	span.SetAttributes(attribute.Int("routes.count", len(entities)))
	span.SetStatus(codes.Ok, "")
	return entities, nil
}

// FindByID obtém uma rota pelo id
func (r *RouteRepository) FindByID(ctx context.Context, id string) (*model.RouteEntity, error) {
	ctx, span := r.startSpan(ctx, "RouteRepository.FindByID", "select")
	span.SetAttributes(attribute.String("route.id", id))
	defer span.End()

	var entity model.RouteEntity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "route not found")
			return nil, repository.ErrRouteNotFound
		}
		r.logger.Error("falha ao buscar rota por id",
			zap.String("id", id),
			zap.Error(err))
		recordSpanError(span, err)
		return nil, fmt.Errorf("falha ao buscar rota: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return &entity, nil
}

// FindByEnabled retorna apenas as rotas habilitadas
func (r *RouteRepository) FindByEnabled(ctx context.Context) ([]*model.RouteEntity, error) {
	ctx, span := r.startSpan(ctx, "RouteRepository.FindByEnabled", "select")
	defer span.End()

	var entities []*model.RouteEntity
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).Find(&entities).Error; err != nil {
		r.logger.Error("falha ao buscar rotas habilitadas", zap.Error(err))
		recordSpanError(span, err)
		return nil, fmt.Errorf("falha ao buscar rotas habilitadas: %w", err)
	}

	span.SetAttributes(attribute.Int("routes.count", len(entities)))
	span.SetStatus(codes.Ok, "")
	return entities, nil
}

// FindByServiceName retorna as rotas de um serviço
func (r *RouteRepository) FindByServiceName(ctx context.Context, serviceName string) ([]*model.RouteEntity, error) {
	ctx, span := r.startSpan(ctx, "RouteRepository.FindByServiceName", "select")
	span.SetAttributes(attribute.String("route.service_name", serviceName))
	defer span.End()

	var entities []*model.RouteEntity
	if err := r.db.WithContext(ctx).Where("service_name = ?", serviceName).Find(&entities).Error; err != nil {
		r.logger.Error("falha ao buscar rotas por serviço",
			zap.String("serviceName", serviceName),
			zap.Error(err))
		recordSpanError(span, err)
		return nil, fmt.Errorf("falha ao buscar rotas por serviço: %w", err)
	}

	span.SetAttributes(attribute.Int("routes.count", len(entities)))
	span.SetStatus(codes.Ok, "")
	return entities, nil
}

// Save insere ou substitui a rota pelo id. A escrita substitui a linha
// inteira: escritas concorrentes no mesmo id resolvem por last-write-wins.
func (r *RouteRepository) Save(ctx context.Context, route *model.RouteEntity) error {
	ctx, span := r.startSpan(ctx, "RouteRepository.Save", "upsert")
	span.SetAttributes(
		attribute.String("route.id", route.ID),
		attribute.String("route.uri", route.URI),
	)
	defer span.End()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(route).Error
	if err != nil {
		r.logger.Error("falha ao salvar rota",
			zap.String("id", route.ID),
			zap.Error(err))
		recordSpanError(span, err)
		return fmt.Errorf("falha ao salvar rota: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// DeleteByID remove uma rota pelo id
func (r *RouteRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, span := r.startSpan(ctx, "RouteRepository.DeleteByID", "delete")
	span.SetAttributes(attribute.String("route.id", id))
	defer span.End()

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.RouteEntity{})
	if result.Error != nil {
		r.logger.Error("falha ao excluir rota",
			zap.String("id", id),
			zap.Error(result.Error))
		recordSpanError(span, result.Error)
		return fmt.Errorf("falha ao excluir rota: %w", result.Error)
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))
	if result.RowsAffected == 0 {
		span.SetStatus(codes.Error, "no rows affected")
		return repository.ErrRouteNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// DeleteByServiceName remove todas as rotas de um serviço
func (r *RouteRepository) DeleteByServiceName(ctx context.Context, serviceName string) error {
	ctx, span := r.startSpan(ctx, "RouteRepository.DeleteByServiceName", "delete")
	span.SetAttributes(attribute.String("route.service_name", serviceName))
	defer span.End()

	result := r.db.WithContext(ctx).Where("service_name = ?", serviceName).Delete(&model.RouteEntity{})
	if result.Error != nil {
		r.logger.Error("falha ao excluir rotas por serviço",
			zap.String("serviceName", serviceName),
			zap.Error(result.Error))
		recordSpanError(span, result.Error)
		return fmt.Errorf("falha ao excluir rotas por serviço: %w", result.Error)
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))
	span.SetStatus(codes.Ok, "")
	return nil
}

// Count retorna o total de rotas armazenadas
func (r *RouteRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := r.startSpan(ctx, "RouteRepository.Count", "select")
	defer span.End()

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.RouteEntity{}).Count(&count).Error; err != nil {
		r.logger.Error("falha ao contar rotas", zap.Error(err))
		recordSpanError(span, err)
		return 0, fmt.Errorf("falha ao contar rotas: %w", err)
	}

	span.SetAttributes(attribute.Int64("routes.count", count))
	span.SetStatus(codes.Ok, "")
	return count, nil
}

func (r *RouteRepository) startSpan(ctx context.Context, name, operation string) (context.Context, trace.Span) {
	return r.tracer.Start(
		ctx,
		name,
		trace.WithAttributes(
			attribute.String("db.operation", operation),
			attribute.String("db.table", "routes"),
		),
	)
}

func recordSpanError(span trace.Span, err error) {
	span.SetStatus(codes.Error, "database error")
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String("error.message", err.Error()),
	)
}
