package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/app/route"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/repository"
	apierrors "github.com/RKOrtega94/backend.core.gateway-server/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteHandler implementa os handlers administrativos de rotas
type RouteHandler struct {
	routeService *route.Service
	repo         repository.RouteRepository
	logger       *zap.Logger
}

// NewRouteHandler cria um novo handler de rotas
func NewRouteHandler(routeService *route.Service, repo repository.RouteRepository, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		routeService: routeService,
		repo:         repo,
		logger:       logger,
	}
}

// ListRoutes lista todas as rotas cadastradas, habilitadas ou não
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	routes, err := h.repo.FindAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Falha ao listar rotas", zap.Error(err))
		respondError(c, apierrors.InternalServer("Falha ao listar rotas", err))
		return
	}

	c.JSON(http.StatusOK, routes)
}

// ListEnabledRoutes lista apenas as rotas habilitadas
func (h *RouteHandler) ListEnabledRoutes(c *gin.Context) {
	routes, err := h.routeService.GetAllEnabled(c.Request.Context())
	if err != nil {
		h.logger.Error("Falha ao listar rotas habilitadas", zap.Error(err))
		respondError(c, apierrors.InternalServer("Falha ao listar rotas", err))
		return
	}

	c.JSON(http.StatusOK, routes)
}

// CountRoutes devolve o total de rotas cadastradas
func (h *RouteHandler) CountRoutes(c *gin.Context) {
	count, err := h.repo.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Falha ao contar rotas", zap.Error(err))
		respondError(c, apierrors.InternalServer("Falha ao contar rotas", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GetRoute devolve uma rota pelo seu identificador
func (h *RouteHandler) GetRoute(c *gin.Context) {
	id := c.Param("id")

	found, err := h.routeService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			respondError(c, apierrors.NotFound("Rota", err))
			return
		}
		h.logger.Error("Falha ao buscar rota", zap.String("id", id), zap.Error(err))
		respondError(c, apierrors.InternalServer("Falha ao buscar rota", err))
		return
	}

	c.JSON(http.StatusOK, found)
}

// GetRoutesByService lista as rotas associadas a um serviço
func (h *RouteHandler) GetRoutesByService(c *gin.Context) {
	serviceName := c.Param("name")

	routes, err := h.routeService.GetByService(c.Request.Context(), serviceName)
	if err != nil {
		h.logger.Error("Falha ao listar rotas do serviço",
			zap.String("service", serviceName), zap.Error(err))
		respondError(c, apierrors.InternalServer("Falha ao listar rotas", err))
		return
	}

	c.JSON(http.StatusOK, routes)
}

// ToggleRoute habilita ou desabilita uma rota existente
func (h *RouteHandler) ToggleRoute(c *gin.Context) {
	id := c.Param("id")

	enabled, err := strconv.ParseBool(c.DefaultQuery("enabled", "true"))
	if err != nil {
		respondError(c, apierrors.BadRequest("Parâmetro 'enabled' inválido", err))
		return
	}

	if err := h.routeService.Toggle(c.Request.Context(), id, enabled); err != nil {
		h.logger.Error("Falha ao alternar rota", zap.String("id", id), zap.Error(err))
		respondError(c, apierrors.InternalServer("Falha ao alternar rota", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "enabled": enabled})
}

// DeleteRoute remove uma rota pelo seu identificador
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	id := c.Param("id")

	if err := h.routeService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			respondError(c, apierrors.NotFound("Rota", err))
			return
		}
		h.logger.Error("Falha ao remover rota", zap.String("id", id), zap.Error(err))
		respondError(c, apierrors.InternalServer("Falha ao remover rota", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rota removida com sucesso", "id": id})
}

// RefreshRoutes emite o sinal de recarregamento da tabela de rotas
func (h *RouteHandler) RefreshRoutes(c *gin.Context) {
	h.routeService.Refresh()
	c.JSON(http.StatusOK, gin.H{"message": "Sinal de refresh emitido"})
}
