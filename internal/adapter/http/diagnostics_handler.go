package http

import (
	"net/http"
	"strings"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/adapter/gateway"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/discovery"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DiagnosticsHandler expõe endpoints de inspeção do estado do gateway
type DiagnosticsHandler struct {
	repo      repository.RouteRepository
	table     *gateway.Table
	discovery discovery.Client
	logger    *zap.Logger
}

func NewDiagnosticsHandler(repo repository.RouteRepository, table *gateway.Table, discoveryClient discovery.Client, logger *zap.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		repo:      repo,
		table:     table,
		discovery: discoveryClient,
		logger:    logger,
	}
}

// GatewayStatus compara as rotas persistidas com a tabela em memória e os
// serviços descobertos, para diagnóstico de divergências de sincronização
func (h *DiagnosticsHandler) GatewayStatus(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.repo.Count(ctx)
	if err != nil {
		h.logger.Error("Falha ao contar rotas persistidas", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao consultar estado do gateway"})
		return
	}

	snapshot := h.table.Snapshot()
	tableRoutes := make([]gin.H, 0, len(snapshot))
	for _, def := range snapshot {
		tableRoutes = append(tableRoutes, gin.H{
			"id":    def.ID,
			"uri":   def.URI,
			"order": def.Order,
		})
	}

	services, err := h.discovery.Services(ctx)
	if err != nil {
		h.logger.Warn("Falha ao consultar serviços descobertos", zap.Error(err))
		services = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"database_routes_count": count,
		"gateway_routes":        tableRoutes,
		"discovery_services":    services,
	})
}

// TestRoute verifica se um caminho informado casaria com alguma rota da
// tabela em memória, comparando os prefixos dos predicados de caminho
func (h *DiagnosticsHandler) TestRoute(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetro 'path' obrigatório"})
		return
	}

	type match struct {
		ID      string `json:"id"`
		URI     string `json:"uri"`
		Pattern string `json:"pattern"`
		Order   int    `json:"order"`
	}

	var matches []match
	for _, def := range h.table.Snapshot() {
		for _, predicate := range def.Predicates {
			if !strings.EqualFold(predicate.Name, "Path") {
				continue
			}
			for _, arg := range predicate.Args {
				if pathMatchesPattern(path, arg.Value) {
					matches = append(matches, match{
						ID:      def.ID,
						URI:     def.URI,
						Pattern: arg.Value,
						Order:   def.Order,
					})
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"path":    path,
		"matched": len(matches) > 0,
		"routes":  matches,
	})
}

// pathMatchesPattern faz uma comparação aproximada por prefixo: padrões
// terminados em /** casam por prefixo, os demais exigem igualdade exata.
// Serve apenas para diagnóstico, não replica o matcher do plano de dados.
func pathMatchesPattern(path, pattern string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		rest := strings.TrimPrefix(path, prefix+"/")
		return rest != path && !strings.Contains(rest, "/")
	}
	return path == pattern
}
