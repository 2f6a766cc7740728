package http

import (
	"html/template"
	"net/http"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/app/docs"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AggregatorHandler serve a página agregadora de documentação e os
// endpoints auxiliares de listagem e geração
type AggregatorHandler struct {
	aggregator *docs.Aggregator
	logger     *zap.Logger
	page       *template.Template
}

// aggregatorPage é a página HTML que lista a documentação dos serviços.
// Os links seguem as rotas geradas pelo agregador (/swagger/<serviço>/...).
var aggregatorPage = template.Must(template.New("aggregator").Parse(`<!DOCTYPE html>
<html lang="pt">
<head>
  <meta charset="utf-8">
  <title>Documentação dos Serviços</title>
  <style>
    body { font-family: sans-serif; margin: 2rem auto; max-width: 720px; color: #222; }
    h1 { border-bottom: 2px solid #4a90d9; padding-bottom: .5rem; }
    li { margin: .75rem 0; }
    a { color: #4a90d9; text-decoration: none; }
    a:hover { text-decoration: underline; }
    .empty { color: #888; }
  </style>
</head>
<body>
  <h1>Documentação dos Serviços</h1>
  {{if .Services}}
  <ul>
    {{range .Services}}
    <li>
      <strong>{{.}}</strong> &mdash;
      <a href="/swagger/{{.}}/swagger-ui.html">Swagger UI</a> &middot;
      <a href="/swagger/{{.}}/v3/api-docs">OpenAPI</a>
    </li>
    {{end}}
  </ul>
  {{else}}
  <p class="empty">Nenhum serviço com documentação disponível.</p>
  {{end}}
</body>
</html>
`))

func NewAggregatorHandler(aggregator *docs.Aggregator, logger *zap.Logger) *AggregatorHandler {
	return &AggregatorHandler{
		aggregator: aggregator,
		logger:     logger,
		page:       aggregatorPage,
	}
}

// Page renderiza a página agregadora com os serviços que possuem rotas de
// documentação geradas
func (h *AggregatorHandler) Page(c *gin.Context) {
	services, err := h.aggregator.ServicesWithDocs(c.Request.Context())
	if err != nil {
		h.logger.Error("Falha ao listar serviços com documentação", zap.Error(err))
		c.String(http.StatusInternalServerError, "Falha ao montar página de documentação")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.page.Execute(c.Writer, gin.H{"Services": services}); err != nil {
		h.logger.Error("Falha ao renderizar página agregadora", zap.Error(err))
	}
}

// Services lista em JSON os serviços com documentação
func (h *AggregatorHandler) Services(c *gin.Context) {
	services, err := h.aggregator.ServicesWithDocs(c.Request.Context())
	if err != nil {
		h.logger.Error("Falha ao listar serviços com documentação", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao listar serviços"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

// Generate dispara a geração das rotas de documentação sob demanda
func (h *AggregatorHandler) Generate(c *gin.Context) {
	if err := h.aggregator.Generate(c.Request.Context()); err != nil {
		h.logger.Error("Falha ao gerar rotas de documentação", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar rotas de documentação"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rotas de documentação geradas"})
}

// RedirectToAggregator redireciona os caminhos legados de documentação
// para a página agregadora
func RedirectToAggregator(c *gin.Context) {
	c.Redirect(http.StatusFound, "/swagger-aggregator")
}
