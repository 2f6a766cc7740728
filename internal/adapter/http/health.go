package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DatabaseChecker define a interface para verificar o banco de dados
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker define a interface para verificar o cache
type CacheChecker interface {
	Ping(ctx context.Context) error
}

// Dependency representa um componente do qual o sistema depende
type Dependency struct {
	Name     string
	Check    func(context.Context) error
	Critical bool // Se true, falha deste componente faz o health check falhar
}

// HealthChecker implementa endpoints de health check
type HealthChecker struct {
	logger       *zap.Logger
	dependencies []Dependency
}

// NewHealthChecker cria um novo health checker
func NewHealthChecker(db DatabaseChecker, cache CacheChecker, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		logger: logger,
		dependencies: []Dependency{
			{Name: "database", Check: db.Ping, Critical: true},
			{Name: "cache", Check: cache.Ping, Critical: false},
		},
	}
}

// LivenessCheck verifica se o aplicativo está vivo (execução básica)
func (h *HealthChecker) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessCheck verifica se o aplicativo está pronto para receber tráfego
func (h *HealthChecker) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]interface{})

	for _, dep := range h.dependencies {
		start := time.Now()
		err := dep.Check(ctx)
		duration := time.Since(start)

		depStatus := "UP"
		if err != nil {
			depStatus = "DOWN"
			h.logger.Error("health check falhou",
				zap.String("dependency", dep.Name),
				zap.Error(err))

			if dep.Critical {
				status = http.StatusServiceUnavailable
			}
		}

		checks[dep.Name] = gin.H{
			"status":   depStatus,
			"time":     duration.String(),
			"critical": dep.Critical,
		}
	}

	overall := "UP"
	if status != http.StatusOK {
		overall = "DOWN"
	}

	c.JSON(status, gin.H{
		"status": overall,
		"time":   time.Now(),
		"checks": checks,
	})
}
