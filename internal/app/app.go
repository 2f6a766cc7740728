package app

import (
	"context"
	"fmt"
	"time"

	"github.com/RKOrtega94/backend.core.gateway-server/internal/adapter/database"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/adapter/gateway"
	httpadapter "github.com/RKOrtega94/backend.core.gateway-server/internal/adapter/http"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/adapter/messaging"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/app/docs"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/app/route"
	appsync "github.com/RKOrtega94/backend.core.gateway-server/internal/app/sync"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/codec"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/discovery"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/domain/repository"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/infra/metrics"
	"github.com/RKOrtega94/backend.core.gateway-server/internal/infra/refresh"
	"github.com/RKOrtega94/backend.core.gateway-server/pkg/cache"
	"github.com/RKOrtega94/backend.core.gateway-server/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App concentra todos os componentes do plano de controle com as
// dependências já injetadas
type App struct {
	Logger     *zap.Logger
	Config     *config.Config
	DB         *database.Database
	Cache      cache.Cache
	Repo       repository.RouteRepository
	Routes     *route.Service
	Engine     *appsync.Engine
	Table      *gateway.Table
	Discovery  discovery.Client
	Scanner    *appsync.Scanner
	Aggregator *docs.Aggregator
	Metrics    *metrics.SyncMetrics

	producer  *messaging.Producer
	consumers []*messaging.Consumer
}

// NewApp monta a aplicação a partir da configuração carregada
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.NewDatabase(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		SlowThreshold:   cfg.Database.SlowThreshold,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar banco de dados: %w", err)
	}

	routeCache, err := buildCache(cfg, logger)
	if err != nil {
		return nil, err
	}

	syncMetrics := metrics.NewSyncMetrics()
	notifier := refresh.NewNotifier()

	repo := database.NewRouteRepository(db.DB(), logger)
	routeService := route.NewService(repo, routeCache, notifier, logger)

	if cfg.Database.SeedRoutes {
		if err := database.SeedRoutes(ctx, repo, cfg.Server.GatewayURL, logger); err != nil {
			return nil, fmt.Errorf("erro ao semear rotas iniciais: %w", err)
		}
	}

	textCodec := codec.New(logger)
	defRepo := database.NewDefinitionRepository(repo, textCodec, logger)
	table := gateway.NewTable(defRepo, notifier, syncMetrics, logger)

	discoveryClient := discovery.NewStaticClient(cfg.Discovery.Services)
	aggregator := docs.NewAggregator(discoveryClient, routeService, repo, cfg.Server.GatewayURL, logger)

	engine := appsync.NewEngine(routeService, repo, aggregator, appsync.Policy{
		IgnoreEmptyPredicates: cfg.Routing.IgnoreEmptyPredicates,
		IgnoredPaths:          cfg.Routing.IgnoredPathList(),
		HeartbeatCadence:      cfg.Routing.HeartbeatCadence,
		PersistTimeout:        cfg.Routing.PersistTimeout,
	}, syncMetrics, logger)

	app := &App{
		Logger:     logger,
		Config:     cfg,
		DB:         db,
		Cache:      routeCache,
		Repo:       repo,
		Routes:     routeService,
		Engine:     engine,
		Table:      table,
		Discovery:  discoveryClient,
		Aggregator: aggregator,
		Metrics:    syncMetrics,
	}

	if cfg.Kafka.Enabled {
		app.producer = messaging.NewProducer(cfg.Kafka.Brokers, logger)
		app.Scanner = appsync.NewScanner(discoveryClient, app.producer, cfg.Kafka.RouteEventsTopic, logger)

		app.consumers = []*messaging.Consumer{
			messaging.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.RouteEventsTopic, cfg.Kafka.GroupID,
				engine.HandleRouteEvent, logger),
			messaging.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.RouteConfigTopic, cfg.Kafka.GroupID,
				engine.HandleRouteConfig, logger),
		}
	} else {
		logger.Warn("Kafka desabilitado, sincronização via barramento inativa")
	}

	return app, nil
}

// buildCache seleciona a implementação de cache conforme a configuração
func buildCache(cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute, logger), nil
	}

	switch cfg.Cache.Type {
	case "redis":
		return cache.NewRedisCache(cache.RedisOptions{
			Address:      cfg.Cache.Redis.Address,
			Password:     cfg.Cache.Redis.Password,
			DB:           cfg.Cache.Redis.DB,
			PoolSize:     cfg.Cache.Redis.PoolSize,
			MinIdleConns: cfg.Cache.Redis.MinIdleConns,
			ReadTimeout:  cfg.Cache.Redis.ReadTimeout,
			WriteTimeout: cfg.Cache.Redis.WriteTimeout,
			DialTimeout:  cfg.Cache.Redis.DialTimeout,
		}, logger)
	case "memory", "":
		return cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute, logger), nil
	default:
		return nil, fmt.Errorf("tipo de cache inválido: %s", cfg.Cache.Type)
	}
}

// Start inicia os componentes de segundo plano: consumidores do barramento,
// scanner de inicialização, heartbeats de descoberta e o recarregador da
// tabela de rotas. Todos encerram quando o contexto é cancelado.
func (a *App) Start(ctx context.Context) {
	go a.Table.Run(ctx)

	for _, consumer := range a.consumers {
		go consumer.Run(ctx)
	}

	if a.Scanner != nil {
		go func() {
			if err := a.Scanner.Scan(ctx); err != nil {
				a.Logger.Error("falha no scanner de rotas iniciais", zap.Error(err))
			}
		}()
	}

	go a.Engine.RunHeartbeats(ctx, a.Config.Discovery.HeartbeatInterval)

	// Carga inicial da tabela antes do primeiro sinal de refresh
	if err := a.Table.Reload(ctx); err != nil {
		a.Logger.Warn("falha na carga inicial da tabela de rotas", zap.Error(err))
	}
}

// RegisterRoutes registra todos os endpoints HTTP no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	routeHandler := httpadapter.NewRouteHandler(a.Routes, a.Repo, a.Logger)
	diagnostics := httpadapter.NewDiagnosticsHandler(a.Repo, a.Table, a.Discovery, a.Logger)
	aggregatorHandler := httpadapter.NewAggregatorHandler(a.Aggregator, a.Logger)
	health := httpadapter.NewHealthChecker(a.DB, a.Cache, a.Logger)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", health.LivenessCheck)
	router.GET("/health/liveness", health.LivenessCheck)
	router.GET("/health/readiness", health.ReadinessCheck)

	router.GET("/routes", routeHandler.ListEnabledRoutes)
	router.GET("/routes/count", routeHandler.CountRoutes)

	admin := router.Group("/admin")
	{
		admin.GET("/routes", routeHandler.ListRoutes)
		admin.GET("/routes/:id", routeHandler.GetRoute)
		admin.GET("/routes/service/:name", routeHandler.GetRoutesByService)
		admin.PUT("/routes/:id/toggle", routeHandler.ToggleRoute)
		admin.DELETE("/routes/:id", routeHandler.DeleteRoute)
		admin.POST("/routes/refresh", routeHandler.RefreshRoutes)

		admin.GET("/diagnostics/gateway-status", diagnostics.GatewayStatus)
		admin.GET("/diagnostics/test-route", diagnostics.TestRoute)
	}

	router.GET(codec.AggregatorPath, aggregatorHandler.Page)
	router.GET(codec.AggregatorPath+"/api/services", aggregatorHandler.Services)
	router.POST(codec.AggregatorPath+"/generate", aggregatorHandler.Generate)

	// Caminhos legados de documentação apontam para a página agregadora
	for _, legacy := range []string{"/", "/docs", "/swagger-ui.html"} {
		router.GET(legacy, httpadapter.RedirectToAggregator)
	}
	router.GET("/swagger-ui/*rest", httpadapter.RedirectToAggregator)
}

// Close encerra as conexões de longa duração da aplicação
func (a *App) Close() {
	for _, consumer := range a.consumers {
		if err := consumer.Close(); err != nil {
			a.Logger.Warn("falha ao encerrar consumidor", zap.Error(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.Logger.Warn("falha ao encerrar producer", zap.Error(err))
		}
	}
	if closer, ok := a.Cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.Logger.Warn("falha ao encerrar cache", zap.Error(err))
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("falha ao encerrar banco de dados", zap.Error(err))
	}
}
