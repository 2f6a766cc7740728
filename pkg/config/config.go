package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config representa a configuração completa do gateway
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Kafka     KafkaConfig
	Discovery DiscoveryConfig
	Routing   RoutingConfig
	Tracing   TracingConfig
	Logging   LoggingConfig
}

// ServerConfig contém configurações do servidor HTTP administrativo
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// GatewayURL é o endereço público do próprio gateway, usado como destino
	// da rota agregadora de documentação
	GatewayURL string
}

// DatabaseConfig contém configurações do banco de dados
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
	SeedRoutes      bool
}

// RedisOptions contém configurações específicas para Redis
type RedisOptions struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
}

// CacheConfig contém configurações do cache de listagens de rotas
type CacheConfig struct {
	Enabled bool
	Type    string // redis, memory
	TTL     time.Duration
	Redis   RedisOptions
}

// KafkaConfig contém configurações do barramento de mensagens
type KafkaConfig struct {
	Enabled          bool
	Brokers          []string
	GroupID          string
	RouteEventsTopic string
	RouteConfigTopic string
}

// DiscoveryConfig contém configurações da descoberta de serviços
type DiscoveryConfig struct {
	// Services é a lista estática de serviços quando não há registro dinâmico
	Services          []string
	HeartbeatInterval time.Duration
}

// RoutingConfig contém a política de aceitação de mensagens de configuração
// de rota e a cadência de regeneração das rotas de documentação
type RoutingConfig struct {
	IgnoreEmptyPredicates bool
	IgnoredPaths          string // lista separada por vírgula
	HeartbeatCadence      int    // regenerar a cada N heartbeats
	PersistTimeout        time.Duration
}

// TracingConfig contém configurações de rastreamento
type TracingConfig struct {
	Enabled       bool
	Endpoint      string
	ServiceName   string
	SamplingRatio float64
}

// LoggingConfig contém configurações de logging
type LoggingConfig struct {
	Level      string
	Production bool
}

// LoadConfig carrega a configuração de diversas fontes (arquivo, env, defaults)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/gateway-server")

	if err := v.ReadInConfig(); err != nil {
		// Ignorar se o arquivo não for encontrado
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
		}
	}

	// Ler variáveis de ambiente com prefixo GW_
	v.SetEnvPrefix("GW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("erro ao mapear configuração: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults define valores padrão para a configuração
func setDefaults(v *viper.Viper) {
	// Servidor
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.readTimeout", "5s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "30s")
	v.SetDefault("server.gatewayURL", "http://localhost:8080")

	// Banco de dados
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "gateway.db")
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.connMaxLifetime", "1h")
	v.SetDefault("database.slowThreshold", "200ms")
	v.SetDefault("database.seedRoutes", true)

	// Cache
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 10)
	v.SetDefault("cache.redis.min_idle_conns", 5)
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")
	v.SetDefault("cache.redis.dial_timeout", "5s")

	// Kafka
	v.SetDefault("kafka.enabled", true)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.groupID", "gateway-server")
	v.SetDefault("kafka.routeEventsTopic", "gateway-topic")
	v.SetDefault("kafka.routeConfigTopic", "gateway-route-config")

	// Descoberta de serviços
	v.SetDefault("discovery.services", []string{})
	v.SetDefault("discovery.heartbeatInterval", "30s")

	// Política de roteamento
	v.SetDefault("routing.ignoreEmptyPredicates", true)
	v.SetDefault("routing.ignoredPaths", "/webjars/**,/swagger-resources/**")
	v.SetDefault("routing.heartbeatCadence", 10)
	v.SetDefault("routing.persistTimeout", "5s")

	// Tracing
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.serviceName", "gateway-server")
	v.SetDefault("tracing.samplingRatio", 0.1)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.production", true)
}

// validateConfig valida a configuração
func validateConfig(config *Config) error {
	validDrivers := map[string]bool{"sqlite": true, "mysql": true, "postgres": true}
	if !validDrivers[config.Database.Driver] {
		return fmt.Errorf("driver de banco de dados inválido: %s", config.Database.Driver)
	}

	if config.Cache.Enabled {
		validTypes := map[string]bool{"memory": true, "redis": true}
		if !validTypes[config.Cache.Type] {
			return fmt.Errorf("tipo de cache inválido: %s", config.Cache.Type)
		}

		if config.Cache.Type == "redis" && config.Cache.Redis.Address == "" {
			return fmt.Errorf("tipo de cache redis requer um endereço")
		}
	}

	if config.Kafka.Enabled && len(config.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka habilitado requer ao menos um broker")
	}

	if config.Routing.HeartbeatCadence < 1 {
		return fmt.Errorf("cadência de heartbeat deve ser ao menos 1, recebido %d", config.Routing.HeartbeatCadence)
	}

	return nil
}

// IgnoredPathList separa a lista de caminhos ignorados, descartando entradas vazias
func (r RoutingConfig) IgnoredPathList() []string {
	var paths []string
	for _, p := range strings.Split(r.IgnoredPaths, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}
