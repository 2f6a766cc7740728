package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SyncMetrics gerencia métricas do plano de controle de rotas
type SyncMetrics struct {
	messagesTotal  *prometheus.CounterVec
	generatorRuns  *prometheus.CounterVec
	refreshesTotal prometheus.Counter
	routeTableSize prometheus.Gauge
}

// NewSyncMetrics cria e registra as métricas do prometheus
func NewSyncMetrics() *SyncMetrics {
	return &SyncMetrics{
		messagesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_sync_messages_total",
				Help: "Total number of inbound route messages by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),

		generatorRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_doc_route_generator_runs_total",
				Help: "Total number of documentation route generator runs by result",
			},
			[]string{"result"},
		),

		refreshesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gateway_route_refresh_signals_total",
				Help: "Total number of route table refresh signals published",
			},
		),

		routeTableSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "gateway_route_table_size",
				Help: "Number of enabled route definitions currently loaded",
			},
		),
	}
}

// MessageProcessed registra o resultado do processamento de uma mensagem
func (m *SyncMetrics) MessageProcessed(channel, outcome string) {
	m.messagesTotal.WithLabelValues(channel, outcome).Inc()
}

// GeneratorRun registra uma execução do gerador de rotas de documentação
func (m *SyncMetrics) GeneratorRun(result string) {
	m.generatorRuns.WithLabelValues(result).Inc()
}

// RefreshSignaled registra a publicação de um sinal de refresh
func (m *SyncMetrics) RefreshSignaled() {
	m.refreshesTotal.Inc()
}

// SetRouteTableSize atualiza o tamanho da tabela de rotas carregada
func (m *SyncMetrics) SetRouteTableSize(n int) {
	m.routeTableSize.Set(float64(n))
}
