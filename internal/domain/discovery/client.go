// Package discovery define o contrato com o registro de descoberta de
// serviços. O registro em si é um colaborador externo, o gateway só consome
// a lista de serviços conhecidos.
package discovery

import "context"

// Client expõe o conjunto de serviços atualmente registrados
type Client interface {
	Services(ctx context.Context) ([]string, error)
}

// StaticClient é uma implementação dirigida por configuração, usada em
// implantações sem registro dinâmico e nos testes.
type StaticClient struct {
	services []string
}

func NewStaticClient(services []string) *StaticClient {
	return &StaticClient{services: services}
}

func (c *StaticClient) Services(_ context.Context) ([]string, error) {
	out := make([]string, len(c.services))
	copy(out, c.services)
	return out, nil
}
