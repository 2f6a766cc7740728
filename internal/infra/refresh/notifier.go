// Package refresh implementa o sinal de recarga da tabela de rotas: uma
// notificação fire-and-forget que o loop de reload do motor de proxy drena.
package refresh

// Notifier é um sinal de slot único. Notificações publicadas enquanto uma
// anterior ainda não foi drenada coalescem em uma só, evitando backlog
// quando os refreshes chegam mais rápido do que o motor consegue recarregar.
type Notifier struct {
	ch chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify publica o sinal sem bloquear; não há contrato de confirmação
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// C retorna o canal drenado pelo loop de recarga
func (n *Notifier) C() <-chan struct{} {
	return n.ch
}
