package sync

// Outcome classifica o processamento de uma mensagem de rota
type Outcome int

const (
	// Accepted indica que a mensagem foi aceita e persistida
	Accepted Outcome = iota
	// Rejected indica que a política de aceitação descartou a mensagem
	Rejected
	// Failed indica payload indecifrável ou falha de persistência
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result é o resultado tipado da ingestão de uma mensagem. O transporte
// nunca vê erro (sem retry, sem dead-letter); o tipo existe para que o
// chamador e os testes verifiquem o desfecho sem raspar logs.
type Result struct {
	Outcome Outcome
	// Reason descreve o motivo de uma rejeição de política
	Reason string
	// Err carrega a causa de uma falha
	Err error
}

func accepted() Result {
	return Result{Outcome: Accepted}
}

func rejected(reason string) Result {
	return Result{Outcome: Rejected, Reason: reason}
}

func failed(err error) Result {
	return Result{Outcome: Failed, Err: err}
}
