package model

// Arg é um argumento nomeado de um predicado ou filtro. Os argumentos são
// mantidos em slice para preservar a ordem de inserção na ida e volta do codec.
type Arg struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PredicateSpec é a forma estruturada de um predicado de rota (ex: Path, Method)
type PredicateSpec struct {
	Name string `json:"name"`
	Args []Arg  `json:"args"`
}

// FilterSpec é a forma estruturada de um filtro de rota (ex: StripPrefix, RewritePath)
type FilterSpec struct {
	Name string `json:"name"`
	Args []Arg  `json:"args"`
}

// AddArg adiciona um argumento preservando a ordem de inserção
func (p *PredicateSpec) AddArg(key, value string) {
	p.Args = append(p.Args, Arg{Key: key, Value: value})
}

// Arg retorna o valor de um argumento pelo nome, vazio quando ausente
func (p *PredicateSpec) Arg(key string) string {
	return lookupArg(p.Args, key)
}

// AddArg adiciona um argumento preservando a ordem de inserção
func (f *FilterSpec) AddArg(key, value string) {
	f.Args = append(f.Args, Arg{Key: key, Value: value})
}

// Arg retorna o valor de um argumento pelo nome, vazio quando ausente
func (f *FilterSpec) Arg(key string) string {
	return lookupArg(f.Args, key)
}

func lookupArg(args []Arg, key string) string {
	for _, a := range args {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// RouteDefinition é o contrato de leitura consumido pelo motor de proxy:
// apenas rotas habilitadas, com predicados e filtros já decodificados.
type RouteDefinition struct {
	ID         string          `json:"id"`
	URI        string          `json:"uri"`
	Predicates []PredicateSpec `json:"predicates"`
	Filters    []FilterSpec    `json:"filters"`
	Order      int             `json:"order"`
}
