package model

// RouteEntity é a representação de banco de dados de uma rota do gateway.
// As colunas predicates/filters guardam o texto codificado descrito no
// pacote codec (ex: "Path[pattern=/api/**]" ou o formato legado "Path=/api/**").
type RouteEntity struct {
	ID          string `gorm:"primaryKey" json:"id"`
	URI         string `gorm:"not null" json:"uri"`
	Predicates  string `gorm:"size:1000" json:"predicates"`
	Filters     string `gorm:"size:1000" json:"filters"`
	OrderNum    *int   `gorm:"column:order_num" json:"orderNum"`
	Description string `gorm:"size:500" json:"description"`
	Enabled     *bool  `json:"enabled"`
	ServiceName string `gorm:"column:service_name" json:"serviceName"`
}

// TableName define o nome da tabela
func (RouteEntity) TableName() string {
	return "routes"
}

// IsEnabled indica se a rota está habilitada (coluna nula conta como desabilitada)
func (e *RouteEntity) IsEnabled() bool {
	return e.Enabled != nil && *e.Enabled
}

// Order retorna a ordem de avaliação da rota (zero quando não definida)
func (e *RouteEntity) Order() int {
	if e.OrderNum == nil {
		return 0
	}
	return *e.OrderNum
}

// BoolPtr é um helper para preencher colunas booleanas opcionais
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr é um helper para preencher colunas inteiras opcionais
func IntPtr(v int) *int {
	return &v
}
