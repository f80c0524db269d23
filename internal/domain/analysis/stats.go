package analysis

// RiskCounts contagem por classificação de risco
type RiskCounts struct {
	Baixo int `json:"baixo"`
	Medio int `json:"medio"`
	Alto  int `json:"alto"`
}

// CertCounts contagem por tipo de certificado
type CertCounts struct {
	DDLCB int `json:"DDLCB"`
	AR    int `json:"AR"`
	AVCB  int `json:"AVCB"`
}

// Stats agregados do dashboard, formato idêntico ao endpoint legado.
type Stats struct {
	Total      int        `json:"total"`
	Aprovados  int        `json:"aprovados"`
	Pendentes  int        `json:"pendentes"`
	Reprovados int        `json:"reprovados"`
	PorRisco   RiskCounts `json:"porRisco"`
	PorTipo    CertCounts `json:"porTipo"`
}
