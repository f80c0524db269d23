package analysis

import (
	"context"
	"errors"

	"github.com/avcbdigital/avcb-api/internal/domain/risk"
)

// ErrNotFound sentinel para registros ausentes em qualquer backend.
var ErrNotFound = errors.New("análise não encontrada")

// Filter filtros opcionais de listagem
type Filter struct {
	Status    Status
	RiskLevel risk.Level
	CNPJ      string
}

// Repository port (interface para persistence). Duas implementações
// intercambiáveis: store local ordenado por chave e Postgres remoto,
// selecionadas uma única vez na inicialização.
type Repository interface {
	Save(ctx context.Context, a *CompanyAnalysis) error
	GetAll(ctx context.Context, f Filter) ([]*CompanyAnalysis, error)
	GetByID(ctx context.Context, id AnalysisID) (*CompanyAnalysis, error)
	GetByCNPJ(ctx context.Context, cnpj string) ([]*CompanyAnalysis, error)
	Delete(ctx context.Context, id AnalysisID) error
	Stats(ctx context.Context) (Stats, error)
}

// Registry port (consulta de CNPJ no cadastro público)
type Registry interface {
	Lookup(ctx context.Context, cnpj string) (*CompanyProfile, error)
}

// DocumentStore port (armazenamento do documento do certificado)
type DocumentStore interface {
	Upload(ctx context.Context, key string, contentType string, body []byte) (string, error)
}
