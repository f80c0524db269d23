package analysis

import (
	"time"

	"github.com/avcbdigital/avcb-api/internal/domain/risk"
)

// AnalysisID tipo para o agregado
type AnalysisID string

// Status enum do fluxo de trabalho
type Status string

const (
	StatusPendente  Status = "pendente"
	StatusAprovado  Status = "aprovado"
	StatusReprovado Status = "reprovado"
)

// CertificateType enum dos documentos emitidos
type CertificateType string

const (
	CertDDLCB CertificateType = "DDLCB"
	CertAR    CertificateType = "AR"
	CertAVCB  CertificateType = "AVCB"
)

// Endereco value object, cópia do cadastro público
type Endereco struct {
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro"`
	Municipio   string `json:"municipio"`
	UF          string `json:"uf"`
	CEP         string `json:"cep"`
}

// CompanyProfile snapshot do registro público, imutável após consulta.
type CompanyProfile struct {
	CNPJ                string   `json:"cnpj"`
	RazaoSocial         string   `json:"razao_social"`
	NomeFantasia        string   `json:"nome_fantasia,omitempty"`
	CNAEFiscal          string   `json:"cnae_fiscal"`
	CNAEFiscalDescricao string   `json:"cnae_fiscal_descricao"`
	Endereco            Endereco `json:"endereco"`
}

// Answer resposta individual, com texto denormalizado para auditoria.
type Answer struct {
	QuestionID   string `json:"questionId"`
	QuestionText string `json:"questionText"`
	Answer       any    `json:"answer"`
	AnswerText   string `json:"answerText"`
}

// Analise resultado da avaliação + respostas ordenadas
type Analise struct {
	RiskLevel      risk.Level `json:"riskLevel"`
	RiskScore      int        `json:"riskScore"`
	RiskLevelLegal string     `json:"riskLevelLegal"`
	Answers        []Answer   `json:"answers"`
}

// Certificado documento de conformidade emitido (não criptográfico)
type Certificado struct {
	Numero      string          `json:"numero"`
	Tipo        CertificateType `json:"tipo"`
	DataEmissao time.Time       `json:"dataEmissao"`
	Validade    time.Time       `json:"validade"`
	DocumentURL string          `json:"documentUrl,omitempty"`
}

// Aggregate Root: CompanyAnalysis. Após a criação, respostas, pontuação e
// certificado são imutáveis; apenas status/observações podem mudar.
type CompanyAnalysis struct {
	ID                  AnalysisID   `json:"id"`
	CNPJ                string       `json:"cnpj"`
	RazaoSocial         string       `json:"razao_social"`
	NomeFantasia        string       `json:"nome_fantasia,omitempty"`
	CNAEFiscal          string       `json:"cnae_fiscal"`
	CNAEFiscalDescricao string       `json:"cnae_fiscal_descricao"`
	Endereco            Endereco     `json:"endereco"`
	Analise             Analise      `json:"analise"`
	Certificado         *Certificado `json:"certificado,omitempty"`
	Status              Status       `json:"status"`
	DataAnalise         time.Time    `json:"dataAnalise"`
	Observacoes         string       `json:"observacoes,omitempty"`
}

// UpsertAnswer substitui a resposta de mesmo questionId mantendo a ordem de
// inserção; respostas novas vão para o fim da sequência.
func (a *Analise) UpsertAnswer(ans Answer) {
	for i, existing := range a.Answers {
		if existing.QuestionID == ans.QuestionID {
			a.Answers[i] = ans
			return
		}
	}
	a.Answers = append(a.Answers, ans)
}
