package certdoc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/avcbdigital/avcb-api/internal/domain/analysis"
	"github.com/avcbdigital/avcb-api/internal/domain/risk"
)

func sampleAnalysis() *domain.CompanyAnalysis {
	return &domain.CompanyAnalysis{
		ID:                  "a1b2c3",
		CNPJ:                "11222333000181",
		RazaoSocial:         "Padaria Boa Vista LTDA",
		NomeFantasia:        "Padaria Boa Vista",
		CNAEFiscal:          "4711301",
		CNAEFiscalDescricao: "Comércio varejista",
		Endereco: domain.Endereco{
			Logradouro: "Rua do Sol",
			Numero:     "123",
			Bairro:     "Boa Vista",
			Municipio:  "Recife",
			UF:         "PE",
			CEP:        "50030230",
		},
		Analise: domain.Analise{
			RiskLevel:      risk.LevelLow,
			RiskScore:      -1,
			RiskLevelLegal: risk.LabelRiscoI,
		},
		Certificado: &domain.Certificado{
			Numero:      "DDLCB-2026-0042",
			Tipo:        domain.CertDDLCB,
			DataEmissao: time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC),
			Validade:    time.Date(2027, 5, 20, 10, 0, 0, 0, time.UTC),
		},
		Status:      domain.StatusAprovado,
		DataAnalise: time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC),
		Observacoes: "Vistoria dispensada",
	}
}

func TestRender(t *testing.T) {
	r := New()
	r.now = func() time.Time { return time.Date(2026, 5, 20, 14, 30, 0, 0, time.UTC) }

	out, err := r.Render(sampleAnalysis())
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "DECLARAÇÃO DE DISPENSA DE LICENCIAMENTO DO CORPO DE BOMBEIROS")
	assert.Contains(t, html, "DDLCB-2026-0042")
	assert.Contains(t, html, "Padaria Boa Vista LTDA")
	assert.Contains(t, html, "11222333000181")
	assert.Contains(t, html, "Recife/PE")
	assert.Contains(t, html, risk.LabelRiscoI)
	assert.Contains(t, html, "-1 pontos")
	assert.Contains(t, html, "20/05/2026") // emissão em pt-BR
	assert.Contains(t, html, "20/05/2027") // validade
	assert.Contains(t, html, "Gerado em: 20/05/2026 14:30")
	assert.Contains(t, html, "Vistoria dispensada")
}

func TestRender_TitlesPerType(t *testing.T) {
	r := New()

	a := sampleAnalysis()
	a.Certificado.Tipo = domain.CertAVCB
	out, err := r.Render(a)
	require.NoError(t, err)
	assert.Contains(t, string(out), "AUTO DE VISTORIA DO CORPO DE BOMBEIROS")

	a.Certificado.Tipo = domain.CertAR
	out, err = r.Render(a)
	require.NoError(t, err)
	assert.Contains(t, string(out), "ATESTADO DE REGULARIDADE")
}

func TestRender_OptionalSections(t *testing.T) {
	r := New()

	a := sampleAnalysis()
	a.NomeFantasia = ""
	a.Observacoes = ""
	out, err := r.Render(a)
	require.NoError(t, err)

	html := string(out)
	assert.NotContains(t, html, "Nome Fantasia")
	assert.NotContains(t, html, "OBSERVAÇÕES")
}

func TestRender_EscapesHTML(t *testing.T) {
	r := New()

	a := sampleAnalysis()
	a.RazaoSocial = `<script>alert("x")</script>`
	out, err := r.Render(a)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>alert")
}

func TestRender_RequiresCertificate(t *testing.T) {
	r := New()

	a := sampleAnalysis()
	a.Certificado = nil
	_, err := r.Render(a)
	assert.Error(t, err)
}
