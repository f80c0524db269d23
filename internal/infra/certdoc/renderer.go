// Package certdoc renderiza o documento HTML do certificado (A4,
// pronto para impressão), no mesmo layout do sistema original.
package certdoc

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	domain "github.com/avcbdigital/avcb-api/internal/domain/analysis"
)

var titles = map[domain.CertificateType]string{
	domain.CertDDLCB: "DECLARAÇÃO DE DISPENSA DE LICENCIAMENTO DO CORPO DE BOMBEIROS",
	domain.CertAR:    "ATESTADO DE REGULARIDADE",
	domain.CertAVCB:  "AUTO DE VISTORIA DO CORPO DE BOMBEIROS",
}

// Renderer implementa analysis.CertificateRenderer.
type Renderer struct {
	now func() time.Time
}

func New() *Renderer {
	return &Renderer{now: time.Now}
}

type templateData struct {
	*domain.CompanyAnalysis
	Title    string
	Emissao  string
	Validade string
	GeradoEm string
}

func ptBR(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year())
}

// Render produz o HTML do certificado. Exige Certificado presente.
func (r *Renderer) Render(a *domain.CompanyAnalysis) ([]byte, error) {
	if a.Certificado == nil {
		return nil, fmt.Errorf("análise %s não possui certificado", a.ID)
	}

	now := r.now()
	data := templateData{
		CompanyAnalysis: a,
		Title:           titles[a.Certificado.Tipo],
		Emissao:         ptBR(a.Certificado.DataEmissao),
		Validade:        ptBR(a.Certificado.Validade),
		GeradoEm:        fmt.Sprintf("%s %02d:%02d", ptBR(now), now.Hour(), now.Minute()),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var tmpl = template.Must(template.New("certificado").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Certificado {{.Certificado.Numero}}</title>
  <style>
    @page { size: A4; margin: 2cm; }
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
    .header { text-align: center; border-bottom: 3px solid #d32f2f; padding-bottom: 20px; margin-bottom: 30px; }
    .logo { font-size: 24px; font-weight: bold; color: #d32f2f; margin-bottom: 10px; }
    .title { font-size: 20px; font-weight: bold; margin: 20px 0; text-align: center; }
    .certificate-number { font-size: 16px; color: #666; margin: 10px 0; text-align: center; }
    .section { margin: 20px 0; padding: 15px; background: #f5f5f5; border-left: 4px solid #d32f2f; }
    .section-title { font-weight: bold; font-size: 14px; color: #d32f2f; margin-bottom: 10px; }
    .info-row { margin: 8px 0; display: flex; justify-content: space-between; }
    .label { font-weight: bold; color: #555; }
    .value { color: #333; }
    .risk-badge { display: inline-block; padding: 5px 15px; border-radius: 20px; font-weight: bold; font-size: 14px; }
    .risk-low { background: #4caf50; color: white; }
    .risk-medium { background: #ff9800; color: white; }
    .risk-high { background: #f44336; color: white; }
    .footer { margin-top: 40px; padding-top: 20px; border-top: 2px solid #ddd; text-align: center; font-size: 12px; color: #666; }
    .signature { margin-top: 60px; text-align: center; }
    .signature-line { border-top: 2px solid #333; width: 300px; margin: 0 auto 10px; }
    @media print { body { padding: 0; } }
  </style>
</head>
<body>
  <div class="header">
    <div class="logo">🔥 CBMPE</div>
    <h1>CORPO DE BOMBEIROS MILITAR DE PERNAMBUCO</h1>
    <p>Sistema AVCB Digital</p>
  </div>

  <div class="title">{{.Title}}</div>

  <div class="certificate-number">
    Certificado Nº: <strong>{{.Certificado.Numero}}</strong>
  </div>

  <div class="section">
    <div class="section-title">DADOS DA EMPRESA</div>
    <div class="info-row">
      <span class="label">Razão Social:</span>
      <span class="value">{{.RazaoSocial}}</span>
    </div>
    {{if .NomeFantasia}}
    <div class="info-row">
      <span class="label">Nome Fantasia:</span>
      <span class="value">{{.NomeFantasia}}</span>
    </div>
    {{end}}
    <div class="info-row">
      <span class="label">CNPJ:</span>
      <span class="value">{{.CNPJ}}</span>
    </div>
    <div class="info-row">
      <span class="label">CNAE:</span>
      <span class="value">{{.CNAEFiscal}} - {{.CNAEFiscalDescricao}}</span>
    </div>
  </div>

  <div class="section">
    <div class="section-title">ENDEREÇO</div>
    <div class="info-row">
      <span class="value">{{.Endereco.Logradouro}}, {{.Endereco.Numero}}{{if .Endereco.Complemento}} - {{.Endereco.Complemento}}{{end}}</span>
    </div>
    <div class="info-row">
      <span class="value">{{.Endereco.Bairro}} - {{.Endereco.Municipio}}/{{.Endereco.UF}}</span>
    </div>
    <div class="info-row">
      <span class="label">CEP:</span>
      <span class="value">{{.Endereco.CEP}}</span>
    </div>
  </div>

  <div class="section">
    <div class="section-title">CLASSIFICAÇÃO DE RISCO</div>
    <div class="info-row">
      <span class="label">Nível de Risco:</span>
      <span class="risk-badge risk-{{.Analise.RiskLevel}}">{{.Analise.RiskLevelLegal}}</span>
    </div>
    <div class="info-row">
      <span class="label">Pontuação:</span>
      <span class="value">{{.Analise.RiskScore}} pontos</span>
    </div>
  </div>

  <div class="section">
    <div class="section-title">VALIDADE</div>
    <div class="info-row">
      <span class="label">Data de Emissão:</span>
      <span class="value">{{.Emissao}}</span>
    </div>
    <div class="info-row">
      <span class="label">Validade:</span>
      <span class="value">{{.Validade}}</span>
    </div>
  </div>

  {{if .Observacoes}}
  <div class="section">
    <div class="section-title">OBSERVAÇÕES</div>
    <p>{{.Observacoes}}</p>
  </div>
  {{end}}

  <div class="signature">
    <div class="signature-line"></div>
    <p><strong>Corpo de Bombeiros Militar de Pernambuco</strong></p>
    <p>Sistema AVCB Digital</p>
  </div>

  <div class="footer">
    <p>Este documento foi gerado eletronicamente pelo Sistema AVCB Digital do CBMPE.</p>
    <p>Decreto Estadual Nº 52.005/2021, alterado pelo Decreto Nº 58.545/2025</p>
    <p>Norma Técnica NT 1.01/2024 - COSCIP/CBMPE</p>
    <p>Gerado em: {{.GeradoEm}}</p>
  </div>
</body>
</html>
`))
