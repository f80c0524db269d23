package brasilapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	domain "github.com/avcbdigital/avcb-api/internal/domain/analysis"
)

const defaultBaseURL = "https://brasilapi.com.br"

// ErrCNPJInvalido CNPJ fora do formato de 14 dígitos
var ErrCNPJInvalido = fmt.Errorf("cnpj inválido: informe 14 dígitos")

// ErrEmpresaNaoEncontrada CNPJ sem cadastro no registro público
var ErrEmpresaNaoEncontrada = fmt.Errorf("empresa não encontrada")

// Client consulta o cadastro público de CNPJ da BrasilAPI. Uma única
// tentativa por consulta, sem retry.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NormalizeCNPJ remove máscara e valida o comprimento.
func NormalizeCNPJ(cnpj string) (string, error) {
	var b strings.Builder
	for _, r := range cnpj {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 14 {
		return "", ErrCNPJInvalido
	}
	return digits, nil
}

type payload struct {
	Erro                any    `json:"erro"`
	Message             string `json:"message"`
	CNPJ                string `json:"cnpj"`
	RazaoSocial         string `json:"razao_social"`
	NomeFantasia        string `json:"nome_fantasia"`
	CNAEFiscal          any    `json:"cnae_fiscal"`
	CNAEFiscalDescricao string `json:"cnae_fiscal_descricao"`
	Logradouro          string `json:"logradouro"`
	Numero              string `json:"numero"`
	Complemento         string `json:"complemento"`
	Bairro              string `json:"bairro"`
	Municipio           string `json:"municipio"`
	UF                  string `json:"uf"`
	CEP                 any    `json:"cep"`
}

// asString a API ora devolve números, ora strings, para cnae_fiscal e cep.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Lookup busca o perfil da empresa. Resposta sem razao_social ou com campo
// de erro conta como não encontrada.
func (c *Client) Lookup(ctx context.Context, cnpj string) (*domain.CompanyProfile, error) {
	digits, err := NormalizeCNPJ(cnpj)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/cnpj/v1/%s", c.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("consulta ao cadastro público: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrEmpresaNaoEncontrada
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cadastro público retornou status %d", resp.StatusCode)
	}

	var p payload
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("resposta inválida do cadastro público: %w", err)
	}
	if p.Erro != nil || p.RazaoSocial == "" {
		return nil, ErrEmpresaNaoEncontrada
	}

	return &domain.CompanyProfile{
		CNPJ:                digits,
		RazaoSocial:         p.RazaoSocial,
		NomeFantasia:        p.NomeFantasia,
		CNAEFiscal:          asString(p.CNAEFiscal),
		CNAEFiscalDescricao: p.CNAEFiscalDescricao,
		Endereco: domain.Endereco{
			Logradouro:  p.Logradouro,
			Numero:      p.Numero,
			Complemento: p.Complemento,
			Bairro:      p.Bairro,
			Municipio:   p.Municipio,
			UF:          p.UF,
			CEP:         asString(p.CEP),
		},
	}, nil
}
