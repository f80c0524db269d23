package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/avcbdigital/avcb-api/internal/domain/analysis"
)

// AnalysisRepository backend relacional remoto sobre o schema normalizado
// companies / addresses / analyses / answers / certificates.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save insert-or-replace por id, tudo em uma transação: busca ou cria a
// empresa pelo CNPJ, insere o endereço apenas para empresa nova, regrava a
// linha de análise, uma linha por resposta e o certificado quando houver.
// Rollback em qualquer falha. Criações concorrentes do mesmo CNPJ podem
// duplicar a empresa: o find-or-insert roda sem lock, comportamento herdado
// do sistema original.
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.CompanyAnalysis) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Empresa: busca por CNPJ, cria junto com o endereço se for nova.
	var companyID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM companies WHERE cnpj = $1`, a.CNPJ,
	).Scan(&companyID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = tx.QueryRowContext(ctx, `
INSERT INTO companies (cnpj, razao_social, nome_fantasia, cnae_fiscal, cnae_fiscal_descricao)
VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			a.CNPJ, a.RazaoSocial, nullable(a.NomeFantasia), a.CNAEFiscal, a.CNAEFiscalDescricao,
		).Scan(&companyID)
		if err != nil {
			return fmt.Errorf("inserting company: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `
INSERT INTO addresses (company_id, logradouro, numero, complemento, bairro, municipio, uf, cep)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			companyID, a.Endereco.Logradouro, a.Endereco.Numero, nullable(a.Endereco.Complemento),
			a.Endereco.Bairro, a.Endereco.Municipio, a.Endereco.UF, a.Endereco.CEP,
		); err != nil {
			return fmt.Errorf("inserting address: %w", err)
		}
	case err != nil:
		return fmt.Errorf("finding company: %w", err)
	}

	// 2. Análise: DELETE + INSERT dá a semântica insert-or-replace; o FK
	// com ON DELETE CASCADE limpa respostas e certificado antigos.
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM analyses WHERE id = $1`, a.ID,
	); err != nil {
		return fmt.Errorf("replacing analysis: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `
INSERT INTO analyses (id, company_id, risk_level, risk_score, risk_level_legal, status, observacoes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, companyID, a.Analise.RiskLevel, a.Analise.RiskScore, a.Analise.RiskLevelLegal,
		a.Status, nullable(a.Observacoes), a.DataAnalise,
	); err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}

	// 3. Respostas, na ordem do questionário.
	for i, ans := range a.Analise.Answers {
		raw, err := json.Marshal(ans.Answer)
		if err != nil {
			return fmt.Errorf("encoding answer %s: %w", ans.QuestionID, err)
		}
		if _, err = tx.ExecContext(ctx, `
INSERT INTO answers (analysis_id, position, question_id, question_text, answer, answer_text)
VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, i, ans.QuestionID, ans.QuestionText, raw, ans.AnswerText,
		); err != nil {
			return fmt.Errorf("inserting answer %s: %w", ans.QuestionID, err)
		}
	}

	// 4. Certificado, quando houver.
	if c := a.Certificado; c != nil {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO certificates (analysis_id, numero, tipo, data_emissao, validade, document_url)
VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, c.Numero, c.Tipo, c.DataEmissao, c.Validade, nullable(c.DocumentURL),
		); err != nil {
			return fmt.Errorf("inserting certificate: %w", err)
		}
	}

	return tx.Commit()
}

const selectColumns = `
SELECT a.id, a.risk_level, a.risk_score, a.risk_level_legal, a.status,
       COALESCE(a.observacoes, ''), a.created_at,
       c.cnpj, c.razao_social, COALESCE(c.nome_fantasia, ''),
       c.cnae_fiscal, c.cnae_fiscal_descricao,
       COALESCE(addr.logradouro, ''), COALESCE(addr.numero, ''), COALESCE(addr.complemento, ''),
       COALESCE(addr.bairro, ''), COALESCE(addr.municipio, ''), COALESCE(addr.uf, ''), COALESCE(addr.cep, ''),
       cert.numero, cert.tipo, cert.data_emissao, cert.validade, cert.document_url
FROM analyses a
JOIN companies c ON a.company_id = c.id
LEFT JOIN addresses addr ON c.id = addr.company_id
LEFT JOIN certificates cert ON a.id = cert.analysis_id`

func (r *AnalysisRepository) scanRow(rs interface {
	Scan(dest ...any) error
}) (*domain.CompanyAnalysis, error) {
	var a domain.CompanyAnalysis
	var certNumero, certTipo, certURL sql.NullString
	var certEmissao, certValidade sql.NullTime

	if err := rs.Scan(
		&a.ID, &a.Analise.RiskLevel, &a.Analise.RiskScore, &a.Analise.RiskLevelLegal,
		&a.Status, &a.Observacoes, &a.DataAnalise,
		&a.CNPJ, &a.RazaoSocial, &a.NomeFantasia,
		&a.CNAEFiscal, &a.CNAEFiscalDescricao,
		&a.Endereco.Logradouro, &a.Endereco.Numero, &a.Endereco.Complemento,
		&a.Endereco.Bairro, &a.Endereco.Municipio, &a.Endereco.UF, &a.Endereco.CEP,
		&certNumero, &certTipo, &certEmissao, &certValidade, &certURL,
	); err != nil {
		return nil, err
	}

	if certNumero.Valid {
		a.Certificado = &domain.Certificado{
			Numero:      certNumero.String,
			Tipo:        domain.CertificateType(certTipo.String),
			DataEmissao: certEmissao.Time,
			Validade:    certValidade.Time,
			DocumentURL: certURL.String,
		}
	}
	return &a, nil
}

func (r *AnalysisRepository) loadAnswers(ctx context.Context, a *domain.CompanyAnalysis) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT question_id, question_text, answer, answer_text
FROM answers
WHERE analysis_id = $1
ORDER BY position`, a.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ans domain.Answer
		var raw []byte
		if err := rows.Scan(&ans.QuestionID, &ans.QuestionText, &raw, &ans.AnswerText); err != nil {
			return err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &ans.Answer); err != nil {
				return fmt.Errorf("decoding answer %s: %w", ans.QuestionID, err)
			}
		}
		a.Analise.Answers = append(a.Analise.Answers, ans)
	}
	return rows.Err()
}

// GetAll lista com filtros opcionais, mais recente primeiro.
func (r *AnalysisRepository) GetAll(ctx context.Context, f domain.Filter) ([]*domain.CompanyAnalysis, error) {
	query := selectColumns + "\nWHERE 1=1"
	var args []any

	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND a.status = $%d", len(args))
	}
	if f.RiskLevel != "" {
		args = append(args, f.RiskLevel)
		query += fmt.Sprintf(" AND a.risk_level = $%d", len(args))
	}
	if f.CNPJ != "" {
		args = append(args, f.CNPJ)
		query += fmt.Sprintf(" AND c.cnpj = $%d", len(args))
	}
	query += "\nORDER BY a.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var out []*domain.CompanyAnalysis
	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, a := range out {
		if err := r.loadAnswers(ctx, a); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GetByID registro completo com respostas, ErrNotFound quando ausente.
func (r *AnalysisRepository) GetByID(ctx context.Context, id domain.AnalysisID) (*domain.CompanyAnalysis, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+"\nWHERE a.id = $1", id)
	a, err := r.scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadAnswers(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetByCNPJ histórico de análises da empresa.
func (r *AnalysisRepository) GetByCNPJ(ctx context.Context, cnpj string) ([]*domain.CompanyAnalysis, error) {
	return r.GetAll(ctx, domain.Filter{CNPJ: cnpj})
}

// Delete remove a análise; respostas e certificado caem via FK cascade.
func (r *AnalysisRepository) Delete(ctx context.Context, id domain.AnalysisID) error {
	var deleted string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM analyses WHERE id = $1 RETURNING id`, id,
	).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// Stats contagens agregadas com COUNT(*) FILTER, como o backend original.
func (r *AnalysisRepository) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats

	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'aprovado'),
       COUNT(*) FILTER (WHERE status = 'pendente'),
       COUNT(*) FILTER (WHERE status = 'reprovado'),
       COUNT(*) FILTER (WHERE risk_level = 'low'),
       COUNT(*) FILTER (WHERE risk_level = 'medium'),
       COUNT(*) FILTER (WHERE risk_level = 'high')
FROM analyses`,
	).Scan(&st.Total, &st.Aprovados, &st.Pendentes, &st.Reprovados,
		&st.PorRisco.Baixo, &st.PorRisco.Medio, &st.PorRisco.Alto)
	if err != nil {
		return st, err
	}

	err = r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FILTER (WHERE tipo = 'DDLCB'),
       COUNT(*) FILTER (WHERE tipo = 'AR'),
       COUNT(*) FILTER (WHERE tipo = 'AVCB')
FROM certificates`,
	).Scan(&st.PorTipo.DDLCB, &st.PorTipo.AR, &st.PorTipo.AVCB)
	return st, err
}

// nullable converte string vazia em NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
