package analysis

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/avcbdigital/avcb-api/internal/application"
	domain "github.com/avcbdigital/avcb-api/internal/domain/analysis"
	"github.com/avcbdigital/avcb-api/internal/domain/risk"
)

// CertificateRenderer produz o documento do certificado para upload.
type CertificateRenderer interface {
	Render(a *domain.CompanyAnalysis) ([]byte, error)
}

// Service implementa os use-cases de análise. Safe para uso concorrente
// desde que o Repository também seja.
type Service struct {
	Repo      domain.Repository
	Registry  domain.Registry
	Documents domain.DocumentStore // opcional
	Renderer  CertificateRenderer  // opcional, usado junto com Documents
	Clock     application.Clock
}

//
// ==== USE CASES ====
//

// Lookup consulta o cadastro público pelo CNPJ.
func (s *Service) Lookup(ctx context.Context, cnpj string) (*domain.CompanyProfile, error) {
	return s.Registry.Lookup(ctx, cnpj)
}

// EvaluateCommand entrada da pontuação server-side
type EvaluateCommand struct {
	CNAE    string
	Answers map[string]any
}

// EvaluateResult avaliação + respostas formatadas prontas para persistir
type EvaluateResult struct {
	Assessment risk.Assessment `json:"analise"`
	Answers    []domain.Answer `json:"answers"`
	Skipped    bool            `json:"questionarioIgnorado"`
}

// Evaluate pontua um conjunto de respostas. CNAE do Anexo II encerra sem
// questionário; nesse caso as respostas são opcionais e ignoradas.
func (s *Service) Evaluate(cmd EvaluateCommand) (EvaluateResult, error) {
	if a, ok := risk.ClassifyCNAE(cmd.CNAE); ok {
		return EvaluateResult{Assessment: a, Skipped: true}, nil
	}

	ans, err := risk.ParseAnswers(cmd.Answers)
	if err != nil {
		return EvaluateResult{}, err
	}

	assessment := risk.Classify(cmd.CNAE, ans)

	var answers []domain.Answer
	for _, q := range risk.Questions() {
		raw := ans.RawValue(q.ID)
		answers = append(answers, domain.Answer{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Answer:       raw,
			AnswerText:   risk.FormatAnswer(q.ID, raw),
		})
	}

	return EvaluateResult{Assessment: assessment, Answers: answers}, nil
}

// Build monta o agregado a partir do perfil, das respostas e da avaliação.
// Risco baixo recebe certificado DDLCB com validade de 1 ano e status
// aprovado; os demais ficam pendentes sem certificado. Sem I/O.
func (s *Service) Build(profile *domain.CompanyProfile, res EvaluateResult, observacoes string) *domain.CompanyAnalysis {
	now := s.Clock.Now()

	a := &domain.CompanyAnalysis{
		ID:                  domain.AnalysisID(uuid.New().String()),
		CNPJ:                profile.CNPJ,
		RazaoSocial:         profile.RazaoSocial,
		NomeFantasia:        profile.NomeFantasia,
		CNAEFiscal:          profile.CNAEFiscal,
		CNAEFiscalDescricao: profile.CNAEFiscalDescricao,
		Endereco:            profile.Endereco,
		Analise: domain.Analise{
			RiskLevel:      res.Assessment.Level,
			RiskScore:      res.Assessment.Score,
			RiskLevelLegal: res.Assessment.LegalLabel,
			Answers:        res.Answers,
		},
		Status:      domain.StatusPendente,
		DataAnalise: now,
		Observacoes: observacoes,
	}

	if res.Assessment.Level == risk.LevelLow {
		a.Status = domain.StatusAprovado
		a.Certificado = &domain.Certificado{
			Numero:      domain.GenerateCertificateNumber(domain.CertDDLCB, now),
			Tipo:        domain.CertDDLCB,
			DataEmissao: now,
			Validade:    now.AddDate(1, 0, 0),
		}
	}

	return a
}

// Create persiste o agregado. IDs vazios (POST vindo do dashboard) ganham
// um uuid novo. Quando há certificado e um DocumentStore configurado, o
// documento é renderizado e enviado; falha no upload não desfaz o save,
// o registro persistido é a fonte de verdade.
func (s *Service) Create(ctx context.Context, a *domain.CompanyAnalysis) (domain.AnalysisID, error) {
	if a.ID == "" {
		a.ID = domain.AnalysisID(uuid.New().String())
	}
	if a.DataAnalise.IsZero() {
		a.DataAnalise = s.Clock.Now()
	}
	if a.Status == "" {
		a.Status = domain.StatusPendente
	}

	if a.Certificado != nil && s.Documents != nil && s.Renderer != nil {
		if url, err := s.uploadCertificate(ctx, a); err != nil {
			log.Printf("certificate document upload failed for %s: %v", a.ID, err)
		} else {
			a.Certificado.DocumentURL = url
		}
	}

	if err := s.Repo.Save(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

func (s *Service) uploadCertificate(ctx context.Context, a *domain.CompanyAnalysis) (string, error) {
	body, err := s.Renderer.Render(a)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	key := fmt.Sprintf("certificados/%s/%s.html", a.CNPJ, a.Certificado.Numero)
	return s.Documents.Upload(ctx, key, "text/html; charset=utf-8", body)
}

// List análises mais recentes primeiro, filtros opcionais.
func (s *Service) List(ctx context.Context, f domain.Filter) ([]*domain.CompanyAnalysis, error) {
	return s.Repo.GetAll(ctx, f)
}

// Get análise por id
func (s *Service) Get(ctx context.Context, id domain.AnalysisID) (*domain.CompanyAnalysis, error) {
	return s.Repo.GetByID(ctx, id)
}

// GetByCNPJ histórico de análises de uma empresa
func (s *Service) GetByCNPJ(ctx context.Context, cnpj string) ([]*domain.CompanyAnalysis, error) {
	return s.Repo.GetByCNPJ(ctx, cnpj)
}

// Delete remove o agregado inteiro.
func (s *Service) Delete(ctx context.Context, id domain.AnalysisID) error {
	return s.Repo.Delete(ctx, id)
}

// Stats agregados do dashboard
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	return s.Repo.Stats(ctx)
}
