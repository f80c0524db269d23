package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/avcbdigital/avcb-api/internal/domain/analysis"
	"github.com/avcbdigital/avcb-api/internal/domain/risk"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeRepo struct {
	saved map[domain.AnalysisID]*domain.CompanyAnalysis
	err   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{saved: make(map[domain.AnalysisID]*domain.CompanyAnalysis)}
}

func (r *fakeRepo) Save(ctx context.Context, a *domain.CompanyAnalysis) error {
	if r.err != nil {
		return r.err
	}
	r.saved[a.ID] = a
	return nil
}

func (r *fakeRepo) GetAll(ctx context.Context, f domain.Filter) ([]*domain.CompanyAnalysis, error) {
	var out []*domain.CompanyAnalysis
	for _, a := range r.saved {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id domain.AnalysisID) (*domain.CompanyAnalysis, error) {
	a, ok := r.saved[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (r *fakeRepo) GetByCNPJ(ctx context.Context, cnpj string) ([]*domain.CompanyAnalysis, error) {
	return nil, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id domain.AnalysisID) error {
	if _, ok := r.saved[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.saved, id)
	return nil
}

func (r *fakeRepo) Stats(ctx context.Context) (domain.Stats, error) {
	return domain.Stats{Total: len(r.saved)}, nil
}

type fakeDocs struct {
	uploads int
	err     error
}

func (d *fakeDocs) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.uploads++
	return "http://docs.local/" + key, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(a *domain.CompanyAnalysis) ([]byte, error) {
	return []byte("<html>certificado</html>"), nil
}

func testProfile() *domain.CompanyProfile {
	return &domain.CompanyProfile{
		CNPJ:                "11222333000181",
		RazaoSocial:         "Padaria Boa Vista LTDA",
		NomeFantasia:        "Padaria Boa Vista",
		CNAEFiscal:          "4711301",
		CNAEFiscalDescricao: "Comércio varejista de mercadorias em geral",
		Endereco: domain.Endereco{
			Logradouro: "Rua do Sol",
			Numero:     "123",
			Bairro:     "Boa Vista",
			Municipio:  "Recife",
			UF:         "PE",
			CEP:        "50030230",
		},
	}
}

func lowRiskAnswers() map[string]any {
	return map[string]any{
		risk.QAreaTotal:          float64(100),
		risk.QPavimentos:         float64(1),
		risk.QOcupacaoMaxima:     float64(20),
		risk.QHospedagem:         string(risk.HospedagemNaoSeAplica),
		risk.QInflamaveis:        string(risk.InflamaveisNenhum),
		risk.QPatrimonioEspecial: false,
		risk.QSistemasExistentes: string(risk.SistemasCompleto),
	}
}

func newService(repo *fakeRepo) *Service {
	return &Service{
		Repo:  repo,
		Clock: fixedClock{t: time.Date(2026, 5, 20, 10, 30, 0, 0, time.UTC)},
	}
}

func TestEvaluate_BuildsOrderedFormattedAnswers(t *testing.T) {
	svc := newService(newFakeRepo())

	res, err := svc.Evaluate(EvaluateCommand{CNAE: "4711301", Answers: lowRiskAnswers()})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, risk.LevelLow, res.Assessment.Level)
	assert.Equal(t, -1, res.Assessment.Score)

	require.Len(t, res.Answers, 7)
	assert.Equal(t, risk.QAreaTotal, res.Answers[0].QuestionID)
	assert.Equal(t, "100 m²", res.Answers[0].AnswerText)
	assert.Equal(t, risk.QSistemasExistentes, res.Answers[6].QuestionID)
	// texto da pergunta denormalizado para auditoria
	assert.NotEmpty(t, res.Answers[0].QuestionText)
}

func TestEvaluate_AnexoIISkipsQuestionnaire(t *testing.T) {
	svc := newService(newFakeRepo())

	// sem respostas: o curto-circuito dispensa o questionário
	res, err := svc.Evaluate(EvaluateCommand{CNAE: "3511500"})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, res.Answers)
	assert.Equal(t, risk.LevelHigh, res.Assessment.Level)
	assert.Equal(t, 10, res.Assessment.Score)
}

func TestEvaluate_InvalidAnswers(t *testing.T) {
	svc := newService(newFakeRepo())
	raw := lowRiskAnswers()
	raw[risk.QAreaTotal] = float64(-10)
	_, err := svc.Evaluate(EvaluateCommand{CNAE: "4711301", Answers: raw})
	assert.Error(t, err)
}

func TestBuild_LowRiskGetsCertificateAndApproval(t *testing.T) {
	svc := newService(newFakeRepo())
	res, err := svc.Evaluate(EvaluateCommand{CNAE: "4711301", Answers: lowRiskAnswers()})
	require.NoError(t, err)

	a := svc.Build(testProfile(), res, "sem observações")

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, domain.StatusAprovado, a.Status)
	require.NotNil(t, a.Certificado)
	assert.Equal(t, domain.CertDDLCB, a.Certificado.Tipo)
	assert.Equal(t, svc.Clock.Now(), a.Certificado.DataEmissao)
	assert.Equal(t, svc.Clock.Now().AddDate(1, 0, 0), a.Certificado.Validade)
	assert.Equal(t, svc.Clock.Now(), a.DataAnalise)
	assert.Equal(t, "sem observações", a.Observacoes)
	assert.Equal(t, "11222333000181", a.CNPJ)
}

func TestBuild_MediumRiskStaysPending(t *testing.T) {
	svc := newService(newFakeRepo())
	raw := lowRiskAnswers()
	raw[risk.QSistemasExistentes] = string(risk.SistemasNenhum) // +3 → medium

	res, err := svc.Evaluate(EvaluateCommand{CNAE: "4711301", Answers: raw})
	require.NoError(t, err)
	require.Equal(t, risk.LevelMedium, res.Assessment.Level)

	a := svc.Build(testProfile(), res, "")
	assert.Equal(t, domain.StatusPendente, a.Status)
	assert.Nil(t, a.Certificado)
}

func TestBuild_GeneratesUniqueIDs(t *testing.T) {
	svc := newService(newFakeRepo())
	res, err := svc.Evaluate(EvaluateCommand{CNAE: "4711301", Answers: lowRiskAnswers()})
	require.NoError(t, err)

	a := svc.Build(testProfile(), res, "")
	b := svc.Build(testProfile(), res, "")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreate_AssignsIDAndDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	a := &domain.CompanyAnalysis{
		CNPJ:        "11222333000181",
		RazaoSocial: "Padaria Boa Vista LTDA",
		Analise: domain.Analise{
			RiskLevel:      risk.LevelMedium,
			RiskScore:      4,
			RiskLevelLegal: risk.LabelRiscoII,
		},
	}
	id, err := svc.Create(context.Background(), a)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, domain.StatusPendente, a.Status)
	assert.Equal(t, svc.Clock.Now(), a.DataAnalise)
	assert.Contains(t, repo.saved, id)
}

func TestCreate_UploadsCertificateDocument(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	docs := &fakeDocs{}
	svc.Documents = docs
	svc.Renderer = fakeRenderer{}

	res, err := svc.Evaluate(EvaluateCommand{CNAE: "4711301", Answers: lowRiskAnswers()})
	require.NoError(t, err)
	a := svc.Build(testProfile(), res, "")

	_, err = svc.Create(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 1, docs.uploads)
	assert.NotEmpty(t, a.Certificado.DocumentURL)
}

// Falha no upload do documento não derruba o save: o registro é a fonte
// de verdade, o documento é conveniência.
func TestCreate_UploadFailureDoesNotFailSave(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	svc.Documents = &fakeDocs{err: errors.New("minio indisponível")}
	svc.Renderer = fakeRenderer{}

	res, err := svc.Evaluate(EvaluateCommand{CNAE: "4711301", Answers: lowRiskAnswers()})
	require.NoError(t, err)
	a := svc.Build(testProfile(), res, "")

	id, err := svc.Create(context.Background(), a)
	require.NoError(t, err)
	assert.Contains(t, repo.saved, id)
	assert.Empty(t, a.Certificado.DocumentURL)
}

func TestCreate_RepoFailureSurfaces(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("conexão recusada")
	svc := newService(repo)

	_, err := svc.Create(context.Background(), &domain.CompanyAnalysis{CNPJ: "11222333000181"})
	assert.ErrorContains(t, err, "conexão recusada")
}
