package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseAnswers pontua zero em todos os campos.
func baseAnswers() Answers {
	return Answers{
		AreaTotal:          100,
		Pavimentos:         1,
		OcupacaoMaxima:     20,
		Hospedagem:         HospedagemNaoSeAplica,
		Inflamaveis:        InflamaveisNenhum,
		PatrimonioEspecial: false,
		Sistemas:           SistemasExtintoresIluminacaoSinalizacao,
	}
}

func TestClassify_ScenarioHighRisk(t *testing.T) {
	ans := Answers{
		AreaTotal:          1000,
		Pavimentos:         5,
		OcupacaoMaxima:     150,
		Hospedagem:         HospedagemNaoSeAplica,
		Inflamaveis:        InflamaveisNenhum,
		PatrimonioEspecial: false,
		Sistemas:           SistemasNenhum,
	}
	got := Classify("4711301", ans)
	assert.Equal(t, 11, got.Score) // 3+2+3+0+0+0+3
	assert.Equal(t, LevelHigh, got.Level)
	assert.Equal(t, LabelRiscoIII, got.LegalLabel)
}

func TestClassify_ScenarioLowRiskNegativeScore(t *testing.T) {
	ans := baseAnswers()
	ans.Sistemas = SistemasCompleto
	got := Classify("4711301", ans)
	assert.Equal(t, -1, got.Score)
	assert.Equal(t, LevelLow, got.Level)
	assert.Equal(t, LabelRiscoI, got.LegalLabel)
}

func TestClassify_AnexoIIShortCircuit(t *testing.T) {
	// CNAE de geração de energia elétrica: classificação imediata,
	// respostas ignoradas mesmo que pontuariam baixo.
	got := Classify("3511500", baseAnswers())
	assert.Equal(t, LevelHigh, got.Level)
	assert.Equal(t, 10, got.Score)
	assert.Equal(t, LabelRiscoIII, got.LegalLabel)

	a, ok := ClassifyCNAE("3511500")
	require.True(t, ok)
	assert.Equal(t, got, a)

	_, ok = ClassifyCNAE("4711301")
	assert.False(t, ok)
}

func TestClassify_TierBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*Answers)
		score int
		level Level
	}{
		{"score 0", func(a *Answers) {}, 0, LevelLow},
		{"score 2", func(a *Answers) { a.AreaTotal = 300 }, 2, LevelLow},
		{"score 3", func(a *Answers) { a.Sistemas = SistemasNenhum }, 3, LevelMedium},
		{"score 6", func(a *Answers) { a.AreaTotal = 1000; a.Sistemas = SistemasNenhum }, 6, LevelMedium},
		{"score 7", func(a *Answers) { a.AreaTotal = 1000; a.Sistemas = SistemasNenhum; a.Pavimentos = 2 }, 7, LevelHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ans := baseAnswers()
			tc.mut(&ans)
			got := Classify("4711301", ans)
			assert.Equal(t, tc.score, got.Score)
			assert.Equal(t, tc.level, got.Level)
		})
	}
}

// Cada campo contribui de forma independente: mudar um campo desloca o
// total exatamente pelo delta daquele campo.
func TestClassify_IndependentContributions(t *testing.T) {
	base := Classify("4711301", baseAnswers()).Score

	cases := []struct {
		name  string
		mut   func(*Answers)
		delta int
	}{
		{"area >200", func(a *Answers) { a.AreaTotal = 201 }, 2},
		{"area >930", func(a *Answers) { a.AreaTotal = 931 }, 3},
		{"pavimentos 2", func(a *Answers) { a.Pavimentos = 2 }, 1},
		{"pavimentos 4", func(a *Answers) { a.Pavimentos = 4 }, 2},
		{"ocupacao 51", func(a *Answers) { a.OcupacaoMaxima = 51 }, 1},
		{"ocupacao 101", func(a *Answers) { a.OcupacaoMaxima = 101 }, 3},
		{"hospedagem 16 leitos", func(a *Answers) { a.Hospedagem = HospedagemAte16Leitos }, 1},
		{"hospedagem 17-40", func(a *Answers) { a.Hospedagem = Hospedagem17a40Leitos }, 2},
		{"hospedagem hospitalar", func(a *Answers) { a.Hospedagem = HospedagemMais40OuHospitalar }, 3},
		{"inflamaveis 151-1000", func(a *Answers) { a.Inflamaveis = Inflamaveis151a1000L }, 2},
		{"inflamaveis >1000", func(a *Answers) { a.Inflamaveis = InflamaveisMais1000L }, 3},
		{"patrimonio especial", func(a *Answers) { a.PatrimonioEspecial = true }, 2},
		{"sistemas nenhum", func(a *Answers) { a.Sistemas = SistemasNenhum }, 3},
		{"sistemas extintores", func(a *Answers) { a.Sistemas = SistemasExtintores }, 2},
		{"sistemas +iluminacao", func(a *Answers) { a.Sistemas = SistemasExtintoresIluminacao }, 1},
		{"sistemas completo", func(a *Answers) { a.Sistemas = SistemasCompleto }, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ans := baseAnswers()
			tc.mut(&ans)
			got := Classify("4711301", ans).Score
			assert.Equal(t, tc.delta, got-base)
		})
	}
}

// Valores enumerados não reconhecidos pontuam 0, compatibilidade com o
// comportamento legado.
func TestClassify_UnrecognizedEnumsScoreZero(t *testing.T) {
	assert.Zero(t, Hospedagem("qualquer coisa").Points())
	assert.Zero(t, Inflamaveis("qualquer coisa").Points())
	assert.Zero(t, Sistemas("qualquer coisa").Points())

	ans := baseAnswers()
	ans.Hospedagem = "???"
	ans.Inflamaveis = "???"
	ans.Sistemas = "???"
	got := Classify("4711301", ans)
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, LevelLow, got.Level)
}

func TestAnswers_Validate(t *testing.T) {
	for _, tc := range []struct {
		name string
		mut  func(*Answers)
	}{
		{"area zero", func(a *Answers) { a.AreaTotal = 0 }},
		{"area negativa", func(a *Answers) { a.AreaTotal = -5 }},
		{"pavimentos zero", func(a *Answers) { a.Pavimentos = 0 }},
		{"ocupacao zero", func(a *Answers) { a.OcupacaoMaxima = 0 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ans := baseAnswers()
			tc.mut(&ans)
			assert.Error(t, ans.Validate())
		})
	}
	assert.NoError(t, baseAnswers().Validate())
}

func TestParseAnswers(t *testing.T) {
	raw := map[string]any{
		QAreaTotal:          float64(500),
		QPavimentos:         float64(3),
		QOcupacaoMaxima:     float64(80),
		QHospedagem:         string(HospedagemNaoSeAplica),
		QInflamaveis:        string(InflamaveisNenhum),
		QPatrimonioEspecial: false,
		QSistemasExistentes: string(SistemasExtintores),
	}
	ans, err := ParseAnswers(raw)
	require.NoError(t, err)
	assert.Equal(t, 500.0, ans.AreaTotal)
	assert.Equal(t, 3, ans.Pavimentos)
	assert.Equal(t, 80, ans.OcupacaoMaxima)
	assert.Equal(t, SistemasExtintores, ans.Sistemas)

	delete(raw, QHospedagem)
	_, err = ParseAnswers(raw)
	assert.ErrorContains(t, err, QHospedagem)

	raw[QHospedagem] = string(HospedagemNaoSeAplica)
	raw[QAreaTotal] = float64(0)
	_, err = ParseAnswers(raw)
	assert.ErrorContains(t, err, QAreaTotal)
}

func TestFormatAnswer(t *testing.T) {
	assert.Equal(t, "150 m²", FormatAnswer(QAreaTotal, 150.0))
	assert.Equal(t, "1 pavimento", FormatAnswer(QPavimentos, 1))
	assert.Equal(t, "3 pavimentos", FormatAnswer(QPavimentos, 3))
	assert.Equal(t, "1 pessoa", FormatAnswer(QOcupacaoMaxima, 1))
	assert.Equal(t, "80 pessoas", FormatAnswer(QOcupacaoMaxima, 80))
	assert.Equal(t, "Sim", FormatAnswer(QPatrimonioEspecial, true))
	assert.Equal(t, "Não", FormatAnswer(QPatrimonioEspecial, false))
	assert.Equal(t, string(SistemasNenhum), FormatAnswer(QSistemasExistentes, string(SistemasNenhum)))
}

func TestQuestions(t *testing.T) {
	qs := Questions()
	require.Len(t, qs, 7)
	assert.Equal(t, QAreaTotal, qs[0].ID)
	assert.Equal(t, QSistemasExistentes, qs[6].ID)

	q, ok := QuestionByID(QHospedagem)
	require.True(t, ok)
	assert.Len(t, q.Options, 4)

	_, ok = QuestionByID("nao_existe")
	assert.False(t, ok)
}
