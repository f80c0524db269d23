package risk

// Kind tipo de input da pergunta
type Kind string

const (
	KindNumber  Kind = "number"
	KindSelect  Kind = "select"
	KindBoolean Kind = "boolean"
)

// Question item do questionário fixo
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Kind     Kind     `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
	LegalRef string   `json:"legalRef,omitempty"`
}

// Stable question ids, also the keys of Answers.
const (
	QAreaTotal          = "area_total"
	QPavimentos         = "pavimentos"
	QOcupacaoMaxima     = "ocupacao_maxima"
	QHospedagem         = "hospedagem"
	QInflamaveis        = "inflamaveis"
	QPatrimonioEspecial = "patrimonio_especial"
	QSistemasExistentes = "sistemas_existentes"
)

var questions = []Question{
	{
		ID:       QAreaTotal,
		Text:     "Qual a área total construída da edificação (em m²)?",
		Kind:     KindNumber,
		Required: true,
		LegalRef: "Art. 5º I e VII e Art. 6º I - Decreto 58.545/25",
	},
	{
		ID:       QPavimentos,
		Text:     "Quantos pavimentos (andares úteis) possui a edificação?",
		Kind:     KindNumber,
		Required: true,
		LegalRef: "Art. 6º II - Decreto 58.545/25",
	},
	{
		ID:       QOcupacaoMaxima,
		Text:     "Qual a lotação máxima de pessoas no local simultaneamente?",
		Kind:     KindNumber,
		Required: true,
		LegalRef: "Art. 5º VII e Art. 6º III",
	},
	{
		ID:   QHospedagem,
		Text: "A edificação é destinada a hospedagem (hotel, pousada, pensão, hospital ou clínica)?",
		Kind: KindSelect,
		Options: []string{
			string(HospedagemNaoSeAplica),
			string(HospedagemAte16Leitos),
			string(Hospedagem17a40Leitos),
			string(HospedagemMais40OuHospitalar),
		},
		Required: true,
		LegalRef: "Art. 5º e Art. 6º IV e VI",
	},
	{
		ID:   QInflamaveis,
		Text: "Há armazenamento de líquidos inflamáveis, GLP, produtos químicos perigosos ou gases combustíveis?",
		Kind: KindSelect,
		Options: []string{
			string(InflamaveisNenhum),
			string(Inflamaveis151a1000L),
			string(InflamaveisMais1000L),
		},
		Required: true,
		LegalRef: "Art. 5º h–k e Art. 6º V, VIII, XI, XII",
	},
	{
		ID:       QPatrimonioEspecial,
		Text:     "A edificação faz parte do patrimônio histórico, possui isolamento inadequado ou concentra idosos, crianças ou pessoas com mobilidade reduzida?",
		Kind:     KindBoolean,
		Required: true,
		LegalRef: "Art. 6º VI e XIII",
	},
	{
		ID:   QSistemasExistentes,
		Text: "Quais sistemas de proteção contra incêndio estão instalados no local?",
		Kind: KindSelect,
		Options: []string{
			string(SistemasNenhum),
			string(SistemasExtintores),
			string(SistemasExtintoresIluminacao),
			string(SistemasExtintoresIluminacaoSinalizacao),
			string(SistemasCompleto),
		},
		Required: true,
		LegalRef: "COSCIP / NT 1.02 - Sistemas mínimos",
	},
}

// Questions returns the fixed questionnaire in presentation order.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// QuestionByID lookup por id estável
func QuestionByID(id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
