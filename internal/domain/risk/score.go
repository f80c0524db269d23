package risk

import (
	"fmt"
	"strings"
)

// Level classificação de risco
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Legal labels conforme Decreto 58.545/25.
const (
	LabelRiscoI   = "Risco I (Baixo)"
	LabelRiscoII  = "Risco II (Médio)"
	LabelRiscoIII = "Risco III (Alto)"
)

// Hospedagem enum (Art. 5º e Art. 6º IV e VI)
type Hospedagem string

const (
	HospedagemNaoSeAplica        Hospedagem = "Não se aplica"
	HospedagemAte16Leitos        Hospedagem = "Sim, até 16 leitos"
	Hospedagem17a40Leitos        Hospedagem = "Sim, 17 a 40 leitos"
	HospedagemMais40OuHospitalar Hospedagem = "Sim, mais de 40 leitos ou hospitalar"
)

// Points pontuação da faixa de hospedagem. Valores não reconhecidos
// pontuam 0 de propósito, compatível com o comportamento legado.
func (h Hospedagem) Points() int {
	switch h {
	case HospedagemNaoSeAplica:
		return 0
	case HospedagemAte16Leitos:
		return 1
	case Hospedagem17a40Leitos:
		return 2
	case HospedagemMais40OuHospitalar:
		return 3
	default:
		return 0
	}
}

// Inflamaveis enum (Art. 5º h–k e Art. 6º V, VIII, XI, XII)
type Inflamaveis string

const (
	InflamaveisNenhum    Inflamaveis = "Nenhum / até 150 L ou 3 botijões P13 (39 kg)"
	Inflamaveis151a1000L Inflamaveis = "151 a 1.000 L"
	InflamaveisMais1000L Inflamaveis = "Mais de 1.000 L ou GLP central > 190 kg"
)

// Points valores não reconhecidos pontuam 0, ver Hospedagem.Points.
func (i Inflamaveis) Points() int {
	switch i {
	case InflamaveisNenhum:
		return 0
	case Inflamaveis151a1000L:
		return 2
	case InflamaveisMais1000L:
		return 3
	default:
		return 0
	}
}

// Sistemas sistemas de proteção instalados (COSCIP / NT 1.02)
type Sistemas string

const (
	SistemasNenhum                          Sistemas = "Nenhum"
	SistemasExtintores                      Sistemas = "Extintores"
	SistemasExtintoresIluminacao            Sistemas = "Extintores + Iluminação"
	SistemasExtintoresIluminacaoSinalizacao Sistemas = "Extintores + Iluminação + Sinalização"
	SistemasCompleto                        Sistemas = "Sistema completo (hidrantes, sprinklers, alarme)"
)

// Points sistema completo desconta 1 ponto; valores não reconhecidos
// pontuam 0, ver Hospedagem.Points.
func (s Sistemas) Points() int {
	switch s {
	case SistemasNenhum:
		return 3
	case SistemasExtintores:
		return 2
	case SistemasExtintoresIluminacao:
		return 1
	case SistemasExtintoresIluminacaoSinalizacao:
		return 0
	case SistemasCompleto:
		return -1
	default:
		return 0
	}
}

// Anexo II - Risco III (Alto) - CNAEs que exigem Projeto Técnico.
// Estar aqui encerra a análise imediatamente com pontuação fixa 10.
var anexoIIRiscoIII = map[string]struct{}{
	"1921700": {}, // Fabricação de produtos farmoquímicos
	"2011800": {}, // Fabricação de cloro e álcalis
	"2012600": {}, // Fabricação de intermediários para fertilizantes
	"3511500": {}, // Geração de energia elétrica
	"4711300": {}, // Hipermercados
	"4729699": {}, // Comércio varejista de produtos farmacêuticos
	"8610101": {}, // Atividades de atendimento hospitalar
	"4731800": {}, // Comércio varejista de combustíveis
	"2061400": {}, // Fabricação de explosivos
	"2399101": {}, // Fabricação de produtos inflamáveis
}

// Anexo I - Risco I (Baixo) - CNAEs que permitem DDLCB. Informativo:
// a classificação final ainda depende do questionário.
var anexoIRiscoI = map[string]struct{}{
	"4711301": {}, // Comércio varejista de mercadorias em geral (pequeno porte)
	"5611201": {}, // Restaurantes e similares
	"4744005": {}, // Comércio varejista de ferragens
}

// HighRiskCNAE reports whether the activity code is in Anexo II.
func HighRiskCNAE(cnae string) bool {
	_, ok := anexoIIRiscoIII[cnae]
	return ok
}

// LowRiskCNAE reports whether the activity code is in Anexo I.
func LowRiskCNAE(cnae string) bool {
	_, ok := anexoIRiscoI[cnae]
	return ok
}

// Answers respostas das sete perguntas fixas.
type Answers struct {
	AreaTotal          float64
	Pavimentos         int
	OcupacaoMaxima     int
	Hospedagem         Hospedagem
	Inflamaveis        Inflamaveis
	PatrimonioEspecial bool
	Sistemas           Sistemas
}

// Validate rejeita valores numéricos não positivos antes da pontuação.
func (a Answers) Validate() error {
	if a.AreaTotal <= 0 {
		return fmt.Errorf("%s: deve ser maior que zero", QAreaTotal)
	}
	if a.Pavimentos <= 0 {
		return fmt.Errorf("%s: deve ser maior que zero", QPavimentos)
	}
	if a.OcupacaoMaxima <= 0 {
		return fmt.Errorf("%s: deve ser maior que zero", QOcupacaoMaxima)
	}
	return nil
}

// Assessment resultado da classificação
type Assessment struct {
	Level      Level  `json:"riskLevel"`
	Score      int    `json:"riskScore"`
	LegalLabel string `json:"riskLevelLegal"`
}

// highRiskScore pontuação fixa do curto-circuito por CNAE do Anexo II.
const highRiskScore = 10

// ClassifyCNAE curto-circuito por CNAE, avaliado assim que o perfil da
// empresa é conhecido. Retorna ok=false quando o questionário é necessário.
func ClassifyCNAE(cnae string) (Assessment, bool) {
	if HighRiskCNAE(cnae) {
		return Assessment{Level: LevelHigh, Score: highRiskScore, LegalLabel: LabelRiscoIII}, true
	}
	return Assessment{}, false
}

// Classify pontua as respostas e mapeia a classificação legal. CNAEs do
// Anexo II curto-circuitam com pontuação fixa 10, ignorando as respostas.
func Classify(cnae string, ans Answers) Assessment {
	if a, ok := ClassifyCNAE(cnae); ok {
		return a
	}

	score := 0

	// 1. Área total construída (Art. 5º I e VII e Art. 6º I)
	if ans.AreaTotal > 930 {
		score += 3
	} else if ans.AreaTotal > 200 {
		score += 2
	}

	// 2. Número de pavimentos (Art. 6º II)
	if ans.Pavimentos >= 4 {
		score += 2
	} else if ans.Pavimentos >= 2 {
		score += 1
	}

	// 3. Lotação máxima (Art. 5º VII e Art. 6º III)
	if ans.OcupacaoMaxima > 100 {
		score += 3
	} else if ans.OcupacaoMaxima > 50 {
		score += 1
	}

	// 4-5. Hospedagem e inflamáveis
	score += ans.Hospedagem.Points()
	score += ans.Inflamaveis.Points()

	// 6. Patrimônio histórico / uso especial (Art. 6º VI e XIII)
	if ans.PatrimonioEspecial {
		score += 2
	}

	// 7. Sistemas de proteção instalados
	score += ans.Sistemas.Points()

	switch {
	case score <= 2:
		return Assessment{Level: LevelLow, Score: score, LegalLabel: LabelRiscoI}
	case score <= 6:
		return Assessment{Level: LevelMedium, Score: score, LegalLabel: LabelRiscoII}
	default:
		return Assessment{Level: LevelHigh, Score: score, LegalLabel: LabelRiscoIII}
	}
}

// FormatAnswer texto de exibição de uma resposta, igual ao formulário.
func FormatAnswer(questionID string, answer any) string {
	switch questionID {
	case QAreaTotal:
		return fmt.Sprintf("%v m²", trimFloat(answer))
	case QPavimentos:
		n, _ := answer.(int)
		return fmt.Sprintf("%d %s", n, plural(n, "pavimento"))
	case QOcupacaoMaxima:
		n, _ := answer.(int)
		return fmt.Sprintf("%d %s", n, plural(n, "pessoa"))
	case QPatrimonioEspecial:
		if b, _ := answer.(bool); b {
			return "Sim"
		}
		return "Não"
	default:
		return fmt.Sprintf("%v", answer)
	}
}

func plural(n int, word string) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

func trimFloat(v any) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
