package risk

import "fmt"

// ParseAnswers monta Answers a partir de um mapa questionId → valor bruto
// (tipicamente um body JSON decodificado). Todas as sete chaves são
// obrigatórias; números chegam como float64 do encoding/json.
func ParseAnswers(raw map[string]any) (Answers, error) {
	var ans Answers
	var err error

	if ans.AreaTotal, err = number(raw, QAreaTotal); err != nil {
		return ans, err
	}
	pav, err := number(raw, QPavimentos)
	if err != nil {
		return ans, err
	}
	ans.Pavimentos = int(pav)
	ocp, err := number(raw, QOcupacaoMaxima)
	if err != nil {
		return ans, err
	}
	ans.OcupacaoMaxima = int(ocp)

	h, err := stringValue(raw, QHospedagem)
	if err != nil {
		return ans, err
	}
	ans.Hospedagem = Hospedagem(h)

	inf, err := stringValue(raw, QInflamaveis)
	if err != nil {
		return ans, err
	}
	ans.Inflamaveis = Inflamaveis(inf)

	pe, ok := raw[QPatrimonioEspecial]
	if !ok {
		return ans, missing(QPatrimonioEspecial)
	}
	b, ok := pe.(bool)
	if !ok {
		return ans, fmt.Errorf("%s: esperado booleano", QPatrimonioEspecial)
	}
	ans.PatrimonioEspecial = b

	sis, err := stringValue(raw, QSistemasExistentes)
	if err != nil {
		return ans, err
	}
	ans.Sistemas = Sistemas(sis)

	if err := ans.Validate(); err != nil {
		return ans, err
	}
	return ans, nil
}

// RawValue valor bruto de uma resposta já estruturada, na forma que o
// formulário original persiste em answers[].answer.
func (a Answers) RawValue(questionID string) any {
	switch questionID {
	case QAreaTotal:
		return a.AreaTotal
	case QPavimentos:
		return a.Pavimentos
	case QOcupacaoMaxima:
		return a.OcupacaoMaxima
	case QHospedagem:
		return string(a.Hospedagem)
	case QInflamaveis:
		return string(a.Inflamaveis)
	case QPatrimonioEspecial:
		return a.PatrimonioEspecial
	case QSistemasExistentes:
		return string(a.Sistemas)
	}
	return nil
}

func missing(key string) error {
	return fmt.Errorf("%s: resposta obrigatória ausente", key)
}

func number(raw map[string]any, key string) (float64, error) {
	v, ok := raw[key]
	if !ok {
		return 0, missing(key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%s: esperado número", key)
	}
}

func stringValue(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: esperado texto", key)
	}
	return s, nil
}
