package analysis

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateCertificateNumber emite um serial no formato
// <TIPO>-<ano>-<4 dígitos aleatórios com zeros à esquerda>. Não há
// verificação de unicidade entre chamadas: com 10.000 combinações por tipo
// por ano, colisões são possíveis e aceitas; o serial não é chave única.
func GenerateCertificateNumber(tipo CertificateType, now time.Time) string {
	return fmt.Sprintf("%s-%d-%04d", tipo, now.Year(), rand.Intn(10000))
}
