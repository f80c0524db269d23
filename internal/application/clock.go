package application

import "time"

// Clock abstração para que timestamps e validade de certificado sejam
// testáveis.
type Clock interface {
	Now() time.Time
}

// SystemClock implementação padrão com time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
