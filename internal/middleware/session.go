package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
)

type contextKey string

const userKey contextKey = "session_user"

// User usuário da sessão demo. Não é fronteira de segurança: o dashboard
// só exibe o nome; nenhum handler autoriza nada com base nele.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type demoAccount struct {
	password string
	name     string
	role     string
}

// Contas de demonstração, as mesmas do sistema original.
var demoAccounts = map[string]demoAccount{
	"admin@cbmpe.pe.gov.br": {password: "admin123", name: "Administrador CBMPE", role: "admin"},
	"usuario@empresa.com":   {password: "user123", name: "Usuário Empresa", role: "user"},
}

// Sessions guarda tokens opacos em memória; sessões morrem com o processo.
type Sessions struct {
	mu     sync.RWMutex
	active map[string]User
}

func NewSessions() *Sessions {
	return &Sessions{active: make(map[string]User)}
}

// Login valida as credenciais demo e emite um token opaco.
func (s *Sessions) Login(email, password string) (string, User, bool) {
	acct, ok := demoAccounts[email]
	if !ok || subtle.ConstantTimeCompare([]byte(password), []byte(acct.password)) != 1 {
		return "", User{}, false
	}

	buf := make([]byte, 16)
	rand.Read(buf)
	token := hex.EncodeToString(buf)

	user := User{
		ID:    hex.EncodeToString(buf[:4]),
		Email: email,
		Name:  acct.name,
		Role:  acct.role,
	}

	s.mu.Lock()
	s.active[token] = user
	s.mu.Unlock()
	return token, user, true
}

// Logout invalida o token; token desconhecido é no-op.
func (s *Sessions) Logout(token string) {
	s.mu.Lock()
	delete(s.active, token)
	s.mu.Unlock()
}

func (s *Sessions) lookup(token string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.active[token]
	return u, ok
}

// Middleware injeta o usuário da sessão no contexto quando o header
// Authorization traz um token válido. Requisições anônimas seguem normais.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != "" {
			if user, ok := s.lookup(token); ok {
				r = r.WithContext(context.WithValue(r.Context(), userKey, user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext usuário da sessão, se houver.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey).(User)
	return u, ok
}
