package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/avcbdigital/avcb-api/internal/application/analysis"
	domain "github.com/avcbdigital/avcb-api/internal/domain/analysis"
	"github.com/avcbdigital/avcb-api/internal/domain/risk"
	"github.com/avcbdigital/avcb-api/internal/infra/registry/brasilapi"
	"github.com/avcbdigital/avcb-api/internal/middleware"
)

type Router struct {
	svc      *appanalysis.Service
	sessions *middleware.Sessions
}

// Options dependências transversais do router
type Options struct {
	// Origem do frontend autorizado no CORS.
	AllowedOrigin string
	// Verificações expostas em /health.
	HealthCheckers map[string]middleware.HealthChecker
}

func NewRouter(svc *appanalysis.Service, sessions *middleware.Sessions, opts Options) http.Handler {
	r := &Router{svc: svc, sessions: sessions}
	mux := chi.NewRouter()

	mux.Use(middleware.Logging)
	if opts.AllowedOrigin != "" {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{opts.AllowedOrigin},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}
	if sessions != nil {
		mux.Use(sessions.Middleware)
	}

	mux.Get("/", r.wrap(r.handleRoot))
	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler)

	mux.Route("/api/analyses", func(rt chi.Router) {
		rt.Get("/", r.wrap(r.handleList))
		rt.Post("/", r.wrap(r.handleCreate))
		rt.Post("/score", r.wrap(r.handleScore))
		// Caminho herdado do backend original, preservado por
		// compatibilidade com o dashboard.
		rt.Get("/api/stats", r.wrap(r.handleStats))
		rt.Get("/{id}", r.wrap(r.handleGet))
		rt.Delete("/{id}", r.wrap(r.handleDelete))
	})

	mux.Get("/api/cnpj/{cnpj}", r.wrap(r.handleLookup))

	mux.Post("/api/auth/login", r.wrap(r.handleLogin))
	mux.Post("/api/auth/logout", r.wrap(r.handleLogout))

	return mux
}

// badRequest erro de validação, mapeado para 400.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, brasilapi.ErrEmpresaNaoEncontrada):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, brasilapi.ErrCNPJInvalido):
			writeError(w, http.StatusBadRequest, err)
		default:
			var br badRequest
			if errors.As(err, &br) {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// GET /
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"message": "API Sistema AVCB Digital - CBMPE",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":   "/health",
			"analyses": "/api/analyses",
			"stats":    "/api/analyses/api/stats",
		},
	})
}

// GET /api/analyses?status=&risk_level=&cnpj=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	f := domain.Filter{
		Status:    domain.Status(q.Get("status")),
		RiskLevel: risk.Level(q.Get("risk_level")),
	}
	if cnpj := q.Get("cnpj"); cnpj != "" {
		digits, err := brasilapi.NormalizeCNPJ(cnpj)
		if err != nil {
			return err
		}
		f.CNPJ = digits
	}

	list, err := r.svc.List(req.Context(), f)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.CompanyAnalysis{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	a, err := r.svc.Get(req.Context(), domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

// POST /api/analyses
// Body: forma persistida do agregado, sem id (o servidor gera).
func (r *Router) handleCreate(w http.ResponseWriter, req *http.Request) error {
	var body domain.CompanyAnalysis
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{msg: fmt.Sprintf("body inválido: %v", err)}
	}

	digits, err := brasilapi.NormalizeCNPJ(body.CNPJ)
	if err != nil {
		return err
	}
	body.CNPJ = digits

	if strings.TrimSpace(body.RazaoSocial) == "" {
		return badRequest{msg: "razao_social é obrigatória"}
	}
	if len(body.Analise.Answers) == 0 && !risk.HighRiskCNAE(body.CNAEFiscal) {
		return badRequest{msg: "analise.answers é obrigatório"}
	}
	switch body.Status {
	case "", domain.StatusPendente, domain.StatusAprovado, domain.StatusReprovado:
	default:
		return badRequest{msg: fmt.Sprintf("status inválido: %q", body.Status)}
	}

	body.ID = "" // o identificador é sempre do servidor
	id, err := r.svc.Create(req.Context(), &body)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "Análise criada com sucesso",
	})
}

// DELETE /api/analyses/{id}
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := r.svc.Delete(req.Context(), domain.AnalysisID(id)); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{
		"message": "Análise deletada com sucesso",
	})
}

// GET /api/analyses/api/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	stats, err := r.svc.Stats(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, stats)
}

// POST /api/analyses/score
// Body: {"cnae_fiscal": "...", "answers": {questionId: valor}}
func (r *Router) handleScore(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		CNAEFiscal string         `json:"cnae_fiscal"`
		Answers    map[string]any `json:"answers"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{msg: fmt.Sprintf("body inválido: %v", err)}
	}
	if body.CNAEFiscal == "" {
		return badRequest{msg: "cnae_fiscal é obrigatório"}
	}

	res, err := r.svc.Evaluate(appanalysis.EvaluateCommand{
		CNAE:    body.CNAEFiscal,
		Answers: body.Answers,
	})
	if err != nil {
		return badRequest{msg: err.Error()}
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /api/cnpj/{cnpj}
func (r *Router) handleLookup(w http.ResponseWriter, req *http.Request) error {
	profile, err := r.svc.Lookup(req.Context(), chi.URLParam(req, "cnpj"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, profile)
}

// POST /api/auth/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	if r.sessions == nil {
		return badRequest{msg: "autenticação desabilitada"}
	}
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{msg: fmt.Sprintf("body inválido: %v", err)}
	}

	token, user, ok := r.sessions.Login(body.Email, body.Password)
	if !ok {
		return writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "credenciais inválidas",
		})
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// POST /api/auth/logout
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	if r.sessions != nil {
		auth := req.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		r.sessions.Logout(token)
	}
	return writeJSON(w, http.StatusOK, map[string]string{"message": "sessão encerrada"})
}
