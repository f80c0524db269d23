package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	domain "github.com/avcbdigital/avcb-api/internal/domain/analysis"
	"github.com/avcbdigital/avcb-api/internal/domain/risk"
)

// Store backend local: registros em memória ordenados por chave, com
// snapshot JSON gravado a cada mutação (porta o fallback localStorage do
// sistema original). Last-write-wins, sem transações.
type Store struct {
	mu      sync.RWMutex
	path    string
	records map[domain.AnalysisID]*domain.CompanyAnalysis
	ids     []domain.AnalysisID // ordenado por chave
}

// New abre (ou cria) o store no caminho dado. Caminho vazio mantém tudo
// apenas em memória.
func New(path string) (*Store, error) {
	s := &Store{
		path:    path,
		records: make(map[domain.AnalysisID]*domain.CompanyAnalysis),
	}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	var list []*domain.CompanyAnalysis
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("snapshot corrompido em %s: %w", path, err)
	}
	for _, a := range list {
		s.records[a.ID] = a
		s.ids = append(s.ids, a.ID)
	}
	s.sortIDs()
	return s, nil
}

func (s *Store) sortIDs() {
	sort.Slice(s.ids, func(i, j int) bool { return s.ids[i] < s.ids[j] })
}

// snapshot grava o arquivo por temp + rename para que leitores nunca vejam
// um registro pela metade.
func (s *Store) snapshot() error {
	if s.path == "" {
		return nil
	}
	list := make([]*domain.CompanyAnalysis, 0, len(s.ids))
	for _, id := range s.ids {
		list = append(list, s.records[id])
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func clone(a *domain.CompanyAnalysis) *domain.CompanyAnalysis {
	out := *a
	out.Analise.Answers = append([]domain.Answer(nil), a.Analise.Answers...)
	if a.Certificado != nil {
		cert := *a.Certificado
		out.Certificado = &cert
	}
	return &out
}

// Save insert-or-replace por id.
func (s *Store) Save(ctx context.Context, a *domain.CompanyAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[a.ID]; !exists {
		s.ids = append(s.ids, a.ID)
		s.sortIDs()
	}
	s.records[a.ID] = clone(a)
	return s.snapshot()
}

func matches(a *domain.CompanyAnalysis, f domain.Filter) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.RiskLevel != "" && a.Analise.RiskLevel != f.RiskLevel {
		return false
	}
	if f.CNPJ != "" && a.CNPJ != f.CNPJ {
		return false
	}
	return true
}

// GetAll lista do mais recente para o mais antigo.
func (s *Store) GetAll(ctx context.Context, f domain.Filter) ([]*domain.CompanyAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.CompanyAnalysis, 0, len(s.ids))
	for _, id := range s.ids {
		if a := s.records[id]; matches(a, f) {
			out = append(out, clone(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DataAnalise.After(out[j].DataAnalise)
	})
	return out, nil
}

// GetByID registro completo ou ErrNotFound
func (s *Store) GetByID(ctx context.Context, id domain.AnalysisID) (*domain.CompanyAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(a), nil
}

// GetByCNPJ histórico por empresa, mais recente primeiro.
func (s *Store) GetByCNPJ(ctx context.Context, cnpj string) ([]*domain.CompanyAnalysis, error) {
	return s.GetAll(ctx, domain.Filter{CNPJ: cnpj})
}

// Delete remove o agregado inteiro.
func (s *Store) Delete(ctx context.Context, id domain.AnalysisID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return s.snapshot()
}

// Stats contagens agregadas, mesmo formato do backend relacional.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st domain.Stats
	for _, a := range s.records {
		st.Total++
		switch a.Status {
		case domain.StatusAprovado:
			st.Aprovados++
		case domain.StatusPendente:
			st.Pendentes++
		case domain.StatusReprovado:
			st.Reprovados++
		}
		switch a.Analise.RiskLevel {
		case risk.LevelLow:
			st.PorRisco.Baixo++
		case risk.LevelMedium:
			st.PorRisco.Medio++
		case risk.LevelHigh:
			st.PorRisco.Alto++
		}
		if a.Certificado != nil {
			switch a.Certificado.Tipo {
			case domain.CertDDLCB:
				st.PorTipo.DDLCB++
			case domain.CertAR:
				st.PorTipo.AR++
			case domain.CertAVCB:
				st.PorTipo.AVCB++
			}
		}
	}
	return st, nil
}

// Ping para o health check.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.path == "" {
		return nil
	}
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
