package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

// memStore é uma implementação em memória de ObligationStore para os testes
type memStore struct {
	mu                   sync.Mutex
	obligations          map[uuid.UUID]*model.Obligation
	failCreate           bool
	failUpdateRecurrence bool
	createCalls          int
}

func newMemStore() *memStore {
	return &memStore{obligations: make(map[uuid.UUID]*model.Obligation)}
}

func copyObligation(ob *model.Obligation) *model.Obligation {
	clone := *ob
	if ob.Recurrence != nil {
		rec := *ob.Recurrence
		clone.Recurrence = &rec
	}
	return &clone
}

func (m *memStore) Create(_ context.Context, ob *model.Obligation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.failCreate {
		return fmt.Errorf("falha simulada de criação")
	}
	m.obligations[ob.ID] = copyObligation(ob)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*model.Obligation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ob, ok := m.obligations[id]
	if !ok {
		return nil, fmt.Errorf("obrigação não encontrada")
	}
	return copyObligation(ob), nil
}

func (m *memStore) List(_ context.Context) ([]model.Obligation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Obligation
	for _, ob := range m.obligations {
		out = append(out, *copyObligation(ob))
	}
	return out, nil
}

func (m *memStore) ListByPeriod(_ context.Context, from, to time.Time) ([]model.Obligation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Obligation
	for _, ob := range m.obligations {
		if !ob.DueDate.Before(from) && !ob.DueDate.After(to) {
			out = append(out, *copyObligation(ob))
		}
	}
	return out, nil
}

func (m *memStore) ListWithRecurrence(_ context.Context) ([]model.Obligation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Obligation
	for _, ob := range m.obligations {
		if ob.Recurrence != nil {
			out = append(out, *copyObligation(ob))
		}
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, ob *model.Obligation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.obligations[ob.ID]; !ok {
		return fmt.Errorf("obrigação não encontrada")
	}
	m.obligations[ob.ID] = copyObligation(ob)
	return nil
}

func (m *memStore) UpdateRecurrence(_ context.Context, id uuid.UUID, rec *model.Recurrence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdateRecurrence {
		return fmt.Errorf("falha simulada de atualização")
	}
	ob, ok := m.obligations[id]
	if !ok {
		return fmt.Errorf("obrigação não encontrada")
	}
	if rec != nil {
		clone := *rec
		ob.Recurrence = &clone
	} else {
		ob.Recurrence = nil
	}
	return nil
}

func (m *memStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.ObligationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ob, ok := m.obligations[id]
	if !ok {
		return fmt.Errorf("obrigação não encontrada")
	}
	ob.Status = status
	return nil
}

func (m *memStore) MarkOverdue(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, ob := range m.obligations {
		if ob.Status == model.StatusPending && ob.DueDate.Before(before) {
			ob.Status = model.StatusOverdue
			count++
		}
	}
	return count, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.obligations[id]; !ok {
		return fmt.Errorf("obrigação não encontrada")
	}
	delete(m.obligations, id)
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.obligations)
}

// memHistory é uma implementação em memória de HistoryStore
type memHistory struct {
	mu      sync.Mutex
	entries []model.HistoryEntry
}

func (m *memHistory) Append(_ context.Context, entry *model.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memHistory) ListByObligation(_ context.Context, obligationID uuid.UUID) ([]model.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.HistoryEntry
	for _, e := range m.entries {
		if e.ObligationID == obligationID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeHolidaySource devolve feriados fixos por ano e permite simular
// indisponibilidade do serviço externo
type fakeHolidaySource struct {
	mu       sync.Mutex
	holidays map[int][]model.Holiday
	err      error
	calls    int
}

func newFakeHolidaySource() *fakeHolidaySource {
	return &fakeHolidaySource{holidays: make(map[int][]model.Holiday)}
}

func (f *fakeHolidaySource) add(date time.Time, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holidays[date.Year()] = append(f.holidays[date.Year()], model.Holiday{
		Date: date,
		Name: name,
		Type: model.HolidayTypeNational,
	})
}

func (f *fakeHolidaySource) GetHolidays(_ context.Context, year int) ([]model.Holiday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.holidays[year], nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }
