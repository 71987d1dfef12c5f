package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

// ObligationStore é o contrato de persistência do qual os serviços dependem.
// Implementado por repository.ObligationRepository; os testes usam uma
// versão em memória.
type ObligationStore interface {
	Create(ctx context.Context, ob *model.Obligation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Obligation, error)
	List(ctx context.Context) ([]model.Obligation, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]model.Obligation, error)
	ListWithRecurrence(ctx context.Context) ([]model.Obligation, error)
	Update(ctx context.Context, ob *model.Obligation) error
	UpdateRecurrence(ctx context.Context, id uuid.UUID, rec *model.Recurrence) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ObligationStatus) error
	MarkOverdue(ctx context.Context, before time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// HistoryStore é o contrato de persistência dos registros de auditoria
type HistoryStore interface {
	Append(ctx context.Context, entry *model.HistoryEntry) error
	ListByObligation(ctx context.Context, obligationID uuid.UUID) ([]model.HistoryEntry, error)
}
