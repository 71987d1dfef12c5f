package model

import (
	"time"

	"github.com/google/uuid"
)

type HistoryAction string

const (
	HistoryActionCreated           HistoryAction = "created"
	HistoryActionUpdated           HistoryAction = "updated"
	HistoryActionDeleted           HistoryAction = "deleted"
	HistoryActionGenerated         HistoryAction = "generated" // ocorrência criada pelo agendador
	HistoryActionRecurrencePaused  HistoryAction = "recurrence_paused"
	HistoryActionRecurrenceResumed HistoryAction = "recurrence_resumed"
)

// HistoryEntry é um registro de auditoria de uma obrigação. Para ocorrências
// geradas automaticamente, TemplateID aponta para a obrigação modelo.
type HistoryEntry struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	ObligationID uuid.UUID     `json:"obligation_id" db:"obligation_id"`
	TemplateID   *uuid.UUID    `json:"template_id,omitempty" db:"template_id"`
	Action       HistoryAction `json:"action" db:"action"`
	Details      string        `json:"details,omitempty" db:"details"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}
