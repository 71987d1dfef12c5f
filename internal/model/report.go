package model

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRun é o resultado agregado de uma execução do agendador diário.
// Não é persistido; serve apenas para log operacional e resposta da API.
type GenerationRun struct {
	StartedAt     time.Time     `json:"started_at"`
	Elapsed       time.Duration `json:"elapsed_ms"`
	Scanned       int           `json:"scanned"`
	Generated     int           `json:"generated"`
	Errors        int           `json:"errors"`
	MarkedOverdue int64         `json:"marked_overdue"`
	Created       []Obligation  `json:"created,omitempty"`
}

// ObligationStats - estatísticas das obrigações por período
type ObligationStats struct {
	Total    int                      `json:"total"`
	Overdue  int                      `json:"overdue"`
	ByStatus map[ObligationStatus]int `json:"by_status"`
	ByType   map[ObligationType]int   `json:"by_type"`
}

// VirtualOccurrence é uma ocorrência futura projetada de um modelo recorrente.
// Calculada sob demanda para o calendário, nunca persistida.
type VirtualOccurrence struct {
	TemplateID uuid.UUID      `json:"template_id"`
	Title      string         `json:"title"`
	DueDate    time.Time      `json:"due_date"`
	Type       ObligationType `json:"type"`
	Virtual    bool           `json:"virtual"`
}

// CalendarMonth - visão mensal do calendário fiscal: obrigações persistidas,
// ocorrências virtuais projetadas e feriados do mês
type CalendarMonth struct {
	Year        int                 `json:"year"`
	Month       int                 `json:"month"`
	Obligations []Obligation        `json:"obligations"`
	Virtual     []VirtualOccurrence `json:"virtual"`
	Holidays    []Holiday           `json:"holidays"`
}
