package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

type HistoryRepository struct {
	db     *sql.DB
	driver string
	logger *logrus.Logger
}

func NewHistoryRepository(db *sql.DB, driver string, logger *logrus.Logger) *HistoryRepository {
	return &HistoryRepository{db: db, driver: driver, logger: logger}
}

func (r *HistoryRepository) Append(ctx context.Context, entry *model.HistoryEntry) error {
	query := rebind(r.driver, `
        INSERT INTO obligation_history (id, obligation_id, template_id, action, details, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `)

	var templateID any
	if entry.TemplateID != nil {
		templateID = *entry.TemplateID
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ObligationID,
		templateID,
		entry.Action,
		entry.Details,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("falha ao registrar histórico: %w", err)
	}

	return nil
}

func (r *HistoryRepository) ListByObligation(ctx context.Context, obligationID uuid.UUID) ([]model.HistoryEntry, error) {
	query := rebind(r.driver, `
        SELECT id, obligation_id, template_id, action, details, created_at
        FROM obligation_history
        WHERE obligation_id = $1
        ORDER BY created_at
    `)

	rows, err := r.db.QueryContext(ctx, query, obligationID)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar histórico: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var templateID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.ObligationID,
			&templateID,
			&entry.Action,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("falha ao ler histórico: %w", err)
		}
		if templateID.Valid {
			id, err := uuid.Parse(templateID.String)
			if err == nil {
				entry.TemplateID = &id
			}
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
