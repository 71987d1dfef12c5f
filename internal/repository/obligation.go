package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

type ObligationRepository struct {
	db     *sql.DB
	driver string
	logger *logrus.Logger
}

func NewObligationRepository(db *sql.DB, driver string, logger *logrus.Logger) *ObligationRepository {
	return &ObligationRepository{db: db, driver: driver, logger: logger}
}

const obligationColumns = `id, title, description, due_date, original_due_date, type, status,
        client_name, company_name, owner_name, adjust_for_business_day, adjustment_direction,
        created_by, recurrence_periodicity, recurrence_interval_months, recurrence_day_of_month,
        recurrence_end_date, recurrence_next_occurrence, recurrence_active,
        recurrence_generation_day, recurrence_last_generation, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanObligation lê uma linha completa, remontando a recorrência embutida
// quando recurrence_periodicity não é nula
func scanObligation(row rowScanner) (*model.Obligation, error) {
	var ob model.Obligation
	var recPeriodicity sql.NullString
	var recInterval, recDay, recGenDay sql.NullInt64
	var recEnd, recNext, recLast sql.NullTime
	var recActive sql.NullBool

	err := row.Scan(
		&ob.ID,
		&ob.Title,
		&ob.Description,
		&ob.DueDate,
		&ob.OriginalDueDate,
		&ob.Type,
		&ob.Status,
		&ob.ClientName,
		&ob.CompanyName,
		&ob.OwnerName,
		&ob.AdjustForBusinessDay,
		&ob.AdjustmentDirection,
		&ob.CreatedBy,
		&recPeriodicity,
		&recInterval,
		&recDay,
		&recEnd,
		&recNext,
		&recActive,
		&recGenDay,
		&recLast,
		&ob.CreatedAt,
		&ob.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if recPeriodicity.Valid {
		rec := &model.Recurrence{
			Periodicity:   model.Periodicity(recPeriodicity.String),
			Active:        recActive.Bool,
			GenerationDay: int(recGenDay.Int64),
		}
		if recInterval.Valid {
			v := int(recInterval.Int64)
			rec.IntervalMonths = &v
		}
		if recDay.Valid {
			v := int(recDay.Int64)
			rec.DayOfMonth = &v
		}
		if recEnd.Valid {
			v := recEnd.Time
			rec.EndDate = &v
		}
		if recNext.Valid {
			v := recNext.Time
			rec.NextOccurrence = &v
		}
		if recLast.Valid {
			v := recLast.Time
			rec.LastGeneration = &v
		}
		ob.Recurrence = rec
	}

	return &ob, nil
}

// recurrenceArgs expande a recorrência (possivelmente nula) nos oito
// argumentos das colunas recurrence_*
func recurrenceArgs(rec *model.Recurrence) []any {
	if rec == nil {
		return []any{nil, nil, nil, nil, nil, nil, nil, nil}
	}
	return []any{
		string(rec.Periodicity),
		nullInt(rec.IntervalMonths),
		nullInt(rec.DayOfMonth),
		nullTime(rec.EndDate),
		nullTime(rec.NextOccurrence),
		rec.Active,
		rec.GenerationDay,
		nullTime(rec.LastGeneration),
	}
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}

func (r *ObligationRepository) Create(ctx context.Context, ob *model.Obligation) error {
	query := rebind(r.driver, `
        INSERT INTO obligations (`+obligationColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
                $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
    `)

	args := []any{
		ob.ID,
		ob.Title,
		ob.Description,
		ob.DueDate,
		ob.OriginalDueDate,
		ob.Type,
		ob.Status,
		ob.ClientName,
		ob.CompanyName,
		ob.OwnerName,
		ob.AdjustForBusinessDay,
		ob.AdjustmentDirection,
		ob.CreatedBy,
	}
	args = append(args, recurrenceArgs(ob.Recurrence)...)
	args = append(args, ob.CreatedAt, ob.UpdatedAt)

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("obrigação já existe")
			}
		}
		return fmt.Errorf("falha ao criar obrigação: %w", err)
	}

	return nil
}

func (r *ObligationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Obligation, error) {
	query := rebind(r.driver, `
        SELECT `+obligationColumns+`
        FROM obligations
        WHERE id = $1
    `)

	ob, err := scanObligation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("obrigação não encontrada")
		}
		return nil, fmt.Errorf("falha ao buscar obrigação: %w", err)
	}

	return ob, nil
}

func (r *ObligationRepository) List(ctx context.Context) ([]model.Obligation, error) {
	query := `
        SELECT ` + obligationColumns + `
        FROM obligations
        ORDER BY due_date
    `

	return r.queryMany(ctx, query)
}

// ListByPeriod retorna as obrigações com vencimento dentro do período (inclusive)
func (r *ObligationRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]model.Obligation, error) {
	query := rebind(r.driver, `
        SELECT `+obligationColumns+`
        FROM obligations
        WHERE due_date >= $1 AND due_date <= $2
        ORDER BY due_date
    `)

	return r.queryMany(ctx, query, from, to)
}

// ListWithRecurrence retorna as obrigações que possuem configuração de
// recorrência, candidatas da geração diária
func (r *ObligationRepository) ListWithRecurrence(ctx context.Context) ([]model.Obligation, error) {
	query := `
        SELECT ` + obligationColumns + `
        FROM obligations
        WHERE recurrence_periodicity IS NOT NULL
        ORDER BY due_date
    `

	return r.queryMany(ctx, query)
}

func (r *ObligationRepository) queryMany(ctx context.Context, query string, args ...any) ([]model.Obligation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar obrigações: %w", err)
	}
	defer rows.Close()

	var obligations []model.Obligation
	for rows.Next() {
		ob, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler obrigação: %w", err)
		}
		obligations = append(obligations, *ob)
	}

	return obligations, rows.Err()
}

func (r *ObligationRepository) Update(ctx context.Context, ob *model.Obligation) error {
	query := rebind(r.driver, `
        UPDATE obligations
        SET title = $1,
            description = $2,
            due_date = $3,
            original_due_date = $4,
            type = $5,
            status = $6,
            client_name = $7,
            company_name = $8,
            owner_name = $9,
            adjust_for_business_day = $10,
            adjustment_direction = $11,
            recurrence_periodicity = $12,
            recurrence_interval_months = $13,
            recurrence_day_of_month = $14,
            recurrence_end_date = $15,
            recurrence_next_occurrence = $16,
            recurrence_active = $17,
            recurrence_generation_day = $18,
            recurrence_last_generation = $19,
            updated_at = $20
        WHERE id = $21
    `)

	args := []any{
		ob.Title,
		ob.Description,
		ob.DueDate,
		ob.OriginalDueDate,
		ob.Type,
		ob.Status,
		ob.ClientName,
		ob.CompanyName,
		ob.OwnerName,
		ob.AdjustForBusinessDay,
		ob.AdjustmentDirection,
	}
	args = append(args, recurrenceArgs(ob.Recurrence)...)
	args = append(args, time.Now(), ob.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("falha ao atualizar obrigação: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("obrigação não encontrada")
	}

	return nil
}

// UpdateRecurrence atualiza apenas o sub-registro de recorrência de uma
// obrigação, usado pelo gerador para avançar o marcador de última geração
func (r *ObligationRepository) UpdateRecurrence(ctx context.Context, id uuid.UUID, rec *model.Recurrence) error {
	query := rebind(r.driver, `
        UPDATE obligations
        SET recurrence_periodicity = $1,
            recurrence_interval_months = $2,
            recurrence_day_of_month = $3,
            recurrence_end_date = $4,
            recurrence_next_occurrence = $5,
            recurrence_active = $6,
            recurrence_generation_day = $7,
            recurrence_last_generation = $8,
            updated_at = $9
        WHERE id = $10
    `)

	args := recurrenceArgs(rec)
	args = append(args, time.Now(), id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("falha ao atualizar recorrência: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("obrigação não encontrada")
	}

	return nil
}

func (r *ObligationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ObligationStatus) error {
	query := rebind(r.driver, `
        UPDATE obligations
        SET status = $1,
            updated_at = $2
        WHERE id = $3
    `)

	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("falha ao atualizar status: %w", err)
	}

	return nil
}

// MarkOverdue marca como atrasadas as obrigações pendentes com vencimento
// anterior à data informada e retorna a quantidade afetada
func (r *ObligationRepository) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	query := rebind(r.driver, `
        UPDATE obligations
        SET status = $1,
            updated_at = $2
        WHERE status = $3 AND due_date < $4
    `)

	result, err := r.db.ExecContext(ctx, query, model.StatusOverdue, time.Now(), model.StatusPending, before)
	if err != nil {
		return 0, fmt.Errorf("falha ao marcar obrigações atrasadas: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("falha ao contar obrigações atrasadas: %w", err)
	}
	return affected, nil
}

func (r *ObligationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := rebind(r.driver, `DELETE FROM obligations WHERE id = $1`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("falha ao excluir obrigação: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("obrigação não encontrada")
	}

	return nil
}
