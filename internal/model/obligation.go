package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type ObligationType string

const (
	ObligationTypeFederal        ObligationType = "federal"         // tributos federais (IRPJ, PIS, COFINS...)
	ObligationTypeState          ObligationType = "state"           // tributos estaduais (ICMS...)
	ObligationTypeMunicipal      ObligationType = "municipal"       // tributos municipais (ISS, IPTU...)
	ObligationTypeLabor          ObligationType = "labor"           // obrigações trabalhistas (FGTS, folha...)
	ObligationTypeSocialSecurity ObligationType = "social_security" // obrigações previdenciárias (INSS...)
	ObligationTypeOther          ObligationType = "other"           // demais obrigações
)

type ObligationStatus string

const (
	StatusPending    ObligationStatus = "pending"
	StatusInProgress ObligationStatus = "in_progress"
	StatusCompleted  ObligationStatus = "completed"
	StatusOverdue    ObligationStatus = "overdue"
	StatusCancelled  ObligationStatus = "cancelled"
)

// AdjustmentDirection indica para onde mover um vencimento que cai em dia não útil
type AdjustmentDirection string

const (
	DirectionNext     AdjustmentDirection = "next"     // adia para o próximo dia útil
	DirectionPrevious AdjustmentDirection = "previous" // recua para o dia útil anterior
)

type Periodicity string

const (
	PeriodicityMonthly    Periodicity = "monthly"
	PeriodicityBimonthly  Periodicity = "bimonthly"
	PeriodicityQuarterly  Periodicity = "quarterly"
	PeriodicitySemiannual Periodicity = "semiannual"
	PeriodicityAnnual     Periodicity = "annual"
	PeriodicityCustom     Periodicity = "custom"
)

// Recurrence é a configuração de recorrência embutida em uma obrigação.
// LastGeneration guarda o vencimento usado na última ocorrência gerada
// e nunca retrocede no tempo.
type Recurrence struct {
	Periodicity    Periodicity `json:"periodicity" db:"recurrence_periodicity"`
	IntervalMonths *int        `json:"interval_months,omitempty" db:"recurrence_interval_months"`
	DayOfMonth     *int        `json:"day_of_month,omitempty" db:"recurrence_day_of_month"`
	EndDate        *time.Time  `json:"end_date,omitempty" db:"recurrence_end_date"`
	NextOccurrence *time.Time  `json:"next_occurrence,omitempty" db:"recurrence_next_occurrence"`
	Active         bool        `json:"active" db:"recurrence_active"`
	GenerationDay  int         `json:"generation_day" db:"recurrence_generation_day"`
	LastGeneration *time.Time  `json:"last_generation,omitempty" db:"recurrence_last_generation"`
}

// Validate rejeita configurações de recorrência inválidas antes de qualquer geração.
// Periodicidade custom exige intervalo positivo; campos de dia ficam em [1,31].
func (r Recurrence) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Periodicity,
			validation.Required,
			validation.In(
				PeriodicityMonthly,
				PeriodicityBimonthly,
				PeriodicityQuarterly,
				PeriodicitySemiannual,
				PeriodicityAnnual,
				PeriodicityCustom,
			),
		),
		validation.Field(&r.IntervalMonths,
			validation.When(r.Periodicity == PeriodicityCustom,
				validation.Required.Error("periodicidade custom exige interval_months"),
				validation.Min(1),
			).Else(validation.Min(1)),
		),
		validation.Field(&r.DayOfMonth, validation.Min(1), validation.Max(31)),
		validation.Field(&r.GenerationDay, validation.Min(1), validation.Max(31)),
	)
}

// Obligation representa uma obrigação fiscal de um cliente do escritório.
// OriginalDueDate guarda sempre o vencimento antes de qualquer ajuste de dia
// útil; DueDate é a data efetivamente usada para agenda e exibição.
type Obligation struct {
	ID                   uuid.UUID           `json:"id" db:"id"`
	Title                string              `json:"title" db:"title"`
	Description          string              `json:"description,omitempty" db:"description"`
	DueDate              time.Time           `json:"due_date" db:"due_date"`
	OriginalDueDate      time.Time           `json:"original_due_date" db:"original_due_date"`
	Type                 ObligationType      `json:"type" db:"type"`
	Status               ObligationStatus    `json:"status" db:"status"`
	ClientName           string              `json:"client_name,omitempty" db:"client_name"`
	CompanyName          string              `json:"company_name,omitempty" db:"company_name"`
	OwnerName            string              `json:"owner_name,omitempty" db:"owner_name"`
	Recurrence           *Recurrence         `json:"recurrence,omitempty"`
	AdjustForBusinessDay bool                `json:"adjust_for_business_day" db:"adjust_for_business_day"`
	AdjustmentDirection  AdjustmentDirection `json:"adjustment_direction" db:"adjustment_direction"`
	CreatedBy            string              `json:"created_by,omitempty" db:"created_by"`
	CreatedAt            time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at" db:"updated_at"`
}

// IsRecurring indica se a obrigação é um modelo de recorrência ativo
func (o *Obligation) IsRecurring() bool {
	return o.Recurrence != nil && o.Recurrence.Active
}

type CreateObligationRequest struct {
	Title                string              `json:"title"`
	Description          string              `json:"description"`
	DueDate              time.Time           `json:"due_date"`
	Type                 ObligationType      `json:"type"`
	ClientName           string              `json:"client_name"`
	CompanyName          string              `json:"company_name"`
	OwnerName            string              `json:"owner_name"`
	Recurrence           *Recurrence         `json:"recurrence"`
	AdjustForBusinessDay bool                `json:"adjust_for_business_day"`
	AdjustmentDirection  AdjustmentDirection `json:"adjustment_direction"`
	CreatedBy            string              `json:"created_by"`
}

// Validate valida o pedido de criação, incluindo a recorrência embutida
func (r CreateObligationRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.DueDate, validation.Required),
		validation.Field(&r.Type,
			validation.Required,
			validation.In(
				ObligationTypeFederal,
				ObligationTypeState,
				ObligationTypeMunicipal,
				ObligationTypeLabor,
				ObligationTypeSocialSecurity,
				ObligationTypeOther,
			),
		),
		validation.Field(&r.AdjustmentDirection,
			validation.In(DirectionNext, DirectionPrevious),
		),
	); err != nil {
		return err
	}
	if r.Recurrence != nil {
		return r.Recurrence.Validate()
	}
	return nil
}

// UpdateObligationRequest atualiza parcialmente uma obrigação: campos nulos
// são mantidos como estão
type UpdateObligationRequest struct {
	Title                *string              `json:"title"`
	Description          *string              `json:"description"`
	DueDate              *time.Time           `json:"due_date"`
	Type                 *ObligationType      `json:"type"`
	Status               *ObligationStatus    `json:"status"`
	ClientName           *string              `json:"client_name"`
	CompanyName          *string              `json:"company_name"`
	OwnerName            *string              `json:"owner_name"`
	Recurrence           *Recurrence          `json:"recurrence"`
	AdjustForBusinessDay *bool                `json:"adjust_for_business_day"`
	AdjustmentDirection  *AdjustmentDirection `json:"adjustment_direction"`
}

// Validate valida os campos presentes no pedido de atualização
func (r UpdateObligationRequest) Validate() error {
	if r.Status != nil {
		if err := validation.Validate(*r.Status, validation.In(
			StatusPending, StatusInProgress, StatusCompleted, StatusOverdue, StatusCancelled,
		)); err != nil {
			return err
		}
	}
	if r.Type != nil {
		if err := validation.Validate(*r.Type, validation.In(
			ObligationTypeFederal,
			ObligationTypeState,
			ObligationTypeMunicipal,
			ObligationTypeLabor,
			ObligationTypeSocialSecurity,
			ObligationTypeOther,
		)); err != nil {
			return err
		}
	}
	if r.AdjustmentDirection != nil {
		if err := validation.Validate(*r.AdjustmentDirection, validation.In(
			DirectionNext, DirectionPrevious,
		)); err != nil {
			return err
		}
	}
	if r.Recurrence != nil {
		return r.Recurrence.Validate()
	}
	return nil
}
