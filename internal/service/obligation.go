package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

// ObligationService implementa o CRUD de obrigações usado pela API
type ObligationService struct {
	store   ObligationStore
	history HistoryStore
	workday *WorkdayService
	logger  *logrus.Logger
}

func NewObligationService(
	store ObligationStore,
	history HistoryStore,
	workday *WorkdayService,
	logger *logrus.Logger,
) *ObligationService {
	return &ObligationService{
		store:   store,
		history: history,
		workday: workday,
		logger:  logger,
	}
}

func (s *ObligationService) Create(ctx context.Context, req model.CreateObligationRequest) (*model.Obligation, error) {
	s.logger.Infof("Criando obrigação %q para o cliente %q", req.Title, req.ClientName)

	if err := req.Validate(); err != nil {
		s.logger.WithError(err).Warn("Pedido de criação de obrigação inválido")
		return nil, err
	}

	direction := req.AdjustmentDirection
	if direction == "" {
		direction = model.DirectionNext
	}

	rec := req.Recurrence
	if rec != nil && rec.GenerationDay < 1 {
		rec.GenerationDay = 1
	}

	originalDue := DateOnly(req.DueDate)
	dueDate := originalDue
	if req.AdjustForBusinessDay {
		dueDate = s.workday.Adjust(ctx, originalDue, direction)
	}

	now := time.Now()
	ob := &model.Obligation{
		ID:                   uuid.New(),
		Title:                req.Title,
		Description:          req.Description,
		DueDate:              dueDate,
		OriginalDueDate:      originalDue,
		Type:                 req.Type,
		Status:               model.StatusPending,
		ClientName:           req.ClientName,
		CompanyName:          req.CompanyName,
		OwnerName:            req.OwnerName,
		Recurrence:           rec,
		AdjustForBusinessDay: req.AdjustForBusinessDay,
		AdjustmentDirection:  direction,
		CreatedBy:            req.CreatedBy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.store.Create(ctx, ob); err != nil {
		s.logger.WithError(err).Error("Erro ao criar obrigação")
		return nil, fmt.Errorf("erro ao criar obrigação: %w", err)
	}

	s.appendHistory(ctx, ob.ID, nil, model.HistoryActionCreated, "Obrigação criada")

	s.logger.Infof("Obrigação %s criada com sucesso", ob.ID)
	return ob, nil
}

func (s *ObligationService) GetByID(ctx context.Context, id uuid.UUID) (*model.Obligation, error) {
	ob, err := s.store.GetByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).Errorf("Erro ao buscar obrigação %s", id)
		return nil, fmt.Errorf("erro ao buscar obrigação: %w", err)
	}
	return ob, nil
}

func (s *ObligationService) List(ctx context.Context) ([]model.Obligation, error) {
	obligations, err := s.store.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Erro ao listar obrigações")
		return nil, fmt.Errorf("erro ao listar obrigações: %w", err)
	}
	return obligations, nil
}

func (s *ObligationService) Update(ctx context.Context, id uuid.UUID, req model.UpdateObligationRequest) (*model.Obligation, error) {
	s.logger.Infof("Atualizando obrigação %s", id)

	if err := req.Validate(); err != nil {
		s.logger.WithError(err).Warn("Pedido de atualização de obrigação inválido")
		return nil, err
	}

	ob, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar obrigação: %w", err)
	}

	if req.Title != nil {
		ob.Title = *req.Title
	}
	if req.Description != nil {
		ob.Description = *req.Description
	}
	if req.Type != nil {
		ob.Type = *req.Type
	}
	if req.Status != nil {
		ob.Status = *req.Status
	}
	if req.ClientName != nil {
		ob.ClientName = *req.ClientName
	}
	if req.CompanyName != nil {
		ob.CompanyName = *req.CompanyName
	}
	if req.OwnerName != nil {
		ob.OwnerName = *req.OwnerName
	}
	if req.AdjustForBusinessDay != nil {
		ob.AdjustForBusinessDay = *req.AdjustForBusinessDay
	}
	if req.AdjustmentDirection != nil {
		ob.AdjustmentDirection = *req.AdjustmentDirection
	}
	if req.Recurrence != nil {
		if req.Recurrence.GenerationDay < 1 {
			req.Recurrence.GenerationDay = 1
		}
		// A última geração nunca retrocede, mesmo em edições do usuário
		if ob.Recurrence != nil && ob.Recurrence.LastGeneration != nil {
			req.Recurrence.LastGeneration = ob.Recurrence.LastGeneration
		}
		ob.Recurrence = req.Recurrence
	}

	// Vencimento novo passa pelo ajuste de dia útil quando habilitado
	if req.DueDate != nil {
		ob.OriginalDueDate = DateOnly(*req.DueDate)
		ob.DueDate = ob.OriginalDueDate
		if ob.AdjustForBusinessDay {
			ob.DueDate = s.workday.Adjust(ctx, ob.OriginalDueDate, ob.AdjustmentDirection)
		}
	}

	ob.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, ob); err != nil {
		s.logger.WithError(err).Errorf("Erro ao atualizar obrigação %s", id)
		return nil, fmt.Errorf("erro ao atualizar obrigação: %w", err)
	}

	s.appendHistory(ctx, ob.ID, nil, model.HistoryActionUpdated, "Obrigação atualizada")

	return ob, nil
}

func (s *ObligationService) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Infof("Excluindo obrigação %s", id)

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.WithError(err).Errorf("Erro ao excluir obrigação %s", id)
		return fmt.Errorf("erro ao excluir obrigação: %w", err)
	}

	s.appendHistory(ctx, id, nil, model.HistoryActionDeleted, "Obrigação excluída")
	return nil
}

// PauseRecurrence suspende a geração automática sem perder a configuração
func (s *ObligationService) PauseRecurrence(ctx context.Context, id uuid.UUID) (*model.Obligation, error) {
	return s.setRecurrenceActive(ctx, id, false)
}

// ResumeRecurrence reativa a geração automática de uma recorrência pausada
func (s *ObligationService) ResumeRecurrence(ctx context.Context, id uuid.UUID) (*model.Obligation, error) {
	return s.setRecurrenceActive(ctx, id, true)
}

func (s *ObligationService) setRecurrenceActive(ctx context.Context, id uuid.UUID, active bool) (*model.Obligation, error) {
	ob, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar obrigação: %w", err)
	}

	if ob.Recurrence == nil {
		return nil, fmt.Errorf("obrigação %s não possui recorrência", id)
	}

	ob.Recurrence.Active = active
	if err := s.store.UpdateRecurrence(ctx, id, ob.Recurrence); err != nil {
		s.logger.WithError(err).Errorf("Erro ao atualizar recorrência da obrigação %s", id)
		return nil, fmt.Errorf("erro ao atualizar recorrência: %w", err)
	}

	action := model.HistoryActionRecurrencePaused
	if active {
		action = model.HistoryActionRecurrenceResumed
	}
	s.appendHistory(ctx, id, nil, action, "")

	s.logger.Infof("Recorrência da obrigação %s: active=%v", id, active)
	return ob, nil
}

func (s *ObligationService) GetHistory(ctx context.Context, id uuid.UUID) ([]model.HistoryEntry, error) {
	entries, err := s.history.ListByObligation(ctx, id)
	if err != nil {
		s.logger.WithError(err).Errorf("Erro ao buscar histórico da obrigação %s", id)
		return nil, fmt.Errorf("erro ao buscar histórico: %w", err)
	}
	return entries, nil
}

// ProjectOccurrences projeta as próximas ocorrências de um modelo
// recorrente dentro do horizonte em meses, sem persistir nada. Reutiliza as
// mesmas funções da política de recorrência usadas pelo gerador.
func (s *ObligationService) ProjectOccurrences(ctx context.Context, id uuid.UUID, months int) ([]model.VirtualOccurrence, error) {
	ob, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar obrigação: %w", err)
	}

	if ob.Recurrence == nil {
		return nil, fmt.Errorf("obrigação %s não possui recorrência", id)
	}

	if months < 1 {
		months = 12
	}
	horizon := addMonthsClamped(DateOnly(time.Now()), months)

	return ProjectOccurrences(ob, horizon), nil
}

// ProjectOccurrences calcula as ocorrências virtuais de um modelo até a
// data limite, respeitando a janela ativa da recorrência
func ProjectOccurrences(ob *model.Obligation, until time.Time) []model.VirtualOccurrence {
	rec := ob.Recurrence
	if rec == nil || !rec.Active {
		return nil
	}

	reference := DateOnly(ob.DueDate)
	if rec.LastGeneration != nil {
		reference = DateOnly(*rec.LastGeneration)
	}

	var occurrences []model.VirtualOccurrence
	next := NextNominalDueDate(reference, rec)
	for !next.After(until) {
		if !IsWithinActiveWindow(rec, next) {
			break
		}
		occurrences = append(occurrences, model.VirtualOccurrence{
			TemplateID: ob.ID,
			Title:      ob.Title,
			DueDate:    next,
			Type:       ob.Type,
			Virtual:    true,
		})
		next = NextNominalDueDate(next, rec)
	}

	return occurrences
}

func (s *ObligationService) appendHistory(ctx context.Context, id uuid.UUID, templateID *uuid.UUID, action model.HistoryAction, details string) {
	entry := &model.HistoryEntry{
		ID:           uuid.New(),
		ObligationID: id,
		TemplateID:   templateID,
		Action:       action,
		Details:      details,
		CreatedAt:    time.Now(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.WithError(err).Warnf("Falha ao registrar histórico da obrigação %s", id)
	}
}
