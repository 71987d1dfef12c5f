package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

// CreatedBySystem identifica ocorrências materializadas pelo agendador
const CreatedBySystem = "sistema"

// GeneratorService materializa novas ocorrências de obrigações recorrentes
// a partir do modelo original
type GeneratorService struct {
	store       ObligationStore
	history     HistoryStore
	workday     *WorkdayService
	emailSender *EmailSender
	notifyEmail string
	logger      *logrus.Logger
}

func NewGeneratorService(
	store ObligationStore,
	history HistoryStore,
	workday *WorkdayService,
	emailSender *EmailSender,
	notifyEmail string,
	logger *logrus.Logger,
) *GeneratorService {
	return &GeneratorService{
		store:       store,
		history:     history,
		workday:     workday,
		emailSender: emailSender,
		notifyEmail: notifyEmail,
		logger:      logger,
	}
}

// ShouldGenerateToday decide se hoje é o dia de gerar uma nova ocorrência
// do modelo. Todas as condições precisam valer:
//  1. a recorrência existe e está dentro da janela ativa;
//  2. hoje é o dia de geração configurado (limitado em meses curtos);
//  3. a última geração não foi neste mesmo mês/ano — trava de segurança
//     contra disparo duplo no mesmo mês, independente do cálculo de ciclo;
//  4. o ciclo da recorrência já decorreu.
func (s *GeneratorService) ShouldGenerateToday(ob *model.Obligation, today time.Time) bool {
	rec := ob.Recurrence
	if !IsWithinActiveWindow(rec, today) {
		return false
	}

	generationDay := rec.GenerationDay
	if generationDay < 1 {
		generationDay = 1
	}
	generationDay = ClampDay(today.Year(), today.Month(), generationDay)
	if today.Day() != generationDay {
		return false
	}

	if rec.LastGeneration != nil {
		last := *rec.LastGeneration
		if last.Year() == today.Year() && last.Month() == today.Month() {
			return false
		}
	}

	return HasCycleElapsed(today, rec, ob.DueDate)
}

// nominalDueDate calcula o vencimento nominal da nova ocorrência no mês de
// hoje: o dia fixo da recorrência quando configurado, senão o dia do
// vencimento original do modelo (sempre limitado ao último dia do mês)
func (s *GeneratorService) nominalDueDate(template *model.Obligation, today time.Time) time.Time {
	day := template.OriginalDueDate.Day()
	if template.Recurrence.DayOfMonth != nil {
		day = *template.Recurrence.DayOfMonth
	}
	day = ClampDay(today.Year(), today.Month(), day)
	return time.Date(today.Year(), today.Month(), day, 0, 0, 0, 0, time.UTC)
}

// Generate materializa uma nova ocorrência a partir do modelo e avança o
// marcador de última geração. O marcador só avança depois que a nova
// obrigação foi persistida com sucesso: se a criação falhar, a próxima
// execução do agendador tenta de novo.
func (s *GeneratorService) Generate(ctx context.Context, template *model.Obligation, today time.Time) (*model.Obligation, error) {
	rec := template.Recurrence
	if rec == nil {
		return nil, fmt.Errorf("obrigação %s não possui recorrência", template.ID)
	}

	nominal := s.nominalDueDate(template, today)
	dueDate := nominal
	if template.AdjustForBusinessDay {
		direction := template.AdjustmentDirection
		if direction == "" {
			direction = model.DirectionNext
		}
		dueDate = s.workday.Adjust(ctx, nominal, direction)
	}

	// A cópia carrega a configuração de recorrência para exibição, mas
	// inativa: somente o modelo original gera ocorrências
	recCopy := *rec
	recCopy.Active = false
	recCopy.LastGeneration = nil
	recCopy.NextOccurrence = nil

	now := time.Now()
	occurrence := &model.Obligation{
		ID:                   uuid.New(),
		Title:                template.Title,
		Description:          template.Description,
		DueDate:              dueDate,
		OriginalDueDate:      nominal,
		Type:                 template.Type,
		Status:               model.StatusPending,
		ClientName:           template.ClientName,
		CompanyName:          template.CompanyName,
		OwnerName:            template.OwnerName,
		Recurrence:           &recCopy,
		AdjustForBusinessDay: template.AdjustForBusinessDay,
		AdjustmentDirection:  template.AdjustmentDirection,
		CreatedBy:            CreatedBySystem,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.store.Create(ctx, occurrence); err != nil {
		s.logger.WithError(err).Errorf("Erro ao criar ocorrência da obrigação %s", template.ID)
		return nil, fmt.Errorf("falha ao criar ocorrência: %w", err)
	}

	// Avança o marcador para o vencimento nominal, não o ajustado: o ajuste
	// de dia útil pode cair no mês vizinho (01/06 sábado vira 31/05, 31/08
	// sábado vira 02/09) e quebraria a trava de mês/ano do ShouldGenerateToday
	lastGeneration := nominal
	rec.LastGeneration = &lastGeneration
	next := NextNominalDueDate(nominal, rec)
	rec.NextOccurrence = &next

	if err := s.store.UpdateRecurrence(ctx, template.ID, rec); err != nil {
		// A ocorrência existe mas o marcador não avançou: anomalia. A trava
		// de mês/ano do ShouldGenerateToday limita o dano a, no máximo, uma
		// ocorrência extra até a correção.
		s.logger.WithError(err).Errorf(
			"ANOMALIA: ocorrência %s criada mas o marcador do modelo %s não foi atualizado",
			occurrence.ID, template.ID,
		)
	}

	entry := &model.HistoryEntry{
		ID:           uuid.New(),
		ObligationID: occurrence.ID,
		TemplateID:   &template.ID,
		Action:       model.HistoryActionGenerated,
		Details:      fmt.Sprintf("Ocorrência gerada automaticamente a partir do modelo %s", template.ID),
		CreatedAt:    now,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.WithError(err).Warnf("Falha ao registrar histórico da ocorrência %s", occurrence.ID)
	}

	if s.emailSender != nil && s.notifyEmail != "" {
		go func() {
			if err := s.emailSender.SendGenerationNotification(s.notifyEmail, occurrence); err != nil {
				s.logger.WithError(err).Warn("Não foi possível enviar notificação por email")
			}
		}()
	}

	s.logger.WithFields(logrus.Fields{
		"template_id":   template.ID,
		"occurrence_id": occurrence.ID,
		"due_date":      dueDate.Format("2006-01-02"),
		"original_due":  nominal.Format("2006-01-02"),
	}).Info("Nova ocorrência de obrigação recorrente gerada")

	return occurrence, nil
}
