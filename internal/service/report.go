package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

// ReportService produz estatísticas e a visão mensal do calendário fiscal
type ReportService struct {
	store    ObligationStore
	holidays *HolidayCache
	logger   *logrus.Logger
}

func NewReportService(store ObligationStore, holidays *HolidayCache, logger *logrus.Logger) *ReportService {
	return &ReportService{store: store, holidays: holidays, logger: logger}
}

// GetStats retorna estatísticas das obrigações com vencimento no período
func (s *ReportService) GetStats(ctx context.Context, startDate, endDate time.Time) (*model.ObligationStats, error) {
	s.logger.WithFields(logrus.Fields{
		"start_date": startDate.Format("2006-01-02"),
		"end_date":   endDate.Format("2006-01-02"),
	}).Debug("Calculando estatísticas de obrigações")

	if startDate.After(endDate) {
		s.logger.Warn("Data inicial do período posterior à data final")
		return nil, fmt.Errorf("a data inicial não pode ser posterior à data final")
	}

	obligations, err := s.store.ListByPeriod(ctx, DateOnly(startDate), DateOnly(endDate))
	if err != nil {
		s.logger.WithError(err).Error("Erro ao consultar obrigações do período")
		return nil, fmt.Errorf("não foi possível consultar as obrigações: %w", err)
	}

	stats := &model.ObligationStats{
		ByStatus: make(map[model.ObligationStatus]int),
		ByType:   make(map[model.ObligationType]int),
	}

	for _, ob := range obligations {
		stats.Total++
		stats.ByStatus[ob.Status]++
		stats.ByType[ob.Type]++
		if ob.Status == model.StatusOverdue {
			stats.Overdue++
		}
	}

	return stats, nil
}

// GetCalendarMonth monta a visão mensal do calendário: obrigações
// persistidas do mês, ocorrências virtuais projetadas dos modelos
// recorrentes e os feriados do mês
func (s *ReportService) GetCalendarMonth(ctx context.Context, year int, month time.Month) (*model.CalendarMonth, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("mês inválido: %d", month)
	}

	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(year, month, LastDayOfMonth(year, month), 0, 0, 0, 0, time.UTC)

	obligations, err := s.store.ListByPeriod(ctx, firstDay, lastDay)
	if err != nil {
		s.logger.WithError(err).Error("Erro ao consultar obrigações do mês")
		return nil, fmt.Errorf("não foi possível consultar as obrigações: %w", err)
	}

	// Projeta ocorrências futuras dos modelos recorrentes que caem no mês,
	// ignorando datas já materializadas
	templates, err := s.store.ListWithRecurrence(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Erro ao consultar modelos recorrentes")
		return nil, fmt.Errorf("não foi possível consultar os modelos recorrentes: %w", err)
	}

	existing := make(map[string]bool, len(obligations))
	for _, ob := range obligations {
		existing[ob.Title+"|"+DateKey(ob.DueDate)] = true
	}

	var virtual []model.VirtualOccurrence
	for i := range templates {
		for _, occ := range ProjectOccurrences(&templates[i], lastDay) {
			if occ.DueDate.Before(firstDay) {
				continue
			}
			if existing[occ.Title+"|"+DateKey(occ.DueDate)] {
				continue
			}
			virtual = append(virtual, occ)
		}
	}

	// Feriados do mês a partir do cache anual
	var holidays []model.Holiday
	for _, h := range s.holidays.ListHolidays(ctx, year) {
		if h.Date.Month() == month {
			holidays = append(holidays, h)
		}
	}

	return &model.CalendarMonth{
		Year:        year,
		Month:       int(month),
		Obligations: obligations,
		Virtual:     virtual,
		Holidays:    holidays,
	}, nil
}
