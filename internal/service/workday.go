package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

// WorkdayService ajusta vencimentos que caem em dias não úteis (fim de
// semana ou feriado) para o dia útil mais próximo na direção configurada
type WorkdayService struct {
	holidays *HolidayCache
	logger   *logrus.Logger
}

func NewWorkdayService(holidays *HolidayCache, logger *logrus.Logger) *WorkdayService {
	return &WorkdayService{holidays: holidays, logger: logger}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBusinessDay indica se a data é um dia útil
func (s *WorkdayService) IsBusinessDay(ctx context.Context, date time.Time) bool {
	if isWeekend(date) {
		return false
	}
	set := s.holidays.HolidaysForYear(ctx, date.Year())
	_, holiday := set[DateKey(date)]
	return !holiday
}

// Adjust move a data um dia por vez na direção informada enquanto ela cair
// em fim de semana ou feriado. Datas que já são dia útil retornam
// inalteradas. Ao cruzar a virada do ano, o conjunto de feriados do novo
// ano é carregado antes de continuar.
func (s *WorkdayService) Adjust(ctx context.Context, date time.Time, direction model.AdjustmentDirection) time.Time {
	step := 1
	if direction == model.DirectionPrevious {
		step = -1
	}

	date = DateOnly(date)
	original := date
	set := s.holidays.HolidaysForYear(ctx, date.Year())

	for {
		_, holiday := set[DateKey(date)]
		if !isWeekend(date) && !holiday {
			break
		}
		year := date.Year()
		date = date.AddDate(0, 0, step)
		if date.Year() != year {
			set = s.holidays.HolidaysForYear(ctx, date.Year())
		}
	}

	if !date.Equal(original) {
		s.logger.WithFields(logrus.Fields{
			"original": original.Format("2006-01-02"),
			"adjusted": date.Format("2006-01-02"),
			"dir":      direction,
		}).Debug("Vencimento ajustado para dia útil")
	}

	return date
}
