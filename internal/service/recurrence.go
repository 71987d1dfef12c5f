package service

import (
	"time"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

// Funções puras da política de recorrência. Toda a aritmética de datas do
// sistema passa por aqui; o calendário da interface reutiliza estas mesmas
// funções para projetar ocorrências futuras sem persistir nada.

// DateOnly descarta o componente de horário, normalizando para meia-noite UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth retorna o último dia do mês informado
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay limita um dia do mês ao último dia válido do mês informado
// (dia 31 em abril vira 30)
func ClampDay(year int, month time.Month, day int) int {
	last := LastDayOfMonth(year, month)
	if day > last {
		return last
	}
	if day < 1 {
		return 1
	}
	return day
}

// CycleLengthMonths retorna o tamanho do ciclo em meses. Para periodicidade
// custom sem intervalo válido, o ciclo degrada para 1 mês.
func CycleLengthMonths(rec *model.Recurrence) int {
	switch rec.Periodicity {
	case model.PeriodicityMonthly:
		return 1
	case model.PeriodicityBimonthly:
		return 2
	case model.PeriodicityQuarterly:
		return 3
	case model.PeriodicitySemiannual:
		return 6
	case model.PeriodicityAnnual:
		return 12
	case model.PeriodicityCustom:
		if rec.IntervalMonths != nil && *rec.IntervalMonths > 0 {
			return *rec.IntervalMonths
		}
		return 1
	default:
		return 1
	}
}

// addMonthsClamped soma meses preservando o dia quando possível; em meses
// mais curtos o dia é limitado ao último dia válido (31/jan + 1 mês =
// 28/fev, não 2/mar como faria AddDate)
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + months
	targetYear := year + total/12
	targetMonth := time.Month(total%12 + 1)
	if total < 0 {
		// Divisão de inteiros em Go trunca em direção a zero
		targetYear = year + (total-11)/12
		targetMonth = time.Month((total%12+12)%12 + 1)
	}
	return time.Date(targetYear, targetMonth, ClampDay(targetYear, targetMonth, day), 0, 0, 0, 0, time.UTC)
}

// NextNominalDueDate calcula o próximo vencimento nominal (antes do ajuste
// de dia útil): base + ciclo em meses, com o dia fixo da recorrência
// aplicado quando configurado
func NextNominalDueDate(base time.Time, rec *model.Recurrence) time.Time {
	next := addMonthsClamped(DateOnly(base), CycleLengthMonths(rec))
	if rec.DayOfMonth != nil {
		day := ClampDay(next.Year(), next.Month(), *rec.DayOfMonth)
		next = time.Date(next.Year(), next.Month(), day, 0, 0, 0, 0, time.UTC)
	}
	return next
}

// MonthsBetween retorna a diferença em meses de calendário entre duas datas,
// sem correção pelo dia do mês (20/jan até 01/abr conta 3 meses)
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// HasCycleElapsed verifica se o ciclo da recorrência já decorreu. A
// referência é a última geração quando existe, senão o vencimento do modelo.
func HasCycleElapsed(today time.Time, rec *model.Recurrence, templateDue time.Time) bool {
	reference := templateDue
	if rec.LastGeneration != nil {
		reference = *rec.LastGeneration
	}
	return MonthsBetween(reference, today) >= CycleLengthMonths(rec)
}

// IsWithinActiveWindow indica se a recorrência está ativa na data informada:
// não pausada e dentro da data limite (inclusive)
func IsWithinActiveWindow(rec *model.Recurrence, asOf time.Time) bool {
	if rec == nil || !rec.Active {
		return false
	}
	if rec.EndDate == nil {
		return true
	}
	return !DateOnly(asOf).After(DateOnly(*rec.EndDate))
}
