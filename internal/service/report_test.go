package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

func newTestReportService(store *memStore, source HolidaySource) *ReportService {
	if source == nil {
		source = newFakeHolidaySource()
	}
	cache := NewHolidayCache(source, time.Hour, testLogger())
	return NewReportService(store, cache, testLogger())
}

func TestGetStats(t *testing.T) {
	store := newMemStore()
	svc := newTestReportService(store, nil)
	ctx := context.Background()

	pending := monthlyTemplate("DAS")
	pending.Recurrence = nil
	pending.DueDate = date(2024, time.April, 10)
	require.NoError(t, store.Create(ctx, pending))

	overdue := monthlyTemplate("GPS")
	overdue.Recurrence = nil
	overdue.Type = model.ObligationTypeSocialSecurity
	overdue.Status = model.StatusOverdue
	overdue.DueDate = date(2024, time.April, 5)
	require.NoError(t, store.Create(ctx, overdue))

	outside := monthlyTemplate("IPTU")
	outside.Recurrence = nil
	outside.DueDate = date(2024, time.May, 10)
	require.NoError(t, store.Create(ctx, outside))

	stats, err := svc.GetStats(ctx, date(2024, time.April, 1), date(2024, time.April, 30))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.ByStatus[model.StatusPending])
	assert.Equal(t, 1, stats.ByStatus[model.StatusOverdue])
	assert.Equal(t, 1, stats.ByType[model.ObligationTypeFederal])
	assert.Equal(t, 1, stats.ByType[model.ObligationTypeSocialSecurity])
}

func TestGetStatsRejectsInvertedPeriod(t *testing.T) {
	svc := newTestReportService(newMemStore(), nil)

	_, err := svc.GetStats(context.Background(), date(2024, time.April, 30), date(2024, time.April, 1))
	require.Error(t, err)
}

func TestGetCalendarMonth(t *testing.T) {
	store := newMemStore()
	source := newFakeHolidaySource()
	source.add(date(2024, time.April, 21), "Tiradentes")
	source.add(date(2024, time.May, 1), "Dia do Trabalho")
	svc := newTestReportService(store, source)
	ctx := context.Background()

	// Modelo recorrente mensal: abril ainda não foi materializado
	template := monthlyTemplate("DAS Simples Nacional")
	template.Recurrence.LastGeneration = timePtr(date(2024, time.March, 10))
	require.NoError(t, store.Create(ctx, template))

	// Obrigação avulsa persistida no mês
	persisted := monthlyTemplate("DIRF")
	persisted.Recurrence = nil
	persisted.DueDate = date(2024, time.April, 25)
	require.NoError(t, store.Create(ctx, persisted))

	calendar, err := svc.GetCalendarMonth(ctx, 2024, time.April)
	require.NoError(t, err)

	assert.Equal(t, 2024, calendar.Year)
	assert.Equal(t, 4, calendar.Month)

	require.Len(t, calendar.Obligations, 1)
	assert.Equal(t, "DIRF", calendar.Obligations[0].Title)

	require.Len(t, calendar.Virtual, 1)
	assert.Equal(t, date(2024, time.April, 10), calendar.Virtual[0].DueDate)
	assert.True(t, calendar.Virtual[0].Virtual)

	// Só os feriados do mês pedido
	require.Len(t, calendar.Holidays, 1)
	assert.Equal(t, "Tiradentes", calendar.Holidays[0].Name)
}

func TestGetCalendarMonthSkipsMaterializedOccurrences(t *testing.T) {
	store := newMemStore()
	svc := newTestReportService(store, nil)
	ctx := context.Background()

	template := monthlyTemplate("DCTFWeb")
	template.Recurrence.LastGeneration = timePtr(date(2024, time.March, 10))
	require.NoError(t, store.Create(ctx, template))

	// A ocorrência de abril já foi materializada com o mesmo título e data
	materialized := monthlyTemplate("DCTFWeb")
	materialized.Recurrence = nil
	materialized.DueDate = date(2024, time.April, 10)
	require.NoError(t, store.Create(ctx, materialized))

	calendar, err := svc.GetCalendarMonth(ctx, 2024, time.April)
	require.NoError(t, err)

	require.Len(t, calendar.Obligations, 1)
	assert.Empty(t, calendar.Virtual)
}

func TestGetCalendarMonthRejectsInvalidMonth(t *testing.T) {
	svc := newTestReportService(newMemStore(), nil)

	_, err := svc.GetCalendarMonth(context.Background(), 2024, time.Month(13))
	require.Error(t, err)
}
