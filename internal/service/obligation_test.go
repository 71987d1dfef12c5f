package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

func newTestObligationService(store *memStore, history *memHistory, source HolidaySource) *ObligationService {
	if source == nil {
		source = newFakeHolidaySource()
	}
	return NewObligationService(store, history, newTestWorkday(source), testLogger())
}

func TestCreateObligationAdjustsDueDate(t *testing.T) {
	store := newMemStore()
	history := &memHistory{}
	svc := newTestObligationService(store, history, nil)
	ctx := context.Background()

	// Sábado 20/04/2024 ajustado para segunda 22/04
	ob, err := svc.Create(ctx, model.CreateObligationRequest{
		Title:                "DARF IRPJ",
		DueDate:              date(2024, time.April, 20),
		Type:                 model.ObligationTypeFederal,
		ClientName:           "Cliente Exemplo",
		AdjustForBusinessDay: true,
	})
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.April, 20), ob.OriginalDueDate)
	assert.Equal(t, date(2024, time.April, 22), ob.DueDate)
	assert.Equal(t, model.StatusPending, ob.Status)
	assert.Equal(t, model.DirectionNext, ob.AdjustmentDirection)

	entries, err := history.ListByObligation(ctx, ob.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.HistoryActionCreated, entries[0].Action)
}

func TestCreateObligationKeepsDateWithoutAdjustment(t *testing.T) {
	svc := newTestObligationService(newMemStore(), &memHistory{}, nil)

	ob, err := svc.Create(context.Background(), model.CreateObligationRequest{
		Title:      "GFIP",
		DueDate:    date(2024, time.April, 20),
		Type:       model.ObligationTypeLabor,
		ClientName: "Cliente Exemplo",
	})
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.April, 20), ob.DueDate)
}

func TestCreateObligationRejectsInvalidRequest(t *testing.T) {
	svc := newTestObligationService(newMemStore(), &memHistory{}, nil)

	_, err := svc.Create(context.Background(), model.CreateObligationRequest{
		DueDate: date(2024, time.April, 20),
		Type:    model.ObligationTypeFederal,
	})
	require.Error(t, err)
}

func TestUpdateObligationPreservesGenerationMarker(t *testing.T) {
	store := newMemStore()
	svc := newTestObligationService(store, &memHistory{}, nil)
	ctx := context.Background()

	template := monthlyTemplate("DCTFWeb")
	template.Recurrence.LastGeneration = timePtr(date(2024, time.March, 10))
	require.NoError(t, store.Create(ctx, template))

	// O usuário reconfigura a recorrência sem informar o marcador
	updated, err := svc.Update(ctx, template.ID, model.UpdateObligationRequest{
		Recurrence: &model.Recurrence{
			Periodicity:   model.PeriodicityBimonthly,
			DayOfMonth:    intPtr(15),
			Active:        true,
			GenerationDay: 5,
		},
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Recurrence.LastGeneration)
	assert.Equal(t, date(2024, time.March, 10), *updated.Recurrence.LastGeneration)
	assert.Equal(t, model.PeriodicityBimonthly, updated.Recurrence.Periodicity)
}

func TestUpdateObligationReadjustsNewDueDate(t *testing.T) {
	store := newMemStore()
	svc := newTestObligationService(store, &memHistory{}, nil)
	ctx := context.Background()

	template := monthlyTemplate("ISS")
	template.AdjustForBusinessDay = true
	template.AdjustmentDirection = model.DirectionPrevious
	require.NoError(t, store.Create(ctx, template))

	// Sábado 20/04/2024 ajustado para trás: sexta 19/04
	newDue := date(2024, time.April, 20)
	updated, err := svc.Update(ctx, template.ID, model.UpdateObligationRequest{
		DueDate: &newDue,
	})
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.April, 20), updated.OriginalDueDate)
	assert.Equal(t, date(2024, time.April, 19), updated.DueDate)
}

func TestPauseAndResumeRecurrence(t *testing.T) {
	store := newMemStore()
	history := &memHistory{}
	svc := newTestObligationService(store, history, nil)
	ctx := context.Background()

	template := monthlyTemplate("DAS")
	require.NoError(t, store.Create(ctx, template))

	paused, err := svc.PauseRecurrence(ctx, template.ID)
	require.NoError(t, err)
	assert.False(t, paused.Recurrence.Active)

	resumed, err := svc.ResumeRecurrence(ctx, template.ID)
	require.NoError(t, err)
	assert.True(t, resumed.Recurrence.Active)

	entries, err := history.ListByObligation(ctx, template.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.HistoryActionRecurrencePaused, entries[0].Action)
	assert.Equal(t, model.HistoryActionRecurrenceResumed, entries[1].Action)
}

func TestPauseRecurrenceWithoutRecurrenceFails(t *testing.T) {
	store := newMemStore()
	svc := newTestObligationService(store, &memHistory{}, nil)
	ctx := context.Background()

	ob := monthlyTemplate("Avulsa")
	ob.Recurrence = nil
	require.NoError(t, store.Create(ctx, ob))

	_, err := svc.PauseRecurrence(ctx, ob.ID)
	require.Error(t, err)
}

func TestProjectOccurrences(t *testing.T) {
	template := monthlyTemplate("DAS Simples Nacional")

	occurrences := ProjectOccurrences(template, date(2024, time.April, 30))
	require.Len(t, occurrences, 3)
	assert.Equal(t, date(2024, time.February, 10), occurrences[0].DueDate)
	assert.Equal(t, date(2024, time.March, 10), occurrences[1].DueDate)
	assert.Equal(t, date(2024, time.April, 10), occurrences[2].DueDate)
	for _, occ := range occurrences {
		assert.True(t, occ.Virtual)
		assert.Equal(t, template.ID, occ.TemplateID)
	}
}

func TestProjectOccurrencesStartsFromLastGeneration(t *testing.T) {
	template := monthlyTemplate("DAS Simples Nacional")
	template.Recurrence.LastGeneration = timePtr(date(2024, time.March, 10))

	occurrences := ProjectOccurrences(template, date(2024, time.May, 31))
	require.Len(t, occurrences, 2)
	assert.Equal(t, date(2024, time.April, 10), occurrences[0].DueDate)
	assert.Equal(t, date(2024, time.May, 10), occurrences[1].DueDate)
}

func TestProjectOccurrencesRespectsEndDate(t *testing.T) {
	template := monthlyTemplate("Parcelamento")
	template.Recurrence.EndDate = timePtr(date(2024, time.March, 31))

	occurrences := ProjectOccurrences(template, date(2024, time.December, 31))
	require.Len(t, occurrences, 2)
	assert.Equal(t, date(2024, time.March, 10), occurrences[1].DueDate)
}

func TestProjectOccurrencesInactiveRecurrence(t *testing.T) {
	template := monthlyTemplate("Pausada")
	template.Recurrence.Active = false

	assert.Nil(t, ProjectOccurrences(template, date(2024, time.December, 31)))
}
