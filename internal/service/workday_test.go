package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestWorkday(source HolidaySource) *WorkdayService {
	cache := NewHolidayCache(source, 24*time.Hour, testLogger())
	return NewWorkdayService(cache, testLogger())
}

func TestAdjustBusinessDayUnchanged(t *testing.T) {
	source := newFakeHolidaySource()
	workday := newTestWorkday(source)
	ctx := context.Background()

	// 17/04/2024 é quarta-feira: dia útil retorna inalterado nas duas direções
	wednesday := date(2024, time.April, 17)
	assert.Equal(t, wednesday, workday.Adjust(ctx, wednesday, model.DirectionNext))
	assert.Equal(t, wednesday, workday.Adjust(ctx, wednesday, model.DirectionPrevious))
}

func TestAdjustWeekend(t *testing.T) {
	source := newFakeHolidaySource()
	workday := newTestWorkday(source)
	ctx := context.Background()

	// 20/04/2024 é sábado
	saturday := date(2024, time.April, 20)

	next := workday.Adjust(ctx, saturday, model.DirectionNext)
	assert.Equal(t, date(2024, time.April, 22), next) // segunda-feira

	previous := workday.Adjust(ctx, saturday, model.DirectionPrevious)
	assert.Equal(t, date(2024, time.April, 19), previous) // sexta-feira
}

func TestAdjustDirectionIsMonotonic(t *testing.T) {
	source := newFakeHolidaySource()
	source.add(date(2024, time.April, 22), "Feriado de teste")
	workday := newTestWorkday(source)
	ctx := context.Background()

	start := date(2024, time.April, 1)
	for i := 0; i < 60; i++ {
		d := start.AddDate(0, 0, i)
		assert.False(t, workday.Adjust(ctx, d, model.DirectionNext).Before(d))
		assert.False(t, workday.Adjust(ctx, d, model.DirectionPrevious).After(d))
	}
}

func TestAdjustSkipsHolidayChain(t *testing.T) {
	source := newFakeHolidaySource()
	// Sábado 20/04, domingo 21/04 e feriado na segunda 22/04
	source.add(date(2024, time.April, 22), "Feriado emendado")
	workday := newTestWorkday(source)

	adjusted := workday.Adjust(context.Background(), date(2024, time.April, 20), model.DirectionNext)
	assert.Equal(t, date(2024, time.April, 23), adjusted)
}

func TestAdjustCrossesYearBoundary(t *testing.T) {
	source := newFakeHolidaySource()
	source.add(date(2024, time.January, 1), "Confraternização Universal")
	workday := newTestWorkday(source)
	ctx := context.Background()

	// Sábado 30/12/2023: domingo 31/12, feriado 01/01/2024, útil em 02/01
	next := workday.Adjust(ctx, date(2023, time.December, 30), model.DirectionNext)
	assert.Equal(t, date(2024, time.January, 2), next)

	// Na direção contrária, 01/01/2024 recua até sexta 29/12/2023
	previous := workday.Adjust(ctx, date(2024, time.January, 1), model.DirectionPrevious)
	assert.Equal(t, date(2023, time.December, 29), previous)
}

func TestAdjustDegradesWithoutHolidayService(t *testing.T) {
	source := newFakeHolidaySource()
	source.err = fmt.Errorf("serviço indisponível")
	workday := newTestWorkday(source)

	// Sem feriados disponíveis, o ajuste considera apenas fins de semana
	adjusted := workday.Adjust(context.Background(), date(2024, time.April, 20), model.DirectionNext)
	assert.Equal(t, date(2024, time.April, 22), adjusted)
}

func TestHolidayCacheReusesWithinTTL(t *testing.T) {
	source := newFakeHolidaySource()
	source.add(date(2024, time.May, 1), "Dia do Trabalho")
	cache := NewHolidayCache(source, 24*time.Hour, testLogger())
	ctx := context.Background()

	first := cache.HolidaysForYear(ctx, 2024)
	second := cache.HolidaysForYear(ctx, 2024)

	assert.Equal(t, 1, source.calls)
	assert.Contains(t, first, "2024-05-01")
	assert.Contains(t, second, "2024-05-01")
}

func TestHolidayCacheFallsBackToStaleSet(t *testing.T) {
	source := newFakeHolidaySource()
	source.add(date(2024, time.May, 1), "Dia do Trabalho")
	// TTL zero força a revalidação a cada consulta
	cache := NewHolidayCache(source, 0, testLogger())
	ctx := context.Background()

	first := cache.HolidaysForYear(ctx, 2024)
	assert.Contains(t, first, "2024-05-01")

	// Serviço fora do ar: o conjunto antigo continua sendo usado
	source.err = fmt.Errorf("serviço indisponível")
	stale := cache.HolidaysForYear(ctx, 2024)
	assert.Contains(t, stale, "2024-05-01")
}

func TestHolidayCacheEmptyWithoutAnyData(t *testing.T) {
	source := newFakeHolidaySource()
	source.err = fmt.Errorf("serviço indisponível")
	cache := NewHolidayCache(source, 24*time.Hour, testLogger())

	set := cache.HolidaysForYear(context.Background(), 2024)
	assert.Empty(t, set)
}
