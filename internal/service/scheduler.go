package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

// ErrRunInProgress é retornado quando um disparo chega com uma execução em
// andamento; o chamador não deve tentar de novo, a próxima execução
// agendada cobre o dia
var ErrRunInProgress = errors.New("geração diária já em execução")

// SchedulerService executa a geração diária de obrigações recorrentes.
// Uma única execução por vez: disparos concorrentes (cron + manual) são
// rejeitados enquanto o estado for "executando".
type SchedulerService struct {
	store     ObligationStore
	generator *GeneratorService
	location  *time.Location
	logger    *logrus.Logger

	running atomic.Bool

	// substituível nos testes para fixar a data da execução
	now func() time.Time

	mu      sync.Mutex
	lastRun *model.GenerationRun
}

func NewSchedulerService(
	store ObligationStore,
	generator *GeneratorService,
	location *time.Location,
	logger *logrus.Logger,
) *SchedulerService {
	if location == nil {
		location = time.UTC
	}
	return &SchedulerService{
		store:     store,
		generator: generator,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}
}

// IsRunning informa se há uma execução em andamento
func (s *SchedulerService) IsRunning() bool {
	return s.running.Load()
}

// LastRun retorna o resumo da última execução concluída, se houver
func (s *SchedulerService) LastRun() *model.GenerationRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// RunDailyGeneration percorre todas as obrigações com recorrência e gera as
// ocorrências devidas hoje. Erros de itens individuais são contados e
// registrados sem abortar o lote; executar duas vezes no mesmo dia gera no
// máximo uma ocorrência por obrigação (trava de mês/ano do gerador).
func (s *SchedulerService) RunDailyGeneration(ctx context.Context) (*model.GenerationRun, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("Disparo da geração diária ignorado: execução em andamento")
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	started := time.Now()
	today := DateOnly(s.now().In(s.location))
	run := &model.GenerationRun{StartedAt: started}

	s.logger.Infof("Iniciando geração diária de obrigações (%s)", today.Format("2006-01-02"))

	// Antes de gerar, marca como atrasadas as pendências vencidas
	marked, err := s.store.MarkOverdue(ctx, today)
	if err != nil {
		s.logger.WithError(err).Error("Erro ao marcar obrigações atrasadas")
	} else if marked > 0 {
		s.logger.Infof("%d obrigações marcadas como atrasadas", marked)
	}
	run.MarkedOverdue = marked

	obligations, err := s.store.ListWithRecurrence(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Erro ao listar obrigações recorrentes")
		run.Elapsed = time.Since(started)
		s.finish(run)
		return run, err
	}

	for i := range obligations {
		ob := &obligations[i]
		run.Scanned++

		if !s.generator.ShouldGenerateToday(ob, today) {
			continue
		}

		occurrence, err := s.generator.Generate(ctx, ob, today)
		if err != nil {
			// Falha isolada: o marcador do modelo não avançou, a próxima
			// execução tenta novamente
			s.logger.WithError(err).Errorf("Erro ao gerar ocorrência da obrigação %s", ob.ID)
			run.Errors++
			continue
		}

		run.Generated++
		run.Created = append(run.Created, *occurrence)
	}

	run.Elapsed = time.Since(started)
	s.finish(run)

	s.logger.WithFields(logrus.Fields{
		"scanned":        run.Scanned,
		"generated":      run.Generated,
		"errors":         run.Errors,
		"marked_overdue": run.MarkedOverdue,
		"elapsed":        run.Elapsed.String(),
	}).Info("Geração diária concluída")

	return run, nil
}

func (s *SchedulerService) finish(run *model.GenerationRun) {
	s.mu.Lock()
	s.lastRun = run
	s.mu.Unlock()
}
