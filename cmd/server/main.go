package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/config"
	"github.com/pedrovi35/SistemaFiscal-sub000/internal/handler"
	"github.com/pedrovi35/SistemaFiscal-sub000/internal/repository"
	"github.com/pedrovi35/SistemaFiscal-sub000/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Carrega a configuração da aplicação
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Erro ao carregar configuração: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Conexão com o banco de dados (PostgreSQL ou SQLite)
	db, err := openDatabase(cfg)
	if err != nil {
		logger.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	// Verifica a conexão com o banco
	if err := db.Ping(); err != nil {
		logger.Fatalf("Erro ao verificar conexão com o banco: %v", err)
	}

	// Cria as tabelas caso ainda não existam
	if err := repository.InitSchema(db, cfg.DBDriver); err != nil {
		logger.Fatalf("Erro ao inicializar esquema do banco: %v", err)
	}

	// Fuso horário do agendador
	location, err := time.LoadLocation(cfg.SchedulerTZ)
	if err != nil {
		logger.Fatalf("Fuso horário inválido %q: %v", cfg.SchedulerTZ, err)
	}

	// Inicialização dos repositórios
	logger.Info("Inicializando repositórios...")
	obligationRepo := repository.NewObligationRepository(db, cfg.DBDriver, logger)
	historyRepo := repository.NewHistoryRepository(db, cfg.DBDriver, logger)

	// Inicialização dos serviços
	logger.Info("Inicializando serviços...")
	holidayClient := service.NewHolidayClient(cfg.HolidayAPIURL, logger)
	holidayCache := service.NewHolidayCache(holidayClient, cfg.HolidayCacheTTL, logger)
	workdayService := service.NewWorkdayService(holidayCache, logger)
	emailSender := service.NewEmailSender(cfg, logger)
	obligationService := service.NewObligationService(obligationRepo, historyRepo, workdayService, logger)
	generatorService := service.NewGeneratorService(
		obligationRepo,
		historyRepo,
		workdayService,
		emailSender,
		cfg.NotifyEmail,
		logger,
	)
	schedulerService := service.NewSchedulerService(obligationRepo, generatorService, location, logger)
	reportService := service.NewReportService(obligationRepo, holidayCache, logger)

	// Inicialização dos handlers HTTP
	logger.Info("Inicializando handlers da API...")
	obligationHandler := handler.NewObligationHandler(obligationService, logger)
	schedulerHandler := handler.NewSchedulerHandler(schedulerService, logger)
	reportHandler := handler.NewReportHandler(reportService, holidayCache, logger)

	// Configuração do roteador
	router := mux.NewRouter()
	router.Use(handler.LoggingMiddleware(logger))

	apiRouter := router.PathPrefix("/api").Subrouter()

	obligationRouter := apiRouter.PathPrefix("/obligations").Subrouter()
	obligationHandler.RegisterRoutes(obligationRouter)

	schedulerRouter := apiRouter.PathPrefix("/scheduler").Subrouter()
	schedulerHandler.RegisterRoutes(schedulerRouter)

	reportHandler.RegisterRoutes(apiRouter)

	// Agendador da geração diária de obrigações recorrentes
	logger.Infof("Configurando geração diária (%s, fuso %s)...", cfg.SchedulerCron, cfg.SchedulerTZ)
	c := cron.New(cron.WithLocation(location))
	_, err = c.AddFunc(cfg.SchedulerCron, func() {
		logger.Info("Execução agendada da geração diária de obrigações")
		run, err := schedulerService.RunDailyGeneration(context.Background())
		if err != nil {
			logger.WithError(err).Error("Erro na geração diária de obrigações")
			return
		}
		if run.Generated > 0 && cfg.NotifyEmail != "" {
			if err := emailSender.SendRunSummary(cfg.NotifyEmail, run); err != nil {
				logger.WithError(err).Warn("Não foi possível enviar resumo da geração")
			}
		}
	})
	if err != nil {
		logger.Fatalf("Erro ao configurar agendador: %v", err)
	}
	c.Start()

	// Configuração e disparo do servidor HTTP
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Infof("Servidor iniciado em %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Erro no servidor: %v", err)
		}
	}()

	// Aguarda sinais para desligamento gracioso
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Encerrando o servidor...")
	c.Stop()
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Errorf("Erro ao encerrar o servidor: %v", err)
	}
	logger.Info("Servidor encerrado com sucesso")
}

// openDatabase abre a conexão conforme o driver configurado: PostgreSQL em
// produção, SQLite (driver puro Go) para desenvolvimento local
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case repository.DriverPostgres:
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		return sql.Open("postgres", dsn)
	case repository.DriverSQLite:
		return sql.Open("sqlite", cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("driver de banco desconhecido: %q", cfg.DBDriver)
	}
}
