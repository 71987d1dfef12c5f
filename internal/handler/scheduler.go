package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/service"
)

type SchedulerHandler struct {
	schedulerService *service.SchedulerService
	logger           *logrus.Logger
}

func NewSchedulerHandler(schedulerService *service.SchedulerService, logger *logrus.Logger) *SchedulerHandler {
	return &SchedulerHandler{
		schedulerService: schedulerService,
		logger:           logger,
	}
}

func (h *SchedulerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/run", h.RunNow).Methods("POST")
	router.HandleFunc("/status", h.GetStatus).Methods("GET")
}

// RunNow dispara manualmente a geração diária (uso operacional). Com uma
// execução em andamento, responde 409 sem enfileirar nada.
func (h *SchedulerHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Disparo manual da geração diária recebido")

	run, err := h.schedulerService.RunDailyGeneration(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			http.Error(w, "Geração já em execução", http.StatusConflict)
			return
		}
		h.logger.WithError(err).Error("Erro na geração manual")
		http.Error(w, "Erro ao executar geração", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(run)
}

func (h *SchedulerHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"running":  h.schedulerService.IsRunning(),
		"last_run": h.schedulerService.LastRun(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}
