package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
	"github.com/pedrovi35/SistemaFiscal-sub000/internal/service"
)

type ObligationHandler struct {
	obligationService *service.ObligationService
	logger            *logrus.Logger
}

func NewObligationHandler(obligationService *service.ObligationService, logger *logrus.Logger) *ObligationHandler {
	return &ObligationHandler{
		obligationService: obligationService,
		logger:            logger,
	}
}

func (h *ObligationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.CreateObligation).Methods("POST")
	router.HandleFunc("", h.ListObligations).Methods("GET")
	router.HandleFunc("/{id}", h.GetObligation).Methods("GET")
	router.HandleFunc("/{id}", h.UpdateObligation).Methods("PUT")
	router.HandleFunc("/{id}", h.DeleteObligation).Methods("DELETE")
	router.HandleFunc("/{id}/recurrence/pause", h.PauseRecurrence).Methods("POST")
	router.HandleFunc("/{id}/recurrence/resume", h.ResumeRecurrence).Methods("POST")
	router.HandleFunc("/{id}/history", h.GetHistory).Methods("GET")
	router.HandleFunc("/{id}/occurrences", h.GetOccurrences).Methods("GET")
}

func (h *ObligationHandler) CreateObligation(w http.ResponseWriter, r *http.Request) {
	var req model.CreateObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Erro ao decodificar pedido de criação")
		http.Error(w, "Formato de requisição inválido", http.StatusBadRequest)
		return
	}

	ob, err := h.obligationService.Create(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Erro ao criar obrigação")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ob)
}

func (h *ObligationHandler) ListObligations(w http.ResponseWriter, r *http.Request) {
	obligations, err := h.obligationService.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Erro ao listar obrigações")
		http.Error(w, "Erro ao listar obrigações", http.StatusInternalServerError)
		return
	}

	if obligations == nil {
		obligations = []model.Obligation{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(obligations)
}

func (h *ObligationHandler) GetObligation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	ob, err := h.obligationService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Erro ao buscar obrigação")
		http.Error(w, "Obrigação não encontrada", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ob)
}

func (h *ObligationHandler) UpdateObligation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req model.UpdateObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Erro ao decodificar pedido de atualização")
		http.Error(w, "Formato de requisição inválido", http.StatusBadRequest)
		return
	}

	ob, err := h.obligationService.Update(r.Context(), id, req)
	if err != nil {
		h.logger.WithError(err).Error("Erro ao atualizar obrigação")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ob)
}

func (h *ObligationHandler) DeleteObligation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.obligationService.Delete(r.Context(), id); err != nil {
		h.logger.WithError(err).Error("Erro ao excluir obrigação")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ObligationHandler) PauseRecurrence(w http.ResponseWriter, r *http.Request) {
	h.setRecurrenceActive(w, r, false)
}

func (h *ObligationHandler) ResumeRecurrence(w http.ResponseWriter, r *http.Request) {
	h.setRecurrenceActive(w, r, true)
}

func (h *ObligationHandler) setRecurrenceActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var ob *model.Obligation
	var err error
	if active {
		ob, err = h.obligationService.ResumeRecurrence(r.Context(), id)
	} else {
		ob, err = h.obligationService.PauseRecurrence(r.Context(), id)
	}
	if err != nil {
		h.logger.WithError(err).Error("Erro ao alterar recorrência")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ob)
}

func (h *ObligationHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	entries, err := h.obligationService.GetHistory(r.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Erro ao buscar histórico")
		http.Error(w, "Erro ao buscar histórico", http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []model.HistoryEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(entries)
}

// GetOccurrences retorna as próximas ocorrências projetadas de um modelo
// recorrente (parâmetro months, padrão 12, máximo 36)
func (h *ObligationHandler) GetOccurrences(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	months := 12
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Parâmetro months inválido", http.StatusBadRequest)
			return
		}
		months = parsed
	}
	if months > 36 {
		months = 36
	}

	occurrences, err := h.obligationService.ProjectOccurrences(r.Context(), id, months)
	if err != nil {
		h.logger.WithError(err).Error("Erro ao projetar ocorrências")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if occurrences == nil {
		occurrences = []model.VirtualOccurrence{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(occurrences)
}

func (h *ObligationHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "ID de obrigação inválido", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
