package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
	"github.com/pedrovi35/SistemaFiscal-sub000/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
	holidayCache  *service.HolidayCache
	logger        *logrus.Logger
}

func NewReportHandler(
	reportService *service.ReportService,
	holidayCache *service.HolidayCache,
	logger *logrus.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		holidayCache:  holidayCache,
		logger:        logger,
	}
}

func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reports/stats", h.GetStats).Methods("GET")
	router.HandleFunc("/calendar/{year}/{month}", h.GetCalendarMonth).Methods("GET")
	router.HandleFunc("/holidays/{year}", h.GetHolidays).Methods("GET")
}

// GetStats retorna estatísticas das obrigações do período informado nos
// parâmetros from/to (formato 2006-01-02; padrão: últimos 30 dias)
func (h *ReportHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	startDate := now.AddDate(0, 0, -30)
	endDate := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Parâmetro from inválido, use o formato 2006-01-02", http.StatusBadRequest)
			return
		}
		startDate = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Parâmetro to inválido, use o formato 2006-01-02", http.StatusBadRequest)
			return
		}
		endDate = parsed
	}

	stats, err := h.reportService.GetStats(r.Context(), startDate, endDate)
	if err != nil {
		h.logger.WithError(err).Error("Erro ao calcular estatísticas")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stats)
}

func (h *ReportHandler) GetCalendarMonth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 1 {
		http.Error(w, "Ano inválido", http.StatusBadRequest)
		return
	}

	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "Mês inválido", http.StatusBadRequest)
		return
	}

	calendar, err := h.reportService.GetCalendarMonth(r.Context(), year, time.Month(month))
	if err != nil {
		h.logger.WithError(err).Error("Erro ao montar calendário mensal")
		http.Error(w, "Erro ao montar calendário", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(calendar)
}

func (h *ReportHandler) GetHolidays(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 1 {
		http.Error(w, "Ano inválido", http.StatusBadRequest)
		return
	}

	holidays := h.holidayCache.ListHolidays(r.Context(), year)
	if holidays == nil {
		holidays = []model.Holiday{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(holidays)
}
