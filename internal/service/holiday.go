package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

// HolidaySource fornece, para um ano, o conjunto de feriados nacionais.
// Implementado pelo cliente da BrasilAPI; os testes injetam uma fonte falsa.
type HolidaySource interface {
	GetHolidays(ctx context.Context, year int) ([]model.Holiday, error)
}

type HolidayClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

// NewHolidayClient cria o cliente do serviço externo de feriados nacionais
// (BrasilAPI: GET <base>/{ano})
func NewHolidayClient(baseURL string, logger *logrus.Logger) *HolidayClient {
	return &HolidayClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// holidayResponse é o formato de cada feriado retornado pela API
type holidayResponse struct {
	Date string `json:"date"` // formato 2006-01-02
	Name string `json:"name"`
	Type string `json:"type"`
}

// GetHolidays busca os feriados nacionais de um ano no serviço externo
func (c *HolidayClient) GetHolidays(ctx context.Context, year int) ([]model.Holiday, error) {
	url := fmt.Sprintf("%s/%d", c.baseURL, year)
	c.logger.Infof("Buscando feriados de %d em %s", year, url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("falha ao montar requisição de feriados: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Errorf("Erro na requisição de feriados do ano %d", year)
		return nil, fmt.Errorf("erro ao consultar serviço de feriados: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serviço de feriados retornou status %d", resp.StatusCode)
	}

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta de feriados: %w", err)
	}

	var parsed []holidayResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return nil, fmt.Errorf("erro ao interpretar resposta de feriados: %w", err)
	}

	holidays := make([]model.Holiday, 0, len(parsed))
	for _, h := range parsed {
		date, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			c.logger.Warnf("Feriado com data inválida ignorado: %q", h.Date)
			continue
		}
		holidayType := model.HolidayType(h.Type)
		if holidayType == "" {
			holidayType = model.HolidayTypeNational
		}
		holidays = append(holidays, model.Holiday{
			Date: date,
			Name: h.Name,
			Type: holidayType,
		})
	}

	c.logger.Infof("Feriados de %d obtidos com sucesso (%d datas)", year, len(holidays))
	return holidays, nil
}

type cachedYear struct {
	holidays  map[string]model.Holiday // chave: 2006-01-02
	fetchedAt time.Time
}

// HolidayCache guarda os feriados por ano com validade configurável.
// Quando o serviço externo está indisponível, o conjunto previamente
// armazenado é reutilizado mesmo vencido; sem nada em cache, o ajuste de
// dia útil prossegue considerando apenas fins de semana.
type HolidayCache struct {
	source HolidaySource
	ttl    time.Duration
	logger *logrus.Logger

	mu    sync.Mutex
	years map[int]*cachedYear
}

func NewHolidayCache(source HolidaySource, ttl time.Duration, logger *logrus.Logger) *HolidayCache {
	return &HolidayCache{
		source: source,
		ttl:    ttl,
		logger: logger,
		years:  make(map[int]*cachedYear),
	}
}

const dateKeyLayout = "2006-01-02"

// DateKey normaliza uma data para a chave usada no conjunto de feriados
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// HolidaysForYear retorna o conjunto de feriados do ano, consultando o
// serviço externo quando o cache está vazio ou vencido. Nunca retorna erro:
// falhas degradam para o conjunto antigo ou vazio.
func (c *HolidayCache) HolidaysForYear(ctx context.Context, year int) map[string]model.Holiday {
	c.mu.Lock()
	cached, ok := c.years[year]
	c.mu.Unlock()

	if ok && time.Since(cached.fetchedAt) < c.ttl {
		return cached.holidays
	}

	holidays, err := c.source.GetHolidays(ctx, year)
	if err != nil {
		if ok {
			c.logger.WithError(err).Warnf("Serviço de feriados indisponível, usando cache antigo do ano %d", year)
			return cached.holidays
		}
		c.logger.WithError(err).Warnf("Serviço de feriados indisponível e sem cache do ano %d, considerando apenas fins de semana", year)
		return map[string]model.Holiday{}
	}

	set := make(map[string]model.Holiday, len(holidays))
	for _, h := range holidays {
		set[DateKey(h.Date)] = h
	}

	c.mu.Lock()
	c.years[year] = &cachedYear{holidays: set, fetchedAt: time.Now()}
	c.mu.Unlock()

	return set
}

// ListHolidays retorna os feriados do ano em ordem de data, para a API e o
// calendário mensal
func (c *HolidayCache) ListHolidays(ctx context.Context, year int) []model.Holiday {
	set := c.HolidaysForYear(ctx, year)
	holidays := make([]model.Holiday, 0, len(set))
	for _, h := range set {
		holidays = append(holidays, h)
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}
