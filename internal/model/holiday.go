package model

import "time"

type HolidayType string

const (
	HolidayTypeNational  HolidayType = "national"
	HolidayTypeState     HolidayType = "state"
	HolidayTypeMunicipal HolidayType = "municipal"
)

// Holiday é uma data não útil fornecida pelo calendário externo.
// Somente leitura do ponto de vista do sistema.
type Holiday struct {
	Date time.Time   `json:"date"`
	Name string      `json:"name"`
	Type HolidayType `json:"type"`
}
