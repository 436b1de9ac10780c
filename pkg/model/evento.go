package model

import (
	"time"

	"gorm.io/gorm"
)

type EventoTonelTipo string

const (
	EventoInspeccion         EventoTonelTipo = "inspeccion"
	EventoLimpiezaIniciada   EventoTonelTipo = "limpieza iniciada"
	EventoLimpiezaFinalizada EventoTonelTipo = "limpieza finalizada"
	EventoTraslado           EventoTonelTipo = "traslado"
	EventoEntrada            EventoTonelTipo = "entrada"
	EventoSalida             EventoTonelTipo = "salida"
)

func EventoTonelTipoValues() []EventoTonelTipo {
	return []EventoTonelTipo{EventoInspeccion, EventoLimpiezaIniciada, EventoLimpiezaFinalizada, EventoTraslado, EventoEntrada, EventoSalida}
}

func (t EventoTonelTipo) Valid() bool {
	switch t {
	case EventoInspeccion, EventoLimpiezaIniciada, EventoLimpiezaFinalizada, EventoTraslado, EventoEntrada, EventoSalida:
		return true
	}

	return false
}

// EventoTonel is an append-only audit record. Events are created and listed,
// never updated or deleted.
type EventoTonel struct {
	gorm.Model
	TonelID     uint `gorm:"index"`
	TipoEvento  EventoTonelTipo
	FechaEvento time.Time
	Descripcion string
}

func (EventoTonel) TableName() string { return "eventostonel" }
