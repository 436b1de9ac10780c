package model

import (
	"time"

	"gorm.io/gorm"
)

// MttoStatus is shared by tonel and dispensador maintenance tasks.
type MttoStatus string

const (
	MttoProgramado MttoStatus = "programado"
	MttoEnProceso  MttoStatus = "en proceso"
	MttoCompletado MttoStatus = "completado"
	MttoCancelado  MttoStatus = "cancelado"
)

func MttoStatusValues() []MttoStatus {
	return []MttoStatus{MttoProgramado, MttoEnProceso, MttoCompletado, MttoCancelado}
}

func (s MttoStatus) Valid() bool {
	switch s {
	case MttoProgramado, MttoEnProceso, MttoCompletado, MttoCancelado:
		return true
	}

	return false
}

type MttoTonelTipo string

const (
	MttoTonelInspeccion       MttoTonelTipo = "inspeccion de rutina"
	MttoTonelPruebaPresion    MttoTonelTipo = "prueba de presion"
	MttoTonelRemplazoSellos   MttoTonelTipo = "remplazo de sellos"
	MttoTonelRemplazoValvulas MttoTonelTipo = "remplazo de valvulas"
	MttoTonelLimpiezaExterior MttoTonelTipo = "limpieza exterior"
)

func MttoTonelTipoValues() []MttoTonelTipo {
	return []MttoTonelTipo{MttoTonelInspeccion, MttoTonelPruebaPresion, MttoTonelRemplazoSellos, MttoTonelRemplazoValvulas, MttoTonelLimpiezaExterior}
}

func (t MttoTonelTipo) Valid() bool {
	switch t {
	case MttoTonelInspeccion, MttoTonelPruebaPresion, MttoTonelRemplazoSellos, MttoTonelRemplazoValvulas, MttoTonelLimpiezaExterior:
		return true
	}

	return false
}

type MttoDispensadorTipo string

const (
	MttoDispensadorInspeccion       MttoDispensadorTipo = "inspeccion de rutina"
	MttoDispensadorSoldadura        MttoDispensadorTipo = "soldadura"
	MttoDispensadorLimpiezaExterior MttoDispensadorTipo = "limpieza exterior"
)

func MttoDispensadorTipoValues() []MttoDispensadorTipo {
	return []MttoDispensadorTipo{MttoDispensadorInspeccion, MttoDispensadorSoldadura, MttoDispensadorLimpiezaExterior}
}

func (t MttoDispensadorTipo) Valid() bool {
	switch t {
	case MttoDispensadorInspeccion, MttoDispensadorSoldadura, MttoDispensadorLimpiezaExterior:
		return true
	}

	return false
}

type MttoTonel struct {
	gorm.Model
	TonelID  uint `gorm:"index"`
	TipoMtto MttoTonelTipo
	FechaIni time.Time
	FechaFin *time.Time
	Status   MttoStatus
}

func (MttoTonel) TableName() string { return "mttotonel" }

type MttoDispensador struct {
	gorm.Model
	DispensadorID uint `gorm:"index"`
	TipoMtto      MttoDispensadorTipo
	FechaIni      time.Time
	FechaFin      *time.Time
	Status        MttoStatus
}

func (MttoDispensador) TableName() string { return "mttodispensador" }
