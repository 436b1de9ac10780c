package model

import (
	"time"

	"gorm.io/gorm"
)

type DispensadorStatus string

const (
	DispensadorAsignado      DispensadorStatus = "asignado a tonel"
	DispensadorMantenimiento DispensadorStatus = "mantenimiento"
	DispensadorFueraServicio DispensadorStatus = "fuera servicio"
)

func DispensadorStatusValues() []DispensadorStatus {
	return []DispensadorStatus{DispensadorAsignado, DispensadorMantenimiento, DispensadorFueraServicio}
}

func (s DispensadorStatus) Valid() bool {
	switch s {
	case DispensadorAsignado, DispensadorMantenimiento, DispensadorFueraServicio:
		return true
	}

	return false
}

type Dispensador struct {
	gorm.Model
	NSerial  string `gorm:"uniqueIndex"`
	Status   DispensadorStatus
	Location string
	Acquired time.Time
	Notas    string
}

func (Dispensador) TableName() string { return "dispensadores" }
