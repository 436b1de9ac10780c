package model

import (
	"time"

	"gorm.io/gorm"
)

// TonelStatus is the lifecycle state of a keg. Transitions between states are
// validated by the lifecycle package.
type TonelStatus string

const (
	TonelVacio         TonelStatus = "vacio"
	TonelLleno         TonelStatus = "lleno"
	TonelAsignado      TonelStatus = "asignado a dispenser"
	TonelMantenimiento TonelStatus = "mantenimiento"
	TonelFueraServicio TonelStatus = "fuera servicio"
)

func TonelStatusValues() []TonelStatus {
	return []TonelStatus{TonelVacio, TonelLleno, TonelAsignado, TonelMantenimiento, TonelFueraServicio}
}

func (s TonelStatus) Valid() bool {
	switch s {
	case TonelVacio, TonelLleno, TonelAsignado, TonelMantenimiento, TonelFueraServicio:
		return true
	}

	return false
}

type Tonel struct {
	gorm.Model
	NSerial  string `gorm:"uniqueIndex"`
	Capacity float64
	Status   TonelStatus
	Location string
	Acquired time.Time
	VidaUtil int
	Notas    string
	Lotes    []LoteProduccion `gorm:"foreignKey:TonelID"`
}

func (Tonel) TableName() string { return "toneles" }

// CurrentLote returns the lote currently occupying the tonel, or nil when the
// tonel has no active lote. At most one lote per tonel is active at a time.
func (t *Tonel) CurrentLote() *LoteProduccion {
	for i := range t.Lotes {
		if t.Lotes[i].Status.Active() {
			return &t.Lotes[i]
		}
	}

	return nil
}
