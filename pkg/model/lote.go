package model

import (
	"time"

	"gorm.io/gorm"
)

type LoteStyle string

const (
	LoteCristal  LoteStyle = "cristal"
	LoteBucanero LoteStyle = "bucanero"
	LoteHatuey   LoteStyle = "hatuey"
)

func LoteStyleValues() []LoteStyle {
	return []LoteStyle{LoteCristal, LoteBucanero, LoteHatuey}
}

func (s LoteStyle) Valid() bool {
	switch s {
	case LoteCristal, LoteBucanero, LoteHatuey:
		return true
	}

	return false
}

type LoteStatus string

const (
	LotePlaneado         LoteStatus = "planeado"
	LoteFermentando      LoteStatus = "fermentando"
	LoteProducion        LoteStatus = "producion"
	LoteListoParaEnvasar LoteStatus = "listo para envasar"
	LoteCompletado       LoteStatus = "completado"
)

func LoteStatusValues() []LoteStatus {
	return []LoteStatus{LotePlaneado, LoteFermentando, LoteProducion, LoteListoParaEnvasar, LoteCompletado}
}

func (s LoteStatus) Valid() bool {
	switch s {
	case LotePlaneado, LoteFermentando, LoteProducion, LoteListoParaEnvasar, LoteCompletado:
		return true
	}

	return false
}

// Active reports whether a lote in this state still occupies its tonel.
func (s LoteStatus) Active() bool {
	return s != LoteCompletado
}

// RequiresSalProd reports whether salprod must be set for this state. The
// production end date is present exactly when the lote has reached packaging.
func (s LoteStatus) RequiresSalProd() bool {
	return s == LoteCompletado || s == LoteListoParaEnvasar
}

// LoteProduccion is a production batch. TonelID is immutable after creation.
type LoteProduccion struct {
	gorm.Model
	TonelID  uint `gorm:"index"`
	LoteName string
	Style    LoteStyle
	Volumen  float64
	Status   LoteStatus
	EntProd  time.Time
	SalProd  *time.Time
}

func (LoteProduccion) TableName() string { return "lotesproduccion" }
