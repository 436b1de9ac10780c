package server

import (
	"net/http"

	"tonelero/pkg/model"
)

// optionsResponse bundles every dropdown option table the UI needs in one
// payload.
type optionsResponse struct {
	TonelStatus         []model.SelectOption `json:"tonelStatus"`
	DispensadorStatus   []model.SelectOption `json:"dispensadorStatus"`
	LoteStyle           []model.SelectOption `json:"loteStyle"`
	LoteStatus          []model.SelectOption `json:"loteStatus"`
	MttoStatus          []model.SelectOption `json:"mttoStatus"`
	MttoTonelTipo       []model.SelectOption `json:"mttoTonelTipo"`
	MttoDispensadorTipo []model.SelectOption `json:"mttoDispensadorTipo"`
	EventoTonelTipo     []model.SelectOption `json:"eventoTonelTipo"`
}

func handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		TonelStatus:         model.TonelStatusOptions,
		DispensadorStatus:   model.DispensadorStatusOptions,
		LoteStyle:           model.LoteStyleOptions,
		LoteStatus:          model.LoteStatusOptions,
		MttoStatus:          model.MttoStatusOptions,
		MttoTonelTipo:       model.MttoTonelTipoOptions,
		MttoDispensadorTipo: model.MttoDispensadorTipoOptions,
		EventoTonelTipo:     model.EventoTonelTipoOptions,
	})
}
