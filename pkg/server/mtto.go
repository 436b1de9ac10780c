package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tonelero/pkg/lifecycle"
	"tonelero/pkg/model"
	"tonelero/pkg/query"
	"tonelero/pkg/repository"
)

type mttoResponse struct {
	IDMtto    uint      `json:"idmtto"`
	IDTonel   uint      `json:"idtonel,omitempty"`
	IDDisp    uint      `json:"iddispensador,omitempty"`
	TipoMtto  string    `json:"tipomtto"`
	FechaIni  string    `json:"fechaini"`
	FechaFin  *string   `json:"fechafin,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// mttoForm is shared by both maintenance resources; the parent id field that
// applies depends on the resource.
type mttoForm struct {
	IDTonel       uint    `json:"idtonel"`
	IDDispensador uint    `json:"iddispensador"`
	TipoMtto      string  `json:"tipomtto"`
	FechaIni      string  `json:"fechaini"`
	FechaFin      *string `json:"fechafin"`
	Status        string  `json:"status"`
}

// resolveMtto applies the scheduling rules shared by both kinds, starting from
// the given values. Form fields left empty keep the starting values, so a
// partial update does not disturb fields the caller did not send. Create
// handlers pass the scheduling defaults as the starting values.
func (f mttoForm) resolveMtto(acceptsFin func(model.MttoStatus) bool, status model.MttoStatus, fechaini time.Time, fechafin *time.Time) (model.MttoStatus, time.Time, *time.Time, error) {
	if f.Status != "" {
		status = model.MttoStatus(f.Status)
	}

	if !status.Valid() {
		return "", time.Time{}, nil, fmt.Errorf("%w: %q", lifecycle.ErrInvalidStatus, f.Status)
	}

	if f.FechaIni != "" {
		parsed, err := parseDate(f.FechaIni)
		if err != nil {
			return "", time.Time{}, nil, err
		}

		fechaini = parsed
	}

	switch {
	case f.FechaFin != nil && *f.FechaFin != "":
		parsed, err := parseDate(*f.FechaFin)
		if err != nil {
			return "", time.Time{}, nil, err
		}

		fechafin = &parsed
	case f.FechaFin != nil:
		fechafin = nil
	case !acceptsFin(status):
		// A carried-over end date is dropped when the new status no longer
		// accepts one; only an explicit fechafin is an error.
		fechafin = nil
	}

	if err := lifecycle.ValidateMttoDates(acceptsFin(status), fechaini, fechafin); err != nil {
		return "", time.Time{}, nil, err
	}

	fechafin = lifecycle.ResolveMttoFin(acceptsFin(status), fechafin, time.Now())

	return status, fechaini, fechafin, nil
}

func mttoComparator(key string) func(a, b mttoResponse) int {
	switch key {
	case "tipomtto":
		return func(a, b mttoResponse) int { return query.CompareStrings(a.TipoMtto, b.TipoMtto) }
	case "fechaini":
		return func(a, b mttoResponse) int { return query.CompareStrings(a.FechaIni, b.FechaIni) }
	case "status":
		return func(a, b mttoResponse) int { return query.CompareStrings(a.Status, b.Status) }
	}

	return nil
}

func listMttos(w http.ResponseWriter, r *http.Request, rows []mttoResponse) {
	params := parseListParams(r)

	filtered := query.Filter(rows,
		query.Substring(params.Query, func(m mttoResponse) []string { return []string{m.TipoMtto} }),
		query.Exact(params.Status, func(m mttoResponse) string { return m.Status }),
	)

	if params.Sort.Key != "" {
		cmp := mttoComparator(params.Sort.Key)
		if cmp == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort key %q", params.Sort.Key))

			return
		}

		filtered = query.SortBy(filtered, cmp, params.Sort.Dir)
	}

	writeJSON(w, http.StatusOK, pageResponse(query.Paginate(filtered, params.Page), len(rows)))
}

type MttoTonelServer struct {
	mttos   repository.MttoTonelRepository
	toneles repository.TonelRepository
	logger  *zap.Logger
}

func NewMttoTonelServer(mttos repository.MttoTonelRepository, toneles repository.TonelRepository, logger *zap.Logger) *MttoTonelServer {
	return &MttoTonelServer{mttos: mttos, toneles: toneles, logger: logger}
}

func (s *MttoTonelServer) Routes(api chi.Router) {
	api.Route("/mttotonel", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{idmtto}", s.get)
		r.Put("/{idmtto}", s.update)
		r.Delete("/{idmtto}", s.delete)
	})
}

func mttoTonelFromModel(mtto *model.MttoTonel) mttoResponse {
	response := mttoResponse{
		IDMtto:    mtto.ID,
		IDTonel:   mtto.TonelID,
		TipoMtto:  string(mtto.TipoMtto),
		FechaIni:  formatDate(mtto.FechaIni),
		Status:    string(mtto.Status),
		CreatedAt: mtto.CreatedAt,
		UpdatedAt: mtto.UpdatedAt,
	}

	if mtto.FechaFin != nil {
		fin := formatDate(*mtto.FechaFin)
		response.FechaFin = &fin
	}

	return response
}

func (s *MttoTonelServer) list(w http.ResponseWriter, r *http.Request) {
	tonelID, err := parseOptionalParentID(r, "idtonel")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	mttos, err := s.mttos.GetMttosTonel(r.Context(), tonelID)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := make([]mttoResponse, 0, len(mttos))
	for _, mtto := range mttos {
		rows = append(rows, mttoTonelFromModel(mtto))
	}

	listMttos(w, r, rows)
}

func (s *MttoTonelServer) create(w http.ResponseWriter, r *http.Request) {
	var form mttoForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	if form.IDTonel == 0 {
		respondError(w, s.logger, fmt.Errorf("%w: idtonel is required", ErrBadRequest))

		return
	}

	if _, err := s.toneles.GetTonelByID(r.Context(), form.IDTonel); err != nil {
		respondError(w, s.logger, err)

		return
	}

	tipo := model.MttoTonelTipoValues()[0]

	if form.TipoMtto != "" {
		tipo = model.MttoTonelTipo(form.TipoMtto)
		if !tipo.Valid() {
			respondError(w, s.logger, fmt.Errorf("%w: tipomtto %q", lifecycle.ErrInvalidValue, form.TipoMtto))

			return
		}
	}

	status, fechaini, fechafin, err := form.resolveMtto(lifecycle.MttoTonelAcceptsFin, model.MttoProgramado, time.Now().Truncate(24*time.Hour), nil)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	mtto := model.MttoTonel{
		TonelID:  form.IDTonel,
		TipoMtto: tipo,
		FechaIni: fechaini,
		FechaFin: fechafin,
		Status:   status,
	}

	created, err := s.mttos.AddMttoTonel(r.Context(), mtto)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusCreated, mttoTonelFromModel(created))
}

func (s *MttoTonelServer) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idmtto")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	mtto, err := s.mttos.GetMttoTonelByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, mttoTonelFromModel(mtto))
}

func (s *MttoTonelServer) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idmtto")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	var form mttoForm
	if err = decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	mtto, err := s.mttos.GetMttoTonelByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	// The owning equipment is fixed once the task exists.
	if form.IDTonel != 0 && form.IDTonel != mtto.TonelID {
		respondError(w, s.logger, fmt.Errorf("%w: idtonel", ErrImmutable))

		return
	}

	if form.TipoMtto != "" {
		tipo := model.MttoTonelTipo(form.TipoMtto)
		if !tipo.Valid() {
			respondError(w, s.logger, fmt.Errorf("%w: tipomtto %q", lifecycle.ErrInvalidValue, form.TipoMtto))

			return
		}

		mtto.TipoMtto = tipo
	}

	status, fechaini, fechafin, err := form.resolveMtto(lifecycle.MttoTonelAcceptsFin, mtto.Status, mtto.FechaIni, mtto.FechaFin)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	mtto.Status = status
	mtto.FechaIni = fechaini
	mtto.FechaFin = fechafin

	updated, err := s.mttos.UpdateMttoTonel(r.Context(), mtto)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, mttoTonelFromModel(updated))
}

func (s *MttoTonelServer) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idmtto")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	if err = s.mttos.DeleteMttoTonel(r.Context(), id); err != nil {
		respondError(w, s.logger, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type MttoDispensadorServer struct {
	mttos         repository.MttoDispensadorRepository
	dispensadores repository.DispensadorRepository
	logger        *zap.Logger
}

func NewMttoDispensadorServer(mttos repository.MttoDispensadorRepository, dispensadores repository.DispensadorRepository, logger *zap.Logger) *MttoDispensadorServer {
	return &MttoDispensadorServer{mttos: mttos, dispensadores: dispensadores, logger: logger}
}

func (s *MttoDispensadorServer) Routes(api chi.Router) {
	api.Route("/mttodispenser", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{idmtto}", s.get)
		r.Put("/{idmtto}", s.update)
		r.Delete("/{idmtto}", s.delete)
	})
}

func mttoDispensadorFromModel(mtto *model.MttoDispensador) mttoResponse {
	response := mttoResponse{
		IDMtto:    mtto.ID,
		IDDisp:    mtto.DispensadorID,
		TipoMtto:  string(mtto.TipoMtto),
		FechaIni:  formatDate(mtto.FechaIni),
		Status:    string(mtto.Status),
		CreatedAt: mtto.CreatedAt,
		UpdatedAt: mtto.UpdatedAt,
	}

	if mtto.FechaFin != nil {
		fin := formatDate(*mtto.FechaFin)
		response.FechaFin = &fin
	}

	return response
}

func (s *MttoDispensadorServer) list(w http.ResponseWriter, r *http.Request) {
	dispensadorID, err := parseOptionalParentID(r, "iddispensador")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	mttos, err := s.mttos.GetMttosDispensador(r.Context(), dispensadorID)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := make([]mttoResponse, 0, len(mttos))
	for _, mtto := range mttos {
		rows = append(rows, mttoDispensadorFromModel(mtto))
	}

	listMttos(w, r, rows)
}

func (s *MttoDispensadorServer) create(w http.ResponseWriter, r *http.Request) {
	var form mttoForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	if form.IDDispensador == 0 {
		respondError(w, s.logger, fmt.Errorf("%w: iddispensador is required", ErrBadRequest))

		return
	}

	if _, err := s.dispensadores.GetDispensadorByID(r.Context(), form.IDDispensador); err != nil {
		respondError(w, s.logger, err)

		return
	}

	tipo := model.MttoDispensadorTipoValues()[0]

	if form.TipoMtto != "" {
		tipo = model.MttoDispensadorTipo(form.TipoMtto)
		if !tipo.Valid() {
			respondError(w, s.logger, fmt.Errorf("%w: tipomtto %q", lifecycle.ErrInvalidValue, form.TipoMtto))

			return
		}
	}

	status, fechaini, fechafin, err := form.resolveMtto(lifecycle.MttoDispensadorAcceptsFin, model.MttoProgramado, time.Now().Truncate(24*time.Hour), nil)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	mtto := model.MttoDispensador{
		DispensadorID: form.IDDispensador,
		TipoMtto:      tipo,
		FechaIni:      fechaini,
		FechaFin:      fechafin,
		Status:        status,
	}

	created, err := s.mttos.AddMttoDispensador(r.Context(), mtto)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusCreated, mttoDispensadorFromModel(created))
}

func (s *MttoDispensadorServer) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idmtto")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	mtto, err := s.mttos.GetMttoDispensadorByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, mttoDispensadorFromModel(mtto))
}

func (s *MttoDispensadorServer) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idmtto")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	var form mttoForm
	if err = decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	mtto, err := s.mttos.GetMttoDispensadorByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	if form.IDDispensador != 0 && form.IDDispensador != mtto.DispensadorID {
		respondError(w, s.logger, fmt.Errorf("%w: iddispensador", ErrImmutable))

		return
	}

	if form.TipoMtto != "" {
		tipo := model.MttoDispensadorTipo(form.TipoMtto)
		if !tipo.Valid() {
			respondError(w, s.logger, fmt.Errorf("%w: tipomtto %q", lifecycle.ErrInvalidValue, form.TipoMtto))

			return
		}

		mtto.TipoMtto = tipo
	}

	status, fechaini, fechafin, err := form.resolveMtto(lifecycle.MttoDispensadorAcceptsFin, mtto.Status, mtto.FechaIni, mtto.FechaFin)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	mtto.Status = status
	mtto.FechaIni = fechaini
	mtto.FechaFin = fechafin

	updated, err := s.mttos.UpdateMttoDispensador(r.Context(), mtto)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, mttoDispensadorFromModel(updated))
}

func (s *MttoDispensadorServer) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idmtto")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	if err = s.mttos.DeleteMttoDispensador(r.Context(), id); err != nil {
		respondError(w, s.logger, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
