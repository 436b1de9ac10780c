package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tonelero/pkg/lifecycle"
	"tonelero/pkg/model"
	"tonelero/pkg/query"
	"tonelero/pkg/repository"
)

type TonelServer struct {
	toneles repository.TonelRepository
	logger  *zap.Logger
}

func NewTonelServer(toneles repository.TonelRepository, logger *zap.Logger) *TonelServer {
	return &TonelServer{toneles: toneles, logger: logger}
}

func (s *TonelServer) Routes(api chi.Router) {
	api.Route("/toneles", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{idtonel}", s.get)
		r.Put("/{idtonel}", s.update)
		r.Delete("/{idtonel}", s.delete)
		r.Put("/status/{idtonel}", s.updateStatus)
	})
}

type tonelResponse struct {
	IDTonel       uint      `json:"idtonel"`
	NSerial       string    `json:"nserial"`
	Capacity      float64   `json:"capacity"`
	Status        string    `json:"status"`
	Location      string    `json:"location"`
	Acquired      string    `json:"acquired"`
	VidaUtil      int       `json:"vidautil"`
	Notas         string    `json:"notas,omitempty"`
	CurrentLoteID *uint     `json:"currentLoteId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func tonelFromModel(tonel *model.Tonel) tonelResponse {
	response := tonelResponse{
		IDTonel:   tonel.ID,
		NSerial:   tonel.NSerial,
		Capacity:  tonel.Capacity,
		Status:    string(tonel.Status),
		Location:  tonel.Location,
		Acquired:  formatDate(tonel.Acquired),
		VidaUtil:  tonel.VidaUtil,
		Notas:     tonel.Notas,
		CreatedAt: tonel.CreatedAt,
		UpdatedAt: tonel.UpdatedAt,
	}

	if lote := tonel.CurrentLote(); lote != nil {
		loteID := lote.ID
		response.CurrentLoteID = &loteID
	}

	return response
}

type tonelForm struct {
	NSerial  string  `json:"nserial"`
	Capacity float64 `json:"capacity"`
	Status   string  `json:"status"`
	Location string  `json:"location"`
	Acquired string  `json:"acquired"`
	VidaUtil int     `json:"vidautil"`
	Notas    string  `json:"notas"`
}

func (f tonelForm) validate() error {
	var err error

	if f.NSerial == "" {
		err = multierr.Append(err, fmt.Errorf("%w: nserial is required", ErrBadRequest))
	}

	if f.Capacity <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: capacity must be positive", lifecycle.ErrInvalidValue))
	}

	if f.VidaUtil < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: vidautil must not be negative", lifecycle.ErrInvalidValue))
	}

	if f.Status != "" && !model.TonelStatus(f.Status).Valid() {
		err = multierr.Append(err, fmt.Errorf("%w: %q", lifecycle.ErrInvalidStatus, f.Status))
	}

	return err
}

func (f tonelForm) apply(tonel *model.Tonel) error {
	if err := f.validate(); err != nil {
		return err
	}

	acquired := time.Now()

	if f.Acquired != "" {
		parsed, err := parseDate(f.Acquired)
		if err != nil {
			return err
		}

		acquired = parsed
	}

	tonel.NSerial = f.NSerial
	tonel.Capacity = f.Capacity
	tonel.Location = f.Location
	tonel.Acquired = acquired
	tonel.VidaUtil = f.VidaUtil
	tonel.Notas = f.Notas

	if f.Status != "" {
		tonel.Status = model.TonelStatus(f.Status)
	}

	return nil
}

func tonelComparator(key string) func(a, b tonelResponse) int {
	switch key {
	case "nserial":
		return func(a, b tonelResponse) int { return query.CompareStrings(a.NSerial, b.NSerial) }
	case "capacity":
		return func(a, b tonelResponse) int { return query.CompareNumbers(a.Capacity, b.Capacity) }
	case "status":
		return func(a, b tonelResponse) int { return query.CompareStrings(a.Status, b.Status) }
	case "location":
		return func(a, b tonelResponse) int { return query.CompareStrings(a.Location, b.Location) }
	case "acquired":
		return func(a, b tonelResponse) int { return query.CompareStrings(a.Acquired, b.Acquired) }
	case "vidautil":
		return func(a, b tonelResponse) int { return query.CompareNumbers(float64(a.VidaUtil), float64(b.VidaUtil)) }
	}

	return nil
}

func (s *TonelServer) list(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	toneles, err := s.toneles.GetToneles(r.Context())
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := make([]tonelResponse, 0, len(toneles))
	for _, tonel := range toneles {
		rows = append(rows, tonelFromModel(tonel))
	}

	filtered := query.Filter(rows,
		query.Substring(params.Query, func(t tonelResponse) []string { return []string{t.NSerial, t.Location, t.Notas} }),
		query.Exact(params.Status, func(t tonelResponse) string { return t.Status }),
		query.Exact(params.Location, func(t tonelResponse) string { return t.Location }),
	)

	if params.Sort.Key != "" {
		cmp := tonelComparator(params.Sort.Key)
		if cmp == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort key %q", params.Sort.Key))

			return
		}

		filtered = query.SortBy(filtered, cmp, params.Sort.Dir)
	}

	writeJSON(w, http.StatusOK, pageResponse(query.Paginate(filtered, params.Page), len(rows)))
}

func (s *TonelServer) create(w http.ResponseWriter, r *http.Request) {
	var form tonelForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	tonel := model.Tonel{Status: model.TonelVacio}

	if err := form.apply(&tonel); err != nil {
		respondError(w, s.logger, err)

		return
	}

	created, err := s.toneles.AddTonel(r.Context(), tonel)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusCreated, tonelFromModel(created))
}

func (s *TonelServer) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idtonel")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	tonel, err := s.toneles.GetTonelByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, tonelFromModel(tonel))
}

func (s *TonelServer) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idtonel")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	var form tonelForm
	if err = decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	tonel, err := s.toneles.GetTonelByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	if form.Status != "" && model.TonelStatus(form.Status) != tonel.Status {
		if err = lifecycle.ValidateTonelTransition(tonel.Status, model.TonelStatus(form.Status)); err != nil {
			respondError(w, s.logger, err)

			return
		}
	}

	if err = form.apply(tonel); err != nil {
		respondError(w, s.logger, err)

		return
	}

	updated, err := s.toneles.UpdateTonel(r.Context(), tonel)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, tonelFromModel(updated))
}

func (s *TonelServer) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idtonel")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	if err = s.toneles.DeleteTonel(r.Context(), id); err != nil {
		respondError(w, s.logger, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type tonelStatusForm struct {
	Status   string  `json:"status"`
	Location *string `json:"location"`
	Notas    *string `json:"notas"`
}

// updateStatus changes status and location together as one atomic operation
// and appends a traslado event describing the change.
func (s *TonelServer) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idtonel")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	var form tonelStatusForm
	if err = decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	tonel, err := s.toneles.GetTonelByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	newStatus := model.TonelStatus(form.Status)

	if err = lifecycle.ValidateTonelTransition(tonel.Status, newStatus); err != nil {
		respondError(w, s.logger, err)

		return
	}

	descripcion := fmt.Sprintf("estado: %s -> %s", tonel.Status, newStatus)
	tonel.Status = newStatus

	if form.Location != nil && *form.Location != tonel.Location {
		descripcion += fmt.Sprintf(", ubicacion: %s -> %s", tonel.Location, *form.Location)
		tonel.Location = *form.Location
	}

	if form.Notas != nil {
		tonel.Notas = *form.Notas
	}

	evento := model.EventoTonel{
		TipoEvento:  model.EventoTraslado,
		FechaEvento: time.Now(),
		Descripcion: descripcion,
	}

	updated, err := s.toneles.UpdateTonelStatusLocation(r.Context(), tonel, evento)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, tonelFromModel(updated))
}
