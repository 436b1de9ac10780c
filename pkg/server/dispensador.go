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

type DispensadorServer struct {
	dispensadores repository.DispensadorRepository
	logger        *zap.Logger
}

func NewDispensadorServer(dispensadores repository.DispensadorRepository, logger *zap.Logger) *DispensadorServer {
	return &DispensadorServer{dispensadores: dispensadores, logger: logger}
}

func (s *DispensadorServer) Routes(api chi.Router) {
	api.Route("/dispenser", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{iddispensador}", s.get)
		r.Put("/{iddispensador}", s.update)
		r.Delete("/{iddispensador}", s.delete)
	})
}

type dispensadorResponse struct {
	IDDispensador uint      `json:"iddispensador"`
	NSerial       string    `json:"nserial"`
	Status        string    `json:"status"`
	Location      string    `json:"location"`
	Acquired      string    `json:"acquired"`
	Notas         string    `json:"notas,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func dispensadorFromModel(dispensador *model.Dispensador) dispensadorResponse {
	return dispensadorResponse{
		IDDispensador: dispensador.ID,
		NSerial:       dispensador.NSerial,
		Status:        string(dispensador.Status),
		Location:      dispensador.Location,
		Acquired:      formatDate(dispensador.Acquired),
		Notas:         dispensador.Notas,
		CreatedAt:     dispensador.CreatedAt,
		UpdatedAt:     dispensador.UpdatedAt,
	}
}

type dispensadorForm struct {
	NSerial  string `json:"nserial"`
	Status   string `json:"status"`
	Location string `json:"location"`
	Acquired string `json:"acquired"`
	Notas    string `json:"notas"`
}

func (f dispensadorForm) apply(dispensador *model.Dispensador) error {
	var err error

	if f.NSerial == "" {
		err = multierr.Append(err, fmt.Errorf("%w: nserial is required", ErrBadRequest))
	}

	if f.Status != "" && !model.DispensadorStatus(f.Status).Valid() {
		err = multierr.Append(err, fmt.Errorf("%w: %q", lifecycle.ErrInvalidStatus, f.Status))
	}

	if err != nil {
		return err
	}

	acquired := time.Now()

	if f.Acquired != "" {
		parsed, parseErr := parseDate(f.Acquired)
		if parseErr != nil {
			return parseErr
		}

		acquired = parsed
	}

	dispensador.NSerial = f.NSerial
	dispensador.Location = f.Location
	dispensador.Acquired = acquired
	dispensador.Notas = f.Notas

	if f.Status != "" {
		dispensador.Status = model.DispensadorStatus(f.Status)
	}

	return nil
}

func dispensadorComparator(key string) func(a, b dispensadorResponse) int {
	switch key {
	case "nserial":
		return func(a, b dispensadorResponse) int { return query.CompareStrings(a.NSerial, b.NSerial) }
	case "status":
		return func(a, b dispensadorResponse) int { return query.CompareStrings(a.Status, b.Status) }
	case "location":
		return func(a, b dispensadorResponse) int { return query.CompareStrings(a.Location, b.Location) }
	case "acquired":
		return func(a, b dispensadorResponse) int { return query.CompareStrings(a.Acquired, b.Acquired) }
	}

	return nil
}

func (s *DispensadorServer) list(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	dispensadores, err := s.dispensadores.GetDispensadores(r.Context())
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := make([]dispensadorResponse, 0, len(dispensadores))
	for _, dispensador := range dispensadores {
		rows = append(rows, dispensadorFromModel(dispensador))
	}

	filtered := query.Filter(rows,
		query.Substring(params.Query, func(d dispensadorResponse) []string { return []string{d.NSerial, d.Location, d.Notas} }),
		query.Exact(params.Status, func(d dispensadorResponse) string { return d.Status }),
		query.Exact(params.Location, func(d dispensadorResponse) string { return d.Location }),
	)

	if params.Sort.Key != "" {
		cmp := dispensadorComparator(params.Sort.Key)
		if cmp == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort key %q", params.Sort.Key))

			return
		}

		filtered = query.SortBy(filtered, cmp, params.Sort.Dir)
	}

	writeJSON(w, http.StatusOK, pageResponse(query.Paginate(filtered, params.Page), len(rows)))
}

func (s *DispensadorServer) create(w http.ResponseWriter, r *http.Request) {
	var form dispensadorForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	dispensador := model.Dispensador{Status: model.DispensadorAsignado}

	if err := form.apply(&dispensador); err != nil {
		respondError(w, s.logger, err)

		return
	}

	created, err := s.dispensadores.AddDispensador(r.Context(), dispensador)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusCreated, dispensadorFromModel(created))
}

func (s *DispensadorServer) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "iddispensador")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	dispensador, err := s.dispensadores.GetDispensadorByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, dispensadorFromModel(dispensador))
}

func (s *DispensadorServer) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "iddispensador")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	var form dispensadorForm
	if err = decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	dispensador, err := s.dispensadores.GetDispensadorByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	if form.Status != "" && model.DispensadorStatus(form.Status) != dispensador.Status {
		if err = lifecycle.ValidateDispensadorTransition(dispensador.Status, model.DispensadorStatus(form.Status)); err != nil {
			respondError(w, s.logger, err)

			return
		}
	}

	if err = form.apply(dispensador); err != nil {
		respondError(w, s.logger, err)

		return
	}

	updated, err := s.dispensadores.UpdateDispensador(r.Context(), dispensador)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, dispensadorFromModel(updated))
}

func (s *DispensadorServer) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "iddispensador")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	if err = s.dispensadores.DeleteDispensador(r.Context(), id); err != nil {
		respondError(w, s.logger, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
