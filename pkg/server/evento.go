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

type EventoServer struct {
	eventos repository.EventoRepository
	toneles repository.TonelRepository
	logger  *zap.Logger
}

func NewEventoServer(eventos repository.EventoRepository, toneles repository.TonelRepository, logger *zap.Logger) *EventoServer {
	return &EventoServer{eventos: eventos, toneles: toneles, logger: logger}
}

// Routes registers the audit trail. There is no update or delete: the trail
// is append-only.
func (s *EventoServer) Routes(api chi.Router) {
	api.Route("/eventostonel", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
	})
}

type eventoResponse struct {
	IDEvento    uint      `json:"idevento"`
	IDTonel     uint      `json:"idtonel"`
	TipoEvento  string    `json:"tipoevento"`
	FechaEvento time.Time `json:"fechaevento"`
	Descripcion string    `json:"descripcion,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func eventoFromModel(evento *model.EventoTonel) eventoResponse {
	return eventoResponse{
		IDEvento:    evento.ID,
		IDTonel:     evento.TonelID,
		TipoEvento:  string(evento.TipoEvento),
		FechaEvento: evento.FechaEvento,
		Descripcion: evento.Descripcion,
		CreatedAt:   evento.CreatedAt,
	}
}

type eventoForm struct {
	IDTonel     uint       `json:"idtonel"`
	TipoEvento  string     `json:"tipoevento"`
	FechaEvento *time.Time `json:"fechaevento"`
	Descripcion string     `json:"descripcion"`
}

func (s *EventoServer) list(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	tonelID, err := parseOptionalParentID(r, "idtonel")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	eventos, err := s.eventos.GetEventos(r.Context(), tonelID)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := make([]eventoResponse, 0, len(eventos))
	for _, evento := range eventos {
		rows = append(rows, eventoFromModel(evento))
	}

	filtered := query.Filter(rows,
		query.Substring(params.Query, func(e eventoResponse) []string { return []string{e.TipoEvento, e.Descripcion} }),
	)

	writeJSON(w, http.StatusOK, pageResponse(query.Paginate(filtered, params.Page), len(rows)))
}

func (s *EventoServer) create(w http.ResponseWriter, r *http.Request) {
	var form eventoForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	if form.IDTonel == 0 {
		respondError(w, s.logger, fmt.Errorf("%w: idtonel is required", ErrBadRequest))

		return
	}

	tipo := model.EventoTonelTipo(form.TipoEvento)
	if !tipo.Valid() {
		respondError(w, s.logger, fmt.Errorf("%w: tipoevento %q", lifecycle.ErrInvalidValue, form.TipoEvento))

		return
	}

	if _, err := s.toneles.GetTonelByID(r.Context(), form.IDTonel); err != nil {
		respondError(w, s.logger, err)

		return
	}

	fecha := time.Now()
	if form.FechaEvento != nil {
		fecha = *form.FechaEvento
	}

	evento := model.EventoTonel{
		TonelID:     form.IDTonel,
		TipoEvento:  tipo,
		FechaEvento: fecha,
		Descripcion: form.Descripcion,
	}

	created, err := s.eventos.AddEvento(r.Context(), evento)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusCreated, eventoFromModel(created))
}
