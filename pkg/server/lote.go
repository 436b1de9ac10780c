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

type LoteServer struct {
	lotes   repository.LoteRepository
	toneles repository.TonelRepository
	logger  *zap.Logger
}

func NewLoteServer(lotes repository.LoteRepository, toneles repository.TonelRepository, logger *zap.Logger) *LoteServer {
	return &LoteServer{lotes: lotes, toneles: toneles, logger: logger}
}

func (s *LoteServer) Routes(api chi.Router) {
	api.Route("/lotes", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{idlote}", s.get)
		r.Put("/{idlote}", s.update)
		r.Delete("/{idlote}", s.delete)
	})
}

type loteResponse struct {
	IDLote    uint       `json:"idlote"`
	IDTonel   uint       `json:"idtonel"`
	LoteName  string     `json:"lotename"`
	Style     string     `json:"style"`
	Volumen   float64    `json:"volumen"`
	Status    string     `json:"status"`
	EntProd   time.Time  `json:"entprod"`
	SalProd   *time.Time `json:"salprod,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func loteFromModel(lote *model.LoteProduccion) loteResponse {
	return loteResponse{
		IDLote:    lote.ID,
		IDTonel:   lote.TonelID,
		LoteName:  lote.LoteName,
		Style:     string(lote.Style),
		Volumen:   lote.Volumen,
		Status:    string(lote.Status),
		EntProd:   lote.EntProd,
		SalProd:   lote.SalProd,
		CreatedAt: lote.CreatedAt,
		UpdatedAt: lote.UpdatedAt,
	}
}

type loteForm struct {
	IDTonel  uint       `json:"idtonel"`
	LoteName string     `json:"lotename"`
	Style    string     `json:"style"`
	Volumen  float64    `json:"volumen"`
	Status   string     `json:"status"`
	EntProd  time.Time  `json:"entprod"`
	SalProd  *time.Time `json:"salprod"`
}

// apply overlays the form onto lote. Empty form fields keep the existing
// values, so a partial update does not disturb fields the caller did not send.
func (f loteForm) apply(lote *model.LoteProduccion) error {
	var err error

	if f.LoteName != "" {
		lote.LoteName = f.LoteName
	}

	if lote.LoteName == "" {
		err = multierr.Append(err, fmt.Errorf("%w: lotename is required", ErrBadRequest))
	}

	if f.Style != "" {
		lote.Style = model.LoteStyle(f.Style)
	}

	if f.Volumen != 0 {
		lote.Volumen = f.Volumen
	}

	if f.Status != "" {
		lote.Status = model.LoteStatus(f.Status)
	}

	if !f.EntProd.IsZero() {
		lote.EntProd = f.EntProd
	}

	if f.SalProd != nil {
		lote.SalProd = f.SalProd
	} else if !lote.Status.RequiresSalProd() {
		// A carried-over salprod is dropped when the lote moves back to an
		// active state; only an explicit salprod is an error.
		lote.SalProd = nil
	}

	err = multierr.Append(err, lifecycle.ValidateLote(lote))

	return err
}

func loteComparator(key string) func(a, b loteResponse) int {
	switch key {
	case "lotename":
		return func(a, b loteResponse) int { return query.CompareStrings(a.LoteName, b.LoteName) }
	case "style":
		return func(a, b loteResponse) int { return query.CompareStrings(a.Style, b.Style) }
	case "volumen":
		return func(a, b loteResponse) int { return query.CompareNumbers(a.Volumen, b.Volumen) }
	case "status":
		return func(a, b loteResponse) int { return query.CompareStrings(a.Status, b.Status) }
	case "entprod":
		return func(a, b loteResponse) int { return query.CompareNumbers(float64(a.EntProd.UnixNano()), float64(b.EntProd.UnixNano())) }
	}

	return nil
}

func (s *LoteServer) list(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	tonelID, err := parseOptionalParentID(r, "idtonel")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	lotes, err := s.lotes.GetLotes(r.Context(), tonelID)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := make([]loteResponse, 0, len(lotes))
	for _, lote := range lotes {
		rows = append(rows, loteFromModel(lote))
	}

	filtered := query.Filter(rows,
		query.Substring(params.Query, func(l loteResponse) []string { return []string{l.LoteName} }),
		query.Exact(params.Status, func(l loteResponse) string { return l.Status }),
	)

	if params.Sort.Key != "" {
		cmp := loteComparator(params.Sort.Key)
		if cmp == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort key %q", params.Sort.Key))

			return
		}

		filtered = query.SortBy(filtered, cmp, params.Sort.Dir)
	}

	writeJSON(w, http.StatusOK, pageResponse(query.Paginate(filtered, params.Page), len(rows)))
}

func (s *LoteServer) create(w http.ResponseWriter, r *http.Request) {
	var form loteForm
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

	lote := model.LoteProduccion{TonelID: form.IDTonel, Status: model.LotePlaneado, EntProd: time.Now()}

	if err := form.apply(&lote); err != nil {
		respondError(w, s.logger, err)

		return
	}

	created, err := s.lotes.AddLote(r.Context(), lote)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusCreated, loteFromModel(created))
}

func (s *LoteServer) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idlote")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	lote, err := s.lotes.GetLoteByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, loteFromModel(lote))
}

func (s *LoteServer) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idlote")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	var form loteForm
	if err = decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	lote, err := s.lotes.GetLoteByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	// The owning tonel is fixed at creation.
	if form.IDTonel != 0 && form.IDTonel != lote.TonelID {
		respondError(w, s.logger, fmt.Errorf("%w: idtonel", ErrImmutable))

		return
	}

	if err = form.apply(lote); err != nil {
		respondError(w, s.logger, err)

		return
	}

	updated, err := s.lotes.UpdateLote(r.Context(), lote)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, loteFromModel(updated))
}

func (s *LoteServer) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idlote")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	if err = s.lotes.DeleteLote(r.Context(), id); err != nil {
		respondError(w, s.logger, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
