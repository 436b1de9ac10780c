package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tonelero/pkg/model"
	"tonelero/pkg/repository"
)

type LocationServer struct {
	locations repository.LocationRepository
	logger    *zap.Logger
}

func NewLocationServer(locations repository.LocationRepository, logger *zap.Logger) *LocationServer {
	return &LocationServer{locations: locations, logger: logger}
}

func (s *LocationServer) Routes(api chi.Router) {
	api.Route("/location", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{idlocation}", s.get)
		r.Put("/{idlocation}", s.update)
		r.Delete("/{idlocation}", s.delete)
	})
}

type locationResponse struct {
	IDLocation  uint      `json:"idlocation"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func locationFromModel(location *model.Location) locationResponse {
	return locationResponse{
		IDLocation:  location.ID,
		Location:    location.Name,
		Description: location.Description,
		CreatedAt:   location.CreatedAt,
		UpdatedAt:   location.UpdatedAt,
	}
}

type locationForm struct {
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (f locationForm) apply(location *model.Location) error {
	if f.Location == "" {
		return fmt.Errorf("%w: location is required", ErrBadRequest)
	}

	location.Name = f.Location
	location.Description = f.Description

	return nil
}

// list returns the whole reference table. The set is small enough that the
// select controls consume it unpaged.
func (s *LocationServer) list(w http.ResponseWriter, r *http.Request) {
	locations, err := s.locations.GetLocations(r.Context())
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := make([]locationResponse, 0, len(locations))
	for _, location := range locations {
		rows = append(rows, locationFromModel(location))
	}

	writeJSON(w, http.StatusOK, rows)
}

func (s *LocationServer) create(w http.ResponseWriter, r *http.Request) {
	var form locationForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	var location model.Location
	if err := form.apply(&location); err != nil {
		respondError(w, s.logger, err)

		return
	}

	created, err := s.locations.AddLocation(r.Context(), location)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusCreated, locationFromModel(created))
}

func (s *LocationServer) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idlocation")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	location, err := s.locations.GetLocationByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, locationFromModel(location))
}

func (s *LocationServer) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idlocation")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	var form locationForm
	if err = decodeJSON(r, &form); err != nil {
		respondError(w, s.logger, err)

		return
	}

	location, err := s.locations.GetLocationByID(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	if err = form.apply(location); err != nil {
		respondError(w, s.logger, err)

		return
	}

	updated, err := s.locations.UpdateLocation(r.Context(), location)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	writeJSON(w, http.StatusOK, locationFromModel(updated))
}

func (s *LocationServer) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "idlocation")
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	if err = s.locations.DeleteLocation(r.Context(), id); err != nil {
		respondError(w, s.logger, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
