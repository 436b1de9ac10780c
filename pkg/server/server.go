// Package server exposes the REST API consumed by the management UI.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tonelero/pkg/lifecycle"
	"tonelero/pkg/query"
	"tonelero/pkg/repository"
)

const dateLayout = "2006-01-02"

var ErrBadRequest = errors.New("bad request")

// ErrImmutable marks an attempt to change a field fixed at creation time,
// such as a lote's owning tonel.
var ErrImmutable = errors.New("field is immutable")

func NewRouter(repo *repository.Repository, logger *zap.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(api chi.Router) {
		api.Get("/options", handleOptions)

		NewTonelServer(repo, logger).Routes(api)
		NewLoteServer(repo, repo, logger).Routes(api)
		NewDispensadorServer(repo, logger).Routes(api)
		NewMttoTonelServer(repo, repo, logger).Routes(api)
		NewMttoDispensadorServer(repo, repo, logger).Routes(api)
		NewEventoServer(repo, repo, logger).Routes(api)
		NewLocationServer(repo, logger).Routes(api)
		NewReportServer(repo, logger).Routes(api)
	})

	return router
}

type apiError struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Message: message})
}

func decodeJSON(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return fmt.Errorf("%w: invalid json body", ErrBadRequest)
	}

	return nil
}

func parseID(r *http.Request, param string) (uint, error) {
	raw := chi.URLParam(r, param)

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", ErrBadRequest, raw)
	}

	return uint(id), nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrBadRequest, value)
	}

	return date, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// errorStatus maps domain errors onto HTTP statuses: unknown ids are 404,
// invariant conflicts are 409, rejected input is 400.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrTonelNotFound),
		errors.Is(err, repository.ErrLoteNotFound),
		errors.Is(err, repository.ErrDispensadorNotFound),
		errors.Is(err, repository.ErrMttoNotFound),
		errors.Is(err, repository.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrTonelEnUso),
		errors.Is(err, repository.ErrLoteActivo),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, ErrImmutable):
		return http.StatusConflict
	case errors.Is(err, lifecycle.ErrInvalidStatus),
		errors.Is(err, lifecycle.ErrInvalidDates),
		errors.Is(err, lifecycle.ErrInvalidValue),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := errorStatus(err)

	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}

	writeError(w, status, err.Error())
}

// listParams carries the uniform list-view controls: free-text filter, exact
// categorical filters, sort state and page number.
type listParams struct {
	Query    string
	Status   string
	Location string
	Sort     query.Sort
	Page     int
}

func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	params := listParams{
		Query:    values.Get("q"),
		Status:   values.Get("status"),
		Location: values.Get("location"),
		Sort:     query.Sort{Key: values.Get("sort"), Dir: query.Asc},
		Page:     1,
	}

	if values.Get("dir") == string(query.Desc) {
		params.Sort.Dir = query.Desc
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		params.Page = page
	}

	return params
}

// listResponse reports both the filtered total and the unfiltered collection
// size so an empty page can be told apart from an empty collection.
type listResponse[T any] struct {
	Items          []T `json:"items"`
	Page           int `json:"page"`
	TotalPages     int `json:"totalPages"`
	TotalItems     int `json:"totalItems"`
	CollectionSize int `json:"collectionSize"`
}

func pageResponse[T any](page query.Page[T], collectionSize int) listResponse[T] {
	return listResponse[T]{
		Items:          page.Items,
		Page:           page.Number,
		TotalPages:     page.TotalPages,
		TotalItems:     page.TotalItems,
		CollectionSize: collectionSize,
	}
}

func parseOptionalParentID(r *http.Request, param string) (*uint, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q", ErrBadRequest, param, raw)
	}

	parent := uint(id)

	return &parent, nil
}
