package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tonelero/pkg/model"
	"tonelero/pkg/report"
	"tonelero/pkg/repository"
)

const rankingSize = 5

// reportRepository is the read-only slice of the repository the dashboards
// need.
type reportRepository interface {
	GetToneles(ctx context.Context) ([]*model.Tonel, error)
	GetDispensadores(ctx context.Context) ([]*model.Dispensador, error)
	GetLotes(ctx context.Context, tonelID *uint) ([]*model.LoteProduccion, error)
	GetMttosTonel(ctx context.Context, tonelID *uint) ([]*model.MttoTonel, error)
	GetMttosDispensador(ctx context.Context, dispensadorID *uint) ([]*model.MttoDispensador, error)
}

var _ reportRepository = (*repository.Repository)(nil)

type ReportServer struct {
	repo   reportRepository
	logger *zap.Logger
}

func NewReportServer(repo reportRepository, logger *zap.Logger) *ReportServer {
	return &ReportServer{repo: repo, logger: logger}
}

func (s *ReportServer) Routes(api chi.Router) {
	api.Route("/reports", func(r chi.Router) {
		r.Get("/toneles", s.toneles)
		r.Get("/dispenser", s.dispensadores)
		r.Get("/lotes", s.lotes)
		r.Get("/mttotonel", s.mttosTonel)
		r.Get("/mttodispenser", s.mttosDispensador)
	})
}

func deref[T any](items []*T) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		result = append(result, *item)
	}

	return result
}

type tonelReportResponse struct {
	ByStatus         []report.StatusCount         `json:"byStatus"`
	ByStatusLocation []report.StatusLocationCount `json:"byStatusLocation"`
	Total            int                          `json:"total"`
}

func (s *ReportServer) toneles(w http.ResponseWriter, r *http.Request) {
	toneles, err := s.repo.GetToneles(r.Context())
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := deref(toneles)

	writeJSON(w, http.StatusOK, tonelReportResponse{
		ByStatus:         report.CountTonelesByStatus(rows),
		ByStatusLocation: report.CountTonelesByStatusLocation(rows),
		Total:            len(rows),
	})
}

func (s *ReportServer) dispensadores(w http.ResponseWriter, r *http.Request) {
	dispensadores, err := s.repo.GetDispensadores(r.Context())
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := deref(dispensadores)

	writeJSON(w, http.StatusOK, tonelReportResponse{
		ByStatus:         report.CountDispensadoresByStatus(rows),
		ByStatusLocation: report.CountDispensadoresByStatusLocation(rows),
		Total:            len(rows),
	})
}

type loteReportRow struct {
	IDLote   uint       `json:"idlote"`
	IDTonel  uint       `json:"idtonel"`
	NSerial  string     `json:"nserial"`
	LoteName string     `json:"lotename"`
	Style    string     `json:"style"`
	Volumen  float64    `json:"volumen"`
	Status   string     `json:"status"`
	EntProd  time.Time  `json:"entprod"`
	SalProd  *time.Time `json:"salprod,omitempty"`
}

// lotes reports every production lote joined with its tonel's serial, the
// flat view behind the production history dashboard.
func (s *ReportServer) lotes(w http.ResponseWriter, r *http.Request) {
	lotes, err := s.repo.GetLotes(r.Context(), nil)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	toneles, err := s.repo.GetToneles(r.Context())
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	joined := report.JoinLotesConTonel(deref(lotes), deref(toneles))

	rows := make([]loteReportRow, 0, len(joined))
	for _, row := range joined {
		rows = append(rows, loteReportRow{
			IDLote:   row.Lote.ID,
			IDTonel:  row.Lote.TonelID,
			NSerial:  row.NSerial,
			LoteName: row.Lote.LoteName,
			Style:    string(row.Lote.Style),
			Volumen:  row.Lote.Volumen,
			Status:   string(row.Lote.Status),
			EntProd:  row.Lote.EntProd,
			SalProd:  row.Lote.SalProd,
		})
	}

	writeJSON(w, http.StatusOK, rows)
}

type mttoReportResponse struct {
	Top     []report.MttoRanking    `json:"top"`
	ByTipo  map[uint]map[string]int `json:"byTipo"`
	ByFecha map[uint]map[string]int `json:"byFecha"`
	Total   int                     `json:"total"`
}

func (s *ReportServer) mttosTonel(w http.ResponseWriter, r *http.Request) {
	mttos, err := s.repo.GetMttosTonel(r.Context(), nil)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	toneles, err := s.repo.GetToneles(r.Context())
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := deref(mttos)

	writeJSON(w, http.StatusOK, mttoReportResponse{
		Top:     report.TopTonelesByMtto(rows, deref(toneles), rankingSize),
		ByTipo:  report.MttoTonelByTipo(rows),
		ByFecha: report.MttoTonelByFecha(rows),
		Total:   len(rows),
	})
}

func (s *ReportServer) mttosDispensador(w http.ResponseWriter, r *http.Request) {
	mttos, err := s.repo.GetMttosDispensador(r.Context(), nil)
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	dispensadores, err := s.repo.GetDispensadores(r.Context())
	if err != nil {
		respondError(w, s.logger, err)

		return
	}

	rows := deref(mttos)

	writeJSON(w, http.StatusOK, mttoReportResponse{
		Top:     report.TopDispensadoresByMtto(rows, deref(dispensadores), rankingSize),
		ByTipo:  report.MttoDispensadorByTipo(rows),
		ByFecha: report.MttoDispensadorByFecha(rows),
		Total:   len(rows),
	})
}
