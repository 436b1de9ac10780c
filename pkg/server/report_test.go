package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tonelero/pkg/model"
	"tonelero/pkg/report"
	"tonelero/pkg/server"
)

type fakeReportRepo struct {
	toneles       *fakeTonelRepo
	dispensadores *fakeDispensadorRepo
	lotes         *fakeLoteRepo
	mttosTonel    *fakeMttoTonelRepo
	mttosDisp     *fakeMttoDispensadorRepo
}

func (f *fakeReportRepo) GetToneles(ctx context.Context) ([]*model.Tonel, error) {
	return f.toneles.GetToneles(ctx)
}

func (f *fakeReportRepo) GetDispensadores(ctx context.Context) ([]*model.Dispensador, error) {
	return f.dispensadores.GetDispensadores(ctx)
}

func (f *fakeReportRepo) GetLotes(ctx context.Context, tonelID *uint) ([]*model.LoteProduccion, error) {
	return f.lotes.GetLotes(ctx, tonelID)
}

func (f *fakeReportRepo) GetMttosTonel(ctx context.Context, tonelID *uint) ([]*model.MttoTonel, error) {
	return f.mttosTonel.GetMttosTonel(ctx, tonelID)
}

func (f *fakeReportRepo) GetMttosDispensador(ctx context.Context, dispensadorID *uint) ([]*model.MttoDispensador, error) {
	return f.mttosDisp.GetMttosDispensador(ctx, dispensadorID)
}

type ReportServerTestSuite struct {
	suite.Suite
	api http.Handler
}

func TestReportServerTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServerTestSuite))
}

func (suite *ReportServerTestSuite) SetupTest() {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeReportRepo{
		toneles: newFakeTonelRepo(
			newTonel(1, "TON-001", model.TonelVacio, "bodega"),
			newTonel(2, "TON-002", model.TonelVacio, "bodega"),
			newTonel(3, "TON-003", model.TonelLleno, "produccion"),
		),
		dispensadores: newFakeDispensadorRepo(
			model.Dispensador{NSerial: "DIS-001", Status: model.DispensadorAsignado, Location: "barra"},
		),
		lotes: newFakeLoteRepo(
			model.LoteProduccion{TonelID: 3, LoteName: "lote marzo", Style: model.LoteCristal, Volumen: 45, Status: model.LoteFermentando, EntProd: day},
			model.LoteProduccion{TonelID: 9, LoteName: "lote huerfano", Style: model.LoteCristal, Volumen: 45, Status: model.LoteFermentando, EntProd: day},
		),
		mttosTonel: newFakeMttoTonelRepo(
			model.MttoTonel{TonelID: 2, TipoMtto: model.MttoTonelInspeccion, FechaIni: day, Status: model.MttoProgramado},
			model.MttoTonel{TonelID: 2, TipoMtto: model.MttoTonelPruebaPresion, FechaIni: day, Status: model.MttoProgramado},
			model.MttoTonel{TonelID: 1, TipoMtto: model.MttoTonelInspeccion, FechaIni: day, Status: model.MttoProgramado},
		),
		mttosDisp: newFakeMttoDispensadorRepo(
			model.MttoDispensador{DispensadorID: 1, TipoMtto: model.MttoDispensadorSoldadura, FechaIni: day, Status: model.MttoProgramado},
		),
	}

	logger, _ := newObservedLogger()
	suite.api = newAPI(server.NewReportServer(repo, logger))
}

func (suite *ReportServerTestSuite) TestToneles_CountsByStatusAndLocation() {
	response := doRequest(suite.api, http.MethodGet, "/api/reports/toneles", nil)
	suite.Equal(http.StatusOK, response.Code)

	type reportBody struct {
		ByStatus         []report.StatusCount         `json:"byStatus"`
		ByStatusLocation []report.StatusLocationCount `json:"byStatusLocation"`
		Total            int                          `json:"total"`
	}

	body, err := decodeBody[reportBody](response)
	suite.Require().NoError(err)
	suite.Equal(3, body.Total)
	suite.Require().Len(body.ByStatus, 2)
	suite.Equal(report.StatusCount{Status: "vacio", Count: 2}, body.ByStatus[0])
	suite.Equal(report.StatusCount{Status: "lleno", Count: 1}, body.ByStatus[1])
	suite.Require().Len(body.ByStatusLocation, 2)
	suite.Equal("bodega", body.ByStatusLocation[0].Location)
}

func (suite *ReportServerTestSuite) TestDispensadores_CountsByStatus() {
	response := doRequest(suite.api, http.MethodGet, "/api/reports/dispenser", nil)
	suite.Equal(http.StatusOK, response.Code)

	body, err := decodeBody[map[string]any](response)
	suite.Require().NoError(err)
	suite.EqualValues(1, body["total"])
}

func (suite *ReportServerTestSuite) TestLotes_JoinsTonelSerial() {
	response := doRequest(suite.api, http.MethodGet, "/api/reports/lotes", nil)
	suite.Equal(http.StatusOK, response.Code)

	body, err := decodeBody[[]map[string]any](response)
	suite.Require().NoError(err)
	suite.Require().Len(body, 2)
	suite.Equal("TON-003", body[0]["nserial"])
	suite.Empty(body[1]["nserial"])
}

func (suite *ReportServerTestSuite) TestMttosTonel_RanksByTaskCount() {
	response := doRequest(suite.api, http.MethodGet, "/api/reports/mttotonel", nil)
	suite.Equal(http.StatusOK, response.Code)

	type mttoBody struct {
		Top     []report.MttoRanking    `json:"top"`
		ByTipo  map[uint]map[string]int `json:"byTipo"`
		ByFecha map[uint]map[string]int `json:"byFecha"`
		Total   int                     `json:"total"`
	}

	body, err := decodeBody[mttoBody](response)
	suite.Require().NoError(err)
	suite.Equal(3, body.Total)
	suite.Require().Len(body.Top, 3)
	suite.Equal(report.MttoRanking{ID: 2, NSerial: "TON-002", MttoCount: 2}, body.Top[0])
	suite.Equal(2, body.ByTipo[2]["inspeccion de rutina"]+body.ByTipo[2]["prueba de presion"])
	suite.Equal(3, body.ByFecha[1]["2024-06-01"]+body.ByFecha[2]["2024-06-01"])
}

func (suite *ReportServerTestSuite) TestMttosDispensador() {
	response := doRequest(suite.api, http.MethodGet, "/api/reports/mttodispenser", nil)
	suite.Equal(http.StatusOK, response.Code)

	body, err := decodeBody[map[string]any](response)
	suite.Require().NoError(err)
	suite.EqualValues(1, body["total"])
}
