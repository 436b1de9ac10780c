package server_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tonelero/pkg/model"
	"tonelero/pkg/server"
)

type LoteServerTestSuite struct {
	suite.Suite
	lotes   *fakeLoteRepo
	toneles *fakeTonelRepo
	api     http.Handler
}

func TestLoteServerTestSuite(t *testing.T) {
	suite.Run(t, new(LoteServerTestSuite))
}

func (suite *LoteServerTestSuite) SetupTest() {
	salida := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	suite.toneles = newFakeTonelRepo(
		newTonel(1, "TON-001", model.TonelLleno, "produccion"),
		newTonel(2, "TON-002", model.TonelVacio, "bodega"),
	)
	suite.lotes = newFakeLoteRepo(
		model.LoteProduccion{
			TonelID:  1,
			LoteName: "lote enero",
			Style:    model.LoteCristal,
			Volumen:  45,
			Status:   model.LoteCompletado,
			EntProd:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			SalProd:  &salida,
		},
		model.LoteProduccion{
			TonelID:  1,
			LoteName: "lote marzo",
			Style:    model.LoteBucanero,
			Volumen:  45,
			Status:   model.LoteFermentando,
			EntProd:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	)

	logger, _ := newObservedLogger()
	suite.api = newAPI(server.NewLoteServer(suite.lotes, suite.toneles, logger))
}

func (suite *LoteServerTestSuite) TestList_FiltersByTonel() {
	response := doRequest(suite.api, http.MethodGet, "/api/lotes?idtonel=1", nil)
	suite.Equal(http.StatusOK, response.Code)

	body, err := decodeBody[tonelListBody](response)
	suite.Require().NoError(err)
	suite.Len(body.Items, 2)
}

func (suite *LoteServerTestSuite) TestList_FiltersByStatus() {
	response := doRequest(suite.api, http.MethodGet, "/api/lotes?status=fermentando", nil)

	body, err := decodeBody[tonelListBody](response)
	suite.Require().NoError(err)
	suite.Require().Len(body.Items, 1)
	suite.Equal("lote marzo", body.Items[0]["lotename"])
}

func (suite *LoteServerTestSuite) TestCreate_RequiresExistingTonel() {
	form := map[string]any{"idtonel": 99, "lotename": "lote abril", "style": "cristal", "volumen": 40.0}

	response := doRequest(suite.api, http.MethodPost, "/api/lotes", form)
	suite.Equal(http.StatusNotFound, response.Code)
}

func (suite *LoteServerTestSuite) TestCreate_RequiresTonelID() {
	form := map[string]any{"lotename": "lote abril", "style": "cristal", "volumen": 40.0}

	response := doRequest(suite.api, http.MethodPost, "/api/lotes", form)
	suite.Equal(http.StatusBadRequest, response.Code)
}

func (suite *LoteServerTestSuite) TestCreate_DefaultsToPlaneado() {
	form := map[string]any{"idtonel": 2, "lotename": "lote abril", "style": "cristal", "volumen": 40.0}

	response := doRequest(suite.api, http.MethodPost, "/api/lotes", form)
	suite.Equal(http.StatusCreated, response.Code)

	body, err := decodeBody[map[string]any](response)
	suite.Require().NoError(err)
	suite.Equal("planeado", body["status"])
	suite.NotEmpty(body["entprod"])
}

func (suite *LoteServerTestSuite) TestCreate_RejectsSecondActiveLote() {
	form := map[string]any{"idtonel": 1, "lotename": "lote abril", "style": "cristal", "volumen": 40.0}

	response := doRequest(suite.api, http.MethodPost, "/api/lotes", form)
	suite.Equal(http.StatusConflict, response.Code)
}

func (suite *LoteServerTestSuite) TestCreate_RejectsSalProdWhileActive() {
	form := map[string]any{
		"idtonel":  2,
		"lotename": "lote abril",
		"style":    "cristal",
		"volumen":  40.0,
		"status":   "fermentando",
		"salprod":  "2024-04-01T00:00:00Z",
	}

	response := doRequest(suite.api, http.MethodPost, "/api/lotes", form)
	suite.Equal(http.StatusBadRequest, response.Code)
}

func (suite *LoteServerTestSuite) TestCreate_RequiresSalProdWhenPackaged() {
	form := map[string]any{
		"idtonel":  2,
		"lotename": "lote abril",
		"style":    "cristal",
		"volumen":  40.0,
		"status":   "listo para envasar",
		"entprod":  "2024-03-01T00:00:00Z",
	}

	response := doRequest(suite.api, http.MethodPost, "/api/lotes", form)
	suite.Equal(http.StatusBadRequest, response.Code)
}

func (suite *LoteServerTestSuite) TestUpdate_OwningTonelIsImmutable() {
	form := map[string]any{
		"idtonel":  2,
		"lotename": "lote marzo",
		"style":    "bucanero",
		"volumen":  45.0,
		"status":   "fermentando",
		"entprod":  "2024-03-01T00:00:00Z",
	}

	response := doRequest(suite.api, http.MethodPut, "/api/lotes/2", form)
	suite.Equal(http.StatusConflict, response.Code)

	suite.Equal(uint(1), suite.lotes.lotes[2].TonelID)
}

func (suite *LoteServerTestSuite) TestUpdate_AdvancesStatus() {
	form := map[string]any{
		"idtonel":  1,
		"lotename": "lote marzo",
		"style":    "bucanero",
		"volumen":  45.0,
		"status":   "listo para envasar",
		"entprod":  "2024-03-01T00:00:00Z",
		"salprod":  "2024-04-01T00:00:00Z",
	}

	response := doRequest(suite.api, http.MethodPut, "/api/lotes/2", form)
	suite.Equal(http.StatusOK, response.Code)

	body, err := decodeBody[map[string]any](response)
	suite.Require().NoError(err)
	suite.Equal("listo para envasar", body["status"])
	suite.NotEmpty(body["salprod"])
}

func (suite *LoteServerTestSuite) TestUpdate_PartialPayloadKeepsStatusAndSalProd() {
	form := map[string]any{"lotename": "lote enero rev"}

	response := doRequest(suite.api, http.MethodPut, "/api/lotes/1", form)
	suite.Equal(http.StatusOK, response.Code)

	body, err := decodeBody[map[string]any](response)
	suite.Require().NoError(err)
	suite.Equal("lote enero rev", body["lotename"])
	suite.Equal("completado", body["status"])
	suite.NotEmpty(body["salprod"])
	suite.EqualValues(45, body["volumen"])
}

func (suite *LoteServerTestSuite) TestUpdate_ReturnToActiveClearsSalProd() {
	salida := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	suite.lotes.lotes[2].Status = model.LoteListoParaEnvasar
	suite.lotes.lotes[2].SalProd = &salida

	form := map[string]any{"status": "fermentando"}

	response := doRequest(suite.api, http.MethodPut, "/api/lotes/2", form)
	suite.Equal(http.StatusOK, response.Code)

	body, err := decodeBody[map[string]any](response)
	suite.Require().NoError(err)
	suite.Equal("fermentando", body["status"])
	suite.NotContains(body, "salprod")
}

func (suite *LoteServerTestSuite) TestDelete_NotFound() {
	response := doRequest(suite.api, http.MethodDelete, "/api/lotes/99", nil)
	suite.Equal(http.StatusNotFound, response.Code)
}
