package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)

	return zap.New(core), logs
}

type routable interface {
	Routes(api chi.Router)
}

// newAPI mounts a single resource server under /api the way the real router
// does.
func newAPI(servers ...routable) http.Handler {
	router := chi.NewRouter()

	router.Route("/api", func(api chi.Router) {
		for _, server := range servers {
			server.Routes(api)
		}
	})

	return router
}

func doRequest(handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader

	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, target, reader)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	return recorder
}

func decodeBody[T any](recorder *httptest.ResponseRecorder) (T, error) {
	var result T

	err := json.NewDecoder(recorder.Body).Decode(&result)

	return result, err
}
