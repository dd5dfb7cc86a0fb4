package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/csv1099/backend/src/config"
	"github.com/username/csv1099/backend/src/logger"
	"github.com/username/csv1099/backend/src/services"
)

func TestMain(m *testing.M) {
	config.LoadConfig()
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const fidelityPage = "FORM 1099-B\n2024 TAX REPORTING STATEMENT\n" +
	"FIDELITY BROKERAGE SERVICES LLC\n" +
	"Short-term transactions for which basis is reported to the IRS\n" +
	"1a Description of property\n" +
	"ALIBABA GROUP HOLDING LTD,BABA,01609W102\n" +
	"Sale 10.000 01/05/24 06/10/24 1500.00 1200.00 300.00\n"

func newTestHandler() *ConvertHandler {
	svc := services.NewConvertService(cache.New(time.Minute, time.Minute))
	return NewConvertHandler(svc)
}

func postConvert(t *testing.T, h *ConvertHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.HandleConvert(rr, req)
	return rr
}

func TestHandleConvertInvalidJSON(t *testing.T) {
	rr := postConvert(t, newTestHandler(), []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid request body")
}

func TestHandleConvertEmptyDocument(t *testing.T) {
	body, _ := json.Marshal(ConvertRequest{Pages: nil})
	rr := postConvert(t, newTestHandler(), body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleConvertUnknownBroker(t *testing.T) {
	body, _ := json.Marshal(ConvertRequest{Pages: []string{"an unbranded page"}})
	rr := postConvert(t, newTestHandler(), body)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Could not detect a supported broker")
}

func TestHandleConvertTooManyPages(t *testing.T) {
	pages := make([]string, config.Cfg.MaxPagesPerDoc+1)
	body, _ := json.Marshal(ConvertRequest{Pages: pages})
	rr := postConvert(t, newTestHandler(), body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "page limit")
}

func TestHandleConvertSuccess(t *testing.T) {
	body, _ := json.Marshal(ConvertRequest{Pages: []string{fidelityPage}})
	rr := postConvert(t, newTestHandler(), body)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var result services.ConversionResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Fidelity", result.BrokerName)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "ALIBABA GROUP HOLDING LTD", result.Transactions[0].Description)
	assert.Equal(t, 1, result.Summary.TotalTransactions)
}

func TestHandleDownloadCSV(t *testing.T) {
	h := newTestHandler()

	body, _ := json.Marshal(ConvertRequest{Pages: []string{fidelityPage}})
	rr := postConvert(t, h, body)
	require.Equal(t, http.StatusOK, rr.Code)

	var result services.ConversionResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/convert/{id}/csv", h.HandleDownloadCSV)

	req := httptest.NewRequest(http.MethodGet, "/api/convert/"+result.ID+"/csv", nil)
	dl := httptest.NewRecorder()
	mux.ServeHTTP(dl, req)

	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, "text/csv; charset=utf-8", dl.Header().Get("Content-Type"))
	assert.Contains(t, dl.Header().Get("Content-Disposition"), "1099_transactions.csv")
	assert.True(t, strings.HasPrefix(dl.Body.String(), "Description (1a),"))
	assert.Contains(t, dl.Body.String(), "01609W102")
}

func TestHandleDownloadCSVNotFound(t *testing.T) {
	h := newTestHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/convert/{id}/csv", h.HandleDownloadCSV)

	req := httptest.NewRequest(http.MethodGet, "/api/convert/no-such-id/csv", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
