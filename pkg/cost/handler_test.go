package cost

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) *mux.Router {
	service := setupService(t, stubContent{dates: map[datekey.DateKey]bool{"2025-03-10": true}})
	handler := NewHandler(service)
	router := mux.NewRouter()
	router.HandleFunc("/api/costs/{date}", handler.GetCosts).Methods("GET")
	router.HandleFunc("/api/costs/{date}", handler.PutCosts).Methods("PUT")
	return router
}

func TestHandler_PutAndGetCosts(t *testing.T) {
	// given
	router := setupHandlerTest(t)
	body := `{"schemeA":{"name":"方案A","rows":[{"category":"住","note":"","amount":"3,500"}]},"schemeB":{"name":"","rows":[]}}`
	req := httptest.NewRequest(http.MethodPut, "/api/costs/2025-03-10", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// when
	req = httptest.NewRequest(http.MethodGet, "/api/costs/2025-03-10", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	var dto RecordDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, "3,500", dto.SchemeA.Total)
	assert.JSONEq(t, "3500", string(dto.SchemeA.Rows[0].Amount))
	assert.Equal(t, "3,500", dto.SchemeA.Rows[0].FormattedAmount)
	assert.Equal(t, DefaultSchemeBName, dto.SchemeB.Name)
	assert.Equal(t, "0", dto.SchemeB.Total)
}

func TestHandler_PutAcceptsNumericAmounts(t *testing.T) {
	// given
	router := setupHandlerTest(t)
	body := `{"schemeA":{"rows":[{"category":"住","amount":3500},{"category":"行","amount":120.5}]},"schemeB":{"rows":[{"category":"食","amount":"1e400"}]}}`
	req := httptest.NewRequest(http.MethodPut, "/api/costs/2025-03-10", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	// when
	router.ServeHTTP(w, req)

	// then
	require.Equal(t, http.StatusOK, w.Code)
	var dto RecordDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, "3,620.5", dto.SchemeA.Total)
	assert.Equal(t, "0", dto.SchemeB.Total)
}

func TestHandler_PutWithoutItineraryIsConflict(t *testing.T) {
	router := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodPut, "/api/costs/2025-03-11", bytes.NewBufferString(`{"schemeA":{"rows":[]},"schemeB":{"rows":[]}}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	var errResponse struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
	assert.Equal(t, NoItineraryNotice, errResponse.Error)
}

func TestHandler_PutRejectsUnknownCategory(t *testing.T) {
	router := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodPut, "/api/costs/2025-03-10", bytes.NewBufferString(`{"schemeA":{"rows":[{"category":"food","amount":"1"}]}}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_InvalidDate(t *testing.T) {
	router := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/costs/tomorrow", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
