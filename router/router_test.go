package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/reservations-api/services"
	"github.com/kendall-kelly/reservations-api/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.GuardTestMain(m))
}

func setupRouter(t *testing.T, withManifests bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	st := testutil.NewTestStore(t)

	deps := Dependencies{
		Store:        st,
		Reservations: services.NewReservationService(st, testutil.Calendar(), nil),
		Tables:       services.NewTableService(st, nil),
		CORSOrigins:  []string{"*"},
	}
	if withManifests {
		deps.Manifests = services.NewManifestService(st, services.NewMockS3Service(), testutil.Calendar())
	}
	return SetupRouter(deps)
}

func serve(router *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req, _ := http.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func TestRoutesAreRegistered(t *testing.T) {
	router := setupRouter(t, true)

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{method: "GET", path: "/health", expectedStatus: http.StatusOK},
		{method: "GET", path: "/health/database", expectedStatus: http.StatusOK},
		{method: "GET", path: "/reservations", expectedStatus: http.StatusOK},
		{method: "POST", path: "/reservations", expectedStatus: http.StatusBadRequest},
		{method: "GET", path: "/reservations/1", expectedStatus: http.StatusNotFound},
		{method: "PUT", path: "/reservations/1", expectedStatus: http.StatusNotFound},
		{method: "PUT", path: "/reservations/1/status", expectedStatus: http.StatusNotFound},
		{method: "GET", path: "/tables", expectedStatus: http.StatusOK},
		{method: "POST", path: "/tables", expectedStatus: http.StatusBadRequest},
		{method: "GET", path: "/tables/1", expectedStatus: http.StatusNotFound},
		{method: "PUT", path: "/tables/1", expectedStatus: http.StatusNotFound},
		{method: "DELETE", path: "/tables/1", expectedStatus: http.StatusNotFound},
		{method: "PUT", path: "/tables/1/seat", expectedStatus: http.StatusNotFound},
		{method: "DELETE", path: "/tables/1/seat", expectedStatus: http.StatusNotFound},
		{method: "POST", path: "/manifests", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w, _ := serve(router, tt.method, tt.path)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestUnknownPath(t *testing.T) {
	router := setupRouter(t, false)

	w, response := serve(router, "GET", "/menu")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Path not found: /menu", response["error"])

	w, response = serve(router, "POST", "/manifests")
	assert.Equal(t, http.StatusNotFound, w.Code, "manifests are not routed without a bucket")
	assert.Equal(t, "Path not found: /manifests", response["error"])
}

func TestMethodNotAllowed(t *testing.T) {
	router := setupRouter(t, false)

	tests := []struct {
		method        string
		path          string
		expectedError string
	}{
		{method: "DELETE", path: "/reservations", expectedError: "DELETE not allowed for /reservations"},
		{method: "DELETE", path: "/reservations/1", expectedError: "DELETE not allowed for /reservations/1"},
		{method: "GET", path: "/reservations/1/status", expectedError: "GET not allowed for /reservations/1/status"},
		{method: "PUT", path: "/tables", expectedError: "PUT not allowed for /tables"},
		{method: "GET", path: "/tables/1/seat", expectedError: "GET not allowed for /tables/1/seat"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w, response := serve(router, tt.method, tt.path)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, tt.expectedError, response["error"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupRouter(t, false)
	serve(router, "GET", "/tables")

	req, _ := http.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "reservations_http_requests_total"))
}

func TestCORSPreflight(t *testing.T) {
	router := setupRouter(t, false)

	req, _ := http.NewRequest("OPTIONS", "/reservations", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
