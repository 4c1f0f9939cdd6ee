package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/reservations-api/events"
	"github.com/kendall-kelly/reservations-api/services"
	"github.com/kendall-kelly/reservations-api/store"
	"github.com/kendall-kelly/reservations-api/testutil"
)

type testApp struct {
	router       *gin.Engine
	store        *store.GormStore
	reservations *services.ReservationService
	tables       *services.TableService
	storage      *services.MockS3Service
	recorder     *events.Recorder
}

func setupTestApp(t *testing.T) *testApp {
	gin.SetMode(gin.TestMode)

	app := &testApp{
		store:    testutil.NewTestStore(t),
		storage:  services.NewMockS3Service(),
		recorder: &events.Recorder{},
	}
	app.reservations = services.NewReservationService(app.store, testutil.Calendar(), app.recorder)
	app.tables = services.NewTableService(app.store, app.recorder)

	rc := NewReservationController(app.reservations)
	tc := NewTableController(app.tables)
	mc := NewManifestController(services.NewManifestService(app.store, app.storage, testutil.Calendar()))
	hc := NewHealthController(app.store)

	router := gin.New()
	router.GET("/health", hc.Health)
	router.GET("/health/database", hc.Database)
	router.GET("/reservations", rc.List)
	router.POST("/reservations", rc.Create)
	router.GET("/reservations/:reservation_id", rc.Get)
	router.PUT("/reservations/:reservation_id", rc.Update)
	router.PUT("/reservations/:reservation_id/status", rc.UpdateStatus)
	router.GET("/tables", tc.List)
	router.POST("/tables", tc.Create)
	router.GET("/tables/:table_id", tc.Get)
	router.PUT("/tables/:table_id", tc.Update)
	router.DELETE("/tables/:table_id", tc.Delete)
	router.PUT("/tables/:table_id/seat", tc.Seat)
	router.DELETE("/tables/:table_id/seat", tc.Unseat)
	router.POST("/manifests", mc.Export)
	app.router = router

	return app
}

// do sends body wrapped as {"data": body}; a nil body sends no payload.
func (app *testApp) do(t *testing.T, method, path string, body map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(map[string]interface{}{"data": body})
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response should be valid JSON")
	}
	return w.Code, response
}

func reservationBody(date, at string, people int) map[string]interface{} {
	return map[string]interface{}{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"mobile_number":    "555-123-4567",
		"reservation_date": date,
		"reservation_time": at,
		"people":           people,
	}
}

func dataOf(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "response should carry a data object: %v", response)
	return data
}
