// Package router wires controllers and middleware into a gin engine.
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/reservations-api/apperrors"
	"github.com/kendall-kelly/reservations-api/controllers"
	"github.com/kendall-kelly/reservations-api/metrics"
	"github.com/kendall-kelly/reservations-api/middleware"
	"github.com/kendall-kelly/reservations-api/services"
	"github.com/kendall-kelly/reservations-api/store"
)

// Dependencies are the services the HTTP surface is built from.
// Manifests may be nil, in which case POST /manifests is not registered.
type Dependencies struct {
	Store        store.Store
	Reservations *services.ReservationService
	Tables       *services.TableService
	Manifests    *services.ManifestService
	CORSOrigins  []string
}

// SetupRouter builds the engine serving every route.
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(deps.CORSOrigins))

	health := controllers.NewHealthController(deps.Store)
	router.GET("/health", health.Health)
	router.GET("/health/database", health.Database)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	reservations := controllers.NewReservationController(deps.Reservations)
	r := router.Group("/reservations")
	{
		r.GET("", reservations.List)
		r.POST("", reservations.Create)
		r.GET("/:reservation_id", reservations.Get)
		r.PUT("/:reservation_id", reservations.Update)
		r.PUT("/:reservation_id/status", reservations.UpdateStatus)
	}

	tables := controllers.NewTableController(deps.Tables)
	t := router.Group("/tables")
	{
		t.GET("", tables.List)
		t.POST("", tables.Create)
		t.GET("/:table_id", tables.Get)
		t.PUT("/:table_id", tables.Update)
		t.DELETE("/:table_id", tables.Delete)
		t.PUT("/:table_id/seat", tables.Seat)
		t.DELETE("/:table_id/seat", tables.Unseat)
	}

	if deps.Manifests != nil {
		manifests := controllers.NewManifestController(deps.Manifests)
		router.POST("/manifests", manifests.Export)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Path not found: %s", c.Request.URL.Path)})
	})
	router.NoMethod(func(c *gin.Context) {
		err := apperrors.MethodNotAllowed("%s not allowed for %s", c.Request.Method, c.Request.URL.Path)
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
	})

	return router
}
