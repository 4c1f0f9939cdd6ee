package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/reservations-api/services"
)

// TableController serves the /tables routes
type TableController struct {
	service *services.TableService
}

func NewTableController(service *services.TableService) *TableController {
	return &TableController{service: service}
}

// List handles GET /tables
func (tc *TableController) List(c *gin.Context) {
	tables, err := tc.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tables)
}

// Get handles GET /tables/:table_id
func (tc *TableController) Get(c *gin.Context) {
	id, err := parseID(c, "table_id", "Table")
	if err != nil {
		respondError(c, err)
		return
	}

	table, err := tc.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, table)
}

// Create handles POST /tables
func (tc *TableController) Create(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	table, err := tc.service.Create(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, table)
}

// Update handles PUT /tables/:table_id
func (tc *TableController) Update(c *gin.Context) {
	id, err := parseID(c, "table_id", "Table")
	if err != nil {
		respondError(c, err)
		return
	}
	// a missing record is reported before anything about the body
	if _, err := tc.service.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	table, err := tc.service.Update(c.Request.Context(), id, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, table)
}

// Delete handles DELETE /tables/:table_id
func (tc *TableController) Delete(c *gin.Context) {
	id, err := parseID(c, "table_id", "Table")
	if err != nil {
		respondError(c, err)
		return
	}

	table, err := tc.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, table)
}

// Seat handles PUT /tables/:table_id/seat
func (tc *TableController) Seat(c *gin.Context) {
	id, err := parseID(c, "table_id", "Table")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := tc.service.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	table, err := tc.service.Seat(c.Request.Context(), id, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, table)
}

// Unseat handles DELETE /tables/:table_id/seat
func (tc *TableController) Unseat(c *gin.Context) {
	id, err := parseID(c, "table_id", "Table")
	if err != nil {
		respondError(c, err)
		return
	}

	table, err := tc.service.Unseat(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, table)
}
