package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/reservations-api/services"
)

// ReservationController serves the /reservations routes
type ReservationController struct {
	service *services.ReservationService
}

func NewReservationController(service *services.ReservationService) *ReservationController {
	return &ReservationController{service: service}
}

// List handles GET /reservations?date=&mobile_number=
func (rc *ReservationController) List(c *gin.Context) {
	reservations, err := rc.service.List(c.Request.Context(), services.ReservationQuery{
		Date:         c.Query("date"),
		MobileNumber: c.Query("mobile_number"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, reservations)
}

// Get handles GET /reservations/:reservation_id
func (rc *ReservationController) Get(c *gin.Context) {
	id, err := parseID(c, "reservation_id", "Reservation")
	if err != nil {
		respondError(c, err)
		return
	}

	reservation, err := rc.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, reservation)
}

// Create handles POST /reservations
func (rc *ReservationController) Create(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	reservation, err := rc.service.Create(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, reservation)
}

// Update handles PUT /reservations/:reservation_id
func (rc *ReservationController) Update(c *gin.Context) {
	id, err := parseID(c, "reservation_id", "Reservation")
	if err != nil {
		respondError(c, err)
		return
	}
	// a missing record is reported before anything about the body
	if _, err := rc.service.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	reservation, err := rc.service.Update(c.Request.Context(), id, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, reservation)
}

// UpdateStatus handles PUT /reservations/:reservation_id/status
func (rc *ReservationController) UpdateStatus(c *gin.Context) {
	id, err := parseID(c, "reservation_id", "Reservation")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := rc.service.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	reservation, err := rc.service.UpdateStatus(c.Request.Context(), id, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, reservation)
}
