package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/reservations-api/services"
)

// ManifestController serves POST /manifests
type ManifestController struct {
	service *services.ManifestService
}

func NewManifestController(service *services.ManifestService) *ManifestController {
	return &ManifestController{service: service}
}

// Export builds the day's manifest, uploads it and returns where to fetch it
func (mc *ManifestController) Export(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	export, err := mc.service.Export(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, export)
}
