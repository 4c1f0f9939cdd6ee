package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/kendall-kelly/reservations-api/apperrors"
	"github.com/kendall-kelly/reservations-api/metrics"
	"github.com/kendall-kelly/reservations-api/middleware"
	"github.com/kendall-kelly/reservations-api/utils"
	"github.com/kendall-kelly/reservations-api/validation"
)

func init() {
	// payload numbers stay json.Number so "2" and 2.5 can be told apart from 2
	binding.EnableDecoderUseNumber = true
}

// envelope is the shape of every request body: {"data": {...}}
type envelope struct {
	Data validation.Payload `json:"data"`
}

// bindPayload reads the request's data object. A missing body or missing
// data key yields an empty payload so required-field checks report it.
func bindPayload(c *gin.Context) (validation.Payload, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return validation.Payload{}, nil
	}
	var body envelope
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return validation.Payload{}, nil
		}
		return nil, apperrors.Invalid("Request body must be a JSON object with a data property.")
	}
	if body.Data == nil {
		return validation.Payload{}, nil
	}
	return body.Data, nil
}

// parseID reads a numeric path parameter. Anything that is not a positive
// integer cannot name a record, so it is reported as not found.
func parseID(c *gin.Context, param, entity string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NotFound("%s %s cannot be found.", entity, raw)
	}
	return uint(id), nil
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// respondError writes {"error": message} with the status matching err's kind.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		utils.Logger.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("Request failed with internal error")
	} else {
		metrics.IncRejection(apperrors.KindOf(err).String())
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}
