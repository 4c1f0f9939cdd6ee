package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid input", Invalid("bad %s", "field"), http.StatusBadRequest},
		{"conflict", Conflict("occupied"), http.StatusBadRequest},
		{"not found", NotFound("Table %d cannot be found.", 3), http.StatusNotFound},
		{"method not allowed", MethodNotAllowed("nope"), http.StatusMethodNotAllowed},
		{"wrapped conflict", fmt.Errorf("seat: %w", Conflict("occupied")), http.StatusBadRequest},
		{"unclassified", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Table 3 cannot be found.", PublicMessage(NotFound("Table %d cannot be found.", 3)))
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("pq: password authentication failed")))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("x")))
	assert.True(t, Is(fmt.Errorf("wrap: %w", Invalid("x")), KindInvalid))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "internal", Kind(0).String())
}
