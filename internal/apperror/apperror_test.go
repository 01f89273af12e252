package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("title", "title is required"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("login required"), http.StatusUnauthorized},
		{"not found", NotFound("recipe not found"), http.StatusNotFound},
		{"conflict", Conflict("username taken"), http.StatusConflict},
		{"rate limited", RateLimited("slow down"), http.StatusTooManyRequests},
		{"upstream", Upstream("catalog unavailable", errors.New("dial tcp")), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("resolve: %w", NotFound("recipe not found")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestUpstreamKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("catalog request failed", cause)

	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "catalog request failed", PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPublicMessageHidesUnclassified(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: relation does not exist")))
	assert.Equal(t, "Recipe not found", PublicMessage(NotFound("Recipe not found")))
}
