package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/types"
)

// HealthCheck answers the liveness probe
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "I'm alive")
}

// MessageResponse is the body of endpoints that only report an outcome.
type MessageResponse struct {
	Message  string `json:"message"`
	Success  bool   `json:"success"`
	Redirect string `json:"redirect,omitempty"`
}

// bindJSON decodes the body into obj and reports failures as validation
// errors.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.Validation(verrs[0].Field(), "Invalid or missing mandatory fields")
	}
	return apperror.Validation("", "Invalid request body")
}

// recipeRef reads :recipeId and the source selector. The body source, when
// present, wins over the query string.
func recipeRef(c *gin.Context, bodySource string) (types.RecipeRef, error) {
	id, err := types.ParseRecipeID(c.Param("recipeId"))
	if err != nil {
		return types.RecipeRef{}, err
	}
	source := bodySource
	if source == "" {
		source = c.Query("source")
	}
	return types.RecipeRef{ID: id, Source: types.ParseSource(source)}, nil
}

// splitList reads a comma-separated query value.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
