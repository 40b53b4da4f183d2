package api

import (
	"errors"
	"net/http"

	"apostila-ai/backend/internal/models"
	"apostila-ai/backend/internal/service"
	apperrors "apostila-ai/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ExerciseHandler serves the exercise generator
type ExerciseHandler struct {
	service *service.ExerciseService
}

// NewExerciseHandler creates a new exercise handler
func NewExerciseHandler(service *service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

// RegisterRoutes registers the exercise route
func (h *ExerciseHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/exercises", h.Generate)
}

// Generate handles POST /api/exercises. The provider's JSON is written as received.
func (h *ExerciseHandler) Generate(c *gin.Context) {
	var req models.ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.Error(apperrors.NewClientInputError(service.MsgExerciseFieldsRequired).WithCause(err))
		} else {
			c.Error(service.ExerciseGenerationError(err))
		}
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result.Body)
}
