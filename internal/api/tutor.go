package api

import (
	"net/http"

	"apostila-ai/backend/internal/models"
	"apostila-ai/backend/internal/service"
	"apostila-ai/backend/pkg/logger"
	"apostila-ai/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// TutorHandler serves the logged question flow of the study page
type TutorHandler struct {
	service  *service.TutorService
	defaults models.Identity
}

// NewTutorHandler creates a new tutor handler
func NewTutorHandler(service *service.TutorService, defaults models.Identity) *TutorHandler {
	return &TutorHandler{service: service, defaults: defaults}
}

// RegisterRoutes registers the tutor route behind the given middleware
func (h *TutorHandler) RegisterRoutes(r gin.IRoutes, mw ...gin.HandlerFunc) {
	r.POST("/tutor", append(mw, h.Ask)...)
}

// Ask handles POST /api/tutor
func (h *TutorHandler) Ask(c *gin.Context) {
	var req models.TutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, service.MsgTutorMessageRequired))
		return
	}

	identity := middleware.IdentityFromContext(c, h.defaults)
	logger.FromContext(c).WithUserID(identity.Email).Info("tutor question", "type", req.Type)

	resp, err := h.service.Ask(c.Request.Context(), identity, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
