package router

import (
	"net/http"

	"apostila-ai/backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

// AddOpenAPIValidation validates requests on group against the document at
// schemaPath and serves the document on /api/docs/openapi.json. A document
// that cannot be loaded is logged and validation stays off.
func (r *Router) AddOpenAPIValidation(group *gin.RouterGroup, schemaPath string) {
	v, err := validator.NewOpenAPIValidator(schemaPath)
	if err != nil {
		r.Logger.Error("Failed to initialize OpenAPI validator", "error", err, "path", schemaPath)
		return
	}

	r.Engine.GET("/api/docs/openapi.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, v.Document())
	})

	group.Use(v.Middleware())
	r.Logger.Info("OpenAPI validation enabled", "schema", schemaPath)
}
