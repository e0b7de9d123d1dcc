package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mandapam/portal/pkg/logger"
)

func (h *Handler) initAssociationsRoutes(api *gin.RouterGroup) {
	api.GET("/associations", h.getAssociations)
}

// @Summary Associations by city
// @Tags Associations
// @Description Candidate associations for the picker. A failed lookup still returns 200 with
// @Description state "error" because the selection is optional.
// @ModuleID getAssociations
// @Produce  json
// @Param city query string false "City"
// @Success 200 {object} association.View
// @Router /associations [get]
func (h *Handler) getAssociations(c *gin.Context) {
	view, err := h.services.Associations.Lookup(c.Request.Context(), c.Query("city"))
	if err != nil {
		logger.Warn("association lookup failed", zap.String("city", view.City), zap.Error(err))
	}

	c.JSON(http.StatusOK, view)
}
