package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/service"
	"github.com/mandapam/portal/pkg/auth"
)

// @title Mandapam Registration Portal API
// @version 1.0
// @description Event registration, payment confirmation and QR check-in.

// @BasePath /api/v1

// @securityDefinitions.apikey StaffAuth
// @in header
// @name Authorization

type Handler struct {
	services     *service.Services
	tokenManager auth.TokenManager
	config       *config.Config
}

func NewHandler(
	services *service.Services,
	tokenManager auth.TokenManager,
	config *config.Config,
) *Handler {
	return &Handler{
		services:     services,
		tokenManager: tokenManager,
		config:       config,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")

	h.initEventsRoutes(v1)
	h.initAssociationsRoutes(v1)
	h.initSessionsRoutes(v1)
	h.initAdminRoutes(v1)
}
