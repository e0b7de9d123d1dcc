package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mandapam/portal/internal/service"
)

func (h *Handler) initEventsRoutes(api *gin.RouterGroup) {
	events := api.Group("/events/:id")
	{
		events.GET("", h.getEvent)
		events.GET("/exhibitors", h.getExhibitors)
		events.GET("/registration-status", h.getRegistrationStatus)
		events.POST("/sessions", h.openPublicSession)
	}
}

// @Summary Get event
// @Tags Events
// @Description Event details including the registration fee
// @ModuleID getEvent
// @Produce  json
// @Param id path int true "Event ID"
// @Success 200 {object} domain.Event
// @Failure 400 {object} ErrorStruct
// @Failure 404 {object} ErrorStruct
// @Failure 502 {object} ErrorStruct
// @Router /events/{id} [get]
func (h *Handler) getEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	event, err := h.services.Events.Get(c.Request.Context(), id)
	if err != nil {
		failWith(c, "get event", err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// @Summary List exhibitors
// @Tags Events
// @ModuleID getExhibitors
// @Produce  json
// @Param id path int true "Event ID"
// @Success 200 {array} domain.Exhibitor
// @Failure 400 {object} ErrorStruct
// @Failure 502 {object} ErrorStruct
// @Router /events/{id}/exhibitors [get]
func (h *Handler) getExhibitors(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	exhibitors, err := h.services.Events.Exhibitors(c.Request.Context(), id)
	if err != nil {
		failWith(c, "list exhibitors", err)
		return
	}

	c.JSON(http.StatusOK, exhibitors)
}

type registrationStatusQuery struct {
	Phone    string `form:"phone" binding:"required,phone10"`
	Explicit bool   `form:"explicit"`
}

// @Summary Registration status by phone
// @Tags Events
// @Description Whether a phone is already registered for the event. With explicit=true
// @Description a failed lookup is reported instead of being treated as not registered.
// @ModuleID getRegistrationStatus
// @Produce  json
// @Param id path int true "Event ID"
// @Param phone query string true "10-digit phone"
// @Param explicit query bool false "Report lookup failures"
// @Success 200 {object} probe.Status
// @Failure 400 {object} ValidationErrorStruct
// @Failure 502 {object} ErrorStruct
// @Router /events/{id}/registration-status [get]
func (h *Handler) getRegistrationStatus(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var q registrationStatusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		validationErrorResponse(c, err)
		return
	}

	status, err := h.services.Registrations.Status(c.Request.Context(), id, q.Phone, q.Explicit)
	if err != nil {
		failWith(c, "registration status", err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// @Summary Open registration session
// @Tags Registration
// @Description Starts a self-registration form for the event
// @ModuleID openPublicSession
// @Produce  json
// @Param id path int true "Event ID"
// @Success 201 {object} service.SessionView
// @Failure 400 {object} ErrorStruct
// @Failure 404 {object} ErrorStruct
// @Router /events/{id}/sessions [post]
func (h *Handler) openPublicSession(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	view, err := h.services.Registrations.NewSession(c.Request.Context(), service.FlowPublic, id, "")
	if err != nil {
		failWith(c, "open session", err)
		return
	}

	c.JSON(http.StatusCreated, view)
}
