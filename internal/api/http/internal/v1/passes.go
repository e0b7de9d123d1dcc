package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mandapam/portal/internal/pass"
)

type deliveryResponse struct {
	Status  pass.DeliveryStatus `json:"delivery_status"`
	Message string              `json:"delivery_message"`
}

// @Summary Download session pass
// @Tags Pass
// @Description Event pass PDF for the registration confirmed in this session
// @ModuleID downloadSessionPass
// @Produce  application/pdf
// @Param sid path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorStruct
// @Failure 409 {object} ErrorStruct
// @Router /sessions/{sid}/pass [get]
func (h *Handler) downloadSessionPass(c *gin.Context) {
	eventID, regID, err := h.services.Registrations.PassTarget(c.Request.Context(), c.Param("sid"))
	if err != nil {
		failWith(c, "download pass", err)
		return
	}

	h.writePass(c, eventID, regID)
}

// @Summary Resend session pass
// @Tags Pass
// @Description Queues WhatsApp re-delivery of the pass confirmed in this session
// @ModuleID resendSessionPass
// @Produce  json
// @Param sid path string true "Session ID"
// @Success 202 {object} deliveryResponse
// @Failure 404 {object} ErrorStruct
// @Failure 409 {object} ErrorStruct
// @Failure 503 {object} ErrorStruct
// @Router /sessions/{sid}/pass/resend [post]
func (h *Handler) resendSessionPass(c *gin.Context) {
	eventID, regID, err := h.services.Registrations.PassTarget(c.Request.Context(), c.Param("sid"))
	if err != nil {
		failWith(c, "resend pass", err)
		return
	}

	h.queueResend(c, eventID, regID)
}

// @Summary Download pass
// @Tags Admin
// @Description Event pass PDF for any registration
// @ModuleID downloadPass
// @Produce  application/pdf
// @Param id path int true "Event ID"
// @Param regId path int true "Registration ID"
// @Success 200 {file} binary
// @Failure 401
// @Failure 404 {object} ErrorStruct
// @Failure 409 {object} ErrorStruct
// @Security StaffAuth
// @Router /admin/events/{id}/registrations/{regId}/pass [get]
func (h *Handler) downloadPass(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	regID, ok := registrationID(c)
	if !ok {
		return
	}

	h.writePass(c, id, regID)
}

// @Summary Resend pass
// @Tags Admin
// @Description Queues WhatsApp re-delivery of the pass for any registration
// @ModuleID resendPass
// @Produce  json
// @Param id path int true "Event ID"
// @Param regId path int true "Registration ID"
// @Success 202 {object} deliveryResponse
// @Failure 401
// @Failure 503 {object} ErrorStruct
// @Security StaffAuth
// @Router /admin/events/{id}/registrations/{regId}/pass/resend [post]
func (h *Handler) resendPass(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	regID, ok := registrationID(c)
	if !ok {
		return
	}

	h.queueResend(c, id, regID)
}

func (h *Handler) writePass(c *gin.Context, eventID, regID int64) {
	p, err := h.services.Passes.Download(c.Request.Context(), eventID, regID)
	if err != nil {
		failWith(c, "download pass", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, p.Filename))
	c.Data(http.StatusOK, "application/pdf", p.Data)
}

func (h *Handler) queueResend(c *gin.Context, eventID, regID int64) {
	status, err := h.services.Passes.Resend(c.Request.Context(), eventID, regID)
	if err != nil {
		failWith(c, "resend pass", err)
		return
	}

	c.JSON(http.StatusAccepted, deliveryResponse{Status: status, Message: status.Message()})
}
