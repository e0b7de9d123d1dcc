package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/checkin"
	"github.com/mandapam/portal/internal/repository"
	"github.com/mandapam/portal/internal/service"
	"github.com/mandapam/portal/internal/upstream"
	"github.com/mandapam/portal/pkg/logger"
)

func (h *Handler) initAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", h.staffIdentityMiddleware)
	{
		admin.POST("/checkin", h.checkIn)
		admin.GET("/payment-attempts", h.listPaymentAttempts)

		events := admin.Group("/events/:id")
		events.POST("/sessions", h.openManualSession)
		events.GET("/registrations", h.listRegistrations)
		events.GET("/registrations/export", h.exportRegistrations)
		events.GET("/registrations/:regId", h.getRegistrationDetail)
		events.PUT("/registrations/:regId/attendance", h.setAttendance)
		events.GET("/registrations/:regId/pass", h.downloadPass)
		events.POST("/registrations/:regId/pass/resend", h.resendPass)
	}
}

// @Summary Open manual registration
// @Tags Admin
// @Description Staff registration on behalf of an attendee. Same form and payment flow as
// @Description the public page, attributed to the staff member.
// @ModuleID openManualSession
// @Produce  json
// @Param id path int true "Event ID"
// @Success 201 {object} service.SessionView
// @Failure 401
// @Failure 404 {object} ErrorStruct
// @Security StaffAuth
// @Router /admin/events/{id}/sessions [post]
func (h *Handler) openManualSession(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	view, err := h.services.Registrations.NewSession(c.Request.Context(), service.FlowManual, id, getStaffID(c))
	if err != nil {
		failWith(c, "open manual session", err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

type checkInInput struct {
	QRToken string `json:"qrToken" binding:"required"`
	EventID int64  `json:"eventId" binding:"omitempty,min=1"`
}

// @Summary Check in by QR token
// @Tags Admin
// @Description Marks attendance. Scanning the same token again succeeds with
// @Description alreadyCheckedIn=true and the original attendedAt.
// @ModuleID checkIn
// @Accept  json
// @Produce  json
// @Param input body checkInInput true "Scanned token"
// @Success 200 {object} checkin.Result
// @Failure 400 {object} ValidationErrorStruct
// @Failure 401
// @Failure 422 {object} ErrorStruct
// @Security StaffAuth
// @Router /admin/checkin [post]
func (h *Handler) checkIn(c *gin.Context) {
	var inp checkInInput
	if err := c.ShouldBindJSON(&inp); err != nil {
		validationErrorResponse(c, err)
		return
	}

	res, err := h.services.CheckIn.CheckInAt(c.Request.Context(), inp.EventID, inp.QRToken)
	if err != nil {
		if code := upstream.StatusCode(err); code >= 400 && code < 500 {
			logger.Info("check-in rejected", zap.Int("status", code), zap.Error(err))
			errorResponse(c, http.StatusUnprocessableEntity, withMessage(CheckInRejectedCode, upstream.Message(err)))
			return
		}
		failWith(c, "check in", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary List registrations
// @Tags Admin
// @Description Registrations of an event filtered by search text, status and payment status.
// @Description Search matches name, business name and phone digits.
// @ModuleID listRegistrations
// @Produce  json
// @Param id path int true "Event ID"
// @Param search query string false "Search text"
// @Param status query string false "registered, attended, cancelled or pending"
// @Param paymentStatus query string false "paid, pending or failed"
// @Success 200 {array} domain.Registration
// @Failure 400 {object} ValidationErrorStruct
// @Failure 401
// @Security StaffAuth
// @Router /admin/events/{id}/registrations [get]
func (h *Handler) listRegistrations(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var f checkin.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		validationErrorResponse(c, err)
		return
	}

	rows, err := h.services.CheckIn.List(c.Request.Context(), id, f)
	if err != nil {
		failWith(c, "list registrations", err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// @Summary Export registrations
// @Tags Admin
// @Description Filtered registrations as a csv, xlsx or pdf download.
// @ModuleID exportRegistrations
// @Produce  octet-stream
// @Param id path int true "Event ID"
// @Param format query string false "csv (default), xlsx or pdf"
// @Param search query string false "Search text"
// @Param status query string false "Registration status"
// @Param paymentStatus query string false "Payment status"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorStruct
// @Failure 401
// @Failure 501 {object} ErrorStruct
// @Security StaffAuth
// @Router /admin/events/{id}/registrations/export [get]
func (h *Handler) exportRegistrations(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var f checkin.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		validationErrorResponse(c, err)
		return
	}

	format := checkin.Format(c.DefaultQuery("format", string(checkin.FormatCSV)))
	file, err := h.services.CheckIn.Export(c.Request.Context(), id, f, format)
	if err != nil {
		failWith(c, "export registrations", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// @Summary Registration detail
// @Tags Admin
// @Description One registration with its member profile and QR image.
// @ModuleID getRegistrationDetail
// @Produce  json
// @Param id path int true "Event ID"
// @Param regId path int true "Registration ID"
// @Success 200 {object} checkin.Detail
// @Failure 401
// @Failure 404 {object} ErrorStruct
// @Security StaffAuth
// @Router /admin/events/{id}/registrations/{regId} [get]
func (h *Handler) getRegistrationDetail(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	regID, ok := registrationID(c)
	if !ok {
		return
	}

	detail, err := h.services.CheckIn.Detail(c.Request.Context(), id, regID)
	if err != nil {
		failWith(c, "registration detail", err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

type attendanceInput struct {
	Attended *bool `json:"attended" binding:"required"`
}

// @Summary Set attendance
// @Tags Admin
// @Description Manual attendance toggle. Only attended=true is supported; attendance cannot
// @Description be unmarked once recorded.
// @ModuleID setAttendance
// @Accept  json
// @Produce  json
// @Param id path int true "Event ID"
// @Param regId path int true "Registration ID"
// @Param input body attendanceInput true "Attendance"
// @Success 200 {object} checkin.Result
// @Failure 401
// @Failure 404 {object} ErrorStruct
// @Failure 422 {object} ErrorStruct
// @Security StaffAuth
// @Router /admin/events/{id}/registrations/{regId}/attendance [put]
func (h *Handler) setAttendance(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	regID, ok := registrationID(c)
	if !ok {
		return
	}

	var inp attendanceInput
	if err := c.ShouldBindJSON(&inp); err != nil {
		validationErrorResponse(c, err)
		return
	}
	if !*inp.Attended {
		failWith(c, "set attendance", checkin.ErrUnmarkUnsupported)
		return
	}

	detail, err := h.services.CheckIn.Detail(c.Request.Context(), id, regID)
	if err != nil {
		failWith(c, "set attendance", err)
		return
	}

	res, err := h.services.CheckIn.SetAttendance(c.Request.Context(), detail.Registration, *inp.Attended)
	if err != nil {
		failWith(c, "set attendance", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary Payment attempts
// @Tags Admin
// @Description Ledger of payment confirmation attempts for reconciling payments the
// @Description backend never confirmed.
// @ModuleID listPaymentAttempts
// @Produce  json
// @Param event_id query int false "Event ID"
// @Param order_id query string false "Gateway order ID"
// @Param payment_id query string false "Gateway payment ID"
// @Param phone query string false "Phone"
// @Param limit query int false "Max rows (default 100)"
// @Success 200 {array} domain.PaymentAttempt
// @Failure 401
// @Failure 503 {object} ErrorStruct
// @Security StaffAuth
// @Router /admin/payment-attempts [get]
func (h *Handler) listPaymentAttempts(c *gin.Context) {
	if h.services.Attempts == nil {
		errorResponse(c, http.StatusServiceUnavailable, getErrorStruct(LedgerUnavailableCode))
		return
	}

	var f repository.AttemptFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		validationErrorResponse(c, err)
		return
	}

	attempts, err := h.services.Attempts.List(c.Request.Context(), f)
	if err != nil {
		failWith(c, "list payment attempts", err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(len(attempts)))
	c.JSON(http.StatusOK, attempts)
}
