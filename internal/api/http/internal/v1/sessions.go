package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mandapam/portal/internal/payment"
	"github.com/mandapam/portal/internal/photo"
	"github.com/mandapam/portal/internal/service"
	"github.com/mandapam/portal/internal/upstream"
)

// multipartOverhead is headroom for the text fields and part headers on top
// of the photo limit.
const multipartOverhead = 1 << 20

func (h *Handler) initSessionsRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions/:sid")
	{
		sessions.GET("", h.getSession)
		sessions.PUT("/phone", h.changePhone)
		sessions.PUT("/city", h.changeCity)
		sessions.POST("/submit", h.submitRegistration)
		sessions.GET("/pass", h.downloadSessionPass)
		sessions.POST("/pass/resend", h.resendSessionPass)

		gateway := sessions.Group("/gateway")
		gateway.POST("/success", h.gatewaySuccess)
		gateway.POST("/dismiss", h.gatewayDismiss)
		gateway.POST("/failed", h.gatewayFailed)
	}
}

// @Summary Get session
// @Tags Registration
// @ModuleID getSession
// @Produce  json
// @Param sid path string true "Session ID"
// @Success 200 {object} service.SessionView
// @Failure 404 {object} ErrorStruct
// @Router /sessions/{sid} [get]
func (h *Handler) getSession(c *gin.Context) {
	view, err := h.services.Registrations.Session(c.Request.Context(), c.Param("sid"))
	if err != nil {
		failWith(c, "get session", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type phoneInput struct {
	Phone string `json:"phone"`
}

// @Summary Phone field changed
// @Tags Registration
// @Description Feeds the phone field. A complete 10-digit number starts the debounced
// @Description already-registered check; the view reports phone_locked while it runs.
// @ModuleID changePhone
// @Accept  json
// @Produce  json
// @Param sid path string true "Session ID"
// @Param input body phoneInput true "Phone"
// @Success 200 {object} service.SessionView
// @Failure 404 {object} ErrorStruct
// @Router /sessions/{sid}/phone [put]
func (h *Handler) changePhone(c *gin.Context) {
	var inp phoneInput
	if err := c.BindJSON(&inp); err != nil {
		return
	}

	view, err := h.services.Registrations.PhoneChanged(c.Request.Context(), c.Param("sid"), inp.Phone)
	if err != nil {
		failWith(c, "change phone", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type cityInput struct {
	City string `json:"city"`
}

// @Summary City field changed
// @Tags Registration
// @ModuleID changeCity
// @Accept  json
// @Produce  json
// @Param sid path string true "Session ID"
// @Param input body cityInput true "City"
// @Success 200 {object} service.SessionView
// @Failure 404 {object} ErrorStruct
// @Router /sessions/{sid}/city [put]
func (h *Handler) changeCity(c *gin.Context) {
	var inp cityInput
	if err := c.BindJSON(&inp); err != nil {
		return
	}

	view, err := h.services.Registrations.CityChanged(c.Request.Context(), c.Param("sid"), inp.City)
	if err != nil {
		failWith(c, "change city", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Submit registration
// @Tags Registration
// @Description Validates the form and photo, then registers. Free events settle here;
// @Description paid events return payment.order for the checkout widget.
// @ModuleID submitRegistration
// @Accept  multipart/form-data
// @Produce  json
// @Param sid path string true "Session ID"
// @Param name formData string true "Full name"
// @Param phone formData string true "10-digit phone"
// @Param email formData string false "Email"
// @Param businessName formData string true "Business name"
// @Param businessType formData string true "Business type"
// @Param city formData string false "City"
// @Param associationId formData string false "Association ID"
// @Param photo formData file true "Profile photo"
// @Success 200 {object} service.SessionView
// @Failure 400 {object} ValidationErrorStruct
// @Failure 409 {object} ErrorStruct
// @Failure 413 {object} ErrorStruct
// @Router /sessions/{sid}/submit [post]
func (h *Handler) submitRegistration(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.Photo.MaxInputBytes+multipartOverhead)

	var form service.Form
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			failWith(c, "submit registration", photo.ErrTooLarge)
			return
		}
		validationErrorResponse(c, err)
		return
	}

	upload, err := h.readUpload(c)
	if err != nil {
		failWith(c, "submit registration", err)
		return
	}

	view, err := h.services.Registrations.Submit(c.Request.Context(), c.Param("sid"), form, upload)
	if err != nil {
		failWith(c, "submit registration", err)
		return
	}

	if f := failure(view); f != nil && f.Kind == payment.FailureValidation && len(f.Fields) > 0 {
		fieldErrorResponse(c, fieldErrors(f.Fields))
		return
	}

	c.JSON(http.StatusOK, view)
}

// readUpload returns nil when no photo was attached so the service can
// report it alongside the other field errors.
func (h *Handler) readUpload(c *gin.Context) (*photo.Upload, error) {
	fh, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if fh.Size > h.config.Photo.MaxInputBytes {
		return nil, photo.ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.config.Photo.MaxInputBytes+1))
	if err != nil {
		return nil, err
	}

	return &photo.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func failure(view *service.SessionView) *payment.Failure {
	if view == nil || view.Payment == nil {
		return nil
	}
	return view.Payment.Failure
}

type gatewaySuccessInput struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// @Summary Gateway success callback
// @Tags Payment
// @Description Confirms the payment with the backend. Repeated callbacks for the same
// @Description attempt are absorbed; only the first one confirms.
// @ModuleID gatewaySuccess
// @Accept  json
// @Produce  json
// @Param sid path string true "Session ID"
// @Param input body gatewaySuccessInput true "Gateway payload"
// @Success 200 {object} service.SessionView
// @Failure 400 {object} ValidationErrorStruct
// @Failure 404 {object} ErrorStruct
// @Failure 409 {object} ErrorStruct
// @Router /sessions/{sid}/gateway/success [post]
func (h *Handler) gatewaySuccess(c *gin.Context) {
	var inp gatewaySuccessInput
	if err := c.ShouldBindJSON(&inp); err != nil {
		validationErrorResponse(c, err)
		return
	}

	h.deliverGateway(c, payment.GatewayEvent{
		Kind: payment.GatewaySuccess,
		Payment: upstream.GatewayPayment{
			OrderID:   inp.OrderID,
			PaymentID: inp.PaymentID,
			Signature: inp.Signature,
		},
	})
}

// @Summary Gateway dismissed
// @Tags Payment
// @Description The user closed the checkout. The form becomes submittable again.
// @ModuleID gatewayDismiss
// @Produce  json
// @Param sid path string true "Session ID"
// @Success 200 {object} service.SessionView
// @Failure 404 {object} ErrorStruct
// @Failure 409 {object} ErrorStruct
// @Router /sessions/{sid}/gateway/dismiss [post]
func (h *Handler) gatewayDismiss(c *gin.Context) {
	h.deliverGateway(c, payment.GatewayEvent{Kind: payment.GatewayDismissal})
}

type gatewayFailedInput struct {
	Reason string `json:"reason"`
}

// @Summary Gateway failure callback
// @Tags Payment
// @ModuleID gatewayFailed
// @Accept  json
// @Produce  json
// @Param sid path string true "Session ID"
// @Param input body gatewayFailedInput false "Failure reason"
// @Success 200 {object} service.SessionView
// @Failure 404 {object} ErrorStruct
// @Failure 409 {object} ErrorStruct
// @Router /sessions/{sid}/gateway/failed [post]
func (h *Handler) gatewayFailed(c *gin.Context) {
	var inp gatewayFailedInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&inp); err != nil {
			validationErrorResponse(c, err)
			return
		}
	}

	h.deliverGateway(c, payment.GatewayEvent{Kind: payment.GatewayFailure, Reason: inp.Reason})
}

func (h *Handler) deliverGateway(c *gin.Context, ev payment.GatewayEvent) {
	view, err := h.services.Registrations.Gateway(c.Request.Context(), c.Param("sid"), ev)
	if err != nil {
		failWith(c, "gateway "+string(ev.Kind), err)
		return
	}

	c.JSON(http.StatusOK, view)
}
