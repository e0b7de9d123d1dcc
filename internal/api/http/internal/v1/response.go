package v1

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/checkin"
	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/pass"
	"github.com/mandapam/portal/internal/payment"
	"github.com/mandapam/portal/internal/photo"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/service"
	"github.com/mandapam/portal/internal/upstream"
	"github.com/mandapam/portal/pkg/logger"
	pkgvalidator "github.com/mandapam/portal/pkg/validator"
)

func errorResponse(c *gin.Context, status int, body *ErrorStruct) {
	c.AbortWithStatusJSON(status, body)
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		errorResponse(c, http.StatusBadRequest, withMessage(ValidationErrorCode, err.Error()))
		return
	}

	out := make([]ValidationError, len(verr))
	for i, ferr := range verr {
		out[i] = ValidationError{ferr.Field(), pkgvalidator.MsgForTag(ferr)}
	}
	fieldErrorResponse(c, out)
}

func fieldErrorResponse(c *gin.Context, out []ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorStruct{
		ErrorCode:    ValidationErrorCode,
		ErrorMessage: ValidationErrorMessage,
		Errors:       out,
	})
}

func fieldErrors(fields map[string]string) []ValidationError {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]ValidationError, len(keys))
	for i, k := range keys {
		out[i] = ValidationError{k, fields[k]}
	}
	return out
}

// failWith maps a service error onto a status and error body. Anything it
// does not recognise is logged and reported as 500.
func failWith(c *gin.Context, op string, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
	} else {
		logger.Info(op+" refused", zap.Error(err))
	}
	errorResponse(c, status, body)
}

func classify(err error) (int, *ErrorStruct) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return http.StatusNotFound, getErrorStruct(EventNotFoundCode)
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, getErrorStruct(SessionNotFoundCode)
	case errors.Is(err, service.ErrPhoneCheckPending):
		return http.StatusConflict, getErrorStruct(PhoneCheckPendingCode)
	case errors.Is(err, service.ErrAttemptInProgress):
		return http.StatusConflict, getErrorStruct(AttemptInProgressCode)
	case errors.Is(err, service.ErrStaffOnly):
		return http.StatusForbidden, getErrorStruct(StaffOnlyCode)
	case errors.Is(err, service.ErrNotConfirmed):
		return http.StatusConflict, getErrorStruct(NotConfirmedCode)
	case errors.Is(err, payment.ErrIllegalTransition):
		return http.StatusConflict, getErrorStruct(PaymentStateConflictCode)
	case errors.Is(err, domain.ErrInvalidPhone):
		return http.StatusBadRequest, getErrorStruct(InvalidPhoneCode)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, getErrorStruct(RegistrationNotFoundCode)

	case errors.Is(err, photo.ErrMissing):
		return http.StatusBadRequest, withMessage(PhotoRequiredCode, photo.ErrMissing.Error())
	case errors.Is(err, photo.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, withMessage(PhotoTooLargeCode, photo.ErrTooLarge.Error())
	case errors.Is(err, photo.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, withMessage(PhotoUnsupportedCode, photo.ErrUnsupportedType.Error())
	case errors.Is(err, service.ErrUpload):
		return http.StatusBadGateway, withMessage(PhotoUploadFailedCode, service.ErrUpload.Error())

	case errors.Is(err, pass.ErrDownloadInProgress):
		return http.StatusConflict, withMessage(PassDownloadInProgressCode, pass.ErrDownloadInProgress.Error())
	case errors.Is(err, pass.ErrResendUnavailable):
		return http.StatusServiceUnavailable, withMessage(PassResendUnavailableCode, pass.ErrResendUnavailable.Error())

	case errors.Is(err, checkin.ErrNoQRToken):
		return http.StatusUnprocessableEntity, withMessage(CheckInNoQRTokenCode, checkin.ErrNoQRToken.Error())
	case errors.Is(err, checkin.ErrUnmarkUnsupported):
		return http.StatusUnprocessableEntity, withMessage(CheckInUnmarkUnsupportedCode, checkin.ErrUnmarkUnsupported.Error())
	case errors.Is(err, checkin.ErrUnknownFormat):
		return http.StatusBadRequest, withMessage(ExportUnknownFormatCode, checkin.ErrUnknownFormat.Error())
	case errors.Is(err, checkin.ErrFormatUnavailable):
		return http.StatusNotImplemented, withMessage(ExportFormatUnavailableCode, checkin.ErrFormatUnavailable.Error())

	case errors.Is(err, probe.ErrCouldNotVerify):
		return http.StatusBadGateway, withMessage(StatusUnverifiedCode, probe.ErrCouldNotVerify.Error())
	case upstream.IsNetwork(err):
		return http.StatusBadGateway, getErrorStruct(UpstreamUnavailableCode)
	}

	if code := upstream.StatusCode(err); code != 0 {
		status := http.StatusBadGateway
		if code >= 400 && code < 500 {
			status = code
		}
		return status, withMessage(UpstreamRejectedCode, upstream.Message(err))
	}

	return http.StatusInternalServerError, getErrorStruct(UnknownErrorCode)
}
