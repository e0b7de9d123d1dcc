package v1

// Errors
const (
	UnknownErrorCode    = 0
	UnknownErrorMessage = "unknown error"

	EventNotFoundCode            = 1001
	EventNotFoundMessage         = "event not found"
	SessionNotFoundCode          = 1002
	SessionNotFoundMessage       = "registration session not found or expired"
	PhoneCheckPendingCode        = 1003
	PhoneCheckPendingMessage     = "still checking this phone number, please wait"
	AttemptInProgressCode        = 1004
	AttemptInProgressMessage     = "a registration attempt is already in progress"
	PaymentStateConflictCode     = 1005
	PaymentStateConflictMessage  = "this action is not possible at the current payment step"
	StaffOnlyCode                = 1006
	StaffOnlyMessage             = "manual registration requires a staff account"
	InvalidEventIDCode           = 1007
	InvalidEventIDMessage        = "event id must be a positive number"
	InvalidRegistrationIDCode    = 1008
	InvalidRegistrationIDMessage = "registration id must be a positive number"
	InvalidPhoneCode             = 1009
	InvalidPhoneMessage          = "phone must contain exactly 10 digits"
	NotConfirmedCode             = 1010
	NotConfirmedMessage          = "registration is not confirmed yet"

	PhotoRequiredCode     = 2001
	PhotoTooLargeCode     = 2002
	PhotoUnsupportedCode  = 2003
	PhotoUploadFailedCode = 2004

	PassDownloadInProgressCode = 3001
	PassResendUnavailableCode  = 3002
	PassUnavailableCode        = 3003
	PassUnavailableMessage     = "pass is not available yet"

	CheckInNoQRTokenCode         = 4001
	CheckInUnmarkUnsupportedCode = 4002
	CheckInRejectedCode          = 4003
	RegistrationNotFoundCode     = 4004
	RegistrationNotFoundMessage  = "registration not found"
	ExportUnknownFormatCode      = 4101
	ExportFormatUnavailableCode  = 4102

	UpstreamUnavailableCode    = 5001
	UpstreamUnavailableMessage = "could not reach the registration server, check your connection and try again"
	UpstreamRejectedCode       = 5002
	StatusUnverifiedCode       = 5003
	LedgerUnavailableCode      = 5004
	LedgerUnavailableMessage   = "payment attempt ledger is not configured"

	ValidationErrorCode    = 6000
	ValidationErrorMessage = "Validation error"
)

type ErrorCode int
type ErrorMessage string

type ErrorStruct struct {
	ErrorCode    `json:"error_code"`
	ErrorMessage `json:"error_message"`
} // @name ErrorStruct

type ValidationErrorStruct struct {
	ErrorCode    int               `json:"error_code"`
	ErrorMessage string            `json:"error_message"`
	Errors       []ValidationError `json:"validation_errors"`
} // @name ValidationErrorStruct

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}

var errorMessages = map[ErrorCode]ErrorMessage{
	EventNotFoundCode:         EventNotFoundMessage,
	SessionNotFoundCode:       SessionNotFoundMessage,
	PhoneCheckPendingCode:     PhoneCheckPendingMessage,
	AttemptInProgressCode:     AttemptInProgressMessage,
	PaymentStateConflictCode:  PaymentStateConflictMessage,
	StaffOnlyCode:             StaffOnlyMessage,
	InvalidEventIDCode:        InvalidEventIDMessage,
	InvalidRegistrationIDCode: InvalidRegistrationIDMessage,
	InvalidPhoneCode:          InvalidPhoneMessage,
	NotConfirmedCode:          NotConfirmedMessage,
	PassUnavailableCode:       PassUnavailableMessage,
	RegistrationNotFoundCode:  RegistrationNotFoundMessage,
	UpstreamUnavailableCode:   UpstreamUnavailableMessage,
	LedgerUnavailableCode:     LedgerUnavailableMessage,
}

func getErrorStruct(code ErrorCode) *ErrorStruct {
	errorStruct := &ErrorStruct{
		ErrorCode:    UnknownErrorCode,
		ErrorMessage: UnknownErrorMessage,
	}

	if msg, ok := errorMessages[code]; ok {
		errorStruct.ErrorCode = code
		errorStruct.ErrorMessage = msg
	}

	return errorStruct
}

// withMessage keeps code but carries a message produced elsewhere,
// typically a backend rejection that should reach the user verbatim.
func withMessage(code ErrorCode, msg string) *ErrorStruct {
	if msg == "" {
		return getErrorStruct(code)
	}
	return &ErrorStruct{ErrorCode: code, ErrorMessage: ErrorMessage(msg)}
}
