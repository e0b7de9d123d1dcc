package pass

type DeliveryStatus string

const (
	StatusSent         DeliveryStatus = "sent"
	StatusPending      DeliveryStatus = "pending"
	StatusError        DeliveryStatus = "error"
	StatusNotAttempted DeliveryStatus = "not_attempted"
)

// Confirmation is what a settled registration tells us about delivery.
type Confirmation struct {
	// Existing marks a registration found by lookup rather than created now.
	Existing           bool
	Recovered          bool
	IsNewRegistration  *bool
	ShouldSendWhatsApp *bool
	DeliveryError      string
}

func (c Confirmation) Status() DeliveryStatus {
	switch {
	case c.Existing || c.Recovered:
		return StatusNotAttempted
	case c.IsNewRegistration != nil && !*c.IsNewRegistration:
		return StatusNotAttempted
	case c.DeliveryError != "":
		return StatusError
	case c.ShouldSendWhatsApp == nil:
		return StatusPending
	case *c.ShouldSendWhatsApp:
		return StatusSent
	default:
		return StatusNotAttempted
	}
}

// Message never promises a delivery that was not attempted.
func (s DeliveryStatus) Message() string {
	switch s {
	case StatusSent:
		return "Your pass is being sent to your WhatsApp number. You can also download it below."
	case StatusPending:
		return "Your pass will be sent to your WhatsApp number shortly. You can also download it below."
	case StatusError:
		return "We could not send your pass on WhatsApp. Please download it manually."
	default:
		return "Download your pass below."
	}
}
