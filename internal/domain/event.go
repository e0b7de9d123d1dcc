package domain

import "time"

// Event is read-only for the registration flow.
type Event struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Address         string    `json:"address,omitempty"`
	City            string    `json:"city,omitempty"`
	State           string    `json:"state,omitempty"`
	District        string    `json:"district,omitempty"`
	Pincode         string    `json:"pincode,omitempty"`
	RegistrationFee float64   `json:"registrationFee"`
	Image           string    `json:"image,omitempty"`
}

func (e *Event) IsFree() bool {
	return e.RegistrationFee <= 0
}

type Exhibitor struct {
	ID               int64        `json:"id"`
	EventID          int64        `json:"eventId"`
	Name             string       `json:"name"`
	BusinessCategory BusinessType `json:"businessCategory"`
	Phone            string       `json:"phone,omitempty"`
	Description      string       `json:"description,omitempty"`
	Logo             string       `json:"logo,omitempty"`
}

type Association struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}
