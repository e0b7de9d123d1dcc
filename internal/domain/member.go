package domain

import "strings"

type BusinessType string

const (
	BusinessFlowerDecoration BusinessType = "flower_decoration"
	BusinessTent             BusinessType = "tent"
	BusinessLighting         BusinessType = "lighting"
	BusinessSound            BusinessType = "sound"
	BusinessFurniture        BusinessType = "furniture"
	BusinessCatering         BusinessType = "catering"
	BusinessPhotography      BusinessType = "photography"
	BusinessVideography      BusinessType = "videography"
	BusinessDecoration       BusinessType = "decoration"
	BusinessOther            BusinessType = "other"
)

var businessTypes = []BusinessType{
	BusinessFlowerDecoration,
	BusinessTent,
	BusinessLighting,
	BusinessSound,
	BusinessFurniture,
	BusinessCatering,
	BusinessPhotography,
	BusinessVideography,
	BusinessDecoration,
	BusinessOther,
}

func BusinessTypes() []BusinessType {
	out := make([]BusinessType, len(businessTypes))
	copy(out, businessTypes)
	return out
}

func (b BusinessType) IsValid() bool {
	for _, t := range businessTypes {
		if t == b {
			return true
		}
	}
	return false
}

type Member struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	Phone           string       `json:"phone"`
	Email           string       `json:"email,omitempty"`
	BusinessName    string       `json:"businessName"`
	BusinessType    BusinessType `json:"businessType"`
	City            string       `json:"city,omitempty"`
	AssociationID   *int64       `json:"associationId,omitempty"`
	ProfileImage    string       `json:"profileImage,omitempty"`
	ProfileImageURL string       `json:"profileImageURL,omitempty"`
}

// Photo returns the best known image reference for the member.
func (m *Member) Photo() string {
	if m.ProfileImageURL != "" {
		return m.ProfileImageURL
	}
	return m.ProfileImage
}

// NormalizePhone strips everything except digits, so "98765-43210" becomes "9876543210".
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhone reports whether a normalized phone has exactly 10 digits.
func IsValidPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	return NormalizePhone(phone) == phone
}
