package service

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/upstream"
	pkgvalidator "github.com/mandapam/portal/pkg/validator"
)

// Form is the registration form shared by the public and manual flows.
type Form struct {
	Name          string `form:"name" json:"name" validate:"required,min=2"`
	Phone         string `form:"phone" json:"phone" validate:"required,phone10"`
	Email         string `form:"email" json:"email" validate:"omitempty,email"`
	BusinessName  string `form:"businessName" json:"businessName" validate:"required,min=2"`
	BusinessType  string `form:"businessType" json:"businessType" validate:"required,businesstype"`
	City          string `form:"city" json:"city" validate:"omitempty,min=2"`
	AssociationID string `form:"associationId" json:"associationId" validate:"omitempty,numericid"`
}

// Normalize trims every field and reduces the phone to its digits.
func (f *Form) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = domain.NormalizePhone(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.BusinessName = strings.TrimSpace(f.BusinessName)
	f.BusinessType = strings.TrimSpace(f.BusinessType)
	f.City = strings.TrimSpace(f.City)
	f.AssociationID = strings.TrimSpace(f.AssociationID)
}

// Validate returns field -> message; an empty map means the form is valid.
func (f *Form) Validate(v *validator.Validate) map[string]string {
	fields := pkgvalidator.FieldMessages(v.Struct(f))
	if fields == nil {
		fields = map[string]string{}
	}
	return fields
}

func (f *Form) associationID() *int64 {
	if f.AssociationID == "" {
		return nil
	}
	id, err := strconv.ParseInt(f.AssociationID, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func (f *Form) initiateRequest(photoURL string) upstream.InitiateRequest {
	return upstream.InitiateRequest{
		Name:          f.Name,
		Phone:         f.Phone,
		Email:         f.Email,
		BusinessName:  f.BusinessName,
		BusinessType:  domain.BusinessType(f.BusinessType),
		City:          f.City,
		AssociationID: f.associationID(),
		Photo:         photoURL,
	}
}
