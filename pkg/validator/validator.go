package validator

import (
	"log"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mandapam/portal/internal/domain"
)

// New returns a standalone validator with the portal's tags registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	register(v)
	return v
}

func RegisterGinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("form")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, fn := range map[string]validator.Func{
		"phone10":      phone10Validator,
		"businesstype": businessTypeValidator,
		"numericid":    numericIDValidator,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("register %s validator failed", tag)
		}
	}
}

var phone10Validator validator.Func = func(fl validator.FieldLevel) bool {
	return domain.IsValidPhone(domain.NormalizePhone(fl.Field().String()))
}

var businessTypeValidator validator.Func = func(fl validator.FieldLevel) bool {
	return domain.BusinessType(fl.Field().String()).IsValid()
}

var numericIDValidator validator.Func = func(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && n > 0
}

// FieldMessages flattens validation errors into field -> message.
func FieldMessages(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = MsgForTag(fe)
		}
	}
	return out
}

func MsgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "email":
		return "Invalid email address"
	case "phone10":
		return "Phone number must be exactly 10 digits"
	case "businesstype":
		return "Select a valid business type"
	case "numericid":
		return "Association must be a numeric id"
	case "oneof":
		return "Must be one of: " + fe.Param()
	}
	return fe.Error()
}
