package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Sadman95/bike-island-server/domain"
)

var registerOnce sync.Once

// RegisterValidation makes validation errors report JSON field names
func RegisterValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes the body into obj. On failure the error is pushed to the
// context as a *domain.ValidationError and false is returned.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(toValidationError(err))
		return false
	}
	return true
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &domain.ValidationError{Fields: []domain.FieldError{{Message: "Malformed request body"}}}
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Path: fe.Field(), Message: fieldMessage(fe)})
	}
	return &domain.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Provide a valid email"
	case "min":
		return label + " should be at least " + fe.Param() + " characters"
	case "eqfield":
		return "Confirm password must match with password"
	case "hexadecimal":
		return "Token must be in hexadecimal format"
	case "len", "numeric":
		return "Must be a 6 digit OTP"
	case "oneof":
		return label + " must be one of " + fe.Param()
	}
	return label + " is invalid"
}

// fieldLabel turns "confirmPassword" into "Confirm password"
func fieldLabel(name string) string {
	if name == "otp" {
		return "OTP"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
