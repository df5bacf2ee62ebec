package checkout

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	nameRe  = regexp.MustCompile(`^[\p{L}\p{M}' -]+$`)
	phoneRe = regexp.MustCompile(`^[0-9+() -]+$`)
	refRe   = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

// checkoutRules drives fail-fast input validation. Field order matters: the
// validator reports violations in declaration order and only the first one
// is surfaced.
type checkoutRules struct {
	Name           string `validate:"required,min=2,max=100,person_name"`
	Email          string `validate:"required,max=255,email"`
	Phone          string `validate:"required,min=10,max=20,phone_chars"`
	PaymentMethod  string `validate:"required"`
	RequireRef     bool   `validate:"-"`
	TransactionRef string `validate:"required_if=RequireRef true,omitempty,min=5,max=50,ref_chars"`
	Notes          string `validate:"omitempty,max=500"`
}

var fieldNames = map[string]string{
	"Name":           "name",
	"Email":          "email",
	"Phone":          "phone",
	"PaymentMethod":  "paymentMethod",
	"TransactionRef": "transactionReference",
	"Notes":          "notes",
}

var reasons = map[string]string{
	"required":    "is required",
	"required_if": "is required for this payment method",
	"min":         "is too short",
	"max":         "is too long",
	"email":       "must be a valid email address",
	"person_name": "contains invalid characters",
	"phone_chars": "contains invalid characters",
	"ref_chars":   "must be alphanumeric",
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_chars", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("ref_chars", func(fl validator.FieldLevel) bool {
		return refRe.MatchString(fl.Field().String())
	})
	return v
}

// validateInput checks the checkout input and returns a ValidationError for
// the first violation, in the order name, email, phone, payment method,
// transaction reference, notes.
func (s *Service) validateInput(in Input) error {
	rules := checkoutRules{
		Name:           in.Customer.Name,
		Email:          in.Customer.Email,
		Phone:          in.Customer.Phone,
		PaymentMethod:  in.PaymentMethod,
		RequireRef:     s.isManualMethod(in.PaymentMethod),
		TransactionRef: in.TransactionRef,
		Notes:          in.Notes,
	}

	err := s.validate.Struct(rules)
	if err == nil {
		// A method outside both configured sets must not fall through to the
		// gateway path.
		if !s.manualSet[in.PaymentMethod] && !s.gatewaySet[in.PaymentMethod] {
			return &ValidationError{Field: "paymentMethod", Reason: "is not a supported payment method"}
		}
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		first := verrs[0]
		field := fieldNames[first.StructField()]
		if field == "" {
			field = first.StructField()
		}
		reason := reasons[first.Tag()]
		if reason == "" {
			reason = "is invalid"
		}
		return &ValidationError{Field: field, Reason: reason}
	}
	return err
}
