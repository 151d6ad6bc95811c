// Package validation checks form input before anything reaches the backend.
package validation

import (
	"net/http"
	"net/mail"
	"strings"

	"CapIot.energyportal/internal/models"
)

const minPasswordLength = 8

// FieldErrors maps a form field to its first problem.
type FieldErrors map[string]string

func (f FieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Err returns nil when f is empty, otherwise a validation_failed APIError
// carrying f as details.
func (f FieldErrors) Err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return models.NewAPIError(models.ErrorCodeValidationFailed, message, map[string]string(f), http.StatusBadRequest)
}

func SignIn(req models.SignInRequest) error {
	errs := FieldErrors{}
	if strings.TrimSpace(req.Username) == "" {
		errs.add("username", "Username is required")
	}
	checkPassword(errs, req.Password)
	return errs.Err("Please fill in all login details correctly.")
}

func SignUp(req models.SignUpRequest) error {
	errs := FieldErrors{}
	if strings.TrimSpace(req.Username) == "" {
		errs.add("username", "Username is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		errs.add("email", "Email is required")
	} else if !validEmail(req.Email) {
		errs.add("email", "Not a valid email")
	}
	if strings.TrimSpace(req.ProductID) == "" {
		errs.add("product_id", "Product ID is required")
	}
	checkPassword(errs, req.Password)
	if req.ConfirmPassword == "" {
		errs.add("confirmPassword", "Please confirm the password")
	} else if req.ConfirmPassword != req.Password {
		errs.add("confirmPassword", "Passwords do not match")
	}
	return errs.Err("Please fill in all registration details correctly.")
}

// Payment checks the card form. The card number may contain the spaces
// FormatCardNumber inserts.
func Payment(d models.PaymentDetails) error {
	errs := FieldErrors{}
	if len(digits(d.CardNumber)) < 16 {
		errs.add("card_number", "Card number must have 16 digits")
	}
	if !strings.Contains(d.Expiry, "/") {
		errs.add("expiry", "Expiry must be MM/YY")
	}
	if len(digits(d.CVV)) < 3 {
		errs.add("cvv", "CVV must have at least 3 digits")
	}
	if len(strings.TrimSpace(d.Name)) < 3 {
		errs.add("name", "Name on card is required")
	}
	return errs.Err("Please fill in all payment details correctly.")
}

// FormatCardNumber keeps up to 16 digits grouped in fours.
func FormatCardNumber(in string) string {
	d := digits(in)
	if len(d) > 16 {
		d = d[:16]
	}
	var b strings.Builder
	for i, r := range d {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry renders up to four digits as MM/YY.
func FormatExpiry(in string) string {
	d := digits(in)
	if len(d) > 4 {
		d = d[:4]
	}
	if len(d) > 2 {
		return d[:2] + "/" + d[2:]
	}
	return d
}

// FormatCVV keeps up to four digits.
func FormatCVV(in string) string {
	d := digits(in)
	if len(d) > 4 {
		d = d[:4]
	}
	return d
}

func checkPassword(errs FieldErrors, password string) {
	switch {
	case password == "":
		errs.add("password", "Password is required")
	case len(password) < minPasswordLength:
		errs.add("password", "Password must be at least 8 characters")
	}
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s, "@")
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

