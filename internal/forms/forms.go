// Package forms declares the untrusted-input shapes accepted over HTTP
// and validates them field by field. Validation never fails fast: every
// broken field gets a message so the form can be re-rendered in one pass.
package forms

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to a user-visible message.
type Errors map[string]string

func (e Errors) Any() bool { return len(e) > 0 }

// Registration mirrors the sign-up form.
type Registration struct {
	Username        string `form:"username" validate:"required,min=4,max=20"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// Login mirrors the sign-in form. Password correctness is the
// credential store's job, not the validator's.
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Product mirrors the listing form. Price stays a string here; use
// Cents after validation passes.
type Product struct {
	Name        string `form:"name" validate:"required"`
	Price       string `form:"price" validate:"required,price"`
	Description string `form:"description"`
}

// Cents converts the validated price string to integer cents exactly.
func (p Product) Cents() int64 {
	return MustCents(p.Price)
}

var priceRe = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)

// maxWholeUnits bounds the whole part so cents never overflow int64.
const maxWholeUnits = (math.MaxInt64 - 99) / 100

// parseCents converts a price string to integer cents exactly. The
// second return is false for malformed input and for amounts too large
// to represent as cents.
func parseCents(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !priceRe.MatchString(s) {
		return 0, false
	}
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || n > maxWholeUnits {
		return 0, false
	}
	cents := n * 100
	if frac != "" {
		if len(frac) == 1 {
			frac += "0"
		}
		f, _ := strconv.ParseInt(frac, 10, 64)
		cents += f
	}
	return cents, true
}

// MustCents parses a price already checked by the "price" rule.
// Malformed or out-of-range input yields 0.
func MustCents(s string) int64 {
	cents, ok := parseCents(s)
	if !ok {
		return 0
	}
	return cents
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report errors against the HTML field names, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// price: non-negative decimal with at most two places that fits in
	// int64 cents
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		_, ok := parseCents(fl.Field().String())
		return ok
	})
	return v
}

// Validate runs every rule on the form and collects all failures.
func Validate(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return Errors{}
	}

	out := Errors{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["form"] = "invalid submission"
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if fe.Kind() == reflect.String {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Too small"
	case "max":
		if fe.Kind() == reflect.String {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Too large"
	case "email":
		return "Must be a valid email address"
	case "eqfield":
		return "Passwords must match"
	case "price":
		return "Must be a non-negative amount with up to two decimal places"
	default:
		return "Invalid value"
	}
}
