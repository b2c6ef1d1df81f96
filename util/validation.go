package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const dateLayout = "2006-01-02"

var (
	emailPattern = regexp.MustCompile("^[a-zA-Z0-9_!#$%&'*+/=?`{|}~^.-]+@[a-zA-Z0-9.-]+$")

	registerOnce sync.Once
	registerErr  error

	// now is replaced in tests.
	now = time.Now
)

// fieldMessages maps a failed validation tag to the message shown to clients.
var fieldMessages = map[string]string{
	"required":        "must not be blank",
	"notblank":        "must not be blank",
	"reception_email": "must be a well-formed email address",
	"pastdate":        "must be a date in the past (YYYY-MM-DD)",
	"eqfield":         "passwords do not match",
	"max":             "is too long",
	"min":             "is too short",
}

// RegisterValidators installs the custom validation tags on gin's validator
// and makes field errors report JSON/form names. Safe to call many times.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		v.RegisterTagNameFunc(fieldName)
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			registerErr = err
			return
		}
		if err := v.RegisterValidation("reception_email", isEmail); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("pastdate", isPastDate)
	})
	return registerErr
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

func isEmail(fl validator.FieldLevel) bool {
	return IsEmail(fl.Field().String())
}

func isPastDate(fl validator.FieldLevel) bool {
	_, ok := ParsePastDate(fl.Field().String())
	return ok
}

// IsEmail reports whether s looks like local@domain.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ParsePastDate parses a YYYY-MM-DD date and reports whether it lies strictly
// before today.
func ParsePastDate(s string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	y, m, day := now().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return d, d.Before(today)
}

// FieldErrors converts a binding error into client-facing field errors.
func FieldErrors(err error) []ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]ErrorDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, ErrorDetail{Field: fe.Field(), Message: fieldMessage(fe.Tag())})
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []ErrorDetail{{Field: typeErr.Field, Message: "has an invalid type"}}
	}

	return []ErrorDetail{{Field: GenericErrorField, Message: err.Error()}}
}

// FieldErrorMap indexes field errors by field name, keeping the first message.
// Templates use it to render messages inline.
func FieldErrorMap(details []ErrorDetail) map[string]string {
	m := make(map[string]string, len(details))
	for _, d := range details {
		if _, exists := m[d.Field]; !exists {
			m[d.Field] = d.Message
		}
	}
	return m
}

func fieldMessage(tag string) string {
	if msg, ok := fieldMessages[tag]; ok {
		return msg
	}
	return "is invalid"
}
