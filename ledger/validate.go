package ledger

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	companyKeyPattern = regexp.MustCompile(`^[a-z_]+$`)
	gstinPattern      = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

	validate = newValidator()
)

// ErrInvalidRequest marks request payloads rejected before reaching storage.
var ErrInvalidRequest = errors.New("invalid request")

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("companykey", func(fl validator.FieldLevel) bool {
		return companyKeyPattern.MatchString(fl.Field().String())
	})
	// A blank GSTIN is accepted so updates can clear the column.
	_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || ValidGSTNumber(value)
	})
	return v
}

// Validate checks a request struct against its validate tags.
func Validate(request any) error {
	if err := validate.Struct(request); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			parts := make([]string, 0, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				parts = append(parts, fmt.Sprintf("%s failed %q", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(parts, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func ValidGSTNumber(value string) bool {
	return gstinPattern.MatchString(value)
}
