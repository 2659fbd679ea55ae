package validators

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// NotBlank rejects strings that are empty after trimming whitespace.
// "required" alone still accepts strings like "   ".
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
