package constants

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	TxKey        contextKey = "tx"
	PoolKey      contextKey = "pool"
	LoggerKey    contextKey = "logger"
	SessionKey   contextKey = "session"
	RequestStart contextKey = "requestStart"
	RequestIDKey contextKey = "requestID"
	ClientScope  contextKey = "clientScope"
)

// Validate is the shared validator instance used by request DTOs. Field errors are
// reported under the json (or form) name of the field.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}
