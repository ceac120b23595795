package apierror

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/logging"
)

// Respond writes err as a JSON error response and aborts the request.
// Errors that are not *Error are logged and reported as 500.
func Respond(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		e = Internal("internal error")
	} else if e.Kind == KindInternal || e.Kind == KindUpstream {
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Str("code", string(e.Kind)).Msg("request failed")
	}

	body := gin.H{"error": e.Message, "code": e.Kind}
	if e.Details != nil {
		body["details"] = e.Details
	}
	c.AbortWithStatusJSON(e.HTTPStatus(), body)
}

// FromBinding converts a gin binding error into a validation error with
// per-field messages keyed by JSON field name.
func FromBinding(err error, target any) *Error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Validation("invalid request body").WithCause(err)
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[jsonFieldName(target, fe.StructField())] = friendlyMessage(fe)
	}
	return Validation("validation failed").WithDetails(details).WithCause(err)
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// jsonFieldName looks up the json tag of a struct field, falling back to
// the Go field name.
func jsonFieldName(target any, field string) string {
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return field
	}
	sf, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	name := sf.Tag.Get("json")
	for i := 0; i < len(name); i++ {
		if name[i] == ',' {
			name = name[:i]
			break
		}
	}
	if name == "" || name == "-" {
		return field
	}
	return name
}
