package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/cardfolio/cardfolio-api/config"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the JSON field name clients actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders the standard {status, message} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":  status,
		"message": message,
	})
}

// writeInternalError scrubs detail in production; outside production the
// underlying error string is included to ease debugging.
func writeInternalError(w http.ResponseWriter, message string, err error) {
	if config.Env.IsDevelopment {
		body := map[string]any{
			"status":  http.StatusInternalServerError,
			"message": message,
		}
		if err != nil {
			body["error"] = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}

	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// writeValidationError translates validator failures into the structured
// field→message body every 400 uses.
func writeValidationError(w http.ResponseWriter, err error) {
	fields := map[string]string{}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fe := range fieldErrors {
			fields[fe.Field()] = validationMessage(fe)
		}
	}

	writeJSON(w, http.StatusBadRequest, map[string]any{
		"status":  http.StatusBadRequest,
		"message": "Validation failed",
		"errors":  fields,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
