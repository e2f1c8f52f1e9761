package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/DukeRupert/poolcheck/internal/compliance"
	"github.com/DukeRupert/poolcheck/internal/domain"
	"github.com/go-playground/validator/v10"
)

// maxRequestBodySize caps JSON request bodies at 1MB.
const maxRequestBodySize = 1 << 20

// validate is shared by all handlers; validator caches struct metadata and
// is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// readingsRequest is the JSON shape of a set of readings. Ranges here
// reject physically impossible input; compliance thresholds are applied
// later by the evaluation.
type readingsRequest struct {
	PH          *float64 `json:"ph" validate:"omitempty,gte=0,lte=14"`
	Chlorine    *float64 `json:"chlorine" validate:"omitempty,gte=0"`
	Bromine     *float64 `json:"bromine" validate:"omitempty,gte=0"`
	Salt        *float64 `json:"salt" validate:"omitempty,gte=0"`
	Alkalinity  *float64 `json:"alkalinity" validate:"omitempty,gte=0"`
	Calcium     *float64 `json:"calcium" validate:"omitempty,gte=0"`
	Cyanuric    *float64 `json:"cyanuric" validate:"omitempty,gte=0"`
	Turbidity   *float64 `json:"turbidity" validate:"omitempty,gte=0"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=-5,lte=60"`
}

func (r readingsRequest) params() compliance.Params {
	return compliance.Params{
		PH:          r.PH,
		Chlorine:    r.Chlorine,
		Bromine:     r.Bromine,
		Salt:        r.Salt,
		Alkalinity:  r.Alkalinity,
		Calcium:     r.Calcium,
		Cyanuric:    r.Cyanuric,
		Turbidity:   r.Turbidity,
		Temperature: r.Temperature,
	}
}

// decodeJSON reads a single JSON object from the request body into dst.
// Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxBytesErr):
			return domain.Invalid(op, "request body must not exceed 1MB")
		case errors.Is(err, io.EOF):
			return domain.Invalid(op, "request body must not be empty")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return domain.Invalid(op, "request body contains malformed JSON")
		case errors.As(err, &typeErr):
			return domain.Invalid(op, fmt.Sprintf("field %q has the wrong type", typeErr.Field))
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return domain.Invalid(op, "request body contains unknown field "+field)
		default:
			return domain.Invalid(op, "request body is invalid")
		}
	}

	if dec.More() {
		return domain.Invalid(op, "request body must contain a single JSON object")
	}
	return nil
}

// validateRequest runs struct tag validation and converts failures into a
// domain.ValidationError keyed by JSON field path (e.g. "readings.ph").
func validateRequest(op string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Internal(err, op, "failed to validate request")
	}

	var ve *domain.ValidationError
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		if ve == nil {
			ve = domain.NewValidationError(op, field, fieldMessage(fe))
			continue
		}
		domain.AddFieldError(ve, field, fieldMessage(fe))
	}
	return ve
}

// fieldPath drops the struct name that validator prefixes to namespaces.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
