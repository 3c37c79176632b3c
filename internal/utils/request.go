package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"TRAVBUD_BACK-END/internal/apperr"
)

const maxBodySize = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ReadJSON decodes a single JSON value from the request body into dst and
// validates it.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	return DecodeJSON(r.Body, dst)
}

// DecodeJSON decodes and validates one JSON value from rd. It is also used
// for the JSON "data" part of multipart requests.
func DecodeJSON(rd io.Reader, dst any) error {
	decoder := json.NewDecoder(rd)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
			return apperr.Validation("Malformed JSON")
		case errors.As(err, &unmarshalTypeError):
			return apperr.Validation("Invalid JSON type",
				apperr.FieldError{Field: unmarshalTypeError.Field, Message: "must be " + unmarshalTypeError.Type.String()})
		case errors.As(err, &maxBytesError):
			return apperr.Validation("Request body too large")
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return apperr.Validation("Unknown field", apperr.FieldError{Field: field, Message: "unknown field"})
		default:
			return apperr.Validation(err.Error())
		}
	}
	if decoder.More() {
		return apperr.Validation("Body must contain only a single JSON value")
	}
	return Validate(dst)
}

// Validate checks validate tags on dst.
func Validate(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.Validation(err.Error())
	}
	fields := make([]apperr.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apperr.FieldError{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return apperr.Validation("Validation failed", fields...)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "url":
		return "Invalid URL"
	case "min":
		return "Value is too short, minimum is " + fe.Param()
	case "max":
		return "Value is too long, maximum is " + fe.Param()
	case "gte":
		return "Value must be greater than or equal to " + fe.Param()
	case "lte":
		return "Value must be less than or equal to " + fe.Param()
	case "oneof":
		return "Value must be one of: " + fe.Param()
	case "gtefield":
		return "Value must not be before " + fe.Param()
	default:
		return "Invalid value"
	}
}

// PathUUID parses the chi URL parameter name as a UUID.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid id", apperr.FieldError{Field: name, Message: "must be a valid UUID"})
	}
	return id, nil
}

// QueryInt reads an optional integer query parameter.
func QueryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(fmt.Sprintf("Invalid %s", name), apperr.FieldError{Field: name, Message: "must be an integer"})
	}
	return n, nil
}

// QueryFloat reads an optional float query parameter.
func QueryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("Invalid %s", name), apperr.FieldError{Field: name, Message: "must be a number"})
	}
	return &f, nil
}

// QueryBool reads an optional boolean query parameter.
func QueryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("Invalid %s", name), apperr.FieldError{Field: name, Message: "must be true or false"})
	}
	return &b, nil
}

// QueryList splits a comma separated query parameter, dropping blanks.
func QueryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the time in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
