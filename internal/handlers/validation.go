package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"justdo/internal/dto"
	"justdo/internal/query"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom tags used by dto bindings on gin's validator.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			d, ok := field.Interface().(dto.DateTime)
			if !ok || !d.IsSet() {
				return nil
			}
			return d.Time()
		}, dto.DateTime{})
		if err = v.RegisterValidation("utc", isUTC); err != nil {
			return
		}
		err = v.RegisterValidation("direction", isDirection)
	})
	return err
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// isUTC accepts timestamps written with a zero UTC offset.
func isUTC(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	_, offset := t.Zone()
	return offset == 0
}

func isDirection(fl validator.FieldLevel) bool {
	return query.ParseDirection(fl.Field().String()) != query.DirectionUnspecified
}

// fieldErrors renders a binding error as field-level messages.
func fieldErrors(err error) []dto.ErrorResponse {
	var (
		verrs   validator.ValidationErrors
		syntax  *json.SyntaxError
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs):
		out := make([]dto.ErrorResponse, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, invalidData(fieldPath(fe.Namespace()), ruleMessage(fe)))
		}
		return out
	case errors.As(err, &syntax):
		return []dto.ErrorResponse{invalidData("body", fmt.Sprintf("malformed JSON at offset %d", syntax.Offset))}
	case errors.As(err, &typeErr):
		return []dto.ErrorResponse{invalidData(typeErr.Field, "expected "+typeErr.Type.String())}
	}
	return []dto.ErrorResponse{invalidData("body", err.Error())}
}

func invalidData(field, msg string) dto.ErrorResponse {
	return dto.ErrorResponse{
		Error:   codeInvalidData,
		Message: fmt.Sprintf("%s has invalid data: %s", field, msg),
	}
}

// fieldPath drops Go type segments ("PagedQueryRequest.ListQueryRequest") from a
// validator namespace, leaving the JSON path.
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		if r := []rune(p)[0]; unicode.IsUpper(r) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return ns
	}
	return strings.Join(kept, ".")
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "utc":
		return "must be expressed in UTC"
	case "direction":
		return "must be asc or desc"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	}
	return "failed " + fe.Tag() + " check"
}
