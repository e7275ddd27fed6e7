// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrorCode is the API error code of every validation failure.
const ErrorCode = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// vocabularyTag is a custom tag that accepts a fixed set of words.
// Matching ignores case and surrounding space.
type vocabularyTag struct {
	name    string
	words   []string
	message string
}

var vocabularyTags = []vocabularyTag{
	{
		name: "interaction",
		words: []string{
			"view", "purchase", "buy", "order",
			"wishlist", "wishlist_add", "wishlist-add",
			"cart", "add_to_cart", "cart_add",
			"try_on", "tryon", "try-on",
		},
		message: "%s must be one of: view, purchase, wishlist, cart, try_on",
	},
	{
		name:    "season",
		words:   []string{"spring", "summer", "fall", "autumn", "winter"},
		message: "%s must be one of: spring, summer, fall, winter",
	},
	{
		name:    "rec_context",
		words:   []string{"", "browse", "outfit_completion", "gift", "chat"},
		message: "%s must be one of: browse, outfit_completion, gift, chat",
	},
}

func (v vocabularyTag) validator() validator.Func {
	allowed := make(map[string]struct{}, len(v.words))
	for _, w := range v.words {
		allowed[w] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := allowed[strings.ToLower(strings.TrimSpace(fl.Field().String()))]
		return ok
	}
}

// FieldError is one failed rule, keyed by the field's JSON name.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   any
	Message string
}

// Error implements error.
func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError lists every failed rule of one request.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the failed rules in declaration order.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

// Error joins the field messages.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	return strings.Join(ve.messages(), "; ")
}

func (ve *RequestValidationError) messages() []string {
	out := make([]string, len(ve.errors))
	for i := range ve.errors {
		out[i] = ve.errors[i].Message
	}
	return out
}

// APIError is the error body produced for API responses.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError builds the VALIDATION_ERROR body. A single failure is described
// inline; several are listed under "fields".
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.errors) {
	case 0:
		return &APIError{Code: ErrorCode, Message: "Validation failed"}
	case 1:
		fe := ve.errors[0]
		return &APIError{
			Code:    ErrorCode,
			Message: fe.Message,
			Details: map[string]any{"field": fe.Field, "tag": fe.Tag, "value": fe.Value},
		}
	}

	fields := make([]map[string]any, len(ve.errors))
	for i, fe := range ve.errors {
		fields[i] = map[string]any{"field": fe.Field, "tag": fe.Tag, "message": fe.Message}
	}
	return &APIError{
		Code:    ErrorCode,
		Message: ve.Error(),
		Details: map[string]any{"fields": fields},
	}
}

// GetValidator returns the shared validator with the custom tags registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		for _, tag := range vocabularyTags {
			// Registration only fails for empty tags or nil funcs.
			_ = validate.RegisterValidation(tag.name, tag.validator())
		}
	})
	return validate
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// ValidateStruct validates s. It returns nil when every rule passes.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

// comparisonMessages are templates taking the field name and the tag param.
var comparisonMessages = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func message(fe validator.FieldError) string {
	field, tag := fe.Field(), fe.Tag()
	switch tag {
	case "required":
		return field + " is required"
	case "dive":
		return field + " contains an invalid element"
	case "min", "max":
		return sizeMessage(fe.Kind(), field, tag, fe.Param())
	}
	for _, vt := range vocabularyTags {
		if vt.name == tag {
			return fmt.Sprintf(vt.message, field)
		}
	}
	if tmpl, ok := comparisonMessages[tag]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}

// sizeMessage words min/max by kind: characters for strings, items for
// collections and plain numbers otherwise.
func sizeMessage(kind reflect.Kind, field, tag, param string) string {
	var unit string
	switch kind {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " items"
	}
	bound := "at least"
	if tag == "max" {
		bound = "at most"
	}
	return fmt.Sprintf("%s must be %s %s%s", field, bound, param, unit)
}
