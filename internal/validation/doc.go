// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

// Package validation provides request and event validation on top of
// go-playground/validator v10.
//
// A single validator instance is shared process-wide. It reports fields by
// their JSON name, so error details match the wire format clients send.
//
// # Custom Tags
//
//   - interaction: an interaction type accepted by models.ParseInteractionType
//     (view, purchase, wishlist, cart, try_on and their aliases)
//   - season: spring, summer, fall or winter, case-insensitive
//   - rec_context: a recommendation context (empty, browse, outfit_completion,
//     gift, chat)
//
// # Error Format
//
// RequestValidationError.ToAPIError produces the VALIDATION_ERROR envelope
// used by internal/api:
//
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "user_id is required",
//	    "details": {"field": "user_id", "tag": "required", "value": ""}
//	}
//
// Multiple failures are listed under details.fields.
//
// # Example
//
//	type InteractionRequest struct {
//	    ProductID string `json:"product_id" validate:"required,max=128"`
//	    Type      string `json:"type" validate:"omitempty,interaction"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
