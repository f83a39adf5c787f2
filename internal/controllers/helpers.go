package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/dtos"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

// formatValidationErrors is a helper to convert validator errors into a user-friendly format.
func formatValidationErrors(errs validator.ValidationErrors) []dtos.ValidationErrorDetail {
	var details []dtos.ValidationErrorDetail
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "gt":
			message = fmt.Sprintf("Field '%s' must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("Field '%s' must be at least %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("Field '%s' must be one of [%s]", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		details = append(details, dtos.ValidationErrorDetail{
			Field:   err.Field(),
			Message: message,
			Code:    "validation_" + err.Tag(),
		})
	}
	return details
}

func contractIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := mux.Vars(r)["contractId"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &utils.AppError{StatusCode: http.StatusBadRequest, Code: utils.ErrCodeInvalidPayload, Message: "Invalid contract id", Err: err}
	}
	return id, nil
}
