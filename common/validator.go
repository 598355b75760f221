package common

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateAndDecode decodes the JSON body into payload and runs struct
// validation. On failure it writes a 400 response and returns false; the
// caller should stop handling the request.
func ValidateAndDecode(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		NewAppError(http.StatusBadRequest, "Invalid request body", err).Send(w)
		return false
	}

	if err := validate.Struct(payload); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		NewAppError(http.StatusBadRequest, "Validation failed", nil).WithDetails(validationErrors.Error()).Send(w)
		return false
	}

	return true
}
