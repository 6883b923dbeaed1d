package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/atendo/backend/internal/http/respond"
)

var payloadValidator = validator.New(validator.WithRequiredStructEnabled())

// fieldViolation names one payload field that failed validation and the rule
// it broke. Field detail is safe here: it describes the caller's own input.
type fieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// decodeValid parses and schema-checks a JSON payload before the handler body
// runs. On failure it writes the invalid_input response itself and returns
// ok=false; on success the handler receives the typed payload and never
// re-validates.
func decodeValid[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var payload T
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.CodeInvalidInput, "invalid JSON payload")
		return payload, false
	}

	if err := payloadValidator.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]fieldViolation, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fieldViolation{Field: fe.Field(), Rule: fe.Tag()})
			}
			respond.ErrorDetails(w, http.StatusBadRequest, respond.CodeInvalidInput, "invalid input data", details)
			return payload, false
		}
		respond.Error(w, http.StatusBadRequest, respond.CodeInvalidInput, "input validation failed")
		return payload, false
	}

	return payload, true
}
