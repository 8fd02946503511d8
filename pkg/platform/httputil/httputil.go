package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "wardaudit/pkg/domain-errors"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal errors never leak their description.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := dErrors.CodeInternal
	body := map[string]any{}

	if de, ok := dErrors.As(err); ok {
		code = de.Code
		status = dErrors.ToHTTPStatus(de.Code)
		if status != http.StatusInternalServerError && de.Message != "" {
			body["error_description"] = de.Message
		}
		for k, v := range de.Fields {
			body[k] = v
		}
	}
	body["error"] = string(code)
	WriteJSON(w, status, body)
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
