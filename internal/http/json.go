package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/target/placesmap/internal/errors"
)

const maxJSONBodyBytes = 1 << 20

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_json",
			Err:     apperrors.Validation("El cuerpo de la petición no es JSON válido."),
		})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// errorBody is the JSON error envelope. Error carries the user-facing message.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, errorBody{Error: apperrors.UserMessage(p.Err), Code: p.ErrCode})
}

// WriteAppError writes err with the status and code derived from its AppError classification.
func WriteAppError(w http.ResponseWriter, err error) {
	WriteError(w, ErrorParams{
		Code:    apperrors.StatusCode(err),
		ErrCode: string(apperrors.GetCode(err)),
		Err:     err,
	})
}
