package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// entity is the JSON shape a ResponseEntity takes when the backend wraps
// one ResponseEntity inside another.
type entity struct {
	Headers         map[string][]string `json:"headers"`
	Body            any                 `json:"body"`
	StatusCode      string              `json:"statusCode"`
	StatusCodeValue int                 `json:"statusCodeValue"`
}

// writeJSON writes data as JSON with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeText writes a plain text body.
func writeText(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(text))
}

// writeEntity answers HTTP 200 with an envelope carrying the inner status.
func writeEntity(w http.ResponseWriter, statusCode int, body any) {
	writeJSON(w, http.StatusOK, entity{
		Headers:         map[string][]string{},
		Body:            body,
		StatusCode:      statusName(statusCode),
		StatusCodeValue: statusCode,
	})
}

// statusName renders a code the way Spring names HttpStatus constants.
func statusName(code int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}

// errorBody mimics the default error document of the backend framework.
type errorBody struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Path   string `json:"path"`
}

func writeFrameworkError(w http.ResponseWriter, r *http.Request, statusCode int) {
	writeJSON(w, statusCode, errorBody{Status: statusCode, Error: http.StatusText(statusCode), Path: r.URL.Path})
}
