package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"salarydash/internal/domain"
	"salarydash/internal/secrets"
	"salarydash/internal/source"
)

var errInvalidYear = errors.New("year must be an integer")

// APIError is the body of every JSON error response.
type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// errorCodes maps the errors the dashboard can return to what API callers
// see. Order matters: the first match wins.
var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrUnknownSortKey, http.StatusBadRequest, "unknown_sort_key"},
	{errInvalidYear, http.StatusBadRequest, "invalid_year"},
	{source.ErrNoData, http.StatusNotFound, "no_data"},
	{source.ErrNotArray, http.StatusBadGateway, "bad_payload"},
	{ErrRefreshRunning, http.StatusConflict, "refresh_running"},
	{secrets.ErrNoAccount, http.StatusBadRequest, "no_keyring_account"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "upstream_timeout"},
}

// statusFor reports the status and code for err. Anything unmapped came
// from talking to the data API.
func statusFor(err error) (int, string) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.status, ec.code
		}
	}
	return http.StatusBadGateway, "fetch_failed"
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeErr answers with the status and code err maps to.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	WriteError(w, r, status, code, err.Error())
}
