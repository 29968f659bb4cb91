package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Callable status codes, as understood by the Firebase client SDKs.
const (
	StatusInvalidArgument    = "INVALID_ARGUMENT"
	StatusFailedPrecondition = "FAILED_PRECONDITION"
	StatusUnauthenticated    = "UNAUTHENTICATED"
	StatusInternal           = "INTERNAL"
)

var httpStatus = map[string]int{
	StatusInvalidArgument:    http.StatusBadRequest,
	StatusFailedPrecondition: http.StatusBadRequest,
	StatusUnauthenticated:    http.StatusUnauthorized,
	StatusInternal:           http.StatusInternalServerError,
}

// CallableError is returned by a callable to send a typed error to the client.
type CallableError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *CallableError) Error() string { return e.Status + ": " + e.Message }

func newCallableError(status, message string) *CallableError {
	return &CallableError{Status: status, Message: message}
}

type callRequest[Req any] struct {
	Data Req `json:"data"`
}

type callResult[Res any] struct {
	Result Res `json:"result"`
}

type callFailure struct {
	Error *CallableError `json:"error"`
}

// Callable adapts fn to the Firebase callable protocol: a POST with
// {"data": ...} in, {"result": ...} or {"error": {status, message}} out.
// Errors that are not a *CallableError are reported as INTERNAL without
// their message.
func Callable[Req, Res any](fn func(r *http.Request, data Req) (Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeCallableError(w, newCallableError(StatusInvalidArgument, "Bad Request"))
			return
		}

		var req callRequest[Req]
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Warn("Could not decode callable request", "error", err)
			writeCallableError(w, newCallableError(StatusInvalidArgument, "Bad Request"))
			return
		}

		res, err := fn(r, req.Data)
		if err != nil {
			var ce *CallableError
			if !errors.As(err, &ce) {
				slog.Error("Unhandled callable error", "error", err)
				ce = newCallableError(StatusInternal, "INTERNAL")
			}
			writeCallableError(w, ce)
			return
		}
		writeJSON(w, http.StatusOK, callResult[Res]{Result: res})
	}
}

func writeCallableError(w http.ResponseWriter, ce *CallableError) {
	code, ok := httpStatus[ce.Status]
	if !ok {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, callFailure{Error: ce})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
