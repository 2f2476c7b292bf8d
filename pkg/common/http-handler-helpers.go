package common

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// StatusError carries the HTTP status a handler error should be answered
// with.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func NewStatusError(code int, err error) error {
	return &StatusError{Code: code, Err: err}
}

func JsonHandler(fn func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(w, r)
		w.Header().Set("Content-Type", "application/json")

		err := fn(w, r, sessionId, json.NewEncoder(w))
		if err != nil {
			log.Printf("Error handling request %s %s: %v", r.Method, r.URL.Path, err)
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				http.Error(w, statusErr.Error(), statusErr.Code)
			}
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
