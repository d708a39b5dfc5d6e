package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jcmacallan-svg/ww1/internal/services"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeBody reads exactly one JSON object into dst, rejecting unknown
// fields and trailing content. On failure it writes the 400 itself and
// returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps the session sentinels onto HTTP statuses.
// Anything unrecognized is an internal failure and gets logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, services.ErrNoCatalogue):
		writeError(w, r, http.StatusConflict, "no active catalogue")
	case errors.Is(err, services.ErrUnknownCatalogue):
		writeError(w, r, http.StatusNotFound, "unknown catalogue")
	case errors.Is(err, services.ErrNoPlan):
		writeError(w, r, http.StatusConflict, "no plan for the current favorites and settings")
	case errors.Is(err, services.ErrNoDraft):
		writeError(w, r, http.StatusNotFound, "no saved draft")
	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
