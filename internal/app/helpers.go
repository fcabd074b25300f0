package app

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

// writeJSON encodes v with the given status and logs encoding failures
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeStayError maps core errors onto 400 responses
func writeStayError(w http.ResponseWriter, err error) {
	var dateErr *stay.InvalidDateError
	var rangeErr *stay.InvalidRangeError
	var cfgErr *stay.InvalidConfigError
	switch {
	case errors.As(err, &dateErr):
		http.Error(w, ErrInvalidDateFormat+": "+dateErr.Value, http.StatusBadRequest)
	case errors.As(err, &rangeErr):
		http.Error(w, ErrInvalidRange, http.StatusBadRequest)
	case errors.As(err, &cfgErr):
		http.Error(w, cfgErr.Error(), http.StatusBadRequest)
	default:
		log.Printf("Unexpected error: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
	}
}

// dateParam parses an optional YYYY-MM-DD query parameter
func dateParam(r *http.Request, name string, def time.Time) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return stay.ParseDate(v)
}
