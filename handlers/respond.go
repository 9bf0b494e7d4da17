// Package handlers exposes the HTTP surface. Each handler declares the
// narrow service interface it consumes so tests can substitute fakes.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"projection/models"
)

// writeJSON renders v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders a bare error object for request-shape problems that
// never reached the service layer.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// contentParams pulls the media type and TMDB id out of the route.
func contentParams(r *http.Request) (models.ContentType, int64, error) {
	vars := mux.Vars(r)
	ct, err := models.ParseContentType(vars["mediaType"])
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(vars["id"]), 10, 64)
	if err != nil || id <= 0 {
		return "", 0, strconv.ErrSyntax
	}
	return ct, id, nil
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
