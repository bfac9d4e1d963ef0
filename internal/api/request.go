package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/httputil"
	"onlinemart-be/internal/middleware"

	"github.com/gorilla/mux"
)

// decodeBody parses the JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.BadRequest("Malformed request body.")
	}
	return nil
}

// pathID extracts a positive integer path variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest("Invalid " + name + ".")
	}
	return id, nil
}

// currentUserID reads the authenticated user id placed by the auth
// middleware. Routes behind Authenticate always have it; a miss means a
// wiring bug, surfaced as ServerError.
func currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, apperr.New(apperr.CodeServer, "Unexpected error occurred"))
		return 0, false
	}
	return id, true
}
