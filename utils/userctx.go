package utils

import (
	"net/http"

	"kedai/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

// HasRole reports whether the request's token carries any of the given roles.
func HasRole(r *http.Request, roles ...string) bool {
	held, ok := r.Context().Value(globals.RoleKey).([]string)
	if !ok {
		return false
	}
	for _, want := range roles {
		for _, have := range held {
			if have == want {
				return true
			}
		}
	}
	return false
}
