package utils

import (
	"net/http"
)

// ResponseRedirect sends 302 Found to path
func ResponseRedirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

// ResponseText writes a plain-text body, used where no template can be rendered
func ResponseText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write([]byte(message))
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter) {
	ResponseText(w, http.StatusInternalServerError, "Internal server error")
}
