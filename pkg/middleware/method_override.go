package middleware

import (
	"net/http"
	"strings"
)

const methodOverrideField = "_method"

// MethodOverride lets HTML forms reach PUT and DELETE routes by posting a
// hidden _method field. Only POST requests are rewritten.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			method := strings.ToUpper(r.Header.Get("X-HTTP-Method-Override"))
			if method == "" {
				method = strings.ToUpper(r.PostFormValue(methodOverrideField))
			}

			switch method {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = method
			}
		}

		next.ServeHTTP(w, r)
	})
}
