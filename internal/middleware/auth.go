// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"gatepass/internal/auth"
)

// contextKey is a private type to avoid context key collisions.
type contextKey string

const grantKey contextKey = "grant"

// GrantFrom returns the access grant attached to the request context, or
// nil if the request was not authenticated.
func GrantFrom(ctx context.Context) *auth.Grant {
	g, _ := ctx.Value(grantKey).(*auth.Grant)
	return g
}

// RequireAudience resolves the request's access token and rejects the
// request unless the grant matches one of the allowed audiences. The grant
// is attached to the request context for handlers to inspect.
func RequireAudience(grants *auth.GrantStore, allowed ...auth.Audience) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				http.Error(w, "missing access token", http.StatusUnauthorized)
				return
			}

			grant, err := grants.Resolve(r.Context(), token)
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if grant == nil {
				http.Error(w, "invalid or expired access token", http.StatusUnauthorized)
				return
			}

			ok := false
			for _, a := range allowed {
				if grant.Audience == a {
					ok = true
					break
				}
			}
			if !ok {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), grantKey, grant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromRequest extracts the access token from the Authorization header
// (Bearer scheme) or, as a fallback for devices that cannot set headers,
// the "token" query parameter.
func tokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return r.URL.Query().Get("token")
}
