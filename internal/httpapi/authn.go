package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"userdesk.org/internal/auth"
	"userdesk.org/internal/obs"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// API paths reachable without a token. Everything else under /api/ requires
// a verified bearer token; non-API paths are the session gate's business.
var publicAPIPaths = []string{
	"/api/auth/signup",
	"/api/auth/login",
	"/api/auth/logout",
}

func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicAPIPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			// Browser calls carry the session cookie instead of a header.
			if c, cerr := r.Cookie(sessionCookie); cerr == nil && c.Value != "" {
				token = c.Value
			} else {
				unauthorized(w, r, err.Error())
				return
			}
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			obs.ObserveTokenVerification("invalid")
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				unauthorized(w, r, "invalid token")
			default:
				writeError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}
		obs.ObserveTokenVerification("ok")

		ctx := auth.ContextWithClaims(r.Context(), claims)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="userdesk"`)
	writeError(w, r, http.StatusUnauthorized, msg)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicAPIPath(path string) bool {
	for _, p := range publicAPIPaths {
		if path == p {
			return true
		}
	}
	return false
}
