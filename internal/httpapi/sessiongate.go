package httpapi

import (
	"net/http"
	"strings"

	"userdesk.org/internal/auth"
)

// Page route groups. The gate decides on the cookie alone and redirects
// before any page handler runs; API paths pass straight through to the
// bearer-token middleware.
var (
	authPageRoutes      = []string{"/login", "/signup"}
	protectedPageRoutes = []string{"/dashboard", "/admin"}
	adminPageRoutes     = []string{"/admin"}
)

// sessionGate enforces the browser navigation rules:
//   - logged-in visitors on /login or /signup are sent to their home page,
//   - anonymous visitors on protected pages are sent to /login,
//   - non-admins on admin pages are sent to /dashboard,
//   - a cookie that fails verification is cleared and the visitor is
//     treated as anonymous.
func (a *API) sessionGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case matchesRoute(path, authPageRoutes):
			claims, ok := a.sessionClaims(w, r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, homeFor(claims.Role), http.StatusTemporaryRedirect)

		case matchesRoute(path, protectedPageRoutes):
			claims, ok := a.sessionClaims(w, r)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
				return
			}
			if matchesRoute(path, adminPageRoutes) && claims.Role != auth.RoleAdmin {
				http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))

		default:
			next.ServeHTTP(w, r)
		}
	})
}

// sessionClaims verifies the session cookie. An invalid or expired cookie is
// cleared so the browser does not keep resending it.
func (a *API) sessionClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil, false
	}
	claims, err := a.tokens.Verify(c.Value)
	if err != nil {
		clearSessionCookie(w)
		return nil, false
	}
	return claims, true
}

func homeFor(role auth.Role) string {
	if role == auth.RoleAdmin {
		return "/admin"
	}
	return "/dashboard"
}

func matchesRoute(path string, routes []string) bool {
	for _, route := range routes {
		if path == route || strings.HasPrefix(path, route+"/") {
			return true
		}
	}
	return false
}
