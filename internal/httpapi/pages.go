package httpapi

import (
	"fmt"
	"html"
	"net/http"

	"userdesk.org/internal/auth"
)

// Minimal server-rendered pages. The gate has already routed visitors by
// session state, so these render for the audience they are meant for.

func (a *API) registerPages() {
	a.mux.HandleFunc("/", a.handleIndex)
	a.mux.HandleFunc("/login", a.pageHandler("Sign in"))
	a.mux.HandleFunc("/signup", a.pageHandler("Create account"))
	a.mux.HandleFunc("/dashboard", a.handleDashboard)
	a.mux.HandleFunc("/admin", a.handleAdminPage)
}

func (a *API) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	renderPage(w, "UserDesk", `<p><a href="/login">Sign in</a> or <a href="/signup">create an account</a>.</p>`)
}

func (a *API) pageHandler(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, title, "")
	}
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	body := ""
	if claims != nil {
		body = fmt.Sprintf("<p>Signed in as %s.</p>", html.EscapeString(claims.Email))
	}
	renderPage(w, "Dashboard", body)
}

func (a *API) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	body := ""
	if claims != nil {
		body = fmt.Sprintf("<p>Admin console for %s.</p>", html.EscapeString(claims.Email))
	}
	renderPage(w, "Admin", body)
}

func renderPage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><html><head><title>%s · UserDesk</title></head><body><h1>%s</h1>%s</body></html>\n",
		html.EscapeString(title), html.EscapeString(title), body)
}
