package httpapi

import (
	"net/http"
	"strings"

	"userdesk.org/internal/account"
	"userdesk.org/internal/audit"
	"userdesk.org/internal/auth"
)

type createUserRequest struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone,omitempty"`
	Role     auth.Role `json:"role,omitempty"`
}

type updateUserRequest struct {
	Email    *string    `json:"email,omitempty"`
	Password *string    `json:"password,omitempty"`
	Name     *string    `json:"name,omitempty"`
	Phone    *string    `json:"phone,omitempty"`
	Role     *auth.Role `json:"role,omitempty"`
}

func (a *API) handleUsersCollection(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		unauthorized(w, r, "authentication required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		users, err := a.accounts.ListUsers(r.Context(), claims)
		if err != nil {
			handleAccountError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"users": users,
			"count": len(users),
		})

	case http.MethodPost:
		var req createUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		user, err := a.accounts.CreateUser(r.Context(), claims, account.CreateUserRequest{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Phone:    req.Phone,
			Role:     req.Role,
		})
		if err != nil {
			handleAccountError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "user.create", map[string]any{
			"target_id": user.ID,
			"role":      string(user.Role),
		})
		w.Header().Set("Location", "/api/admin/users/"+user.ID)
		writeJSON(w, http.StatusCreated, map[string]any{"user": user})

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/users/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "user not found")
		return
	}
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		unauthorized(w, r, "authentication required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := a.accounts.GetUser(r.Context(), claims, id)
		if err != nil {
			handleAccountError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})

	case http.MethodPut:
		var req updateUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		user, err := a.accounts.UpdateUser(r.Context(), claims, id, account.UpdatePatch{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Phone:    req.Phone,
			Role:     req.Role,
		})
		if err != nil {
			handleAccountError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "user.update", map[string]any{
			"target_id": user.ID,
		})
		writeJSON(w, http.StatusOK, map[string]any{"user": user})

	case http.MethodDelete:
		if err := a.accounts.DeleteUser(r.Context(), claims, id); err != nil {
			handleAccountError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "user.delete", map[string]any{
			"target_id": id,
		})
		writeJSON(w, http.StatusOK, map[string]any{"message": "user deleted"})

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
