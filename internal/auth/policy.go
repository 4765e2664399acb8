package auth

// Decide is the pure authorization decision over (claims, target, action).
// It is evaluated fresh on every request and never cached: role and identity
// may change between requests.
//
// Precedence:
//  1. no valid claims: unauthenticated
//  2. ADMIN: allowed everything except deleting their own record
//  3. USER acting on self: view and edit of profile fields only
//  4. anything else: forbidden
func Decide(claims *Claims, targetID string, action Action) error {
	if claims == nil || claims.Subject == "" || !claims.Role.Valid() {
		return ErrUnauthenticated
	}
	if claims.Role == RoleAdmin {
		if action == ActionDelete && claims.Subject == targetID {
			return ErrSelfDelete
		}
		return nil
	}
	if claims.Subject == targetID {
		switch action {
		case ActionView, ActionEdit:
			return nil
		}
	}
	return ErrForbidden
}
