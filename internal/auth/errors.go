package auth

import (
	"errors"
	"fmt"
)

// ErrInvalidToken indicates the token failed validation. The wrapped variants
// preserve the reason for logs and metrics; callers branch on ErrInvalidToken.
var (
	ErrInvalidToken   = errors.New("auth: invalid token")
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenSignature = fmt.Errorf("%w: bad signature", ErrInvalidToken)
	ErrTokenExpired   = fmt.Errorf("%w: expired", ErrInvalidToken)
)

var (
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	ErrForbidden       = errors.New("auth: forbidden")
	ErrSelfDelete      = errors.New("auth: cannot delete own account")
)
