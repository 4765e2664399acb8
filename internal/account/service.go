package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"userdesk.org/internal/auth"
	"userdesk.org/internal/directory"
)

var (
	// ErrInvalidInput signals a malformed email, weak password or missing field.
	ErrInvalidInput = errors.New("account: invalid input")
	// ErrInvalidCredentials is the single generic login failure. It never
	// reveals whether the email exists.
	ErrInvalidCredentials = errors.New("account: invalid credentials")
)

const minPasswordLength = 5

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service orchestrates signup, login and user CRUD by composing the
// credential hasher, token service, authorization policy and directory.
type Service struct {
	dir    directory.Store
	tokens *auth.TokenService
}

// NewService constructs the account service.
func NewService(dir directory.Store, tokens *auth.TokenService) (*Service, error) {
	if dir == nil {
		return nil, errors.New("account: directory store is required")
	}
	if tokens == nil {
		return nil, errors.New("account: token service is required")
	}
	return &Service{dir: dir, tokens: tokens}, nil
}

// Session bundles the authenticated user with a freshly minted token.
type Session struct {
	User      directory.User
	Token     string
	ExpiresAt time.Time
}

// SignupRequest carries self-service registration input.
type SignupRequest struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// CreateUserRequest carries admin-initiated account creation input.
type CreateUserRequest struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     auth.Role
}

// UpdatePatch carries the fields a caller asks to change; nil means untouched.
type UpdatePatch struct {
	Email    *string
	Password *string
	Name     *string
	Phone    *string
	Role     *auth.Role
}

// Signup registers a new USER account and mints a session token.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (Session, error) {
	if err := validateEmail(req.Email); err != nil {
		return Session{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return Session{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	// Fast-path check for a friendlier error; the store's unique constraint
	// remains the arbiter under concurrent signups.
	if _, err := s.dir.FindByEmail(ctx, req.Email); err == nil {
		return Session{}, directory.ErrConflict
	} else if !errors.Is(err, directory.ErrNotFound) {
		return Session{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return Session{}, err
	}
	user := directory.User{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		Role:         auth.RoleUser,
		PasswordHash: hash,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = &phone
	}
	if err := s.dir.Create(ctx, &user); err != nil {
		return Session{}, err
	}
	return s.mintSession(user)
}

// Login authenticates credentials and mints a session token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	user, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.mintSession(user)
}

// GetUser returns a record if policy allows the caller to view it. The policy
// check runs before the lookup so unauthorized callers learn nothing about
// whether the target exists.
func (s *Service) GetUser(ctx context.Context, claims *auth.Claims, targetID string) (directory.User, error) {
	if err := auth.Decide(claims, targetID, auth.ActionView); err != nil {
		return directory.User{}, err
	}
	return s.dir.Find(ctx, targetID)
}

// UpdateUser applies a patch under per-field policy. Role and email changes
// the caller is not entitled to are dropped, not rejected; everything else
// requires edit permission on the target.
func (s *Service) UpdateUser(ctx context.Context, claims *auth.Claims, targetID string, patch UpdatePatch) (directory.User, error) {
	if err := auth.Decide(claims, targetID, auth.ActionEdit); err != nil {
		return directory.User{}, err
	}

	var upd directory.UserUpdate
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return directory.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		upd.Name = &name
	}
	if patch.Phone != nil {
		phone := strings.TrimSpace(*patch.Phone)
		upd.Phone = &phone
	}
	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return directory.User{}, err
		}
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return directory.User{}, err
		}
		upd.PasswordHash = &hash
	}
	if patch.Email != nil && auth.Decide(claims, targetID, auth.ActionEditEmail) == nil {
		if err := validateEmail(*patch.Email); err != nil {
			return directory.User{}, err
		}
		upd.Email = patch.Email
	}
	if patch.Role != nil && auth.Decide(claims, targetID, auth.ActionEditRole) == nil {
		if !patch.Role.Valid() {
			return directory.User{}, fmt.Errorf("%w: unsupported role %q", ErrInvalidInput, *patch.Role)
		}
		upd.Role = patch.Role
	}

	return s.dir.Update(ctx, targetID, upd)
}

// DeleteUser removes a record. Admin only; self-deletion is refused with a
// distinct error even for admins.
func (s *Service) DeleteUser(ctx context.Context, claims *auth.Claims, targetID string) error {
	if err := auth.Decide(claims, targetID, auth.ActionDelete); err != nil {
		return err
	}
	return s.dir.Delete(ctx, targetID)
}

// ListUsers returns all records in store-native order. Admin only.
func (s *Service) ListUsers(ctx context.Context, claims *auth.Claims) ([]directory.User, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}
	return s.dir.List(ctx)
}

// CreateUser is the admin-initiated variant of signup: any role may be set
// and no session is minted for the new account.
func (s *Service) CreateUser(ctx context.Context, claims *auth.Claims, req CreateUserRequest) (directory.User, error) {
	if err := requireAdmin(claims); err != nil {
		return directory.User{}, err
	}
	if err := validateEmail(req.Email); err != nil {
		return directory.User{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return directory.User{}, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return directory.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	role := req.Role
	if role == "" {
		role = auth.RoleUser
	}
	if !role.Valid() {
		return directory.User{}, fmt.Errorf("%w: unsupported role %q", ErrInvalidInput, req.Role)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return directory.User{}, err
	}
	user := directory.User{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		PasswordHash: hash,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = &phone
	}
	if err := s.dir.Create(ctx, &user); err != nil {
		return directory.User{}, err
	}
	return user, nil
}

func (s *Service) mintSession(user directory.User) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func requireAdmin(claims *auth.Claims) error {
	if claims == nil || claims.Subject == "" || !claims.Role.Valid() {
		return auth.ErrUnauthenticated
	}
	if claims.Role != auth.RoleAdmin {
		return auth.ErrForbidden
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}
