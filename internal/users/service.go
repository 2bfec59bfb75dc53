package users

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"opsdesk/internal/rbac"
	"opsdesk/pkg/domerr"
	"opsdesk/pkg/requestcontext"
	"opsdesk/pkg/sentinel"
)

// Service owns account lifecycle and credential checks. Permission gating
// happens at the transport layer; the service validates input and state only.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new user with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, name, email, password string, role rbac.Role) (User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return User{}, domerr.New(domerr.CodeBadRequest, "name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return User{}, domerr.New(domerr.CodeBadRequest, "valid email is required")
	}
	if password == "" {
		return User{}, domerr.New(domerr.CodeBadRequest, "password is required")
	}
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return User{}, domerr.New(domerr.CodeConflict, "email already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return User{}, domerr.Wrap(domerr.CodeInternal, "lookup user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, domerr.Wrap(domerr.CodeInternal, "hash password", err)
	}
	now := requestcontext.Now(ctx)
	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Save(ctx, user); err != nil {
		return User{}, domerr.Wrap(domerr.CodeInternal, "save user", err)
	}
	return user, nil
}

// Authenticate checks the email/password pair and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.store.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return User{}, domerr.New(domerr.CodeUnauthorized, "invalid credentials")
		}
		return User{}, domerr.Wrap(domerr.CodeInternal, "lookup user", err)
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return User{}, domerr.New(domerr.CodeUnauthorized, "invalid credentials")
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return User{}, domerr.New(domerr.CodeNotFound, "user not found")
		}
		return User{}, domerr.Wrap(domerr.CodeInternal, "lookup user", err)
	}
	return user, nil
}

// List returns all users ordered by creation time, oldest first.
func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, domerr.Wrap(domerr.CodeInternal, "list users", err)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

// Update applies partial changes. A role change takes effect on the target's
// next permission check; outstanding tokens keep the old role until reissued.
func (s *Service) Update(ctx context.Context, id string, upd Update) (User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return User{}, domerr.New(domerr.CodeBadRequest, "name is required")
		}
		user.Name = trimmed
	}
	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		if email == "" || !strings.Contains(email, "@") {
			return User{}, domerr.New(domerr.CodeBadRequest, "valid email is required")
		}
		if existing, err := s.store.FindByEmail(ctx, email); err == nil {
			if existing.ID != user.ID {
				return User{}, domerr.New(domerr.CodeConflict, "email already registered")
			}
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return User{}, domerr.Wrap(domerr.CodeInternal, "lookup user", err)
		}
		user.Email = email
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	user.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Save(ctx, user); err != nil {
		return User{}, domerr.Wrap(domerr.CodeInternal, "save user", err)
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domerr.New(domerr.CodeNotFound, "user not found")
		}
		return domerr.Wrap(domerr.CodeInternal, "delete user", err)
	}
	return nil
}

// DisplayName resolves an id for views. Misses return the Unknown sentinel
// rather than failing: stale references degrade gracefully, they are not
// validated here.
func (s *Service) DisplayName(ctx context.Context, id string) string {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return "Unknown"
	}
	return user.Name
}
