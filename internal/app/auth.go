package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"barrio_hotels/internal/domain"
)

type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionStore
	ttl      time.Duration
}

func NewAuthService(u domain.UserRepository, s domain.SessionStore, ttl time.Duration) *AuthService {
	return &AuthService{users: u, sessions: s, ttl: ttl}
}

type CredentialsInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Register creates a regular (non-admin) user. Admin accounts are only
// created by the seed command.
func (s *AuthService) Register(ctx context.Context, in CredentialsInput) (domain.User, error) {
	if err := validateInput(in); err != nil {
		return domain.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.CreateUser(ctx, domain.User{Username: in.Username, PasswordHash: string(hash)})
}

// Login verifies the credential and opens a session. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in CredentialsInput) (domain.Session, error) {
	u, err := s.users.GetUserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, domain.ErrUnauthorized
		}
		return domain.Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return domain.Session{}, domain.ErrUnauthorized
	}
	sess := domain.Session{
		Token:    uuid.NewString(),
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
	if err := s.sessions.Put(ctx, sess, s.ttl); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Del(ctx, token)
}

// ActorFromToken resolves a session token to an actor. A missing or expired
// session yields the anonymous actor rather than an error; gated operations
// then fail on the guard.
func (s *AuthService) ActorFromToken(ctx context.Context, token string) (domain.Actor, error) {
	if token == "" {
		return domain.Actor{}, nil
	}
	sess, ok, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.Actor{}, err
	}
	if !ok {
		return domain.Actor{}, nil
	}
	return sess.Actor(), nil
}
