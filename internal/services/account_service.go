package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/repositories"
	"github.com/WillSeigler/Bookd/internal/session"
	"github.com/WillSeigler/Bookd/pkg/firebase"
	"golang.org/x/crypto/bcrypt"
)

// Session is what a successful sign-in hands back to the client.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AccountService handles local and Firebase sign-in.
type AccountService struct {
	users    repositories.UserRepository
	verifier firebase.TokenVerifier
	secret   string
	logger   *slog.Logger
}

// NewAccountService wires an AccountService. verifier may be nil when
// Firebase is not configured; Firebase logins then fail as unauthenticated.
func NewAccountService(users repositories.UserRepository, verifier firebase.TokenVerifier, secret string, logger *slog.Logger) *AccountService {
	return &AccountService{
		users:    users,
		verifier: verifier,
		secret:   secret,
		logger:   orDefault(logger),
	}
}

// Signup registers an email/password account and signs it in.
func (s *AccountService) Signup(ctx context.Context, req models.SignupRequest) (*Session, error) {
	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, apperr.Validation("full_name", "is required")
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: user with this email already registered", apperr.ErrConflict)
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{FullName: fullName, Email: email, Password: string(hashed)}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User signed up", "user_id", user.ID)
	return s.issue(user)
}

// SignIn checks an email/password pair.
func (s *AccountService) SignIn(ctx context.Context, req models.SignInRequest) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	// Firebase-only accounts have no local password.
	if user.Password == "" {
		return nil, apperr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	return s.issue(user)
}

// FirebaseLogin exchanges a Firebase ID token for a local session.
func (s *AccountService) FirebaseLogin(ctx context.Context, idToken string) (*Session, error) {
	user, err := s.ResolveFirebaseUser(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// ResolveFirebaseUser verifies idToken and returns the matching local user.
// A user found by email is linked to the Firebase account; an unknown
// identity gets a new user.
func (s *AccountService) ResolveFirebaseUser(ctx context.Context, idToken string) (*models.User, error) {
	if s.verifier == nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, firebase.ErrNotConfigured)
	}
	identity, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Firebase ID token", apperr.ErrUnauthenticated)
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, identity.UID)
	if err == nil {
		return user, s.refresh(ctx, user, identity)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	email := normalizeEmail(identity.Email)
	if email != "" {
		user, err = s.users.GetUserByEmail(ctx, email)
		if err == nil {
			user.FirebaseUID = &identity.UID
			if err := s.users.UpdateUser(ctx, user); err != nil {
				return nil, err
			}
			s.logger.InfoContext(ctx, "Linked Firebase account", "user_id", user.ID)
			return user, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
	}

	uid := identity.UID
	user = &models.User{
		FullName:    identity.Name,
		Email:       email,
		AvatarURL:   identity.Picture,
		FirebaseUID: &uid,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Created user from Firebase login", "user_id", user.ID)
	return user, nil
}

// refresh copies changed identity fields onto an existing user.
func (s *AccountService) refresh(ctx context.Context, user *models.User, identity *firebase.Identity) error {
	changed := false
	if email := normalizeEmail(identity.Email); email != "" && email != user.Email {
		user.Email = email
		changed = true
	}
	if identity.Name != "" && user.FullName == "" {
		user.FullName = identity.Name
		changed = true
	}
	if !changed {
		return nil
	}
	return s.users.UpdateUser(ctx, user)
}

func (s *AccountService) issue(user *models.User) (*Session, error) {
	token, err := session.IssueToken(s.secret, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
