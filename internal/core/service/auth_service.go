package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/metrics"
)

const (
	profileWarning      = "account is usable but profile setup failed; an operator has been notified"
	confirmationWarning = "please confirm your email address before logging in"
)

// AuthOptions tunes AuthService.
type AuthOptions struct {
	JWTSecret string
	TokenTTL  time.Duration
	// RequireConfirmation makes new accounts unconfirmed until an operator
	// confirms them; login is refused until then.
	RequireConfirmation bool
}

// AuthService implements signup, login and logout.
type AuthService struct {
	users    ports.UserRepository
	profiles ports.ProfileService
	sessions ports.SessionStore
	opts     AuthOptions
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(users ports.UserRepository, profiles ports.ProfileService, sessions ports.SessionStore, opts AuthOptions, log zerolog.Logger) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:    users,
		profiles: profiles,
		sessions: sessions,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// SignUp creates the account and provisions its profile. A provisioning
// failure does not fail the signup; the result carries a warning instead.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*ports.SignUpResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Confirmed:    !s.opts.RequireConfirmation,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	res := &ports.SignUpResult{User: user}
	profile, err := s.profiles.EnsureProfile(ctx, user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("signup: profile provisioning failed")
		res.Warning = profileWarning
	}
	res.Profile = profile
	if !user.Confirmed && res.Warning == "" {
		res.Warning = confirmationWarning
	}

	s.log.Info().Str("user_id", user.ID).Bool("confirmed", user.Confirmed).Msg("account created")
	return res, nil
}

// Login checks credentials, opportunistically provisions the profile, opens a
// session and returns a signed token bound to it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	res, err := s.login(ctx, normalizeEmail(email), password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return res, nil
}

func (s *AuthService) login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, domain.ErrEmailNotConfirmed
	}

	res := &ports.LoginResult{}
	profile, err := s.profiles.EnsureProfile(ctx, user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("login: profile provisioning failed")
		res.Warning = profileWarning
	}
	if profile == nil {
		profile = domain.DegradedProfile(user.ID)
	}

	now := s.now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		User:      *user,
		Profile:   *profile,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.TokenTTL),
	}
	token, err := s.generateToken(session)
	if err != nil {
		return nil, err
	}
	session.Token = token

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("session_id", session.ID).Bool("admin", profile.IsAdmin).Msg("logged in")
	res.Token = token
	res.Session = session
	return res, nil
}

// Logout discards the session. Unknown sessions are not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("close session: %w", err)
	}
	s.log.Info().Str("session_id", sessionID).Msg("logged out")
	return nil
}

// ConfirmEmail marks an account as confirmed. Operator tooling only.
func (s *AuthService) ConfirmEmail(ctx context.Context, email string) error {
	if err := s.users.Confirm(ctx, normalizeEmail(email)); err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	return nil
}

func (s *AuthService) generateToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":   session.User.ID,
		"email": session.User.Email,
		"sid":   session.ID,
		"iat":   session.CreatedAt.Unix(),
		"exp":   session.ExpiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.opts.JWTSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
