package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/core/retry"
	"github.com/vidshare/vidshare/internal/metrics"
)

// ProfileService makes sure every authenticated user owns exactly one profile.
type ProfileService struct {
	repo   ports.ProfileRepository
	policy retry.Policy
	log    zerolog.Logger
	now    func() time.Time
}

// NewProfileService returns a ProfileService retrying inserts under policy.
func NewProfileService(repo ports.ProfileRepository, policy retry.Policy, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, policy: policy, log: log, now: time.Now}
}

// EnsureProfile returns the profile of userID, creating it with IsAdmin=false
// when missing. It is idempotent and never overwrites an existing row.
//
// When the insert keeps failing past the retry budget, EnsureProfile returns a
// degraded, non-admin profile together with an error wrapping
// domain.ErrProfileProvision, so callers can stay usable and still report it.
func (s *ProfileService) EnsureProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("ensure profile: %w: empty user id", domain.ErrInvalidInput)
	}

	existing, err := s.repo.FindByID(ctx, userID)
	if err == nil {
		metrics.ProfileProvisionTotal.WithLabelValues("existing").Inc()
		return existing, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("profile lookup failed, attempting insert")
	}

	var result *domain.Profile
	outcome := "created"
	err = s.policy.Do(ctx, func(attempt int) error {
		p := &domain.Profile{ID: userID, IsAdmin: false, CreatedAt: s.now().UTC()}
		insertErr := s.repo.Insert(ctx, p)

		switch {
		case insertErr == nil:
			metrics.ProfileInsertAttempts.WithLabelValues("ok").Inc()
			result = p
			return nil

		case errors.Is(insertErr, domain.ErrProfileExists):
			// A concurrent session created it first; that row wins.
			metrics.ProfileInsertAttempts.WithLabelValues("exists").Inc()
			found, findErr := s.repo.FindByID(ctx, userID)
			if findErr != nil {
				return retry.Permanent(fmt.Errorf("reload existing profile: %w", findErr))
			}
			result = found
			outcome = "conflict_resolved"
			return nil

		case errors.Is(insertErr, domain.ErrIdentityNotVisible):
			metrics.ProfileInsertAttempts.WithLabelValues("not_visible").Inc()
			s.log.Info().
				Str("user_id", userID).
				Int("attempt", attempt).
				Int("max_attempts", s.policy.MaxAttempts).
				Msg("user record not visible yet, waiting before retry")
			return insertErr

		default:
			metrics.ProfileInsertAttempts.WithLabelValues("error").Inc()
			s.log.Warn().Err(insertErr).
				Str("user_id", userID).
				Int("attempt", attempt).
				Msg("profile insert failed")
			return insertErr
		}
	})
	if err != nil {
		metrics.ProfileProvisionTotal.WithLabelValues("degraded").Inc()
		s.log.Error().Err(err).Str("user_id", userID).Msg("profile provisioning failed, serving degraded profile")
		return domain.DegradedProfile(userID), fmt.Errorf("ensure profile %s: %w: %w", userID, domain.ErrProfileProvision, err)
	}

	metrics.ProfileProvisionTotal.WithLabelValues(outcome).Inc()
	return result, nil
}

// IsAdmin re-reads the admin flag. Lookup failures degrade to false.
func (s *ProfileService) IsAdmin(ctx context.Context, userID string) bool {
	p, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("admin check failed, treating as non-admin")
		}
		return false
	}
	return p.IsAdmin
}

// SetAdmin elevates or demotes a user. It is reachable only from operator
// tooling; no request path can call it.
func (s *ProfileService) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	if err := s.repo.SetAdmin(ctx, userID, isAdmin); err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	s.log.Info().Str("user_id", userID).Bool("is_admin", isAdmin).Msg("admin flag changed")
	return nil
}
