package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/foodgram/internal/models"
	"github.com/Skotchmaster/foodgram/internal/mykafka"
	"github.com/Skotchmaster/foodgram/internal/repo"
	pkg_hash "github.com/Skotchmaster/foodgram/pkg/hash"
	jwthelp "github.com/Skotchmaster/foodgram/pkg/jwt"
	"github.com/Skotchmaster/foodgram/pkg/logging"
	"github.com/Skotchmaster/foodgram/pkg/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	Events        EventPublisher
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*tokens.Pair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	access, err := tokens.SignAccessToken(user.ID.String(), user.Role, accessExp, s.AccessSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshExp := now.Add(tokens.RefreshTTL)
	jti := jwthelp.NewJTI()
	refresh, err := tokens.SignRefreshToken(user.ID.String(), jti, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("sign refresh token: %w", err)
	}

	row := &models.RefreshToken{
		UserID:    user.ID,
		JTI:       jti,
		Token:     jwthelp.TokenDigest(refresh),
		ExpiresAt: refreshExp.Unix(),
	}
	return &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		Role:         user.Role,
	}, row, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive || !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if pkg_hash.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, password)
	}

	pair, row, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, row); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	l.Info("login_success", "user_id", user.ID)
	publish(ctx, s.Events, mykafka.TopicUserEvents, "user_logged_in", user.ID, uuid.Nil)
	return pair, nil
}

// rehash upgrades a digest made with an outdated cost. Failure only costs
// another rehash on the next login.
func (s *AuthService) rehash(ctx context.Context, userID uuid.UUID, password string) {
	digest, err := pkg_hash.HashPassword(password)
	if err == nil {
		err = s.Repo.SetPassword(ctx, userID, digest)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("password_rehash_failed", "user_id", userID, "error", err)
	}
}

// Refresh rotates refreshToken: the old one is revoked and a new pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidRefreshToken)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user gone", ErrInvalidRefreshToken)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user inactive", ErrInvalidRefreshToken)
	}

	pair, row, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshToken, row); err != nil {
		if repo.IsNotFound(err) || errors.Is(err, repo.ErrTokenUnusable) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}
