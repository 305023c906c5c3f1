// Package service implements account management and token issuance.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"flowboard_backend/internal/auth/password"
	"flowboard_backend/internal/auth/repository"
	"flowboard_backend/internal/auth/token"
	"flowboard_backend/platform/apperr"
	"flowboard_backend/platform/config"
	"flowboard_backend/platform/logger"
)

const refreshTokenBytes = 32

// Profile is the account view returned to authenticated callers.
type Profile struct {
	ID             uuid.UUID
	Email          string
	OrganizationID *uuid.UUID
	Roles          []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TokenPair is the result of a successful sign-up, sign-in, or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service implements authentication operations.
type Service struct {
	repo repository.AuthRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates the auth service.
func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// SignUp registers a new account and signs it in. The first user of an
// account is an admin; organization membership comes later via the
// organizations endpoint.
func (s *Service) SignUp(ctx context.Context, email, plainPassword string) (TokenPair, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return TokenPair{}, apperr.Internal("failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, email, hash, []string{"admin"})
	if err != nil {
		return TokenPair{}, err
	}

	s.log.Info("user signed up", "user_id", user.ID, "email", user.Email)
	return s.issueTokens(ctx, user)
}

// SignIn verifies credentials and issues a token pair.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return TokenPair{}, apperr.Unauthorized("invalid credentials")
		}
		return TokenPair{}, err
	}

	if !password.Compare(user.PasswordHash, plainPassword) {
		return TokenPair{}, apperr.Unauthorized("invalid credentials")
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued. Expired or unknown tokens are rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	hash := token.HashSHA256(refreshToken)

	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return TokenPair{}, err
	}
	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return TokenPair{}, apperr.Unauthorized("refresh token expired")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return TokenPair{}, err
	}

	return s.issueTokens(ctx, user)
}

// SignOut revokes the presented refresh token. Unknown tokens are a
// no-op so sign-out is idempotent.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// Me returns the profile of the authenticated user.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return profileFromUser(user), nil
}

// ChangePassword verifies the current password, stores the new hash,
// and revokes all outstanding refresh tokens.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !password.Compare(user.PasswordHash, current) {
		return apperr.Unauthorized("invalid credentials")
	}

	hash, err := password.Hash(next)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	// Existing sessions stay valid until the access token expires, but
	// they can no longer be refreshed.
	if err := s.repo.RevokeAllRefreshTokens(ctx, userID); err != nil {
		s.log.Warn("failed to revoke refresh tokens after password change", "user_id", userID, "error", err)
	}
	return nil
}

// AttachOrganization binds the user to an organization. Called when the
// user creates an organization; the new tenant shows up in tokens
// issued after the next refresh.
func (s *Service) AttachOrganization(ctx context.Context, userID, organizationID uuid.UUID) error {
	return s.repo.SetOrganization(ctx, userID, organizationID)
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (TokenPair, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"type":  "access",
		"roles": user.Roles,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}
	if user.OrganizationID != nil {
		claims["tenant_id"] = user.OrganizationID.String()
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return TokenPair{}, apperr.Internal("failed to sign access token", err)
	}

	refreshToken, err := token.GenerateRandomToken(refreshTokenBytes)
	if err != nil {
		return TokenPair{}, apperr.Internal("failed to generate refresh token", err)
	}

	expiresAt := now.Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func profileFromUser(u repository.User) Profile {
	return Profile{
		ID:             u.ID,
		Email:          u.Email,
		OrganizationID: u.OrganizationID,
		Roles:          u.Roles,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
