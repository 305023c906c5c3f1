package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"flowboard_backend/internal/auth/repository"
	"flowboard_backend/internal/auth/token"
	"flowboard_backend/platform/apperr"
	"flowboard_backend/platform/logger"
)

type storedRefreshToken struct {
	userID    uuid.UUID
	expiresAt time.Time
	revoked   bool
}

type fakeAuthRepo struct {
	mu     sync.Mutex
	users  map[uuid.UUID]repository.User
	tokens map[string]*storedRefreshToken
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		users:  make(map[uuid.UUID]repository.User),
		tokens: make(map[string]*storedRefreshToken),
	}
}

func (r *fakeAuthRepo) CreateUser(_ context.Context, email, passwordHash string, roles []string) (repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return repository.User{}, apperr.Conflict("email already registered")
		}
	}
	user := repository.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        roles,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeAuthRepo) GetUserByID(_ context.Context, userID uuid.UUID) (repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (r *fakeAuthRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, apperr.NotFound("user not found")
}

func (r *fakeAuthRepo) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	user.PasswordHash = passwordHash
	r.users[userID] = user
	return nil
}

func (r *fakeAuthRepo) SetOrganization(_ context.Context, userID, organizationID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	orgID := organizationID
	user.OrganizationID = &orgID
	r.users[userID] = user
	return nil
}

func (r *fakeAuthRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenHash] = &storedRefreshToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *fakeAuthRepo) GetRefreshToken(_ context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[tokenHash]
	if !ok || stored.revoked {
		return uuid.Nil, time.Time{}, apperr.Unauthorized("invalid refresh token")
	}
	return stored.userID, stored.expiresAt, nil
}

func (r *fakeAuthRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.tokens[tokenHash]; ok {
		stored.revoked = true
	}
	return nil
}

func (r *fakeAuthRepo) RevokeAllRefreshTokens(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.tokens {
		if stored.userID == userID {
			stored.revoked = true
		}
	}
	return nil
}

var _ repository.AuthRepository = (*fakeAuthRepo)(nil)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string        { return "test-access-secret" }
func (testConfig) GetJWTRefreshSecret() string       { return "test-refresh-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (testConfig) GetRefreshTokenTTL() time.Duration { return 24 * time.Hour }

func newTestService() (*Service, *fakeAuthRepo) {
	repo := newFakeAuthRepo()
	return New(repo, testConfig{}, logger.New("development")), repo
}

func parseClaims(t *testing.T, accessToken string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(accessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-access-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token does not parse: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	return claims
}

func TestSignUpIssuesAccessAndRefreshTokens(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	pair, err := svc.SignUp(ctx, "owner@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be set")
	}

	claims := parseClaims(t, pair.AccessToken)
	if claims["type"] != "access" {
		t.Fatalf("expected access token type, got %v", claims["type"])
	}
	if _, ok := claims["tenant_id"]; ok {
		t.Fatal("new user without organization must not carry a tenant claim")
	}

	stored, ok := repo.tokens[token.HashSHA256(pair.RefreshToken)]
	if !ok {
		t.Fatal("refresh token hash not persisted")
	}
	if stored.revoked {
		t.Fatal("fresh refresh token must not be revoked")
	}
}

func TestSignUpDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "owner@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	_, err := svc.SignUp(ctx, "owner@example.com", "otherpassword")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSignInRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "owner@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	_, err := svc.SignIn(ctx, "owner@example.com", "wrong-password")
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestSignInUnknownEmailIsUnauthorized(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SignIn(context.Background(), "nobody@example.com", "whatever")
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	pair, err := svc.SignUp(ctx, "owner@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh must rotate the refresh token")
	}

	// The old token was revoked by rotation.
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for replayed token, got %v", err)
	}
	// The new one still works.
	if _, err := svc.Refresh(ctx, next.RefreshToken); err != nil {
		t.Fatalf("refresh with rotated token: %v", err)
	}
}

func TestRefreshExpiredTokenRejected(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	pair, err := svc.SignUp(ctx, "owner@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	hash := token.HashSHA256(pair.RefreshToken)
	repo.tokens[hash].expiresAt = time.Now().Add(-time.Minute)

	if _, err := svc.Refresh(ctx, pair.RefreshToken); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
	if !repo.tokens[hash].revoked {
		t.Fatal("expired token should be revoked on use")
	}
}

func TestSignOutIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	pair, err := svc.SignUp(ctx, "owner@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if err := svc.SignOut(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if err := svc.SignOut(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("repeated sign out: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized after sign out, got %v", err)
	}
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	pair, err := svc.SignUp(ctx, "owner@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	claims := parseClaims(t, pair.AccessToken)
	userID, err := uuid.Parse(claims["sub"].(string))
	if err != nil {
		t.Fatalf("parse sub claim: %v", err)
	}

	if err := svc.ChangePassword(ctx, userID, "hunter2hunter2", "correcthorsebattery"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.SignIn(ctx, "owner@example.com", "hunter2hunter2"); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "owner@example.com", "correcthorsebattery"); err != nil {
		t.Fatalf("sign in with new password: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Fatalf("old refresh token must be revoked, got %v", err)
	}
}

func TestAttachOrganizationAddsTenantClaim(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	pair, err := svc.SignUp(ctx, "owner@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	claims := parseClaims(t, pair.AccessToken)
	userID, err := uuid.Parse(claims["sub"].(string))
	if err != nil {
		t.Fatalf("parse sub claim: %v", err)
	}

	orgID := uuid.New()
	if err := svc.AttachOrganization(ctx, userID, orgID); err != nil {
		t.Fatalf("attach organization: %v", err)
	}

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims = parseClaims(t, rotated.AccessToken)
	if claims["tenant_id"] != orgID.String() {
		t.Fatalf("expected tenant claim %s, got %v", orgID, claims["tenant_id"])
	}
}
