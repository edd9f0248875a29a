package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgAuth "github.com/divinobizcochito/storefront-backend/pkg/auth"
	"github.com/divinobizcochito/storefront-backend/pkg/config"
	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
	"github.com/divinobizcochito/storefront-backend/pkg/enums"
	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "bizcochito",
	ExpirationMinutes: 30,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubUserRepo struct {
	byEmail  map[string]*models.User
	profiles map[uuid.UUID]*models.Profile
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail:  make(map[string]*models.User),
		profiles: make(map[uuid.UUID]*models.Profile),
	}
}

func (s *stubUserRepo) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	s.byEmail[user.Email] = user
	profile.UserID = user.ID
	s.profiles[user.ID] = profile
	return nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubSessions struct {
	tokens  map[string]string
	revoked []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: make(map[string]string)}
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}
	delete(s.tokens, oldAccessID)
	newID := uuid.NewString()
	token, _ := s.Generate(ctx, newID)
	return newID, token, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	delete(s.tokens, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func newAuthService(t *testing.T) (Service, *stubUserRepo, *stubSessions) {
	t.Helper()
	repo := newStubUserRepo()
	sessions := newStubSessions()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
	})
	require.NoError(t, err)
	return svc, repo, sessions
}

func mustRegister(t *testing.T, svc Service) *SessionResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Clienta@Example.com",
		Password: "bizcocho-secreto",
		Name:     "Clienta Feliz",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterCreatesCustomerProfileAndSession(t *testing.T) {
	svc, repo, _ := newAuthService(t)

	resp := mustRegister(t, svc)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "clienta@example.com", resp.User.Email)
	require.NotNil(t, resp.User.Profile)
	assert.Equal(t, enums.UserRoleCustomer, resp.User.Profile.Role)
	assert.Equal(t, "Clienta Feliz", resp.User.Profile.Name)

	// password never stored in the clear
	stored := repo.byEmail["clienta@example.com"]
	ok, err := security.VerifyPassword("bizcocho-secreto", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newAuthService(t)
	mustRegister(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "clienta@example.com",
		Password: "otra-clave-123",
		Name:     "Otra Persona",
	})
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeConflict, domainErr.Code())
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	svc, _, _ := newAuthService(t)
	mustRegister(t, svc)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "clienta@example.com",
		Password: "incorrecta",
	})
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, domainErr.Code())
}

func TestLoginSuccessMintsValidToken(t *testing.T) {
	svc, _, _ := newAuthService(t)
	mustRegister(t, svc)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "clienta@example.com",
		Password: "bizcocho-secreto",
	})
	require.NoError(t, err)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleCustomer, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	registered := mustRegister(t, svc)

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  registered.AccessToken,
		RefreshToken: registered.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, resp.RefreshToken)

	// the old pair can no longer rotate
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  registered.AccessToken,
		RefreshToken: registered.RefreshToken,
	})
	require.Error(t, err)

	assert.Len(t, sessions.tokens, 1)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	registered := mustRegister(t, svc)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, registered.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.ID))
	assert.Contains(t, sessions.revoked, claims.ID)
	assert.Empty(t, sessions.tokens)
}

func TestMeReturnsProfile(t *testing.T) {
	svc, _, _ := newAuthService(t)
	registered := mustRegister(t, svc)

	me, err := svc.Me(context.Background(), registered.User.ID)
	require.NoError(t, err)
	require.NotNil(t, me.Profile)
	assert.Equal(t, "Clienta Feliz", me.Profile.Name)

	_, err = svc.Me(context.Background(), uuid.New())
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeNotFound, domainErr.Code())
}
