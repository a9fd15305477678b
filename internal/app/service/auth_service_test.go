package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"algojudge/internal/app/service"
	"algojudge/internal/common"
	"algojudge/internal/common/security"
	"algojudge/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*model.User{}, byID: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return common.ErrConflict
	}
	cp := *user
	f.byEmail[user.Email] = &cp
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

type fakeRevocationStore struct {
	revoked map[string]time.Time
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: map[string]time.Time{}}
}

func (f *fakeRevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if time.Until(expiresAt) > 0 {
		f.revoked[token] = expiresAt
	}
	return nil
}

func (f *fakeRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, ok := f.revoked[token]
	return ok, nil
}

func newAuthService() (*service.AuthService, *fakeUserRepo, *fakeRevocationStore) {
	users := newFakeUserRepo()
	revocations := newFakeRevocationStore()
	jwtManager := security.NewJWTManager([]byte("test-secret"), time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewAuthService(users, revocations, jwtManager, logger), users, revocations
}

func TestSignupThenLogin(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	signup, err := svc.Signup(ctx, service.SignupRequest{
		Username: "alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, signup.Token)
	assert.Equal(t, model.RoleUser, signup.User.Role)
	assert.Empty(t, signup.User.HashedPassword)

	login, err := svc.Login(ctx, service.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, signup.User.ID, login.User.ID)
}

func TestSignupValidatesFields(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.Signup(context.Background(), service.SignupRequest{Username: "bob"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	req := service.SignupRequest{Username: "carol", Email: "carol@example.com", Password: "pw123456"}
	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, service.SignupRequest{
		Username: "dave", Email: "dave@example.com", Password: "correct-pw",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, service.LoginRequest{Email: "dave@example.com", Password: "wrong-pw"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Login(ctx, service.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, revocations := newAuthService()
	ctx := context.Background()

	expiry := time.Now().Add(time.Hour)
	require.NoError(t, svc.Logout(ctx, "the-token", expiry))

	revoked, err := revocations.IsRevoked(ctx, "the-token")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogoutWithoutToken(t *testing.T) {
	svc, _, _ := newAuthService()
	err := svc.Logout(context.Background(), "", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
