package service

import (
	"context"
	"testing"
	"time"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ==== Fake user repository ====

type fakeUserRepo struct {
	usersByEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{usersByEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.usersByEmail[user.Email] = &stored
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.usersByEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// ==== Tests ====

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "correct horse", "")
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, user.Role, "role defaults to member")
	require.Empty(t, user.PasswordHash)

	token, loggedIn, err := svc.Login(context.Background(), "alice@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, user.ID, loggedIn.ID)
	require.Empty(t, loggedIn.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password1", domain.RoleMember)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Alice Again", "alice@example.com", "password2", domain.RoleMember)
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password1", domain.RoleAdmin)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "password1")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}
