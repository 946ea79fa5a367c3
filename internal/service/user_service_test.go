package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"booking-api/internal/event"
	"booking-api/internal/model"
	"booking-api/internal/repository"
)

func newUserService(t *testing.T) (*UserService, *repository.MockUserRepository, *TokenService) {
	t.Helper()
	tokens, err := NewTokenService("test-secret")
	require.NoError(t, err)
	users := new(repository.MockUserRepository)
	return NewUserService(users, NewHasher(bcrypt.MinCost, 2), tokens, event.NewBus()), users, tokens
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	req := model.RegisterRequest{
		FullName: "Ana Silva", Email: "ana@example.com", PhoneNumber: "555-0100",
		Username: "ana", Password: "s3cret",
	}

	t.Run("defaults to user role and returns a verifiable token", func(t *testing.T) {
		svc, users, tokens := newUserService(t)
		users.On("ExistsByEmailOrUsername", mock.Anything, "ana@example.com", "ana").Return(false, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.Role == model.RoleUser && u.ID != "" && u.PasswordHash != "s3cret"
		})).Return(model.User{ID: "u-1", Username: "ana", Role: model.RoleUser}, nil)

		raw, err := svc.Register(ctx, req)
		require.NoError(t, err)

		claims, err := tokens.Verify(raw)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, model.RoleUser, claims.Role)
		users.AssertExpectations(t)
	})

	t.Run("explicit admin role is kept", func(t *testing.T) {
		svc, users, tokens := newUserService(t)
		admin := req
		admin.Role = "Admin"
		users.On("ExistsByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool { return u.Role == model.RoleAdmin })).
			Return(model.User{ID: "u-2", Username: "ana", Role: model.RoleAdmin}, nil)

		raw, err := svc.Register(ctx, admin)
		require.NoError(t, err)
		claims, err := tokens.Verify(raw)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, claims.Role)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		bad := req
		bad.Role = "owner"

		_, err := svc.Register(ctx, bad)
		assert.ErrorIs(t, err, model.ErrInvalidRole)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email or username", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("ExistsByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("duplicate caught by the store", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("ExistsByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrUserAlreadyExists)

		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	stored := model.User{ID: "u-1", Username: "ana", Email: "ana@example.com", Role: model.RoleUser}

	t.Run("success", func(t *testing.T) {
		svc, users, tokens := newUserService(t)
		withHash := stored
		withHash.PasswordHash = hashOf(t, "s3cret")
		users.On("FindByEmail", mock.Anything, "ana@example.com").Return(withHash, nil)

		result, err := svc.Login(ctx, "ana@example.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, result.Role)

		claims, err := tokens.Verify(result.Token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
	})

	t.Run("wrong password and unknown email fail alike", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		withHash := stored
		withHash.PasswordHash = hashOf(t, "s3cret")
		users.On("FindByEmail", mock.Anything, "ana@example.com").Return(withHash, nil)
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(model.User{}, model.ErrUserNotFound)

		_, wrongPassword := svc.Login(ctx, "ana@example.com", "nope")
		_, unknownEmail := svc.Login(ctx, "ghost@example.com", "nope")

		assert.ErrorIs(t, wrongPassword, model.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmail, model.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown username", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("FindByUsername", mock.Anything, "ghost").Return(model.User{}, model.ErrUserNotFound)

		err := svc.ResetPassword(ctx, "ghost", "new")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("stores a fresh hash", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("FindByUsername", mock.Anything, "ana").Return(model.User{ID: "u-1"}, nil)
		users.On("UpdatePassword", mock.Anything, "u-1", mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("fresh")) == nil
		})).Return(nil)

		require.NoError(t, svc.ResetPassword(ctx, "ana", "fresh"))
		users.AssertExpectations(t)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	name := "  Ana S.  "

	t.Run("partial update without password", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("UpdateProfile", mock.Anything, "u-1", mock.MatchedBy(func(p model.ProfilePatch) bool {
			return p.FullName != nil && *p.FullName == "Ana S." && p.Email == nil && p.PasswordHash == nil
		})).Return(nil)

		require.NoError(t, svc.UpdateProfile(ctx, "u-1", model.UpdateProfileRequest{FullName: &name}))
		users.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("FindByID", mock.Anything, "u-1").Return(model.User{ID: "u-1", PasswordHash: hashOf(t, "old")}, nil)

		err := svc.UpdateProfile(ctx, "u-1", model.UpdateProfileRequest{CurrentPassword: "bad", NewPassword: "new"})
		assert.ErrorIs(t, err, model.ErrWrongPassword)
		users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("password change with matching current password", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("FindByID", mock.Anything, "u-1").Return(model.User{ID: "u-1", PasswordHash: hashOf(t, "old")}, nil)
		users.On("UpdateProfile", mock.Anything, "u-1", mock.MatchedBy(func(p model.ProfilePatch) bool {
			return p.PasswordHash != nil && bcrypt.CompareHashAndPassword([]byte(*p.PasswordHash), []byte("new")) == nil
		})).Return(nil)

		require.NoError(t, svc.UpdateProfile(ctx, "u-1", model.UpdateProfileRequest{CurrentPassword: "old", NewPassword: "new"}))
	})

	t.Run("new password without current password is ignored", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("UpdateProfile", mock.Anything, "u-1", mock.MatchedBy(func(p model.ProfilePatch) bool {
			return p.FullName != nil && p.PasswordHash == nil
		})).Return(nil)

		require.NoError(t, svc.UpdateProfile(ctx, "u-1", model.UpdateProfileRequest{FullName: &name, NewPassword: "new"}))
		users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		users.AssertExpectations(t)
	})

	t.Run("only a new password leaves the account untouched", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("FindByID", mock.Anything, "u-1").Return(model.User{ID: "u-1"}, nil)

		require.NoError(t, svc.UpdateProfile(ctx, "u-1", model.UpdateProfileRequest{NewPassword: "new"}))
		users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_Stats(t *testing.T) {
	svc, users, _ := newUserService(t)
	svc.now = func() time.Time { return time.Date(2026, 5, 17, 15, 4, 0, 0, time.UTC) }

	users.On("Count", mock.Anything).Return(7, nil)
	users.On("CountCreatedSince", mock.Anything, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)).Return(2, nil)
	users.On("CountByRole", mock.Anything).Return([]model.RoleCount{{Role: "admin", Count: 1}, {Role: "user", Count: 6}}, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalUsers)
	assert.Equal(t, 2, stats.NewUsersThisMonth)
	assert.Len(t, stats.UsersByRole, 2)
}

func TestUserService_UpdateRoleAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid role", func(t *testing.T) {
		svc, _, _ := newUserService(t)
		assert.ErrorIs(t, svc.UpdateRole(ctx, "u-1", "root", "admin-1"), model.ErrInvalidRole)
	})

	t.Run("last admin guard surfaces", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("UpdateRole", mock.Anything, "admin-1", model.RoleUser).Return(model.ErrLastAdmin)
		users.On("Delete", mock.Anything, "admin-1").Return(model.ErrLastAdmin)

		assert.ErrorIs(t, svc.UpdateRole(ctx, "admin-1", "user", "admin-1"), model.ErrLastAdmin)
		assert.ErrorIs(t, svc.Delete(ctx, "admin-1", "admin-1"), model.ErrLastAdmin)
	})

	t.Run("role change publishes an event", func(t *testing.T) {
		tokens, err := NewTokenService("test-secret")
		require.NoError(t, err)
		users := new(repository.MockUserRepository)
		bus := event.NewBus()
		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()
		svc := NewUserService(users, NewHasher(bcrypt.MinCost, 1), tokens, bus)

		users.On("UpdateRole", mock.Anything, "u-1", model.RoleAdmin).Return(nil)
		require.NoError(t, svc.UpdateRole(ctx, "u-1", " ADMIN ", "admin-1"))

		e := <-events
		assert.Equal(t, event.TypeUserRoleChanged, e.Type)
		assert.Equal(t, "u-1", e.Resource)
		assert.Equal(t, "admin-1", e.ActorID)
	})
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	seed := SeedAdmin{Email: "admin@example.com", Username: "admin", Password: "changeme"}

	t.Run("skipped without password", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		created, err := svc.EnsureAdmin(ctx, SeedAdmin{Email: "a@b.c", Username: "admin"})
		require.NoError(t, err)
		assert.False(t, created)
		users.AssertNotCalled(t, "ExistsByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skipped when account exists", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("ExistsByEmailOrUsername", mock.Anything, seed.Email, seed.Username).Return(true, nil)

		created, err := svc.EnsureAdmin(ctx, seed)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("creates an admin", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.On("ExistsByEmailOrUsername", mock.Anything, seed.Email, seed.Username).Return(false, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool { return u.Role == model.RoleAdmin })).
			Return(model.User{ID: "a-1", Role: model.RoleAdmin}, nil)

		created, err := svc.EnsureAdmin(ctx, seed)
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestUserService_MeAndListNonAdmins(t *testing.T) {
	svc, users, _ := newUserService(t)

	users.On("FindByID", mock.Anything, "gone").Return(model.User{}, model.ErrUserNotFound)
	_, err := svc.Me(context.Background(), "gone")
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	users.On("ListExcludingRole", mock.Anything, model.RoleAdmin).
		Return([]model.User{{ID: "u2", Role: model.RoleUser}, {ID: "u1", Role: model.RoleUser}}, nil)
	list, err := svc.ListNonAdmins(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	users.AssertExpectations(t)
}
