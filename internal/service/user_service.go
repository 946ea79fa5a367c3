package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"booking-api/internal/event"
	"booking-api/internal/model"
	"booking-api/pkg/apierror"
)

// SeedAdmin describes the administrator created on first start.
type SeedAdmin struct {
	Email    string
	Username string
	Password string
}

type UserService struct {
	users  userStore
	hasher *Hasher
	tokens *TokenService
	bus    event.Bus
	now    func() time.Time
}

func NewUserService(users userStore, hasher *Hasher, tokens *TokenService, bus event.Bus) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens, bus: bus, now: time.Now}
}

func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return "", model.ErrInvalidRole
	}

	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || req.Password == "" {
		return "", apierror.BadRequest("missing required fields", "")
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return "", err
	}
	if exists {
		return "", model.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return "", err
	}

	user, err := s.users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return "", err
	}

	publish(s.bus, event.TypeUserRegistered, user.ID, user.ID, map[string]string{"username": user.Username, "role": user.Role})

	return s.tokens.Issue(user.ID, user.Username, user.Role)
}

// Login answers unknown emails and wrong passwords with the same error after the same
// amount of hashing work.
func (s *UserService) Login(ctx context.Context, email string, password string) (model.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		s.hasher.CompareDummy(ctx, password)
		return model.LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.LoginResult{}, err
	}

	ok, err := s.hasher.Compare(ctx, user.PasswordHash, password)
	if err != nil {
		return model.LoginResult{}, err
	}
	if !ok {
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return model.LoginResult{}, err
	}
	return model.LoginResult{Token: token, Role: user.Role}, nil
}

func (s *UserService) ResetPassword(ctx context.Context, username string, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apierror.BadRequest("newPassword is required", "")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) error {
	patch := model.ProfilePatch{
		FullName:    trimmedOrNil(req.FullName),
		Email:       trimmedOrNil(req.Email),
		PhoneNumber: trimmedOrNil(req.PhoneNumber),
	}

	// The password changes only when both the current and the new one are given.
	if req.CurrentPassword != "" && req.NewPassword != "" {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		ok, err := s.hasher.Compare(ctx, user.PasswordHash, req.CurrentPassword)
		if err != nil {
			return err
		}
		if !ok {
			return model.ErrWrongPassword
		}

		hash, err := s.hasher.Hash(ctx, req.NewPassword)
		if err != nil {
			return err
		}
		patch.PasswordHash = &hash
	}

	if patch.IsEmpty() {
		_, err := s.users.FindByID(ctx, userID)
		return err
	}
	return s.users.UpdateProfile(ctx, userID, patch)
}

func (s *UserService) Me(ctx context.Context, userID string) (model.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) ListNonAdmins(ctx context.Context) ([]model.User, error) {
	return s.users.ListExcludingRole(ctx, model.RoleAdmin)
}

func (s *UserService) Stats(ctx context.Context) (model.UserStats, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var stats model.UserStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.users.Count(gctx)
		stats.TotalUsers = total
		return err
	})
	g.Go(func() error {
		fresh, err := s.users.CountCreatedSince(gctx, monthStart)
		stats.NewUsersThisMonth = fresh
		return err
	})
	g.Go(func() error {
		byRole, err := s.users.CountByRole(gctx)
		stats.UsersByRole = byRole
		return err
	})
	if err := g.Wait(); err != nil {
		return model.UserStats{}, err
	}
	if stats.UsersByRole == nil {
		stats.UsersByRole = []model.RoleCount{}
	}
	return stats, nil
}

func (s *UserService) UpdateRole(ctx context.Context, id string, role string, actorID string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if !model.ValidRole(role) {
		return model.ErrInvalidRole
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return err
	}
	publish(s.bus, event.TypeUserRoleChanged, id, actorID, map[string]string{"role": role})
	return nil
}

func (s *UserService) Delete(ctx context.Context, id string, actorID string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	publish(s.bus, event.TypeUserDeleted, id, actorID, nil)
	return nil
}

// EnsureAdmin creates the seed administrator unless an account with its email or
// username already exists. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, seed SeedAdmin) (bool, error) {
	if seed.Password == "" || seed.Email == "" || seed.Username == "" {
		return false, nil
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, seed.Email, seed.Username)
	if err != nil || exists {
		return false, err
	}

	hash, err := s.hasher.Hash(ctx, seed.Password)
	if err != nil {
		return false, err
	}

	_, err = s.users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		FullName:     "Administrator",
		Email:        seed.Email,
		PhoneNumber:  "",
		Username:     seed.Username,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if errors.Is(err, model.ErrUserAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
