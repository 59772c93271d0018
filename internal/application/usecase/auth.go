package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/cache"
	"lmsplatform/internal/infrastructure/repository"
	"lmsplatform/internal/infrastructure/security"
	"lmsplatform/internal/logger"

	"github.com/google/uuid"
)

type AuthUseCase struct {
	userRepo     *repository.UserRepository
	tokenCache   *cache.TokenCache
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	log          *logger.Logger
}

func NewAuthUseCase(
	ur *repository.UserRepository,
	tc *cache.TokenCache,
	h *security.PasswordHasher,
	tm *security.TokenManager,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     ur,
		tokenCache:   tc,
		hasher:       h,
		tokenManager: tm,
		log:          log.With("usecase", "auth"),
	}
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// Register creates a student or professor account. Admins are created by admins only.
func (uc *AuthUseCase) Register(ctx context.Context, name, email, password string, role domain.Role) (uuid.UUID, error) {
	if role == "" {
		role = domain.RoleStudent
	}
	if role == domain.RoleAdmin || !role.Valid() {
		return uuid.Nil, domain.Invalid("role", "must be student or professor")
	}
	user, err := newUser(uc.hasher, name, email, password, role)
	if err != nil {
		return uuid.Nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return uuid.Nil, err
	}
	uc.log.Info("user registered", "user_id", user.ID, "role", role)
	return user.ID, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if uc.hasher.NeedsRehash(user.Password) {
		uc.rehash(ctx, user, password)
	}

	access, refresh, err := uc.generateAndSaveTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh rotates the pair. The old refresh token stops working when Redis is available.
func (uc *AuthUseCase) Refresh(ctx context.Context, oldRefreshToken string) (string, string, error) {
	session, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return "", "", err
	}

	if uc.tokenCache.Enabled() {
		owner, err := uc.tokenCache.CheckRefresh(ctx, oldRefreshToken)
		if err != nil || owner != session.UserID.String() {
			return "", "", domain.ErrInvalidToken
		}
		if err := uc.tokenCache.DeleteRefresh(ctx, oldRefreshToken); err != nil {
			return "", "", fmt.Errorf("revoke refresh token: %w", err)
		}
	}

	// role may have changed since the token was issued
	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", "", domain.ErrInvalidToken
		}
		return "", "", err
	}
	return uc.generateAndSaveTokens(ctx, user)
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return uc.tokenCache.DeleteRefresh(ctx, refreshToken)
}

// Authenticate turns an access token into the caller's session.
func (uc *AuthUseCase) Authenticate(accessToken string) (domain.Session, error) {
	return uc.tokenManager.ValidateAccessToken(accessToken)
}

func (uc *AuthUseCase) generateAndSaveTokens(ctx context.Context, user *domain.User) (string, string, error) {
	access, refresh, err := uc.tokenManager.Generate(domain.Session{UserID: user.ID, Role: user.Role})
	if err != nil {
		return "", "", err
	}
	if err := uc.tokenCache.SaveRefresh(ctx, user.ID.String(), refresh); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return access, refresh, nil
}

func newUser(h *security.PasswordHasher, name, email, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	switch {
	case name == "":
		return nil, domain.Invalid("name", "is required")
	case !strings.Contains(email, "@"):
		return nil, domain.Invalid("email", "is invalid")
	case len(password) < 6:
		return nil, domain.Invalid("password", "must be at least 6 characters")
	}
	hash, err := h.Hash(password)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// rehash stores the password again at the hasher's current cost. Failures only get logged.
func (uc *AuthUseCase) rehash(ctx context.Context, user *domain.User, password string) {
	hash, err := uc.hasher.Hash(password)
	if err == nil {
		user.Password = hash
		err = uc.userRepo.Update(ctx, user)
	}
	if err != nil {
		uc.log.Warn("password rehash failed", "user_id", user.ID, "error", err)
		return
	}
	uc.log.Info("password rehashed", "user_id", user.ID)
}
