package usecase

import (
	"context"
	"strings"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/repository"
	"lmsplatform/internal/infrastructure/security"

	"github.com/google/uuid"
)

type UserUseCase struct {
	userRepo *repository.UserRepository
	hasher   *security.PasswordHasher
}

func NewUserUseCase(ur *repository.UserRepository, h *security.PasswordHasher) *UserUseCase {
	return &UserUseCase{userRepo: ur, hasher: h}
}

func (uc *UserUseCase) Profile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// ProfileUpdate changes the caller's own profile. Avatar is a stored file URL;
// RemoveAvatar wins over Avatar.
type ProfileUpdate struct {
	Name         string
	Avatar       string
	RemoveAvatar bool
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(upd.Name); name != "" {
		user.Name = name
	}
	switch {
	case upd.RemoveAvatar:
		user.Avatar = ""
	case upd.Avatar != "":
		user.Avatar = upd.Avatar
	}
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) ByEmail(ctx context.Context, email string) (domain.UserSummary, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return domain.UserSummary{}, err
	}
	return user.Summary(), nil
}

func (uc *UserUseCase) List(ctx context.Context) ([]domain.User, error) {
	return uc.userRepo.List(ctx)
}

func (uc *UserUseCase) Create(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if role == "" {
		role = domain.RoleStudent
	}
	if !role.Valid() {
		return nil, domain.Invalid("role", "is invalid")
	}
	user, err := newUser(uc.hasher, name, email, password, role)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UserPatch is an admin edit; nil fields are left alone.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}

func (uc *UserUseCase) Update(ctx context.Context, id uuid.UUID, p UserPatch) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		user.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		if !strings.Contains(email, "@") {
			return nil, domain.Invalid("email", "is invalid")
		}
		user.Email = email
	}
	if p.Role != nil {
		if !p.Role.Valid() {
			return nil, domain.Invalid("role", "is invalid")
		}
		user.Role = *p.Role
	}
	if p.Password != nil {
		if len(*p.Password) < 6 {
			return nil, domain.Invalid("password", "must be at least 6 characters")
		}
		hash, err := uc.hasher.Hash(*p.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.userRepo.Delete(ctx, id)
}
