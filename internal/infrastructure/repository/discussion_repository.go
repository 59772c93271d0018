package repository

import (
	"context"
	"errors"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

func (r *DiscussionRepository) Create(ctx context.Context, d *domain.Discussion) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DiscussionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Discussion, error) {
	var d domain.Discussion
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrDiscussionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns every discussion, newest first.
func (r *DiscussionRepository) List(ctx context.Context) ([]domain.Discussion, error) {
	discussions := []domain.Discussion{}
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&discussions).Error
	return discussions, err
}

func (r *DiscussionRepository) Update(ctx context.Context, d *domain.Discussion) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// Delete removes the discussion, its comments and all their reactions.
func (r *DiscussionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := tx.Model(&domain.Comment{}).Select("id").Where("discussion_id = ?", id)
		if err := tx.Where("target_type = ? AND target_id IN (?)", domain.TargetComment, comments).
			Delete(&domain.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("discussion_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", domain.TargetDiscussion, id).
			Delete(&domain.Reaction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Discussion{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrDiscussionNotFound
		}
		return nil
	})
}
