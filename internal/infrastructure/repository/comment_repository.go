package repository

import (
	"context"
	"errors"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByDiscussion returns the thread oldest first.
func (r *CommentRepository) ListByDiscussion(ctx context.Context, discussionID uuid.UUID) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Where("discussion_id = ?", discussionID).
		Order("created_at asc").
		Order("id asc").
		Find(&comments).Error
	return comments, err
}

// Edges fetches the parent links of a whole thread in one query.
func (r *CommentRepository) Edges(ctx context.Context, discussionID uuid.UUID) ([]domain.CommentEdge, error) {
	var edges []domain.CommentEdge
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Select("id", "parent_id").
		Where("discussion_id = ?", discussionID).
		Scan(&edges).Error
	return edges, err
}

func (r *CommentRepository) UpdateSections(ctx context.Context, id uuid.UUID, sections []domain.Section) error {
	return r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("id = ?", id).
		Update("sections", datatypes.NewJSONSlice(sections)).Error
}

// DeleteInOrder removes the comments one by one in the given order, with their reactions.
func (r *CommentRepository) DeleteInOrder(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id IN ?", domain.TargetComment, ids).
			Delete(&domain.Reaction{}).Error; err != nil {
			return err
		}
		for _, id := range ids {
			if err := tx.Delete(&domain.Comment{}, "id = ?", id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
