package repository

import (
	"context"
	"errors"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// React reads the user's current reaction on the target, asks next for the new one
// and stores it. ReactionNone removes the row.
func (r *ReactionRepository) React(
	ctx context.Context,
	targetType domain.TargetType,
	targetID, userID uuid.UUID,
	next func(current domain.ReactionKind) domain.ReactionKind,
) (domain.ReactionKind, error) {
	var result domain.ReactionKind
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row domain.Reaction
		current := domain.ReactionNone
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("target_type = ? AND target_id = ? AND user_id = ?", targetType, targetID, userID).
			First(&row).Error
		switch {
		case err == nil:
			current = row.Kind
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		result = next(current)
		if result == current {
			return nil
		}
		if result == domain.ReactionNone {
			return tx.Where("target_type = ? AND target_id = ? AND user_id = ?", targetType, targetID, userID).
				Delete(&domain.Reaction{}).Error
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "target_type"}, {Name: "target_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind"}),
		}).Create(&domain.Reaction{
			TargetType: targetType,
			TargetID:   targetID,
			UserID:     userID,
			Kind:       result,
		}).Error
	})
	return result, err
}

// ForTargets groups the reactions of the given targets. Targets without reactions
// get empty lists.
func (r *ReactionRepository) ForTargets(
	ctx context.Context,
	targetType domain.TargetType,
	ids []uuid.UUID,
) (map[uuid.UUID]*domain.Reactions, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*domain.Reactions{}, nil
	}
	var rows []domain.Reaction
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id IN ?", targetType, ids).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	grouped := domain.GroupReactions(rows)
	for _, id := range ids {
		if _, ok := grouped[id]; !ok {
			grouped[id] = &domain.Reactions{Likes: []uuid.UUID{}, Dislikes: []uuid.UUID{}}
		}
	}
	return grouped, nil
}
