package repository

import (
	"context"
	"errors"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Mutate loads the student's record for the lesson under a row lock, passes it to fn
// and stores the result. existing is false when fn receives a fresh zero record.
// Records of the lesson without a valid student id are purged first.
func (r *ProgressRepository) Mutate(
	ctx context.Context,
	lessonID, studentID uuid.UUID,
	fn func(rec *domain.ProgressRecord, existing bool),
) (*domain.ProgressRecord, error) {
	var out domain.ProgressRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := purgeCorrupt(tx, lessonID); err != nil {
			return err
		}

		var rec domain.ProgressRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("lesson_id = ? AND student_id = ?", lessonID, studentID).
			First(&rec).Error
		existing := true
		if errors.Is(err, gorm.ErrRecordNotFound) {
			existing = false
			rec = domain.ProgressRecord{LessonID: lessonID, StudentID: studentID}
		} else if err != nil {
			return err
		}

		fn(&rec, existing)
		rec.LessonID, rec.StudentID = lessonID, studentID

		if existing {
			err = tx.Save(&rec).Error
		} else {
			err = tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
		}
		if err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func purgeCorrupt(tx *gorm.DB, lessonID uuid.UUID) error {
	return tx.Where("lesson_id = ? AND (student_id IS NULL OR student_id = ?)", lessonID, uuid.Nil).
		Delete(&domain.ProgressRecord{}).Error
}

// Get returns the student's record or nil when there is none.
func (r *ProgressRepository) Get(ctx context.Context, lessonID, studentID uuid.UUID) (*domain.ProgressRecord, error) {
	var rec domain.ProgressRecord
	err := r.db.WithContext(ctx).
		Where("lesson_id = ? AND student_id = ?", lessonID, studentID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ProgressRepository) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.ProgressRecord, error) {
	records := []domain.ProgressRecord{}
	err := r.db.WithContext(ctx).Where("lesson_id = ?", lessonID).Order("updated_at asc").Find(&records).Error
	return records, err
}
