package repository

import (
	"context"
	"errors"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// Create appends the lesson after the course's existing lessons. The course row stays locked
// until commit so concurrent creates get distinct positions.
func (r *LessonRepository) Create(ctx context.Context, l *domain.Lesson) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course domain.Course
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", l.CourseID).
			First(&course).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCourseNotFound
		}
		if err != nil {
			return err
		}

		var last int
		err = tx.Model(&domain.Lesson{}).
			Where("course_id = ?", l.CourseID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error
		if err != nil {
			return err
		}
		l.Position = last + 1
		return tx.Omit(clause.Associations).Create(l).Error
	})
}

// Get loads a lesson of a course; withProgress also loads every progress record.
func (r *LessonRepository) Get(ctx context.Context, courseID, lessonID uuid.UUID, withProgress bool) (*domain.Lesson, error) {
	q := r.db.WithContext(ctx)
	if withProgress {
		q = q.Preload("Progress", func(db *gorm.DB) *gorm.DB {
			return db.Order("updated_at asc")
		})
	}
	var lesson domain.Lesson
	err := q.Where("id = ? AND course_id = ?", lessonID, courseID).First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) Update(ctx context.Context, l *domain.Lesson) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *LessonRepository) UpdateSteps(ctx context.Context, lessonID uuid.UUID, steps []domain.ActionStep) error {
	return r.db.WithContext(ctx).Model(&domain.Lesson{}).
		Where("id = ?", lessonID).
		Update("action_steps", datatypes.NewJSONSlice(steps)).Error
}

func (r *LessonRepository) SetAssignment(ctx context.Context, lessonID uuid.UUID, a *domain.LessonAssignment) error {
	return r.db.WithContext(ctx).Model(&domain.Lesson{}).
		Where("id = ?", lessonID).
		Update("assignment", datatypes.NewJSONType(a)).Error
}

func (r *LessonRepository) Delete(ctx context.Context, courseID, lessonID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&domain.ProgressRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND course_id = ?", lessonID, courseID).Delete(&domain.Lesson{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrLessonNotFound
		}
		return nil
	})
}
