package repository

import (
	"context"
	"errors"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	var s domain.Submission
	err := r.db.WithContext(ctx).Preload("Works").First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Submission, error) {
	items := []domain.Submission{}
	err := r.db.WithContext(ctx).
		Preload("Works").
		Where("course_id = ?", courseID).
		Order("due_date asc").
		Find(&items).Error
	return items, err
}

// Update applies a partial update of the given columns.
func (r *SubmissionRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&domain.Submission{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", id).Delete(&domain.StudentWork{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Submission{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrSubmissionNotFound
		}
		return nil
	})
}

func (r *SubmissionRepository) GetWork(ctx context.Context, submissionID, studentID uuid.UUID) (*domain.StudentWork, error) {
	var w domain.StudentWork
	err := r.db.WithContext(ctx).
		Where("submission_id = ? AND student_id = ?", submissionID, studentID).
		First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrWorkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// SaveWork inserts the student's work or replaces the file/status/date of an existing one.
func (r *SubmissionRepository) SaveWork(ctx context.Context, w *domain.StudentWork) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submission_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"file_url", "status", "submitted_at"}),
	}).Create(w).Error
}

func (r *SubmissionRepository) GradeWork(ctx context.Context, w *domain.StudentWork) error {
	return r.db.WithContext(ctx).Model(&domain.StudentWork{}).
		Where("submission_id = ? AND student_id = ?", w.SubmissionID, w.StudentID).
		Updates(map[string]interface{}{"grade": w.Grade, "feedback": w.Feedback}).Error
}

func (r *SubmissionRepository) DeleteWork(ctx context.Context, submissionID, studentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("submission_id = ? AND student_id = ?", submissionID, studentID).
		Delete(&domain.StudentWork{}).Error
}

// WorksOfStudent returns the student's work across all items of a course.
func (r *SubmissionRepository) WorksOfStudent(ctx context.Context, courseID, studentID uuid.UUID) ([]domain.StudentWorkView, error) {
	var items []domain.Submission
	err := r.db.WithContext(ctx).
		Preload("Works", "student_id = ?", studentID).
		Where("course_id = ?", courseID).
		Order("due_date asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	out := []domain.StudentWorkView{}
	for _, it := range items {
		for _, w := range it.Works {
			out = append(out, domain.StudentWorkView{
				StudentWork:  w,
				SubmissionID: it.ID,
				Title:        it.Title,
				Type:         it.Type,
				DueDate:      it.DueDate,
			})
		}
	}
	return out, nil
}
