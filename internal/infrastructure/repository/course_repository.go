package repository

import (
	"context"
	"errors"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetWithLessons loads the course and its lessons in position order.
func (r *CourseRepository) GetWithLessons(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, created_at asc")
		}).
		First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Order("created_at desc").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Select("courses.*").
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", studentID).
		Order("courses.created_at desc").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

// Delete removes the course with its lessons, progress, roster, grade book and submissions.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lessons := tx.Model(&domain.Lesson{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("lesson_id IN (?)", lessons).Delete(&domain.ProgressRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Grade{}).Error; err != nil {
			return err
		}
		items := tx.Model(&domain.Submission{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("submission_id IN (?)", items).Delete(&domain.StudentWork{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Submission{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Course{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrCourseNotFound
		}
		return nil
	})
}

func (r *CourseRepository) Enroll(ctx context.Context, courseID, studentID uuid.UUID) error {
	err := r.db.WithContext(ctx).Create(&domain.Enrollment{CourseID: courseID, StudentID: studentID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyEnrolled
	}
	return err
}

func (r *CourseRepository) Unenroll(ctx context.Context, courseID, studentID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&domain.Enrollment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotEnrolled
	}
	return nil
}

func (r *CourseRepository) IsEnrolled(ctx context.Context, courseID, studentID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&n).Error
	return n > 0, err
}

// EnrolledStudents returns the roster in enrollment order.
func (r *CourseRepository) EnrolledStudents(ctx context.Context, courseID uuid.UUID) ([]domain.UserSummary, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Select("users.id", "users.name", "users.email", "users.avatar").
		Joins("JOIN enrollments ON enrollments.student_id = users.id").
		Where("enrollments.course_id = ?", courseID).
		Order("enrollments.created_at asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// UpsertGrade writes the student's grade, replacing an existing one.
func (r *CourseRepository) UpsertGrade(ctx context.Context, g *domain.Grade) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"grade", "status", "updated_at"}),
	}).Create(g).Error
}

func (r *CourseRepository) Grades(ctx context.Context, courseID uuid.UUID) ([]domain.Grade, error) {
	grades := []domain.Grade{}
	err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Order("updated_at asc").Find(&grades).Error
	return grades, err
}
