package usecase

import (
	"context"
	"errors"
	"strings"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/cache"
	"lmsplatform/internal/infrastructure/repository"
	"lmsplatform/internal/logger"

	"github.com/google/uuid"
)

type CourseUseCase struct {
	courseRepo *repository.CourseRepository
	userRepo   *repository.UserRepository
	cache      *cache.CourseCache
	log        *logger.Logger
}

func NewCourseUseCase(cr *repository.CourseRepository, ur *repository.UserRepository, cc *cache.CourseCache, log *logger.Logger) *CourseUseCase {
	return &CourseUseCase{courseRepo: cr, userRepo: ur, cache: cc, log: log.With("usecase", "course")}
}

func (uc *CourseUseCase) Create(ctx context.Context, s domain.Session, name, details, banner string) (*domain.Course, error) {
	if !s.CanTeach() {
		return nil, domain.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "is required")
	}
	course := &domain.Course{
		ID:          uuid.New(),
		Name:        name,
		Details:     details,
		ProfessorID: s.UserID,
		Banner:      banner,
		Lessons:     []domain.Lesson{},
	}
	if err := uc.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *CourseUseCase) ListForProfessor(ctx context.Context, s domain.Session) ([]domain.Course, error) {
	return uc.courseRepo.ListByProfessor(ctx, s.UserID)
}

func (uc *CourseUseCase) ListForStudent(ctx context.Context, s domain.Session) ([]domain.Course, error) {
	return uc.courseRepo.ListByStudent(ctx, s.UserID)
}

// Detail returns the course with lessons, roster and grades, from Redis when cached.
func (uc *CourseUseCase) Detail(ctx context.Context, id uuid.UUID) (*domain.CourseDetail, error) {
	detail, err := uc.cache.Get(ctx, id)
	if err == nil {
		return detail, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		uc.log.Warn("course cache read failed", "course_id", id, "error", err)
	}

	course, err := uc.courseRepo.GetWithLessons(ctx, id)
	if err != nil {
		return nil, err
	}
	enrolled, err := uc.courseRepo.EnrolledStudents(ctx, id)
	if err != nil {
		return nil, err
	}
	grades, err := uc.courseRepo.Grades(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Lessons == nil {
		course.Lessons = []domain.Lesson{}
	}
	detail = &domain.CourseDetail{Course: *course, Enrolled: enrolled, Grades: grades}

	if err := uc.cache.Set(ctx, detail); err != nil {
		uc.log.Warn("course cache write failed", "course_id", id, "error", err)
	}
	return detail, nil
}

// CoursePatch carries the editable fields; empty values keep the current ones.
type CoursePatch struct {
	Name    string
	Details *string
	Banner  string
}

func (uc *CourseUseCase) Update(ctx context.Context, s domain.Session, id uuid.UUID, p CoursePatch) (*domain.Course, error) {
	course, err := uc.authorize(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		course.Name = name
	}
	if p.Details != nil {
		course.Details = *p.Details
	}
	if p.Banner != "" {
		course.Banner = p.Banner
	}
	if err := uc.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, id)
	return course, nil
}

func (uc *CourseUseCase) Delete(ctx context.Context, s domain.Session, id uuid.UUID) error {
	if _, err := uc.authorize(ctx, s, id); err != nil {
		return err
	}
	if err := uc.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx, id)
	return nil
}

func (uc *CourseUseCase) Enroll(ctx context.Context, s domain.Session, id, studentID uuid.UUID) error {
	if _, err := uc.authorize(ctx, s, id); err != nil {
		return err
	}
	if _, err := uc.userRepo.GetByID(ctx, studentID); err != nil {
		return err
	}
	if err := uc.courseRepo.Enroll(ctx, id, studentID); err != nil {
		return err
	}
	uc.invalidate(ctx, id)
	return nil
}

func (uc *CourseUseCase) Unenroll(ctx context.Context, s domain.Session, id, studentID uuid.UUID) error {
	if _, err := uc.authorize(ctx, s, id); err != nil {
		return err
	}
	if err := uc.courseRepo.Unenroll(ctx, id, studentID); err != nil {
		return err
	}
	uc.invalidate(ctx, id)
	return nil
}

func (uc *CourseUseCase) UpdateGrade(ctx context.Context, s domain.Session, id, studentID uuid.UUID, grade float64, status domain.GradeStatus) (*domain.Grade, error) {
	if _, err := uc.authorize(ctx, s, id); err != nil {
		return nil, err
	}
	if status != "" && status != domain.GradePass && status != domain.GradeFail {
		return nil, domain.Invalid("status", "must be pass or fail")
	}
	g := &domain.Grade{CourseID: id, StudentID: studentID, Grade: grade, Status: status}
	if err := uc.courseRepo.UpsertGrade(ctx, g); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, id)
	return g, nil
}

func (uc *CourseUseCase) authorize(ctx context.Context, s domain.Session, id uuid.UUID) (*domain.Course, error) {
	return manageableCourse(ctx, uc.courseRepo, s, id)
}

// manageableCourse loads the course and checks that the caller owns it or is an admin.
func manageableCourse(ctx context.Context, repo *repository.CourseRepository, s domain.Session, id uuid.UUID) (*domain.Course, error) {
	course, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !course.CanManage(s) {
		return nil, domain.ErrForbidden
	}
	return course, nil
}

func (uc *CourseUseCase) invalidate(ctx context.Context, id uuid.UUID) {
	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.log.Warn("course cache invalidation failed", "course_id", id, "error", err)
	}
}
