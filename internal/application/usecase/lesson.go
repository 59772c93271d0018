package usecase

import (
	"context"
	"mime/multipart"
	"strings"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/cache"
	"lmsplatform/internal/infrastructure/repository"
	"lmsplatform/internal/infrastructure/storage"
	"lmsplatform/internal/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FileStore interface {
	SaveAll(dest storage.Destination, files []*multipart.FileHeader, max int) ([]storage.StoredFile, error)
}

type LessonUseCase struct {
	courseRepo *repository.CourseRepository
	lessonRepo *repository.LessonRepository
	cache      *cache.CourseCache
	files      FileStore
	log        *logger.Logger
}

func NewLessonUseCase(
	cr *repository.CourseRepository,
	lr *repository.LessonRepository,
	cc *cache.CourseCache,
	files FileStore,
	log *logger.Logger,
) *LessonUseCase {
	return &LessonUseCase{courseRepo: cr, lessonRepo: lr, cache: cc, files: files, log: log.With("usecase", "lesson")}
}

type LessonInput struct {
	Title       string
	Description string
	Open        *bool
	ActionSteps []domain.ActionStep
}

func (uc *LessonUseCase) Create(ctx context.Context, s domain.Session, courseID uuid.UUID, in LessonInput) (*domain.Lesson, error) {
	if _, err := manageableCourse(ctx, uc.courseRepo, s, courseID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title", "is required")
	}
	steps, err := domain.NormalizeSteps(in.ActionSteps)
	if err != nil {
		return nil, err
	}
	lesson := &domain.Lesson{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       title,
		Description: in.Description,
		Open:        in.Open == nil || *in.Open,
		ActionSteps: datatypes.NewJSONSlice(steps),
	}
	if err := uc.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, courseID)
	return lesson, nil
}

// Update replaces title, description and steps; Open is kept when not given.
func (uc *LessonUseCase) Update(ctx context.Context, s domain.Session, courseID, lessonID uuid.UUID, in LessonInput) (*domain.Lesson, error) {
	if _, err := manageableCourse(ctx, uc.courseRepo, s, courseID); err != nil {
		return nil, err
	}
	lesson, err := uc.lessonRepo.Get(ctx, courseID, lessonID, false)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title", "is required")
	}
	steps, err := domain.NormalizeSteps(in.ActionSteps)
	if err != nil {
		return nil, err
	}
	lesson.Title = title
	lesson.Description = in.Description
	if in.Open != nil {
		lesson.Open = *in.Open
	}
	lesson.ActionSteps = datatypes.NewJSONSlice(steps)
	if err := uc.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, courseID)
	return lesson, nil
}

func (uc *LessonUseCase) Delete(ctx context.Context, s domain.Session, courseID, lessonID uuid.UUID) (*domain.Lesson, error) {
	if _, err := manageableCourse(ctx, uc.courseRepo, s, courseID); err != nil {
		return nil, err
	}
	lesson, err := uc.lessonRepo.Get(ctx, courseID, lessonID, false)
	if err != nil {
		return nil, err
	}
	if err := uc.lessonRepo.Delete(ctx, courseID, lessonID); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, courseID)
	return lesson, nil
}

// Get returns the lesson with every student's progress record.
func (uc *LessonUseCase) Get(ctx context.Context, courseID, lessonID uuid.UUID) (*domain.Lesson, error) {
	if _, err := uc.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	lesson, err := uc.lessonRepo.Get(ctx, courseID, lessonID, true)
	if err != nil {
		return nil, err
	}
	if lesson.Progress == nil {
		lesson.Progress = []domain.ProgressRecord{}
	}
	return lesson, nil
}

// UploadStepFiles stores up to MaxStepFiles uploads and makes them the step's files.
// With no uploads the step is left as is. The step's files are returned.
func (uc *LessonUseCase) UploadStepFiles(
	ctx context.Context,
	s domain.Session,
	courseID, lessonID uuid.UUID,
	stepID string,
	uploads []*multipart.FileHeader,
) ([]string, error) {
	if _, err := manageableCourse(ctx, uc.courseRepo, s, courseID); err != nil {
		return nil, err
	}
	lesson, err := uc.lessonRepo.Get(ctx, courseID, lessonID, false)
	if err != nil {
		return nil, err
	}
	idx := lesson.Step(stepID)
	if idx < 0 {
		return nil, domain.ErrStepNotFound
	}
	if len(uploads) == 0 {
		return nonNil(lesson.ActionSteps[idx].Files), nil
	}

	stored, err := uc.files.SaveAll(storage.Lessons, uploads, domain.MaxStepFiles)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(stored))
	for _, f := range stored {
		urls = append(urls, f.URL)
	}

	steps := []domain.ActionStep(lesson.ActionSteps)
	steps[idx].Files = urls
	if err := uc.lessonRepo.UpdateSteps(ctx, lessonID, steps); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, courseID)
	uc.log.Info("step files uploaded", "lesson_id", lessonID, "step_id", stepID, "count", len(urls))
	return urls, nil
}

// SetAssignment adds or replaces the lesson's assignment; nil removes it.
func (uc *LessonUseCase) SetAssignment(ctx context.Context, s domain.Session, courseID, lessonID uuid.UUID, a *domain.LessonAssignment) (*domain.Lesson, error) {
	if _, err := manageableCourse(ctx, uc.courseRepo, s, courseID); err != nil {
		return nil, err
	}
	lesson, err := uc.lessonRepo.Get(ctx, courseID, lessonID, false)
	if err != nil {
		return nil, err
	}
	if a != nil && strings.TrimSpace(a.Title) == "" {
		return nil, domain.Invalid("assignment.title", "is required")
	}
	if err := uc.lessonRepo.SetAssignment(ctx, lessonID, a); err != nil {
		return nil, err
	}
	lesson.Assignment = datatypes.NewJSONType(a)
	uc.invalidate(ctx, courseID)
	return lesson, nil
}

func (uc *LessonUseCase) invalidate(ctx context.Context, courseID uuid.UUID) {
	if err := uc.cache.Invalidate(ctx, courseID); err != nil {
		uc.log.Warn("course cache invalidation failed", "course_id", courseID, "error", err)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
