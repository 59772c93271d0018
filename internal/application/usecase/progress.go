package usecase

import (
	"context"
	"fmt"
	"time"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/repository"
	"lmsplatform/internal/logger"

	"github.com/google/uuid"
)

type ProgressUseCase struct {
	lessonRepo   *repository.LessonRepository
	progressRepo *repository.ProgressRepository
	now          func() time.Time
	log          *logger.Logger
}

func NewProgressUseCase(lr *repository.LessonRepository, pr *repository.ProgressRepository, now func() time.Time, log *logger.Logger) *ProgressUseCase {
	if now == nil {
		now = time.Now
	}
	return &ProgressUseCase{lessonRepo: lr, progressRepo: pr, now: now, log: log.With("usecase", "progress")}
}

var errInvalidStudent = domain.Invalid("", "Invalid user identifier.")

// RecordProgress stores the full set of steps the student has completed in the lesson
// and updates the streak.
func (uc *ProgressUseCase) RecordProgress(ctx context.Context, courseID, lessonID, studentID uuid.UUID, completedSteps []string) (*domain.ProgressRecord, error) {
	if studentID == uuid.Nil {
		return nil, errInvalidStudent
	}
	if _, err := uc.lessonRepo.Get(ctx, courseID, lessonID, false); err != nil {
		return nil, err
	}

	now := uc.now()
	rec, err := uc.progressRepo.Mutate(ctx, lessonID, studentID, func(p *domain.ProgressRecord, existing bool) {
		if !existing {
			*p = domain.NewProgress(lessonID, studentID, completedSteps, now)
			return
		}
		p.ApplySteps(completedSteps, now)
	})
	if err != nil {
		uc.log.Error("save lesson progress failed", "course_id", courseID, "lesson_id", lessonID, "student", studentID, "error", err)
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return rec, nil
}

// MarkComplete sets the explicit completion flag. Steps are not checked.
func (uc *ProgressUseCase) MarkComplete(ctx context.Context, courseID, lessonID, studentID uuid.UUID) error {
	if studentID == uuid.Nil {
		return errInvalidStudent
	}
	if _, err := uc.lessonRepo.Get(ctx, courseID, lessonID, false); err != nil {
		return err
	}
	_, err := uc.progressRepo.Mutate(ctx, lessonID, studentID, func(p *domain.ProgressRecord, existing bool) {
		if !existing {
			*p = domain.NewProgress(lessonID, studentID, nil, uc.now())
		}
		p.LessonCompleted = true
	})
	if err != nil {
		uc.log.Error("mark lesson completed failed", "course_id", courseID, "lesson_id", lessonID, "student", studentID, "error", err)
		return fmt.Errorf("mark lesson completed: %w", err)
	}
	return nil
}

// ProgressView exposes both notions of completion side by side.
type ProgressView struct {
	Record          *domain.ProgressRecord `json:"progress"`
	StepsCompleted  bool                   `json:"stepsCompleted"`
	LessonCompleted bool                   `json:"lessonCompleted"`
}

func (uc *ProgressUseCase) Get(ctx context.Context, courseID, lessonID, studentID uuid.UUID) (*ProgressView, error) {
	if studentID == uuid.Nil {
		return nil, errInvalidStudent
	}
	lesson, err := uc.lessonRepo.Get(ctx, courseID, lessonID, false)
	if err != nil {
		return nil, err
	}
	rec, err := uc.progressRepo.Get(ctx, lessonID, studentID)
	if err != nil {
		return nil, err
	}
	view := &ProgressView{Record: rec, StepsCompleted: domain.StepsCompleted(lesson.StepIDs(), rec)}
	if rec != nil {
		view.LessonCompleted = rec.LessonCompleted
	}
	return view, nil
}
