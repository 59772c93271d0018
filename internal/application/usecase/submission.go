package usecase

import (
	"context"
	"strings"
	"time"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/repository"
	"lmsplatform/internal/logger"

	"github.com/google/uuid"
)

type SubmissionUseCase struct {
	submissionRepo *repository.SubmissionRepository
	courseRepo     *repository.CourseRepository
	userRepo       *repository.UserRepository
	now            func() time.Time
	log            *logger.Logger
}

func NewSubmissionUseCase(
	sr *repository.SubmissionRepository,
	cr *repository.CourseRepository,
	ur *repository.UserRepository,
	now func() time.Time,
	log *logger.Logger,
) *SubmissionUseCase {
	if now == nil {
		now = time.Now
	}
	return &SubmissionUseCase{submissionRepo: sr, courseRepo: cr, userRepo: ur, now: now, log: log.With("usecase", "submission")}
}

type SubmissionInput struct {
	CourseID uuid.UUID
	Title    string
	Type     domain.SubmissionType
	DueDate  time.Time
}

func (uc *SubmissionUseCase) Create(ctx context.Context, s domain.Session, in SubmissionInput) (*domain.Submission, error) {
	if _, err := manageableCourse(ctx, uc.courseRepo, s, in.CourseID); err != nil {
		return nil, err
	}
	switch {
	case strings.TrimSpace(in.Title) == "":
		return nil, domain.Invalid("title", "is required")
	case !in.Type.Valid():
		return nil, domain.Invalid("type", "must be Assignment, Quiz, Project or Exam")
	case in.DueDate.IsZero():
		return nil, domain.Invalid("dueDate", "is required")
	}
	item := &domain.Submission{
		ID:       uuid.New(),
		CourseID: in.CourseID,
		Title:    strings.TrimSpace(in.Title),
		Type:     in.Type,
		DueDate:  in.DueDate,
		Status:   domain.SubmissionOpen,
		Visible:  true,
		Works:    []domain.StudentWork{},
	}
	if err := uc.submissionRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListByCourse returns the course's items with each student's name and email.
func (uc *SubmissionUseCase) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Submission, error) {
	items, err := uc.submissionRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	var studentIDs []uuid.UUID
	for _, it := range items {
		for _, w := range it.Works {
			studentIDs = append(studentIDs, w.StudentID)
		}
	}
	students, err := uc.userRepo.Summaries(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	for i := range items {
		for j := range items[i].Works {
			if u, ok := students[items[i].Works[j].StudentID]; ok {
				u.Avatar = ""
				items[i].Works[j].Student = &u
			}
		}
	}
	return items, nil
}

func (uc *SubmissionUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return uc.submissionRepo.GetByID(ctx, id)
}

// SubmissionPatch is a partial update; nil fields are untouched.
type SubmissionPatch struct {
	Title   *string
	Type    *domain.SubmissionType
	DueDate *time.Time
	Status  *domain.SubmissionStatus
	Visible *bool
}

func (uc *SubmissionUseCase) Update(ctx context.Context, s domain.Session, id uuid.UUID, p SubmissionPatch) (*domain.Submission, error) {
	item, err := uc.manageable(ctx, s, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, domain.Invalid("title", "is required")
		}
		fields["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Type != nil {
		if !p.Type.Valid() {
			return nil, domain.Invalid("type", "must be Assignment, Quiz, Project or Exam")
		}
		fields["type"] = *p.Type
	}
	if p.DueDate != nil {
		fields["due_date"] = *p.DueDate
	}
	if p.Status != nil {
		if *p.Status != domain.SubmissionOpen && *p.Status != domain.SubmissionClosed {
			return nil, domain.Invalid("status", "must be Open or Closed")
		}
		fields["status"] = *p.Status
	}
	if p.Visible != nil {
		fields["visible"] = *p.Visible
	}
	if err := uc.submissionRepo.Update(ctx, item.ID, fields); err != nil {
		return nil, err
	}
	return uc.submissionRepo.GetByID(ctx, id)
}

func (uc *SubmissionUseCase) Delete(ctx context.Context, s domain.Session, id uuid.UUID) error {
	if _, err := uc.manageable(ctx, s, id); err != nil {
		return err
	}
	return uc.submissionRepo.Delete(ctx, id)
}

// Grade records grade and feedback on work the student already handed in.
func (uc *SubmissionUseCase) Grade(ctx context.Context, s domain.Session, id, studentID uuid.UUID, grade *float64, feedback string) (*domain.StudentWork, error) {
	if _, err := uc.manageable(ctx, s, id); err != nil {
		return nil, err
	}
	work, err := uc.submissionRepo.GetWork(ctx, id, studentID)
	if err != nil {
		return nil, err
	}
	work.Grade = grade
	work.Feedback = feedback
	if err := uc.submissionRepo.GradeWork(ctx, work); err != nil {
		return nil, err
	}
	return work, nil
}

func (uc *SubmissionUseCase) WorksOfStudent(ctx context.Context, s domain.Session, courseID uuid.UUID) ([]domain.StudentWorkView, error) {
	return uc.submissionRepo.WorksOfStudent(ctx, courseID, s.UserID)
}

// Submit hands in (or replaces) the caller's work.
func (uc *SubmissionUseCase) Submit(ctx context.Context, s domain.Session, id uuid.UUID, fileURL string) error {
	if _, err := uc.submissionRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if strings.TrimSpace(fileURL) == "" {
		return domain.Invalid("file", "a file or fileUrl is required")
	}
	now := uc.now()
	return uc.submissionRepo.SaveWork(ctx, &domain.StudentWork{
		SubmissionID: id,
		StudentID:    s.UserID,
		FileURL:      fileURL,
		Status:       domain.WorkSubmitted,
		SubmittedAt:  &now,
	})
}

// Unsubmit withdraws the caller's work while the item is open and not past due.
func (uc *SubmissionUseCase) Unsubmit(ctx context.Context, s domain.Session, id uuid.UUID) error {
	item, err := uc.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := item.CanUnsubmit(uc.now()); err != nil {
		return err
	}
	return uc.submissionRepo.DeleteWork(ctx, id, s.UserID)
}

func (uc *SubmissionUseCase) manageable(ctx context.Context, s domain.Session, id uuid.UUID) (*domain.Submission, error) {
	item, err := uc.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := manageableCourse(ctx, uc.courseRepo, s, item.CourseID); err != nil {
		return nil, err
	}
	return item, nil
}
