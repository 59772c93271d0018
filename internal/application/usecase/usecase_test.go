package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/repository"
	"lmsplatform/internal/infrastructure/security"
	"lmsplatform/internal/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type env struct {
	db          *gorm.DB
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	lessons     *repository.LessonRepository
	progress    *repository.ProgressRepository
	discussions *repository.DiscussionRepository
	comments    *repository.CommentRepository
	reactions   *repository.ReactionRepository
	submissions *repository.SubmissionRepository
	log         *logger.Logger
	clock       *clock
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func (c *clock) advanceDays(n int) { c.t = c.t.AddDate(0, 0, n) }

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repository.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	return &env{
		db:          db,
		users:       repository.NewUserRepository(db),
		courses:     repository.NewCourseRepository(db),
		lessons:     repository.NewLessonRepository(db),
		progress:    repository.NewProgressRepository(db),
		discussions: repository.NewDiscussionRepository(db),
		comments:    repository.NewCommentRepository(db),
		reactions:   repository.NewReactionRepository(db),
		submissions: repository.NewSubmissionRepository(db),
		log:         logger.Nop(),
		clock:       &clock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
	}
}

func (e *env) user(t *testing.T, role domain.Role) domain.Session {
	t.Helper()
	id := uuid.New()
	u := &domain.User{ID: id, Name: "u" + id.String()[:8], Email: id.String() + "@lms.test", Password: "x", Role: role, Avatar: "/uploads/avatars/" + id.String()}
	require.NoError(t, e.users.Create(context.Background(), u))
	return domain.Session{UserID: id, Role: role}
}

func (e *env) courseWithLesson(t *testing.T, owner domain.Session, stepIDs ...string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	cu := NewCourseUseCase(e.courses, e.users, nil, e.log)
	course, err := cu.Create(ctx, owner, "Course", "", "")
	require.NoError(t, err)

	var steps []domain.ActionStep
	for _, id := range stepIDs {
		steps = append(steps, domain.ActionStep{StepID: id, Title: id})
	}
	lu := NewLessonUseCase(e.courses, e.lessons, nil, nil, e.log)
	lesson, err := lu.Create(ctx, owner, course.ID, LessonInput{Title: "Lesson", ActionSteps: steps})
	require.NoError(t, err)
	return course.ID, lesson.ID
}

func (e *env) hasher() *security.PasswordHasher { return security.NewPasswordHasher(bcrypt.MinCost) }
