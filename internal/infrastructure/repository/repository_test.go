package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role domain.Role) domain.User {
	t.Helper()
	u := domain.User{ID: uuid.New(), Name: "user-" + uuid.NewString()[:6], Email: uuid.NewString() + "@lms.test", Password: "x", Role: role}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), &u))
	return u
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, domain.RoleStudent)
	dup := domain.User{ID: uuid.New(), Name: "again", Email: u.Email, Password: "x", Role: domain.RoleStudent}
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrUserAlreadyExists)

	_, err := repo.GetByEmail(ctx, "nobody@lms.test")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	summaries, err := repo.Summaries(ctx, []uuid.UUID{u.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, u.Name, summaries[u.ID].Name)
}

func TestProgressMutatePurgesCorruptRecords(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()
	lessonID, studentID := uuid.New(), uuid.New()

	require.NoError(t, db.Create(&domain.ProgressRecord{LessonID: lessonID, StudentID: uuid.Nil, Streak: 3}).Error)

	rec, err := repo.Mutate(ctx, lessonID, studentID, func(p *domain.ProgressRecord, existing bool) {
		assert.False(t, existing)
		p.CompletedSteps = []string{"a"}
		p.Streak = 1
	})
	require.NoError(t, err)
	assert.Equal(t, studentID, rec.StudentID)

	all, err := repo.ListByLesson(ctx, lessonID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, studentID, all[0].StudentID)
	assert.Equal(t, []string{"a"}, []string(all[0].CompletedSteps))

	_, err = repo.Mutate(ctx, lessonID, studentID, func(p *domain.ProgressRecord, existing bool) {
		assert.True(t, existing)
		assert.Equal(t, 1, p.Streak)
		p.LessonCompleted = true
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, lessonID, studentID)
	require.NoError(t, err)
	assert.True(t, got.LessonCompleted)

	missing, err := repo.Get(ctx, lessonID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCommentDeleteInOrderRemovesThread(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentRepository(db)
	reactions := NewReactionRepository(db)
	ctx := context.Background()
	discussionID := uuid.New()

	mk := func(parent *uuid.UUID) domain.Comment {
		c := domain.Comment{ID: uuid.New(), DiscussionID: discussionID, AuthorID: uuid.New(), ParentID: parent,
			Sections: []domain.Section{{Type: domain.SectionText, Content: "x"}}}
		require.NoError(t, comments.Create(ctx, &c))
		return c
	}
	root := mk(nil)
	child := mk(&root.ID)
	grandchild := mk(&child.ID)
	sibling := mk(nil)

	_, err := reactions.React(ctx, domain.TargetComment, grandchild.ID, uuid.New(), func(domain.ReactionKind) domain.ReactionKind {
		return domain.ReactionLike
	})
	require.NoError(t, err)

	edges, err := comments.Edges(ctx, discussionID)
	require.NoError(t, err)
	require.Len(t, edges, 4)

	order := domain.DeleteOrder(root.ID, edges)
	require.NoError(t, comments.DeleteInOrder(ctx, order))

	left, err := comments.ListByDiscussion(ctx, discussionID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, sibling.ID, left[0].ID)

	var n int64
	require.NoError(t, db.Model(&domain.Reaction{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestReactionReactKeepsOneRowPerUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()
	target, user := uuid.New(), uuid.New()

	click := func(k domain.ReactionKind) domain.ReactionKind {
		got, err := repo.React(ctx, domain.TargetComment, target, user, func(cur domain.ReactionKind) domain.ReactionKind {
			return domain.ToggleReaction(cur, k)
		})
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, domain.ReactionLike, click(domain.ReactionLike))
	assert.Equal(t, domain.ReactionDislike, click(domain.ReactionDislike))

	grouped, err := repo.ForTargets(ctx, domain.TargetComment, []uuid.UUID{target})
	require.NoError(t, err)
	assert.Empty(t, grouped[target].Likes)
	assert.Equal(t, []uuid.UUID{user}, grouped[target].Dislikes)

	assert.Equal(t, domain.ReactionNone, click(domain.ReactionDislike))
	grouped, err = repo.ForTargets(ctx, domain.TargetComment, []uuid.UUID{target})
	require.NoError(t, err)
	assert.Empty(t, grouped[target].Likes)
	assert.Empty(t, grouped[target].Dislikes)
}

func TestCourseEnrollmentAndGrades(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	prof := seedUser(t, db, domain.RoleProfessor)
	student := seedUser(t, db, domain.RoleStudent)
	course := domain.Course{ID: uuid.New(), Name: "Go", ProfessorID: prof.ID}
	require.NoError(t, repo.Create(ctx, &course))

	require.NoError(t, repo.Enroll(ctx, course.ID, student.ID))
	assert.ErrorIs(t, repo.Enroll(ctx, course.ID, student.ID), domain.ErrAlreadyEnrolled)

	roster, err := repo.EnrolledStudents(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, student.Email, roster[0].Email)

	mine, err := repo.ListByStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, repo.UpsertGrade(ctx, &domain.Grade{CourseID: course.ID, StudentID: student.ID, Grade: 70, Status: domain.GradePass}))
	require.NoError(t, repo.UpsertGrade(ctx, &domain.Grade{CourseID: course.ID, StudentID: student.ID, Grade: 40, Status: domain.GradeFail}))
	grades, err := repo.Grades(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, 40.0, grades[0].Grade)
	assert.Equal(t, domain.GradeFail, grades[0].Status)

	require.NoError(t, repo.Unenroll(ctx, course.ID, student.ID))
	assert.ErrorIs(t, repo.Unenroll(ctx, course.ID, student.ID), domain.ErrNotEnrolled)
}

func TestCourseDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	courses := NewCourseRepository(db)
	lessons := NewLessonRepository(db)
	progress := NewProgressRepository(db)
	ctx := context.Background()

	course := domain.Course{ID: uuid.New(), Name: "Go", ProfessorID: uuid.New()}
	require.NoError(t, courses.Create(ctx, &course))

	first := domain.Lesson{ID: uuid.New(), CourseID: course.ID, Title: "one", Open: true}
	second := domain.Lesson{ID: uuid.New(), CourseID: course.ID, Title: "two"}
	require.NoError(t, lessons.Create(ctx, &first))
	require.NoError(t, lessons.Create(ctx, &second))
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)

	_, err := progress.Mutate(ctx, first.ID, uuid.New(), func(p *domain.ProgressRecord, _ bool) { p.LessonCompleted = true })
	require.NoError(t, err)

	loaded, err := courses.GetWithLessons(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lessons, 2)
	assert.Equal(t, "one", loaded.Lessons[0].Title)

	require.NoError(t, courses.Delete(ctx, course.ID))
	_, err = courses.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	_, err = lessons.Get(ctx, course.ID, first.ID, false)
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)

	var n int64
	require.NoError(t, db.Model(&domain.ProgressRecord{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSubmissionWorkLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()
	courseID, student := uuid.New(), uuid.New()

	item := domain.Submission{ID: uuid.New(), CourseID: courseID, Title: "HW1", Type: domain.SubmissionAssignment,
		DueDate: time.Now().Add(48 * time.Hour), Status: domain.SubmissionOpen, Visible: true}
	require.NoError(t, repo.Create(ctx, &item))

	now := time.Now()
	require.NoError(t, repo.SaveWork(ctx, &domain.StudentWork{SubmissionID: item.ID, StudentID: student, FileURL: "/a", Status: domain.WorkSubmitted, SubmittedAt: &now}))
	require.NoError(t, repo.SaveWork(ctx, &domain.StudentWork{SubmissionID: item.ID, StudentID: student, FileURL: "/b", Status: domain.WorkSubmitted, SubmittedAt: &now}))

	grade := 9.5
	require.NoError(t, repo.GradeWork(ctx, &domain.StudentWork{SubmissionID: item.ID, StudentID: student, Grade: &grade, Feedback: "good"}))

	views, err := repo.WorksOfStudent(ctx, courseID, student)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "/b", views[0].FileURL)
	assert.Equal(t, "HW1", views[0].Title)
	require.NotNil(t, views[0].Grade)
	assert.Equal(t, 9.5, *views[0].Grade)

	require.NoError(t, repo.Update(ctx, item.ID, map[string]interface{}{"status": domain.SubmissionClosed}))
	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionClosed, got.Status)
	assert.Len(t, got.Works, 1)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.GetWork(ctx, item.ID, student)
	assert.ErrorIs(t, err, domain.ErrWorkNotFound)
}

func TestLessonCreateLocksCourseAndNumbersPerCourse(t *testing.T) {
	db := newTestDB(t)
	courses := NewCourseRepository(db)
	lessons := NewLessonRepository(db)
	ctx := context.Background()

	orphan := domain.Lesson{ID: uuid.New(), CourseID: uuid.New(), Title: "orphan"}
	assert.ErrorIs(t, lessons.Create(ctx, &orphan), domain.ErrCourseNotFound)

	a := domain.Course{ID: uuid.New(), Name: "A", ProfessorID: uuid.New()}
	b := domain.Course{ID: uuid.New(), Name: "B", ProfessorID: uuid.New()}
	require.NoError(t, courses.Create(ctx, &a))
	require.NoError(t, courses.Create(ctx, &b))

	for i, courseID := range []uuid.UUID{a.ID, b.ID, a.ID, a.ID, b.ID} {
		l := domain.Lesson{ID: uuid.New(), CourseID: courseID, Title: fmt.Sprintf("l%d", i)}
		require.NoError(t, lessons.Create(ctx, &l))
	}

	loaded, err := courses.GetWithLessons(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lessons, 3)
	for i, l := range loaded.Lessons {
		assert.Equal(t, i+1, l.Position)
	}
	assert.Equal(t, []string{"l0", "l2", "l3"}, []string{loaded.Lessons[0].Title, loaded.Lessons[1].Title, loaded.Lessons[2].Title})

	loaded, err = courses.GetWithLessons(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lessons, 2)
	assert.Equal(t, 2, loaded.Lessons[1].Position)
}
