package usecase

import (
	"context"
	"testing"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseMutationsRequireOwnerOrAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, domain.RoleProfessor)
	otherProf := e.user(t, domain.RoleProfessor)
	admin := e.user(t, domain.RoleAdmin)
	student := e.user(t, domain.RoleStudent)
	uc := NewCourseUseCase(e.courses, e.users, nil, e.log)

	_, err := uc.Create(ctx, student, "Nope", "", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	course, err := uc.Create(ctx, owner, "Go 101", "basics", "/uploads/banners/b.png")
	require.NoError(t, err)

	_, err = uc.Update(ctx, otherProf, course.ID, CoursePatch{Name: "Mine now"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	details := "advanced"
	updated, err := uc.Update(ctx, admin, course.ID, CoursePatch{Details: &details})
	require.NoError(t, err)
	assert.Equal(t, "Go 101", updated.Name)
	assert.Equal(t, "advanced", updated.Details)
	assert.Equal(t, "/uploads/banners/b.png", updated.Banner)

	require.NoError(t, uc.Enroll(ctx, owner, course.ID, student.UserID))
	assert.ErrorIs(t, uc.Enroll(ctx, owner, course.ID, student.UserID), domain.ErrAlreadyEnrolled)
	assert.ErrorIs(t, uc.Enroll(ctx, owner, course.ID, uuid.New()), domain.ErrUserNotFound)

	_, err = uc.UpdateGrade(ctx, owner, course.ID, student.UserID, 88, domain.GradePass)
	require.NoError(t, err)
	_, err = uc.UpdateGrade(ctx, owner, course.ID, student.UserID, 88, "maybe")
	assert.ErrorIs(t, err, domain.ErrValidation)

	detail, err := uc.Detail(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, detail.Enrolled, 1)
	assert.Equal(t, student.UserID, detail.Enrolled[0].ID)
	require.Len(t, detail.Grades, 1)
	assert.Equal(t, 88.0, detail.Grades[0].Grade)
	assert.NotNil(t, detail.Lessons)

	mine, err := uc.ListForStudent(ctx, student)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, uc.Unenroll(ctx, owner, course.ID, student.UserID))
	assert.ErrorIs(t, uc.Unenroll(ctx, owner, course.ID, student.UserID), domain.ErrNotEnrolled)

	assert.ErrorIs(t, uc.Delete(ctx, student, course.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, owner, course.ID))
	_, err = uc.Detail(ctx, course.ID)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestLessonLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	prof := e.user(t, domain.RoleProfessor)
	courseID, lessonID := e.courseWithLesson(t, prof, "s1", "s2")
	uc := NewLessonUseCase(e.courses, e.lessons, nil, nil, e.log)

	lesson, err := uc.Get(ctx, courseID, lessonID)
	require.NoError(t, err)
	assert.True(t, lesson.Open)
	assert.Equal(t, []string{"s1", "s2"}, lesson.StepIDs())
	assert.NotNil(t, lesson.Progress)

	closed := false
	lesson, err = uc.Update(ctx, prof, courseID, lessonID, LessonInput{
		Title:       "Renamed",
		Open:        &closed,
		ActionSteps: []domain.ActionStep{{StepID: "s2"}, {StepID: "s3"}},
	})
	require.NoError(t, err)
	assert.False(t, lesson.Open)
	assert.Equal(t, []string{"s2", "s3"}, lesson.StepIDs())

	_, err = uc.Update(ctx, prof, courseID, lessonID, LessonInput{Title: "x", ActionSteps: []domain.ActionStep{{StepID: "a"}, {StepID: "a"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	lesson, err = uc.SetAssignment(ctx, prof, courseID, lessonID, &domain.LessonAssignment{Title: "Essay"})
	require.NoError(t, err)
	require.NotNil(t, lesson.Assignment.Data())
	assert.Equal(t, "Essay", lesson.Assignment.Data().Title)

	reloaded, err := uc.Get(ctx, courseID, lessonID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Assignment.Data())

	_, err = uc.SetAssignment(ctx, prof, courseID, lessonID, nil)
	require.NoError(t, err)
	reloaded, err = uc.Get(ctx, courseID, lessonID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Assignment.Data())

	_, err = uc.UploadStepFiles(ctx, prof, courseID, lessonID, "missing", nil)
	assert.ErrorIs(t, err, domain.ErrStepNotFound)
	files, err := uc.UploadStepFiles(ctx, prof, courseID, lessonID, "s2", nil)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = uc.Delete(ctx, prof, courseID, lessonID)
	require.NoError(t, err)
	_, err = uc.Get(ctx, courseID, lessonID)
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)
}
