package usecase

import (
	"context"
	"testing"
	"time"

	"lmsplatform/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionSubmitAndUnsubmit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	prof := e.user(t, domain.RoleProfessor)
	student := e.user(t, domain.RoleStudent)
	courseID, _ := e.courseWithLesson(t, prof)
	uc := NewSubmissionUseCase(e.submissions, e.courses, e.users, e.clock.Now, e.log)

	_, err := uc.Create(ctx, student, SubmissionInput{CourseID: courseID, Title: "HW", Type: domain.SubmissionQuiz, DueDate: e.clock.t.Add(time.Hour)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Create(ctx, prof, SubmissionInput{CourseID: courseID, Title: "HW", Type: "Essay", DueDate: e.clock.t})
	assert.ErrorIs(t, err, domain.ErrValidation)

	item, err := uc.Create(ctx, prof, SubmissionInput{CourseID: courseID, Title: "HW", Type: domain.SubmissionQuiz, DueDate: e.clock.t.Add(48 * time.Hour)})
	require.NoError(t, err)
	assert.True(t, item.Visible)
	assert.Equal(t, domain.SubmissionOpen, item.Status)

	assert.ErrorIs(t, uc.Submit(ctx, student, item.ID, ""), domain.ErrValidation)
	require.NoError(t, uc.Submit(ctx, student, item.ID, "/uploads/submissions/1-a.pdf"))

	list, err := uc.ListByCourse(ctx, courseID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Works, 1)
	require.NotNil(t, list[0].Works[0].Student)
	assert.NotEmpty(t, list[0].Works[0].Student.Email)

	grade := 7.0
	work, err := uc.Grade(ctx, prof, item.ID, student.UserID, &grade, "ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", work.Feedback)

	mine, err := uc.WorksOfStudent(ctx, student, courseID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "HW", mine[0].Title)
	assert.Equal(t, domain.WorkSubmitted, mine[0].Status)

	require.NoError(t, uc.Unsubmit(ctx, student, item.ID))
	mine, err = uc.WorksOfStudent(ctx, student, courseID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	require.NoError(t, uc.Submit(ctx, student, item.ID, "/uploads/submissions/2-a.pdf"))
	e.clock.advanceDays(3)
	assert.ErrorIs(t, uc.Unsubmit(ctx, student, item.ID), domain.ErrAssignmentLate)

	closed := domain.SubmissionClosed
	_, err = uc.Update(ctx, prof, item.ID, SubmissionPatch{Status: &closed})
	require.NoError(t, err)
	assert.ErrorIs(t, uc.Unsubmit(ctx, student, item.ID), domain.ErrAssignmentClosed)
}
