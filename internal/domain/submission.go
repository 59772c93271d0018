package domain

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionType string

const (
	SubmissionAssignment SubmissionType = "Assignment"
	SubmissionQuiz       SubmissionType = "Quiz"
	SubmissionProject    SubmissionType = "Project"
	SubmissionExam       SubmissionType = "Exam"
)

func (t SubmissionType) Valid() bool {
	switch t {
	case SubmissionAssignment, SubmissionQuiz, SubmissionProject, SubmissionExam:
		return true
	}
	return false
}

type SubmissionStatus string

const (
	SubmissionOpen   SubmissionStatus = "Open"
	SubmissionClosed SubmissionStatus = "Closed"
)

type WorkStatus string

const (
	WorkSubmitted    WorkStatus = "Submitted"
	WorkNotSubmitted WorkStatus = "Not Submitted"
)

// Submission is a gradable item of a course (assignment, quiz, ...).
type Submission struct {
	ID       uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID        `gorm:"type:uuid;index;not null" json:"courseId"`
	Title    string           `gorm:"not null" json:"title"`
	Type     SubmissionType   `gorm:"type:varchar(16);not null" json:"type"`
	DueDate  time.Time        `json:"dueDate"`
	Status   SubmissionStatus `gorm:"type:varchar(8);not null" json:"status"`
	Visible  bool             `json:"visible"`

	Works []StudentWork `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE;" json:"submissions"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CanUnsubmit reports why a student may not withdraw work, if they may not.
func (s *Submission) CanUnsubmit(now time.Time) error {
	if s.Status == SubmissionClosed {
		return ErrAssignmentClosed
	}
	if !s.DueDate.IsZero() && now.After(s.DueDate) {
		return ErrAssignmentLate
	}
	return nil
}

// StudentWork is what one student handed in for a submission item.
type StudentWork struct {
	SubmissionID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"-"`
	StudentID    uuid.UUID  `gorm:"type:uuid;primaryKey;index" json:"studentId"`
	FileURL      string     `json:"fileUrl"`
	Status       WorkStatus `gorm:"type:varchar(16);not null" json:"status"`
	Grade        *float64   `json:"grade"`
	Feedback     string     `json:"feedback"`
	SubmittedAt  *time.Time `json:"submittedAt"`

	Student *UserSummary `gorm:"-" json:"student,omitempty"`
}

// StudentWorkView is a student's own work flattened with its item.
type StudentWorkView struct {
	StudentWork
	SubmissionID uuid.UUID      `json:"submissionId"`
	Title        string         `json:"title"`
	Type         SubmissionType `json:"type"`
	DueDate      time.Time      `json:"dueDate"`
}
