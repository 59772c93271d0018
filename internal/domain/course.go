package domain

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Details     string    `json:"details"`
	ProfessorID uuid.UUID `gorm:"type:uuid;index" json:"professorId"`
	Banner      string    `json:"banner"`

	Lessons []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"lessons"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CanManage reports whether the caller may change the course and its lessons.
func (c *Course) CanManage(s Session) bool {
	return s.IsAdmin() || (s.UserID != uuid.Nil && c.ProfessorID == s.UserID)
}

type Enrollment struct {
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	StudentID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

type GradeStatus string

const (
	GradePass GradeStatus = "pass"
	GradeFail GradeStatus = "fail"
)

type Grade struct {
	CourseID  uuid.UUID   `gorm:"type:uuid;primaryKey" json:"-"`
	StudentID uuid.UUID   `gorm:"type:uuid;primaryKey" json:"studentId"`
	Grade     float64     `json:"grade"`
	Status    GradeStatus `gorm:"type:varchar(8)" json:"status,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// CourseDetail is a course together with its roster and grade book.
type CourseDetail struct {
	Course
	Enrolled []UserSummary `json:"enrolled"`
	Grades   []Grade       `json:"grades"`
}
