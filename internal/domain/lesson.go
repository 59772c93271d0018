package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const MaxStepFiles = 10

type ActionStep struct {
	StepID       string   `json:"stepId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ResourceURL  string   `json:"resourceUrl,omitempty"`
	YoutubeLinks []string `json:"youtubeLinks"`
	Files        []string `json:"files"`
}

type LessonAssignment struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type Lesson struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;index" json:"courseId"`
	Position    int       `json:"position"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Open        bool      `json:"open"`

	ActionSteps datatypes.JSONSlice[ActionStep]        `json:"actionSteps"`
	Assignment  datatypes.JSONType[*LessonAssignment] `json:"assignment"`

	Progress []ProgressRecord `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE;" json:"progress,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Step returns the index of the step with the given client id, or -1.
func (l *Lesson) Step(stepID string) int {
	for i, s := range l.ActionSteps {
		if s.StepID == stepID {
			return i
		}
	}
	return -1
}

func (l *Lesson) StepIDs() []string {
	ids := make([]string, 0, len(l.ActionSteps))
	for _, s := range l.ActionSteps {
		ids = append(ids, s.StepID)
	}
	return ids
}

// NormalizeSteps checks step ids and trims files to MaxStepFiles. Order is kept.
func NormalizeSteps(steps []ActionStep) ([]ActionStep, error) {
	out := make([]ActionStep, 0, len(steps))
	seen := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		s.StepID = strings.TrimSpace(s.StepID)
		if s.StepID == "" {
			return nil, Invalid("actionSteps.stepId", "is required")
		}
		if _, dup := seen[s.StepID]; dup {
			return nil, Invalid("actionSteps.stepId", "duplicate step id "+s.StepID)
		}
		seen[s.StepID] = struct{}{}

		s.YoutubeLinks = nonEmpty(s.YoutubeLinks)
		s.Files = nonEmpty(s.Files)
		if len(s.Files) > MaxStepFiles {
			s.Files = s.Files[:MaxStepFiles]
		}
		out = append(out, s)
	}
	return out, nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
