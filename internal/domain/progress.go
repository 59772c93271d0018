package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProgressRecord is one student's progress through one lesson.
type ProgressRecord struct {
	LessonID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"lessonId"`
	StudentID              uuid.UUID                   `gorm:"type:uuid;primaryKey;index" json:"student"`
	CompletedSteps         datatypes.JSONSlice[string] `json:"completedSteps"`
	LastStepCompletionDate *time.Time                  `json:"lastStepCompletionDate"`
	Streak                 int                         `gorm:"not null" json:"streak"`
	LessonCompleted        bool                        `gorm:"not null" json:"lessonCompleted"`
	UpdatedAt              time.Time                   `json:"updatedAt"`
}

func (ProgressRecord) TableName() string { return "lesson_progress" }

const day = 24 * time.Hour

// Today truncates t to midnight UTC. Streaks count UTC calendar days.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewProgress starts a record for a student who has no progress on the lesson yet.
func NewProgress(lessonID, studentID uuid.UUID, steps []string, now time.Time) ProgressRecord {
	p := ProgressRecord{
		LessonID:       lessonID,
		StudentID:      studentID,
		CompletedSteps: normalizeSteps(steps),
	}
	if len(p.CompletedSteps) > 0 {
		today := Today(now)
		p.LastStepCompletionDate = &today
		p.Streak = 1
	}
	return p
}

// ApplySteps replaces the completed set. The streak moves only when the set grows:
// +1 if the last completion was yesterday, unchanged if it was today, reset to 1 otherwise.
func (p *ProgressRecord) ApplySteps(steps []string, now time.Time) {
	prev := len(p.CompletedSteps)
	p.CompletedSteps = normalizeSteps(steps)
	if len(p.CompletedSteps) <= prev {
		return
	}

	today := Today(now)
	switch {
	case p.LastStepCompletionDate != nil && today.Sub(Today(*p.LastStepCompletionDate)) == day:
		p.Streak++
	case p.LastStepCompletionDate != nil && today.Equal(Today(*p.LastStepCompletionDate)):
	default:
		p.Streak = 1
	}
	p.LastStepCompletionDate = &today
}

// StepsCompleted is the step-derived notion of completion: every step of the
// lesson is in the completed set. It is independent of LessonCompleted.
func StepsCompleted(stepIDs []string, p *ProgressRecord) bool {
	if p == nil || len(stepIDs) == 0 {
		return false
	}
	done := make(map[string]struct{}, len(p.CompletedSteps))
	for _, s := range p.CompletedSteps {
		done[s] = struct{}{}
	}
	for _, id := range stepIDs {
		if _, ok := done[id]; !ok {
			return false
		}
	}
	return true
}

func normalizeSteps(steps []string) datatypes.JSONSlice[string] {
	if steps == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](steps)
}
