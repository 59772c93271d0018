package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStepsCapsFiles(t *testing.T) {
	var files []string
	for i := 0; i < 14; i++ {
		files = append(files, fmt.Sprintf("/uploads/lessons/%d.pdf", i))
	}
	steps, err := NormalizeSteps([]ActionStep{
		{StepID: " s1 ", Files: files, YoutubeLinks: []string{"", "https://youtu.be/x"}},
		{StepID: "s2"},
	})
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "s1", steps[0].StepID)
	assert.Len(t, steps[0].Files, MaxStepFiles)
	assert.Equal(t, []string{"https://youtu.be/x"}, steps[0].YoutubeLinks)
	assert.NotNil(t, steps[1].Files)
}

func TestNormalizeStepsRejectsMissingAndDuplicateIDs(t *testing.T) {
	_, err := NormalizeSteps([]ActionStep{{Title: "no id"}})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = NormalizeSteps([]ActionStep{{StepID: "a"}, {StepID: "a"}})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestValidateSections(t *testing.T) {
	assert.NoError(t, ValidateSections([]Section{{Type: SectionText, Content: "hi"}, {Type: SectionFile, FileURL: "/uploads/discussion/a.png"}}))
	assert.ErrorIs(t, ValidateSections([]Section{{Type: "video"}}), ErrValidation)
	assert.ErrorIs(t, ValidateSections([]Section{{Type: SectionFile}}), ErrValidation)
}
