package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	jobs := []JobApplication{
		{ID: "1", Status: StatusApplied},
		{ID: "2", Status: StatusViewed},
		{ID: "3", Status: StatusInterviewScheduled},
		{ID: "4", Status: StatusInterviewed},
		{ID: "5", Status: StatusOffer},
		{ID: "6", Status: StatusGhosted},
		{ID: "7", Status: StatusRejected},
		{ID: "8", Status: Status("SOMETHING_ELSE")},
	}

	s := Summarize(jobs)
	assert.Equal(t, 8, s.Total)
	assert.Equal(t, 2, s.Awaiting)
	assert.Equal(t, 2, s.Interviewing)
	assert.Equal(t, 1, s.Offers)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestBeforeCreate_MintsID(t *testing.T) {
	j := &JobApplication{}
	require.NoError(t, j.BeforeCreate(nil))
	assert.NotEmpty(t, j.ID)

	j2 := &JobApplication{}
	require.NoError(t, j2.BeforeCreate(nil))
	assert.NotEqual(t, j.ID, j2.ID)
}

func TestBeforeCreate_KeepsExistingID(t *testing.T) {
	j := &JobApplication{ID: "fixed"}
	require.NoError(t, j.BeforeCreate(nil))
	assert.Equal(t, "fixed", j.ID)
}

func TestToday_Layout(t *testing.T) {
	d, err := time.Parse(DateLayout, Today())
	require.NoError(t, err)
	assert.False(t, d.IsZero())
}
