package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pattarak/jobtracker-pro/internal/models"
)

func TestUpdateColumns_ExcludesID(t *testing.T) {
	job := models.JobApplication{
		ID:             "should-not-appear",
		Company:        "Acme",
		Position:       "Engineer",
		Salary:         "negotiable",
		DateApplied:    "2025-11-18",
		DateUpdated:    "2025-11-20",
		Channel:        "JobThai",
		Status:         models.StatusOffer,
		Contact:        "hr@acme.example",
		Notes:          "note",
		JobDescription: "jd",
	}

	cols := updateColumns(job)

	assert.NotContains(t, cols, "id")
	assert.Equal(t, "Acme", cols["company"])
	assert.Equal(t, "Engineer", cols["position"])
	assert.Equal(t, "negotiable", cols["salary"])
	assert.Equal(t, "2025-11-18", cols["date_applied"])
	assert.Equal(t, "2025-11-20", cols["date_updated"])
	assert.Equal(t, "JobThai", cols["channel"])
	assert.Equal(t, models.StatusOffer, cols["status"])
	assert.Equal(t, "hr@acme.example", cols["contact"])
	assert.Equal(t, "note", cols["notes"])
	assert.Equal(t, "jd", cols["job_description"])
}
