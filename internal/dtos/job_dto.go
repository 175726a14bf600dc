package dtos

import "github.com/pattarak/jobtracker-pro/internal/models"

// JobRequest is the create/update payload. Only company and position are
// mandatory; everything else mirrors the entry form's optional fields.
type JobRequest struct {
	Company     string `json:"company" binding:"required"`
	Position    string `json:"position" binding:"required"`
	Salary      string `json:"salary"`
	DateApplied string `json:"date_applied"`
	Channel     string `json:"channel"`
	Status      string `json:"status"` // defaults to APPLIED if empty

	// Optional fields
	Contact        string `json:"contact"`
	Notes          string `json:"notes"`
	JobDescription string `json:"job_description"`
}

// ToModel converts the payload into a draft record with no identifier.
func (r *JobRequest) ToModel() models.JobApplication {
	return models.JobApplication{
		Company:        r.Company,
		Position:       r.Position,
		Salary:         r.Salary,
		DateApplied:    r.DateApplied,
		Channel:        r.Channel,
		Status:         models.Status(r.Status),
		Contact:        r.Contact,
		Notes:          r.Notes,
		JobDescription: r.JobDescription,
	}
}

// AnalyzeRequest asks for AI advice on one role.
type AnalyzeRequest struct {
	Position       string `json:"position" binding:"required"`
	Company        string `json:"company"`
	JobDescription string `json:"job_description"`
}
