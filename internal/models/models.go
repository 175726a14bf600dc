package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the progression stage of a job application. It is stored as
// plain text so that records created by older or newer versions of the app
// still load even if they carry a stage this build does not know about.
type Status string

const (
	StatusApplied            Status = "APPLIED"
	StatusViewed             Status = "VIEWED_BY_COMPANY"
	StatusInterviewScheduled Status = "INTERVIEW_SCHEDULED"
	StatusInterviewed        Status = "INTERVIEWED_AWAITING_RESULT"
	StatusOffer              Status = "OFFER"
	StatusGhosted            Status = "GHOSTED"
	StatusRejected           Status = "REJECTED"
)

// StatusAll is the filter wildcard, never stored on a record.
const StatusAll Status = "ALL"

// AllStatuses lists the known stages in typical progression order.
func AllStatuses() []Status {
	return []Status{
		StatusApplied,
		StatusViewed,
		StatusInterviewScheduled,
		StatusInterviewed,
		StatusOffer,
		StatusGhosted,
		StatusRejected,
	}
}

// DateLayout is the calendar-date format used by DateApplied and DateUpdated.
const DateLayout = "2006-01-02"

// Today returns the current date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// JobApplication is one tracked application. Salary is free text on purpose
// ("negotiable", "30K-35K", ...); dates are ISO date strings, not timestamps.
type JobApplication struct {
	ID             string `gorm:"primaryKey" json:"id"`
	Company        string `gorm:"not null" json:"company"`
	Position       string `gorm:"not null" json:"position"`
	Salary         string `json:"salary"`
	DateApplied    string `json:"date_applied"`
	DateUpdated    string `gorm:"index" json:"date_updated"`
	Channel        string `json:"channel"`
	Status         Status `gorm:"default:'APPLIED'" json:"status"`
	Contact        string `json:"contact"`
	Notes          string `gorm:"type:text" json:"notes"`
	JobDescription string `gorm:"type:text" json:"job_description"`
}

// BeforeCreate mints the identifier server-side when the caller left it
// empty, mirroring a document store assigning ids on insert.
func (j *JobApplication) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// Summary carries the four aggregate counts shown on the dashboard.
type Summary struct {
	Total        int `json:"total"`
	Awaiting     int `json:"awaiting"`
	Interviewing int `json:"interviewing"`
	Offers       int `json:"offers"`
}

// Summarize derives the dashboard counts from a record list. Awaiting groups
// the pre-interview stages, Interviewing groups scheduled and done-waiting.
func Summarize(jobs []JobApplication) Summary {
	s := Summary{Total: len(jobs)}
	for _, j := range jobs {
		switch j.Status {
		case StatusApplied, StatusViewed:
			s.Awaiting++
		case StatusInterviewScheduled, StatusInterviewed:
			s.Interviewing++
		case StatusOffer:
			s.Offers++
		}
	}
	return s
}
