package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pattarak/jobtracker-pro/internal/dtos"
	"github.com/pattarak/jobtracker-pro/internal/logging"
	"github.com/pattarak/jobtracker-pro/internal/models"
	"github.com/pattarak/jobtracker-pro/internal/services"
	"github.com/pattarak/jobtracker-pro/internal/store"
	"github.com/pattarak/jobtracker-pro/internal/tracker"
)

// JobHandler exposes the tracker over HTTP. LLM may be nil when the analysis
// feature is disabled; every other route works without it.
type JobHandler struct {
	Tracker *tracker.Tracker
	LLM     *services.LLMService
	Log     logging.Logger
}

func NewJobHandler(t *tracker.Tracker, llm *services.LLMService, log logging.Logger) *JobHandler {
	return &JobHandler{
		Tracker: t,
		LLM:     llm,
		Log:     log,
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListJobs is GET /jobs?q=...&status=... It updates the session's filter
// criteria and returns the filtered view plus the unfiltered total.
func (h *JobHandler) ListJobs(c *gin.Context) {
	q := c.Query("q")
	status := models.Status(c.DefaultQuery("status", string(models.StatusAll)))

	h.Tracker.SetFilter(q, status)
	jobs := h.Tracker.FilteredView()

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
		"total": len(h.Tracker.Records()),
	})
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	created, err := h.Tracker.RequestCreate(c.Request.Context(), req.ToModel())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save job: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	job := req.ToModel()
	job.ID = c.Param("id")

	updated, err := h.Tracker.RequestUpdate(c.Request.Context(), job)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No job with id " + job.ID})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save job: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// MarkDelete stages a record for deletion without removing it.
func (h *JobHandler) MarkDelete(c *gin.Context) {
	id := c.Param("id")
	h.Tracker.MarkPendingDelete(id)
	c.JSON(http.StatusOK, gin.H{"pending_delete": id})
}

func (h *JobHandler) ConfirmDelete(c *gin.Context) {
	id, err := h.Tracker.ConfirmDelete(c.Request.Context())
	if err != nil {
		if errors.Is(err, tracker.ErrNoPendingDelete) {
			c.JSON(http.StatusConflict, gin.H{"error": "No delete is pending confirmation"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete job: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *JobHandler) CancelDelete(c *gin.Context) {
	h.Tracker.CancelDelete()
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// Stats returns the dashboard summary counts.
func (h *JobHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Tracker.Summary())
}

// WatchJobs streams the live subscription as server-sent events: the current
// list immediately, then the full list again after every change. The stream
// ends when the client disconnects.
func (h *JobHandler) WatchJobs(c *gin.Context) {
	ch, cancel := h.Tracker.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("jobs", snap)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// AnalyzeJob runs the AI job-description analysis. Failures come back inside
// a 200 body with a classified kind, so the client renders them inline next
// to the form instead of as a save-style alert.
func (h *JobHandler) AnalyzeJob(c *gin.Context) {
	var req dtos.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	if h.LLM == nil {
		c.JSON(http.StatusOK, gin.H{
			"analysis_error": analysisErrorKind(services.ErrInvalidAPIKey),
			"message":        "Analysis is disabled: no API key configured",
		})
		return
	}

	advice, err := h.LLM.AnalyzeJobDescription(c.Request.Context(), req.Position, req.Company, req.JobDescription)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"analysis_error": analysisErrorKind(err),
			"message":        err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"advice": advice})
}

func analysisErrorKind(err error) string {
	switch {
	case errors.Is(err, services.ErrModelNotFound):
		return "model_not_found"
	case errors.Is(err, services.ErrInvalidAPIKey):
		return "invalid_api_key"
	case errors.Is(err, services.ErrQuotaExceeded):
		return "quota_exceeded"
	default:
		return "connection_error"
	}
}
