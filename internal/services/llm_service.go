package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/pattarak/jobtracker-pro/internal/logging"
)

// Classified analysis failures. The handler renders these inline instead of
// as a blocking error, so the user can tell a bad key from a flaky network.
var (
	ErrModelNotFound = errors.New("analysis model not available")
	ErrInvalidAPIKey = errors.New("invalid or missing API key")
	ErrQuotaExceeded = errors.New("analysis quota exceeded")
)

type LLMService struct {
	Client llms.Model
	log    logging.Logger
}

// NewLLMService initializes the Gemini client. An empty key is refused here
// so the caller can run the tracker with the analysis feature disabled.
func NewLLMService(ctx context.Context, apiKey, model string, log logging.Logger) (*LLMService, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &LLMService{Client: llm, log: log}, nil
}

// AnalyzeJobDescription asks the model for application advice on one role.
// The description is optional; without it the model gives general advice for
// the position instead.
func (s *LLMService) AnalyzeJobDescription(ctx context.Context, position, company, jobDescription string) (string, error) {
	prompt := buildAnalysisPrompt(position, company, jobDescription)

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		s.log.Error(ctx, "analysis call failed", "position", position, "error", err)
		return "", classifyAnalysisError(err)
	}
	return resp, nil
}

// descriptions longer than this are truncated before prompting
const maxDescriptionLen = 20000

func buildAnalysisPrompt(position, company, jobDescription string) string {
	if len(jobDescription) > maxDescriptionLen {
		jobDescription = jobDescription[:maxDescriptionLen]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I am applying for the position of %q at %q. ", position, company)
	if jobDescription != "" {
		fmt.Fprintf(&b, "Here is the job description:\n%s\n\n", jobDescription)
		b.WriteString(`Please analyze this job description and provide:
1. A summary of the 3 key skills required.
2. 3 potential interview questions specific to this role.
3. Short advice on how to stand out for this application.`)
	} else {
		b.WriteString("I don't have the full job description yet. " +
			"Please provide general advice for this role and 3 common interview questions for this position.")
	}
	return b.String()
}

// classifyAnalysisError maps a provider error onto one of the user-facing
// failure categories, falling back to a generic connection error.
func classifyAnalysisError(err error) error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "404"):
		return fmt.Errorf("%w: %s", ErrModelNotFound, msg)
	case strings.Contains(msg, "403"), strings.Contains(lower, "api key"):
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, msg)
	case strings.Contains(msg, "429"), strings.Contains(lower, "quota"):
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, msg)
	default:
		return fmt.Errorf("failed to reach the analysis service: %w", err)
	}
}
