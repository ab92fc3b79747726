package export

import (
	"fmt"

	"hscrcportal/api/internal/survey"
)

// Service renders submission reports.
type Service struct{}

// NewService creates a new export service
func NewService() *Service {
	return &Service{}
}

// SubmissionReport renders the hospital's current submission as a PDF.
func (s *Service) SubmissionReport(sub survey.Submission) (*Result, error) {
	html, err := RenderReportHTML(BuildReportData(sub))
	if err != nil {
		return nil, fmt.Errorf("render report template: %w", err)
	}
	return exportPDF(html, sub.Hospital+" Best Practice Report")
}
