// Package email provides email sending capabilities via SMTP.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"hscrcportal/api/internal/catalog"
	"hscrcportal/api/internal/survey"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Service sends the portal's notification emails. It is deliberately
// best-effort: callers report a failed send as a flag, never as a failed
// operation.
type Service struct {
	config Config
	server string
	auth   smtp.Auth
}

// NewService creates a new email service
func NewService(config Config) *Service {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Host)

	return &Service{
		config: config,
		server: config.Host + ":" + config.Port,
		auth:   auth,
	}
}

// IsConfigured returns true if email is configured
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.Port != "" && s.config.From != ""
}

// SendHTMLEmail sends an HTML email
func (s *Service) SendHTMLEmail(to []string, subject, htmlBody string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email not configured")
	}

	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	boundary := "boundary-hscrc"

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
	fmt.Fprintf(&msg, "\r\n")

	// Plain text part (fallback)
	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "Please view this email in an HTML-capable email client.\r\n")
	fmt.Fprintf(&msg, "\r\n")

	// HTML part
	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "%s\r\n", htmlBody)
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return smtp.SendMail(s.server, s.auth, s.config.From, to, msg.Bytes())
}

// SubmissionData holds data for the submission confirmation template
type SubmissionData struct {
	Hospital  string
	Contact   string
	Submitted string
	BP1       string
	BP1Tier   string
	BP2       string
	BP2Tier   string
}

// ApprovalData holds data for the approval notification template
type ApprovalData struct {
	Hospital   string
	Contact    string
	ApprovedBy string
	ApprovedAt string
}

// SendSubmissionEmail confirms a survey submission to the hospital contact.
func (s *Service) SendSubmissionEmail(to string, sub survey.Submission) error {
	data := SubmissionData{
		Hospital:  sub.Hospital,
		Contact:   sub.Contact.Name,
		Submitted: sub.Timestamp.Format(survey.TimeLayout),
		BP1:       slotSummary(sub.First),
		BP1Tier:   slotTier(sub.First),
		BP2:       slotSummary(sub.Second),
		BP2Tier:   slotTier(sub.Second),
	}

	subject := fmt.Sprintf("HSCRC Survey Submitted - %s", sub.Hospital)
	html, err := renderTemplate(submissionEmailTemplate, data)
	if err != nil {
		return fmt.Errorf("render submission template: %w", err)
	}

	return s.SendHTMLEmail([]string{to}, subject, html)
}

// SendApprovalEmail notifies the hospital contact their submission was
// approved.
func (s *Service) SendApprovalEmail(to string, sub survey.Submission) error {
	data := ApprovalData{
		Hospital:   sub.Hospital,
		Contact:    sub.Contact.Name,
		ApprovedBy: sub.ApprovedBy,
		ApprovedAt: sub.ApprovedAt.Format(survey.TimeLayout),
	}

	subject := fmt.Sprintf("HSCRC Survey APPROVED - %s", sub.Hospital)
	html, err := renderTemplate(approvalEmailTemplate, data)
	if err != nil {
		return fmt.Errorf("render approval template: %w", err)
	}

	return s.SendHTMLEmail([]string{to}, subject, html)
}

func slotSummary(sel *survey.Selection) string {
	if sel == nil {
		return "N/A"
	}
	return catalog.DisplayName(sel.Code)
}

func slotTier(sel *survey.Selection) string {
	if sel == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", sel.Tier)
}

func renderTemplate(tmpl string, data interface{}) (string, error) {
	t := template.Must(template.New("email").Parse(tmpl))
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const submissionEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Survey Submitted - {{.Hospital}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; }
        .header { background-color: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; }
        .info-box { background-color: #f8f9fa; padding: 15px; border-left: 4px solid #0066cc; margin: 15px 0; }
        .footer { background-color: #f8f9fa; padding: 15px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Survey Submitted Successfully</h1>
    </div>

    <div class="content">
        <p>Dear {{.Contact}},</p>

        <p>Thank you for submitting your HSCRC Best Practices Survey for <strong>{{.Hospital}}</strong>.</p>

        <div class="info-box">
            <h3>Submission Summary</h3>
            <p><strong>Submitted:</strong> {{.Submitted}}</p>
            <p><strong>Hospital:</strong> {{.Hospital}}</p>
            <p><strong>Contact:</strong> {{.Contact}}</p>
        </div>

        <div class="info-box">
            <h3>Best Practices Selected</h3>
            <p><strong>First Best Practice:</strong> {{.BP1}} (Tier {{.BP1Tier}})</p>
            <p><strong>Second Best Practice:</strong> {{.BP2}} (Tier {{.BP2Tier}})</p>
        </div>

        <p><strong>Status:</strong> DRAFT - Your submission is currently under review by HSCRC staff.</p>

        <p>You can log back into the portal at any time to:</p>
        <ul>
            <li>View your submission</li>
            <li>Edit your responses (before approval)</li>
            <li>Download a PDF report</li>
        </ul>

        <p>You will receive another email once your submission has been approved by HSCRC staff.</p>
    </div>

    <div class="footer">
        <p>Maryland Health Services Cost Review Commission</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>`

const approvalEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Survey Approved - {{.Hospital}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; }
        .header { background-color: #28a745; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; }
        .info-box { background-color: #d4edda; padding: 15px; border-left: 4px solid #28a745; margin: 15px 0; }
        .footer { background-color: #f8f9fa; padding: 15px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Survey Approved</h1>
    </div>

    <div class="content">
        <p>Dear {{.Contact}},</p>

        <p>Your HSCRC Best Practices Survey for <strong>{{.Hospital}}</strong> has been approved.</p>

        <div class="info-box">
            <h3>Approval Details</h3>
            <p><strong>Approved by:</strong> {{.ApprovedBy}}</p>
            <p><strong>Approved on:</strong> {{.ApprovedAt}}</p>
        </div>

        <p>No further action is required. Your submission is now final; contact
        HSCRC staff if anything needs to change.</p>
    </div>

    <div class="footer">
        <p>Maryland Health Services Cost Review Commission</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>`
