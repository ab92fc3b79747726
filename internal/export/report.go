package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"hscrcportal/api/internal/catalog"
	"hscrcportal/api/internal/form"
	"hscrcportal/api/internal/survey"
)

// Long free-text answers are clipped in the report.
const maxAnswerLength = 500

// ReportField is one labeled answer in a practice section.
type ReportField struct {
	Label string
	Value string
}

// ReportSection is one selected practice with its tier and answers.
type ReportSection struct {
	Practice  string
	TierTitle string
	Fields    []ReportField
	Rationale string
	Success   string
}

// ReportData holds data for the submission report template
type ReportData struct {
	Hospital   string
	Contact    string
	Email      string
	Phone      string
	Submitted  string
	Status     string
	ApprovalLn string
	Sections   []ReportSection
}

// BuildReportData flattens a submission into its printable form. Empty slots
// are skipped; a submission with no selections still yields a valid header
// block.
func BuildReportData(sub survey.Submission) ReportData {
	data := ReportData{
		Hospital:  sub.Hospital,
		Contact:   sub.Contact.Name,
		Email:     sub.Contact.Email,
		Phone:     sub.Contact.Phone,
		Submitted: sub.Timestamp.Format(survey.TimeLayout),
		Status:    "DRAFT",
	}
	if sub.Approved {
		data.Status = "APPROVED"
		data.ApprovalLn = fmt.Sprintf("Approved by %s on %s",
			sub.ApprovedBy, sub.ApprovedAt.Format(survey.TimeLayout))
	}
	if section, ok := buildSection(form.SlotFirst, sub.First); ok {
		data.Sections = append(data.Sections, section)
	}
	if section, ok := buildSection(form.SlotSecond, sub.Second); ok {
		data.Sections = append(data.Sections, section)
	}
	return data
}

// buildSection re-renders the selection's form against its stored answers so
// the report shows the same fields, labels and order the portal did.
func buildSection(slot form.Slot, sel *survey.Selection) (ReportSection, bool) {
	if sel == nil {
		return ReportSection{}, false
	}
	section := ReportSection{Practice: catalog.DisplayName(sel.Code)}
	if practice, ok := catalog.Lookup(sel.Code); ok {
		section.TierTitle = practice.Tiers[sel.Tier].Title
	}
	if section.TierTitle == "" {
		section.TierTitle = fmt.Sprintf("Tier %d", sel.Tier)
	}

	f, err := form.New(sel.Code, sel.Tier, slot)
	if err != nil {
		// A retired practice code still gets its raw answers printed.
		for col, value := range sel.Answers {
			section.Fields = append(section.Fields, ReportField{Label: col, Value: truncate(value)})
		}
		return section, true
	}

	for _, spec := range f.Render(sel.Answers) {
		if spec.Transient || spec.Initial == "" {
			continue
		}
		switch spec.Key.Name {
		case catalog.FieldRationale:
			section.Rationale = truncate(spec.Initial)
		case catalog.FieldSuccess:
			section.Success = truncate(spec.Initial)
		default:
			section.Fields = append(section.Fields, ReportField{Label: spec.Label, Value: truncate(spec.Initial)})
		}
	}
	return section, true
}

func truncate(s string) string {
	if len(s) <= maxAnswerLength {
		return s
	}
	return strings.TrimSpace(s[:maxAnswerLength]) + "..."
}

// RenderReportHTML renders the report template with provided data
func RenderReportHTML(data ReportData) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateHTML))

const reportTemplateHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Hospital}} Best Practice Report</title>
    <style>
        body { font-family: Arial, sans-serif; color: #333; line-height: 1.5; }
        h1 { color: #0066cc; border-bottom: 3px solid #0066cc; padding-bottom: 8px; }
        h2 { color: #0066cc; margin-top: 28px; }
        .meta { background: #f8f9fa; padding: 16px; border-left: 4px solid #0066cc; }
        .meta p { margin: 4px 0; }
        .approved { color: #28a745; font-weight: bold; }
        .draft { color: #856404; font-weight: bold; }
        table { width: 100%; border-collapse: collapse; margin: 12px 0; }
        td { border: 1px solid #ddd; padding: 8px; vertical-align: top; }
        td.label { width: 45%; background: #f8f9fa; font-weight: bold; }
        .narrative { margin: 12px 0; }
        .narrative h3 { margin-bottom: 4px; }
    </style>
</head>
<body>
    <h1>HSCRC Best Practices Survey Report</h1>

    <div class="meta">
        <p><strong>Hospital:</strong> {{.Hospital}}</p>
        <p><strong>Contact:</strong> {{.Contact}}</p>
        <p><strong>Email:</strong> {{.Email}}</p>
        <p><strong>Phone:</strong> {{.Phone}}</p>
        <p><strong>Submitted:</strong> {{.Submitted}}</p>
        {{if .ApprovalLn}}
        <p class="approved">Status: {{.Status}} &mdash; {{.ApprovalLn}}</p>
        {{else}}
        <p class="draft">Status: {{.Status}}</p>
        {{end}}
    </div>

    {{range .Sections}}
    <h2>{{.Practice}}</h2>
    <p><em>{{.TierTitle}}</em></p>
    {{if .Fields}}
    <table>
        {{range .Fields}}
        <tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
        {{end}}
    </table>
    {{end}}
    {{if .Rationale}}
    <div class="narrative">
        <h3>Rationale</h3>
        <p>{{.Rationale}}</p>
    </div>
    {{end}}
    {{if .Success}}
    <div class="narrative">
        <h3>Success Stories / Barriers</h3>
        <p>{{.Success}}</p>
    </div>
    {{end}}
    {{end}}
</body>
</html>`
