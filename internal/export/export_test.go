package export

import (
	"strings"
	"testing"
	"time"

	"hscrcportal/api/internal/catalog"
	"hscrcportal/api/internal/survey"
)

func sampleSubmission() survey.Submission {
	return survey.Submission{
		Timestamp: time.Date(2025, 6, 10, 14, 30, 0, 0, time.Local),
		Hospital:  "General Hospital",
		Contact:   survey.Contact{Name: "Ann Lee", Email: "ann@example.org", Phone: "410-555-0101"},
		First: &survey.Selection{
			Code: catalog.BP2,
			Tier: 1,
			Answers: map[string]string{
				"bp1_capacity_metrics": "NEDOC, Other: hallway census",
				"bp1_t1_target":        "90%",
				"bp1_t1_actual":        "85%",
				"bp1_rationale":        "fits our flow goals",
				"bp1_success":          "staffing barrier",
			},
		},
	}
}

func TestBuildReportDataHeaderAndStatus(t *testing.T) {
	sub := sampleSubmission()
	data := BuildReportData(sub)
	if data.Hospital != "General Hospital" || data.Submitted != "2025-06-10 14:30:00" {
		t.Errorf("header wrong: %+v", data)
	}
	if data.Status != "DRAFT" || data.ApprovalLn != "" {
		t.Errorf("draft status wrong: %+v", data)
	}

	sub.Approved = true
	sub.ApprovedBy = "Jane Reviewer"
	sub.ApprovedAt = time.Date(2025, 6, 11, 9, 0, 0, 0, time.Local)
	data = BuildReportData(sub)
	if data.Status != "APPROVED" || !strings.Contains(data.ApprovalLn, "Jane Reviewer") {
		t.Errorf("approval line wrong: %+v", data)
	}
}

func TestBuildReportDataSkipsEmptySlot(t *testing.T) {
	data := BuildReportData(sampleSubmission())
	if len(data.Sections) != 1 {
		t.Fatalf("expected one section, got %d", len(data.Sections))
	}
	section := data.Sections[0]
	if section.Practice != "BP2: Bed Capacity Alert System" {
		t.Errorf("unexpected practice header %q", section.Practice)
	}
	if section.Rationale != "fits our flow goals" || section.Success != "staffing barrier" {
		t.Errorf("narratives wrong: %+v", section)
	}
}

func TestBuildReportDataTruncatesLongAnswers(t *testing.T) {
	sub := sampleSubmission()
	sub.First.Answers["bp1_rationale"] = strings.Repeat("x", 600)
	data := BuildReportData(sub)
	rationale := data.Sections[0].Rationale
	if len(rationale) != maxAnswerLength+3 || !strings.HasSuffix(rationale, "...") {
		t.Errorf("expected clipped rationale, got length %d", len(rationale))
	}
}

func TestBuildReportDataRetiredCodeFallsBack(t *testing.T) {
	sub := sampleSubmission()
	sub.First.Code = "BP9"
	data := BuildReportData(sub)
	if len(data.Sections) != 1 {
		t.Fatalf("expected one section, got %d", len(data.Sections))
	}
	if data.Sections[0].Practice != "BP9" {
		t.Errorf("retired code should print raw: %q", data.Sections[0].Practice)
	}
	if len(data.Sections[0].Fields) == 0 {
		t.Error("raw answers should still be listed")
	}
}

func TestRenderReportHTML(t *testing.T) {
	html, err := RenderReportHTML(BuildReportData(sampleSubmission()))
	if err != nil {
		t.Fatalf("RenderReportHTML failed: %v", err)
	}
	for _, want := range []string{
		"General Hospital", "Ann Lee", "BP2: Bed Capacity Alert System",
		"NEDOC, Other: hallway census", "Success Stories / Barriers",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report HTML missing %q", want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"General Hospital Report", "General-Hospital-Report"},
		{"Mercy! Medical #2", "Mercy-Medical-2"},
		{"", "report"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello world", "hello%20world"},
		{"test+sign", "test%2Bsign"},
		{"normal-text.txt", "normal-text.txt"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := percentEncodeForDataURL(tt.input); got != tt.expected {
				t.Errorf("percentEncodeForDataURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
