package dashboard

import (
	"testing"
	"time"

	"hscrcportal/api/internal/catalog"
	"hscrcportal/api/internal/survey"
)

func sampleSubmissions() []survey.Submission {
	return []survey.Submission{
		{
			Timestamp: time.Date(2025, 6, 10, 14, 30, 0, 0, time.Local),
			Hospital:  "General Hospital",
			Contact:   survey.Contact{Name: "Ann Lee"},
			First:     &survey.Selection{Code: catalog.BP2, Tier: 2},
			Second:    &survey.Selection{Code: catalog.BP4, Tier: 1},
		},
		{
			Hospital: "Mercy Medical",
			Contact:  survey.Contact{Name: "Bo Chen"},
			Approved: true,
			First:    &survey.Selection{Code: catalog.BP2, Tier: 1},
		},
		{
			Hospital: "Harbor Point",
			Contact:  survey.Contact{Name: "Cam Diaz"},
			First:    &survey.Selection{Code: catalog.BP6, Tier: 3},
			Second:   &survey.Selection{Code: catalog.BP2, Tier: 2},
		},
	}
}

func TestSummarizeTotals(t *testing.T) {
	summary := Summarize(sampleSubmissions(), 40, Filter{})
	if summary.TotalHospitals != 40 {
		t.Errorf("roster size wrong: %d", summary.TotalHospitals)
	}
	if summary.TotalSubmissions != 3 || summary.ApprovedCount != 1 || summary.DraftCount != 2 {
		t.Errorf("counts wrong: %+v", summary)
	}
	if summary.PracticeCounts[catalog.BP2] != 3 {
		t.Errorf("BP2 selected three times, got %d", summary.PracticeCounts[catalog.BP2])
	}
	if summary.TierCounts[2] != 2 || summary.TierCounts[1] != 2 || summary.TierCounts[3] != 1 {
		t.Errorf("tier distribution wrong: %v", summary.TierCounts)
	}
	if summary.Matrix[catalog.BP2][2] != 2 || summary.Matrix[catalog.BP6][3] != 1 {
		t.Errorf("matrix wrong: %v", summary.Matrix)
	}
}

func TestSummarizeDetailsSortedByHospital(t *testing.T) {
	summary := Summarize(sampleSubmissions(), 40, Filter{})
	if len(summary.Details) != 3 {
		t.Fatalf("expected 3 details, got %d", len(summary.Details))
	}
	if summary.Details[0].Hospital != "General Hospital" || summary.Details[2].Hospital != "Mercy Medical" {
		t.Errorf("details not sorted: %+v", summary.Details)
	}
	first := summary.Details[0]
	if first.BP1 != "BP2" || first.BP1Tier != 2 || first.BP2 != "BP4" || first.Submitted != "2025-06-10 14:30:00" {
		t.Errorf("detail fields wrong: %+v", first)
	}
}

func TestSummarizeFilters(t *testing.T) {
	subs := sampleSubmissions()

	byHospital := Summarize(subs, 40, Filter{Hospital: "mercy medical"})
	if byHospital.TotalSubmissions != 1 || byHospital.Details[0].Hospital != "Mercy Medical" {
		t.Errorf("hospital filter failed: %+v", byHospital)
	}

	byPractice := Summarize(subs, 40, Filter{Practice: catalog.BP6})
	if byPractice.TotalSubmissions != 1 || byPractice.Details[0].Hospital != "Harbor Point" {
		t.Errorf("practice filter failed: %+v", byPractice)
	}

	byTier := Summarize(subs, 40, Filter{Tier: 2})
	if byTier.TotalSubmissions != 2 {
		t.Errorf("tier filter failed: %+v", byTier)
	}

	// Practice and tier combine on the same selection, not across slots.
	combined := Summarize(subs, 40, Filter{Practice: catalog.BP4, Tier: 2})
	if combined.TotalSubmissions != 0 {
		t.Errorf("combined filter should require one selection matching both: %+v", combined)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	summary := Summarize(nil, 40, Filter{})
	if summary.TotalSubmissions != 0 || len(summary.Details) != 0 {
		t.Errorf("empty input should produce empty summary: %+v", summary)
	}
	if summary.Details == nil {
		t.Error("details should encode as [], not null")
	}
}
