package search

import (
	"context"
	"strings"
	"testing"
	"time"

	"hscrcportal/api/internal/catalog"
	"hscrcportal/api/internal/sheet"
	"hscrcportal/api/internal/survey"
)

func seedStore(t *testing.T) *sheet.MemStore {
	t.Helper()
	store := sheet.NewMemStore()
	subs := []survey.Submission{
		{
			Timestamp: time.Now(),
			Hospital:  "General Hospital",
			Contact:   survey.Contact{Name: "Ann Lee", Email: "ann@example.org"},
			First: &survey.Selection{
				Code: catalog.BP2, Tier: 1,
				Answers: map[string]string{
					"bp1_rationale": "we picked the bed capacity alert to cut boarding hours",
					"bp1_success":   "radio dead zones were a barrier",
				},
			},
		},
		{
			Timestamp: time.Now(),
			Hospital:  "Mercy Medical",
			Contact:   survey.Contact{Name: "Bo Chen", Email: "bo@example.org"},
			Approved:  true,
			First: &survey.Selection{
				Code: catalog.BP6, Tier: 2,
				Answers: map[string]string{
					"bp1_rationale": "sepsis pathway was our biggest variation source",
					"bp1_success":   "order set adoption is at 80 percent",
				},
			},
		},
	}
	for _, sub := range subs {
		if err := store.Upsert(context.Background(), sub.Hospital, survey.ToRow(sub)); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestScanMatchesNarrativeText(t *testing.T) {
	scan := NewScan(seedStore(t))
	results, total, err := scan.Search(Query{Text: "boarding"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 || len(results) != 1 {
		t.Fatalf("expected one hit, got total=%d results=%d", total, len(results))
	}
	if results[0].Hospital != "General Hospital" {
		t.Errorf("wrong hit %+v", results[0])
	}
	if !strings.Contains(results[0].Snippet, "boarding") {
		t.Errorf("snippet should contain the match, got %q", results[0].Snippet)
	}
}

func TestScanMatchesContactAndHospital(t *testing.T) {
	scan := NewScan(seedStore(t))

	results, _, err := scan.Search(Query{Text: "bo chen"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Hospital != "Mercy Medical" {
		t.Errorf("contact search failed: %+v", results)
	}
	if !results[0].Approved {
		t.Error("approval flag lost in result")
	}

	results, _, err = scan.Search(Query{Text: "MERCY"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("hospital search should be case-insensitive: %+v", results)
	}
}

func TestScanEmptyQueryReturnsAll(t *testing.T) {
	scan := NewScan(seedStore(t))
	_, total, err := scan.Search(Query{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("expected all rows for empty query, got %d", total)
	}
}

func TestScanNoMatch(t *testing.T) {
	scan := NewScan(seedStore(t))
	results, total, err := scan.Search(Query{Text: "zzz-not-present"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 || len(results) != 0 {
		t.Errorf("expected no hits, got %d", total)
	}
}

func TestServiceFallsBackToScan(t *testing.T) {
	// No Meilisearch configured at all.
	svc := NewService(nil, NewScan(seedStore(t)))
	resp := svc.Search(Query{Text: "sepsis"})
	if resp.Total != 1 || resp.Results[0].Hospital != "Mercy Medical" {
		t.Errorf("fallback search failed: %+v", resp)
	}
}

func TestBuildRecord(t *testing.T) {
	sub := survey.Submission{
		Hospital: "General Hospital",
		Contact:  survey.Contact{Name: "Ann Lee", Email: "ann@example.org"},
		First: &survey.Selection{
			Code: catalog.BP4, Tier: 1,
			Answers: map[string]string{
				"bp1_practice":  "Discharge Lounge",
				"bp1_rationale": "lounge frees beds",
				"bp1_success":   "works well",
			},
		},
	}
	rec := BuildRecord(sub)
	if rec.ID != "general-hospital" {
		t.Errorf("unexpected id %q", rec.ID)
	}
	if !strings.Contains(rec.Practices, "BP4") {
		t.Errorf("practices missing: %q", rec.Practices)
	}
	if rec.Rationales != "lounge frees beds" || rec.Success != "works well" {
		t.Errorf("narratives wrong: %+v", rec)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"General Hospital":       "general-hospital",
		"St. Agnes (Ascension)":  "st-agnes-ascension",
		"":                       "submission",
	}
	for in, want := range cases {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
