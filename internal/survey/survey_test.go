package survey

import (
	"testing"
	"time"

	"hscrcportal/api/internal/catalog"
	"hscrcportal/api/internal/form"
	"hscrcportal/api/internal/sheet"
)

var testNow = time.Date(2025, 6, 10, 14, 30, 0, 0, time.Local)

func sampleSubmission() Submission {
	return Assemble(
		"  General Hospital ",
		Contact{Name: "Ann Lee", Email: "ann@example.org", Phone: "410-555-0101"},
		&Selection{
			Code: catalog.BP2,
			Tier: 2,
			Answers: map[string]string{
				"bp1_capacity_metrics": "NEDOC, Other: hallway census",
				"bp1_t1_target":        "90%",
				"bp1_t1_actual":        "85%",
				"bp1_t2_surge":         "activate surge plan at NEDOC 140",
				"bp1_t2_target":        "95%",
				"bp1_t2_actual":        "92%",
				"bp1_rationale":        "matches flow goals",
				"bp1_success":          "staffing barrier",
			},
		},
		&Selection{
			Code: catalog.BP4,
			Tier: 1,
			Answers: map[string]string{
				"bp2_practice":   "Discharge Lounge",
				"bp2_t1_formula": "patients through lounge per day",
				"bp2_t1_actual":  "38",
				"bp2_rationale":  "reduces boarding",
				"bp2_success":    "space constraints",
			},
		},
		testNow,
	)
}

func TestAssembleTrimsAndResetsApproval(t *testing.T) {
	sub := sampleSubmission()
	if sub.Hospital != "General Hospital" {
		t.Errorf("hospital not trimmed: %q", sub.Hospital)
	}
	if sub.Approved || sub.ApprovedBy != "" || !sub.ApprovedAt.IsZero() {
		t.Error("assembled submission must start unapproved")
	}
	if !sub.Timestamp.Equal(testNow) {
		t.Errorf("timestamp not stamped: %v", sub.Timestamp)
	}
}

func TestAssembleAllowsEmptySecondSlot(t *testing.T) {
	sub := Assemble("H", Contact{Name: "N"}, &Selection{Code: catalog.BP6, Tier: 1}, nil, testNow)
	if sub.Second != nil {
		t.Error("nil selection should leave the slot empty")
	}
	sub = Assemble("H", Contact{Name: "N"}, &Selection{Code: catalog.BP6, Tier: 1}, &Selection{}, testNow)
	if sub.Second != nil {
		t.Error("code-less selection should leave the slot empty")
	}
}

func TestRowRoundTrip(t *testing.T) {
	sub := sampleSubmission()
	rec := ToRow(sub)

	if rec[sheet.ColTimestamp] != "2025-06-10 14:30:00" {
		t.Errorf("unexpected timestamp cell %q", rec[sheet.ColTimestamp])
	}
	if rec[sheet.ColApproved] != "false" {
		t.Errorf("unexpected approved cell %q", rec[sheet.ColApproved])
	}
	if rec["bp1"] != "BP2" || rec["bp1_tier"] != "2" || rec["bp2"] != "BP4" || rec["bp2_tier"] != "1" {
		t.Errorf("slot cells wrong: %v", rec)
	}

	back := FromRow(rec)
	if back.Hospital != sub.Hospital || back.Contact != sub.Contact {
		t.Errorf("identity lost: %+v", back)
	}
	if back.First == nil || back.First.Code != catalog.BP2 || back.First.Tier != 2 {
		t.Fatalf("first slot lost: %+v", back.First)
	}
	if back.First.Answers["bp1_t2_surge"] != "activate surge plan at NEDOC 140" {
		t.Errorf("answer lost: %v", back.First.Answers)
	}
	if back.Second == nil || back.Second.Code != catalog.BP4 {
		t.Fatalf("second slot lost: %+v", back.Second)
	}
	if !back.Timestamp.Equal(sub.Timestamp) {
		t.Errorf("timestamp drifted: %v vs %v", back.Timestamp, sub.Timestamp)
	}
}

func TestFromRowApprovedTokens(t *testing.T) {
	cases := map[string]bool{
		"true": true, "TRUE": true, "1": true, "yes": true, " Yes ": true,
		"false": false, "0": false, "": false, "no": false,
	}
	for token, want := range cases {
		rec := sheet.Record{sheet.ColHospitalName: "H", sheet.ColApproved: token}
		if got := FromRow(rec).Approved; got != want {
			t.Errorf("token %q: got %v, want %v", token, got, want)
		}
	}
}

func TestFromRowEmptySlotAndShortCells(t *testing.T) {
	rec := sheet.Record{
		sheet.ColHospitalName: "H",
		"bp1":                 "BP6",
		"bp1_tier":            "not-a-number",
	}
	sub := FromRow(rec)
	if sub.First == nil || sub.First.Tier != 0 {
		t.Errorf("unparseable tier should read as zero: %+v", sub.First)
	}
	if sub.Second != nil {
		t.Error("empty code should leave slot nil")
	}
	if !sub.Timestamp.IsZero() {
		t.Error("missing timestamp should read as zero time")
	}
}

func TestSlotAccessor(t *testing.T) {
	sub := sampleSubmission()
	if sub.Slot(form.SlotFirst) != sub.First || sub.Slot(form.SlotSecond) != sub.Second {
		t.Error("Slot accessor returned wrong selection")
	}
}
