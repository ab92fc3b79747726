package form

import (
	"errors"
	"strings"
	"testing"

	"hscrcportal/api/internal/catalog"
)

func mustForm(t *testing.T, code catalog.Code, tier int, slot Slot) *Form {
	t.Helper()
	f, err := New(code, tier, slot)
	if err != nil {
		t.Fatalf("New(%s, %d) failed: %v", code, tier, err)
	}
	return f
}

func persistedColumns(specs []FieldSpec) map[string]bool {
	cols := map[string]bool{}
	for _, s := range specs {
		if !s.Transient {
			cols[s.Key.Column()] = true
		}
	}
	return cols
}

func TestNewRejectsUnknownPractice(t *testing.T) {
	_, err := New("BP9", 1, SlotFirst)
	var unknownErr *UnknownPracticeError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownPracticeError, got %v", err)
	}
}

func TestNewRejectsTierOutOfRange(t *testing.T) {
	for _, tier := range []int{0, 4} {
		if _, err := New(catalog.BP2, tier, SlotFirst); err == nil {
			t.Errorf("expected error for tier %d", tier)
		}
	}
}

func TestCumulativeTierSupersets(t *testing.T) {
	for _, code := range []catalog.Code{catalog.BP2, catalog.BP3, catalog.BP6} {
		var previous map[string]bool
		for tier := 1; tier <= 3; tier++ {
			f := mustForm(t, code, tier, SlotFirst)
			cols := persistedColumns(f.Render(nil))
			for col := range previous {
				if !cols[col] {
					t.Errorf("%s tier %d lost column %s present at tier %d", code, tier, col, tier-1)
				}
			}
			previous = cols
		}
	}
}

func TestRenderEndsWithRationaleAndSuccess(t *testing.T) {
	f := mustForm(t, catalog.BP6, 1, SlotSecond)
	specs := f.Render(nil)
	if len(specs) < 2 {
		t.Fatal("expected at least two specs")
	}
	last := specs[len(specs)-1]
	penultimate := specs[len(specs)-2]
	if penultimate.Key.Column() != "bp2_rationale" || !penultimate.Required {
		t.Errorf("expected required bp2_rationale, got %+v", penultimate)
	}
	if last.Key.Column() != "bp2_success" || !last.Required {
		t.Errorf("expected required bp2_success, got %+v", last)
	}
}

func TestCheckboxRevealsTargetActualPair(t *testing.T) {
	f := mustForm(t, catalog.BP1, 1, SlotFirst)

	// Unchecked: no sub-fields.
	cols := persistedColumns(f.Render(nil))
	if cols["bp1_kpi1_target"] {
		t.Fatal("kpi1 target rendered without selection")
	}

	// Checked via submitted value.
	cols = persistedColumns(f.Render(map[string]string{"bp1_kpi1": "true"}))
	if !cols["bp1_kpi1_target"] || !cols["bp1_kpi1_actual"] {
		t.Fatal("expected kpi1 target/actual after checking kpi1")
	}

	// Checked implicitly by a stored target value (edit mode).
	cols = persistedColumns(f.Render(map[string]string{"bp1_kpi1_target": "70%"}))
	if !cols["bp1_kpi1_target"] {
		t.Fatal("expected kpi1 sub-fields inferred from stored target")
	}
}

func TestTopTierKPIsNeverGenerateSubfields(t *testing.T) {
	f := mustForm(t, catalog.BP1, 3, SlotFirst)
	specs := f.Render(map[string]string{"bp1_kpi5": "true", "bp1_kpi6": "true"})

	sawKPI5 := false
	for _, s := range specs {
		if s.Key.Column() == "bp1_kpi5" {
			sawKPI5 = true
		}
		if strings.HasPrefix(s.Key.Column(), "bp1_kpi5_") || strings.HasPrefix(s.Key.Column(), "bp1_kpi6_") {
			t.Errorf("kpi5/kpi6 must not generate sub-fields, saw %s", s.Key.Column())
		}
	}
	if !sawKPI5 {
		t.Error("kpi5 checkbox should still be offered at tier 3")
	}
}

func TestCollectFoldsOtherIntoSummary(t *testing.T) {
	f := mustForm(t, catalog.BP2, 1, SlotFirst)
	answers, err := f.Collect(map[string]string{
		"bp2_capacity_metrics":       "", // wrong slot column, ignored
		"bp1_capacity_metrics":       "NEDOC, Other",
		"bp1_capacity_metrics_other": "hallway census",
		"bp1_t1_target":              "90%",
		"bp1_t1_actual":              "85%",
		"bp1_rationale":              "fits our flow goals",
		"bp1_success":                "staffing barrier",
	})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if got := answers["bp1_capacity_metrics"]; got != "NEDOC, Other: hallway census" {
		t.Errorf("unexpected summary %q", got)
	}
	if _, present := answers["bp1_capacity_metrics_other"]; present {
		t.Error("other free-text must not be persisted separately")
	}
}

func TestCollectListsAllMissingRequired(t *testing.T) {
	f := mustForm(t, catalog.BP2, 2, SlotFirst)
	_, err := f.Collect(map[string]string{"bp1_capacity_metrics": "NEDOC"})

	var missingErr *MissingRequiredError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected MissingRequiredError, got %v", err)
	}
	want := map[string]bool{
		"bp1_t1_target": true, "bp1_t1_actual": true,
		"bp1_t2_surge": true, "bp1_t2_target": true, "bp1_t2_actual": true,
		"bp1_rationale": true, "bp1_success": true,
	}
	if len(missingErr.Fields) != len(want) {
		t.Fatalf("expected %d missing fields, got %d: %v", len(want), len(missingErr.Fields), missingErr)
	}
	for _, field := range missingErr.Fields {
		if !want[field.Key.Column()] {
			t.Errorf("unexpected missing field %s", field.Key.Column())
		}
	}
}

func TestEnumerableCardinality(t *testing.T) {
	base := map[string]string{
		"bp1_t1_formula": "f1", "bp1_t1_actual": "a1",
		"bp1_t2_formula": "f2", "bp1_t2_actual": "a2",
		"bp1_rationale": "r", "bp1_success": "s",
	}

	cases := []struct {
		name      string
		selection string
		wantErr   bool
	}{
		{"exact", "Nurse Expediter, Discharge Lounge", false},
		{"short", "Nurse Expediter", true},
		{"long", "Nurse Expediter, Discharge Lounge, Observation Unit (ED or hospital based)", true},
		{"duplicates collapse", "Nurse Expediter, Nurse Expediter", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := mustForm(t, catalog.BP4, 2, SlotFirst)
			values := map[string]string{"bp1_practices": tc.selection}
			for k, v := range base {
				values[k] = v
			}
			if tc.name == "long" {
				values["bp1_t3_formula"] = "f3"
				values["bp1_t3_actual"] = "a3"
			}
			_, err := f.Collect(values)
			var selErr *IncompleteSelectionError
			if tc.wantErr && !errors.As(err, &selErr) {
				t.Fatalf("expected IncompleteSelectionError, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestEnumerableTier1SummaryColumn(t *testing.T) {
	f := mustForm(t, catalog.BP4, 1, SlotSecond)
	answers, err := f.Collect(map[string]string{
		"bp2_practice":   "Discharge Lounge",
		"bp2_t1_formula": "lounge throughput", "bp2_t1_actual": "40/day",
		"bp2_rationale": "r", "bp2_success": "s",
	})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if answers["bp2_practice"] != "Discharge Lounge" {
		t.Errorf("tier 1 summary should use bp2_practice, got %v", answers)
	}
}

func TestEnumerableSubfieldsFollowSelectionOrder(t *testing.T) {
	f := mustForm(t, catalog.BP5, 2, SlotFirst)
	specs := f.Render(map[string]string{"bp1_measures": "Report outs, Monthly committee"})

	var ordered []string
	for _, s := range specs {
		if strings.HasSuffix(s.Key.Column(), "_formula") {
			ordered = append(ordered, s.Key.Column())
		}
	}
	if len(ordered) != 2 || ordered[0] != "bp1_t1_formula" || ordered[1] != "bp1_t2_formula" {
		t.Errorf("expected formula fields t1,t2 in selection order, got %v", ordered)
	}
}

func TestEnumerableRenderShowsPartialSelection(t *testing.T) {
	// Fewer selections than the tier is fine at render time.
	f := mustForm(t, catalog.BP4, 3, SlotFirst)
	cols := persistedColumns(f.Render(map[string]string{"bp1_practices": "Nurse Expediter"}))
	if !cols["bp1_t1_formula"] {
		t.Error("expected sub-fields for the one selected practice")
	}
	if cols["bp1_t2_formula"] {
		t.Error("no sub-fields expected for unselected slots")
	}
}

func TestCollectJoinsSelectionAndMissingErrors(t *testing.T) {
	f := mustForm(t, catalog.BP4, 2, SlotFirst)
	_, err := f.Collect(map[string]string{"bp1_practices": "Nurse Expediter"})

	var selErr *IncompleteSelectionError
	var missingErr *MissingRequiredError
	if !errors.As(err, &selErr) {
		t.Fatalf("expected IncompleteSelectionError in %v", err)
	}
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected MissingRequiredError in %v", err)
	}
}

func TestKeyColumn(t *testing.T) {
	k := Key{Slot: SlotSecond, Name: "t1_target"}
	if k.Column() != "bp2_t1_target" {
		t.Errorf("unexpected column %s", k.Column())
	}
}
