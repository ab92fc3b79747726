// Package catalog holds the static best-practice question catalog: six
// practices, each with three tiers and tier-gated field sets. The catalog is
// data only; the form engine interprets it.
package catalog

import "fmt"

type Code string

const (
	BP1 Code = "BP1"
	BP2 Code = "BP2"
	BP3 Code = "BP3"
	BP4 Code = "BP4"
	BP5 Code = "BP5"
	BP6 Code = "BP6"
)

// Kind distinguishes how a practice's tiers relate.
type Kind int

const (
	// Cumulative: tier N's field set is the union of tiers 1..N.
	Cumulative Kind = iota
	// Enumerable: tier N requires selecting exactly N items from a fixed
	// option list; each selected item contributes its own KPI sub-fields.
	Enumerable
)

type FieldKind int

const (
	Text FieldKind = iota
	TextArea
	// Checkbox is a yes/no selection. It is not persisted itself; when
	// SubfieldPair is set, checking it generates a {name_target, name_actual}
	// pair of text fields which are persisted.
	Checkbox
	// CheckboxGroup persists as a single comma-joined summary string.
	// Selecting "Other" reveals one free-text field whose value is folded
	// into the summary as "Other: <text>".
	CheckboxGroup
)

// Field describes one catalog-defined question for a cumulative practice.
type Field struct {
	Name     string // wire suffix, e.g. "t1_target"; column is bp{slot}_{Name}
	Label    string
	Kind     FieldKind
	Tier     int // minimum tier at which the field appears
	Required bool
	Options  []string // CheckboxGroup only
	// SubfieldPair marks a Checkbox that generates target/actual sub-fields
	// when checked. The two highest-tier KPI checkboxes of BP1 deliberately
	// leave this false: they are selectable but collect nothing.
	SubfieldPair bool
}

type TierInfo struct {
	Title       string
	Description string
}

type Practice struct {
	Code  Code
	Name  string
	Kind  Kind
	Tiers map[int]TierInfo
	// Cumulative practices: ordered, tier-gated fields.
	Fields []Field
	// Enumerable practices: the fixed option list and the wire name of the
	// summary column per tier (BP4 historically used "practice" at tier 1 and
	// "practices" above; BP5 always used "measures").
	Options       []string
	SummaryByTier map[int]string
	// Extra unconditional fields for enumerable practices (after the
	// generated sub-fields, before rationale/success).
	Extra []Field
}

// Universal trailing fields, required for every practice and tier.
const (
	FieldRationale = "rationale"
	FieldSuccess   = "success"
)

const (
	RationaleLabel = "Provide the rationale to why you selected this best practice & tier"
	SuccessLabel   = "Are there any success stories and/or barriers to implementing this best practice?"
)

const checkboxOther = "Other"

// Lookup returns the catalog entry for a practice code.
func Lookup(code Code) (Practice, bool) {
	p, ok := practices[code]
	return p, ok
}

// Codes returns all practice codes in display order.
func Codes() []Code {
	return []Code{BP1, BP2, BP3, BP4, BP5, BP6}
}

// DisplayName returns the practice's full display name, or the raw code when
// it is not in the catalog (older rows may carry retired codes).
func DisplayName(code Code) string {
	if p, ok := practices[code]; ok {
		return fmt.Sprintf("%s: %s", p.Code, p.Name)
	}
	return string(code)
}

var practices = map[Code]Practice{
	BP1: {
		Code:  BP1,
		Name:  "Interdisciplinary Rounds & Early Discharge Planning",
		Kind:  Cumulative,
		Tiers: bp1Tiers,
		Fields: []Field{
			{Name: "kpi1", Kind: Checkbox, Tier: 1, SubfieldPair: true,
				Label: "70% of inpatient admissions have documented discharge planning"},
			{Name: "kpi2", Kind: Checkbox, Tier: 1, SubfieldPair: true,
				Label: "10% improvement from baseline"},
			{Name: "kpi3", Kind: Checkbox, Tier: 2, SubfieldPair: true,
				Label: "50% of adult inpatients were offered screening for the 5 (five) HRSN prior to discharge"},
			{Name: "kpi4", Kind: Checkbox, Tier: 2, SubfieldPair: true,
				Label: "10% improvement from baseline of all inpatients identified in tier one offered screening for HRSN"},
			// Tier 3 KPIs are offered but never collect target/actual.
			{Name: "kpi5", Kind: Checkbox, Tier: 3,
				Label: "75% of adult inpatients that have screened positive for HRSN are given referrals to community resources prior to discharge"},
			{Name: "kpi6", Kind: Checkbox, Tier: 3,
				Label: "10% improvement from baseline of all positive screens for HRSN are given a referral prior to discharge identified from tier two"},
		},
	},
	BP2: {
		Code:  BP2,
		Name:  "Bed Capacity Alert System",
		Kind:  Cumulative,
		Tiers: bp2Tiers,
		Fields: []Field{
			{Name: "capacity_metrics", Kind: CheckboxGroup, Tier: 1, Required: true,
				Label: "Describe the one or more capacity metrics your organization selected to achieve tier 1",
				Options: []string{
					"Total patients",
					"% beds occupied",
					"% ED border",
					"NEDOC",
					checkboxOther,
				}},
			{Name: "t1_target", Kind: Text, Tier: 1, Required: true,
				Label: "Provide the target metric for your chosen capacity metric to achieve tier 1"},
			{Name: "t1_actual", Kind: Text, Tier: 1, Required: true,
				Label: "Provide the actual target metric performance results to achieve tier 1"},
			{Name: "t2_surge", Kind: TextArea, Tier: 2, Required: true,
				Label: "Describe the established bed capacity alert process (aka surge plan) driven by capacity metrics"},
			{Name: "t2_target", Kind: Text, Tier: 2, Required: true,
				Label: "Provide the target metric for your chosen capacity metric to achieve tier 2"},
			{Name: "t2_actual", Kind: Text, Tier: 2, Required: true,
				Label: "Provide the actual target metric performance results to achieve tier 2"},
			{Name: "t3_quant", Kind: TextArea, Tier: 3, Required: true,
				Label: "Describe the process to achieve tier 3, when an organization quantitatively demonstrates consistent activation of surge plans"},
			{Name: "t3_target", Kind: Text, Tier: 3, Required: true,
				Label: "Provide the target metric for your chosen capacity metric to achieve tier 3"},
			{Name: "t3_actual", Kind: Text, Tier: 3, Required: true,
				Label: "Provide the actual target metric performance results to achieve tier 3"},
		},
	},
	BP3: {
		Code:  BP3,
		Name:  "Standardized Daily Shift Huddles",
		Kind:  Cumulative,
		Tiers: bp3Tiers,
		Fields: []Field{
			{Name: "t1_kpi", Kind: TextArea, Tier: 1, Required: true,
				Label: "Provide the KPI chosen to achieve tier 1"},
			{Name: "t1_actual", Kind: TextArea, Tier: 1, Required: true,
				Label: "Provide the actual KPI performance results to achieve tier 1"},
			{Name: "t2_kpi", Kind: TextArea, Tier: 2, Required: true,
				Label: "Provide the KPI chosen to achieve tier 2"},
			{Name: "t2_actual", Kind: TextArea, Tier: 2, Required: true,
				Label: "Provide the actual KPI performance results to achieve tier 2"},
			{Name: "t3_kpi_type", Kind: CheckboxGroup, Tier: 3, Required: true,
				Label: "Describe the KPI your organization implemented to achieve tier 3",
				Options: []string{
					"Discharge orders by noon",
					"Patients leaving by designated time",
					checkboxOther,
				}},
			{Name: "t3_formula", Kind: TextArea, Tier: 3, Required: true,
				Label: "Provide the KPI formula chosen to achieve tier 3"},
			{Name: "t3_actual", Kind: TextArea, Tier: 3, Required: true,
				Label: "Provide the actual KPI performance results to achieve tier 3"},
		},
	},
	BP4: {
		Code:  BP4,
		Name:  "Expedited Care Intervention",
		Kind:  Enumerable,
		Tiers: bp4Tiers,
		Options: []string{
			"Nurse Expediter",
			"Discharge Lounge",
			"Observation Unit (ED or hospital based)",
			"Provider Screening in Triage / Early Provider Screening Process",
			"Dedicated CM and/or SW resources in the ED",
		},
		SummaryByTier: map[int]string{1: "practice", 2: "practices", 3: "practices"},
	},
	BP5: {
		Code:  BP5,
		Name:  "Patient Flow Throughput Performance Council",
		Kind:  Enumerable,
		Tiers: bp5Tiers,
		Options: []string{
			"Monthly committee",
			"Report outs",
			"Executive participation",
			"Throughput projects",
			"Evidence-based KPIs",
			"Routine huddles",
			"Observation protocols",
			"KPIs for units",
		},
		SummaryByTier: map[int]string{1: "measures", 2: "measures", 3: "measures"},
		Extra: []Field{
			{Name: "improvements", Kind: TextArea, Tier: 1, Required: true,
				Label: "Describe any throughput improvements measured after implementing this best practice"},
		},
	},
	BP6: {
		Code:  BP6,
		Name:  "Clinical Pathways & Observation Management",
		Kind:  Cumulative,
		Tiers: bp6Tiers,
		Fields: []Field{
			{Name: "t1_pathway", Kind: TextArea, Tier: 1, Required: true,
				Label: "Describe the clinical pathway that was selected and implemented to achieve tier 1"},
			{Name: "t2_data", Kind: TextArea, Tier: 2, Required: true,
				Label: "Describe the data collection and analysis systems to monitor and evaluate outcomes that were selected and implemented to achieve tier 2"},
			{Name: "t3_improvement", Kind: TextArea, Tier: 3, Required: true,
				Label: "Describe the measurable decrease in unwarranted clinical variation and/or measurable improvement in outcomes specific to your chosen intervention to achieve tier 3"},
		},
	},
}
