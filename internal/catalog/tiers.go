package catalog

// Tier titles and descriptions shown alongside the form. Text matches the
// published HSCRC best-practice definitions.

var bp1Tiers = map[int]TierInfo{
	1: {
		Title: "Tier 1: Discharge Planning",
		Description: "Discharge planning adult general medical and surgical inpatient admissions\n\n" +
			"Accountable Measure or Outcome:\n" +
			"- Documentation within 48 hours of admission discharge plan\n" +
			"- KPI: 70% of inpatient admissions have documented discharge planning OR 10% improvement from baseline",
	},
	2: {
		Title: "Tier 2: HRSN Screening",
		Description: "Includes Tier 1 PLUS: Adult inpatients offered screening for the 5 HRSN prior to discharge\n\n" +
			"Accountable Measure or Outcome:\n" +
			"- Documentation of SDOH for inpatients who are screened\n" +
			"- KPI: 50% OR 10% improvement from baseline of all inpatients identified in their one offered screening for HRSN",
	},
	3: {
		Title: "Tier 3: Community Referrals",
		Description: "Adult inpatients screening positive for HRSN are given referrals to community resources prior to discharge\n\n" +
			"Accountable Measure or Outcome:\n" +
			"- Documentation of community resources access or referral for patients screening positive for one or more of HRSN\n" +
			"- KPI: 75% OR 10% improvement from baseline of all positive screens for HRSN are given referral prior to discharge identified from tier two",
	},
}

var bp2Tiers = map[int]TierInfo{
	1: {
		Title: "Tier 1: Establish Capacity Metrics",
		Description: "Organization establishes one or more capacity metrics\n\n" +
			"Examples: Total patients in hospital, % beds occupied, ED boarder patients/ total ED beds, NEDOC score",
	},
	2: {
		Title: "Tier 2: Bed Capacity Alert Process",
		Description: "Includes Tier 1 PLUS: Organization establishes a capacity alert process (surge plan)\n\n" +
			"Driven by capacity metrics that trigger defined actions that achieve expedited throughput.",
	},
	3: {
		Title: "Tier 3: Demonstrate Activation",
		Description: "Includes Tier 1 & 2 PLUS: Organization quantitatively demonstrates consistent activation of surge plans in response to bed capacity triggers.\n\n" +
			"Internal metrics to be hospital-defined",
	},
}

var bp3Tiers = map[int]TierInfo{
	1: {
		Title: "Tier 1: Daily Huddles",
		Description: "Daily huddles using multidisciplinary team approach\n\n" +
			"Focus on throughput and discharges\n\n" +
			"Accountable Measure or Outcome:\n" +
			"- KPI: Multidisciplinary daily huddles are being completed at X frequency as defined by each organization",
	},
	2: {
		Title: "Tier 2: Standardized Infrastructure and an escalation process for addressing clinical and/or non-clinical barriers to discharge or throughput.",
		Description: "Includes Tier 1 PLUS: Standardized infrastructure\n\n" +
			"Examples: standard scripting, documentation, huddle boards",
	},
	3: {
		Title: "Tier 3: KPI Monitoring",
		Description: "Includes Tier 1 & 2 PLUS: Monitoring and reporting of KPIs\n\n" +
			"Example: % discharge orders by noon",
	},
}

var bp4Tiers = map[int]TierInfo{
	1: {
		Title: "Tier 1: One Practice",
		Description: "Implement ONE expedited care practice\n\n" +
			"Options: Nurse Expediter, Discharge Lounge, Observation Unit, Provider Screening, Dedicated CM/SW Resources in ED\n\n" +
			"Report KPI for chosen practice.",
	},
	2: {
		Title:       "Tier 2: Two Practices",
		Description: "Implement TWO expedited care practices\n\nReport KPI for each practice",
	},
	3: {
		Title:       "Tier 3: Three Practices",
		Description: "Implement THREE expedited care practices\n\nReport KPI for each practice",
	},
}

var bp5Tiers = map[int]TierInfo{
	1: {
		Title: "Tier 1: Create Structure",
		Description: "Create multidisciplinary team\n\n" +
			"Executive sponsor, committee charter, monthly meetings",
	},
	2: {
		Title: "Tier 2: Establish Accountability",
		Description: "Includes Tier 1 PLUS: Monthly meetings with stakeholders\n\n" +
			"Accountable Measure:\n" +
			"- Committee meetings include regular 'report outs' on relevant KPIs and data\n" +
			"- The report outs include participation from at least one hospital executive\n" +
			"- KPIs are evidence-based and shown to improve capacity or throughput or enhance patient care",
	},
	3: {
		Title: "Tier 3: Change Culture",
		Description: "Includes Tier 1 & 2 PLUS: Cascade goals to nursing units to ensure front line staff awareness & engagement.\n\n" +
			"Accountable Measure:\n" +
			"- KPIs are reported for key units or service lines as determined by the hospital\n" +
			"- The committee ensures routine capacity/throughput huddles to drive patient flow and reduce delays\n" +
			"- The committee ensures that any observation patients have built-in efficiencies & protocols that promote discharge within two midnights. Observation LOS is tracked, data is shared, and OBS PI processes are implemented on units with OBS patients",
	},
}

var bp6Tiers = map[int]TierInfo{
	1: {
		Title: "Tier 1: Design and Implement",
		Description: "Organization selects and implements a clinical pathway tailored to patient population\n\n" +
			"Based on facility's unique needs",
	},
	2: {
		Title: "Tier 2: Develop Data Infrastructure",
		Description: "Includes Tier 1 PLUS: Data collection and analysis systems\n\n" +
			"Monitor and evaluate outcomes. These systems should emphasize comparing the effectiveness of inpatient and ambulatory management strategies for the selected patient population, enabling data-driven decision-making and continuous improvement.",
	},
	3: {
		Title: "Tier 3: Demonstrate Improvement",
		Description: "Includes Tier 1 & 2 PLUS: Demonstrate measurable results\n\n" +
			"The results will demonstrate a measurable decrease in unwarranted clinical variation and/or measurable improvement in outcomes specific to their chosen intervention.",
	},
}
