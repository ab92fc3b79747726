// Package dashboard computes the staff aggregate view over all submissions.
package dashboard

import (
	"sort"
	"strings"

	"hscrcportal/api/internal/catalog"
	"hscrcportal/api/internal/survey"
)

// Filter narrows the summary. Zero values mean no filtering.
type Filter struct {
	Hospital string       `json:"hospital"`
	Practice catalog.Code `json:"practice"`
	Tier     int          `json:"tier"`
}

// Detail is one submission's row in the dashboard listing.
type Detail struct {
	Hospital  string `json:"hospital"`
	Contact   string `json:"contact"`
	Submitted string `json:"submitted"`
	BP1       string `json:"bp1"`
	BP1Tier   int    `json:"bp1Tier,omitempty"`
	BP2       string `json:"bp2"`
	BP2Tier   int    `json:"bp2Tier,omitempty"`
	Approved  bool   `json:"approved"`
}

// Summary is the aggregate view.
type Summary struct {
	TotalHospitals   int              `json:"totalHospitals"`
	TotalSubmissions int              `json:"totalSubmissions"`
	ApprovedCount    int              `json:"approvedCount"`
	DraftCount       int              `json:"draftCount"`
	// PracticeCounts counts selections per practice code across both slots.
	PracticeCounts map[catalog.Code]int `json:"practiceCounts"`
	// TierCounts counts selections per tier across both slots.
	TierCounts map[int]int `json:"tierCounts"`
	// Matrix counts selections per practice per tier.
	Matrix  map[catalog.Code]map[int]int `json:"matrix"`
	Details []Detail                     `json:"details"`
}

// Summarize aggregates the given submissions, honoring the filter.
// totalHospitals is the size of the tenant roster, independent of how many
// have submitted.
func Summarize(subs []survey.Submission, totalHospitals int, filter Filter) Summary {
	summary := Summary{
		TotalHospitals: totalHospitals,
		PracticeCounts: map[catalog.Code]int{},
		TierCounts:     map[int]int{},
		Matrix:         map[catalog.Code]map[int]int{},
		Details:        []Detail{},
	}

	for _, sub := range subs {
		if !matches(sub, filter) {
			continue
		}
		summary.TotalSubmissions++
		if sub.Approved {
			summary.ApprovedCount++
		} else {
			summary.DraftCount++
		}
		for _, sel := range []*survey.Selection{sub.First, sub.Second} {
			if sel == nil {
				continue
			}
			summary.PracticeCounts[sel.Code]++
			summary.TierCounts[sel.Tier]++
			if summary.Matrix[sel.Code] == nil {
				summary.Matrix[sel.Code] = map[int]int{}
			}
			summary.Matrix[sel.Code][sel.Tier]++
		}
		summary.Details = append(summary.Details, detail(sub))
	}

	sort.Slice(summary.Details, func(i, j int) bool {
		return summary.Details[i].Hospital < summary.Details[j].Hospital
	})
	return summary
}

func detail(sub survey.Submission) Detail {
	d := Detail{
		Hospital: sub.Hospital,
		Contact:  sub.Contact.Name,
		Approved: sub.Approved,
	}
	if !sub.Timestamp.IsZero() {
		d.Submitted = sub.Timestamp.Format(survey.TimeLayout)
	}
	if sub.First != nil {
		d.BP1 = string(sub.First.Code)
		d.BP1Tier = sub.First.Tier
	}
	if sub.Second != nil {
		d.BP2 = string(sub.Second.Code)
		d.BP2Tier = sub.Second.Tier
	}
	return d
}

func matches(sub survey.Submission, filter Filter) bool {
	if filter.Hospital != "" && !strings.EqualFold(sub.Hospital, filter.Hospital) {
		return false
	}
	if filter.Practice != "" || filter.Tier != 0 {
		for _, sel := range []*survey.Selection{sub.First, sub.Second} {
			if sel == nil {
				continue
			}
			if filter.Practice != "" && sel.Code != filter.Practice {
				continue
			}
			if filter.Tier != 0 && sel.Tier != filter.Tier {
				continue
			}
			return true
		}
		return false
	}
	return true
}
