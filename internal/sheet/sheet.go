// Package sheet stores survey submissions as flat string-celled rows, one
// row per hospital. The row shape follows the reporting spreadsheet the
// program has always exported: a fixed set of base columns plus whatever
// practice-specific columns any submission has ever written. Implementations
// must upsert by hospital name, never append duplicates.
package sheet

import (
	"context"
	"errors"
	"sort"
)

// Base column names, in spreadsheet order.
const (
	ColTimestamp    = "timestamp"
	ColHospitalName = "hospital_name"
	ColContactName  = "contact_name"
	ColEmail        = "email"
	ColPhone        = "phone"
	ColBP1          = "bp1"
	ColBP1Tier      = "bp1_tier"
	ColBP2          = "bp2"
	ColBP2Tier      = "bp2_tier"
	ColBP1Rationale = "bp1_rationale"
	ColBP1Success   = "bp1_success"
	ColBP2Rationale = "bp2_rationale"
	ColBP2Success   = "bp2_success"
	ColApproved     = "approved"
	ColApprovedBy   = "approved_by"
	ColApprovedAt   = "approved_at"
)

// BaseColumns is the fixed leading portion of the header row.
var BaseColumns = []string{
	ColTimestamp, ColHospitalName, ColContactName, ColEmail, ColPhone,
	ColBP1, ColBP1Tier, ColBP2, ColBP2Tier,
	ColBP1Rationale, ColBP1Success, ColBP2Rationale, ColBP2Success,
	ColApproved, ColApprovedBy, ColApprovedAt,
}

// Record is one row keyed by column name. Cells are always strings; a
// missing key reads as the empty cell.
type Record map[string]string

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ErrUnavailable marks a backend that cannot currently serve reads or
// writes. Callers surface it as a retryable outage, not a data error.
var ErrUnavailable = errors.New("sheet store unavailable")

// Store is the row store contract. Upsert replaces the row whose
// hospital_name equals key, or appends a new row when none matches.
type Store interface {
	LoadAll(ctx context.Context) ([]Record, error)
	Upsert(ctx context.Context, key string, rec Record) error
}

// Headers derives the header row for a set of records: the base columns
// followed by every extra column any record carries, sorted for a stable
// layout.
func Headers(records []Record) []string {
	base := make(map[string]bool, len(BaseColumns))
	for _, col := range BaseColumns {
		base[col] = true
	}
	seen := map[string]bool{}
	var extras []string
	for _, rec := range records {
		for col := range rec {
			if base[col] || seen[col] {
				continue
			}
			seen[col] = true
			extras = append(extras, col)
		}
	}
	sort.Strings(extras)
	return append(append([]string{}, BaseColumns...), extras...)
}
