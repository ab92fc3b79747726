// Package survey defines the submission model and its mapping to and from
// the flat row store. A submission is one hospital's answer set: contact
// details, up to two selected best practices with their tiered answers, and
// the approval state.
package survey

import (
	"strconv"
	"strings"
	"time"

	"hscrcportal/api/internal/catalog"
	"hscrcportal/api/internal/form"
	"hscrcportal/api/internal/sheet"
)

// TimeLayout is the cell format for timestamp and approved_at.
const TimeLayout = "2006-01-02 15:04:05"

// Contact identifies who filed the submission.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Selection is one chosen practice with its collected answers, keyed by
// wire column (already slot-prefixed by the form engine).
type Selection struct {
	Code    catalog.Code      `json:"code"`
	Tier    int               `json:"tier"`
	Answers map[string]string `json:"answers"`
}

// Submission is one hospital's row in domain terms.
type Submission struct {
	Timestamp  time.Time  `json:"timestamp"`
	Hospital   string     `json:"hospital"`
	Contact    Contact    `json:"contact"`
	First      *Selection `json:"first,omitempty"`
	Second     *Selection `json:"second,omitempty"`
	Approved   bool       `json:"approved"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
	ApprovedAt time.Time  `json:"approvedAt,omitempty"`
}

// Assemble builds a fresh submission from the collected slots. A nil or
// code-less selection leaves its slot empty; that is an allowed state, not
// an error. Every assembly resets the approval: resubmitting an approved
// record always drops it back to draft.
func Assemble(hospital string, contact Contact, first, second *Selection, now time.Time) Submission {
	return Submission{
		Timestamp: now,
		Hospital:  strings.TrimSpace(hospital),
		Contact: Contact{
			Name:  strings.TrimSpace(contact.Name),
			Email: strings.TrimSpace(contact.Email),
			Phone: strings.TrimSpace(contact.Phone),
		},
		First:  normalizeSelection(first),
		Second: normalizeSelection(second),
	}
}

func normalizeSelection(sel *Selection) *Selection {
	if sel == nil || sel.Code == "" {
		return nil
	}
	return sel
}

// Slot returns the selection occupying the given slot, or nil.
func (s *Submission) Slot(slot form.Slot) *Selection {
	if slot == form.SlotFirst {
		return s.First
	}
	return s.Second
}

// ToRow flattens the submission into its stored row.
func ToRow(sub Submission) sheet.Record {
	rec := sheet.Record{
		sheet.ColTimestamp:    sub.Timestamp.Format(TimeLayout),
		sheet.ColHospitalName: sub.Hospital,
		sheet.ColContactName:  sub.Contact.Name,
		sheet.ColEmail:        sub.Contact.Email,
		sheet.ColPhone:        sub.Contact.Phone,
		sheet.ColApproved:     strconv.FormatBool(sub.Approved),
		sheet.ColApprovedBy:   sub.ApprovedBy,
		sheet.ColApprovedAt:   "",
	}
	if !sub.ApprovedAt.IsZero() {
		rec[sheet.ColApprovedAt] = sub.ApprovedAt.Format(TimeLayout)
	}
	writeSlot(rec, form.SlotFirst, sub.First)
	writeSlot(rec, form.SlotSecond, sub.Second)
	return rec
}

func writeSlot(rec sheet.Record, slot form.Slot, sel *Selection) {
	codeCol := string(slot)
	tierCol := string(slot) + "_tier"
	if sel == nil {
		rec[codeCol] = ""
		rec[tierCol] = ""
		return
	}
	rec[codeCol] = string(sel.Code)
	rec[tierCol] = strconv.Itoa(sel.Tier)
	for col, value := range sel.Answers {
		rec[col] = value
	}
}

// FromRow rebuilds a submission from a stored row. Unparseable cells read
// as their zero values; rows written by older exports stay loadable.
func FromRow(rec sheet.Record) Submission {
	sub := Submission{
		Hospital: rec[sheet.ColHospitalName],
		Contact: Contact{
			Name:  rec[sheet.ColContactName],
			Email: rec[sheet.ColEmail],
			Phone: rec[sheet.ColPhone],
		},
		Approved:   parseApproved(rec[sheet.ColApproved]),
		ApprovedBy: rec[sheet.ColApprovedBy],
	}
	if ts, err := time.ParseInLocation(TimeLayout, rec[sheet.ColTimestamp], time.Local); err == nil {
		sub.Timestamp = ts
	}
	if at, err := time.ParseInLocation(TimeLayout, rec[sheet.ColApprovedAt], time.Local); err == nil {
		sub.ApprovedAt = at
	}
	sub.First = readSlot(rec, form.SlotFirst)
	sub.Second = readSlot(rec, form.SlotSecond)
	return sub
}

func readSlot(rec sheet.Record, slot form.Slot) *Selection {
	code := strings.TrimSpace(rec[string(slot)])
	if code == "" {
		return nil
	}
	tier, _ := strconv.Atoi(strings.TrimSpace(rec[string(slot)+"_tier"]))
	answers := map[string]string{}
	prefix := string(slot) + "_"
	for col, value := range rec {
		if !strings.HasPrefix(col, prefix) || col == string(slot)+"_tier" {
			continue
		}
		if value != "" {
			answers[col] = value
		}
	}
	return &Selection{Code: catalog.Code(code), Tier: tier, Answers: answers}
}

// parseApproved accepts the tokens historical exports used for the approved
// cell.
func parseApproved(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
