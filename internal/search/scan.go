package search

import (
	"context"
	"fmt"
	"strings"

	"hscrcportal/api/internal/sheet"
	"hscrcportal/api/internal/survey"
)

// Scan is the fallback Searcher: a case-insensitive substring scan over the
// row store. Fine at this system's scale (tens of hospitals).
type Scan struct {
	store sheet.Store
}

func NewScan(store sheet.Store) *Scan {
	return &Scan{store: store}
}

// Healthy always reports true; the scan has no external dependency beyond
// the store itself.
func (s *Scan) Healthy() bool {
	return true
}

func (s *Scan) Search(q Query) ([]Result, int, error) {
	rows, err := s.store.LoadAll(context.Background())
	if err != nil {
		return nil, 0, fmt.Errorf("scan search: %w", err)
	}

	limit := q.Limit
	if limit == 0 {
		limit = 20
	}
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	var results []Result
	total := 0
	for _, row := range rows {
		sub := survey.FromRow(row)
		rec := BuildRecord(sub)
		snippet, ok := match(rec, needle)
		if !ok {
			continue
		}
		total++
		if len(results) < limit {
			results = append(results, Result{
				Hospital: rec.Hospital,
				Contact:  rec.Contact,
				Snippet:  snippet,
				Approved: rec.Approved,
			})
		}
	}
	return results, total, nil
}

// match reports whether the record contains the needle and returns the best
// snippet: the matched narrative text when available, the practice summary
// otherwise. An empty needle matches everything.
func match(rec Record, needle string) (string, bool) {
	if needle == "" {
		return rec.Practices, true
	}
	for _, candidate := range []string{rec.Rationales, rec.Success} {
		if strings.Contains(strings.ToLower(candidate), needle) {
			return snippetAround(candidate, needle), true
		}
	}
	for _, candidate := range []string{rec.Hospital, rec.Contact, rec.Email, rec.Practices} {
		if strings.Contains(strings.ToLower(candidate), needle) {
			return rec.Practices, true
		}
	}
	return "", false
}

// snippetAround clips a window of narrative text around the first match.
func snippetAround(text, needle string) string {
	const window = 120
	idx := strings.Index(strings.ToLower(text), needle)
	if idx < 0 {
		return text
	}
	start := idx - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(text) {
		end = len(text)
	}
	snippet := strings.TrimSpace(text[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet += "..."
	}
	return snippet
}
