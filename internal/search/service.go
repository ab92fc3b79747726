package search

import (
	"log"
	"strings"

	"hscrcportal/api/internal/catalog"
	"hscrcportal/api/internal/survey"
)

// Service is the facade that tries Meilisearch first and falls back to the
// store scan.
type Service struct {
	meili *Meili
	scan  *Scan
}

// NewService creates a search service. meili may be nil if Meilisearch is not configured.
func NewService(meili *Meili, scan *Scan) *Service {
	return &Service{meili: meili, scan: scan}
}

// Search tries Meilisearch if healthy, otherwise scans the store.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to scan: %v", err)
	}

	results, total, err := s.scan.Search(q)
	if err != nil {
		log.Printf("search: scan error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexSubmission indexes a submission (fire-and-forget to Meilisearch).
// Called after every successful upsert.
func (s *Service) IndexSubmission(sub survey.Submission) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	rec := BuildRecord(sub)
	go func() {
		if err := s.meili.IndexSubmission(rec); err != nil {
			log.Printf("search: index submission %s: %v", rec.ID, err)
		}
	}()
}

// ReindexAll pushes every stored submission into Meilisearch. Called at
// startup when Meilisearch is healthy.
func (s *Service) ReindexAll(subs []survey.Submission) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	records := make([]Record, 0, len(subs))
	for _, sub := range subs {
		records = append(records, BuildRecord(sub))
	}
	if err := s.meili.IndexSubmissions(records); err != nil {
		log.Printf("search: reindex submissions: %v", err)
	}
}

// BuildRecord flattens a submission into its indexed form.
func BuildRecord(sub survey.Submission) Record {
	var practices, rationales, success []string
	for _, sel := range []*survey.Selection{sub.First, sub.Second} {
		if sel == nil {
			continue
		}
		practices = append(practices, catalog.DisplayName(sel.Code))
		for col, value := range sel.Answers {
			if strings.HasSuffix(col, "_"+catalog.FieldRationale) {
				rationales = append(rationales, value)
			}
			if strings.HasSuffix(col, "_"+catalog.FieldSuccess) {
				success = append(success, value)
			}
		}
	}
	return Record{
		ID:         slug(sub.Hospital),
		Hospital:   sub.Hospital,
		Contact:    sub.Contact.Name,
		Email:      sub.Contact.Email,
		Practices:  strings.Join(practices, "; "),
		Rationales: strings.Join(rationales, " "),
		Success:    strings.Join(success, " "),
		Approved:   sub.Approved,
	}
}

// slug converts a hospital name into a Meilisearch-safe primary key.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "submission"
	}
	return b.String()
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
