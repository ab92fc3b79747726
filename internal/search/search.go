// Package search provides staff free-text search over submissions. It tries
// Meilisearch when configured and falls back to a linear scan of the row
// store otherwise.
package search

// Result is a single search hit returned to the caller.
type Result struct {
	Hospital string `json:"hospital"`
	Contact  string `json:"contact"`
	Snippet  string `json:"snippet"`
	Approved bool   `json:"approved"`
}

// Query describes a search request.
type Query struct {
	Text  string
	Limit int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Record is the data we index for a submission.
type Record struct {
	ID         string `json:"id"` // hospital name, the upsert key
	Hospital   string `json:"hospital"`
	Contact    string `json:"contact"`
	Email      string `json:"email"`
	Practices  string `json:"practices"`
	Rationales string `json:"rationales"`
	Success    string `json:"success"`
	Approved   bool   `json:"approved"`
}

// Searcher can execute a free-text search over submissions.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}
