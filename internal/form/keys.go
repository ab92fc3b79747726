// Package form is the questionnaire engine: it expands a practice + tier
// choice into the ordered field set to display, and validates a submitted
// value set back into persistable answers.
package form

import "strings"

// Slot is one of the two independent practice choices in a submission. The
// slot value doubles as the wire prefix for every column the slot owns.
type Slot string

const (
	SlotFirst  Slot = "bp1"
	SlotSecond Slot = "bp2"
)

// Key is the structured identity of one answer field. Columns in the row
// store are derived from it, never built by ad hoc concatenation.
type Key struct {
	Slot Slot
	Name string
}

// Column returns the wire-format column name, e.g. {bp1, kpi1_target} ->
// "bp1_kpi1_target". This must stay stable for store compatibility.
func (k Key) Column() string {
	return string(k.Slot) + "_" + k.Name
}

// listSeparator joins and splits multi-select summaries. The store holds the
// joined string, not a structured list; consumers that need structure must
// split it back (documented limitation).
const listSeparator = ", "

func joinList(items []string) string {
	return strings.Join(items, listSeparator)
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// truthy reports whether a submitted checkbox value means checked. Matches
// the string tokens the store has historically held.
func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
