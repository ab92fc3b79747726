package form

import (
	"fmt"
	"strings"

	"hscrcportal/api/internal/catalog"
)

// UnknownPracticeError reports a practice code that is not in the catalog.
type UnknownPracticeError struct {
	Code catalog.Code
}

func (e *UnknownPracticeError) Error() string {
	return fmt.Sprintf("unknown practice code %q", string(e.Code))
}

// IncompleteSelectionError reports an enumerable-tier selection whose item
// count does not match the tier. Raised at collect time, never at render.
type IncompleteSelectionError struct {
	Key  Key
	Want int
	Got  int
}

func (e *IncompleteSelectionError) Error() string {
	return fmt.Sprintf("%s: tier requires exactly %d selections, got %d", e.Key.Column(), e.Want, e.Got)
}

// MissingRequiredError lists every required field left empty, so the caller
// can surface all corrections at once.
type MissingRequiredError struct {
	Fields []MissingField
}

type MissingField struct {
	Key   Key
	Label string
}

func (e *MissingRequiredError) Error() string {
	cols := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		cols[i] = f.Key.Column()
	}
	return "missing required fields: " + strings.Join(cols, ", ")
}
