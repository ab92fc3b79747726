package form

import (
	"errors"
	"fmt"
	"strings"

	"hscrcportal/api/internal/catalog"
)

// FieldSpec is one field to display, in order. Transient fields drive the
// form (checkboxes, selector helpers) but are never persisted; their effect
// is folded into the persisted fields they control.
type FieldSpec struct {
	Key       Key
	Label     string
	Kind      catalog.FieldKind
	Required  bool
	Options   []string
	Initial   string
	Transient bool
}

// Form renders and collects the question set for one practice/tier/slot.
type Form struct {
	practice catalog.Practice
	tier     int
	slot     Slot
}

// New fails with UnknownPracticeError for a code outside the catalog and
// clamps nothing: tier must be 1..3.
func New(code catalog.Code, tier int, slot Slot) (*Form, error) {
	practice, ok := catalog.Lookup(code)
	if !ok {
		return nil, &UnknownPracticeError{Code: code}
	}
	if tier < 1 || tier > 3 {
		return nil, fmt.Errorf("tier must be 1-3, got %d", tier)
	}
	return &Form{practice: practice, tier: tier, slot: slot}, nil
}

func (f *Form) key(name string) Key {
	return Key{Slot: f.slot, Name: name}
}

// Render produces the ordered field specs for the form. existing holds
// current values keyed by column (either the stored row in edit mode, or the
// in-progress values during incremental rendering); dependent sub-fields are
// derived purely from it, so rendering is a function of prior selections.
func (f *Form) Render(existing map[string]string) []FieldSpec {
	if existing == nil {
		existing = map[string]string{}
	}

	var specs []FieldSpec
	if f.practice.Kind == catalog.Enumerable {
		specs = f.renderEnumerable(existing)
	} else {
		specs = f.renderCumulative(existing)
	}

	specs = append(specs,
		FieldSpec{
			Key:      f.key(catalog.FieldRationale),
			Label:    catalog.RationaleLabel,
			Kind:     catalog.TextArea,
			Required: true,
			Initial:  existing[f.key(catalog.FieldRationale).Column()],
		},
		FieldSpec{
			Key:      f.key(catalog.FieldSuccess),
			Label:    catalog.SuccessLabel,
			Kind:     catalog.TextArea,
			Required: true,
			Initial:  existing[f.key(catalog.FieldSuccess).Column()],
		},
	)
	return specs
}

func (f *Form) renderCumulative(existing map[string]string) []FieldSpec {
	var specs []FieldSpec
	for _, field := range f.practice.Fields {
		if field.Tier > f.tier {
			continue
		}
		key := f.key(field.Name)
		switch field.Kind {
		case catalog.Checkbox:
			checked := f.checkboxChecked(field, existing)
			initial := ""
			if checked {
				initial = "true"
			}
			specs = append(specs, FieldSpec{
				Key: key, Label: field.Label, Kind: catalog.Checkbox,
				Initial: initial, Transient: true,
			})
			if checked && field.SubfieldPair {
				specs = append(specs, f.subfieldPair(field, existing)...)
			}
		case catalog.CheckboxGroup:
			specs = append(specs, f.renderGroup(field, existing)...)
		default:
			specs = append(specs, FieldSpec{
				Key: key, Label: field.Label, Kind: field.Kind,
				Required: field.Required, Initial: existing[key.Column()],
			})
		}
	}
	return specs
}

// checkboxChecked derives a checkbox's state: an explicit submitted value
// wins, otherwise a stored target value implies it was checked (the box
// itself is never persisted).
func (f *Form) checkboxChecked(field catalog.Field, existing map[string]string) bool {
	col := f.key(field.Name).Column()
	if value, ok := existing[col]; ok {
		return truthy(value)
	}
	if field.SubfieldPair {
		return strings.TrimSpace(existing[f.key(field.Name+"_target").Column()]) != ""
	}
	return false
}

func (f *Form) subfieldPair(field catalog.Field, existing map[string]string) []FieldSpec {
	targetKey := f.key(field.Name + "_target")
	actualKey := f.key(field.Name + "_actual")
	return []FieldSpec{
		{
			Key:     targetKey,
			Label:   fmt.Sprintf("Provide the target KPI if you selected, %q.", field.Label),
			Kind:    catalog.Text,
			Initial: existing[targetKey.Column()],
		},
		{
			Key:     actualKey,
			Label:   fmt.Sprintf("Provide the actual KPI performance results if you selected, %q.", field.Label),
			Kind:    catalog.Text,
			Initial: existing[actualKey.Column()],
		},
	}
}

func (f *Form) renderGroup(field catalog.Field, existing map[string]string) []FieldSpec {
	key := f.key(field.Name)
	summary := existing[key.Column()]
	specs := []FieldSpec{{
		Key: key, Label: field.Label, Kind: catalog.CheckboxGroup,
		Required: field.Required, Options: field.Options, Initial: summary,
	}}
	if otherText, selected := otherSelection(summary); selected {
		otherKey := f.key(field.Name + "_other")
		specs = append(specs, FieldSpec{
			Key:       otherKey,
			Label:     "Describe other",
			Kind:      catalog.Text,
			Initial:   firstNonEmpty(existing[otherKey.Column()], otherText),
			Transient: true,
		})
	}
	return specs
}

func (f *Form) renderEnumerable(existing map[string]string) []FieldSpec {
	summaryKey := f.key(f.practice.SummaryByTier[f.tier])
	summary := existing[summaryKey.Column()]
	label := fmt.Sprintf("Select %d from the list", f.tier)
	specs := []FieldSpec{{
		Key: summaryKey, Label: label, Kind: catalog.CheckboxGroup,
		Required: true, Options: f.practice.Options, Initial: summary,
	}}

	// Whatever is currently selected gets its sub-fields, in selection order,
	// even when the count is still short of the tier; the cardinality check
	// happens at collect time so the form can be filled incrementally.
	for i := range splitList(summary) {
		formulaKey := f.key(fmt.Sprintf("t%d_formula", i+1))
		actualKey := f.key(fmt.Sprintf("t%d_actual", i+1))
		specs = append(specs,
			FieldSpec{
				Key:      formulaKey,
				Label:    fmt.Sprintf("Provide the KPI formula for selection %d", i+1),
				Kind:     catalog.TextArea,
				Required: true,
				Initial:  existing[formulaKey.Column()],
			},
			FieldSpec{
				Key:      actualKey,
				Label:    fmt.Sprintf("Provide the actual KPI performance results for selection %d", i+1),
				Kind:     catalog.TextArea,
				Required: true,
				Initial:  existing[actualKey.Column()],
			},
		)
	}

	for _, field := range f.practice.Extra {
		key := f.key(field.Name)
		specs = append(specs, FieldSpec{
			Key: key, Label: field.Label, Kind: field.Kind,
			Required: field.Required, Initial: existing[key.Column()],
		})
	}
	return specs
}

// Collect validates submitted values and returns the persistable answers
// keyed by column. Validation failures are aggregated so the caller sees
// every violated constraint at once; on any error no answers are returned.
func (f *Form) Collect(values map[string]string) (map[string]string, error) {
	if values == nil {
		values = map[string]string{}
	}

	answers := map[string]string{}
	var missing []MissingField
	var selectionErr *IncompleteSelectionError

	if f.practice.Kind == catalog.Enumerable {
		selectionErr = f.collectEnumerable(values, answers, &missing)
	} else {
		f.collectCumulative(values, answers, &missing)
	}

	for _, name := range []string{catalog.FieldRationale, catalog.FieldSuccess} {
		key := f.key(name)
		label := catalog.RationaleLabel
		if name == catalog.FieldSuccess {
			label = catalog.SuccessLabel
		}
		value := strings.TrimSpace(values[key.Column()])
		if value == "" {
			missing = append(missing, MissingField{Key: key, Label: label})
		}
		answers[key.Column()] = value
	}

	var errs []error
	if selectionErr != nil {
		errs = append(errs, selectionErr)
	}
	if len(missing) > 0 {
		errs = append(errs, &MissingRequiredError{Fields: missing})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return answers, nil
}

func (f *Form) collectCumulative(values, answers map[string]string, missing *[]MissingField) {
	for _, field := range f.practice.Fields {
		if field.Tier > f.tier {
			continue
		}
		key := f.key(field.Name)
		switch field.Kind {
		case catalog.Checkbox:
			if truthy(values[key.Column()]) && field.SubfieldPair {
				targetCol := f.key(field.Name + "_target").Column()
				actualCol := f.key(field.Name + "_actual").Column()
				answers[targetCol] = strings.TrimSpace(values[targetCol])
				answers[actualCol] = strings.TrimSpace(values[actualCol])
			}
		case catalog.CheckboxGroup:
			summary := f.collectGroup(field, values)
			if field.Required && summary == "" {
				*missing = append(*missing, MissingField{Key: key, Label: field.Label})
			}
			answers[key.Column()] = summary
		default:
			value := strings.TrimSpace(values[key.Column()])
			if field.Required && value == "" {
				*missing = append(*missing, MissingField{Key: key, Label: field.Label})
			}
			answers[key.Column()] = value
		}
	}
}

// collectGroup folds a checkbox group's selection into its single summary
// string, substituting the "Other" option with "Other: <text>".
func (f *Form) collectGroup(field catalog.Field, values map[string]string) string {
	selected := splitList(values[f.key(field.Name).Column()])
	out := make([]string, 0, len(selected))
	for _, item := range selected {
		if item == "Other" {
			otherText := strings.TrimSpace(values[f.key(field.Name+"_other").Column()])
			out = append(out, "Other: "+otherText)
			continue
		}
		out = append(out, item)
	}
	return joinList(out)
}

func (f *Form) collectEnumerable(values, answers map[string]string, missing *[]MissingField) *IncompleteSelectionError {
	summaryKey := f.key(f.practice.SummaryByTier[f.tier])
	selected := distinct(splitList(values[summaryKey.Column()]))
	answers[summaryKey.Column()] = joinList(selected)

	var selectionErr *IncompleteSelectionError
	if len(selected) != f.tier {
		selectionErr = &IncompleteSelectionError{Key: summaryKey, Want: f.tier, Got: len(selected)}
	}

	for i := range selected {
		for _, suffix := range []string{"formula", "actual"} {
			key := f.key(fmt.Sprintf("t%d_%s", i+1, suffix))
			value := strings.TrimSpace(values[key.Column()])
			if value == "" {
				*missing = append(*missing, MissingField{
					Key:   key,
					Label: fmt.Sprintf("KPI %s for selection %d", suffix, i+1),
				})
			}
			answers[key.Column()] = value
		}
	}

	for _, field := range f.practice.Extra {
		key := f.key(field.Name)
		value := strings.TrimSpace(values[key.Column()])
		if field.Required && value == "" {
			*missing = append(*missing, MissingField{Key: key, Label: field.Label})
		}
		answers[key.Column()] = value
	}
	return selectionErr
}

func distinct(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// otherSelection reports whether a stored group summary includes an "Other"
// entry, returning the free text that followed it.
func otherSelection(summary string) (string, bool) {
	for _, item := range splitList(summary) {
		if item == "Other" {
			return "", true
		}
		if strings.HasPrefix(item, "Other:") {
			return strings.TrimSpace(strings.TrimPrefix(item, "Other:")), true
		}
	}
	return "", false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
