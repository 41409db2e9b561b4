package formstate

import (
	"fmt"
	"sort"
)

// InputValue converts a field value to the string form handed to validators
// and input widgets. nil and Absent become "".
func InputValue(value any) string {
	if value == nil || IsAbsent(value) {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// ValidateValue runs validators in order against the display form of value
// and returns the first non-empty message.
func ValidateValue(value any, validators []*Validator) string {
	if len(validators) == 0 {
		return ""
	}
	input := InputValue(value)
	for _, validator := range validators {
		if msg := validator.Validate(input); msg != "" {
			return msg
		}
	}
	return ""
}

// ValidateContext applies each binding's validator to snapshot and stores the
// result on the bound field, but only when that field has no error yet: a
// field-level error is never masked by a cross-field one. fields is not
// modified; the returned map is a copy.
func ValidateContext(fields map[string]FieldEntry, snapshot Record, lists ...[]ContextBinding) map[string]FieldEntry {
	out := copyFields(fields)
	for _, bindings := range lists {
		for _, binding := range bindings {
			entry, ok := out[binding.Field]
			if !ok {
				entry = newFieldEntry()
			}
			if entry.ErrorMsg == "" {
				entry.ErrorMsg = binding.Validator.Validate(snapshot)
			}
			out[binding.Field] = entry
		}
	}
	return out
}

// revalidate re-derives the error of every affected field from scratch: field
// validators first, then every context validator bound to the field, in
// registration order, against one frozen snapshot. Nothing is re-triggered.
func revalidate(fields map[string]FieldEntry, contexts map[string][]ContextBinding, affected map[string]struct{}) map[string]FieldEntry {
	if len(affected) == 0 {
		return fields
	}
	out := copyFields(fields)
	for name := range affected {
		entry, ok := out[name]
		if !ok {
			entry = newFieldEntry()
		}
		entry.ErrorMsg = ValidateValue(entry.Value, entry.Validators)
		out[name] = entry
	}
	bindings := bindingsFor(contexts, affected)
	if len(bindings) == 0 {
		return out
	}
	snapshot := exportFields(out)
	return ValidateContext(out, snapshot, bindings)
}

// triggeredFields returns the bound fields of the bindings under each trigger.
func triggeredFields(contexts map[string][]ContextBinding, triggers ...string) map[string]struct{} {
	fields := map[string]struct{}{}
	for _, trigger := range triggers {
		for _, binding := range contexts[trigger] {
			fields[binding.Field] = struct{}{}
		}
	}
	return fields
}

// bindingsFor collects every binding that targets one of fields, de-duplicated
// and ordered by registration.
func bindingsFor(contexts map[string][]ContextBinding, fields map[string]struct{}) []ContextBinding {
	seen := map[uint64]struct{}{}
	var out []ContextBinding
	for _, bindings := range contexts {
		for _, binding := range bindings {
			if _, ok := fields[binding.Field]; !ok {
				continue
			}
			if _, dup := seen[binding.seq]; dup {
				continue
			}
			seen[binding.seq] = struct{}{}
			out = append(out, binding)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
