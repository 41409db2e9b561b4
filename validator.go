package formstate

// Validator checks the display form of a field value and returns an error
// message, or "" when the value passes. Validators are compared by identity:
// construct them once and reuse the pointer so equal lists are recognised as
// unchanged.
type Validator struct {
	name string
	fn   func(string) string
}

// NewValidator wraps fn as a field validator. A nil fn always passes.
func NewValidator(name string, fn func(value string) string) *Validator {
	return &Validator{name: name, fn: fn}
}

// Name returns the label the validator was registered with.
func (v *Validator) Name() string {
	if v == nil {
		return ""
	}
	return v.name
}

// Validate runs the validator against input.
func (v *Validator) Validate(input string) string {
	if v == nil || v.fn == nil {
		return ""
	}
	return v.fn(input)
}

// ContextValidator checks the exported record as a whole and returns an error
// message for the field it is bound to, or "" when the record passes.
type ContextValidator struct {
	name string
	fn   func(Record) string
}

// NewContextValidator wraps fn as a cross-field validator.
func NewContextValidator(name string, fn func(data Record) string) *ContextValidator {
	return &ContextValidator{name: name, fn: fn}
}

// Name returns the label the validator was registered with.
func (v *ContextValidator) Name() string {
	if v == nil {
		return ""
	}
	return v.name
}

// Validate runs the validator against a snapshot of the exported data.
func (v *ContextValidator) Validate(data Record) string {
	if v == nil || v.fn == nil {
		return ""
	}
	return v.fn(data)
}

func sameValidators(a, b []*Validator) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
