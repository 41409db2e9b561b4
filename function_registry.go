package formstate

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Function is a helper callable from validator expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores expression helpers keyed by case-insensitive name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]registeredFunction
}

type registeredFunction struct {
	name string
	fn   Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]registeredFunction),
	}
}

// NewFormFunctionRegistry returns a registry preloaded with the helpers most
// input validators need: isBlank, isEmail and isDigits.
func NewFormFunctionRegistry() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("isBlank", stringPredicate(func(s string) bool {
		return strings.TrimSpace(s) == ""
	}))
	_ = r.Register("isEmail", stringPredicate(func(s string) bool {
		addr, err := mail.ParseAddress(s)
		return err == nil && addr.Address == s
	}))
	_ = r.Register("isDigits", stringPredicate(func(s string) bool {
		if s == "" {
			return false
		}
		for _, ch := range s {
			if !unicode.IsDigit(ch) {
				return false
			}
		}
		return true
	}))
	return r
}

// Register stores fn under name. Names are unique regardless of case.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("formstate: function %q is nil", name)
	}
	key := registryKey(name)
	if key == "" {
		return fmt.Errorf("formstate: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]registeredFunction)
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("formstate: function %q already registered", name)
	}
	r.functions[key] = registeredFunction{name: strings.TrimSpace(name), fn: fn}
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]registeredFunction, len(r.functions)),
	}
	for key, entry := range r.functions {
		clone.functions[key] = entry
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("formstate: function registry is nil")
	}
	r.mu.RLock()
	entry, ok := r.functions[registryKey(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("formstate: function %q not registered", name)
	}
	return entry.fn(args...)
}

// Names returns registered function names, as registered, sorted
// alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for _, entry := range r.functions {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}

func registryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func stringPredicate(pred func(string) bool) Function {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("formstate: expected 1 argument, got %d", len(args))
		}
		return pred(InputValue(args[0])), nil
	}
}
