package lint

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/sniff/pkg/token"
)

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = NewRegistry()

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
}

// NewRegistry returns an empty registry. Most callers use the package-level
// functions, which share the global registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]RuleDef)}
}

// Default returns the global registry.
func Default() *Registry {
	return globalRegistry
}

// Register adds a rule. It panics on an invalid or duplicate definition,
// since both are programming errors caught at init.
func (r *Registry) Register(rule RuleDef) {
	if err := validate(rule); err != nil {
		panic(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rules[rule.ID]; exists {
		panic(fmt.Sprintf("lint: rule %q registered twice", rule.ID))
	}
	r.rules[rule.ID] = rule
}

func validate(rule RuleDef) error {
	switch {
	case rule.ID == "":
		return fmt.Errorf("lint: rule without ID")
	case strings.Count(rule.ID, ".") < 2:
		return fmt.Errorf("lint: rule ID %q is not Standard.Group.Name", rule.ID)
	case len(rule.Register) == 0:
		return fmt.Errorf("lint: rule %q registers no token kinds", rule.ID)
	case rule.Check == nil:
		return fmt.Errorf("lint: rule %q has no check function", rule.ID)
	}
	return nil
}

// GetAll returns all registered rules sorted by ID.
func (r *Registry) GetAll() []RuleDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]RuleDef, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sortRules(rules)
	return rules
}

// Clone returns a registry holding the same rules. Rules added to the clone
// do not affect r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewRegistry()
	maps.Copy(c.rules, r.rules)
	return c
}

// GetByID returns a rule by its ID.
func (r *Registry) GetByID(id string) (RuleDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// GetByGroup returns all rules in a specific group.
func (r *Registry) GetByGroup(group string) []RuleDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rules []RuleDef
	for _, rule := range r.rules {
		if rule.Group == group {
			rules = append(rules, rule)
		}
	}
	sortRules(rules)
	return rules
}

// GetByLanguage returns the rules that run for lang.
func (r *Registry) GetByLanguage(lang token.Language) []RuleDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rules []RuleDef
	for _, rule := range r.rules {
		if rule.Supports(lang) {
			rules = append(rules, rule)
		}
	}
	sortRules(rules)
	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Clear removes all rules. Used for testing.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = make(map[string]RuleDef)
}

func sortRules(rules []RuleDef) {
	slices.SortFunc(rules, func(a, b RuleDef) int {
		return strings.Compare(a.ID, b.ID)
	})
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.Register(rule)
}

// GetAll returns all globally registered rules.
func GetAll() []RuleDef {
	return globalRegistry.GetAll()
}

// GetByID returns a globally registered rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	return globalRegistry.GetByID(id)
}

// GetByGroup returns all globally registered rules in a group.
func GetByGroup(group string) []RuleDef {
	return globalRegistry.GetByGroup(group)
}

// GetByLanguage returns the globally registered rules that run for lang.
func GetByLanguage(lang token.Language) []RuleDef {
	return globalRegistry.GetByLanguage(lang)
}

// Count returns the number of globally registered rules.
func Count() int {
	return globalRegistry.Count()
}

// Clear removes all rules from the global registry. Used for testing.
func Clear() {
	globalRegistry.Clear()
}

// AllRules returns metadata for all globally registered rules.
func AllRules() []RuleInfo {
	rules := globalRegistry.GetAll()
	infos := make([]RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, rule.Info())
	}
	return infos
}
