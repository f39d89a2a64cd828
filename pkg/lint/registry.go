package lint

import (
	"sort"
	"sync"
)

// globalRegistry holds every rule registered through Register.
var globalRegistry = &Registry{
	rules: make(map[Code]RuleDef),
}

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[Code]RuleDef
	seq   map[Code]int
	next  int
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	if globalRegistry.seq == nil {
		globalRegistry.seq = make(map[Code]int)
	}
	if _, ok := globalRegistry.seq[rule.Code]; !ok {
		globalRegistry.seq[rule.Code] = globalRegistry.next
		globalRegistry.next++
	}
	globalRegistry.rules[rule.Code] = rule
}

// GetAll returns all registered rules in evaluation order: the order of
// AllCodes, then any other rules in registration order.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		oi, oj := orderOf(rules[i].Code), orderOf(rules[j].Code)
		if oi != oj {
			return oi < oj
		}
		return globalRegistry.seq[rules[i].Code] < globalRegistry.seq[rules[j].Code]
	})
	return rules
}

// GetByCode returns a rule by its code.
func GetByCode(code Code) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[code]
	return rule, ok
}

// GetByGroup returns all rules in a specific group, in evaluation order.
func GetByGroup(group string) []RuleDef {
	var rules []RuleDef
	for _, rule := range GetAll() {
		if rule.Group == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Unregister removes a rule. Used by tests that register temporary rules.
func Unregister(code Code) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	delete(globalRegistry.rules, code)
	delete(globalRegistry.seq, code)
}
