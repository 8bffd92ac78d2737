package eventhub

import (
	"fmt"
	"strings"
)

type term struct {
	key   string
	value string
}

// Subscription is a parsed subscription expression.
type Subscription struct {
	expression string
	terms      []term
}

// ParseSubscription parses "key=value and key=value ...". Keys and values are
// trimmed; values may not contain whitespace-delimited "and".
func ParseSubscription(expression string) (Subscription, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return Subscription{}, fmt.Errorf("subscription: empty expression")
	}
	fields := strings.Fields(expression)
	var parts []string
	var current []string
	for _, field := range fields {
		if strings.EqualFold(field, "and") {
			if len(current) == 0 {
				return Subscription{}, fmt.Errorf("subscription %q: dangling and", expression)
			}
			parts = append(parts, strings.Join(current, " "))
			current = nil
			continue
		}
		current = append(current, field)
	}
	if len(current) == 0 {
		return Subscription{}, fmt.Errorf("subscription %q: dangling and", expression)
	}
	parts = append(parts, strings.Join(current, " "))

	sub := Subscription{expression: expression, terms: make([]term, 0, len(parts))}
	for _, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" {
			return Subscription{}, fmt.Errorf("subscription %q: term %q is not key=value", expression, part)
		}
		sub.terms = append(sub.terms, term{key: key, value: value})
	}
	return sub, nil
}

// String returns the expression the subscription was parsed from.
func (s Subscription) String() string { return s.expression }

// Matches reports whether every term holds for the event.
func (s Subscription) Matches(event Event) bool {
	for _, t := range s.terms {
		got, ok := event.Lookup(t.key)
		if !ok || got != t.value {
			return false
		}
	}
	return len(s.terms) > 0
}
