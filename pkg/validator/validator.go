package validator

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

func All(errors ...error) error {
	for _, err := range errors {
		if err != nil {
			return err
		}
	}
	return nil
}

type Validatable interface {
	Validate() error
}

func Each[T Validatable](items []T) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func Map[T any](items []T, f func(T, string) error, description string) error {
	for i, item := range items {
		if err := f(item, fmt.Sprintf("%s[%d]", description, i)); err != nil {
			return err
		}
	}
	return nil
}

func MapDict[T any](items map[string]T, f func(string, T) error, description string) error {
	for key, item := range items {
		if err := f(key, item); err != nil {
			return fmt.Errorf("%s: %w", description, err)
		}
	}
	return nil
}

func NotEmpty(field, description string) error {
	if field == "" {
		return fmt.Errorf("%s must not be empty", description)
	}
	return nil
}

func NoDuplicates[T comparable](slice []T, description string) error {
	seen := make(map[T]struct{})
	for _, v := range slice {
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%s contains duplicate value: %v", description, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

func MatchesAllowed[T comparable](field T, allowed []T, description string) error {
	if !slices.Contains(allowed, field) {
		return fmt.Errorf("%s must be one of %v, got %v", description, allowed, field)
	}
	return nil
}

// ExactlyOne checks that exactly one of the named alternatives is present.
func ExactlyOne(present map[string]bool, description string) error {
	var set []string
	for name, ok := range present {
		if ok {
			set = append(set, name)
		}
	}
	switch len(set) {
	case 1:
		return nil
	case 0:
		names := make([]string, 0, len(present))
		for name := range present {
			names = append(names, name)
		}
		slices.Sort(names)
		return fmt.Errorf("%s must set one of %s", description, strings.Join(names, ", "))
	default:
		slices.Sort(set)
		return fmt.Errorf("%s sets more than one of %s", description, strings.Join(set, ", "))
	}
}

// IsIdentifier checks that field is usable as a template variable name.
func IsIdentifier(field, description string) error {
	if field == "" {
		return fmt.Errorf("%s must not be empty", description)
	}
	for i, r := range field {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return fmt.Errorf("%s %q is not a valid identifier", description, field)
	}
	return nil
}
