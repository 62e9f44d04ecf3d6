package core

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
)

func checkNotBlank(value string, field string, maxLength int) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", InvalidArgument(field, ConstraintNotBlank, fmt.Sprintf("%s must not be blank", field))
	}
	return checkLength(value, field, maxLength)
}

// checkKey validates an identifier or natural key and returns it trimmed,
// the form stores use for lookups.
func checkKey(value string, field string, maxLength int) (string, error) {
	return checkNotBlank(strings.TrimSpace(value), field, maxLength)
}

// checkLength accepts an empty value; only the upper bound is enforced.
func checkLength(value string, field string, maxLength int) (string, error) {
	if maxLength > 0 && utf8.RuneCountInString(value) > maxLength {
		return "", InvalidArgument(
			field,
			ConstraintMaxLength,
			fmt.Sprintf("%s length must be <= %d", field, maxLength),
		)
	}
	return value, nil
}

func checkEnum(value string, field string, allowed ...string) (string, error) {
	if value == "" || slices.Contains(allowed, value) {
		return value, nil
	}
	return "", InvalidArgument(
		field,
		ConstraintEnum,
		fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")),
	)
}

// normalizeSet validates entries and returns a sorted, de-duplicated copy.
// A nil input is an empty set.
func normalizeSet(values []string, field string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			return nil, InvalidArgument(field, ConstraintNotBlank, fmt.Sprintf("%s entries must not be blank", field))
		}
		out = append(out, value)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func normalizeURISet(values []string, field string) ([]string, error) {
	out, err := normalizeSet(values, field)
	if err != nil {
		return nil, err
	}
	for _, value := range out {
		parsed, parseErr := url.Parse(value)
		if parseErr != nil || !parsed.IsAbs() {
			return nil, InvalidArgument(field, ConstraintFormat, fmt.Sprintf("%s entries must be absolute URIs", field))
		}
	}
	return out, nil
}

// normalizeLocalized validates that every key is a well-formed BCP 47 tag.
func normalizeLocalized(values map[string]string, field string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for tag, text := range values {
		if _, err := language.Parse(tag); err != nil {
			return nil, InvalidArgument(field, ConstraintFormat, fmt.Sprintf("%s key %q is not a valid language tag", field, tag))
		}
		out[tag] = text
	}
	return out, nil
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	return append([]string(nil), values...)
}

func cloneStringMap(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}

func cloneTimePointer(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := value.UTC()
	return &clone
}

func cloneStringPointer(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
