package binding

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	separatorRun       = regexp.MustCompile(`[\s\-_]+`)
	separatorThenFirst = regexp.MustCompile(`[\s\-_]+(.)?`)
)

// Sanitize removes every run of whitespace, hyphens and underscores and
// lowercases the rest. Two keys name the same identifier when their sanitized
// forms are equal, so "Field Name", "field_name" and "fieldName" all collapse to
// "fieldname".
func Sanitize(input string) string {
	return strings.ToLower(separatorRun.ReplaceAllString(input, ""))
}

// Variants returns the spellings an identifier may take in an external payload:
// the trimmed input, its lowercase form, the separator-free form, the
// underscore form, the camelCase forms and the sanitized form. The result is
// deduplicated and ordered from most to least literal. Blank input yields nil.
func Variants(input string) []string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	lower := strings.ToLower(trimmed)
	camel := camelCase(lower)

	return uniqueStrings([]string{
		trimmed,
		lower,
		separatorRun.ReplaceAllString(trimmed, ""),
		separatorRun.ReplaceAllString(trimmed, "_"),
		camel,
		lowerFirst(camel),
		Sanitize(trimmed),
	})
}

// FieldVariants merges the variants of a field's id and label, id first.
func FieldVariants(field FieldDescriptor) []string {
	return uniqueStrings(append(Variants(field.ID), Variants(field.Label)...))
}

func camelCase(lower string) string {
	return separatorThenFirst.ReplaceAllStringFunc(lower, func(match string) string {
		return strings.ToUpper(separatorRun.ReplaceAllString(match, ""))
	})
}

func lowerFirst(input string) string {
	first, size := utf8.DecodeRuneInString(input)
	if size == 0 {
		return ""
	}
	return string(unicode.ToLower(first)) + input[size:]
}

// suffixed appends every suffix to every base key, keeping base order.
func suffixed(bases []string, suffixes []string) []string {
	out := make([]string, 0, len(bases)*len(suffixes))
	for _, base := range bases {
		for _, suffix := range suffixes {
			out = append(out, base+suffix)
		}
	}
	return uniqueStrings(out)
}

func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
