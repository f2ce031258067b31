package domain

import (
	"sort"
	"strings"
	"unicode"
)

// UntaggedTag is reported for records whose description has no tags.
const UntaggedTag = "#untagged"

// IsValidTagRune reports whether r may appear in a tag after the leading '#'.
func IsValidTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '/'
}

// ExtractTags returns the sorted, unique, lower-cased #tags found in ds.
func ExtractTags(ds string) []string {
	seen := make(map[string]bool)
	var tags []string

	runes := []rune(ds)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		j := i + 1
		for j < len(runes) && IsValidTagRune(runes[j]) {
			j++
		}
		if j > i+1 {
			tag := "#" + strings.ToLower(string(runes[i+1:j]))
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
		i = j - 1
	}

	sort.Strings(tags)
	return tags
}

// IsTag reports whether s is a single tag as ExtractTags would find it.
func IsTag(s string) bool {
	rest, ok := strings.CutPrefix(s, "#")
	return ok && rest != "" && !strings.ContainsFunc(rest, func(r rune) bool { return !IsValidTagRune(r) })
}

// ConvertTextToValidTag turns arbitrary text into a tag. A text that already
// is a tag is only lower-cased. Otherwise runs of invalid characters become a
// single dash. Returns "" when nothing usable remains.
func ConvertTextToValidTag(text string) string {
	text = strings.TrimSpace(text)
	if IsTag(text) {
		return strings.ToLower(text)
	}
	text = strings.TrimLeft(text, "#")

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(text) {
		if IsValidTagRune(r) && r != '-' {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		} else {
			dash = true
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}

// ToStr normalizes free text for storage: tabs and line breaks become
// spaces and the result is trimmed.
func ToStr(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r', '\v', '\f':
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
