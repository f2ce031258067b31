package ingest

import (
	"strings"

	"time-tagger/internal/domain"
)

// RawRow is one data row keyed by canonical column name. More holds the
// values beyond the mapped columns.
type RawRow struct {
	Fields map[string]string
	More   []string
}

// Get returns the trimmed value of a canonical column, or "".
func (r RawRow) Get(name string) string {
	return r.Fields[name]
}

// rowTags returns the tags for a row: the tags column if present, else a
// single tag derived from the project columns.
func rowTags(raw RawRow, schema *Schema) []string {
	if tagsValue := raw.Get(ColTags); tagsValue != "" {
		var tags []string
		for _, word := range strings.Fields(strings.ReplaceAll(tagsValue, ",", " ")) {
			if tag := domain.ConvertTextToValidTag(word); len(tag) > 2 {
				tags = append(tags, tag)
			}
		}
		return tags
	}

	projectName := raw.Get(ColProjectName)
	if projectName == "" {
		projectName = raw.Get(ColProjectKey)
	}
	if path := raw.Get(ColProjectPath); path != "" {
		parts := []string{path}
		// Yast style: the path continues into unnamed trailing columns
		if len(raw.More) > 0 && schema.Last() == ColProjectPath {
			parts = []string{pathSegment(path)}
			for _, more := range raw.More {
				if more != "" {
					parts = append(parts, pathSegment(more))
				}
			}
		}
		if name := raw.Get(ColProjectName); name != "" {
			parts = append(parts, pathSegment(name))
		}
		projectName = strings.Join(parts, "/")
	}

	projectName = domain.ToStr(projectName)
	if projectName == "" {
		return nil
	}
	if tag := domain.ConvertTextToValidTag(projectName); tag != "" {
		return []string{tag}
	}
	return nil
}

func pathSegment(s string) string {
	return strings.ReplaceAll(s, "/", " | ")
}

// composeDescription prefixes the description with the tags it does not
// already contain. Tags are compared verbatim.
func composeDescription(tags []string, description string) string {
	var prefix []string
	seen := make(map[string]bool)
	for _, tag := range tags {
		if !seen[tag] {
			seen[tag] = true
			prefix = append(prefix, tag)
		}
	}

	if description == "" {
		return strings.Join(prefix, " ")
	}

	present := make(map[string]bool)
	for _, tag := range domain.ExtractTags(description) {
		present[tag] = true
	}
	kept := prefix[:0]
	for _, tag := range prefix {
		if !present[tag] {
			kept = append(kept, tag)
		}
	}
	return domain.ToStr(strings.Join(kept, " ") + " " + description)
}
