package ingest

import (
	"slices"
	"strings"

	"time-tagger/internal/errors"
)

// Canonical column names.
const (
	ColKey         = "key"
	ColProjectKey  = "projectkey"
	ColProjectName = "projectname"
	ColTags        = "tags"
	ColT1          = "t1"
	ColT2          = "t2"
	ColDescription = "description"
	ColProjectPath = "projectpath"
	ColDate        = "date"
	ColDuration    = "duration"
)

var synonyms = map[string][]string{
	ColKey:         {"id", "identifier"},
	ColProjectKey:  {"project key", "project id"},
	ColProjectName: {"project", "pr", "proj", "project name"},
	ColTags:        {"tags", "tag"},
	ColT1:          {"start", "begin", "start time", "begin time"},
	ColT2:          {"stop", "end", "stop time", "end time"},
	ColDescription: {"summary", "comment", "title", "ds"},
	ColProjectPath: {"project path"},
	ColDate:        {},
	ColDuration:    {"duration h:m", "duration h:m:s", "duration hh:mm", "duration hh:mm:ss"},
}

var nameMap = buildNameMap()

func buildNameMap() map[string]string {
	m := make(map[string]string)
	for canonical, names := range synonyms {
		m[canonical] = canonical
		for _, name := range names {
			m[name] = canonical
		}
	}
	return m
}

// separators in order of preference when counts tie
var separators = []struct {
	sep  byte
	name string
}{
	{'\t', "tab"},
	{',', "comma"},
	{';', "semicolon"},
}

// Schema describes how the columns of an import map onto record fields.
type Schema struct {
	Separator     byte
	SeparatorName string
	// Columns holds the canonical name per column, "" for ignored columns.
	// Trailing ignored columns are dropped.
	Columns []string
	// Unknown lists the normalized header names that were not recognized.
	Unknown []string
}

// Has reports whether a column maps onto the canonical name.
func (s *Schema) Has(name string) bool {
	return slices.Contains(s.Columns, name)
}

// Last returns the canonical name of the last mapped column.
func (s *Schema) Last() string {
	if len(s.Columns) == 0 {
		return ""
	}
	return s.Columns[len(s.Columns)-1]
}

// NormalizeHeaderName lower-cases a header name and turns dashes and
// underscores into spaces.
func NormalizeHeaderName(name string) string {
	name = strings.ToLower(name)
	return strings.NewReplacer("-", " ", "_", " ").Replace(name)
}

// DetectSeparator picks the most frequent of tab, comma and semicolon.
func DetectSeparator(header string) (byte, string, bool) {
	var sep byte
	var name string
	count := 0
	for _, candidate := range separators {
		if n := strings.Count(header, string(candidate.sep)); n > count {
			sep, name, count = candidate.sep, candidate.name, n
		}
	}
	return sep, name, count > 0
}

// MapHeader detects the separator of a header line and maps its column
// names onto canonical record fields.
func MapHeader(header string) (*Schema, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, errors.NewEmptyInputError("No data")
	}

	sep, sepName, ok := DetectSeparator(header)
	if !ok {
		return nil, errors.NewEmptyInputError("Could not determine separator (tried tab, comma, semicolon)")
	}

	schema := &Schema{Separator: sep, SeparatorName: sepName}
	names, _ := Split(header, sep, 0)
	for _, name := range names {
		name = NormalizeHeaderName(name)
		if canonical, ok := nameMap[name]; ok {
			schema.Columns = append(schema.Columns, canonical)
		} else {
			if name != "" {
				schema.Unknown = append(schema.Unknown, name)
			}
			schema.Columns = append(schema.Columns, "")
		}
	}
	for len(schema.Columns) > 0 && schema.Columns[len(schema.Columns)-1] == "" {
		schema.Columns = schema.Columns[:len(schema.Columns)-1]
	}

	if !schema.Has(ColT1) {
		return schema, errors.NewSchemaError("Missing required header for start time")
	}
	if !schema.Has(ColT2) && !schema.Has(ColDuration) {
		return schema, errors.NewSchemaError("Missing required header for stop time or duration")
	}

	return schema, nil
}
