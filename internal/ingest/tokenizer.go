// Package ingest turns delimited text exported by other time trackers into records.
package ingest

import "strings"

const (
	modeBetween = iota
	modeUnescaped
	modeEscaped
)

// Split splits one line of s, starting at offset, on sep. Values may be
// wrapped in double quotes to protect separators and newlines; a quote inside
// a quoted value is written twice. Values are whitespace-trimmed. Split
// returns the values and the offset of the next line.
//
// Only the first doubled quote of a value is collapsed. Split never fails:
// malformed quoting degrades to a best-effort split.
func Split(s string, sep byte, offset int) ([]string, int) {
	var parts []string

	mode := modeBetween
	lastSplit := offset
	i := offset - 1
scan:
	for i < len(s)-1 {
		i++
		c := s[i]
		switch mode {
		case modeBetween:
			switch c {
			case '"':
				mode = modeEscaped
			case sep:
				parts = append(parts, "")
				lastSplit = i + 1
			case '\t', ' ', '\r':
			case '\n':
				break scan
			default:
				mode = modeUnescaped
			}
		case modeUnescaped:
			if c == sep {
				parts = append(parts, strings.TrimSpace(s[lastSplit:i]))
				lastSplit = i + 1
				mode = modeBetween
			} else if c == '\n' {
				break scan
			}
		case modeEscaped:
			if c == '"' {
				if i < len(s)-1 && s[i+1] == '"' {
					i++
				} else {
					mode = modeUnescaped
				}
			}
		}
	}
	i++
	end := min(i, len(s))
	if lastSplit < end {
		parts = append(parts, strings.TrimSpace(s[lastSplit:end]))
	} else {
		parts = append(parts, "")
	}

	for j, v := range parts {
		parts[j] = unquote(v)
	}
	return parts, i
}

func unquote(v string) string {
	if len(v) == 0 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	if len(v) == 1 {
		return ""
	}
	v = strings.Replace(v[1:len(v)-1], `""`, `"`, 1)
	return strings.TrimSpace(v)
}
