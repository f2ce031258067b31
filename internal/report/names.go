package report

import (
	"cmp"
	"slices"
	"strings"

	"time-tagger/internal/domain"
)

// nameMap maps the raw tagz of every tag combination that contains all
// selected tags onto its display name.
//
// Tags within a name are ordered selected first (in the order given), then
// primary before secondary, then by the total time spent on the tag, then
// alphabetically. With hideSecondary the secondary tags are dropped, so
// several combinations may share a name.
func nameMap(stats map[string]float64, selected []string, priorities map[string]int, hideSecondary bool) map[string]string {
	selectedIndex := make(map[string]int, len(selected))
	for i, tag := range selected {
		if _, dup := selectedIndex[tag]; !dup {
			selectedIndex[tag] = i
		}
	}
	rank := func(tag string) int {
		if i, ok := selectedIndex[tag]; ok {
			return i
		}
		return len(selected)
	}

	tagTotals := make(map[string]float64)
	for tagz, t := range stats {
		for _, tag := range strings.Fields(tagz) {
			tagTotals[tag] += t
		}
	}

	names := make(map[string]string, len(stats))
	for tagz := range stats {
		tags := strings.Fields(tagz)
		if !containsAll(tags, selected) {
			continue
		}
		slices.SortFunc(tags, func(a, b string) int {
			return cmp.Or(
				cmp.Compare(rank(a), rank(b)),
				cmp.Compare(priority(priorities, a), priority(priorities, b)),
				cmp.Compare(tagTotals[b], tagTotals[a]),
				cmp.Compare(a, b),
			)
		})
		if hideSecondary {
			tags = slices.DeleteFunc(tags, func(tag string) bool {
				return priority(priorities, tag) > domain.PriorityPrimary
			})
		}
		names[tagz] = strings.Join(tags, " ")
	}
	return names
}

func priority(priorities map[string]int, tag string) int {
	info := domain.NewTagInfo(tag)
	info.Priority = priorities[tag]
	return info.EffectivePriority()
}

func containsAll(tags, required []string) bool {
	for _, tag := range required {
		if !slices.Contains(tags, tag) {
			return false
		}
	}
	return true
}

// stat is the total time of one display name.
type stat struct {
	name    string
	seconds float64
}

// orderedStats sums stats per display name, longest first and then by name.
func orderedStats(stats map[string]float64, names map[string]string) []stat {
	totals := make(map[string]float64)
	for tagz, name := range names {
		totals[name] += stats[tagz]
	}
	ordered := make([]stat, 0, len(totals))
	for name, seconds := range totals {
		ordered = append(ordered, stat{name: name, seconds: seconds})
	}
	slices.SortFunc(ordered, func(a, b stat) int {
		return cmp.Or(cmp.Compare(b.seconds, a.seconds), cmp.Compare(a.name, b.name))
	})
	return ordered
}
