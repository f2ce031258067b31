// Package report aggregates records into grouped, rounded report rows.
package report

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"time-tagger/internal/domain"
)

// timeNow is used for running records and can be replaced in tests
var timeNow = time.Now

// emptyTitle is shown for the tag group of records without visible tags.
const emptyTitle = "General"

// Grouping names the primary grouping of a report.
type Grouping string

const (
	GroupNone Grouping = "none"
	GroupTagz Grouping = "tagz"
	GroupDs   Grouping = "ds"
)

// Source provides the records and tag settings a report is built from.
type Source interface {
	// RecordsBetween returns the records overlapping [t1, t2).
	RecordsBetween(ctx context.Context, t1, t2 int64) ([]domain.Record, error)
	// TagPriorities returns the priority per tag; missing tags are primary.
	TagPriorities(ctx context.Context) (map[string]int, error)
}

// Options control the shape of a report.
type Options struct {
	Grouping      Grouping
	Period        Period
	HideSecondary bool
	Format        Format
	ShowRecords   bool
}

// Request selects what to report on.
type Request struct {
	T1, T2 int64
	// Tags restricts the report to tag combinations holding all of these.
	Tags    []string
	Options Options
}

// Engine builds reports.
type Engine struct {
	source Source
	loc    *time.Location
	logger *slog.Logger
}

// NewEngine creates an engine that writes dates and times in loc.
func NewEngine(source Source, loc *time.Location, logger *slog.Logger) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: source, loc: loc, logger: logger}
}

type entry struct {
	record  domain.Record
	t2      int64
	tagz    string
	seconds float64
}

type group struct {
	title    string
	untitled bool
	seconds  float64
	entries  []*entry
	start    int64
	index    int
}

// GenerateForDates reports on whole days from one YYYY-MM-DD date up to and
// including another. Dates that cannot be read give an empty report.
func (e *Engine) GenerateForDates(ctx context.Context, from, to string, tags []string, opts Options) ([]Row, error) {
	d1, err1 := time.ParseInLocation("2006-01-02", from, e.loc)
	d2, err2 := time.ParseInLocation("2006-01-02", to, e.loc)
	if err1 != nil || err2 != nil || d1.Year() <= 1899 || d2.Year() <= 1899 {
		e.logger.Debug("report dates ignored", "from", from, "to", to)
		return nil, nil
	}
	return e.Generate(ctx, Request{
		T1:      d1.Unix(),
		T2:      d2.AddDate(0, 0, 1).Unix(),
		Tags:    tags,
		Options: opts,
	})
}

// Generate builds the rows of a report. An empty interval gives no rows.
func (e *Engine) Generate(ctx context.Context, req Request) ([]Row, error) {
	if req.T2 <= req.T1 {
		return nil, nil
	}
	df := lookupFormat(req.Options.Format)

	records, err := e.source.RecordsBetween(ctx, req.T1, req.T2)
	if err != nil {
		return nil, err
	}
	priorities, err := e.source.TagPriorities(ctx)
	if err != nil {
		return nil, err
	}

	now := timeNow().Unix()
	stats := make(map[string]float64)
	entries := make([]*entry, 0, len(records))
	for _, r := range records {
		if r.IsHidden() {
			continue
		}
		t2 := r.T2
		if r.IsRunning() {
			t2 = max(now, r.T1)
		}
		clipped := min(req.T2, t2) - max(req.T1, r.T1)
		if clipped < 0 {
			continue
		}
		en := &entry{record: r, t2: t2, tagz: r.Tagz()}
		en.seconds = df.round(float64(clipped))
		stats[en.tagz] += float64(clipped)
		entries = append(entries, en)
	}
	slices.SortStableFunc(entries, func(a, b *entry) int {
		return cmp.Compare(a.record.T1, b.record.T1)
	})

	names := nameMap(stats, normalizeTags(req.Tags), priorities, req.Options.HideSecondary)
	groups := e.groupPrimary(req.Options.Grouping, entries, names, stats)
	if req.Options.Period != "" && req.Options.Period != PeriodNone {
		groups = e.groupPeriod(req.Options.Period, groups)
	}

	e.logger.Debug("report generated", "records", len(entries), "groups", len(groups))
	return e.rows(groups, df, req.Options.ShowRecords), nil
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if t := domain.ConvertTextToValidTag(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) groupPrimary(grouping Grouping, entries []*entry, names map[string]string, stats map[string]float64) []*group {
	switch grouping {
	case GroupTagz:
		var groups []*group
		byName := make(map[string]*group)
		for _, s := range orderedStats(stats, names) {
			title := s.name
			if title == "" {
				title = emptyTitle
			}
			g := &group{title: title}
			byName[s.name] = g
			groups = append(groups, g)
		}
		for _, en := range entries {
			name, ok := names[en.tagz]
			if !ok {
				continue
			}
			byName[name].add(en)
		}
		return groups

	case GroupDs:
		var groups []*group
		byDs := make(map[string]*group)
		for _, en := range entries {
			if _, ok := names[en.tagz]; !ok {
				continue
			}
			g, ok := byDs[en.record.Ds]
			if !ok {
				g = &group{title: en.record.Ds}
				byDs[en.record.Ds] = g
				groups = append(groups, g)
			}
			g.add(en)
		}
		fold := cases.Fold()
		slices.SortStableFunc(groups, func(a, b *group) int {
			return strings.Compare(fold.String(a.title), fold.String(b.title))
		})
		return groups

	default:
		g := &group{untitled: true}
		for _, en := range entries {
			if _, ok := names[en.tagz]; ok {
				g.add(en)
			}
		}
		return []*group{g}
	}
}

func (e *Engine) groupPeriod(period Period, groups []*group) []*group {
	var out []*group
	byTitle := make(map[string]*group)
	for i, g := range groups {
		for _, en := range g.entries {
			label, start := periodOf(period, time.Unix(en.record.T1, 0).In(e.loc))
			title := label
			if !g.untitled {
				title = label + " / " + g.title
			}
			pg, ok := byTitle[title]
			if !ok {
				pg = &group{title: title, start: start.Unix(), index: i}
				byTitle[title] = pg
				out = append(out, pg)
			}
			pg.add(en)
		}
	}
	slices.SortStableFunc(out, func(a, b *group) int {
		return cmp.Or(cmp.Compare(a.start, b.start), cmp.Compare(a.index, b.index))
	})
	return out
}

func (g *group) add(en *entry) {
	g.entries = append(g.entries, en)
	g.seconds += en.seconds
}

func (e *Engine) rows(groups []*group, df durationFormat, showRecords bool) []Row {
	total := 0.0
	for _, g := range groups {
		total += g.seconds
	}
	rows := []Row{TotalRow{Seconds: total, Duration: df.format(total)}}

	for _, g := range groups {
		if showRecords {
			rows = append(rows, BlankRow{})
		}
		if !g.untitled {
			rows = append(rows, HeadRow{Seconds: g.seconds, Duration: df.format(g.seconds), Title: g.title, Indent: 1})
		}
		if !showRecords {
			continue
		}
		for _, en := range g.entries {
			start := time.Unix(en.record.T1, 0).In(e.loc)
			stop := time.Unix(en.t2, 0).In(e.loc)
			rows = append(rows, RecordRow{
				Key:         en.record.Key,
				Seconds:     en.seconds,
				Duration:    df.format(en.seconds),
				Date:        start.Format("2006-01-02"),
				Start:       start.Format("15:04"),
				Stop:        stop.Format("15:04"),
				Description: domain.ToStr(en.record.Ds),
				Tagz:        en.tagz,
			})
		}
	}
	return rows
}
