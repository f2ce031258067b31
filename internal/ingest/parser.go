package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"time-tagger/internal/domain"
	"time-tagger/internal/errors"
	"time-tagger/internal/logging"
)

// Store is what the parser needs from the record store.
type Store interface {
	// KeyForTimes returns the key of a stored record with exactly these
	// start and stop times, or "".
	KeyForTimes(ctx context.Context, t1, t2 int64) (string, error)
	// GetByKey returns the stored record, or nil if there is none.
	GetByKey(ctx context.Context, key string) (*domain.Record, error)
	// Validate returns the subset of records the store would accept.
	Validate(records []domain.Record) []domain.Record
}

// Progress is reported to Hooks.Yield while parsing.
type Progress struct {
	Row   int
	Found int
}

// Hooks let the caller observe a parse. Both are optional.
type Hooks struct {
	// Message receives the human readable analysis log.
	Message func(string)
	// Yield is called every few rows; returning an error aborts the parse.
	Yield func(ctx context.Context, p Progress) error
}

// Result is the outcome of a successful parse.
type Result struct {
	Schema   *Schema
	Records  []domain.Record
	NewCount int
	Rows     int
	Log      []string
}

// Options configure a Parser.
type Options struct {
	Location   *time.Location
	YieldEvery int
	Logger     *slog.Logger
}

// Parser converts delimited text into validated records. A batch is
// all-or-nothing: the first bad row aborts the parse.
type Parser struct {
	store      Store
	loc        *time.Location
	yieldEvery int
	logger     *slog.Logger
	runs       RunTracker
}

// NewParser creates a parser that resolves keys against store.
func NewParser(store Store, opts Options) *Parser {
	p := &Parser{
		store:      store,
		loc:        opts.Location,
		yieldEvery: opts.YieldEvery,
		logger:     opts.Logger,
	}
	if p.loc == nil {
		p.loc = time.Local
	}
	if p.yieldEvery <= 0 {
		p.yieldEvery = 100
	}
	return p
}

type recordDump struct {
	Key string `json:"key"`
	T1  int64  `json:"t1"`
	T2  int64  `json:"t2"`
	Ds  string `json:"ds"`
}

// Parse analyses text. Starting another Parse on the same parser makes this
// one fail with a superseded error at its next yield point.
func (p *Parser) Parse(ctx context.Context, text string, hooks Hooks) (*Result, error) {
	run := p.runs.Begin()
	ctx = logging.WithRun(ctx, run)
	logger := logging.FromContext(ctx)
	if p.logger != nil {
		logger = p.logger.With("run", run)
	}

	result := &Result{}
	log := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		result.Log = append(result.Log, msg)
		if hooks.Message != nil {
			hooks.Message(msg)
		}
	}

	header, body, _ := strings.Cut(strings.TrimLeft(text, " \t\r\n"), "\n")
	schema, err := MapHeader(header)
	if schema != nil {
		log("Looks like the separator is %s", schema.SeparatorName)
		if len(schema.Unknown) > 0 {
			log("Ignoring some headers: %s", strings.Join(schema.Unknown, ", "))
		} else {
			log("All headers names recognized")
		}
	}
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			log("%s", appErr.Message)
		}
		return nil, err
	}
	result.Schema = schema
	logging.Tracef("ingest", "run %d columns %v", run, schema.Columns)

	index := make(map[string]int)
	var isNew []bool
	row := 0
	// every yieldEvery-th row hands control back, blank rows included
	checkpoint := func() error {
		if row%p.yieldEvery != 0 {
			return nil
		}
		return p.yield(ctx, run, &hooks, Progress{Row: row, Found: len(result.Records)})
	}
	for offset := 0; offset < len(body); {
		row++
		var parts []string
		parts, offset = Split(body, schema.Separator, offset)
		logging.Tracef("ingest", "run %d row %d: %q", run, row, parts)
		if strings.TrimSpace(strings.Join(parts, "")) == "" {
			if err := checkpoint(); err != nil {
				return nil, err
			}
			continue
		}

		record, err := p.parseRow(ctx, schema, parts, row)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				log("%s", appErr.Message)
			}
			logger.Debug("import row rejected", "row", row, "error", err)
			return nil, err
		}

		fresh, err := p.isNew(ctx, record.Key)
		if err != nil {
			return nil, err
		}

		id := record.Key
		if id == "" {
			id = fmt.Sprintf("%d_%d", record.T1, record.T2)
		}
		if i, dup := index[id]; dup {
			result.Records[i] = record
			isNew[i] = fresh
		} else {
			index[id] = len(result.Records)
			result.Records = append(result.Records, record)
			isNew = append(isNew, fresh)
		}

		if err := checkpoint(); err != nil {
			return nil, err
		}
	}
	if err := p.yield(ctx, run, nil, Progress{}); err != nil {
		return nil, err
	}

	for _, n := range isNew {
		if n {
			result.NewCount++
		}
	}
	result.Rows = row
	log("Found %d (%d new)", len(result.Records), result.NewCount)
	logger.Info("import analysed", "rows", row, "records", len(result.Records), "new", result.NewCount)
	return result, nil
}

func (p *Parser) yield(ctx context.Context, run uint64, hooks *Hooks, progress Progress) error {
	if hooks != nil && hooks.Yield != nil {
		if err := hooks.Yield(ctx, progress); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.runs.IsCurrent(run) {
		return errors.NewSupersededError("import")
	}
	return nil
}

func (p *Parser) isNew(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return true, nil
	}
	existing, err := p.store.GetByKey(ctx, key)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

// parseRow builds and validates the record of one data row.
func (p *Parser) parseRow(ctx context.Context, schema *Schema, parts []string, row int) (domain.Record, error) {
	raw := RawRow{Fields: make(map[string]string)}
	for j := 0; j < min(len(parts), len(schema.Columns)); j++ {
		if name := schema.Columns[j]; name != "" {
			raw.Fields[name] = strings.TrimSpace(parts[j])
		}
	}
	if len(parts) > len(schema.Columns) {
		raw.More = parts[len(schema.Columns):]
	}

	date := normalizeDate(raw.Get(ColDate))

	t1, ok1 := parseTimestamp(raw.Get(ColT1), p.loc)
	if !ok1 {
		t1, ok1 = parseDateAndClock(date, raw.Get(ColT1), p.loc)
	}
	t1 = math.Floor(t1)

	t2, ok2 := parseTimestamp(raw.Get(ColT2), p.loc)
	if !ok2 && ok1 && raw.Get(ColDuration) != "" {
		if d, ok := parseDuration(raw.Get(ColDuration)); ok {
			t2, ok2 = t1+d, true
		}
	}
	if !ok2 {
		t2, ok2 = parseDateAndClock(date, raw.Get(ColT2), p.loc)
	}
	t2 = math.Ceil(t2)

	if !ok1 || !ok2 || t1 == 0 || t2 == 0 {
		return domain.Record{}, errors.NewRowError(row, "invalid start/stop times", "")
	}

	record := domain.Record{
		Key: raw.Get(ColKey),
		T1:  int64(t1),
		T2:  int64(t2),
		Ds:  composeDescription(rowTags(raw, schema), raw.Get(ColDescription)),
	}

	if len(p.store.Validate([]domain.Record{record})) == 0 {
		dump, _ := json.Marshal(recordDump{Key: record.Key, T1: record.T1, T2: record.T2, Ds: record.Ds})
		return domain.Record{}, errors.NewRowError(row, "does not pass validation", string(dump))
	}

	// imported records are never running
	record.T2 = max(record.T2, record.T1+1)

	if record.Key == "" {
		key, err := p.store.KeyForTimes(ctx, record.T1, record.T2)
		if err != nil {
			return domain.Record{}, err
		}
		record.Key = key
	}

	return record, nil
}
