package ingest

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time-tagger/internal/domain"
	"time-tagger/internal/errors"
	"time-tagger/internal/validation"
)

// memStore is an in-memory Store backed by the real record validator.
type memStore struct {
	records   map[string]domain.Record
	validator *validation.RecordValidator
}

func newMemStore(records ...domain.Record) *memStore {
	s := &memStore{
		records:   make(map[string]domain.Record),
		validator: validation.NewRecordValidator(),
	}
	for _, r := range records {
		s.records[r.Key] = r
	}
	return s
}

func (s *memStore) KeyForTimes(_ context.Context, t1, t2 int64) (string, error) {
	for key, r := range s.records {
		if r.T1 == t1 && r.T2 == t2 {
			return key, nil
		}
	}
	return "", nil
}

func (s *memStore) GetByKey(_ context.Context, key string) (*domain.Record, error) {
	if r, ok := s.records[key]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *memStore) Validate(records []domain.Record) []domain.Record {
	return s.validator.Valid(records)
}

func newTestParser(store Store) *Parser {
	return NewParser(store, Options{Location: time.UTC, YieldEvery: 100})
}

const (
	jan15at9    = int64(1705309200) // 2024-01-15 09:00 UTC
	jan15at1030 = int64(1705314600) // 2024-01-15 10:30 UTC
)

func TestParse_DurationFallback(t *testing.T) {
	p := newTestParser(newMemStore())

	result, err := p.Parse(context.Background(), "start,stop,duration\n2024-01-15 09:00,,1:30\n", Hooks{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	r := result.Records[0]
	assert.Equal(t, jan15at9, r.T1)
	assert.Equal(t, int64(5400), r.T2-r.T1)
}

func TestParse_DurationFormats(t *testing.T) {
	tests := []struct {
		duration string
		expected int64
	}{
		{"5400", 5400},
		{"1:30", 5400},
		{"1:30:15", 5415},
		{"0:45", 2700},
	}
	for _, tt := range tests {
		t.Run(tt.duration, func(t *testing.T) {
			p := newTestParser(newMemStore())
			result, err := p.Parse(context.Background(), "start,duration\n1705309200,"+tt.duration, Hooks{})
			require.NoError(t, err)
			require.Len(t, result.Records, 1)
			assert.Equal(t, tt.expected, result.Records[0].T2-result.Records[0].T1)
		})
	}
}

func TestParse_InvalidStartIsRowError(t *testing.T) {
	p := newTestParser(newMemStore())
	text := "start,stop\n1705309200,1705314600\n0,1705314600\n"

	result, err := p.Parse(context.Background(), text, Hooks{})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeRow))

	appErr, _ := errors.AsAppError(err)
	row, _ := appErr.GetContext("row")
	assert.Equal(t, 2, row)
	assert.Contains(t, appErr.Message, "row 2")
}

func TestParse_RowNumbersCountBlankLines(t *testing.T) {
	p := newTestParser(newMemStore())
	text := "start,stop\n1705309200,1705314600\n\n  \nnot a time,1705314600\n"

	_, err := p.Parse(context.Background(), text, Hooks{})
	require.Error(t, err)
	appErr, _ := errors.AsAppError(err)
	row, _ := appErr.GetContext("row")
	assert.Equal(t, 4, row)
}

func TestParse_EpochRounding(t *testing.T) {
	p := newTestParser(newMemStore())

	result, err := p.Parse(context.Background(), "start,stop\n1705309200.7,1705314600.2", Hooks{})
	require.NoError(t, err)
	assert.Equal(t, jan15at9, result.Records[0].T1)
	assert.Equal(t, jan15at1030+1, result.Records[0].T2)
}

func TestParse_DateAndClockColumns(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"Day first with dots", "date;start;end;description\n15.01.2024;09.00;10.30;meeting"},
		{"ISO date", "date;start;end;description\n2024-01-15;9:00;10:30:00;meeting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(newMemStore())
			result, err := p.Parse(context.Background(), tt.text, Hooks{})
			require.NoError(t, err)
			require.Len(t, result.Records, 1)
			r := result.Records[0]
			assert.Equal(t, jan15at9, r.T1)
			assert.Equal(t, jan15at1030, r.T2)
			assert.Equal(t, "meeting", r.Ds)
		})
	}
}

func TestParse_GenericDateTimes(t *testing.T) {
	p := newTestParser(newMemStore())
	text := "start\tstop\n2024-01-15T09:00:00Z\t2024-01-15 10:30:00"

	result, err := p.Parse(context.Background(), text, Hooks{})
	require.NoError(t, err)
	assert.Equal(t, jan15at9, result.Records[0].T1)
	assert.Equal(t, jan15at1030, result.Records[0].T2)
}

func TestParse_Tags(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "Tags column prefixes missing tags",
			text:     "start,stop,tags,description\n1705309200,1705314600,\"work, client-x\",did #work stuff",
			expected: "#client-x did #work stuff",
		},
		{
			name:     "Short tags dropped",
			text:     "start,stop,tags,description\n1705309200,1705314600,ab x,notes",
			expected: "#ab notes",
		},
		{
			name:     "Tags only",
			text:     "start,stop,tags\n1705309200,1705314600,#aa #bb #aa",
			expected: "#aa #bb",
		},
		{
			name:     "Project name",
			text:     "start,stop,project,description\n1705309200,1705314600,Acme Corp,design",
			expected: "#acme-corp design",
		},
		{
			name:     "Project key when name missing",
			text:     "start,stop,project id\n1705309200,1705314600,P42",
			expected: "#p42",
		},
		{
			name:     "Project path continues into trailing columns",
			text:     "start,stop,project name,project path\n1705309200,1705314600,web,clients/acme,sub",
			expected: "#clients-acme/sub/web",
		},
		{
			name:     "Project path without trailing columns",
			text:     "start,stop,project path,project name\n1705309200,1705314600,clients,web",
			expected: "#clients/web",
		},
		{
			name:     "No tags at all",
			text:     "start,stop,comment\n1705309200,1705314600,  just text\t",
			expected: "just text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(newMemStore())
			result, err := p.Parse(context.Background(), tt.text, Hooks{})
			require.NoError(t, err)
			require.Len(t, result.Records, 1)
			assert.Equal(t, tt.expected, result.Records[0].Ds)
		})
	}
}

func TestParse_KeysAndNewCount(t *testing.T) {
	store := newMemStore(
		domain.Record{Key: "existing", T1: jan15at9, T2: jan15at1030, Ds: "#a"},
		domain.Record{Key: "explicit", T1: 1, T2: 2},
	)
	p := newTestParser(store)
	text := strings.Join([]string{
		"key,start,stop,description",
		",1705309200,1705314600,same times",
		"explicit,1705309200,1705309300,known key",
		"brand-new,1705309200,1705309400,unknown key",
		",1705400000,1705400100,no key",
	}, "\n")

	result, err := p.Parse(context.Background(), text, Hooks{})
	require.NoError(t, err)
	require.Len(t, result.Records, 4)

	assert.Equal(t, "existing", result.Records[0].Key)
	assert.Equal(t, "explicit", result.Records[1].Key)
	assert.Equal(t, "brand-new", result.Records[2].Key)
	assert.Equal(t, "", result.Records[3].Key)
	assert.Equal(t, 2, result.NewCount)
	assert.Equal(t, 4, result.Rows)
}

func TestParse_DedupesWithinBatch(t *testing.T) {
	p := newTestParser(newMemStore())
	text := strings.Join([]string{
		"key,start,stop,description",
		"k1,1705309200,1705314600,first",
		",1705400000,1705400100,fresh one",
		"k1,1705309200,1705314600,second",
		",1705400000,1705400100,fresh two",
	}, "\n")

	result, err := p.Parse(context.Background(), text, Hooks{})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "second", result.Records[0].Ds)
	assert.Equal(t, "fresh two", result.Records[1].Ds)
	assert.Equal(t, 2, result.NewCount)
}

func TestParse_NeverRunning(t *testing.T) {
	p := newTestParser(newMemStore())

	result, err := p.Parse(context.Background(), "start,stop\n1705309200,1705309200", Hooks{})
	require.NoError(t, err)
	assert.Equal(t, jan15at9+1, result.Records[0].T2)
}

func TestParse_StoreValidationFailure(t *testing.T) {
	p := newTestParser(newMemStore())

	_, err := p.Parse(context.Background(), "key,start,stop\nbad key,1705309200,1705309100", Hooks{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeRow))
	appErr, _ := errors.AsAppError(err)
	dump, ok := appErr.GetContext("record")
	require.True(t, ok)
	assert.Contains(t, dump, `"key":"bad key"`)
	assert.Contains(t, appErr.Message, "does not pass validation")
}

func TestParse_SchemaErrors(t *testing.T) {
	p := newTestParser(newMemStore())

	var messages []string
	_, err := p.Parse(context.Background(), "summary,stop\nx,1", Hooks{Message: func(s string) { messages = append(messages, s) }})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeSchema))
	assert.Contains(t, messages, "Missing required header for start time")

	_, err = p.Parse(context.Background(), "\n\n  \n", Hooks{})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeEmptyInput))
}

func TestParse_Log(t *testing.T) {
	p := newTestParser(newMemStore())

	var messages []string
	result, err := p.Parse(context.Background(),
		"\n  start,stop,billable\n1705309200,1705314600,yes\n1705400000,1705400100,no\n",
		Hooks{Message: func(s string) { messages = append(messages, s) }})
	require.NoError(t, err)

	expected := []string{
		"Looks like the separator is comma",
		"Ignoring some headers: billable",
		"Found 2 (2 new)",
	}
	assert.Equal(t, expected, result.Log)
	assert.Equal(t, expected, messages)
}

func TestParse_Yield(t *testing.T) {
	p := NewParser(newMemStore(), Options{Location: time.UTC, YieldEvery: 2})
	var lines []string
	lines = append(lines, "start,duration")
	for i := 0; i < 5; i++ {
		lines = append(lines, "1705309200,"+string(rune('1'+i)))
	}

	var progress []Progress
	_, err := p.Parse(context.Background(), strings.Join(lines, "\n"), Hooks{
		Yield: func(_ context.Context, pr Progress) error {
			progress = append(progress, pr)
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []Progress{{Row: 2, Found: 2}, {Row: 4, Found: 4}}, progress)

	stop := stderrors.New("stop")
	_, err = p.Parse(context.Background(), strings.Join(lines, "\n"), Hooks{
		Yield: func(context.Context, Progress) error { return stop },
	})
	assert.ErrorIs(t, err, stop)
}

func TestParse_YieldOnBlankRows(t *testing.T) {
	p := NewParser(newMemStore(), Options{Location: time.UTC, YieldEvery: 2})
	text := strings.Join([]string{
		"start,duration",
		"1705309200,1",
		"",
		"1705312800,1",
		"",
		"",
	}, "\n")

	var progress []Progress
	_, err := p.Parse(context.Background(), text, Hooks{
		Yield: func(_ context.Context, pr Progress) error {
			progress = append(progress, pr)
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []Progress{{Row: 2, Found: 1}, {Row: 4, Found: 2}}, progress)
}

func TestParse_Canceled(t *testing.T) {
	p := newTestParser(newMemStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Parse(ctx, "start,stop\n1705309200,1705314600", Hooks{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_SupersededByNewerRun(t *testing.T) {
	p := NewParser(newMemStore(), Options{Location: time.UTC, YieldEvery: 1})
	text := "start,stop\n1705309200,1705314600\n1705400000,1705400100"

	started := false
	_, err := p.Parse(context.Background(), text, Hooks{
		Yield: func(ctx context.Context, _ Progress) error {
			if !started {
				started = true
				_, err := p.Parse(ctx, text, Hooks{})
				require.NoError(t, err)
			}
			return nil
		},
	})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeSuperseded))
}
