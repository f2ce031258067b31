package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"time-tagger/internal/domain"
	"time-tagger/internal/repository/sqlite"
)

// exportHeader names the columns so that the importer maps them back
var exportHeader = []string{"key", "start", "stop", "tags", "description"}

// exportServiceImpl implements the ExportService interface
type exportServiceImpl struct {
	repo        sqlite.Repository
	timeService TimeService
	mapper      *domain.Mapper
}

// NewExportService creates a new ExportService instance
func NewExportService(repo sqlite.Repository, timeService TimeService) ExportService {
	return &exportServiceImpl{
		repo:        repo,
		timeService: timeService,
		mapper:      domain.NewMapper(),
	}
}

// Export writes every visible record as a tab separated line and returns the
// number of records written
func (e *exportServiceImpl) Export(ctx context.Context, w io.Writer, format DateTimeFormat) (int, error) {
	dbRecords, err := e.repo.ListRecords(ctx)
	if err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	writeLine := func(parts []string) {
		bw.WriteString(strings.Join(parts, "\t"))
		bw.WriteString("\n")
	}

	writeLine(exportHeader)
	count := 0
	for _, record := range e.mapper.Record.FromDatabaseSlice(dbRecords) {
		if record.IsHidden() {
			continue
		}
		writeLine([]string{
			record.Key,
			e.timeService.FormatTimestamp(record.T1, format),
			e.timeService.FormatTimestamp(record.T2, format),
			strings.Join(domain.ExtractTags(record.Ds), " "),
			exportText(record.Ds),
		})
		count++
	}

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	return count, nil
}

// exportText renders ds so that the import tokenizer reads it back unchanged.
// A value opening with a quote is wrapped with its first quote doubled; the
// space before the closing quote stops that quote pairing with one ending ds.
func exportText(ds string) string {
	ds = domain.ToStr(ds)
	if strings.HasPrefix(ds, `"`) {
		return `""` + ds + ` "`
	}
	return ds
}
