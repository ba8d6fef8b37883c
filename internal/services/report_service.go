package services

import (
	"context"
	"fmt"

	"skybank/internal/amqp"
	"skybank/internal/core"
	"skybank/internal/log"
	"skybank/internal/report"
	"skybank/internal/sheets"
)

// Publisher announces finished reports.
type Publisher interface {
	PublishReportGenerated(ctx context.Context, msg *amqp.ReportGeneratedMessage) error
}

// ReportResult describes a report written to disk.
type ReportResult struct {
	Path    string
	Format  report.Format
	Records int
}

// ReportService builds category reports and hands them to an output writer.
type ReportService struct {
	source    sheets.TransactionReader
	generator *report.Generator
	dir       string
	publisher Publisher
	logger    *log.Logger
	structlog *log.StructuredLogger
}

// NewReportService writes reports under dir. publisher may be nil.
func NewReportService(source sheets.TransactionReader, generator *report.Generator, dir string, publisher Publisher, logger *log.Logger) *ReportService {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentReport)
	if generator == nil {
		generator = report.NewGenerator(nil, logger)
	}
	return &ReportService{
		source:    source,
		generator: generator,
		dir:       dir,
		publisher: publisher,
		logger:    logger,
		structlog: log.NewStructuredLogger(logger),
	}
}

func (s *ReportService) records(ctx context.Context, category, date string) ([]core.ReportRecord, error) {
	rows, err := s.source.ReadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return s.generator.SpendingByCategory(rows, category, date)
}

// Generate writes the report for category to <dir>/report.<ext> and
// publishes a ReportGenerated event when a publisher is set. Publish
// failures are logged only.
func (s *ReportService) Generate(ctx context.Context, category, date string, format report.Format) (*ReportResult, error) {
	records, err := s.records(ctx, category, date)
	if err != nil {
		return nil, err
	}

	path, err := report.WriteFile(s.dir, format, records)
	if err != nil {
		s.structlog.LogError(ctx, "Failed to write report", err, log.OpWrite,
			log.NewFields().WithReport(category, string(format), len(records)))
		return nil, err
	}
	s.structlog.LogReportGenerated(ctx, category, string(format), len(records), path)

	if s.publisher != nil {
		msg := amqp.NewReportGeneratedMessage(category, string(format), path, len(records))
		if err := s.publisher.PublishReportGenerated(ctx, msg); err != nil {
			s.structlog.LogError(ctx, "Failed to publish report event", err, log.OpPublish,
				log.NewFields().WithReport(category, string(format), len(records)))
		}
	}

	return &ReportResult{Path: path, Format: format, Records: len(records)}, nil
}

// Render encodes the report in memory and returns the bytes with the record count.
func (s *ReportService) Render(ctx context.Context, category, date string, format report.Format) ([]byte, int, error) {
	w, err := report.WriterFor(format)
	if err != nil {
		return nil, 0, err
	}
	records, err := s.records(ctx, category, date)
	if err != nil {
		return nil, 0, err
	}
	data, err := w.Encode(records)
	if err != nil {
		return nil, 0, fmt.Errorf("encode %s report: %w", format, err)
	}
	return data, len(records), nil
}
