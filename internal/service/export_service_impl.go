package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/export"
	"github.com/alexanderramin/lifesync/internal/relation"
	"github.com/alexanderramin/lifesync/internal/repository"
)

type exportService struct {
	blocks    repository.BlockRepo
	goals     repository.GoalRepo
	templates repository.TemplateRepo
	clock     relation.Clock
	loc       *time.Location
	observer  UseCaseObserver
}

// NewExportService renders stored data. loc is the zone calendar events are
// placed in; nil means local time.
func NewExportService(
	blocks repository.BlockRepo,
	goals repository.GoalRepo,
	templates repository.TemplateRepo,
	clock relation.Clock,
	loc *time.Location,
	observers ...UseCaseObserver,
) ExportService {
	if clock == nil {
		clock = relation.SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &exportService{
		blocks:    blocks,
		goals:     goals,
		templates: templates,
		clock:     clock,
		loc:       loc,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *exportService) JSON(ctx context.Context, w io.Writer) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"format": "json"}
	defer func() { observe(ctx, s.observer, "export", startedAt, fields, &err) }()

	backup := export.Backup{ExportedAt: s.clock.Now()}
	if backup.Blocks, err = s.blocks.ListAll(ctx); err != nil {
		return err
	}
	if backup.Goals, err = s.goals.List(ctx); err != nil {
		return err
	}
	if backup.Templates, err = s.templates.List(ctx); err != nil {
		return err
	}
	fields["blocks"] = len(backup.Blocks)
	return export.WriteJSON(w, backup)
}

func (s *exportService) CSV(ctx context.Context, w io.Writer) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"format": "csv"}
	defer func() { observe(ctx, s.observer, "export", startedAt, fields, &err) }()

	var blocks []domain.TimeBlock
	if blocks, err = s.blocks.ListAll(ctx); err != nil {
		return err
	}
	fields["blocks"] = len(blocks)
	return export.WriteBlocksCSV(w, blocks)
}

func (s *exportService) GoalsCSV(ctx context.Context, w io.Writer) error {
	goals, err := s.goals.List(ctx)
	if err != nil {
		return err
	}
	return export.WriteGoalsCSV(w, goals)
}

func (s *exportService) ICS(ctx context.Context, date string, w io.Writer) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"format": "ics", "date": date}
	defer func() { observe(ctx, s.observer, "export", startedAt, fields, &err) }()

	var blocks []domain.TimeBlock
	if blocks, err = s.day(ctx, date); err != nil {
		return err
	}
	fields["blocks"] = len(blocks)
	return export.WriteICS(w, blocks, s.loc, s.clock.Now())
}

func (s *exportService) PDF(ctx context.Context, date string, w io.Writer) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"format": "pdf", "date": date}
	defer func() { observe(ctx, s.observer, "export", startedAt, fields, &err) }()

	var blocks []domain.TimeBlock
	if blocks, err = s.day(ctx, date); err != nil {
		return err
	}
	fields["blocks"] = len(blocks)
	return export.WritePDF(w, date, blocks)
}

func (s *exportService) day(ctx context.Context, date string) ([]domain.TimeBlock, error) {
	if err := domain.ValidateDate(date); err != nil {
		return nil, err
	}
	return s.blocks.ListByDate(ctx, date)
}
