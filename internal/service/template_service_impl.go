package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/lifesync/internal/db"
	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/planner"
	"github.com/alexanderramin/lifesync/internal/repository"
	tmpl "github.com/alexanderramin/lifesync/internal/template"
)

type templateService struct {
	templates repository.TemplateRepo
	blocks    repository.BlockRepo
	uow       db.UnitOfWork
	cfg       planner.Config
	observer  UseCaseObserver
}

func NewTemplateService(
	templates repository.TemplateRepo,
	blocks repository.BlockRepo,
	uow db.UnitOfWork,
	cfg planner.Config,
	observers ...UseCaseObserver,
) TemplateService {
	base := planner.New(cfg)
	cfg.IDs = base.Relations().IDs
	cfg.Clock = base.Relations().Clock
	cfg.PlanColor = domain.CoalesceStr(cfg.PlanColor, planner.DefaultPlanColor)
	return &templateService{
		templates: templates,
		blocks:    blocks,
		uow:       uow,
		cfg:       cfg,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *templateService) plannerFor(date string) *planner.Planner {
	cfg := s.cfg
	cfg.Day = date
	return planner.New(cfg)
}

// Save captures the Plan blocks of date under name. An existing template
// with the same name is replaced.
func (s *templateService) Save(ctx context.Context, name, date string) (saved *domain.DayTemplate, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": name, "date": date}
	defer func() { observe(ctx, s.observer, "save-template", startedAt, fields, &err) }()

	if name == "" {
		return nil, fmt.Errorf("template name is required")
	}
	if err = domain.ValidateDate(date); err != nil {
		return nil, err
	}
	var blocks []domain.TimeBlock
	blocks, err = s.blocks.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	tpl := s.plannerFor(date).SaveTemplate(name, blocks)
	if len(tpl.Blocks) == 0 {
		err = fmt.Errorf("template %q from %s: %w", name, date, ErrEmptyTemplate)
		return nil, err
	}
	fields["blocks"] = len(tpl.Blocks)

	if err = s.replace(ctx, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *templateService) List(ctx context.Context) ([]*domain.DayTemplate, error) {
	return s.templates.List(ctx)
}

func (s *templateService) Get(ctx context.Context, nameOrID string) (*domain.DayTemplate, error) {
	t, err := s.templates.GetByID(ctx, nameOrID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.templates.GetByName(ctx, nameOrID)
}

// Load stamps the template onto date. With replace the day's Plan blocks,
// and everything linked to them, are removed first.
func (s *templateService) Load(ctx context.Context, nameOrID, date string, replace bool) (batch domain.MutationBatch, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"template": nameOrID, "date": date, "replace": replace}
	defer func() { observe(ctx, s.observer, "load-template", startedAt, fields, &err) }()

	if err = domain.ValidateDate(date); err != nil {
		return batch, err
	}
	var tpl *domain.DayTemplate
	tpl, err = s.Get(ctx, nameOrID)
	if err != nil {
		return batch, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txBlocks := repository.NewSQLiteBlockRepo(tx)
		all, err := collectDay(ctx, txBlocks, date)
		if err != nil {
			return err
		}
		batch = s.plannerFor(date).InstantiateTemplate(*tpl, all, replace)
		return applyBatch(ctx, txBlocks, batch)
	})
	fields["creates"] = len(batch.Creates)
	fields["deletes"] = len(batch.Deletes)
	return batch, err
}

func (s *templateService) Delete(ctx context.Context, nameOrID string) error {
	t, err := s.Get(ctx, nameOrID)
	if err != nil {
		return err
	}
	return s.templates.Delete(ctx, t.ID)
}

// ImportYAML reads a template file and stores it, replacing any template
// with the same name.
func (s *templateService) ImportYAML(ctx context.Context, r io.Reader) (imported *domain.DayTemplate, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "import-template", startedAt, fields, &err) }()

	var schema *tmpl.TemplateSchema
	schema, err = tmpl.Decode(r)
	if err != nil {
		return nil, err
	}
	fields["name"] = schema.Name

	imported, err = schema.ToDomain()
	if err != nil {
		return nil, err
	}
	imported.ID = s.cfg.IDs.NewID()
	imported.CreatedAt = s.cfg.Clock.Now()
	for i := range imported.Blocks {
		imported.Blocks[i].Color = domain.CoalesceStr(imported.Blocks[i].Color, s.cfg.PlanColor)
	}
	if err = s.replace(ctx, imported); err != nil {
		return nil, err
	}
	return imported, nil
}

func (s *templateService) ExportYAML(ctx context.Context, nameOrID string, w io.Writer) error {
	t, err := s.Get(ctx, nameOrID)
	if err != nil {
		return err
	}
	return tmpl.Encode(w, tmpl.FromDomain(t))
}

func (s *templateService) replace(ctx context.Context, t *domain.DayTemplate) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTemplates := repository.NewSQLiteTemplateRepo(tx)
		existing, err := txTemplates.GetByName(ctx, t.Name)
		switch {
		case err == nil:
			if err := txTemplates.Delete(ctx, existing.ID); err != nil {
				return err
			}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		return txTemplates.Create(ctx, t)
	})
}

// collectDay loads date's blocks plus anything linked to its Plan blocks
// that lives elsewhere.
func collectDay(ctx context.Context, blocks repository.BlockRepo, date string) ([]domain.TimeBlock, error) {
	all, err := blocks.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(all))
	for _, b := range all {
		seen[b.ID] = true
	}
	for _, b := range append([]domain.TimeBlock(nil), all...) {
		if !b.IsPlan() {
			continue
		}
		related, err := blocks.ListRelated(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range related {
			if !seen[r.ID] {
				seen[r.ID] = true
				all = append(all, r)
			}
		}
	}
	return all, nil
}
