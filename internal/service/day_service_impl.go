package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/lifesync/internal/db"
	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/gesture"
	"github.com/alexanderramin/lifesync/internal/planner"
	"github.com/alexanderramin/lifesync/internal/repository"
)

type dayService struct {
	blocks   repository.BlockRepo
	goals    repository.GoalRepo
	uow      db.UnitOfWork
	cfg      planner.Config
	observer UseCaseObserver
}

// NewDayService builds the block use cases. cfg supplies ids, clock, scale
// and colors; its Day is ignored and set per call.
func NewDayService(
	blocks repository.BlockRepo,
	goals repository.GoalRepo,
	uow db.UnitOfWork,
	cfg planner.Config,
	observers ...UseCaseObserver,
) DayService {
	// Resolve defaults once so every per-day planner shares ids and clock.
	base := planner.New(cfg)
	cfg.IDs = base.Relations().IDs
	cfg.Clock = base.Relations().Clock
	cfg.Scale = base.Scale()
	return &dayService{
		blocks:   blocks,
		goals:    goals,
		uow:      uow,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *dayService) plannerFor(date string) *planner.Planner {
	cfg := s.cfg
	cfg.Day = date
	return planner.New(cfg)
}

func (s *dayService) Blocks(ctx context.Context, date string) ([]domain.TimeBlock, error) {
	if err := domain.ValidateDate(date); err != nil {
		return nil, err
	}
	return s.blocks.ListByDate(ctx, date)
}

func (s *dayService) Backlog(ctx context.Context) ([]domain.TimeBlock, error) {
	return s.blocks.ListBacklog(ctx)
}

func (s *dayService) Get(ctx context.Context, id string) (*domain.TimeBlock, error) {
	return s.blocks.GetByID(ctx, id)
}

func (s *dayService) Resolve(ctx context.Context, ref string) (*domain.TimeBlock, error) {
	b, err := s.blocks.GetByID(ctx, ref)
	if err == nil || !errors.Is(err, repository.ErrNotFound) || ref == "" {
		return b, err
	}
	all, err := s.blocks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var match *domain.TimeBlock
	for i := range all {
		if !strings.HasPrefix(all[i].ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%q: %w", ref, ErrAmbiguousID)
		}
		match = &all[i]
	}
	if match == nil {
		return nil, fmt.Errorf("time block %s: %w", ref, repository.ErrNotFound)
	}
	return match, nil
}

// Layout returns the column's blocks on date in start order with their
// lanes.
func (s *dayService) Layout(ctx context.Context, date string, column domain.Column) ([]Placement, error) {
	blocks, err := s.Blocks(ctx, date)
	if err != nil {
		return nil, err
	}
	p := s.plannerFor(date)
	slots := p.ComputeLayout(blocks, column)

	out := make([]Placement, 0, len(slots))
	for _, b := range blocks {
		slot, ok := slots[b.ID]
		if !ok {
			continue
		}
		out = append(out, Placement{Block: b, Slot: slot})
	}
	return out, nil
}

func (s *dayService) Add(ctx context.Context, draft domain.TimeBlock) (created *domain.TimeBlock, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"column": string(draft.Column), "date": draft.Date}
	defer func() { observe(ctx, s.observer, "add-block", startedAt, fields, &err) }()

	if draft.IsScheduled() {
		if err = domain.ValidateDate(draft.Date); err != nil {
			return nil, err
		}
	}
	intent := s.plannerFor(draft.Date).AddBlock(draft)
	if err = s.Apply(ctx, intent.Batch()); err != nil {
		return nil, err
	}
	fields["id"] = intent.Block.ID
	return &intent.Block, nil
}

func (s *dayService) Update(ctx context.Context, b domain.TimeBlock) (batch domain.MutationBatch, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"id": b.ID}
	defer func() { observe(ctx, s.observer, "update-block", startedAt, fields, &err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txBlocks := repository.NewSQLiteBlockRepo(tx)
		prev, err := txBlocks.GetByID(ctx, b.ID)
		if err != nil {
			return err
		}
		all, err := collect(ctx, txBlocks, prev)
		if err != nil {
			return err
		}
		b.CreatedAt = prev.CreatedAt
		batch = s.plannerFor(prev.Date).UpdateBlock(b, all)
		return applyBatch(ctx, txBlocks, batch)
	})
	fields["updates"] = len(batch.Updates)
	return batch, err
}

func (s *dayService) SetStatus(ctx context.Context, id string, status domain.BlockStatus) (batch domain.MutationBatch, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"id": id, "status": string(status)}
	defer func() { observe(ctx, s.observer, "set-status", startedAt, fields, &err) }()

	if !domain.ValidStatuses[status] {
		return batch, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidBlock, status)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txBlocks := repository.NewSQLiteBlockRepo(tx)
		b, err := txBlocks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		all, err := collect(ctx, txBlocks, b)
		if err != nil {
			return err
		}
		batch = s.plannerFor(b.Date).ApplyStatusTransition(*b, status, all)
		return applyBatch(ctx, txBlocks, batch)
	})
	fields["creates"] = len(batch.Creates)
	fields["deletes"] = len(batch.Deletes)
	return batch, err
}

func (s *dayService) Delete(ctx context.Context, id string) (batch domain.MutationBatch, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"id": id}
	defer func() { observe(ctx, s.observer, "delete-block", startedAt, fields, &err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txBlocks := repository.NewSQLiteBlockRepo(tx)
		b, err := txBlocks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		all, err := collect(ctx, txBlocks, b)
		if err != nil {
			return err
		}
		batch = s.plannerFor(b.Date).DeleteBlock(id, all)
		return applyBatch(ctx, txBlocks, batch)
	})
	fields["deletes"] = len(batch.Deletes)
	return batch, err
}

// Shift replays a drag of deltaMinutes through the gesture controller so
// the command line snaps and clamps exactly like the board does.
func (s *dayService) Shift(ctx context.Context, id string, kind gesture.Kind, deltaMinutes int) (moved *domain.TimeBlock, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"id": id, "kind": string(kind), "delta": deltaMinutes}
	defer func() { observe(ctx, s.observer, "shift-block", startedAt, fields, &err) }()

	if kind == gesture.Create {
		return nil, fmt.Errorf("shift: %q is not an edit gesture", kind)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txBlocks := repository.NewSQLiteBlockRepo(tx)
		b, err := txBlocks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !b.IsScheduled() {
			return fmt.Errorf("block %s: %w", id, ErrNotScheduled)
		}

		p := s.plannerFor(b.Date)
		h, ok := p.BeginGesture(planner.GestureRequest{Kind: kind, BlockID: id, Column: b.Column}, []domain.TimeBlock{*b})
		if !ok {
			return fmt.Errorf("shift: cannot %s block %s", kind, id)
		}
		p.UpdateGesture(h, gesture.Pointer{Y: float64(deltaMinutes) * p.Scale().PixelsPerMinute})
		intent := p.CommitGesture(h)
		if intent == nil {
			moved = b
			return nil
		}
		moved = &intent.Block
		return applyBatch(ctx, txBlocks, intent.Batch())
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

func (s *dayService) Schedule(ctx context.Context, id, date string, minute int, column domain.Column) (scheduled *domain.TimeBlock, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"id": id, "date": date, "minute": minute, "column": string(column)}
	defer func() { observe(ctx, s.observer, "schedule-block", startedAt, fields, &err) }()

	if err = domain.ValidateDate(date); err != nil {
		return nil, err
	}
	if !domain.ValidColumns[column] {
		return nil, fmt.Errorf("%w: unknown column %q", domain.ErrInvalidBlock, column)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txBlocks := repository.NewSQLiteBlockRepo(tx)
		b, err := txBlocks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		intent := s.plannerFor(date).ScheduleBlock(*b, minute, column)
		scheduled = &intent.Block
		return applyBatch(ctx, txBlocks, intent.Batch())
	})
	if err != nil {
		return nil, err
	}
	return scheduled, nil
}

func (s *dayService) DropGoal(ctx context.Context, goalID, milestoneID, date string, minute int, column domain.Column) (created *domain.TimeBlock, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"goal": goalID, "milestone": milestoneID, "date": date}
	defer func() { observe(ctx, s.observer, "drop-goal", startedAt, fields, &err) }()

	if err = domain.ValidateDate(date); err != nil {
		return nil, err
	}
	var g *domain.Goal
	g, err = s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if milestoneID != "" {
		if _, ok := g.Milestone(milestoneID); !ok {
			err = fmt.Errorf("milestone %s of goal %s: %w", milestoneID, goalID, repository.ErrNotFound)
			return nil, err
		}
	}
	intent := s.plannerFor(date).DropGoal(g, milestoneID, minute, column)
	if err = s.Apply(ctx, intent.Batch()); err != nil {
		return nil, err
	}
	fields["duration"] = intent.Block.Duration
	return &intent.Block, nil
}

// RecordDeviceActivity stores an entry reported by a device tracker on the
// Actual timeline.
func (s *dayService) RecordDeviceActivity(ctx context.Context, b domain.TimeBlock) (*domain.TimeBlock, error) {
	if b.DeviceSource == domain.DeviceNone {
		return nil, fmt.Errorf("%w: device activity needs a source", domain.ErrInvalidBlock)
	}
	b.Column = domain.ColumnDeviceLog
	b.Status = domain.StatusCompleted
	b.RelatedPlanID = ""
	return s.Add(ctx, b)
}

// Apply validates and persists batch in one transaction.
func (s *dayService) Apply(ctx context.Context, batch domain.MutationBatch) error {
	if batch.IsEmpty() {
		return nil
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return applyBatch(ctx, repository.NewSQLiteBlockRepo(tx), batch)
	})
}

// applyBatch writes deletes, then updates, then creates. Every written
// block is validated first so a bad batch never reaches the database.
func applyBatch(ctx context.Context, blocks repository.BlockRepo, batch domain.MutationBatch) error {
	for i := range batch.Updates {
		if err := batch.Updates[i].Validate(); err != nil {
			return fmt.Errorf("updating %s: %w", batch.Updates[i].ID, err)
		}
	}
	for i := range batch.Creates {
		if err := batch.Creates[i].Validate(); err != nil {
			return fmt.Errorf("creating %s: %w", batch.Creates[i].ID, err)
		}
	}

	for _, id := range batch.Deletes {
		if err := blocks.Delete(ctx, id); err != nil {
			return err
		}
	}
	for i := range batch.Updates {
		if err := blocks.Update(ctx, &batch.Updates[i]); err != nil {
			return err
		}
	}
	for i := range batch.Creates {
		if err := blocks.Create(ctx, &batch.Creates[i]); err != nil {
			return err
		}
	}
	return nil
}

// collect loads the collection the core reasons about for b: the blocks of
// b's day (or the backlog) plus everything linked to b.
func collect(ctx context.Context, blocks repository.BlockRepo, b *domain.TimeBlock) ([]domain.TimeBlock, error) {
	var (
		all []domain.TimeBlock
		err error
	)
	if b.IsScheduled() {
		all, err = blocks.ListByDate(ctx, b.Date)
	} else {
		all, err = blocks.ListBacklog(ctx)
	}
	if err != nil {
		return nil, err
	}

	related, err := blocks.ListRelated(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(all))
	for _, x := range all {
		seen[x.ID] = true
	}
	for _, r := range related {
		if !seen[r.ID] {
			all = append(all, r)
		}
	}
	return all, nil
}
